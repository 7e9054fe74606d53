package oracle

import (
	"testing"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func answersScored(scores ...int) []model.Answer {
	answers := make([]model.Answer, len(scores))
	for i, score := range scores {
		answers[i] = model.Answer{QuestionID: string(rune('1' + i)), Score: score}
	}
	return answers
}

func TestFinalVerdict(t *testing.T) {
	sixAnswers := answersScored(80, 70, 90, 60, 50, 40) // mean 65

	tests := []struct {
		name        string
		answers     []model.Answer
		verdict     *Summary
		wantScore   int
		wantSummary string
	}{
		{
			name:        "lower model score loses to the average",
			answers:     sixAnswers,
			verdict:     &Summary{Score: 50, Summary: "Weak overall."},
			wantScore:   65,
			wantSummary: "Interview completed with 6 questions answered. Average score: 65/100",
		},
		{
			name:        "equal model score still loses to the average",
			answers:     sixAnswers,
			verdict:     &Summary{Score: 65, Summary: "About average."},
			wantScore:   65,
			wantSummary: "Interview completed with 6 questions answered. Average score: 65/100",
		},
		{
			name:        "higher model score wins with its prose",
			answers:     sixAnswers,
			verdict:     &Summary{Score: 82, Summary: "Strong technical depth across all answers."},
			wantScore:   82,
			wantSummary: "Strong technical depth across all answers.",
		},
		{
			name:        "no verdict degrades to the average",
			answers:     answersScored(70, 70, 70),
			verdict:     nil,
			wantScore:   70,
			wantSummary: "Interview completed with 3 questions answered. Average score: 70/100",
		},
		{
			name:        "no answers scores zero",
			answers:     nil,
			verdict:     &Summary{Score: 90, Summary: "Should never apply."},
			wantScore:   0,
			wantSummary: "No answers provided during the interview.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, summary := FinalVerdict(tt.answers, tt.verdict)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantSummary, summary)
		})
	}
}
