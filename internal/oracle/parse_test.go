package oracle

import (
	"testing"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONBlock("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONBlock(`{"a":1}`))
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"score": 80}`, extractJSONObject(`Here you go: {"score": 80} hope that helps`))
	assert.Equal(t, "", extractJSONObject("no json here"))
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[1, 2, 3]`, extractJSONArray(`result: [1, 2, 3].`))
	assert.Equal(t, "", extractJSONArray("nothing"))
}

func TestLooksInsufficient(t *testing.T) {
	assert.True(t, looksInsufficient("The resume is too short to generate questions."))
	assert.True(t, looksInsufficient("Not enough information was provided"))
	assert.False(t, looksInsufficient(`[{"id":"1"}]`))
}

func TestMeanScore(t *testing.T) {
	assert.Equal(t, 0, MeanScore(nil))
	assert.Equal(t, 65, MeanScore([]model.Answer{{Score: 60}, {Score: 70}}))
	// 50+60+70 = 180/3 = 60
	assert.Equal(t, 60, MeanScore([]model.Answer{{Score: 50}, {Score: 60}, {Score: 70}}))
	// rounding up: 50+51 = 101/2 = 50.5 -> 51
	assert.Equal(t, 51, MeanScore([]model.Answer{{Score: 50}, {Score: 51}}))
}

func TestFallbackEvaluation(t *testing.T) {
	eval := FallbackEvaluation()
	assert.Equal(t, 75, eval.Score)
	assert.Equal(t, "Good answer! Consider providing more specific examples and technical details.", eval.Feedback)
}
