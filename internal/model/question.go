package model

// Difficulty buckets for generated interview questions. The per-question
// time limit is fixed by difficulty: easy 20s, medium 60s, hard 120s.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TimeLimitFor returns the countdown in seconds for a difficulty bucket.
func TimeLimitFor(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 20
	case DifficultyMedium:
		return 60
	case DifficultyHard:
		return 120
	default:
		return 60
	}
}

// QuestionsPerInterview is the fixed interview length: 2 easy, 2 medium,
// 2 hard, generated once at interview start.
const QuestionsPerInterview = 6

// Question is a single generated interview question. Immutable once generated.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"time_limit"`
	Category   string     `json:"category"`
}
