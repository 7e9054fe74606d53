package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Gemini implements Oracle on top of the Google Gemini API. When no API key
// is configured the client is left nil and every call returns
// ErrNotConfigured — the collaborator being unavailable is never fatal.
type Gemini struct {
	client    *genai.Client
	modelName string
	log       zerolog.Logger
}

// NewGemini creates the Gemini-backed oracle. A missing API key yields a
// disabled (but non-nil) oracle.
func NewGemini(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Gemini, error) {
	g := &Gemini{
		modelName: cfg.GeminiModel,
		log:       log.With().Str("component", "oracle").Logger(),
	}

	if cfg.GeminiAPIKey == "" {
		g.log.Warn().Msg("GEMINI_API_KEY not set — AI-dependent actions are disabled")
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client

	g.log.Info().Str("model", cfg.GeminiModel).Msg("Gemini oracle ready")
	return g, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Enabled reports whether an API key was configured.
func (g *Gemini) Enabled() bool { return g.client != nil }

// ParseResume sends the raw file alongside the extraction prompt and decodes
// the structured reply.
func (g *Gemini) ParseResume(ctx context.Context, data []byte, mimeType string) (*model.ParsedResume, error) {
	if g.client == nil {
		return nil, ErrNotConfigured
	}

	m := g.jsonModel()
	resp, err := m.GenerateContent(ctx,
		genai.Text(resumePrompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	raw := extractJSONObject(cleanJSONBlock(text))
	if raw == "" {
		return nil, fmt.Errorf("parse resume: %w", ErrMalformedResponse)
	}

	var parsed model.ParsedResume
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		g.log.Error().Err(err).Msg("Resume response is not valid JSON")
		return nil, fmt.Errorf("parse resume: %w", ErrMalformedResponse)
	}
	return &parsed, nil
}

// geminiQuestion matches the JSON shape the prompt asks for.
type geminiQuestion struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Difficulty model.Difficulty `json:"difficulty"`
	TimeLimit  int              `json:"timeLimit"`
	Category   string           `json:"category"`
}

// GenerateQuestions asks for the six-question sequence and normalizes the
// result: IDs are renumbered 1..6 and time limits are pinned to the fixed
// per-difficulty values regardless of what the model claims.
func (g *Gemini) GenerateQuestions(ctx context.Context, name, resumeText string) ([]model.Question, error) {
	if g.client == nil {
		return nil, ErrNotConfigured
	}

	m := g.jsonModel()
	resp, err := m.GenerateContent(ctx, genai.Text(questionsPrompt(name, resumeText)))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	raw := extractJSONArray(cleanJSONBlock(text))
	if raw == "" {
		if looksInsufficient(text) {
			return nil, ErrInsufficientResume
		}
		return nil, fmt.Errorf("generate questions: %w", ErrMalformedResponse)
	}

	var items []geminiQuestion
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		g.log.Error().Err(err).Msg("Questions response is not valid JSON")
		return nil, fmt.Errorf("generate questions: %w", ErrMalformedResponse)
	}
	if len(items) != model.QuestionsPerInterview {
		return nil, fmt.Errorf("generate questions: expected %d questions, got %d: %w",
			model.QuestionsPerInterview, len(items), ErrMalformedResponse)
	}

	questions := make([]model.Question, len(items))
	for i, item := range items {
		difficulty := item.Difficulty
		switch difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			difficulty = model.DifficultyMedium
		}
		questions[i] = model.Question{
			ID:         strconv.Itoa(i + 1),
			Text:       item.Text,
			Difficulty: difficulty,
			TimeLimit:  model.TimeLimitFor(difficulty),
			Category:   item.Category,
		}
	}
	return questions, nil
}

// EvaluateAnswer scores a single answer. An unparseable reply degrades to
// the fixed neutral evaluation instead of an error; transport failures are
// returned as-is so the caller can retry.
func (g *Gemini) EvaluateAnswer(ctx context.Context, q model.Question, answer string) (Evaluation, error) {
	if g.client == nil {
		return Evaluation{}, ErrNotConfigured
	}

	m := g.jsonModel()
	resp, err := m.GenerateContent(ctx, genai.Text(evaluatePrompt(q, answer)))
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluate answer: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluate answer: %w", err)
	}

	raw := extractJSONObject(cleanJSONBlock(text))
	if raw == "" {
		g.log.Warn().Msg("Evaluation response had no JSON object, using fallback")
		return FallbackEvaluation(), nil
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		g.log.Warn().Err(err).Msg("Evaluation response unparseable, using fallback")
		return FallbackEvaluation(), nil
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 100 {
		eval.Score = 100
	}
	if strings.TrimSpace(eval.Feedback) == "" {
		eval.Feedback = "No feedback provided."
	}
	return eval, nil
}

// GenerateSummary produces the overall verdict. The score attached to the
// summary is the rounded mean of the per-answer scores; the prose comes from
// the model.
func (g *Gemini) GenerateSummary(ctx context.Context, candidate model.Candidate, answers []model.Answer) (Summary, error) {
	if g.client == nil {
		return Summary{}, ErrNotConfigured
	}

	average := MeanScore(answers)

	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.1)
	resp, err := m.GenerateContent(ctx, genai.Text(summaryPrompt(candidate, answers, average)))
	if err != nil {
		return Summary{}, fmt.Errorf("generate summary: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return Summary{}, fmt.Errorf("generate summary: %w", err)
	}

	return Summary{Score: average, Summary: strings.TrimSpace(text)}, nil
}

// MeanScore returns the rounded mean of the answer scores, 0 for no answers.
func MeanScore(answers []model.Answer) int {
	if len(answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range answers {
		total += a.Score
	}
	return int(math.Round(float64(total) / float64(len(answers))))
}

// FinalVerdict settles the closing score and summary. The model's verdict
// replaces the rounded mean only when it claims a strictly higher score;
// otherwise the mean stands with a fixed summary line. A nil verdict (the
// model failed or is disabled) degrades to the mean the same way.
func FinalVerdict(answers []model.Answer, verdict *Summary) (int, string) {
	if len(answers) == 0 {
		return 0, "No answers provided during the interview."
	}
	average := MeanScore(answers)
	if verdict != nil && verdict.Score > average {
		return verdict.Score, verdict.Summary
	}
	return average, fmt.Sprintf("Interview completed with %d questions answered. Average score: %d/100",
		len(answers), average)
}

func (g *Gemini) jsonModel() *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.1) // Low temperature for consistent output
	m.ResponseMIMEType = "application/json"
	return m
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
