package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnswerPayload is one scored answer queued for persistence.
type AnswerPayload struct {
	CandidateID string    `json:"candidate_id"`
	QuestionID  string    `json:"question_id"`
	Text        string    `json:"text"`
	Score       int       `json:"score"`
	Feedback    string    `json:"feedback"`
	TimeSpent   int       `json:"time_spent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AnswerWorker consumes persist_answers_queue and writes answers to
// PostgreSQL. Persistence is asynchronous so a slow database never blocks
// the interview flow; Redis holds the authoritative session state meanwhile.
type AnswerWorker struct {
	candidateRepo *repository.CandidateRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewAnswerWorker creates a new AnswerWorker.
func NewAnswerWorker(candidateRepo *repository.CandidateRepository, rdb *redis.Client, log zerolog.Logger) *AnswerWorker {
	return &AnswerWorker{
		candidateRepo: candidateRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "answer_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AnswerWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AnswerWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistAnswersQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload AnswerPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persist(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Str("candidate_id", payload.CandidateID).
			Str("question_id", payload.QuestionID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *AnswerWorker) persist(ctx context.Context, p *AnswerPayload) error {
	candidateID, err := uuid.Parse(p.CandidateID)
	if err != nil {
		return err
	}

	return w.candidateRepo.AppendAnswer(ctx, candidateID, model.Answer{
		QuestionID:  p.QuestionID,
		Text:        p.Text,
		Score:       p.Score,
		Feedback:    p.Feedback,
		TimeSpent:   p.TimeSpent,
		SubmittedAt: p.SubmittedAt,
	})
}

// drain processes every remaining queued answer during shutdown.
func (w *AnswerWorker) drain(ctx context.Context) {
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAnswersQueue).Result()
		if err != nil {
			return
		}

		var payload AnswerPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Unmarshal error during drain")
			continue
		}

		if err := w.persist(ctx, &payload); err != nil {
			w.log.Error().Err(err).
				Str("candidate_id", payload.CandidateID).
				Msg("Persist error during drain, requeueing")
			w.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, result)
			return
		}
	}
}
