package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	CompletionBatchSize    = 50
	CompletionBatchTimeout = 2 * time.Second
	CompletionPollTimeout  = 1 * time.Second
)

// CompletionPayload is one finished interview queued for persistence.
type CompletionPayload struct {
	CandidateID string `json:"candidate_id"`
	Score       int    `json:"score"`
	Summary     string `json:"summary"`
}

// CompletionWorker consumes persist_completions_queue and stamps the final
// score, summary, status, and end time on candidates. Completions are
// batched; the interviewer dashboard reads PostgreSQL, so a short
// persistence lag is acceptable.
type CompletionWorker struct {
	candidateRepo *repository.CandidateRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewCompletionWorker creates a new CompletionWorker.
func NewCompletionWorker(candidateRepo *repository.CandidateRepository, rdb *redis.Client, log zerolog.Logger) *CompletionWorker {
	return &CompletionWorker{
		candidateRepo: candidateRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "completion_worker").Logger(),
	}
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *CompletionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("CompletionWorker started")

	batch := make([]*CompletionPayload, 0, CompletionBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= CompletionBatchSize || time.Since(lastFlush) >= CompletionBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, CompletionPollTimeout, config.WorkerKey.PersistCompletionsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p CompletionPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *CompletionWorker) flushSafe(ctx context.Context, batch []*CompletionPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkComplete(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk completion update failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistCompletionsQueue, raw)
			}
		}
		return
	}
}

func (w *CompletionWorker) bulkComplete(ctx context.Context, batch []*CompletionPayload) error {
	n := len(batch)

	ids := make([]uuid.UUID, 0, n)
	scores := make([]int, 0, n)
	summaries := make([]string, 0, n)

	for _, p := range batch {
		id, err := uuid.Parse(p.CandidateID)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		scores = append(scores, p.Score)
		summaries = append(summaries, p.Summary)
	}

	return w.candidateRepo.BatchComplete(ctx, ids, scores, summaries)
}

func (w *CompletionWorker) persistSingle(ctx context.Context, p *CompletionPayload) error {
	id, err := uuid.Parse(p.CandidateID)
	if err != nil {
		return err
	}
	return w.candidateRepo.Complete(ctx, id, p.Score, p.Summary)
}
