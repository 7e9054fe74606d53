package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrDuplicateEmail    = errors.New("candidate with this email already exists")
)

// CandidateRepository handles candidate data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// Create inserts a new candidate with pending status.
func (r *CandidateRepository) Create(ctx context.Context, c *model.Candidate) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO candidates (id, name, email, phone, resume_text, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		c.ID, c.Name, c.Email, c.Phone, c.ResumeText, c.Status,
	).Scan(&c.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByID retrieves a candidate without answers.
func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, resume_text, status, score, summary,
		        interview_started_at, interview_ended_at, created_at
		 FROM candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeText, &c.Status, &c.Score, &c.Summary,
		&c.InterviewStartedAt, &c.InterviewEndedAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetDetail retrieves a candidate together with their answers in question order.
func (r *CandidateRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT question_id, text, score, feedback, time_spent, submitted_at
		 FROM answers WHERE candidate_id = $1 ORDER BY submitted_at, id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.QuestionID, &a.Text, &a.Score, &a.Feedback, &a.TimeSpent, &a.SubmittedAt); err != nil {
			return nil, err
		}
		c.Answers = append(c.Answers, a)
	}
	return c, rows.Err()
}

// List retrieves every candidate without answers, newest first.
func (r *CandidateRepository) List(ctx context.Context) ([]model.Candidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, phone, status, score, summary,
		        interview_started_at, interview_ended_at, created_at
		 FROM candidates ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Score, &c.Summary,
			&c.InterviewStartedAt, &c.InterviewEndedAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// Update applies a partial candidate update. Nil fields are left untouched.
func (r *CandidateRepository) Update(ctx context.Context, id uuid.UUID, upd model.CandidateUpdate) error {
	query := `UPDATE candidates SET `
	var args []interface{}
	argIdx := 1

	appendField := func(column string, value interface{}) {
		if argIdx > 1 {
			query += ", "
		}
		query += column + ` = $` + strconv.Itoa(argIdx)
		args = append(args, value)
		argIdx++
	}

	if upd.Name != nil {
		appendField("name", *upd.Name)
	}
	if upd.Email != nil {
		appendField("email", *upd.Email)
	}
	if upd.Phone != nil {
		appendField("phone", *upd.Phone)
	}
	if upd.ResumeText != nil {
		appendField("resume_text", *upd.ResumeText)
	}
	if argIdx == 1 {
		return nil
	}

	query += ` WHERE id = $` + strconv.Itoa(argIdx)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

// MarkStarted moves a candidate to in-progress and stamps the start time.
func (r *CandidateRepository) MarkStarted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, interview_started_at = CURRENT_TIMESTAMP
		 WHERE id = $2`,
		model.CandidateStatusInProgress, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

// AppendAnswer stores one scored answer for a candidate.
func (r *CandidateRepository) AppendAnswer(ctx context.Context, candidateID uuid.UUID, a model.Answer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answers (candidate_id, question_id, text, score, feedback, time_spent, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (candidate_id, question_id) DO NOTHING`,
		candidateID, a.QuestionID, a.Text, a.Score, a.Feedback, a.TimeSpent, a.SubmittedAt,
	)
	return err
}

// Complete records the final score and summary and stamps the end time.
func (r *CandidateRepository) Complete(ctx context.Context, id uuid.UUID, score int, summary string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, score = $2, summary = $3, interview_ended_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		model.CandidateStatusCompleted, score, summary, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

// BatchComplete applies many completions in one statement via UNNEST.
func (r *CandidateRepository) BatchComplete(ctx context.Context, ids []uuid.UUID, scores []int, summaries []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE candidates AS c
		 SET status = $4, score = v.score, summary = v.summary, interview_ended_at = CURRENT_TIMESTAMP
		 FROM (SELECT UNNEST($1::uuid[]) AS id, UNNEST($2::int[]) AS score, UNNEST($3::text[]) AS summary) AS v
		 WHERE c.id = v.id`,
		ids, scores, summaries, model.CandidateStatusCompleted,
	)
	return err
}

// CountByStatus returns candidate totals per status for the dashboard.
func (r *CandidateRepository) CountByStatus(ctx context.Context) (map[model.CandidateStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM candidates GROUP BY status`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.CandidateStatus]int)
	for rows.Next() {
		var status model.CandidateStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// AverageCompletedScore returns the mean final score across completed
// interviews, 0 when none exist.
func (r *CandidateRepository) AverageCompletedScore(ctx context.Context) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(score), 0) FROM candidates WHERE status = $1`,
		model.CandidateStatusCompleted,
	).Scan(&avg)
	return avg, err
}
