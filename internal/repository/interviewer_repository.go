package repository

import (
	"context"
	"errors"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInterviewerNotFound  = errors.New("interviewer not found")
	ErrDuplicateInterviewer = errors.New("interviewer with this email already exists")
)

// InterviewerRepository handles interviewer data access.
type InterviewerRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewerRepository creates a new InterviewerRepository.
func NewInterviewerRepository(pool *pgxpool.Pool) *InterviewerRepository {
	return &InterviewerRepository{pool: pool}
}

// GetByEmail retrieves an interviewer by email.
func (r *InterviewerRepository) GetByEmail(ctx context.Context, email string) (*model.Interviewer, error) {
	i := &model.Interviewer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM interviewers WHERE email = $1`, email,
	).Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInterviewerNotFound
		}
		return nil, err
	}
	return i, nil
}

// GetByID retrieves an interviewer by ID.
func (r *InterviewerRepository) GetByID(ctx context.Context, id int) (*model.Interviewer, error) {
	i := &model.Interviewer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM interviewers WHERE id = $1`, id,
	).Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInterviewerNotFound
		}
		return nil, err
	}
	return i, nil
}

// Create inserts a new interviewer.
func (r *InterviewerRepository) Create(ctx context.Context, i *model.Interviewer) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO interviewers (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		i.Name, i.Email, i.PasswordHash,
	).Scan(&i.ID, &i.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInterviewer
		}
		return err
	}
	return nil
}
