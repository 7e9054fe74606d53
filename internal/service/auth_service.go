package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenType names the audience a token was issued for.
type TokenType string

const TokenTypeInterviewer TokenType = "interviewer"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	UserID    int       `json:"user_id"`
}

// AuthService handles interviewer authentication and JWT issuance.
type AuthService struct {
	cfg             *config.Config
	rdb             *redis.Client
	interviewerRepo *repository.InterviewerRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, interviewerRepo *repository.InterviewerRepository) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, interviewerRepo: interviewerRepo}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies interviewer credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req model.InterviewerLoginRequest) (*model.InterviewerLoginResponse, error) {
	interviewer, err := s.interviewerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrInterviewerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup interviewer: %w", err)
	}

	if err := s.CheckPassword(interviewer.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.generateToken(ctx, interviewer.ID)
	if err != nil {
		return nil, err
	}

	return &model.InterviewerLoginResponse{Token: token, Interviewer: *interviewer}, nil
}

// generateToken creates a JWT for an interviewer and records the login in Redis.
func (s *AuthService) generateToken(ctx context.Context, interviewerID int) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(interviewerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeInterviewer,
		UserID:    interviewerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	// Remember the latest login, same TTL as the JWT. Informational only,
	// concurrent interviewer sessions stay valid.
	sessionKey := config.CacheKey.InterviewerSessionKey(interviewerID)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
