package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/aptivohq/aptivo-backend/internal/config"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// TokenType distinguishes candidate vs staff tokens.
type TokenType string

const (
	TokenTypeCandidate TokenType = "candidate"
	TokenTypeStaff     TokenType = "staff"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   TokenType `json:"token_type"`
	AttemptID   string    `json:"attempt_id,omitempty"`   // Candidate only
	SessionID   string    `json:"session_id,omitempty"`   // Candidate only
	CandidateID string    `json:"candidate_id,omitempty"` // Candidate only
	StaffID     int       `json:"staff_id,omitempty"`     // Staff only
	Role        string    `json:"role,omitempty"`         // Staff only
}

// AuthService handles PIN/password checks, JWTs and session validation.
type AuthService struct {
	cfg         *config.Config
	rdb         *redis.Client
	sessionRepo *repository.AttemptSessionRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, sessionRepo *repository.AttemptSessionRepository) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, sessionRepo: sessionRepo}
}

// HashSecret hashes a PIN or password with the configured bcrypt cost.
func (s *AuthService) HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckSecret compares a plaintext PIN or password against a bcrypt hash.
func (s *AuthService) CheckSecret(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateCandidateToken creates a JWT bound to one attempt session. The
// token dies with the session: every request re-checks that the session is
// still the ACTIVE one for the attempt.
func (s *AuthService) GenerateCandidateToken(attemptID, sessionID, candidateID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   candidateID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.CandidateJWTExpiry)),
		},
		TokenType:   TokenTypeCandidate,
		AttemptID:   attemptID.String(),
		SessionID:   sessionID.String(),
		CandidateID: candidateID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// GenerateStaffToken creates a JWT for a staff user with the role embedded.
func (s *AuthService) GenerateStaffToken(staffID int, role model.StaffRole) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(staffID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.StaffJWTExpiry)),
		},
		TokenType: TokenTypeStaff,
		StaffID:   staffID,
		Role:      string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
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

// ValidateCandidateSession checks that the token's session is still the
// ACTIVE session for the attempt. Reads through the Redis cache with a
// PostgreSQL fallback: a cache miss self-heals, a mismatch means the session
// was revoked by a takeover lock.
func (s *AuthService) ValidateCandidateSession(ctx context.Context, attemptID, sessionID uuid.UUID) error {
	cacheKey := config.CacheKey.AttemptActiveSessionKey(attemptID.String())

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		if cached != sessionID.String() {
			return ErrSessionRevoked
		}
		return nil
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("check session cache: %w", err)
	}

	// Cache miss: fall back to the source of truth and self-heal.
	active, dbErr := s.sessionRepo.GetActive(ctx, attemptID)
	if dbErr != nil {
		return ErrSessionRevoked
	}
	_ = s.rdb.Set(ctx, cacheKey, active.ID.String(), 0)

	if active.ID != sessionID {
		return ErrSessionRevoked
	}
	return nil
}

// CacheActiveSession stores the ACTIVE session ID for an attempt. Called
// after start/resume so the per-request check stays off PostgreSQL.
func (s *AuthService) CacheActiveSession(ctx context.Context, attemptID, sessionID uuid.UUID) {
	_ = s.rdb.Set(ctx, config.CacheKey.AttemptActiveSessionKey(attemptID.String()), sessionID.String(), 0)
}

// DropActiveSession removes the cached session for an attempt. Called on
// lock/abort so a revoked device fails fast.
func (s *AuthService) DropActiveSession(ctx context.Context, attemptID uuid.UUID) {
	_ = s.rdb.Del(ctx, config.CacheKey.AttemptActiveSessionKey(attemptID.String()))
}
