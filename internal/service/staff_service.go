package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// StaffService handles staff login and account management.
type StaffService struct {
	db          *pgxpool.Pool
	staffRepo   *repository.StaffRepository
	authService *AuthService
}

// NewStaffService creates a new StaffService.
func NewStaffService(db *pgxpool.Pool, staffRepo *repository.StaffRepository, authService *AuthService) *StaffService {
	return &StaffService{db: db, staffRepo: staffRepo, authService: authService}
}

// Login verifies credentials and returns a staff JWT plus the user.
func (s *StaffService) Login(ctx context.Context, req *model.StaffLoginRequest) (string, *model.StaffUser, error) {
	user, err := s.staffRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load staff user: %w", err)
	}
	if err := s.authService.CheckSecret(user.PasswordHash, req.Password); err != nil {
		return "", nil, err
	}

	token, err := s.authService.GenerateStaffToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// Create adds a staff user with a hashed password.
func (s *StaffService) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.StaffUser, error) {
	hash, err := s.authService.HashSecret(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.StaffUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.StaffRole(req.Role),
	}
	if err := s.staffRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create staff user: %w", err)
	}
	return user, nil
}

// List returns all staff users.
func (s *StaffService) List(ctx context.Context) ([]model.StaffUser, error) {
	return s.staffRepo.List(ctx)
}

// Delete removes a staff user.
func (s *StaffService) Delete(ctx context.Context, id int) error {
	return s.staffRepo.Delete(ctx, id)
}

// GetByID returns one staff user.
func (s *StaffService) GetByID(ctx context.Context, id int) (*model.StaffUser, error) {
	user, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}
