package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AccountService coordinates signup, login, profile and admin status flows.
// It is the only caller of the password hasher and the token manager.
type AccountService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, users repository.UserRepository) *AccountService {
	return &AccountService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup creates a new account with role=user, status=active and issues a
// bearer token for it.
func (s *AccountService) Signup(ctx context.Context, fullName, email, password string) (*domain.User, string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("User already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", apperrors.NewConflict("User already exists")
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same message so the response body does not reveal
// which accounts exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized("Invalid credentials")
	}

	if user.Status == domain.StatusInactive {
		return nil, "", apperrors.NewForbidden("Account is deactivated")
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// CurrentUser reloads the user by id.
func (s *AccountService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields. Empty strings keep the previous
// value; an email change to an address owned by another account fails, while
// re-submitting the current email is a no-op success.
func (s *AccountService) UpdateProfile(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, apperrors.NewInternalError(err)
	}

	if email != "" && email != user.Email {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, apperrors.NewConflict("Email already in use")
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if email != "" {
		user.Email = email
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
// No token rotation occurs; previously issued tokens stay valid.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User")
		}
		return apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListUsers returns a page of users sorted by creation time descending,
// plus the total count.
func (s *AccountService) ListUsers(ctx context.Context, page, limit int) ([]*domain.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}

	users, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return users, total, nil
}

// SetStatus activates or deactivates an account. Applying an already-current
// status is a no-op success.
func (s *AccountService) SetStatus(ctx context.Context, userID string, status domain.Status) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, apperrors.NewInternalError(err)
	}

	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
