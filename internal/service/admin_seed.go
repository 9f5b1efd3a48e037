package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
)

// EnsureAdminUser creates the configured administrator account if it does not
// exist yet. The API offers no self-promotion path, so this seed is how the
// first admin comes to be.
func EnsureAdminUser(ctx context.Context, users repository.UserRepository, cfg config.Config, logger *zap.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	if _, err := users.GetByEmail(ctx, cfg.Admin.Email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.NewString(),
		FullName:     cfg.Admin.FullName,
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("seeded admin user", zap.String("email", cfg.Admin.Email))
	return nil
}
