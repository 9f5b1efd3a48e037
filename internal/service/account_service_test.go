package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
}

func newTestService() (*AccountService, repository.UserRepository) {
	repo := repository.NewMemoryUserRepository()
	return NewAccountService(testConfig(), repo), repo
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.HTTPStatus
}

func TestSignup(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, domain.StatusActive, user.Status)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Nil(t, user.LastLogin)

	// token must resolve back to the new user
	userID, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// fresh email signs up exactly once
	_, _, err = svc.Signup(ctx, "Other", "ana@x.com", "secret2")
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
	assert.Equal(t, "User already exists", apperrors.ToDomainError(err).Message)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, _, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)
	require.NotNil(t, user.LastLogin)

	// lastLogin persisted
	reloaded, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLogin)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@x.com", "secret1")
	_, _, wrongErr := svc.Login(ctx, "ana@x.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, 401, statusOf(t, unknownErr))
	assert.Equal(t, 401, statusOf(t, wrongErr))
	assert.Equal(t,
		apperrors.ToDomainError(unknownErr).Message,
		apperrors.ToDomainError(wrongErr).Message,
	)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, user.ID, domain.StatusInactive)
	require.NoError(t, err)

	// correct credentials still rejected while inactive
	_, _, err = svc.Login(ctx, "ana@x.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, 403, statusOf(t, err))
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	_, _, err = svc.Signup(ctx, "Bob", "bob@x.com", "secret2")
	require.NoError(t, err)

	// empty strings keep previous values
	updated, err := svc.UpdateProfile(ctx, user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.FullName)
	assert.Equal(t, "ana@x.com", updated.Email)

	// resubmitting the current email is not a conflict
	_, err = svc.UpdateProfile(ctx, user.ID, "", "ana@x.com")
	require.NoError(t, err)

	// another user's email is
	_, err = svc.UpdateProfile(ctx, user.ID, "", "bob@x.com")
	require.Error(t, err)
	assert.Equal(t, "Email already in use", apperrors.ToDomainError(err).Message)

	updated, err = svc.UpdateProfile(ctx, user.ID, "Ana Maria", "ana.maria@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.FullName)
	assert.Equal(t, "ana.maria@x.com", updated.Email)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "secret2")
	require.Error(t, err)
	assert.Equal(t, 401, statusOf(t, err))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret1", "secret2"))

	_, _, err = svc.Login(ctx, "ana@x.com", "secret1")
	require.Error(t, err)
	_, _, err = svc.Login(ctx, "ana@x.com", "secret2")
	require.NoError(t, err)
}

func TestSetStatusIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	deactivated, err := svc.SetStatus(ctx, user.ID, domain.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, deactivated.Status)

	// deactivating twice is still a success
	deactivated, err = svc.SetStatus(ctx, user.ID, domain.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, deactivated.Status)

	reactivated, err := svc.SetStatus(ctx, user.ID, domain.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, reactivated.Status)

	_, err = svc.SetStatus(ctx, "missing", domain.StatusActive)
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestListUsersPagination(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, _, err := svc.Signup(ctx, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@x.com", i), "secret1")
		require.NoError(t, err)
	}

	users, total, err := svc.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, users, 10)
	assert.Equal(t, 15, total)

	users, total, err = svc.ListUsers(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, users, 5)
	assert.Equal(t, 15, total)

	// invalid values fall back to defaults
	users, _, err = svc.ListUsers(ctx, 0, -3)
	require.NoError(t, err)
	assert.Len(t, users, 10)
}

func TestEnsureAdminUser(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	cfg := testConfig()
	cfg.Admin = config.AdminConfig{Email: "admin@x.com", Password: "admin123", FullName: "Admin"}
	ctx := context.Background()

	require.NoError(t, EnsureAdminUser(ctx, repo, cfg, zap.NewNop()))

	admin, err := repo.GetByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, domain.StatusActive, admin.Status)

	// second run is a no-op
	require.NoError(t, EnsureAdminUser(ctx, repo, cfg, zap.NewNop()))
	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
