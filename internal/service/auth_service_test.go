package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tasktrack/internal/auth"
	errs "tasktrack/internal/errors"
	"tasktrack/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", 30*time.Minute)
}

func hashedUser(t *testing.T, id uint, username, password string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &model.User{ID: id, Username: username, Email: username + "@test.com", Password: hash}
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	jwtService := newTestJWTService()
	svc := NewAuthService(repo, jwtService)

	user := hashedUser(t, 1, "alice", "pw")
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	subject, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, newTestJWTService())

	user := hashedUser(t, 1, "alice", "pw")
	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestLoginUnknownUsername(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, newTestJWTService())

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestCurrentUserMissingToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, newTestJWTService())

	_, err := svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	repo.AssertNotCalled(t, "FindByUsername")
}

func TestCurrentUserInvalidToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(repo, newTestJWTService())

	_, err := svc.CurrentUser(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestCurrentUserExpiredToken(t *testing.T) {
	repo := new(MockUserRepository)
	expiredIssuer := auth.NewJWTService("test-secret", -time.Minute)
	svc := NewAuthService(repo, newTestJWTService())

	token, err := expiredIssuer.CreateAccessToken("alice")
	require.NoError(t, err)

	// Expired collapses to the same unauthenticated outcome as malformed.
	_, err = svc.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestCurrentUserUnknownSubject(t *testing.T) {
	repo := new(MockUserRepository)
	jwtService := newTestJWTService()
	svc := NewAuthService(repo, jwtService)

	token, err := jwtService.CreateAccessToken("deleted-user")
	require.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "deleted-user").Return(nil, gorm.ErrRecordNotFound)

	_, err = svc.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestCurrentUserSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	jwtService := newTestJWTService()
	svc := NewAuthService(repo, jwtService)

	user := hashedUser(t, 7, "alice", "pw")
	token, err := jwtService.CreateAccessToken("alice")
	require.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	resolved, err := svc.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "alice", resolved.Username)
}

func TestRefreshIssuesNewToken(t *testing.T) {
	repo := new(MockUserRepository)
	jwtService := newTestJWTService()
	svc := NewAuthService(repo, jwtService)

	token, err := svc.Refresh(&model.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	subject, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}
