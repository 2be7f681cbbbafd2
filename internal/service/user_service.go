package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tasktrack/internal/auth"
	"tasktrack/internal/cache"
	errs "tasktrack/internal/errors"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
)

const (
	userCacheTTL = 5 * time.Minute

	// DefaultListLimit bounds listings when the caller supplies none.
	DefaultListLimit = 100
)

// UserService exposes the user directory: registration, lookup, and
// owner-only update and delete.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	Update(ctx context.Context, id uint, actor *model.User, username, email, password string) (*model.User, error)
	Delete(ctx context.Context, id uint, actor *model.User) error
}

type userService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, cache *cache.Client) UserService {
	return &userService{users: users, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a user with a hashed password. Username and email must
// both be unique; when one candidate row collides on both, the username
// conflict wins. A duplicate-key error from the insert itself (two
// concurrent registrations racing past the pre-check) is remapped to the
// same conflict outcomes.
func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if existing != nil {
		if existing.Username == username {
			return nil, errs.ErrUsernameTaken
		}
		return nil, errs.ErrEmailTaken
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflictKind(ctx, username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// conflictKind decides which uniqueness constraint a raced insert hit.
func (s *userService) conflictKind(ctx context.Context, username string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return errs.ErrUsernameTaken
	}
	return errs.ErrEmailTaken
}

// Get returns a user by id, through a short-lived redis cache. The cached
// copy is the JSON projection, so it never contains the password hash and
// is only fit for read paths.
func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// List returns users in insertion order. Offset defaults to 0 and limit to
// DefaultListLimit; negatives are rejected at the transport boundary.
func (s *userService) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit)
}

// Update overwrites username, email, and password on the actor's own
// record. Self-service only: any other target id is denied before
// existence is checked. The write is a single UPDATE, so a uniqueness
// violation leaves the record untouched.
func (s *userService) Update(ctx context.Context, id uint, actor *model.User, username, email, password string) (*model.User, error) {
	if actor.ID != id {
		return nil, errs.ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.Username = username
	user.Email = email
	user.Password = hashed
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrCredentialsTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// Delete removes the actor's own record along with every owned task in a
// single transaction.
func (s *userService) Delete(ctx context.Context, id uint, actor *model.User) error {
	if actor.ID != id {
		return errs.ErrPermissionDenied
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.users.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
