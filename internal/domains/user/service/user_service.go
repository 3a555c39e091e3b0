package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"celebhub-backend/internal/domains/user/model"
	"celebhub-backend/internal/store"
)

// Service manages accounts and credential checks
type Service interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)

	// EnsureAdmin creates an administrator or promotes an existing account
	// and resets its password
	EnsureAdmin(ctx context.Context, username, password, displayName string) (*model.User, error)
}

type userService struct {
	repo       store.Repository[*model.User]
	bcryptCost int
}

func NewUserService(repo store.Repository[*model.User], bcryptCost int) Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{repo: repo, bcryptCost: bcryptCost}
}

func (s *userService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	username := req.Username()

	_, err := s.repo.FindOne(ctx, model.FieldUsername, username)
	switch {
	case err == nil:
		return nil, model.ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     username,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Save(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, model.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Str("user_id", u.ID).Msg("account created")
	return u, nil
}

// Authenticate checks credentials. Usernames match exactly; email style
// usernames also match case-insensitively since signup lowercases them.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	u, err := s.repo.FindOne(ctx, model.FieldUsername, username)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(username, "@") {
		u, err = s.repo.FindOne(ctx, model.FieldUsername, strings.ToLower(username))
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	return u, err
}

func (s *userService) EnsureAdmin(ctx context.Context, username, password, displayName string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.FindOne(ctx, model.FieldUsername, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u = &model.User{Username: username, CreatedAt: time.Now()}
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	u.PasswordHash = string(hash)
	u.IsAdmin = true
	if displayName != "" {
		u.DisplayName = displayName
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save admin: %w", err)
	}
	return u, nil
}
