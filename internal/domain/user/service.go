package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Nickname string
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("username must be 3-50 characters")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		nickname = username
	}

	created := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     nickname,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	found, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		// Never leak whether the username exists.
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return found, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	Nickname *string
	Avatar   *string
	Phone    *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		nickname := strings.TrimSpace(*input.Nickname)
		if nickname == "" {
			return nil, fmt.Errorf("nickname cannot be empty")
		}
		found.Nickname = nickname
	}
	if input.Avatar != nil {
		found.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.Phone != nil {
		found.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := s.repo.Update(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	if len(next) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	found.PasswordHash = string(hash)
	return s.repo.Update(ctx, found)
}
