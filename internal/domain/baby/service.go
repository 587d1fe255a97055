package baby

import (
	"context"
	"fmt"
	"strings"
	"time"

	"babycare-go/internal/domain/family"
	"github.com/google/uuid"
)

// AccessGate is the slice of the family core this service consumes. Membership
// decisions are never made here.
type AccessGate interface {
	Authorize(ctx context.Context, userID, familyID string) (bool, error)
}

type Service struct {
	repo   Repository
	gate   AccessGate
	limits family.Limits
}

func NewService(repo Repository, gate AccessGate, limits family.Limits) *Service {
	return &Service{repo: repo, gate: gate, limits: limits}
}

type CreateInput struct {
	FamilyID    string
	Name        string
	Gender      string
	Birthdate   time.Time
	Avatar      string
	Description string
	BirthWeight *float64
	BirthHeight *float64
}

// AddBaby creates a child profile in the family. The child-count ceiling is
// checked under a row lock on the family record.
func (s *Service) AddBaby(ctx context.Context, userID string, input CreateInput) (*Baby, error) {
	allowed, err := s.gate.Authorize(ctx, userID, input.FamilyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoFamilyAccess
	}

	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < 1 || len([]rune(name)) > 20 {
		return nil, fmt.Errorf("name must be 1-20 characters")
	}
	if !ValidGender(input.Gender) {
		return nil, fmt.Errorf("gender must be %q or %q", GenderMale, GenderFemale)
	}
	if !input.Birthdate.Before(time.Now()) {
		return nil, fmt.Errorf("birthdate must be in the past")
	}

	created := Baby{
		ID:          uuid.NewString(),
		FamilyID:    input.FamilyID,
		Name:        name,
		Gender:      input.Gender,
		Birthdate:   input.Birthdate,
		Avatar:      strings.TrimSpace(input.Avatar),
		Description: strings.TrimSpace(input.Description),
		BirthWeight: input.BirthWeight,
		BirthHeight: input.BirthHeight,
	}
	if input.BirthWeight != nil {
		created.CurrentWeight = input.BirthWeight
	}
	if input.BirthHeight != nil {
		created.CurrentHeight = input.BirthHeight
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockFamily(ctx, input.FamilyID); err != nil {
			return err
		}
		count, err := tx.CountByFamily(ctx, input.FamilyID)
		if err != nil {
			return err
		}
		if s.limits.BabyCapacityReached(count) {
			return ErrTooManyBabies
		}
		return tx.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *Service) ListBabies(ctx context.Context, userID, familyID string) ([]Baby, error) {
	allowed, err := s.gate.Authorize(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoFamilyAccess
	}

	return s.repo.ListByFamily(ctx, familyID)
}

func (s *Service) GetBaby(ctx context.Context, userID, babyID string) (*Baby, error) {
	found, err := s.repo.GetByID(ctx, babyID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.gate.Authorize(ctx, userID, found.FamilyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoFamilyAccess
	}

	return found, nil
}

type UpdateInput struct {
	Name          *string
	Avatar        *string
	Description   *string
	CurrentWeight *float64
	CurrentHeight *float64
}

func (s *Service) UpdateBaby(ctx context.Context, userID, babyID string, input UpdateInput) (*Baby, error) {
	found, err := s.GetBaby(ctx, userID, babyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len([]rune(name)) < 1 || len([]rune(name)) > 20 {
			return nil, fmt.Errorf("name must be 1-20 characters")
		}
		found.Name = name
	}
	if input.Avatar != nil {
		found.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.Description != nil {
		found.Description = strings.TrimSpace(*input.Description)
	}
	if input.CurrentWeight != nil {
		found.CurrentWeight = input.CurrentWeight
	}
	if input.CurrentHeight != nil {
		found.CurrentHeight = input.CurrentHeight
	}

	if err := s.repo.Update(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}
