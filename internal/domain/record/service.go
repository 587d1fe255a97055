package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AccessGate is the family core's authorization surface.
type AccessGate interface {
	Authorize(ctx context.Context, userID, familyID string) (bool, error)
	IsCreator(ctx context.Context, userID, familyID string) (bool, error)
}

type Service struct {
	repo Repository
	gate AccessGate
}

func NewService(repo Repository, gate AccessGate) *Service {
	return &Service{repo: repo, gate: gate}
}

type CreateInput struct {
	BabyID    string
	Type      string
	Title     string
	Content   string
	MediaURLs []string
	Tags      []string
	Location  string
	Weather   string
	Mood      string
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*GrowthRecord, error) {
	if err := s.authorizeBaby(ctx, userID, input.BabyID); err != nil {
		return nil, err
	}

	if !ValidType(input.Type) {
		return nil, fmt.Errorf("unknown record type %q", input.Type)
	}
	title := strings.TrimSpace(input.Title)
	if len([]rune(title)) < 1 || len([]rune(title)) > 100 {
		return nil, fmt.Errorf("title must be 1-100 characters")
	}

	created := GrowthRecord{
		ID:        uuid.NewString(),
		BabyID:    input.BabyID,
		Type:      input.Type,
		Title:     title,
		Content:   strings.TrimSpace(input.Content),
		MediaURLs: input.MediaURLs,
		Tags:      input.Tags,
		Location:  strings.TrimSpace(input.Location),
		Weather:   strings.TrimSpace(input.Weather),
		Mood:      strings.TrimSpace(input.Mood),
		CreatedBy: userID,
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) ListByBaby(ctx context.Context, userID, babyID string, page Page) ([]GrowthRecord, int64, error) {
	if err := s.authorizeBaby(ctx, userID, babyID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByBaby(ctx, babyID, page)
}

func (s *Service) ListByType(ctx context.Context, userID, babyID, recordType string, page Page) ([]GrowthRecord, int64, error) {
	if !ValidType(recordType) {
		return nil, 0, fmt.Errorf("unknown record type %q", recordType)
	}
	if err := s.authorizeBaby(ctx, userID, babyID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByType(ctx, babyID, recordType, page)
}

// Delete removes a record. Only the record's author or the family
// creator may delete it.
func (s *Service) Delete(ctx context.Context, userID, recordID string) error {
	found, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	familyID, err := s.repo.GetBabyFamily(ctx, found.BabyID)
	if err != nil {
		return err
	}
	allowed, err := s.gate.Authorize(ctx, userID, familyID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNoFamilyAccess
	}

	if found.CreatedBy != userID {
		creator, err := s.gate.IsCreator(ctx, userID, familyID)
		if err != nil {
			return err
		}
		if !creator {
			return ErrDeleteNotAllowed
		}
	}

	return s.repo.Delete(ctx, recordID)
}

func (s *Service) authorizeBaby(ctx context.Context, userID, babyID string) error {
	familyID, err := s.repo.GetBabyFamily(ctx, babyID)
	if err != nil {
		return err
	}
	allowed, err := s.gate.Authorize(ctx, userID, familyID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrNoFamilyAccess
	}
	return nil
}
