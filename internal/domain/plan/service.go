package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccessGate is the family core's authorization surface. Authorize gates every
// read and write; IsCreator additionally allows the family creator to moderate.
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
	BabyID         string
	Name           string
	Description    string
	Category       string
	StartDate      *time.Time
	EndDate        *time.Time
	TargetAgeMonth *int
	Difficulty     int
	Goals          string
}

func (s *Service) CreatePlan(ctx context.Context, userID string, input CreateInput) (*Plan, error) {
	if err := s.authorizeBaby(ctx, userID, input.BabyID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < 1 || len([]rune(name)) > 100 {
		return nil, fmt.Errorf("name must be 1-100 characters")
	}
	if !ValidCategory(input.Category) {
		return nil, fmt.Errorf("unknown category %q", input.Category)
	}
	if input.Difficulty == 0 {
		input.Difficulty = 1
	}
	if input.Difficulty < 1 || input.Difficulty > 5 {
		return nil, fmt.Errorf("difficulty must be between 1 and 5")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("end date must not precede start date")
	}

	created := Plan{
		ID:             uuid.NewString(),
		BabyID:         input.BabyID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Category:       input.Category,
		Status:         StatusDraft,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		TargetAgeMonth: input.TargetAgeMonth,
		Difficulty:     input.Difficulty,
		Goals:          strings.TrimSpace(input.Goals),
		CreatedBy:      userID,
	}
	if err := s.repo.CreatePlan(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type UpdateInput struct {
	Name        *string
	Description *string
	Goals       *string
	Difficulty  *int
	EndDate     *time.Time
}

func (s *Service) UpdatePlan(ctx context.Context, userID, planID string, input UpdateInput) (*Plan, error) {
	found, err := s.authorizedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len([]rune(name)) < 1 || len([]rune(name)) > 100 {
			return nil, fmt.Errorf("name must be 1-100 characters")
		}
		found.Name = name
	}
	if input.Description != nil {
		found.Description = strings.TrimSpace(*input.Description)
	}
	if input.Goals != nil {
		found.Goals = strings.TrimSpace(*input.Goals)
	}
	if input.Difficulty != nil {
		if *input.Difficulty < 1 || *input.Difficulty > 5 {
			return nil, fmt.Errorf("difficulty must be between 1 and 5")
		}
		found.Difficulty = *input.Difficulty
	}
	if input.EndDate != nil {
		found.EndDate = input.EndDate
	}

	if err := s.repo.UpdatePlan(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// DeletePlan is allowed for the plan author and for the family creator.
func (s *Service) DeletePlan(ctx context.Context, userID, planID string) error {
	found, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return err
	}

	if found.CreatedBy != userID {
		familyID, err := s.repo.GetBabyFamily(ctx, found.BabyID)
		if err != nil {
			return err
		}
		isCreator, err := s.gate.IsCreator(ctx, userID, familyID)
		if err != nil {
			return err
		}
		if !isCreator {
			return ErrDeleteNotAllowed
		}
	}

	return s.repo.DeletePlan(ctx, planID)
}

func (s *Service) ListByBaby(ctx context.Context, userID, babyID string) ([]Plan, error) {
	if err := s.authorizeBaby(ctx, userID, babyID); err != nil {
		return nil, err
	}
	return s.repo.ListByBaby(ctx, babyID)
}

func (s *Service) ListActive(ctx context.Context, userID, babyID string) ([]Plan, error) {
	if err := s.authorizeBaby(ctx, userID, babyID); err != nil {
		return nil, err
	}
	return s.repo.ListActive(ctx, babyID)
}

func (s *Service) StartPlan(ctx context.Context, userID, planID string) (*Plan, error) {
	found, err := s.authorizedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	found.Status = StatusActive
	if found.StartDate == nil {
		now := time.Now().UTC()
		found.StartDate = &now
	}
	if err := s.repo.UpdatePlan(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) CompletePlan(ctx context.Context, userID, planID string) (*Plan, error) {
	found, err := s.authorizedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	found.Status = StatusCompleted
	found.Progress = 100
	if err := s.repo.UpdatePlan(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

type ActivityInput struct {
	PlanID        string
	Name          string
	Type          string
	ScheduledTime *time.Time
	DurationMins  *int
	Notes         string
}

func (s *Service) CreateActivity(ctx context.Context, userID string, input ActivityInput) (*Activity, error) {
	parent, err := s.authorizedPlan(ctx, userID, input.PlanID)
	if err != nil {
		return nil, err
	}
	if parent.Status == StatusCompleted || parent.Status == StatusCancelled {
		return nil, ErrPlanNotActive
	}

	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < 1 || len([]rune(name)) > 100 {
		return nil, fmt.Errorf("name must be 1-100 characters")
	}

	created := Activity{
		ID:            uuid.NewString(),
		PlanID:        input.PlanID,
		Name:          name,
		Type:          strings.TrimSpace(input.Type),
		Status:        ActivityPending,
		ScheduledTime: input.ScheduledTime,
		DurationMins:  input.DurationMins,
		Notes:         strings.TrimSpace(input.Notes),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateActivity(ctx, &created); err != nil {
			return err
		}
		return recomputeProgress(ctx, tx, parent)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) ListActivities(ctx context.Context, userID, planID string) ([]Activity, error) {
	if _, err := s.authorizedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.repo.ListActivities(ctx, planID)
}

// CompleteActivity marks the activity done and refreshes the owning plan's
// progress as completed/total activities.
func (s *Service) CompleteActivity(ctx context.Context, userID, activityID string, notes string, rating *int) (*Activity, error) {
	found, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	parent, err := s.authorizedPlan(ctx, userID, found.PlanID)
	if err != nil {
		return nil, err
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	found.Status = ActivityCompleted
	found.Rating = rating
	if notes = strings.TrimSpace(notes); notes != "" {
		found.Notes = notes
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateActivity(ctx, found); err != nil {
			return err
		}
		return recomputeProgress(ctx, tx, parent)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func recomputeProgress(ctx context.Context, tx Repository, parent *Plan) error {
	total, completed, err := tx.CountActivities(ctx, parent.ID)
	if err != nil {
		return err
	}
	if total == 0 {
		parent.Progress = 0
	} else {
		parent.Progress = int(completed * 100 / total)
	}
	return tx.UpdatePlan(ctx, parent)
}

func (s *Service) authorizedPlan(ctx context.Context, userID, planID string) (*Plan, error) {
	found, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBaby(ctx, userID, found.BabyID); err != nil {
		return nil, err
	}
	return found, nil
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
