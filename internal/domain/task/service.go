package task

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
	FamilyID     string
	Title        string
	Description  string
	AssigneeIDs  []string
	DueDate      *time.Time
	Priority     string
	Category     string
	ReminderTime *time.Time
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*TaskWithAssignees, error) {
	allowed, err := s.gate.Authorize(ctx, userID, input.FamilyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoFamilyAccess
	}

	title := strings.TrimSpace(input.Title)
	if len([]rune(title)) < 1 || len([]rune(title)) > 100 {
		return nil, fmt.Errorf("title must be 1-100 characters")
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if !ValidPriority(input.Priority) {
		return nil, fmt.Errorf("unknown priority %q", input.Priority)
	}
	if !ValidCategory(input.Category) {
		return nil, fmt.Errorf("unknown category %q", input.Category)
	}
	if len(input.AssigneeIDs) == 0 {
		return nil, fmt.Errorf("at least one assignee is required")
	}

	// Every assignee must be an active member of the same family.
	seen := make(map[string]struct{}, len(input.AssigneeIDs))
	assignees := make([]string, 0, len(input.AssigneeIDs))
	for _, assigneeID := range input.AssigneeIDs {
		if _, dup := seen[assigneeID]; dup {
			continue
		}
		seen[assigneeID] = struct{}{}

		ok, err := s.gate.Authorize(ctx, assigneeID, input.FamilyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAssigneeNotMember
		}
		assignees = append(assignees, assigneeID)
	}

	created := Task{
		ID:           uuid.NewString(),
		FamilyID:     input.FamilyID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		AssignedBy:   userID,
		DueDate:      input.DueDate,
		Priority:     input.Priority,
		Status:       StatusPending,
		Category:     input.Category,
		ReminderTime: input.ReminderTime,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &created); err != nil {
			return err
		}
		return tx.AddAssignees(ctx, created.ID, assignees)
	})
	if err != nil {
		return nil, err
	}

	return &TaskWithAssignees{Task: created, Assignees: assignees}, nil
}

func (s *Service) ListByFamily(ctx context.Context, userID, familyID string, page Page) ([]TaskWithAssignees, int64, error) {
	allowed, err := s.gate.Authorize(ctx, userID, familyID)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, ErrNoFamilyAccess
	}

	tasks, total, err := s.repo.ListByFamily(ctx, familyID, page)
	if err != nil {
		return nil, 0, err
	}

	result, err := s.withAssignees(ctx, tasks)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// MyTasks lists tasks assigned to the caller across the families the caller
// belongs to; the membership filter lives in the query itself.
func (s *Service) MyTasks(ctx context.Context, userID string, page Page) ([]TaskWithAssignees, int64, error) {
	tasks, total, err := s.repo.ListAssignedTo(ctx, userID, page)
	if err != nil {
		return nil, 0, err
	}

	result, err := s.withAssignees(ctx, tasks)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *Service) Start(ctx context.Context, userID, taskID string) (*Task, error) {
	found, err := s.authorizedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	found.Status = StatusInProgress
	if err := s.repo.Update(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) Complete(ctx context.Context, userID, taskID, notes string) (*Task, error) {
	found, err := s.authorizedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	found.Status = StatusCompleted
	found.CompletedAt = &now
	found.CompletedBy = &userID
	found.CompletionNotes = strings.TrimSpace(notes)
	if err := s.repo.Update(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) Cancel(ctx context.Context, userID, taskID string) (*Task, error) {
	found, err := s.authorizedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	found.Status = StatusCancelled
	if err := s.repo.Update(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// Delete is allowed for the assigner and for the family creator, nobody else.
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	found, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if found.AssignedBy != userID {
		isCreator, err := s.gate.IsCreator(ctx, userID, found.FamilyID)
		if err != nil {
			return err
		}
		if !isCreator {
			return ErrDeleteNotAllowed
		}
	}

	return s.repo.Delete(ctx, taskID)
}

func (s *Service) authorizedTask(ctx context.Context, userID, taskID string) (*Task, error) {
	found, err := s.repo.GetByID(ctx, taskID)
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

func (s *Service) withAssignees(ctx context.Context, tasks []Task) ([]TaskWithAssignees, error) {
	if len(tasks) == 0 {
		return []TaskWithAssignees{}, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, item := range tasks {
		ids = append(ids, item.ID)
	}

	byTask, err := s.repo.AssigneesByTaskIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]TaskWithAssignees, 0, len(tasks))
	for _, item := range tasks {
		result = append(result, TaskWithAssignees{Task: item, Assignees: byTask[item.ID]})
	}
	return result, nil
}
