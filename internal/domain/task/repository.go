package task

import "context"

type Page struct {
	Offset int
	Limit  int
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, task *Task) error
	AddAssignees(ctx context.Context, taskID string, userIDs []string) error
	GetByID(ctx context.Context, taskID string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, taskID string) error
	ListByFamily(ctx context.Context, familyID string, page Page) ([]Task, int64, error)
	// ListAssignedTo returns tasks assigned to the user across every family
	// the user is an active member of.
	ListAssignedTo(ctx context.Context, userID string, page Page) ([]Task, int64, error)
	AssigneesByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]string, error)
}
