package baby

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// LockFamily row-locks the owning family record so the baby ceiling is
	// checked and the insert committed without a concurrent add in between.
	LockFamily(ctx context.Context, familyID string) error

	Create(ctx context.Context, baby *Baby) error
	GetByID(ctx context.Context, babyID string) (*Baby, error)
	Update(ctx context.Context, baby *Baby) error
	ListByFamily(ctx context.Context, familyID string) ([]Baby, error)
	CountByFamily(ctx context.Context, familyID string) (int64, error)
}
