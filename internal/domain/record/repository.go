package record

import "context"

type Page struct {
	Offset int
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, record *GrowthRecord) error
	GetByID(ctx context.Context, recordID string) (*GrowthRecord, error)
	Update(ctx context.Context, record *GrowthRecord) error
	Delete(ctx context.Context, recordID string) error
	ListByBaby(ctx context.Context, babyID string, page Page) ([]GrowthRecord, int64, error)
	ListByType(ctx context.Context, babyID, recordType string, page Page) ([]GrowthRecord, int64, error)

	// GetBabyFamily resolves the family that owns the baby, so access checks
	// can run against the membership ledger.
	GetBabyFamily(ctx context.Context, babyID string) (string, error)
}
