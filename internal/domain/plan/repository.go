package plan

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreatePlan(ctx context.Context, plan *Plan) error
	GetPlan(ctx context.Context, planID string) (*Plan, error)
	UpdatePlan(ctx context.Context, plan *Plan) error
	DeletePlan(ctx context.Context, planID string) error
	ListByBaby(ctx context.Context, babyID string) ([]Plan, error)
	ListActive(ctx context.Context, babyID string) ([]Plan, error)

	CreateActivity(ctx context.Context, activity *Activity) error
	GetActivity(ctx context.Context, activityID string) (*Activity, error)
	UpdateActivity(ctx context.Context, activity *Activity) error
	ListActivities(ctx context.Context, planID string) ([]Activity, error)
	CountActivities(ctx context.Context, planID string) (total, completed int64, err error)

	// GetBabyFamily resolves the family that owns the baby, so access checks
	// can run against the membership ledger.
	GetBabyFamily(ctx context.Context, babyID string) (string, error)
}
