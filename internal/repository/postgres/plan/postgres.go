package plan

import (
	"context"
	"errors"

	plandomain "babycare-go/internal/domain/plan"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(plandomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreatePlan(ctx context.Context, plan *plandomain.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *PostgresRepository) GetPlan(ctx context.Context, planID string) (*plandomain.Plan, error) {
	var plan plandomain.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plandomain.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PostgresRepository) UpdatePlan(ctx context.Context, plan *plandomain.Plan) error {
	return r.db.WithContext(ctx).
		Model(&plandomain.Plan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]interface{}{
			"name":        plan.Name,
			"description": plan.Description,
			"status":      plan.Status,
			"start_date":  plan.StartDate,
			"end_date":    plan.EndDate,
			"difficulty":  plan.Difficulty,
			"goals":       plan.Goals,
			"progress":    plan.Progress,
		}).Error
}

func (r *PostgresRepository) DeletePlan(ctx context.Context, planID string) error {
	return r.db.WithContext(ctx).Delete(&plandomain.Plan{}, "id = ?", planID).Error
}

func (r *PostgresRepository) ListByBaby(ctx context.Context, babyID string) ([]plandomain.Plan, error) {
	var plans []plandomain.Plan
	if err := r.db.WithContext(ctx).
		Where("baby_id = ?", babyID).
		Order("created_at desc").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, babyID string) ([]plandomain.Plan, error) {
	var plans []plandomain.Plan
	if err := r.db.WithContext(ctx).
		Where("baby_id = ? AND status = ?", babyID, plandomain.StatusActive).
		Order("created_at desc").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PostgresRepository) CreateActivity(ctx context.Context, activity *plandomain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *PostgresRepository) GetActivity(ctx context.Context, activityID string) (*plandomain.Activity, error) {
	var activity plandomain.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", activityID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plandomain.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (r *PostgresRepository) UpdateActivity(ctx context.Context, activity *plandomain.Activity) error {
	return r.db.WithContext(ctx).
		Model(&plandomain.Activity{}).
		Where("id = ?", activity.ID).
		Updates(map[string]interface{}{
			"name":           activity.Name,
			"type":           activity.Type,
			"status":         activity.Status,
			"scheduled_time": activity.ScheduledTime,
			"duration_mins":  activity.DurationMins,
			"notes":          activity.Notes,
			"rating":         activity.Rating,
		}).Error
}

func (r *PostgresRepository) ListActivities(ctx context.Context, planID string) ([]plandomain.Activity, error) {
	var activities []plandomain.Activity
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("scheduled_time asc nulls last, created_at asc").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *PostgresRepository) CountActivities(ctx context.Context, planID string) (int64, int64, error) {
	type row struct {
		Total     int64 `gorm:"column:total"`
		Completed int64 `gorm:"column:completed"`
	}

	var counts row
	if err := r.db.WithContext(ctx).
		Model(&plandomain.Activity{}).
		Select(`
			COUNT(*) as total,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as completed`, plandomain.ActivityCompleted).
		Where("plan_id = ?", planID).
		Scan(&counts).Error; err != nil {
		return 0, 0, err
	}
	return counts.Total, counts.Completed, nil
}

func (r *PostgresRepository) GetBabyFamily(ctx context.Context, babyID string) (string, error) {
	var familyID string
	err := r.db.WithContext(ctx).
		Table("babies").
		Select("family_id").
		Where("id = ?", babyID).
		Take(&familyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", plandomain.ErrBabyNotFound
	}
	if err != nil {
		return "", err
	}
	return familyID, nil
}
