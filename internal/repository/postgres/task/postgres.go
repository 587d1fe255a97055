package task

import (
	"context"
	"errors"

	taskdomain "babycare-go/internal/domain/task"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(taskdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, task *taskdomain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *PostgresRepository) AddAssignees(ctx context.Context, taskID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]taskdomain.Assignee, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, taskdomain.Assignee{TaskID: taskID, UserID: userID})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, taskID string) (*taskdomain.Task, error) {
	var task taskdomain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskdomain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *taskdomain.Task) error {
	return r.db.WithContext(ctx).
		Model(&taskdomain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"status":           task.Status,
			"completed_at":     task.CompletedAt,
			"completed_by":     task.CompletedBy,
			"completion_notes": task.CompletionNotes,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Delete(&taskdomain.Task{}, "id = ?", taskID).Error
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string, page taskdomain.Page) ([]taskdomain.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&taskdomain.Task{}).Where("family_id = ?", familyID)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	var tasks []taskdomain.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *PostgresRepository) ListAssignedTo(ctx context.Context, userID string, page taskdomain.Page) ([]taskdomain.Task, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&taskdomain.Task{}).
		Joins("join task_assignees on task_assignees.task_id = tasks.id").
		Joins("join members on members.family_id = tasks.family_id and members.user_id = task_assignees.user_id").
		Where("task_assignees.user_id = ? AND members.active = ?", userID, true)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("tasks.created_at desc")
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	var tasks []taskdomain.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *PostgresRepository) AssigneesByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	var rows []taskdomain.Assignee
	if err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("user_id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TaskID] = append(result[row.TaskID], row.UserID)
	}
	return result, nil
}
