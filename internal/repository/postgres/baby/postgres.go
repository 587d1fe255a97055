package baby

import (
	"context"
	"errors"

	babydomain "babycare-go/internal/domain/baby"
	familydomain "babycare-go/internal/domain/family"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(babydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) LockFamily(ctx context.Context, familyID string) error {
	var locked familydomain.Family
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", familyID).
		First(&locked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return familydomain.ErrFamilyNotFound
	}
	return err
}

func (r *PostgresRepository) Create(ctx context.Context, baby *babydomain.Baby) error {
	return r.db.WithContext(ctx).Create(baby).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, babyID string) (*babydomain.Baby, error) {
	var baby babydomain.Baby
	if err := r.db.WithContext(ctx).Where("id = ?", babyID).First(&baby).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, babydomain.ErrBabyNotFound
		}
		return nil, err
	}
	return &baby, nil
}

func (r *PostgresRepository) Update(ctx context.Context, baby *babydomain.Baby) error {
	return r.db.WithContext(ctx).
		Model(&babydomain.Baby{}).
		Where("id = ?", baby.ID).
		Updates(map[string]interface{}{
			"name":           baby.Name,
			"avatar":         baby.Avatar,
			"description":    baby.Description,
			"current_weight": baby.CurrentWeight,
			"current_height": baby.CurrentHeight,
		}).Error
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]babydomain.Baby, error) {
	var babies []babydomain.Baby
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("birthdate asc").
		Find(&babies).Error; err != nil {
		return nil, err
	}
	return babies, nil
}

func (r *PostgresRepository) CountByFamily(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&babydomain.Baby{}).
		Where("family_id = ?", familyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
