package record

import (
	"context"
	"errors"

	recorddomain "babycare-go/internal/domain/record"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *recorddomain.GrowthRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, recordID string) (*recorddomain.GrowthRecord, error) {
	var record recorddomain.GrowthRecord
	if err := r.db.WithContext(ctx).Where("id = ?", recordID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recorddomain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Update(ctx context.Context, record *recorddomain.GrowthRecord) error {
	return r.db.WithContext(ctx).
		Model(&recorddomain.GrowthRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"title":      record.Title,
			"content":    record.Content,
			"media_urls": record.MediaURLs,
			"tags":       record.Tags,
			"location":   record.Location,
			"weather":    record.Weather,
			"mood":       record.Mood,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, recordID string) error {
	return r.db.WithContext(ctx).Delete(&recorddomain.GrowthRecord{}, "id = ?", recordID).Error
}

func (r *PostgresRepository) ListByBaby(ctx context.Context, babyID string, page recorddomain.Page) ([]recorddomain.GrowthRecord, int64, error) {
	return r.list(ctx, page, "baby_id = ?", babyID)
}

func (r *PostgresRepository) ListByType(ctx context.Context, babyID, recordType string, page recorddomain.Page) ([]recorddomain.GrowthRecord, int64, error) {
	return r.list(ctx, page, "baby_id = ? AND type = ?", babyID, recordType)
}

func (r *PostgresRepository) list(ctx context.Context, page recorddomain.Page, cond string, args ...interface{}) ([]recorddomain.GrowthRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&recorddomain.GrowthRecord{}).Where(cond, args...)

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

	var records []recorddomain.GrowthRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *PostgresRepository) GetBabyFamily(ctx context.Context, babyID string) (string, error) {
	var familyID string
	err := r.db.WithContext(ctx).
		Table("babies").
		Select("family_id").
		Where("id = ?", babyID).
		Take(&familyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", recorddomain.ErrBabyNotFound
	}
	if err != nil {
		return "", err
	}
	return familyID, nil
}
