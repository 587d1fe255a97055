package post

import (
	"context"
	"errors"

	postdomain "babycare-go/internal/domain/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(postdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, post *postdomain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, postID string) (*postdomain.Post, error) {
	var post postdomain.Post
	if err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postdomain.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Delete(&postdomain.Post{}, "id = ?", postID).Error
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string, page postdomain.Page) ([]postdomain.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&postdomain.Post{}).Where("family_id = ?", familyID)

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

	var posts []postdomain.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostgresRepository) AddLike(ctx context.Context, postID, userID string) error {
	// A repeated like is a no-op rather than a constraint error.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&postdomain.Like{PostID: postID, UserID: userID}).Error
}

func (r *PostgresRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&postdomain.Like{}, "post_id = ? AND user_id = ?", postID, userID).Error
}

func (r *PostgresRepository) HasLike(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&postdomain.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) SetLikeCount(ctx context.Context, postID string, count int) error {
	return r.db.WithContext(ctx).
		Model(&postdomain.Post{}).
		Where("id = ?", postID).
		Update("like_count", count).Error
}

func (r *PostgresRepository) CountLikes(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&postdomain.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) LikesByPostIDs(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []postdomain.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("user_id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.UserID)
	}
	return result, nil
}
