package post

import "context"

type Page struct {
	Offset int
	Limit  int
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, postID string) (*Post, error)
	Delete(ctx context.Context, postID string) error
	ListByFamily(ctx context.Context, familyID string, page Page) ([]Post, int64, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	HasLike(ctx context.Context, postID, userID string) (bool, error)
	SetLikeCount(ctx context.Context, postID string, count int) error
	CountLikes(ctx context.Context, postID string) (int64, error)
	LikesByPostIDs(ctx context.Context, postIDs []string) (map[string][]string, error)
}
