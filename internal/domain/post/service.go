package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AccessGate is the family core's authorization surface. Authorize gates every
// read and write; IsCreator additionally allows the family creator to moderate.
type AccessGate interface {
	Authorize(ctx context.Context, userID, familyID string) (bool, error)
	IsCreator(ctx context.Context, userID, familyID string) (bool, error)
}

type Service struct {
	repo Repository
	gate AccessGate
}

func NewService(repo Repository, gate AccessGate) *Service {
	return &Service{repo: repo, gate: gate}
}

type CreateInput struct {
	FamilyID  string
	Content   string
	MediaURLs []string
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Post, error) {
	allowed, err := s.gate.Authorize(ctx, userID, input.FamilyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNoFamilyAccess
	}

	content := strings.TrimSpace(input.Content)
	if content == "" && len(input.MediaURLs) == 0 {
		return nil, fmt.Errorf("a post needs text or media")
	}
	if len([]rune(content)) > 2000 {
		return nil, fmt.Errorf("content must not exceed 2000 characters")
	}

	created := Post{
		ID:        uuid.NewString(),
		FamilyID:  input.FamilyID,
		AuthorID:  userID,
		Content:   content,
		MediaURLs: input.MediaURLs,
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) ListByFamily(ctx context.Context, userID, familyID string, page Page) ([]PostView, int64, error) {
	allowed, err := s.gate.Authorize(ctx, userID, familyID)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, ErrNoFamilyAccess
	}

	posts, total, err := s.repo.ListByFamily(ctx, familyID, page)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.withLikes(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ToggleLike likes the post for the caller, or removes the like if it is
// already there. The stored count is recomputed from the like rows inside the
// same transaction so it cannot drift.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (liked bool, err error) {
	found, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	allowed, err := s.gate.Authorize(ctx, userID, found.FamilyID)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, ErrNoFamilyAccess
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		already, err := tx.HasLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if already {
			if err := tx.RemoveLike(ctx, postID, userID); err != nil {
				return err
			}
		} else {
			if err := tx.AddLike(ctx, postID, userID); err != nil {
				return err
			}
		}
		liked = !already

		count, err := tx.CountLikes(ctx, postID)
		if err != nil {
			return err
		}
		return tx.SetLikeCount(ctx, postID, int(count))
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// Delete is allowed for the author and for the family creator, nobody else.
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	found, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if found.AuthorID != userID {
		isCreator, err := s.gate.IsCreator(ctx, userID, found.FamilyID)
		if err != nil {
			return err
		}
		if !isCreator {
			return ErrDeleteNotAllowed
		}
	}

	return s.repo.Delete(ctx, postID)
}

func (s *Service) withLikes(ctx context.Context, posts []Post) ([]PostView, error) {
	if len(posts) == 0 {
		return []PostView{}, nil
	}

	ids := make([]string, 0, len(posts))
	for _, item := range posts {
		ids = append(ids, item.ID)
	}

	byPost, err := s.repo.LikesByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, item := range posts {
		views = append(views, PostView{Post: item, LikedBy: byPost[item.ID]})
	}
	return views, nil
}
