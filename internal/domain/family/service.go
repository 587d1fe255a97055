package family

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const cacheTTL = time.Minute

type Service struct {
	repo   Repository
	cache  Cache
	limits Limits
}

func NewService(repo Repository, cache Cache, limits Limits) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, limits: limits.withDefaults()}
}

func (s *Service) Limits() Limits {
	return s.limits
}

type CreateInput struct {
	Name        string
	Description string
	Nickname    string
}

// CreateFamily persists a new family and its creator membership in one
// transaction; no reader ever observes a family without its creator. A user
// holding a creator role anywhere is rejected with ErrAlreadyCreator.
func (s *Service) CreateFamily(ctx context.Context, userID string, input CreateInput) (*Family, error) {
	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < 2 || len([]rune(name)) > 20 {
		return nil, fmt.Errorf("name must be 2-20 characters")
	}
	description := strings.TrimSpace(input.Description)
	if len([]rune(description)) > 200 {
		return nil, fmt.Errorf("description must be at most 200 characters")
	}

	// The whole transaction retries when the invite code loses the
	// check-then-reserve race against a concurrent create; the unique index
	// on invite_code is the actual guarantee, the pre-check just keeps
	// retries rare.
	for attempt := 0; attempt < codeAttempts; attempt++ {
		var result Family
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			isCreator, err := tx.HasCreatorRole(ctx, userID)
			if err != nil {
				return err
			}
			if isCreator {
				return ErrAlreadyCreator
			}

			code, err := generateCode(s.limits.CodeLength)
			if err != nil {
				return err
			}
			taken, err := tx.IsCodeTaken(ctx, code)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateKey
			}

			fam := Family{
				ID:          uuid.NewString(),
				Name:        name,
				Description: description,
				InviteCode:  code,
			}
			if err := tx.CreateFamily(ctx, &fam); err != nil {
				return err
			}

			member := Member{
				ID:       uuid.NewString(),
				UserID:   userID,
				FamilyID: fam.ID,
				Role:     RoleCreator,
				Nickname: strings.TrimSpace(input.Nickname),
				Active:   true,
			}
			if err := tx.AddMember(ctx, &member); err != nil {
				if errors.Is(err, ErrDuplicateKey) {
					// The partial unique index on (user_id) WHERE
					// role='creator' fired: a concurrent create won.
					return ErrAlreadyCreator
				}
				return err
			}

			result = fam
			return nil
		})
		if errors.Is(err, ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &result, nil
	}

	return nil, ErrCodeGenerationFailed
}

// JoinFamily adds the user as a parent member of the family owning the code.
// Any existing membership row, active or not, rejects the join; a deactivated
// member is never silently reactivated.
func (s *Service) JoinFamily(ctx context.Context, userID, code, nickname string) (*Family, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		if err := tx.LockFamily(ctx, fam.ID); err != nil {
			return err
		}

		hasRow, err := tx.HasMembership(ctx, userID, fam.ID)
		if err != nil {
			return err
		}
		if hasRow {
			return ErrAlreadyMember
		}

		count, err := tx.CountActiveMembers(ctx, fam.ID)
		if err != nil {
			return err
		}
		if s.limits.MemberCapacityReached(count) {
			return ErrFamilyFull
		}

		member := Member{
			ID:       uuid.NewString(),
			UserID:   userID,
			FamilyID: fam.ID,
			Role:     RoleParent,
			Nickname: strings.TrimSpace(nickname),
			Active:   true,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				return ErrAlreadyMember
			}
			return err
		}

		result = *fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetFamily returns the member-gated detail view with current headcounts.
func (s *Service) GetFamily(ctx context.Context, userID, familyID string) (*Detail, error) {
	active, err := s.repo.HasActiveMembership(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotMember
	}

	fam, ok := s.cache.Get(familyID)
	if !ok {
		fam, err = s.repo.GetFamily(ctx, familyID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(familyID, fam, cacheTTL)
	}

	memberCount, err := s.repo.CountActiveMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}
	babyCount, err := s.repo.CountBabies(ctx, familyID)
	if err != nil {
		return nil, err
	}

	return &Detail{Family: *fam, MemberCount: memberCount, BabyCount: babyCount}, nil
}

type UpdateInput struct {
	Name        *string
	Description *string
	Avatar      *string
}

// UpdateFamily lets the creator rename or re-describe the family.
func (s *Service) UpdateFamily(ctx context.Context, userID, familyID string, input UpdateInput) (*Family, error) {
	isCreator, err := s.IsCreator(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	if !isCreator {
		return nil, ErrNotCreator
	}

	fam, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len([]rune(name)) < 2 || len([]rune(name)) > 20 {
			return nil, fmt.Errorf("name must be 2-20 characters")
		}
		fam.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if len([]rune(description)) > 200 {
			return nil, fmt.Errorf("description must be at most 200 characters")
		}
		fam.Description = description
	}
	if input.Avatar != nil {
		fam.Avatar = strings.TrimSpace(*input.Avatar)
	}

	if err := s.repo.UpdateFamily(ctx, fam); err != nil {
		return nil, err
	}
	s.cache.Delete(familyID)

	return fam, nil
}

// ListMembers returns the family roster; the caller must be an active member.
func (s *Service) ListMembers(ctx context.Context, userID, familyID string) ([]Member, error) {
	active, err := s.repo.HasActiveMembership(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotMember
	}

	return s.repo.ListMembers(ctx, familyID)
}

// DeactivateMember flips a member's active flag off. Only the creator may do
// this, the creator cannot be deactivated, and there is no way back: a
// deactivated user who wants to return must be handled out of band, since
// JoinFamily rejects any existing membership row.
func (s *Service) DeactivateMember(ctx context.Context, actorID, familyID, memberUserID string) error {
	isCreator, err := s.IsCreator(ctx, actorID, familyID)
	if err != nil {
		return err
	}
	if !isCreator {
		return ErrNotCreator
	}

	member, err := s.repo.GetMember(ctx, memberUserID, familyID)
	if err != nil {
		return err
	}
	if member.Role == RoleCreator {
		return ErrCannotRemoveCreator
	}
	if !member.Active {
		return nil
	}

	return s.repo.SetMemberActive(ctx, member.ID, false)
}
