package family

import (
	"context"
	"errors"
)

// The membership ledger and the authorization gate. Every domain service
// resolves the owning family and asks these predicates; none of them keep
// membership logic of their own. All reads hit committed storage directly.

// IsActiveMember reports whether an active membership row exists for the pair.
func (s *Service) IsActiveMember(ctx context.Context, userID, familyID string) (bool, error) {
	return s.repo.HasActiveMembership(ctx, userID, familyID)
}

// HasRole reports whether the user holds the given role in the family,
// regardless of the active flag.
func (s *Service) HasRole(ctx context.Context, userID, familyID, role string) (bool, error) {
	member, err := s.repo.GetMember(ctx, userID, familyID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Role == role, nil
}

// MembersOf returns every membership row of the family, active or not.
func (s *Service) MembersOf(ctx context.Context, familyID string) ([]Member, error) {
	return s.repo.ListMembers(ctx, familyID)
}

// FamiliesOf returns the families the user is an active member of.
func (s *Service) FamiliesOf(ctx context.Context, userID string) ([]Family, error) {
	return s.repo.ListFamiliesByUser(ctx, userID)
}

// Authorize is the single access predicate: allow iff the user is an active
// member of the family. Callers translate a deny into their own failure.
func (s *Service) Authorize(ctx context.Context, userID, familyID string) (bool, error) {
	return s.repo.HasActiveMembership(ctx, userID, familyID)
}

// IsCreator is the stricter predicate used by moderation deletes (a post or
// task may be removed by its author or by the family creator). It is not a
// substitute for Authorize.
func (s *Service) IsCreator(ctx context.Context, userID, familyID string) (bool, error) {
	member, err := s.repo.GetMember(ctx, userID, familyID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Role == RoleCreator && member.Active, nil
}
