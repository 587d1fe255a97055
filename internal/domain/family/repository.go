package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// LockFamily takes a row lock on the family record for the duration of
	// the surrounding transaction. Capacity checks count under this lock so
	// concurrent joins cannot overshoot the ceiling.
	LockFamily(ctx context.Context, familyID string) error

	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	CreateFamily(ctx context.Context, family *Family) error
	UpdateFamily(ctx context.Context, family *Family) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)

	AddMember(ctx context.Context, member *Member) error
	GetMember(ctx context.Context, userID, familyID string) (*Member, error)
	HasMembership(ctx context.Context, userID, familyID string) (bool, error)
	HasActiveMembership(ctx context.Context, userID, familyID string) (bool, error)
	HasCreatorRole(ctx context.Context, userID string) (bool, error)
	SetMemberActive(ctx context.Context, memberID string, active bool) error
	ListMembers(ctx context.Context, familyID string) ([]Member, error)
	ListFamiliesByUser(ctx context.Context, userID string) ([]Family, error)
	CountActiveMembers(ctx context.Context, familyID string) (int64, error)
	CountBabies(ctx context.Context, familyID string) (int64, error)
}
