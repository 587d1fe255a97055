package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrInviteCodeNotFound   = errors.New("invite code not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrAlreadyCreator       = errors.New("user already created a family")
	ErrAlreadyMember        = errors.New("already a member of this family")
	ErrFamilyFull           = errors.New("family member limit reached")
	ErrNotMember            = errors.New("not an active member of this family")
	ErrNotCreator           = errors.New("only the family creator may do this")
	ErrCannotRemoveCreator  = errors.New("cannot deactivate the family creator")
	ErrCodeGenerationFailed = errors.New("invite code generation failed")

	// ErrDuplicateKey is returned by repositories when a storage uniqueness
	// constraint fires. Services translate it based on which write failed.
	ErrDuplicateKey = errors.New("duplicate key")
)
