package family

import "time"

const (
	RoleCreator     = "creator"
	RoleParent      = "parent"
	RoleGrandparent = "grandparent"
	RoleRelative    = "relative"
)

func ValidRole(role string) bool {
	switch role {
	case RoleCreator, RoleParent, RoleGrandparent, RoleRelative:
		return true
	}
	return false
}

type Family struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:20;not null"`
	Description string    `gorm:"size:200"`
	Avatar      string    `gorm:"size:500"`
	InviteCode  string    `gorm:"size:8;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Member binds one user to one family. The (UserID, FamilyID) pair is unique,
// and at most one row per user may carry RoleCreator across all families.
type Member struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_member_user_family,priority:1"`
	FamilyID string    `gorm:"type:uuid;not null;uniqueIndex:uq_member_user_family,priority:2"`
	Role     string    `gorm:"type:varchar(16);not null"`
	Nickname string    `gorm:"size:20"`
	Active   bool      `gorm:"not null;default:true"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
}

// Detail is the member-facing view of a family with its headcounts.
type Detail struct {
	Family      Family
	MemberCount int64
	BabyCount   int64
}

