package family

import (
	"context"
	"errors"

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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
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

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInviteCodeNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	err := r.db.WithContext(ctx).Create(family).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return familydomain.ErrDuplicateKey
	}
	return err
}

func (r *PostgresRepository) UpdateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).
		Model(&familydomain.Family{}).
		Where("id = ?", family.ID).
		Updates(map[string]interface{}{
			"name":        family.Name,
			"description": family.Description,
			"avatar":      family.Avatar,
		}).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return familydomain.ErrDuplicateKey
	}
	return err
}

func (r *PostgresRepository) GetMember(ctx context.Context, userID, familyID string) (*familydomain.Member, error) {
	var member familydomain.Member
	if err := r.db.WithContext(ctx).Where("user_id = ? AND family_id = ?", userID, familyID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) HasMembership(ctx context.Context, userID, familyID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&familydomain.Member{}).
		Where("user_id = ? AND family_id = ?", userID, familyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) HasActiveMembership(ctx context.Context, userID, familyID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&familydomain.Member{}).
		Where("user_id = ? AND family_id = ? AND active = ?", userID, familyID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) HasCreatorRole(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&familydomain.Member{}).
		Where("user_id = ? AND role = ?", userID, familydomain.RoleCreator).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) SetMemberActive(ctx context.Context, memberID string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&familydomain.Member{}).
		Where("id = ?", memberID).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.Member, error) {
	var members []familydomain.Member
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) ListFamiliesByUser(ctx context.Context, userID string) ([]familydomain.Family, error) {
	var families []familydomain.Family
	if err := r.db.WithContext(ctx).
		Table("families").
		Joins("join members on members.family_id = families.id").
		Where("members.user_id = ? AND members.active = ?", userID, true).
		Order("members.joined_at asc").
		Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) CountActiveMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&familydomain.Member{}).
		Where("family_id = ? AND active = ?", familyID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountBabies(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("babies").
		Where("family_id = ?", familyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
