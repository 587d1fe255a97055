package baby

import (
	"fmt"
	"time"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

func ValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale
}

// Baby belongs to exactly one family; every read and write is gated on
// active membership in that family.
type Baby struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	FamilyID      string    `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"size:20;not null"`
	Gender        string    `gorm:"type:varchar(8);not null"`
	Birthdate     time.Time `gorm:"type:date;not null;index"`
	Avatar        string    `gorm:"size:500"`
	Description   string    `gorm:"size:500"`
	BirthWeight   *float64  // grams
	BirthHeight   *float64  // centimeters
	CurrentWeight *float64  // grams
	CurrentHeight *float64  // centimeters
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (b Baby) AgeInDays(now time.Time) int {
	days := int(now.Sub(b.Birthdate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// FormatAge renders an age the way parents say it: days first, then months,
// then years and months.
func FormatAge(days int) string {
	switch {
	case days < 30:
		return fmt.Sprintf("%d days", days)
	case days < 365:
		months := days / 30
		rest := days % 30
		if rest == 0 {
			return fmt.Sprintf("%d months", months)
		}
		return fmt.Sprintf("%d months %d days", months, rest)
	default:
		years := days / 365
		months := (days % 365) / 30
		if months == 0 {
			return fmt.Sprintf("%d years", years)
		}
		return fmt.Sprintf("%d years %d months", years, months)
	}
}
