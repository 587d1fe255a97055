package plan

import "time"

const (
	CategoryCognitive = "cognitive"
	CategoryLanguage  = "language"
	CategoryMotor     = "motor"
	CategorySocial    = "social"
	CategoryEmotional = "emotional"
	CategoryCreative  = "creative"
	CategoryMusic     = "music"
	CategoryArt       = "art"
	CategoryReading   = "reading"
	CategoryMath      = "math"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryCognitive, CategoryLanguage, CategoryMotor, CategorySocial,
		CategoryEmotional, CategoryCreative, CategoryMusic, CategoryArt,
		CategoryReading, CategoryMath:
		return true
	}
	return false
}

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	ActivityPending   = "pending"
	ActivityCompleted = "completed"
	ActivitySkipped   = "skipped"
)

type Plan struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	BabyID         string     `gorm:"type:uuid;not null;index"`
	Name           string     `gorm:"size:100;not null"`
	Description    string     `gorm:"size:500"`
	Category       string     `gorm:"type:varchar(16);not null"`
	Status         string     `gorm:"type:varchar(16);not null;index"`
	StartDate      *time.Time `gorm:"type:date"`
	EndDate        *time.Time `gorm:"type:date"`
	TargetAgeMonth *int
	Difficulty     int    `gorm:"not null;default:1"`
	Goals          string `gorm:"type:text"`
	Progress       int    `gorm:"not null;default:0"`
	CreatedBy      string `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Plan) TableName() string { return "education_plans" }

type Activity struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	PlanID        string     `gorm:"type:uuid;not null;index"`
	Name          string     `gorm:"size:100;not null"`
	Type          string     `gorm:"size:50"`
	Status        string     `gorm:"type:varchar(16);not null"`
	ScheduledTime *time.Time
	DurationMins  *int
	Notes         string `gorm:"type:text"`
	Rating        *int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Plan Plan `gorm:"foreignKey:PlanID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Activity) TableName() string { return "plan_activities" }
