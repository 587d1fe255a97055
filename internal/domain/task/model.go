package task

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	CategoryFeeding   = "feeding"
	CategoryDiaper    = "diaper"
	CategoryBath      = "bath"
	CategoryPlay      = "play"
	CategoryEducation = "education"
	CategoryMedical   = "medical"
	CategorySleep     = "sleep"
	CategoryOther     = "other"
)

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidCategory(category string) bool {
	switch category {
	case CategoryFeeding, CategoryDiaper, CategoryBath, CategoryPlay,
		CategoryEducation, CategoryMedical, CategorySleep, CategoryOther:
		return true
	}
	return false
}

type Task struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	FamilyID        string `gorm:"type:uuid;not null;index"`
	Title           string `gorm:"size:100;not null"`
	Description     string `gorm:"size:500"`
	AssignedBy      string `gorm:"type:uuid;not null;index"`
	DueDate         *time.Time
	Priority        string `gorm:"type:varchar(16);not null"`
	Status          string `gorm:"type:varchar(16);not null;index"`
	Category        string `gorm:"type:varchar(16);not null"`
	CompletedAt     *time.Time
	CompletedBy     *string `gorm:"type:uuid"`
	CompletionNotes string  `gorm:"size:500"`
	ReminderTime    *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// Assignee is one row per assigned member; a join table rather than an
// id list serialized into a column, so the references stay checkable.
type Assignee struct {
	TaskID string `gorm:"type:uuid;primaryKey"`
	UserID string `gorm:"type:uuid;primaryKey;index"`

	Task Task `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Assignee) TableName() string { return "task_assignees" }

type TaskWithAssignees struct {
	Task      Task
	Assignees []string
}
