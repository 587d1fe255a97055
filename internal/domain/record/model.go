package record

import "time"

const (
	TypePhoto     = "photo"
	TypeVideo     = "video"
	TypeDiary     = "diary"
	TypeMilestone = "milestone"
	TypeVoice     = "voice"
)

func ValidType(recordType string) bool {
	switch recordType {
	case TypePhoto, TypeVideo, TypeDiary, TypeMilestone, TypeVoice:
		return true
	}
	return false
}

type GrowthRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	BabyID    string    `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(16);not null;index"`
	Title     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text"`
	MediaURLs []string  `gorm:"serializer:json"`
	Tags      []string  `gorm:"serializer:json"`
	Location  string    `gorm:"size:100"`
	Weather   string    `gorm:"size:50"`
	Mood      string    `gorm:"size:50"`
	CreatedBy string    `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
