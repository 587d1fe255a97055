package post

import "time"

type Post struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;not null;index"`
	AuthorID  string    `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	MediaURLs []string  `gorm:"serializer:json"`
	LikeCount int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Like is one row per liking member. A join table instead of a serialized id
// list keeps the count consistent and the references checkable.
type Like struct {
	PostID    string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Like) TableName() string { return "post_likes" }

type PostView struct {
	Post    Post
	LikedBy []string
}
