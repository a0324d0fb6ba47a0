package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post belongs to a Profile. ProfileID is set at creation and never changes.
type Post struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID    uuid.UUID      `json:"profile_id" gorm:"type:uuid;not null;index"`
	OutfitID     uuid.UUID      `json:"outfit_id" gorm:"type:uuid;not null"`
	Caption      string         `json:"caption" gorm:"type:text"`
	Visibility   Visibility     `json:"visibility" gorm:"type:varchar(20);not null;default:'public'"`
	LikeCount    int64          `json:"like_count" gorm:"default:0"`
	CommentCount int64          `json:"comment_count" gorm:"default:0"`
	IsDeleted    bool           `json:"is_deleted" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"profile" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Outfit  Outfit  `json:"outfit" gorm:"foreignKey:OutfitID"`
}

// OwnerUserID is the user id the visibility policy evaluates against.
// Profile must be preloaded.
func (p *Post) OwnerUserID() uuid.UUID {
	return p.Profile.UserID
}

type Like struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID uuid.UUID      `json:"profile_id" gorm:"type:uuid;not null;index:idx_profile_post"`
	PostID    uuid.UUID      `json:"post_id" gorm:"type:uuid;not null;index:idx_profile_post"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Post    Post    `json:"-" gorm:"foreignKey:PostID"`
}

type Comment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID uuid.UUID      `json:"profile_id" gorm:"type:uuid;not null"`
	PostID    uuid.UUID      `json:"post_id" gorm:"type:uuid;not null;index"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"profile" gorm:"foreignKey:ProfileID"`
	Post    Post    `json:"-" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

func (Like) TableName() string {
	return "likes"
}

func (Comment) TableName() string {
	return "comments"
}
