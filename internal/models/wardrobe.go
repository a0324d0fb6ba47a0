package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wardrobe struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID   uuid.UUID      `json:"profile_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Items   []Item  `json:"items,omitempty" gorm:"foreignKey:WardrobeID;constraint:OnDelete:CASCADE"`
}

type Item struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WardrobeID uuid.UUID      `json:"wardrobe_id" gorm:"type:uuid;not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	Category   string         `json:"category"`
	Color      string         `json:"color"`
	Brand      string         `json:"brand"`
	ImageURL   string         `json:"image_url"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Wardrobe Wardrobe `json:"-" gorm:"foreignKey:WardrobeID"`
}

type Outfit struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID uuid.UUID      `json:"profile_id" gorm:"type:uuid;not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	Season    string         `json:"season"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Items   []Item  `json:"items,omitempty" gorm:"many2many:outfit_items"`
}

func (Wardrobe) TableName() string {
	return "wardrobes"
}

func (Item) TableName() string {
	return "items"
}

func (Outfit) TableName() string {
	return "outfits"
}
