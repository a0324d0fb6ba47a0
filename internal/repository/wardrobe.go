package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/models"
	"gorm.io/gorm"
)

type WardrobeRepository struct {
	db *gorm.DB
}

func NewWardrobeRepository(db *gorm.DB) *WardrobeRepository {
	return &WardrobeRepository{db: db}
}

func (r *WardrobeRepository) Create(ctx context.Context, wardrobe *models.Wardrobe) error {
	if err := r.db.WithContext(ctx).Create(wardrobe).Error; err != nil {
		return fmt.Errorf("failed to create wardrobe: %w", err)
	}
	return nil
}

func (r *WardrobeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wardrobe, error) {
	var wardrobe models.Wardrobe
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&wardrobe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wardrobe: %w", err)
	}
	return &wardrobe, nil
}

func (r *WardrobeRepository) GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*models.Wardrobe, error) {
	var wardrobes []*models.Wardrobe
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&wardrobes).Error; err != nil {
		return nil, fmt.Errorf("failed to get wardrobes by profile: %w", err)
	}
	return wardrobes, nil
}

func (r *WardrobeRepository) Update(ctx context.Context, wardrobe *models.Wardrobe) error {
	if err := r.db.WithContext(ctx).Save(wardrobe).Error; err != nil {
		return fmt.Errorf("failed to update wardrobe: %w", err)
	}
	return nil
}

func (r *WardrobeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Wardrobe{}).Error; err != nil {
		return fmt.Errorf("failed to delete wardrobe: %w", err)
	}
	return nil
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *ItemRepository) GetByWardrobeID(ctx context.Context, wardrobeID uuid.UUID) ([]*models.Item, error) {
	var items []*models.Item
	if err := r.db.WithContext(ctx).
		Where("wardrobe_id = ?", wardrobeID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items by wardrobe: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Item{}).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
