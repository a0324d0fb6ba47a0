package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/models"
	"gorm.io/gorm"
)

type OutfitRepository struct {
	db *gorm.DB
}

func NewOutfitRepository(db *gorm.DB) *OutfitRepository {
	return &OutfitRepository{db: db}
}

func (r *OutfitRepository) Create(ctx context.Context, outfit *models.Outfit) error {
	if err := r.db.WithContext(ctx).Create(outfit).Error; err != nil {
		return fmt.Errorf("failed to create outfit: %w", err)
	}
	return nil
}

func (r *OutfitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Outfit, error) {
	var outfit models.Outfit
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&outfit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get outfit: %w", err)
	}
	return &outfit, nil
}

func (r *OutfitRepository) GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*models.Outfit, error) {
	var outfits []*models.Outfit
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&outfits).Error; err != nil {
		return nil, fmt.Errorf("failed to get outfits by profile: %w", err)
	}
	return outfits, nil
}

func (r *OutfitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Outfit{}).Error; err != nil {
		return fmt.Errorf("failed to delete outfit: %w", err)
	}
	return nil
}
