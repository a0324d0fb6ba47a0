package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/logger"
)

// OutfitService assembles wardrobe items into outfits. Like wardrobes,
// another user's outfits are as visible as the owning profile.
type OutfitService struct {
	outfitRepo   OutfitStore
	itemRepo     ItemStore
	wardrobeRepo WardrobeStore
	profileRepo  ProfileStore
	gate         *ProfileService
	logger       *logger.Logger
}

func NewOutfitService(
	outfitRepo OutfitStore,
	itemRepo ItemStore,
	wardrobeRepo WardrobeStore,
	profileRepo ProfileStore,
	gate *ProfileService,
	logger *logger.Logger,
) *OutfitService {
	return &OutfitService{
		outfitRepo:   outfitRepo,
		itemRepo:     itemRepo,
		wardrobeRepo: wardrobeRepo,
		profileRepo:  profileRepo,
		gate:         gate,
		logger:       logger,
	}
}

type CreateOutfitRequest struct {
	Name    string      `json:"name" binding:"required,max=100"`
	Season  string      `json:"season" binding:"max=20"`
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

// CreateOutfit builds an outfit from items that all live in the caller's own
// wardrobes.
func (s *OutfitService) CreateOutfit(ctx context.Context, userID uuid.UUID, req *CreateOutfitRequest) (*models.Outfit, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	items := make([]models.Item, 0, len(req.ItemIDs))
	for _, itemID := range req.ItemIDs {
		item, err := s.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get item: %w", err)
		}
		if item == nil {
			return nil, fmt.Errorf("%w: item %s does not exist", apperrors.ErrNotFound, itemID)
		}

		wardrobe, err := s.wardrobeRepo.GetByID(ctx, item.WardrobeID)
		if err != nil {
			return nil, fmt.Errorf("failed to get wardrobe: %w", err)
		}
		if wardrobe == nil || wardrobe.ProfileID != profile.ID {
			return nil, fmt.Errorf("%w: item %s belongs to another profile", apperrors.ErrForbidden, itemID)
		}

		items = append(items, *item)
	}

	outfit := &models.Outfit{
		ProfileID: profile.ID,
		Name:      req.Name,
		Season:    req.Season,
		Items:     items,
	}

	if err := s.outfitRepo.Create(ctx, outfit); err != nil {
		return nil, fmt.Errorf("failed to create outfit: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"outfit_id": outfit.ID,
		"user_id":   userID,
	}).Info("Outfit created")

	return outfit, nil
}

// ListOutfits returns targetUserID's outfits if the viewer may read the
// owning profile.
func (s *OutfitService) ListOutfits(ctx context.Context, targetUserID, viewerID uuid.UUID) ([]*models.Outfit, error) {
	allowed, err := s.gate.IsProfileAccessible(ctx, targetUserID, viewerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: profile is not visible to this viewer", apperrors.ErrForbidden)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	outfits, err := s.outfitRepo.GetByProfileID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	return outfits, nil
}

func (s *OutfitService) DeleteOutfit(ctx context.Context, userID, outfitID uuid.UUID) error {
	outfit, err := s.outfitRepo.GetByID(ctx, outfitID)
	if err != nil {
		return fmt.Errorf("failed to get outfit: %w", err)
	}
	if outfit == nil {
		return fmt.Errorf("%w: outfit does not exist", apperrors.ErrNotFound)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}
	if outfit.ProfileID != profile.ID {
		return fmt.Errorf("%w: outfit belongs to another profile", apperrors.ErrForbidden)
	}

	if err := s.outfitRepo.Delete(ctx, outfitID); err != nil {
		return fmt.Errorf("failed to delete outfit: %w", err)
	}

	return nil
}
