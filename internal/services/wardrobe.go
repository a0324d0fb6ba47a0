package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/logger"
)

// WardrobeService owns wardrobe and item CRUD. Reads of another user's
// wardrobes go through the profile gate: a wardrobe is as visible as the
// profile that owns it.
type WardrobeService struct {
	wardrobeRepo WardrobeStore
	itemRepo     ItemStore
	profileRepo  ProfileStore
	gate         *ProfileService
	logger       *logger.Logger
}

func NewWardrobeService(
	wardrobeRepo WardrobeStore,
	itemRepo ItemStore,
	profileRepo ProfileStore,
	gate *ProfileService,
	logger *logger.Logger,
) *WardrobeService {
	return &WardrobeService{
		wardrobeRepo: wardrobeRepo,
		itemRepo:     itemRepo,
		profileRepo:  profileRepo,
		gate:         gate,
		logger:       logger,
	}
}

type CreateWardrobeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type AddItemRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Category string `json:"category" binding:"max=50"`
	Color    string `json:"color" binding:"max=50"`
	Brand    string `json:"brand" binding:"max=100"`
	ImageURL string `json:"image_url"`
}

func (s *WardrobeService) CreateWardrobe(ctx context.Context, userID uuid.UUID, req *CreateWardrobeRequest) (*models.Wardrobe, error) {
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	wardrobe := &models.Wardrobe{
		ProfileID:   profile.ID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.wardrobeRepo.Create(ctx, wardrobe); err != nil {
		return nil, fmt.Errorf("failed to create wardrobe: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"wardrobe_id": wardrobe.ID,
		"user_id":     userID,
	}).Info("Wardrobe created")

	return wardrobe, nil
}

// ListWardrobes returns targetUserID's wardrobes if the viewer may read the
// owning profile.
func (s *WardrobeService) ListWardrobes(ctx context.Context, targetUserID, viewerID uuid.UUID) ([]*models.Wardrobe, error) {
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

	wardrobes, err := s.wardrobeRepo.GetByProfileID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wardrobes: %w", err)
	}
	return wardrobes, nil
}

func (s *WardrobeService) AddItem(ctx context.Context, userID, wardrobeID uuid.UUID, req *AddItemRequest) (*models.Item, error) {
	if _, err := s.ownedWardrobe(ctx, userID, wardrobeID); err != nil {
		return nil, err
	}

	item := &models.Item{
		WardrobeID: wardrobeID,
		Name:       req.Name,
		Category:   req.Category,
		Color:      req.Color,
		Brand:      req.Brand,
		ImageURL:   req.ImageURL,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

func (s *WardrobeService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("%w: item does not exist", apperrors.ErrNotFound)
	}

	if _, err := s.ownedWardrobe(ctx, userID, item.WardrobeID); err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *WardrobeService) DeleteWardrobe(ctx context.Context, userID, wardrobeID uuid.UUID) error {
	if _, err := s.ownedWardrobe(ctx, userID, wardrobeID); err != nil {
		return err
	}

	if err := s.wardrobeRepo.Delete(ctx, wardrobeID); err != nil {
		return fmt.Errorf("failed to delete wardrobe: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"wardrobe_id": wardrobeID,
		"user_id":     userID,
	}).Info("Wardrobe deleted")

	return nil
}

func (s *WardrobeService) ownProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}
	return profile, nil
}

func (s *WardrobeService) ownedWardrobe(ctx context.Context, userID, wardrobeID uuid.UUID) (*models.Wardrobe, error) {
	wardrobe, err := s.wardrobeRepo.GetByID(ctx, wardrobeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wardrobe: %w", err)
	}
	if wardrobe == nil {
		return nil, fmt.Errorf("%w: wardrobe does not exist", apperrors.ErrNotFound)
	}

	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wardrobe.ProfileID != profile.ID {
		return nil, fmt.Errorf("%w: wardrobe belongs to another profile", apperrors.ErrForbidden)
	}
	return wardrobe, nil
}
