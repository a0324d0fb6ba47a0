package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/logger"
)

// ProfileService applies the visibility policy to profile reads and owns
// profile mutation. A user without a profile is treated as a data-integrity
// problem: gate checks fail with a hard not-found instead of a quiet deny.
type ProfileService struct {
	profileRepo ProfileStore
	friends     FriendGraph
	logger      *logger.Logger
}

func NewProfileService(profileRepo ProfileStore, friends FriendGraph, logger *logger.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		friends:     friends,
		logger:      logger,
	}
}

type UpdateProfileRequest struct {
	DisplayName      *string            `json:"display_name" binding:"omitempty,max=50"`
	Bio              *string            `json:"bio" binding:"omitempty,max=500"`
	Avatar           *string            `json:"avatar"`
	StylePreferences []string           `json:"style_preferences"`
	Visibility       *models.Visibility `json:"visibility"`
}

// IsProfileAccessible decides whether viewerID may read the profile owned by
// ownerUserID.
func (s *ProfileService) IsProfileAccessible(ctx context.Context, ownerUserID, viewerID uuid.UUID) (bool, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, ownerUserID)
	if err != nil {
		return false, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return false, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	return CanAccess(ctx, ownerUserID, viewerID, profile.Visibility, s.friends.AreFriends)
}

// GetProfile returns the owner's profile if the viewer may read it.
func (s *ProfileService) GetProfile(ctx context.Context, ownerUserID, viewerID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	allowed, err := CanAccess(ctx, ownerUserID, viewerID, profile.Visibility, s.friends.AreFriends)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: profile is not visible to this viewer", apperrors.ErrForbidden)
	}

	return profile, nil
}

// CreateProfile creates the single profile of a user. Registration calls this
// with defaults; the unique index on user_id backs up the conflict check.
func (s *ProfileService) CreateProfile(ctx context.Context, userID uuid.UUID, displayName string) (*models.Profile, error) {
	existing, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already has a profile", apperrors.ErrConflict)
	}

	profile := &models.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Visibility:  models.VisibilityPublic,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.WithField("user_id", userID).Info("Profile created")
	return profile, nil
}

// UpdateProfile mutates the caller's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Avatar != nil {
		profile.Avatar = *req.Avatar
	}
	if req.StylePreferences != nil {
		profile.StylePreferences = req.StylePreferences
	}
	if req.Visibility != nil {
		if !req.Visibility.Valid() {
			return nil, fmt.Errorf("%w: unknown visibility %q", apperrors.ErrInvalidOperation, *req.Visibility)
		}
		profile.Visibility = *req.Visibility
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.WithField("user_id", userID).Info("Profile updated")
	return profile, nil
}

// GetOwnProfile loads the caller's profile without a gate check.
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}
	return profile, nil
}
