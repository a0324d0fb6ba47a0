package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
	"gorm.io/gorm"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Create inserts a new edge. A unique-key violation on the active-pair index
// is reported as a conflict so concurrent duplicate requests fail cleanly.
func (r *FriendshipRepository) Create(ctx context.Context, edge *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: friendship edge already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *FriendshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var edge models.Friendship
	if err := r.db.WithContext(ctx).First(&edge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return &edge, nil
}

func (r *FriendshipRepository) GetActiveByPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	var edge models.Friendship
	if err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status <> ?", models.PairKey(a, b), models.StatusRejected).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active edge: %w", err)
	}
	return &edge, nil
}

func (r *FriendshipRepository) GetAcceptedByPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	var edge models.Friendship
	if err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status = ?", models.PairKey(a, b), models.StatusAccepted).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get accepted edge: %w", err)
	}
	return &edge, nil
}

func (r *FriendshipRepository) GetByRecipientAndStatus(ctx context.Context, recipientID uuid.UUID, status models.FriendshipStatus) ([]*models.Friendship, error) {
	var edges []*models.Friendship
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, status).
		Order("created_at DESC").
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("failed to get edges by recipient: %w", err)
	}
	return edges, nil
}

func (r *FriendshipRepository) GetAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Friendship, error) {
	var edges []*models.Friendship
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR recipient_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("failed to get accepted edges: %w", err)
	}
	return edges, nil
}

func (r *FriendshipRepository) Update(ctx context.Context, edge *models.Friendship) error {
	if err := r.db.WithContext(ctx).Save(edge).Error; err != nil {
		return fmt.Errorf("failed to update friendship: %w", err)
	}
	return nil
}

func (r *FriendshipRepository) Delete(ctx context.Context, edge *models.Friendship) error {
	if err := r.db.WithContext(ctx).Delete(edge).Error; err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	return nil
}
