package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/models"
)

// Store interfaces consumed by the services. The gorm implementations live in
// internal/repository; tests substitute in-memory fakes. Get methods return
// (nil, nil) when the record is absent.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type FriendshipStore interface {
	Create(ctx context.Context, edge *models.Friendship) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	// GetActiveByPair returns the non-rejected edge between the unordered
	// pair, in either direction.
	GetActiveByPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error)
	GetAcceptedByPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error)
	GetByRecipientAndStatus(ctx context.Context, recipientID uuid.UUID, status models.FriendshipStatus) ([]*models.Friendship, error)
	GetAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Friendship, error)
	Update(ctx context.Context, edge *models.Friendship) error
	Delete(ctx context.Context, edge *models.Friendship) error
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID preloads the owning Profile so visibility can be evaluated.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetByOwnerUserIDs(ctx context.Context, ownerUserIDs []uuid.UUID, offset, limit int) ([]*models.Post, error)
	GetByOwnerAndVisibility(ctx context.Context, ownerUserID uuid.UUID, visibilities []models.Visibility, offset, limit int) ([]*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error
	UpdateCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error
}

type WardrobeStore interface {
	Create(ctx context.Context, wardrobe *models.Wardrobe) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wardrobe, error)
	GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*models.Wardrobe, error)
	Update(ctx context.Context, wardrobe *models.Wardrobe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	GetByWardrobeID(ctx context.Context, wardrobeID uuid.UUID) ([]*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OutfitStore interface {
	Create(ctx context.Context, outfit *models.Outfit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Outfit, error)
	GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*models.Outfit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Get(ctx context.Context, profileID, postID uuid.UUID) (*models.Like, error)
	GetByPostID(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.Like, error)
	Delete(ctx context.Context, profileID, postID uuid.UUID) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetByPostID(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventPublisher decouples services from the Kafka producer. Services treat a
// nil publisher as a no-op so tests can leave it unset.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// FriendGraph is the slice of the friendship engine consumed by the access
// gates.
type FriendGraph interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
