package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/config"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/cache"
	"github.com/stylefeed/stylefeed/pkg/logger"
	"github.com/stylefeed/stylefeed/pkg/queue"
)

// FeedService applies the visibility policy to post reads and builds the
// feed: the posts of the viewer and the viewer's accepted friends, newest
// first.
type FeedService struct {
	postRepo    PostStore
	profileRepo ProfileStore
	outfitRepo  OutfitStore
	friends     FriendGraph
	cache       *cache.RedisClient
	producer    EventPublisher
	config      *config.FeedConfig
	logger      *logger.Logger
}

func NewFeedService(
	postRepo PostStore,
	profileRepo ProfileStore,
	outfitRepo OutfitStore,
	friends FriendGraph,
	cache *cache.RedisClient,
	producer EventPublisher,
	config *config.FeedConfig,
	logger *logger.Logger,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		outfitRepo:  outfitRepo,
		friends:     friends,
		cache:       cache,
		producer:    producer,
		config:      config,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	OutfitID   uuid.UUID         `json:"outfit_id" binding:"required"`
	Caption    string            `json:"caption" binding:"max=1000"`
	Visibility models.Visibility `json:"visibility"`
}

type FeedResponse struct {
	Posts  []*models.Post `json:"posts"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// IsPostAccessible decides whether viewerID may read the post. The post's
// Profile must be loaded; its user id is the owner the policy evaluates.
func (s *FeedService) IsPostAccessible(ctx context.Context, post *models.Post, viewerID uuid.UUID) (bool, error) {
	return CanAccess(ctx, post.OwnerUserID(), viewerID, post.Visibility, s.friends.AreFriends)
}

// GetPost loads a post and enforces the visibility gate.
func (s *FeedService) GetPost(ctx context.Context, postID, viewerID uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post does not exist", apperrors.ErrNotFound)
	}

	allowed, err := s.IsPostAccessible(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: post is not visible to this viewer", apperrors.ErrForbidden)
	}

	return post, nil
}

// GetFeed returns a page of the viewer's feed. The filter set is the viewer's
// accepted friends plus the viewer; ordering and paging are delegated to the
// post store. Pages are cached per viewer and dropped by the worker when the
// graph or the post set changes.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uuid.UUID, offset, limit int) (*FeedResponse, error) {
	limit = s.clampLimit(limit)

	cacheKey := feedPageKey(viewerID, offset, limit)
	if s.cache != nil {
		var cached FeedResponse
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	friendIDs, err := s.friends.ListFriends(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	ownerIDs := append(friendIDs, viewerID)

	posts, err := s.postRepo.GetByOwnerUserIDs(ctx, ownerIDs, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}

	response := &FeedResponse{Posts: posts, Offset: offset, Limit: limit}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, response, s.config.CacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache feed page")
		}
	}

	return response, nil
}

// GetUserPosts lists targetUserID's posts that the viewer may read. Instead
// of filtering post by post, the eligible visibility levels are computed once
// from the viewer's relationship to the target; the result is identical to
// running IsPostAccessible over every post. Owners see all levels, friends
// see public and friends-only, everyone else sees public.
func (s *FeedService) GetUserPosts(ctx context.Context, targetUserID, viewerID uuid.UUID, offset, limit int) ([]*models.Post, error) {
	limit = s.clampLimit(limit)

	visibilities := []models.Visibility{models.VisibilityPublic}
	switch {
	case targetUserID == viewerID:
		visibilities = []models.Visibility{models.VisibilityPublic, models.VisibilityFriendsOnly, models.VisibilityPrivate}
	default:
		friends, err := s.friends.AreFriends(ctx, targetUserID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check friendship: %w", err)
		}
		if friends {
			visibilities = []models.Visibility{models.VisibilityPublic, models.VisibilityFriendsOnly}
		}
	}

	posts, err := s.postRepo.GetByOwnerAndVisibility(ctx, targetUserID, visibilities, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get user posts: %w", err)
	}

	return posts, nil
}

// CreatePost publishes an outfit as a post on the caller's profile. The
// outfit must belong to the caller.
func (s *FeedService) CreatePost(ctx context.Context, userID uuid.UUID, req *CreatePostRequest) (*models.Post, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	outfit, err := s.outfitRepo.GetByID(ctx, req.OutfitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outfit: %w", err)
	}
	if outfit == nil {
		return nil, fmt.Errorf("%w: outfit does not exist", apperrors.ErrNotFound)
	}
	if outfit.ProfileID != profile.ID {
		return nil, fmt.Errorf("%w: outfit belongs to another profile", apperrors.ErrForbidden)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = profile.Visibility
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", apperrors.ErrInvalidOperation, visibility)
	}

	post := &models.Post{
		ProfileID:  profile.ID,
		OutfitID:   outfit.ID,
		Caption:    req.Caption,
		Visibility: visibility,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.Profile = *profile

	s.publishPostEvent(ctx, queue.EventPostCreated, post)

	s.logger.WithFields(map[string]interface{}{
		"post_id": post.ID,
		"user_id": userID,
	}).Info("Post created")

	return post, nil
}

// DeletePost soft-deletes the caller's own post.
func (s *FeedService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("%w: post does not exist", apperrors.ErrNotFound)
	}

	if post.OwnerUserID() != userID {
		return fmt.Errorf("%w: only the owner may delete a post", apperrors.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.publishPostEvent(ctx, queue.EventPostDeleted, post)

	s.logger.WithFields(map[string]interface{}{
		"post_id": postID,
		"user_id": userID,
	}).Info("Post deleted")

	return nil
}

func (s *FeedService) clampLimit(limit int) int {
	if limit < 1 {
		return 20
	}
	if s.config != nil && s.config.MaxPageSize > 0 && limit > s.config.MaxPageSize {
		return s.config.MaxPageSize
	}
	return limit
}

func (s *FeedService) publishPostEvent(ctx context.Context, eventType queue.EventType, post *models.Post) {
	if s.producer == nil {
		return
	}

	event, err := queue.NewEvent(eventType, queue.PostEventData{
		PostID:      post.ID.String(),
		OwnerUserID: post.OwnerUserID().String(),
		Visibility:  string(post.Visibility),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build post event")
		return
	}

	if err := s.producer.Publish(ctx, post.OwnerUserID().String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish post event")
	}
}

func feedPageKey(viewerID uuid.UUID, offset, limit int) string {
	return fmt.Sprintf("feed:%s:%d:%d", viewerID, offset, limit)
}
