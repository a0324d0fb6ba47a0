package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/logger"
	"github.com/stylefeed/stylefeed/pkg/queue"
)

// LikeService lets users like posts they can see. The post gate runs before
// any mutation.
type LikeService struct {
	likeRepo    LikeStore
	postRepo    PostStore
	profileRepo ProfileStore
	feed        *FeedService
	producer    EventPublisher
	logger      *logger.Logger
}

func NewLikeService(
	likeRepo LikeStore,
	postRepo PostStore,
	profileRepo ProfileStore,
	feed *FeedService,
	producer EventPublisher,
	logger *logger.Logger,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		feed:        feed,
		producer:    producer,
		logger:      logger,
	}
}

func (s *LikeService) LikePost(ctx context.Context, userID, postID uuid.UUID) error {
	profile, post, err := s.actorAndPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	existing, err := s.likeRepo.Get(ctx, profile.ID, postID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: post already liked", apperrors.ErrConflict)
	}

	like := &models.Like{ProfileID: profile.ID, PostID: postID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}

	if err := s.postRepo.UpdateLikeCount(ctx, postID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to update like count")
	}

	s.publishLikeEvent(ctx, queue.EventLikeCreated, profile.ID, post.ID)
	return nil
}

func (s *LikeService) UnlikePost(ctx context.Context, userID, postID uuid.UUID) error {
	profile, post, err := s.actorAndPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	existing, err := s.likeRepo.Get(ctx, profile.ID, postID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: post is not liked", apperrors.ErrInvalidState)
	}

	if err := s.likeRepo.Delete(ctx, profile.ID, postID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	if err := s.postRepo.UpdateLikeCount(ctx, postID, -1); err != nil {
		s.logger.WithError(err).Error("Failed to update like count")
	}

	s.publishLikeEvent(ctx, queue.EventLikeDeleted, profile.ID, post.ID)
	return nil
}

func (s *LikeService) GetPostLikes(ctx context.Context, userID, postID uuid.UUID, offset, limit int) ([]*models.Like, error) {
	if _, err := s.feed.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	likes, err := s.likeRepo.GetByPostID(ctx, postID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}
	return likes, nil
}

func (s *LikeService) actorAndPost(ctx context.Context, userID, postID uuid.UUID) (*models.Profile, *models.Post, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	post, err := s.feed.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, nil, err
	}

	return profile, post, nil
}

func (s *LikeService) publishLikeEvent(ctx context.Context, eventType queue.EventType, profileID, postID uuid.UUID) {
	if s.producer == nil {
		return
	}

	event, err := queue.NewEvent(eventType, queue.LikeEventData{
		ProfileID: profileID.String(),
		PostID:    postID.String(),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build like event")
		return
	}

	if err := s.producer.Publish(ctx, postID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish like event")
	}
}
