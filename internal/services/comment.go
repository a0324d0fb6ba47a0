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

type CommentService struct {
	commentRepo CommentStore
	postRepo    PostStore
	profileRepo ProfileStore
	feed        *FeedService
	producer    EventPublisher
	logger      *logger.Logger
}

func NewCommentService(
	commentRepo CommentStore,
	postRepo PostStore,
	profileRepo ProfileStore,
	feed *FeedService,
	producer EventPublisher,
	logger *logger.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		feed:        feed,
		producer:    producer,
		logger:      logger,
	}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

// CreateComment adds a comment to a post the caller can see.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uuid.UUID, req *CreateCommentRequest) (*models.Comment, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	post, err := s.feed.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ProfileID: profile.ID,
		PostID:    post.ID,
		Content:   req.Content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.postRepo.UpdateCommentCount(ctx, postID, 1); err != nil {
		s.logger.WithError(err).Error("Failed to update comment count")
	}

	s.publishCommentEvent(ctx, comment)

	return comment, nil
}

// GetPostComments lists a post's comments, oldest first, behind the post gate.
func (s *CommentService) GetPostComments(ctx context.Context, userID, postID uuid.UUID, offset, limit int) ([]*models.Comment, error) {
	if _, err := s.feed.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByPostID(ctx, postID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes the caller's own comment.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return fmt.Errorf("%w: comment does not exist", apperrors.ErrNotFound)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("%w: profile does not exist", apperrors.ErrNotFound)
	}

	if comment.ProfileID != profile.ID {
		return fmt.Errorf("%w: only the author may delete a comment", apperrors.ErrForbidden)
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if err := s.postRepo.UpdateCommentCount(ctx, comment.PostID, -1); err != nil {
		s.logger.WithError(err).Error("Failed to update comment count")
	}

	return nil
}

func (s *CommentService) publishCommentEvent(ctx context.Context, comment *models.Comment) {
	if s.producer == nil {
		return
	}

	event, err := queue.NewEvent(queue.EventCommentCreated, queue.CommentEventData{
		CommentID: comment.ID.String(),
		ProfileID: comment.ProfileID.String(),
		PostID:    comment.PostID.String(),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build comment event")
		return
	}

	if err := s.producer.Publish(ctx, comment.PostID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish comment event")
	}
}
