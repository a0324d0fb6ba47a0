package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/config"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/cache"
	"github.com/stylefeed/stylefeed/pkg/logger"
	"github.com/stylefeed/stylefeed/pkg/queue"
)

// Decision is the recipient's answer to a pending friend request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// FriendshipService owns the friend-request state machine:
// none -> pending -> accepted | rejected. An accepted edge is removable via
// Unfriend; a blocked edge replaces whatever edge existed before it.
type FriendshipService struct {
	friendshipRepo FriendshipStore
	userRepo       UserStore
	cache          *cache.RedisClient
	producer       EventPublisher
	config         *config.FeedConfig
	logger         *logger.Logger
}

func NewFriendshipService(
	friendshipRepo FriendshipStore,
	userRepo UserStore,
	cache *cache.RedisClient,
	producer EventPublisher,
	config *config.FeedConfig,
	logger *logger.Logger,
) *FriendshipService {
	return &FriendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		cache:          cache,
		producer:       producer,
		config:         config,
		logger:         logger,
	}
}

// SendRequest creates a pending edge from sender to recipient. A non-rejected
// edge between the pair, in either direction, blocks the request. The
// read-then-insert here is racy on its own; the partial unique index on
// pair_key (see repository.AutoMigrate) makes the insert lose cleanly, and the
// duplicate error is reported as a conflict.
func (s *FriendshipService) SendRequest(ctx context.Context, senderID, recipientID uuid.UUID) (*models.Friendship, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot send a friend request to yourself", apperrors.ErrInvalidOperation)
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: recipient does not exist", apperrors.ErrNotFound)
	}

	existing, err := s.friendshipRepo.GetActiveByPair(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing edge: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: an active friendship edge already exists", apperrors.ErrConflict)
	}

	edge := &models.Friendship{
		SenderID:    senderID,
		RecipientID: recipientID,
		PairKey:     models.PairKey(senderID, recipientID),
		Status:      models.StatusPending,
	}

	if err := s.friendshipRepo.Create(ctx, edge); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: an active friendship edge already exists", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	s.publishFriendshipEvent(ctx, queue.EventFriendRequestSent, edge)

	s.logger.WithFields(map[string]interface{}{
		"friendship_id": edge.ID,
		"sender_id":     senderID,
		"recipient_id":  recipientID,
	}).Info("Friend request sent")

	return edge, nil
}

// RespondToRequest transitions a pending edge to accepted or rejected. Only
// the recipient of the request may decide, and only while it is pending.
func (s *FriendshipService) RespondToRequest(ctx context.Context, requestID, actingUserID uuid.UUID, decision Decision) (*models.Friendship, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrInvalidOperation, decision)
	}

	edge, err := s.friendshipRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	if edge == nil {
		return nil, fmt.Errorf("%w: friend request does not exist", apperrors.ErrNotFound)
	}

	if edge.RecipientID != actingUserID {
		return nil, fmt.Errorf("%w: only the recipient may respond to a friend request", apperrors.ErrForbidden)
	}

	if edge.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: friend request is %s, not pending", apperrors.ErrInvalidState, edge.Status)
	}

	eventType := queue.EventFriendRequestRejected
	edge.Status = models.StatusRejected
	if decision == DecisionAccept {
		edge.Status = models.StatusAccepted
		eventType = queue.EventFriendRequestAccepted
	}

	if err := s.friendshipRepo.Update(ctx, edge); err != nil {
		return nil, fmt.Errorf("failed to update friend request: %w", err)
	}

	s.invalidateFriendCache(ctx, edge.SenderID, edge.RecipientID)
	s.publishFriendshipEvent(ctx, eventType, edge)

	s.logger.WithFields(map[string]interface{}{
		"friendship_id": edge.ID,
		"acting_user":   actingUserID,
		"status":        edge.Status,
	}).Info("Friend request resolved")

	return edge, nil
}

// ListPending returns the requests awaiting a decision from userID.
func (s *FriendshipService) ListPending(ctx context.Context, userID uuid.UUID) ([]*models.Friendship, error) {
	edges, err := s.friendshipRepo.GetByRecipientAndStatus(ctx, userID, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return edges, nil
}

// ListFriends returns the user ids at the other end of every accepted edge
// touching userID. The set is cached in redis; RespondToRequest, Unfriend and
// Block drop the cache.
func (s *FriendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	cacheKey := friendSetKey(userID)
	if s.cache != nil {
		var cached []uuid.UUID
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	edges, err := s.friendshipRepo.GetAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	friends := make([]uuid.UUID, 0, len(edges))
	for _, edge := range edges {
		friends = append(friends, edge.Other(userID))
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, friends, s.config.FriendCacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache friend set")
		}
	}

	return friends, nil
}

// AreFriends reports whether an accepted edge exists between the pair, in
// either direction.
func (s *FriendshipService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	edge, err := s.friendshipRepo.GetAcceptedByPair(ctx, a, b)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return edge != nil, nil
}

// Unfriend deletes the accepted edge between userID and friendID. Absence of
// an accepted edge means there is nothing to unfriend.
func (s *FriendshipService) Unfriend(ctx context.Context, userID, friendID uuid.UUID) error {
	edge, err := s.friendshipRepo.GetAcceptedByPair(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("failed to check friendship: %w", err)
	}
	if edge == nil {
		return fmt.Errorf("%w: users are not friends", apperrors.ErrInvalidState)
	}

	if err := s.friendshipRepo.Delete(ctx, edge); err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	s.invalidateFriendCache(ctx, userID, friendID)
	s.publishFriendshipEvent(ctx, queue.EventFriendshipRemoved, edge)

	s.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"friend_id": friendID,
	}).Info("Friendship removed")

	return nil
}

// Block replaces whatever edge exists between the pair with a blocked edge
// owned by userID. A blocked edge is active, so it suppresses AreFriends and
// makes further requests fail with a conflict.
func (s *FriendshipService) Block(ctx context.Context, userID, targetID uuid.UUID) (*models.Friendship, error) {
	if userID == targetID {
		return nil, fmt.Errorf("%w: cannot block yourself", apperrors.ErrInvalidOperation)
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: target user does not exist", apperrors.ErrNotFound)
	}

	existing, err := s.friendshipRepo.GetActiveByPair(ctx, userID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing edge: %w", err)
	}
	if existing != nil {
		if existing.Status == models.StatusBlocked {
			if existing.SenderID == userID {
				return existing, nil
			}
			return nil, fmt.Errorf("%w: an active friendship edge already exists", apperrors.ErrConflict)
		}
		if err := s.friendshipRepo.Delete(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to remove existing edge: %w", err)
		}
	}

	edge := &models.Friendship{
		SenderID:    userID,
		RecipientID: targetID,
		PairKey:     models.PairKey(userID, targetID),
		Status:      models.StatusBlocked,
	}

	if err := s.friendshipRepo.Create(ctx, edge); err != nil {
		return nil, fmt.Errorf("failed to create block: %w", err)
	}

	s.invalidateFriendCache(ctx, userID, targetID)
	s.publishFriendshipEvent(ctx, queue.EventUserBlocked, edge)

	s.logger.WithFields(map[string]interface{}{
		"blocker_id": userID,
		"blocked_id": targetID,
	}).Info("User blocked")

	return edge, nil
}

// Unblock deletes a blocked edge. Only the user who created the block may
// remove it.
func (s *FriendshipService) Unblock(ctx context.Context, userID, targetID uuid.UUID) error {
	edge, err := s.friendshipRepo.GetActiveByPair(ctx, userID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check existing edge: %w", err)
	}
	if edge == nil || edge.Status != models.StatusBlocked {
		return fmt.Errorf("%w: user is not blocked", apperrors.ErrInvalidState)
	}
	if edge.SenderID != userID {
		return fmt.Errorf("%w: only the blocker may unblock", apperrors.ErrForbidden)
	}

	if err := s.friendshipRepo.Delete(ctx, edge); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	return nil
}

func (s *FriendshipService) invalidateFriendCache(ctx context.Context, users ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, userID := range users {
		if err := s.cache.Delete(ctx, friendSetKey(userID)); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate friend cache")
		}
	}
}

func (s *FriendshipService) publishFriendshipEvent(ctx context.Context, eventType queue.EventType, edge *models.Friendship) {
	if s.producer == nil {
		return
	}

	event, err := queue.NewEvent(eventType, queue.FriendshipEventData{
		FriendshipID: edge.ID.String(),
		SenderID:     edge.SenderID.String(),
		RecipientID:  edge.RecipientID.String(),
		Status:       string(edge.Status),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build friendship event")
		return
	}

	if err := s.producer.Publish(ctx, edge.SenderID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish friendship event")
	}
}

func friendSetKey(userID uuid.UUID) string {
	return fmt.Sprintf("friends:%s", userID)
}
