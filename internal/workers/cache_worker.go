package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/services"
	"github.com/stylefeed/stylefeed/pkg/cache"
	"github.com/stylefeed/stylefeed/pkg/logger"
	"github.com/stylefeed/stylefeed/pkg/queue"
)

// CacheWorker consumes social and feed events and drops the Redis entries
// they invalidate: the friend-id set of each affected user and the cached
// feed pages of everyone whose feed could contain the changed data.
type CacheWorker struct {
	friendshipService *services.FriendshipService
	cache             *cache.RedisClient
	consumer          *queue.KafkaConsumer
	logger            *logger.Logger
}

func NewCacheWorker(
	friendshipService *services.FriendshipService,
	cache *cache.RedisClient,
	consumer *queue.KafkaConsumer,
	logger *logger.Logger,
) *CacheWorker {
	return &CacheWorker{
		friendshipService: friendshipService,
		cache:             cache,
		consumer:          consumer,
		logger:            logger,
	}
}

func (w *CacheWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cache worker...")

	return w.consumer.Subscribe(ctx, func(msg queue.Message) error {
		event := msg.Event

		w.logger.WithFields(map[string]interface{}{
			"event_type": event.Type,
			"timestamp":  event.Timestamp,
		}).Info("Processing event")

		switch event.Type {
		case queue.EventFriendRequestAccepted,
			queue.EventFriendshipRemoved,
			queue.EventUserBlocked:
			return w.handleFriendshipChanged(ctx, event)
		case queue.EventFriendRequestSent, queue.EventFriendRequestRejected:
			// Pending and rejected edges never reach the friend sets or feeds.
			return nil
		case queue.EventPostCreated, queue.EventPostDeleted:
			return w.handlePostChanged(ctx, event)
		case queue.EventLikeCreated, queue.EventLikeDeleted, queue.EventCommentCreated:
			return w.handleEngagement(ctx, event)
		default:
			w.logger.WithField("event_type", event.Type).Warn("Unknown event type")
			return nil
		}
	})
}

func (w *CacheWorker) handleFriendshipChanged(ctx context.Context, event queue.Event) error {
	var data queue.FriendshipEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal friendship event data: %w", err)
	}

	senderID, err := uuid.Parse(data.SenderID)
	if err != nil {
		return fmt.Errorf("invalid sender ID: %w", err)
	}
	recipientID, err := uuid.Parse(data.RecipientID)
	if err != nil {
		return fmt.Errorf("invalid recipient ID: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"sender_id":    data.SenderID,
		"recipient_id": data.RecipientID,
		"status":       data.Status,
	}).Info("Handling friendship change")

	for _, userID := range []uuid.UUID{senderID, recipientID} {
		if err := w.cache.Delete(ctx, fmt.Sprintf("friends:%s", userID)); err != nil {
			w.logger.WithError(err).WithField("user_id", userID).Error("Failed to clear friend set")
		}
		if err := w.clearFeedCache(ctx, userID.String()); err != nil {
			w.logger.WithError(err).WithField("user_id", userID).Error("Failed to clear feed cache")
		}
	}

	return nil
}

func (w *CacheWorker) handlePostChanged(ctx context.Context, event queue.Event) error {
	var data queue.PostEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal post event data: %w", err)
	}

	ownerID, err := uuid.Parse(data.OwnerUserID)
	if err != nil {
		return fmt.Errorf("invalid owner user ID: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"post_id":       data.PostID,
		"owner_user_id": data.OwnerUserID,
	}).Info("Handling post change")

	// The post can appear in the owner's feed and in every friend's feed.
	if err := w.clearFeedCache(ctx, data.OwnerUserID); err != nil {
		w.logger.WithError(err).Error("Failed to clear owner feed cache")
	}

	friendIDs, err := w.friendshipService.ListFriends(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list friends of post owner: %w", err)
	}
	for _, friendID := range friendIDs {
		if err := w.clearFeedCache(ctx, friendID.String()); err != nil {
			w.logger.WithError(err).WithField("user_id", friendID).Error("Failed to clear friend feed cache")
		}
	}

	return nil
}

func (w *CacheWorker) handleEngagement(ctx context.Context, event queue.Event) error {
	var data queue.LikeEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal engagement event data: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"profile_id": data.ProfileID,
		"post_id":    data.PostID,
	}).Info("Handling engagement event")

	// Like and comment counts are denormalized onto posts, so cached feed
	// pages holding the post are stale. Only the post cache key is cheap to
	// target here; feed pages expire on their own TTL.
	if err := w.cache.Delete(ctx, fmt.Sprintf("post:%s", data.PostID)); err != nil {
		return fmt.Errorf("failed to delete post cache: %w", err)
	}

	return nil
}

func (w *CacheWorker) clearFeedCache(ctx context.Context, userID string) error {
	pattern := fmt.Sprintf("feed:%s:*", userID)
	if err := w.cache.DeleteByPattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to delete feed cache: %w", err)
	}
	w.logger.WithField("user_id", userID).Info("Cleared feed cache")
	return nil
}

func (w *CacheWorker) Stop() error {
	w.logger.Info("Stopping cache worker...")
	return w.consumer.Close()
}
