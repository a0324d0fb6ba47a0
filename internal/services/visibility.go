package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/models"
)

// AreFriendsFunc answers whether two users are friends. CanAccess only calls
// it when the visibility level requires a graph lookup.
type AreFriendsFunc func(ctx context.Context, a, b uuid.UUID) (bool, error)

// CanAccess decides whether viewerID may read content owned by ownerID at the
// given visibility level. It is the single policy for both profile and post
// access; the two gates differ only in which owner id and visibility value
// they pass in.
//
// Owners always see their own content. Unknown visibility values deny.
func CanAccess(ctx context.Context, ownerID, viewerID uuid.UUID, visibility models.Visibility, areFriends AreFriendsFunc) (bool, error) {
	if ownerID == viewerID {
		return true, nil
	}

	switch visibility {
	case models.VisibilityPublic:
		return true, nil
	case models.VisibilityPrivate:
		return false, nil
	case models.VisibilityFriendsOnly:
		return areFriends(ctx, ownerID, viewerID)
	default:
		return false, nil
	}
}
