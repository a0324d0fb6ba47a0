package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylefeed/stylefeed/internal/models"
)

func TestCanAccess(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	areFriends := func(friends bool) AreFriendsFunc {
		return func(ctx context.Context, a, b uuid.UUID) (bool, error) {
			return friends, nil
		}
	}

	tests := []struct {
		name       string
		viewer     uuid.UUID
		visibility models.Visibility
		friends    bool
		want       bool
	}{
		{"owner sees own public", owner, models.VisibilityPublic, false, true},
		{"owner sees own private", owner, models.VisibilityPrivate, false, true},
		{"owner sees own friends_only", owner, models.VisibilityFriendsOnly, false, true},
		{"stranger sees public", stranger, models.VisibilityPublic, false, true},
		{"friend sees public", stranger, models.VisibilityPublic, true, true},
		{"stranger denied private", stranger, models.VisibilityPrivate, false, false},
		{"friend denied private", stranger, models.VisibilityPrivate, true, false},
		{"friend sees friends_only", stranger, models.VisibilityFriendsOnly, true, true},
		{"stranger denied friends_only", stranger, models.VisibilityFriendsOnly, false, false},
		{"unknown visibility denies", stranger, models.Visibility("secret"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanAccess(context.Background(), owner, tt.viewer, tt.visibility, areFriends(tt.friends))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The owner check short-circuits before the graph is consulted, so a
// self-view never costs a friendship lookup.
func TestCanAccess_OwnerSkipsGraphLookup(t *testing.T) {
	owner := uuid.New()
	called := false
	areFriends := func(ctx context.Context, a, b uuid.UUID) (bool, error) {
		called = true
		return false, nil
	}

	got, err := CanAccess(context.Background(), owner, owner, models.VisibilityPrivate, areFriends)
	require.NoError(t, err)
	assert.True(t, got)
	assert.False(t, called)
}

// Visibility widening never revokes access: every viewer allowed at a
// narrower level is allowed at every wider level.
func TestCanAccess_WideningIsMonotonic(t *testing.T) {
	owner := uuid.New()
	viewers := map[string]uuid.UUID{
		"owner":    owner,
		"friend":   uuid.New(),
		"stranger": uuid.New(),
	}
	friendID := viewers["friend"]
	areFriends := func(ctx context.Context, a, b uuid.UUID) (bool, error) {
		return a == friendID || b == friendID, nil
	}

	// Narrowest to widest.
	levels := []models.Visibility{
		models.VisibilityPrivate,
		models.VisibilityFriendsOnly,
		models.VisibilityPublic,
	}

	for name, viewer := range viewers {
		prev := false
		for _, level := range levels {
			got, err := CanAccess(context.Background(), owner, viewer, level, areFriends)
			require.NoError(t, err)
			assert.False(t, prev && !got, "%s lost access widening to %s", name, level)
			prev = got
		}
	}
}
