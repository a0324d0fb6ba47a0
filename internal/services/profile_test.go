package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
)

// stubFriendGraph answers friendship queries from a fixed set of pairs.
type stubFriendGraph struct {
	pairs map[string]bool
}

func newStubFriendGraph() *stubFriendGraph {
	return &stubFriendGraph{pairs: make(map[string]bool)}
}

func (g *stubFriendGraph) befriend(a, b uuid.UUID) {
	g.pairs[models.PairKey(a, b)] = true
}

func (g *stubFriendGraph) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return g.pairs[models.PairKey(a, b)], nil
}

func (g *stubFriendGraph) ListFriends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func newProfileFixture(t *testing.T) (*ProfileService, *memProfileStore, *stubFriendGraph) {
	t.Helper()
	profiles := newMemProfileStore()
	graph := newStubFriendGraph()
	svc := NewProfileService(profiles, graph, testLogger())
	return svc, profiles, graph
}

func seedProfile(t *testing.T, profiles *memProfileStore, visibility models.Visibility) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		UserID:      uuid.New(),
		DisplayName: "someone",
		Visibility:  visibility,
	}
	require.NoError(t, profiles.Create(context.Background(), profile))
	return profile
}

func TestGetProfile_Public(t *testing.T) {
	svc, profiles, _ := newProfileFixture(t)
	owner := seedProfile(t, profiles, models.VisibilityPublic)

	got, err := svc.GetProfile(context.Background(), owner.UserID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)
}

func TestGetProfile_PrivateDeniesEveryoneButOwner(t *testing.T) {
	svc, profiles, graph := newProfileFixture(t)
	owner := seedProfile(t, profiles, models.VisibilityPrivate)
	friend := uuid.New()
	graph.befriend(owner.UserID, friend)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, owner.UserID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Private denies even friends.
	_, err = svc.GetProfile(ctx, owner.UserID, friend)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err := svc.GetProfile(ctx, owner.UserID, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)
}

func TestGetProfile_FriendsOnly(t *testing.T) {
	svc, profiles, graph := newProfileFixture(t)
	owner := seedProfile(t, profiles, models.VisibilityFriendsOnly)
	friend := uuid.New()
	graph.befriend(owner.UserID, friend)
	ctx := context.Background()

	got, err := svc.GetProfile(ctx, owner.UserID, friend)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)

	_, err = svc.GetProfile(ctx, owner.UserID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

// A user without a profile is a data-integrity problem, reported as
// not-found rather than a silent deny.
func TestProfileGate_MissingProfile(t *testing.T) {
	svc, _, _ := newProfileFixture(t)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.IsProfileAccessible(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateProfile_OnePerUser(t *testing.T) {
	svc, _, _ := newProfileFixture(t)
	userID := uuid.New()
	ctx := context.Background()

	profile, err := svc.CreateProfile(ctx, userID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, profile.Visibility)

	_, err = svc.CreateProfile(ctx, userID, "alice again")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	svc, profiles, _ := newProfileFixture(t)
	owner := seedProfile(t, profiles, models.VisibilityPublic)
	owner.Bio = "old bio"

	bio := "new bio"
	visibility := models.VisibilityFriendsOnly
	updated, err := svc.UpdateProfile(context.Background(), owner.UserID, &UpdateProfileRequest{
		Bio:        &bio,
		Visibility: &visibility,
	})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, models.VisibilityFriendsOnly, updated.Visibility)
	// Untouched fields survive.
	assert.Equal(t, "someone", updated.DisplayName)
}

func TestUpdateProfile_RejectsUnknownVisibility(t *testing.T) {
	svc, profiles, _ := newProfileFixture(t)
	owner := seedProfile(t, profiles, models.VisibilityPublic)

	bad := models.Visibility("everyone")
	_, err := svc.UpdateProfile(context.Background(), owner.UserID, &UpdateProfileRequest{Visibility: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)
}

func TestUpdateProfile_MissingProfile(t *testing.T) {
	svc, _, _ := newProfileFixture(t)

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), &UpdateProfileRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
