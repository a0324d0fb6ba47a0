package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/models"
)

type feedFixture struct {
	feed       *FeedService
	friendship *FriendshipService
	users      *memUserStore
	profiles   *memProfileStore
	posts      *memPostStore
	outfits    *memOutfitStore
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	users := newMemUserStore()
	profiles := newMemProfileStore()
	posts := newMemPostStore()
	outfits := newMemOutfitStore()
	edges := newMemFriendshipStore()
	log := testLogger()
	cfg := testFeedConfig()

	friendship := NewFriendshipService(edges, users, nil, nil, cfg, log)
	feed := NewFeedService(posts, profiles, outfits, friendship, nil, nil, cfg, log)

	return &feedFixture{
		feed:       feed,
		friendship: friendship,
		users:      users,
		profiles:   profiles,
		posts:      posts,
		outfits:    outfits,
	}
}

func (f *feedFixture) newMember(t *testing.T, username string) (*models.User, *models.Profile) {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: username}
	f.users.add(user)
	profile := &models.Profile{UserID: user.ID, DisplayName: username, Visibility: models.VisibilityPublic}
	require.NoError(t, f.profiles.Create(ctx, profile))
	return user, profile
}

func (f *feedFixture) befriend(t *testing.T, a, b uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	edge, err := f.friendship.SendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = f.friendship.RespondToRequest(ctx, edge.ID, b, DecisionAccept)
	require.NoError(t, err)
}

func (f *feedFixture) seedPost(t *testing.T, profile *models.Profile, visibility models.Visibility) *models.Post {
	t.Helper()
	post := &models.Post{
		ProfileID:  profile.ID,
		OutfitID:   uuid.New(),
		Visibility: visibility,
		Profile:    *profile,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, f.posts.Create(context.Background(), post))
	return post
}

func TestGetPost_FriendsOnlyOpensOnAccept(t *testing.T) {
	f := newFeedFixture(t)
	owner, ownerProfile := f.newMember(t, "owner")
	viewer, _ := f.newMember(t, "viewer")
	post := f.seedPost(t, ownerProfile, models.VisibilityFriendsOnly)
	ctx := context.Background()

	_, err := f.feed.GetPost(ctx, post.ID, viewer.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	f.befriend(t, viewer.ID, owner.ID)

	got, err := f.feed.GetPost(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestGetPost_Missing(t *testing.T) {
	f := newFeedFixture(t)
	viewer, _ := f.newMember(t, "viewer")

	_, err := f.feed.GetPost(context.Background(), uuid.New(), viewer.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetPost_DeletedIsGone(t *testing.T) {
	f := newFeedFixture(t)
	owner, ownerProfile := f.newMember(t, "owner")
	post := f.seedPost(t, ownerProfile, models.VisibilityPublic)
	ctx := context.Background()

	require.NoError(t, f.feed.DeletePost(ctx, owner.ID, post.ID))

	_, err := f.feed.GetPost(ctx, post.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// GetUserPosts computes the eligible visibility levels once from the
// viewer's relationship to the target. The result must be identical to
// gating every post individually.
func TestGetUserPosts_MatchesPerPostGate(t *testing.T) {
	f := newFeedFixture(t)
	owner, ownerProfile := f.newMember(t, "owner")
	friend, _ := f.newMember(t, "friend")
	stranger, _ := f.newMember(t, "stranger")
	f.befriend(t, owner.ID, friend.ID)
	ctx := context.Background()

	all := []*models.Post{
		f.seedPost(t, ownerProfile, models.VisibilityPublic),
		f.seedPost(t, ownerProfile, models.VisibilityFriendsOnly),
		f.seedPost(t, ownerProfile, models.VisibilityPrivate),
	}

	viewers := map[string]uuid.UUID{
		"owner":    owner.ID,
		"friend":   friend.ID,
		"stranger": stranger.ID,
	}

	for name, viewerID := range viewers {
		got, err := f.feed.GetUserPosts(ctx, owner.ID, viewerID, 0, 50)
		require.NoError(t, err, name)

		var want []uuid.UUID
		for _, post := range all {
			allowed, err := f.feed.IsPostAccessible(ctx, post, viewerID)
			require.NoError(t, err, name)
			if allowed {
				want = append(want, post.ID)
			}
		}

		gotIDs := make([]uuid.UUID, 0, len(got))
		for _, post := range got {
			gotIDs = append(gotIDs, post.ID)
		}
		assert.ElementsMatch(t, want, gotIDs, name)
	}
}

func TestGetUserPosts_VisibilitySets(t *testing.T) {
	f := newFeedFixture(t)
	owner, ownerProfile := f.newMember(t, "owner")
	friend, _ := f.newMember(t, "friend")
	stranger, _ := f.newMember(t, "stranger")
	f.befriend(t, owner.ID, friend.ID)
	ctx := context.Background()

	f.seedPost(t, ownerProfile, models.VisibilityPublic)
	f.seedPost(t, ownerProfile, models.VisibilityFriendsOnly)
	f.seedPost(t, ownerProfile, models.VisibilityPrivate)

	got, err := f.feed.GetUserPosts(ctx, owner.ID, owner.ID, 0, 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = f.feed.GetUserPosts(ctx, owner.ID, friend.ID, 0, 50)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.feed.GetUserPosts(ctx, owner.ID, stranger.ID, 0, 50)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetFeed_FriendsAndSelfOnly(t *testing.T) {
	f := newFeedFixture(t)
	viewer, viewerProfile := f.newMember(t, "viewer")
	friend, friendProfile := f.newMember(t, "friend")
	_, strangerProfile := f.newMember(t, "stranger")
	f.befriend(t, viewer.ID, friend.ID)
	ctx := context.Background()

	own := f.seedPost(t, viewerProfile, models.VisibilityPublic)
	friends := f.seedPost(t, friendProfile, models.VisibilityPublic)
	f.seedPost(t, strangerProfile, models.VisibilityPublic)

	feed, err := f.feed.GetFeed(ctx, viewer.ID, 0, 50)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(feed.Posts))
	for _, post := range feed.Posts {
		ids = append(ids, post.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{own.ID, friends.ID}, ids)
}

func TestGetFeed_NewestFirst(t *testing.T) {
	f := newFeedFixture(t)
	viewer, viewerProfile := f.newMember(t, "viewer")
	ctx := context.Background()

	older := f.seedPost(t, viewerProfile, models.VisibilityPublic)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := f.seedPost(t, viewerProfile, models.VisibilityPublic)

	feed, err := f.feed.GetFeed(ctx, viewer.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, newer.ID, feed.Posts[0].ID)
	assert.Equal(t, older.ID, feed.Posts[1].ID)
}

func TestCreatePost_RequiresOwnOutfit(t *testing.T) {
	f := newFeedFixture(t)
	alice, _ := f.newMember(t, "alice")
	_, bobProfile := f.newMember(t, "bob")
	ctx := context.Background()

	outfit := &models.Outfit{ProfileID: bobProfile.ID, Name: "summer"}
	require.NoError(t, f.outfits.Create(ctx, outfit))

	_, err := f.feed.CreatePost(ctx, alice.ID, &CreatePostRequest{OutfitID: outfit.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreatePost_DefaultVisibilityFollowsProfile(t *testing.T) {
	f := newFeedFixture(t)
	alice, aliceProfile := f.newMember(t, "alice")
	aliceProfile.Visibility = models.VisibilityFriendsOnly
	ctx := context.Background()

	outfit := &models.Outfit{ProfileID: aliceProfile.ID, Name: "winter"}
	require.NoError(t, f.outfits.Create(ctx, outfit))

	post, err := f.feed.CreatePost(ctx, alice.ID, &CreatePostRequest{OutfitID: outfit.ID})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFriendsOnly, post.Visibility)

	// An explicit visibility wins over the profile default.
	outfit2 := &models.Outfit{ProfileID: aliceProfile.ID, Name: "spring"}
	require.NoError(t, f.outfits.Create(ctx, outfit2))
	post, err = f.feed.CreatePost(ctx, alice.ID, &CreatePostRequest{OutfitID: outfit2.ID, Visibility: models.VisibilityPrivate})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, post.Visibility)
}

func TestCreatePost_RejectsUnknownVisibility(t *testing.T) {
	f := newFeedFixture(t)
	alice, aliceProfile := f.newMember(t, "alice")
	ctx := context.Background()

	outfit := &models.Outfit{ProfileID: aliceProfile.ID, Name: "fall"}
	require.NoError(t, f.outfits.Create(ctx, outfit))

	_, err := f.feed.CreatePost(ctx, alice.ID, &CreatePostRequest{OutfitID: outfit.ID, Visibility: models.Visibility("everyone")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOperation)
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	f := newFeedFixture(t)
	_, ownerProfile := f.newMember(t, "owner")
	other, _ := f.newMember(t, "other")
	post := f.seedPost(t, ownerProfile, models.VisibilityPublic)

	err := f.feed.DeletePost(context.Background(), other.ID, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
