package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stylefeed/stylefeed/internal/apperrors"
	"github.com/stylefeed/stylefeed/internal/config"
	"github.com/stylefeed/stylefeed/internal/models"
	"github.com/stylefeed/stylefeed/pkg/logger"
)

// In-memory stores backing the service tests. They mirror the contracts of
// the gorm repositories, including the (nil, nil) convention for absent rows
// and the at-most-one-active-edge rule enforced in Postgres by the partial
// unique index on pair_key.

func testLogger() *logger.Logger {
	l := logger.NewLogger()
	l.SetOutput(io.Discard)
	return l
}

func testFeedConfig() *config.FeedConfig {
	return &config.FeedConfig{
		CacheTTL:       time.Minute,
		FriendCacheTTL: time.Minute,
		MaxPageSize:    100,
	}
}

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) add(t ...*models.User) {
	for _, u := range t {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		s.users[u.ID] = u
	}
}

type memProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (s *memProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *memProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[id], nil
}

func (s *memProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (s *memProfileStore) Update(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

type memFriendshipStore struct {
	mu    sync.Mutex
	edges map[uuid.UUID]*models.Friendship
}

func newMemFriendshipStore() *memFriendshipStore {
	return &memFriendshipStore{edges: make(map[uuid.UUID]*models.Friendship)}
}

func (s *memFriendshipStore) Create(ctx context.Context, edge *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.edges {
		if e.PairKey == edge.PairKey && e.Status != models.StatusRejected {
			return fmt.Errorf("%w: duplicate active edge", apperrors.ErrConflict)
		}
	}
	if edge.ID == uuid.Nil {
		edge.ID = uuid.New()
	}
	edge.CreatedAt = time.Now()
	s.edges[edge.ID] = edge
	return nil
}

func (s *memFriendshipStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edges[id], nil
}

func (s *memFriendshipStore) GetActiveByPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(a, b)
	for _, e := range s.edges {
		if e.PairKey == key && e.Status != models.StatusRejected {
			return e, nil
		}
	}
	return nil, nil
}

func (s *memFriendshipStore) GetAcceptedByPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(a, b)
	for _, e := range s.edges {
		if e.PairKey == key && e.Status == models.StatusAccepted {
			return e, nil
		}
	}
	return nil, nil
}

func (s *memFriendshipStore) GetByRecipientAndStatus(ctx context.Context, recipientID uuid.UUID, status models.FriendshipStatus) ([]*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Friendship
	for _, e := range s.edges {
		if e.RecipientID == recipientID && e.Status == status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memFriendshipStore) GetAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Friendship
	for _, e := range s.edges {
		if e.Status == models.StatusAccepted && (e.SenderID == userID || e.RecipientID == userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memFriendshipStore) Update(ctx context.Context, edge *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[edge.ID] = edge
	return nil
}

func (s *memFriendshipStore) Delete(ctx context.Context, edge *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, edge.ID)
	return nil
}

type memPostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
}

func newMemPostStore() *memPostStore {
	return &memPostStore{posts: make(map[uuid.UUID]*models.Post)}
}

func (s *memPostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	s.posts[post.ID] = post
	return nil
}

func (s *memPostStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok || post.IsDeleted {
		return nil, nil
	}
	return post, nil
}

func (s *memPostStore) GetByOwnerUserIDs(ctx context.Context, ownerUserIDs []uuid.UUID, offset, limit int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owners := make(map[uuid.UUID]bool, len(ownerUserIDs))
	for _, id := range ownerUserIDs {
		owners[id] = true
	}
	var out []*models.Post
	for _, p := range s.posts {
		if !p.IsDeleted && owners[p.Profile.UserID] {
			out = append(out, p)
		}
	}
	return paginate(out, offset, limit), nil
}

func (s *memPostStore) GetByOwnerAndVisibility(ctx context.Context, ownerUserID uuid.UUID, visibilities []models.Visibility, offset, limit int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	allowed := make(map[models.Visibility]bool, len(visibilities))
	for _, v := range visibilities {
		allowed[v] = true
	}
	var out []*models.Post
	for _, p := range s.posts {
		if !p.IsDeleted && p.Profile.UserID == ownerUserID && allowed[p.Visibility] {
			out = append(out, p)
		}
	}
	return paginate(out, offset, limit), nil
}

func (s *memPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post, ok := s.posts[id]; ok {
		post.IsDeleted = true
	}
	return nil
}

func (s *memPostStore) UpdateLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post, ok := s.posts[postID]; ok {
		post.LikeCount += delta
	}
	return nil
}

func (s *memPostStore) UpdateCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post, ok := s.posts[postID]; ok {
		post.CommentCount += delta
	}
	return nil
}

func paginate(posts []*models.Post, offset, limit int) []*models.Post {
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

type memOutfitStore struct {
	mu      sync.Mutex
	outfits map[uuid.UUID]*models.Outfit
}

func newMemOutfitStore() *memOutfitStore {
	return &memOutfitStore{outfits: make(map[uuid.UUID]*models.Outfit)}
}

func (s *memOutfitStore) Create(ctx context.Context, outfit *models.Outfit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outfit.ID == uuid.Nil {
		outfit.ID = uuid.New()
	}
	s.outfits[outfit.ID] = outfit
	return nil
}

func (s *memOutfitStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Outfit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outfits[id], nil
}

func (s *memOutfitStore) GetByProfileID(ctx context.Context, profileID uuid.UUID) ([]*models.Outfit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Outfit
	for _, o := range s.outfits {
		if o.ProfileID == profileID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOutfitStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outfits, id)
	return nil
}

type memLikeStore struct {
	mu    sync.Mutex
	likes []*models.Like
}

func newMemLikeStore() *memLikeStore {
	return &memLikeStore{}
}

func (s *memLikeStore) Create(ctx context.Context, like *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	s.likes = append(s.likes, like)
	return nil
}

func (s *memLikeStore) Get(ctx context.Context, profileID, postID uuid.UUID) (*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.likes {
		if l.ProfileID == profileID && l.PostID == postID {
			return l, nil
		}
	}
	return nil, nil
}

func (s *memLikeStore) GetByPostID(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Like
	for _, l := range s.likes {
		if l.PostID == postID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memLikeStore) Delete(ctx context.Context, profileID, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.likes {
		if l.ProfileID == profileID && l.PostID == postID {
			s.likes = append(s.likes[:i], s.likes[i+1:]...)
			return nil
		}
	}
	return nil
}

type memCommentStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*models.Comment
}

func newMemCommentStore() *memCommentStore {
	return &memCommentStore{comments: make(map[uuid.UUID]*models.Comment)}
}

func (s *memCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now()
	s.comments[comment.ID] = comment
	return nil
}

func (s *memCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments[id], nil
}

func (s *memCommentStore) GetByPostID(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *capturingPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, value)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
