package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"nitready/app/broker"
	"nitready/app/models"
	"nitready/app/repositories"
	"nitready/app/store"
)

// anonymousName replaces the author name on posts published anonymously.
const anonymousName = "Anonymous User"

// FeedService is the public facade over the post store, the snapshot
// repository, and the broker. Every mutation runs the same sequence under
// one mutex: validate, apply to the store, persist best-effort, broadcast.
// Observers therefore only ever see fully pre- or post-mutation snapshots.
type FeedService struct {
	mu        sync.Mutex
	store     *store.Store
	snapshots repositories.SnapshotRepository
	broker    *broker.Broker
}

// NewFeedService creates a feed service over the given store and snapshot
// repository.
func NewFeedService(st *store.Store, snapshots repositories.SnapshotRepository) *FeedService {
	return &FeedService{
		store:     st,
		snapshots: snapshots,
		broker:    broker.New(st.Snapshot),
	}
}

// LoadFromStorage reads the persisted feed. Any storage failure degrades to
// an empty feed; the error is logged, never propagated, so startup cannot
// fail on a bad or missing record.
func (s *FeedService) LoadFromStorage() []*models.Post {
	posts, err := s.snapshots.Load()
	if err != nil {
		log.Printf("feed: load from storage failed, starting empty: %v", err)
		return []*models.Post{}
	}
	return posts
}

// Initialize populates the store wholesale. Calling it a second time fails
// with store.ErrAlreadyInitialized.
func (s *FeedService) Initialize(posts []*models.Post) error {
	return s.store.Initialize(posts)
}

// GetPosts returns the current snapshot, newest first.
func (s *FeedService) GetPosts() []*models.Post {
	return s.store.Snapshot()
}

// Subscribe registers an observer. It is invoked once immediately with the
// current snapshot and once per subsequent mutation. The returned cancel
// function releases the subscription; calling it twice is a no-op.
func (s *FeedService) Subscribe(fn broker.Observer) (cancel func()) {
	return s.broker.Subscribe(fn)
}

// AddPost validates the draft, assembles a post with a fresh ID and current
// timestamps, inserts it at the head of the feed, persists, and broadcasts.
func (s *FeedService) AddPost(draft *models.PostDraft) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.Sanitize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Content:     draft.Content,
		Excerpt:     models.Excerpt(draft.Content),
		Author:      draft.Author,
		Category:    draft.Category,
		Tags:        draft.Tags,
		Company:     draft.Company,
		Role:        draft.Role,
		Difficulty:  draft.Difficulty,
		Salary:      draft.Salary,
		Rating:      draft.Rating,
		PublishedAt: now,
		UpdatedAt:   now,
		IsAnonymous: draft.IsAnonymous,
	}
	if draft.IsAnonymous {
		post.Author.Name = anonymousName
		post.Author.Avatar = ""
	}

	if err := s.store.Insert(post); err != nil {
		return nil, err
	}

	s.persistAndBroadcast()
	return post, nil
}

// UpdateEngagement increments the counter mapped to kind on the post with
// the given ID. A missing post propagates store.ErrNotFound to the caller;
// nothing is persisted or broadcast in that case.
func (s *FeedService) UpdateEngagement(id string, kind models.EngagementKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := kind.Counter()
	if !ok {
		return fmt.Errorf("unknown engagement kind %q", kind)
	}

	if err := s.store.MutateCounter(id, counter, 1); err != nil {
		return err
	}

	s.persistAndBroadcast()
	return nil
}

// persistAndBroadcast writes the current snapshot to durable storage and
// then notifies all observers with that same snapshot. A persistence failure
// is logged and absorbed: the in-memory store remains authoritative and the
// broadcast still happens.
func (s *FeedService) persistAndBroadcast() {
	snapshot := s.store.Snapshot()
	if err := s.snapshots.Save(snapshot); err != nil {
		log.Printf("feed: persisting snapshot failed: %v", err)
	}
	s.broker.NotifyAll(snapshot)
}

// Close releases the underlying snapshot repository.
func (s *FeedService) Close() error {
	return s.snapshots.Close()
}
