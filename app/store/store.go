package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"nitready/app/models"
)

var (
	// ErrNotFound is returned when no post carries the requested ID.
	ErrNotFound = errors.New("post not found")
	// ErrDuplicateID is returned when an insert would reuse an existing ID.
	ErrDuplicateID = errors.New("duplicate post id")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("store already initialized")
)

// Store holds the canonical ordered collection of posts, newest first. It is
// the only component allowed to mutate a post's fields; every write path
// funnels through it so uniqueness and the non-negative counter floor are
// enforced in one place.
type Store struct {
	mu          sync.RWMutex
	posts       []*models.Post
	index       map[string]*models.Post
	initialized bool
}

// New creates an empty, uninitialized store.
func New() *Store {
	return &Store{
		index: make(map[string]*models.Post),
	}
}

// Initialize replaces the store's contents wholesale. It may be called once
// per store lifetime; a second call fails with ErrAlreadyInitialized, which
// guards against double-initialization from duplicated startup paths.
func (s *Store) Initialize(posts []*models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return ErrAlreadyInitialized
	}

	index := make(map[string]*models.Post, len(posts))
	owned := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if _, exists := index[post.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, post.ID)
		}
		clone := post.Clone()
		index[clone.ID] = clone
		owned = append(owned, clone)
	}

	s.posts = owned
	s.index = index
	s.initialized = true
	return nil
}

// Snapshot returns a defensive copy of the collection in feed order. Callers
// may hold or mutate the result freely; it shares no state with the store.
func (s *Store) Snapshot() []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*models.Post, len(s.posts))
	for i, post := range s.posts {
		snapshot[i] = post.Clone()
	}
	return snapshot
}

// Insert prepends a post to the collection. The store keeps its own copy, so
// later caller-side mutation of the argument cannot bypass the contract.
func (s *Store) Insert(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[post.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, post.ID)
	}

	clone := post.Clone()
	s.posts = append([]*models.Post{clone}, s.posts...)
	s.index[clone.ID] = clone
	return nil
}

// MutateCounter applies a delta to one engagement counter of the post with
// the given ID, clamping the result at zero, and refreshes UpdatedAt.
func (s *Store) MutateCounter(id string, counter models.Counter, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.index[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var field *int
	switch counter {
	case models.CounterUpvotes:
		field = &post.Upvotes
	case models.CounterDownvotes:
		field = &post.Downvotes
	case models.CounterComments:
		field = &post.Comments
	case models.CounterBookmarks:
		field = &post.Bookmarks
	case models.CounterViews:
		field = &post.Views
	default:
		return fmt.Errorf("unknown counter %q", counter)
	}

	*field += delta
	if *field < 0 {
		*field = 0
	}
	post.UpdatedAt = time.Now().UTC()
	return nil
}

// Len reports the number of posts currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
