package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nitready/app/models"
	"nitready/app/store"
)

type mockSnapshotRepo struct {
	saved     [][]*models.Post
	loadPosts []*models.Post
	loadErr   error
	saveErr   error
}

func (m *mockSnapshotRepo) Load() ([]*models.Post, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loadPosts, nil
}

func (m *mockSnapshotRepo) Save(snapshot []*models.Post) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *mockSnapshotRepo) Close() error { return nil }

func newTestFeed(t *testing.T) (*FeedService, *mockSnapshotRepo) {
	t.Helper()
	repo := &mockSnapshotRepo{}
	feed := NewFeedService(store.New(), repo)
	require.NoError(t, feed.Initialize(nil))
	return feed, repo
}

func validDraft() *models.PostDraft {
	return &models.PostDraft{
		Title:    "T",
		Content:  "C",
		Category: models.CategoryLearning,
		Author:   models.Author{ID: "user_1", Name: "Priya"},
	}
}

func TestAddPost(t *testing.T) {
	t.Run("publishes a valid draft", func(t *testing.T) {
		feed, repo := newTestFeed(t)

		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "T", post.Title)
		assert.Equal(t, 0, post.Upvotes)
		assert.False(t, post.PublishedAt.IsZero())
		assert.True(t, post.UpdatedAt.Equal(post.PublishedAt))

		posts := feed.GetPosts()
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
		require.Len(t, repo.saved, 1)
	})

	t.Run("newest first", func(t *testing.T) {
		feed, _ := newTestFeed(t)

		first, err := feed.AddPost(validDraft())
		require.NoError(t, err)
		second, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		posts := feed.GetPosts()
		require.Len(t, posts, 2)
		assert.Equal(t, second.ID, posts[0].ID)
		assert.Equal(t, first.ID, posts[1].ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("rejects a draft missing required fields", func(t *testing.T) {
		feed, repo := newTestFeed(t)

		draft := validDraft()
		draft.Title = "   "
		_, err := feed.AddPost(draft)
		assert.Error(t, err)
		assert.Empty(t, feed.GetPosts())
		assert.Empty(t, repo.saved)
	})

	t.Run("derives the excerpt", func(t *testing.T) {
		feed, _ := newTestFeed(t)

		draft := validDraft()
		draft.Content = "A short write-up."
		post, err := feed.AddPost(draft)
		require.NoError(t, err)
		assert.Equal(t, "A short write-up.", post.Excerpt)
	})

	t.Run("anonymous post hides the author", func(t *testing.T) {
		feed, _ := newTestFeed(t)

		draft := validDraft()
		draft.IsAnonymous = true
		draft.Author.Avatar = "https://example.com/a.png"
		post, err := feed.AddPost(draft)
		require.NoError(t, err)

		assert.Equal(t, "Anonymous User", post.Author.Name)
		assert.Empty(t, post.Author.Avatar)
		assert.True(t, post.IsAnonymous)
	})

	t.Run("save failure does not roll back the feed", func(t *testing.T) {
		feed, repo := newTestFeed(t)
		repo.saveErr = errors.New("disk full")

		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		posts := feed.GetPosts()
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
	})
}

func TestUpdateEngagement(t *testing.T) {
	t.Run("repeated upvotes accumulate on one counter", func(t *testing.T) {
		feed, _ := newTestFeed(t)
		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementUpvote))
		}

		got := feed.GetPosts()[0]
		assert.Equal(t, 5, got.Upvotes)
		assert.Equal(t, 0, got.Downvotes)
		assert.Equal(t, 0, got.Comments)
		assert.Equal(t, 0, got.Bookmarks)
	})

	t.Run("each kind maps to its counter", func(t *testing.T) {
		feed, _ := newTestFeed(t)
		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementDownvote))
		require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementComment))
		require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementBookmark))

		got := feed.GetPosts()[0]
		assert.Equal(t, 0, got.Upvotes)
		assert.Equal(t, 1, got.Downvotes)
		assert.Equal(t, 1, got.Comments)
		assert.Equal(t, 1, got.Bookmarks)
	})

	t.Run("unknown id fails and changes nothing", func(t *testing.T) {
		feed, repo := newTestFeed(t)
		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)
		savedBefore := len(repo.saved)

		err = feed.UpdateEngagement("missing-id", models.EngagementBookmark)
		assert.ErrorIs(t, err, store.ErrNotFound)

		got := feed.GetPosts()[0]
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, 0, got.Bookmarks)
		assert.Equal(t, savedBefore, len(repo.saved))
	})

	t.Run("unknown kind fails", func(t *testing.T) {
		feed, _ := newTestFeed(t)
		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		err = feed.UpdateEngagement(post.ID, models.EngagementKind("superlike"))
		assert.Error(t, err)
	})

	t.Run("persists after every mutation", func(t *testing.T) {
		feed, repo := newTestFeed(t)
		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementUpvote))
		require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementUpvote))

		require.Len(t, repo.saved, 3)
		last := repo.saved[len(repo.saved)-1]
		require.Len(t, last, 1)
		assert.Equal(t, 2, last[0].Upvotes)
	})
}

func TestSubscribers(t *testing.T) {
	t.Run("replay then one notification per mutation", func(t *testing.T) {
		feed, _ := newTestFeed(t)

		var snapshots [][]*models.Post
		cancel := feed.Subscribe(func(snapshot []*models.Post) {
			snapshots = append(snapshots, snapshot)
		})
		defer cancel()

		require.Len(t, snapshots, 1, "subscriber gets the current snapshot on subscribe")
		assert.Empty(t, snapshots[0])

		post, err := feed.AddPost(validDraft())
		require.NoError(t, err)
		require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementUpvote))

		require.Len(t, snapshots, 3)
		assert.Equal(t, 1, snapshots[2][0].Upvotes)
	})

	t.Run("all subscribers see the same snapshot per mutation", func(t *testing.T) {
		feed, _ := newTestFeed(t)

		var a, b [][]*models.Post
		cancelA := feed.Subscribe(func(s []*models.Post) { a = append(a, s) })
		cancelB := feed.Subscribe(func(s []*models.Post) { b = append(b, s) })
		defer cancelA()
		defer cancelB()

		_, err := feed.AddPost(validDraft())
		require.NoError(t, err)

		require.Len(t, a, 2)
		require.Len(t, b, 2)
		assert.Equal(t, a[1], b[1])
	})

	t.Run("cancelled subscriber receives nothing further", func(t *testing.T) {
		feed, _ := newTestFeed(t)

		var calls int
		cancel := feed.Subscribe(func(snapshot []*models.Post) { calls++ })
		cancel()
		after := calls

		_, err := feed.AddPost(validDraft())
		require.NoError(t, err)
		assert.Equal(t, after, calls)
	})

	t.Run("notified even when persistence fails", func(t *testing.T) {
		feed, repo := newTestFeed(t)
		repo.saveErr = errors.New("quota exceeded")

		var calls int
		cancel := feed.Subscribe(func(snapshot []*models.Post) { calls++ })
		defer cancel()
		calls = 0

		_, err := feed.AddPost(validDraft())
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestLoadFromStorage(t *testing.T) {
	t.Run("returns persisted posts", func(t *testing.T) {
		repo := &mockSnapshotRepo{loadPosts: []*models.Post{{ID: "a"}, {ID: "b"}}}
		feed := NewFeedService(store.New(), repo)

		posts := feed.LoadFromStorage()
		require.Len(t, posts, 2)
	})

	t.Run("storage failure degrades to empty", func(t *testing.T) {
		repo := &mockSnapshotRepo{loadErr: errors.New("io error")}
		feed := NewFeedService(store.New(), repo)

		posts := feed.LoadFromStorage()
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestInitializeOnce(t *testing.T) {
	feed, _ := newTestFeed(t)
	err := feed.Initialize(nil)
	assert.ErrorIs(t, err, store.ErrAlreadyInitialized)
}

func TestEndToEndScenario(t *testing.T) {
	feed, _ := newTestFeed(t)

	post, err := feed.AddPost(&models.PostDraft{
		Title:    "T",
		Content:  "C",
		Category: models.CategoryLearning,
		Author:   models.Author{ID: "user_a", Name: "A"},
	})
	require.NoError(t, err)

	posts := feed.GetPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, 0, posts[0].Upvotes)

	require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementUpvote))
	require.NoError(t, feed.UpdateEngagement(post.ID, models.EngagementUpvote))
	assert.Equal(t, 2, feed.GetPosts()[0].Upvotes)

	err = feed.UpdateEngagement("missing-id", models.EngagementBookmark)
	assert.ErrorIs(t, err, store.ErrNotFound)

	unchanged := feed.GetPosts()
	require.Len(t, unchanged, 1)
	assert.Equal(t, 2, unchanged[0].Upvotes)
	assert.Equal(t, 0, unchanged[0].Bookmarks)

	// Timestamps stay ordered through the whole sequence.
	assert.False(t, unchanged[0].UpdatedAt.Before(unchanged[0].PublishedAt))
}
