package repositories

import (
	"encoding/json"
	"log"

	"github.com/dgraph-io/badger/v4"

	"nitready/app/models"
)

const (
	// snapshotKey is the single durable key holding the serialized feed.
	snapshotKey = "feed:snapshot"

	// snapshotVersion tags the envelope so future shape changes can migrate
	// old records instead of discarding them.
	snapshotVersion = 1
)

// envelope is the persisted record layout. Earlier deployments wrote a bare
// post array with no version tag; Load still accepts that form.
type envelope struct {
	Version int            `json:"version"`
	Posts   []*models.Post `json:"posts"`
}

// BadgerSnapshotRepository implements SnapshotRepository using BadgerDB.
type BadgerSnapshotRepository struct {
	db *badger.DB
}

// Open opens (creating if necessary) the badger database at path and returns
// a snapshot repository over it.
func Open(path string) (*BadgerSnapshotRepository, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerSnapshotRepository{db: db}, nil
}

// NewBadgerSnapshotRepository wraps an already-open badger instance.
func NewBadgerSnapshotRepository(db *badger.DB) *BadgerSnapshotRepository {
	return &BadgerSnapshotRepository{db: db}
}

// Load reads the durable record. A missing key or an unparseable payload
// degrades to an empty feed with no error: corruption means "no prior
// state", never a startup failure. Date fields come back as the same
// instants that were saved.
func (r *BadgerSnapshotRepository) Load() ([]*models.Post, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []*models.Post{}, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version >= 1 {
		if env.Posts == nil {
			return []*models.Post{}, nil
		}
		return env.Posts, nil
	}

	// Legacy layout: a bare array of posts.
	var posts []*models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		log.Printf("feed: discarding corrupt snapshot record: %v", err)
		return []*models.Post{}, nil
	}
	return posts, nil
}

// Save serializes the full snapshot and writes it under the single durable
// key in one transaction. A write failure is returned to the caller; the
// in-memory feed stays authoritative either way.
func (r *BadgerSnapshotRepository) Save(snapshot []*models.Post) error {
	data, err := json.Marshal(envelope{
		Version: snapshotVersion,
		Posts:   snapshot,
	})
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

// Close closes the underlying database.
func (r *BadgerSnapshotRepository) Close() error {
	return r.db.Close()
}
