package repositories

import "nitready/app/models"

// SnapshotRepository defines the interface for durable feed snapshot access.
// It is the only component permitted to translate between posts and their
// stored encoding.
type SnapshotRepository interface {
	Load() ([]*models.Post, error)
	Save(snapshot []*models.Post) error
	Close() error
}
