package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bluebridge/bluebridge/storage"
)

// RecommendationLogRepository implements storage.RecommendationLogRepository
// for BadgerDB. Entries are keyed by creation time so reverse iteration
// yields newest first.
type RecommendationLogRepository struct {
	backend *Backend
}

var _ storage.RecommendationLogRepository = (*RecommendationLogRepository)(nil)

// NewRecommendationLogRepository creates a new RecommendationLogRepository.
func NewRecommendationLogRepository(backend *Backend) (*RecommendationLogRepository, error) {
	return &RecommendationLogRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *RecommendationLogRepository) Close() error {
	return nil
}

// Append stores an entry, assigning a UUID and creation time when unset.
func (r *RecommendationLogRepository) Append(ctx context.Context, entry *storage.RecommendationLogEntry) error {
	if entry.Id == "" {
		entry.Id = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		value, err := storage.MarshalLogEntry(entry)
		if err != nil {
			return err
		}
		key := makeRecLogKey(entry.CreatedAt, entry.Id)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Recent retrieves up to limit entries, newest first.
func (r *RecommendationLogRepository) Recent(ctx context.Context, limit int) ([]*storage.RecommendationLogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []*storage.RecommendationLogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialRecLogKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(recLogPrefix + ":")

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var entry *storage.RecommendationLogEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalLogEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)

	return results, err
}
