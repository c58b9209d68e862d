package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/storage"
)

// VectorIndex implements storage.VectorIndex as a brute-force cosine scan
// over badger-persisted entries. Catalog sizes here are thousands of
// policies, so a full scan per query is well within budget.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) (*VectorIndex, error) {
	return &VectorIndex{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (x *VectorIndex) Close() error {
	return nil
}

// Upsert inserts or replaces index entries.
func (x *VectorIndex) Upsert(ctx context.Context, entries ...*storage.IndexEntry) error {
	return x.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			value, err := storage.MarshalIndexEntry(entry)
			if err != nil {
				return err
			}
			if err := tx.Set(makeIndexKey(entry.PolicyId), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns up to topK entries closest to the vector, ordered by
// ascending cosine distance.
func (x *VectorIndex) Query(ctx context.Context, vector []float32, topK int, filter *storage.QueryFilter) ([]storage.IndexMatch, error) {
	if len(vector) == 0 || topK <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	empty := true
	var matches []storage.IndexMatch

	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(indexEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			empty = false

			var entry *storage.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}
			if !matchesFilter(entry, filter) {
				continue
			}

			matches = append(matches, storage.IndexMatch{
				PolicyId: entry.PolicyId,
				Distance: cosineDistance(vector, entry.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if empty {
		return nil, storage.ErrIndexUnavailable
	}

	slices.SortFunc(matches, func(a, b storage.IndexMatch) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		if a.PolicyId < b.PolicyId {
			return -1
		}
		if a.PolicyId > b.PolicyId {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes index entries by policy ID. Missing entries are ignored.
func (x *VectorIndex) Delete(ctx context.Context, ids ...core.ID) error {
	return x.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeIndexKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of indexed entries.
func (x *VectorIndex) Count(ctx context.Context) (int, error) {
	count := 0
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(indexEntryPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// matchesFilter applies the metadata pre-filter. Region filtering passes
// nationwide entries or entries whose province label matches.
func matchesFilter(entry *storage.IndexEntry, filter *storage.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.ActiveOnly && entry.Status != core.PolicyStatusActive {
		return false
	}
	if filter.RegionSido != "" {
		if entry.RegionScope != core.RegionScopeNationwide && entry.RegionSido != filter.RegionSido {
			return false
		}
	}
	return true
}

// cosineDistance computes 1 - cosine similarity. Zero vectors map to the
// maximum distance.
func cosineDistance(a, b []float32) float64 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
