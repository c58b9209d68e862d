package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/storage"
)

// PolicyRepository implements storage.PolicyRepository for BadgerDB.
type PolicyRepository struct {
	backend *Backend
}

var _ storage.PolicyRepository = (*PolicyRepository)(nil)

// NewPolicyRepository creates a new PolicyRepository.
func NewPolicyRepository(backend *Backend) (*PolicyRepository, error) {
	return &PolicyRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *PolicyRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PolicyRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutPolicies inserts or replaces policy records.
func (r *PolicyRepository) PutPolicies(ctx context.Context, records ...*core.PolicyRecord) ([]*core.PolicyRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			if err := core.ValidatePolicyRecord(record); err != nil {
				return err
			}

			if record.Id == 0 {
				record.Id = core.IDFromContent(record.SourceCode)
			}
			record.RestrictedTargets = core.ResolveRestrictedTargets(record.SpecialTargets)

			if record.InsertedAt.IsZero() {
				record.InsertedAt = now
			}
			record.UpdatedAt = now

			value, err := storage.MarshalPolicyRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makePolicyKey(record.Id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetPolicy retrieves a single policy record by ID.
func (r *PolicyRepository) GetPolicy(ctx context.Context, id core.ID) (*core.PolicyRecord, error) {
	var result *core.PolicyRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readPolicyRecord(tx, makePolicyKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPolicies retrieves multiple policy records by their IDs.
func (r *PolicyRepository) GetPolicies(ctx context.Context, ids ...core.ID) ([]*core.PolicyRecord, error) {
	var result []*core.PolicyRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readPolicyRecord(tx, makePolicyKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListActive retrieves all records with ACTIVE status.
func (r *PolicyRepository) ListActive(ctx context.Context) ([]*core.PolicyRecord, error) {
	var results []*core.PolicyRecord
	err := r.scanPolicies(func(record *core.PolicyRecord) {
		if record.Status == core.PolicyStatusActive {
			results = append(results, record)
		}
	})
	return results, err
}

// SearchText scans active records whose title or search text contains any of
// the given terms. Results are ordered by soonest end date, capped at limit.
func (r *PolicyRepository) SearchText(ctx context.Context, terms []string, limit int) ([]*core.PolicyRecord, error) {
	lowered := make([]string, 0, len(terms))
	for _, term := range terms {
		if t := strings.ToLower(strings.TrimSpace(term)); t != "" {
			lowered = append(lowered, t)
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	var results []*core.PolicyRecord
	err := r.scanPolicies(func(record *core.PolicyRecord) {
		if record.Status != core.PolicyStatusActive {
			return
		}
		haystack := strings.ToLower(record.Title + " " + record.SearchText())
		for _, term := range lowered {
			if strings.Contains(haystack, term) {
				results = append(results, record)
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}

	// Soonest deadline first; open-ended records last, ties by ID.
	slices.SortFunc(results, func(a, b *core.PolicyRecord) int {
		switch {
		case a.EndDate == nil && b.EndDate == nil:
		case a.EndDate == nil:
			return 1
		case b.EndDate == nil:
			return -1
		case a.EndDate.Before(*b.EndDate):
			return -1
		case b.EndDate.Before(*a.EndDate):
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeletePolicies removes policy records by their IDs.
func (r *PolicyRepository) DeletePolicies(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePolicyKey(id)
			record, err := readPolicyRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored policy records.
func (r *PolicyRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(policyRecordPrefix + ":")
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

// scanPolicies iterates every stored record and hands it to visit.
func (r *PolicyRepository) scanPolicies(visit func(*core.PolicyRecord)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(policyRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.PolicyRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalPolicyRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				visit(record)
			}
		}
		return nil
	}, false)
}

// readPolicyRecord reads a policy record from the transaction.
func readPolicyRecord(tx *badger.Txn, key []byte) (*core.PolicyRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.PolicyRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalPolicyRecord(val)
		return unmarshalErr
	})
	return record, err
}
