package storage

import (
	"context"
	"time"

	"github.com/bluebridge/bluebridge/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// PolicyRepository provides operations for managing the policy catalog.
type PolicyRepository interface {
	Repository

	// PutPolicies inserts or replaces policy records.
	// IDs are derived from SourceCode when unset, restricted targets are
	// resolved from SpecialTargets, and InsertedAt/UpdatedAt are populated.
	// Returns the records with derived fields filled in.
	PutPolicies(ctx context.Context, records ...*core.PolicyRecord) ([]*core.PolicyRecord, error)

	// GetPolicy retrieves a single policy record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetPolicy(ctx context.Context, id core.ID) (*core.PolicyRecord, error)

	// GetPolicies retrieves multiple policy records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetPolicies(ctx context.Context, ids ...core.ID) ([]*core.PolicyRecord, error)

	// ListActive retrieves all records with ACTIVE status.
	ListActive(ctx context.Context) ([]*core.PolicyRecord, error)

	// SearchText scans active records whose title or search text contains any
	// of the given terms, case-insensitively. Results are ordered by soonest
	// end date first (records without an end date sort last), capped at limit.
	SearchText(ctx context.Context, terms []string, limit int) ([]*core.PolicyRecord, error)

	// DeletePolicies removes policy records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeletePolicies(ctx context.Context, ids ...core.ID) error

	// Count returns the number of stored policy records.
	Count(ctx context.Context) (int, error)
}

// IndexEntry is one indexed policy: its document vector plus the metadata
// the retriever pre-filters on.
type IndexEntry struct {
	PolicyId    core.ID
	Vector      []float32
	RegionScope core.RegionScope
	RegionSido  string
	Category    string
	Status      core.PolicyStatus
}

// IndexMatch is one vector query hit. Distance is cosine distance, smaller
// is closer.
type IndexMatch struct {
	PolicyId core.ID
	Distance float64
}

// QueryFilter restricts a vector query by metadata before distances are
// computed. A nil filter matches everything.
type QueryFilter struct {
	// RegionSido, when set, keeps entries that are nationwide or whose
	// province label matches.
	RegionSido string

	// ActiveOnly keeps only entries whose policy status is ACTIVE.
	ActiveOnly bool
}

// VectorIndex provides vector similarity search over indexed policies.
type VectorIndex interface {
	// Upsert inserts or replaces index entries.
	Upsert(ctx context.Context, entries ...*IndexEntry) error

	// Query returns up to topK entries closest to the vector, ordered by
	// ascending distance, restricted by the optional metadata filter.
	// Returns ErrIndexUnavailable if the index holds no entries.
	Query(ctx context.Context, vector []float32, topK int, filter *QueryFilter) ([]IndexMatch, error)

	// Delete removes index entries by policy ID. Missing entries are ignored.
	Delete(ctx context.Context, ids ...core.ID) error

	// Count returns the number of indexed entries.
	Count(ctx context.Context) (int, error)

	// Close releases index resources.
	Close() error
}

// RecommendationLogEntry is one recorded recommendation outcome.
type RecommendationLogEntry struct {
	Id        string
	UserKey   string
	Query     string
	Profile   core.UserProfile
	PolicyIds []core.ID
	UXScores  map[core.ID]int
	CreatedAt time.Time
}

// RecommendationLogRepository is an append-only store of recommendation
// outcomes. Writes are best-effort; the pipeline ignores append failures.
type RecommendationLogRepository interface {
	// Append stores an entry. A blank Id is assigned a fresh UUID and a zero
	// CreatedAt is set to now.
	Append(ctx context.Context, entry *RecommendationLogEntry) error

	// Recent retrieves up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*RecommendationLogEntry, error)

	// Close releases resources.
	Close() error
}
