package recommend

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/storage"
)

const (
	// embedAttempts bounds embedding calls per request: one retry at most.
	embedAttempts = 2

	// embedTimeout bounds each embedding attempt.
	embedTimeout = 30 * time.Second
)

// Retriever assembles the candidate pool for a request. It owns a
// read-through snapshot of the active catalog, refreshed via Reload, so the
// scoring stages never touch storage mid-request.
type Retriever struct {
	policies storage.PolicyRepository
	index    storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger

	mu       sync.RWMutex
	snapshot map[core.ID]*core.PolicyRecord
}

// NewRetriever creates a retriever over the given catalog, index, and embedder.
func NewRetriever(policies storage.PolicyRepository, index storage.VectorIndex, embedder ai.Embedder) (*Retriever, error) {
	if policies == nil {
		return nil, ErrPolicyRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}
	return &Retriever{
		policies: policies,
		index:    index,
		embedder: embedder,
		logger:   slog.Default().With("component", "retriever"),
	}, nil
}

// Reload replaces the catalog snapshot with the current set of active
// records. Call after the catalog or index has been rebuilt.
func (r *Retriever) Reload(ctx context.Context) error {
	records, err := r.policies.ListActive(ctx)
	if err != nil {
		return err
	}

	snapshot := make(map[core.ID]*core.PolicyRecord, len(records))
	for _, record := range records {
		snapshot[record.Id] = record
	}

	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()

	r.logger.Debug("catalog snapshot reloaded", "records", len(snapshot))
	return nil
}

// Snapshot returns the active-catalog snapshot, loading it on first use.
func (r *Retriever) Snapshot(ctx context.Context) (map[core.ID]*core.PolicyRecord, error) {
	r.mu.RLock()
	snapshot := r.snapshot
	r.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	if err := r.Reload(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, nil
}

// Retrieve returns the candidate pool for the given search text. Retrieval
// degrades through three tiers: a region-filtered vector query, the same
// query unfiltered, and finally a substring scan over the catalog ordered by
// soonest deadline. Fallback candidates carry no distance.
func (r *Retriever) Retrieve(ctx context.Context, searchText, regionSido string, keywords []string, topK int) ([]*core.RankedCandidate, map[core.ID]*core.PolicyRecord, RetrievalTier, error) {
	records, err := r.Snapshot(ctx)
	if err != nil {
		return nil, nil, TierText, err
	}

	vector, err := r.embedWithRetry(ctx, searchText)
	if err != nil {
		r.logger.Warn("query embedding failed, falling back to text search", "err", err)
		return r.textFallback(ctx, records, keywords, topK)
	}

	tier := TierVector
	filter := &storage.QueryFilter{RegionSido: regionSido, ActiveOnly: true}
	matches, err := r.queryIndex(ctx, vector, topK, filter, records)
	if err != nil {
		r.logger.Warn("vector query failed, falling back to text search", "err", err)
		return r.textFallback(ctx, records, keywords, topK)
	}

	// An empty filtered pool usually means the region filter was too strict.
	if len(matches) == 0 && regionSido != "" {
		tier = TierVectorUnfiltered
		matches, err = r.queryIndex(ctx, vector, topK, &storage.QueryFilter{ActiveOnly: true}, records)
		if err != nil {
			r.logger.Warn("unfiltered vector query failed, falling back to text search", "err", err)
			return r.textFallback(ctx, records, keywords, topK)
		}
	}

	if len(matches) == 0 {
		return r.textFallback(ctx, records, keywords, topK)
	}

	candidates := make([]*core.RankedCandidate, 0, len(matches))
	for _, match := range matches {
		distance := match.Distance
		candidates = append(candidates, &core.RankedCandidate{
			PolicyId: match.PolicyId,
			Distance: &distance,
		})
	}
	return candidates, records, tier, nil
}

// queryIndex runs one vector query and drops matches that have fallen out
// of the active snapshot.
func (r *Retriever) queryIndex(ctx context.Context, vector []float32, topK int, filter *storage.QueryFilter, records map[core.ID]*core.PolicyRecord) ([]storage.IndexMatch, error) {
	matches, err := r.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, err
	}

	kept := matches[:0]
	for _, match := range matches {
		if records[match.PolicyId] != nil {
			kept = append(kept, match)
		}
	}
	return kept, nil
}

// textFallback runs the substring scan. Fallback candidates carry no
// distance; the scorer treats the missing value as a perfect semantic
// match. The snapshot map is shared across requests, so records the
// snapshot is missing go into a copy.
func (r *Retriever) textFallback(ctx context.Context, records map[core.ID]*core.PolicyRecord, keywords []string, topK int) ([]*core.RankedCandidate, map[core.ID]*core.PolicyRecord, RetrievalTier, error) {
	found, err := r.policies.SearchText(ctx, keywords, topK)
	if err != nil {
		return nil, nil, TierText, err
	}

	candidates := make([]*core.RankedCandidate, 0, len(found))
	cloned := false
	for _, record := range found {
		if records[record.Id] == nil {
			if !cloned {
				records = maps.Clone(records)
				cloned = true
			}
			records[record.Id] = record
		}
		candidates = append(candidates, &core.RankedCandidate{
			PolicyId: record.Id,
		})
	}
	return candidates, records, TierText, nil
}

// embedWithRetry embeds the search text in query mode, retrying once.
func (r *Retriever) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		attemptCtx, cancel := context.WithTimeout(ctx, embedTimeout)
		vector, err := r.embedder.EmbedQuery(attemptCtx, text)
		cancel()
		if err == nil {
			return vector, nil
		}
		lastErr = err
		r.logger.Debug("query embedding attempt failed", "attempt", attempt, "err", err)
	}
	return nil, lastErr
}
