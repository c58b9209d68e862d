// Copyright 2025 BlueBridge Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/storage"
)

// Config holds tuning parameters for the indexing pipeline.
type Config struct {
	// BatchSize is the number of policies embedded per worker task.
	BatchSize int

	// ReportInterval is how often to report progress (number of policies).
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      50,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Pipeline loads policies into the catalog and builds their vector index.
// Embedding work is spread across a worker pool.
type Pipeline struct {
	policies storage.PolicyRepository
	index    storage.VectorIndex
	embedder ai.Embedder
	pool     *ants.Pool
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithConfig overrides the pipeline tuning parameters.
func WithConfig(config *Config) Option {
	return func(p *Pipeline) error {
		if config != nil {
			p.config = config
		}
		return nil
	}
}

// WithProgress sets where progress output is written (typically os.Stderr).
// Default discards progress output.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(policies storage.PolicyRepository, index storage.VectorIndex, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if policies == nil {
		return nil, ErrPolicyRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		policies: policies,
		index:    index,
		embedder: provider.Embedder(),
		pool:     pool,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IndexCatalog stores the records and builds their index entries. Records are
// validated and normalized by the repository on the way in; embedding and
// index writes run concurrently across the worker pool.
// Returns the number of policies indexed.
func (p *Pipeline) IndexCatalog(ctx context.Context, records ...*core.PolicyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	stored, err := p.policies.PutPolicies(ctx, records...)
	if err != nil {
		return 0, fmt.Errorf("failed to store policies: %w", err)
	}

	if err := p.embedAndUpsert(ctx, stored); err != nil {
		return 0, err
	}
	return len(stored), nil
}

// Reindex re-embeds every active policy and rebuilds its index entry. Use
// after switching embedding models.
// Returns the number of policies reindexed.
func (p *Pipeline) Reindex(ctx context.Context) (int, error) {
	records, err := p.policies.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query policies: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintf(p.progress, "No active policies found (0 records)\n")
		return 0, nil
	}

	if err := p.embedAndUpsert(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// embedAndUpsert splits the records into batches and fans them out across
// the worker pool. Each batch is embedded with retry, normalized, persisted
// back to the catalog, and upserted into the index. The first batch error
// aborts the operation.
func (p *Pipeline) embedAndUpsert(ctx context.Context, records []*core.PolicyRecord) error {
	total := len(records)
	fmt.Fprintf(p.progress, "Indexing %d policies (batch size: %d)\n", total, p.config.BatchSize)

	tracker := NewProgressTracker(p.progress, total, p.config.ReportInterval)
	tracker.Start()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	batchSize := p.config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}

	for start := 0; start < total; start += batchSize {
		end := min(start+batchSize, total)
		batch := records[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.processBatch(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(p.progress, "Indexing complete. Processed %d policies in %v\n",
		total, elapsed.Round(time.Second))
	return nil
}

// processBatch embeds one batch and writes the vectors to the catalog and
// the index.
func (p *Pipeline) processBatch(ctx context.Context, batch []*core.PolicyRecord) error {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = BuildEmbeddingText(record)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = p.embedder.EmbedDocuments(ctx, texts)
		return err
	}, p.config.MaxRetries, p.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", p.config.MaxRetries, err)
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	// Normalized vectors keep cosine distances well defined.
	entries := make([]*storage.IndexEntry, len(batch))
	for i, record := range batch {
		record.Vector = NormalizeVector(embeddings[i])
		entries[i] = &storage.IndexEntry{
			PolicyId:    record.Id,
			Vector:      record.Vector,
			RegionScope: record.RegionScope,
			RegionSido:  record.RegionSido,
			Category:    record.Category,
			Status:      record.Status,
		}
	}

	if _, err := p.policies.PutPolicies(ctx, batch...); err != nil {
		return fmt.Errorf("failed to update policies: %w", err)
	}

	if err := p.index.Upsert(ctx, entries...); err != nil {
		return fmt.Errorf("failed to upsert index entries: %w", err)
	}

	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
