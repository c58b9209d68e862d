package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Query and document texts use different modes because embedding
// models encode them asymmetrically.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedQuery generates an embedding for a search query.
	// Returns *EmbeddingError if the service yields no usable vector.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocument generates an embedding for a single document text.
	// Returns *EmbeddingError if the service yields no usable vector.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments generates embeddings for multiple document texts in a
	// batch. The returned slice preserves input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryRewriter turns a raw user query into structured search intent.
// Implementations must be thread-safe for concurrent use.
type QueryRewriter interface {
	// RewriteQuery analyzes a query and returns the inferred intent,
	// expansion keywords, and an optional category hint.
	// Callers treat any error as "use the original query unchanged".
	RewriteQuery(ctx context.Context, query string) (*RewriteResult, error)
}

// ExplanationGenerator produces short user-facing reasons for why
// candidates were recommended.
// Implementations must be thread-safe for concurrent use.
type ExplanationGenerator interface {
	// GenerateExplanations returns one reason per requested candidate.
	// Candidates missing from the response are backfilled by the caller,
	// so partial results are acceptable.
	GenerateExplanations(ctx context.Context, req *ExplanationRequest) ([]Explanation, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages its services,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// QueryRewriter returns the query rewriting service.
	QueryRewriter() QueryRewriter

	// ExplanationGenerator returns the explanation service.
	ExplanationGenerator() ExplanationGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
