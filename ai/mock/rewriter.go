package mock

import (
	"context"
	"strings"

	"github.com/bluebridge/bluebridge/ai"
)

// MockQueryRewriter is a test double for ai.QueryRewriter.
// It allows custom behavior injection via function fields.
type MockQueryRewriter struct {
	// RewriteQueryFunc is called by RewriteQuery if set.
	// If nil, uses default simple word extraction.
	RewriteQueryFunc func(ctx context.Context, query string) (*ai.RewriteResult, error)

	callCount int
}

// NewMockQueryRewriter creates a mock query rewriter with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockRewriter().
func NewMockQueryRewriter() *MockQueryRewriter {
	return &MockQueryRewriter{}
}

// RewriteQuery returns a simple deterministic rewrite.
// Default behavior: echoes the query as intent and splits it into keywords.
func (m *MockQueryRewriter) RewriteQuery(ctx context.Context, query string) (*ai.RewriteResult, error) {
	m.callCount++

	if m.RewriteQueryFunc != nil {
		return m.RewriteQueryFunc(ctx, query)
	}

	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if word != "" {
			keywords = append(keywords, word)
		}
		if len(keywords) >= 8 {
			break
		}
	}

	return &ai.RewriteResult{
		Intent:   query,
		Keywords: keywords,
	}, nil
}

// CallCount returns the number of times RewriteQuery was called.
func (m *MockQueryRewriter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockQueryRewriter) Reset() {
	m.callCount = 0
	m.RewriteQueryFunc = nil
}
