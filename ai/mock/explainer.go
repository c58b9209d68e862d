package mock

import (
	"context"
	"fmt"

	"github.com/bluebridge/bluebridge/ai"
)

// MockExplanationGenerator is a test double for ai.ExplanationGenerator.
// It allows custom behavior injection via function fields.
type MockExplanationGenerator struct {
	// GenerateExplanationsFunc is called by GenerateExplanations if set.
	// If nil, uses default deterministic behavior.
	GenerateExplanationsFunc func(ctx context.Context, req *ai.ExplanationRequest) ([]ai.Explanation, error)

	callCount int
}

// NewMockExplanationGenerator creates a mock explanation generator with
// default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExplainer().
func NewMockExplanationGenerator() *MockExplanationGenerator {
	return &MockExplanationGenerator{}
}

// GenerateExplanations returns a deterministic reason per candidate.
func (m *MockExplanationGenerator) GenerateExplanations(ctx context.Context, req *ai.ExplanationRequest) ([]ai.Explanation, error) {
	m.callCount++

	if m.GenerateExplanationsFunc != nil {
		return m.GenerateExplanationsFunc(ctx, req)
	}

	if req == nil {
		return nil, nil
	}
	explanations := make([]ai.Explanation, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		explanations = append(explanations, ai.Explanation{
			Ref:    c.Ref,
			Reason: fmt.Sprintf("Matches your search for %s.", c.Title),
		})
	}
	return explanations, nil
}

// CallCount returns the number of times GenerateExplanations was called.
func (m *MockExplanationGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockExplanationGenerator) Reset() {
	m.callCount = 0
	m.GenerateExplanationsFunc = nil
}
