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


package mock

import "github.com/bluebridge/bluebridge/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, rewriter, and explainer instances.
type MockProvider struct {
	embedder  *MockEmbedder
	rewriter  *MockQueryRewriter
	explainer *MockExplanationGenerator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production
// constructors. Use the GetMock* accessors for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		rewriter:  NewMockQueryRewriter(),
		explainer: NewMockExplanationGenerator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, rewriter *MockQueryRewriter, explainer *MockExplanationGenerator) ai.AIProvider {
	return &MockProvider{
		embedder:  embedder,
		rewriter:  rewriter,
		explainer: explainer,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// QueryRewriter returns the mock query rewriter.
func (p *MockProvider) QueryRewriter() ai.QueryRewriter {
	return p.rewriter
}

// ExplanationGenerator returns the mock explanation generator.
func (p *MockProvider) ExplanationGenerator() ai.ExplanationGenerator {
	return p.explainer
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockRewriter returns the underlying mock rewriter for test assertions.
func (p *MockProvider) GetMockRewriter() *MockQueryRewriter {
	return p.rewriter
}

// GetMockExplainer returns the underlying mock explainer for test assertions.
func (p *MockProvider) GetMockExplainer() *MockExplanationGenerator {
	return p.explainer
}
