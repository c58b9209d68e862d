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


// Package ai provides abstractions for AI services used in bluebridge.
//
// This package defines interfaces for text embeddings, query rewriting, and
// explanation generation. It follows the dependency inversion principle,
// allowing the recommendation pipeline to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings in query or document mode
//   - QueryRewriter: turns raw queries into structured search intent
//   - ExplanationGenerator: produces short recommendation reasons
//   - AIProvider: aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, etc.) return CONCRETE types to enable behavior
// injection and call-count assertions.
//
// # Failure Semantics
//
// Embedding failures surface as *EmbeddingError so callers can fall back to
// non-vector retrieval. Rewriter and explanation failures are advisory: the
// pipeline recovers from them locally and they never reach end users.
package ai
