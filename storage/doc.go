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


// Package storage provides the storage abstraction layer for bluebridge.
//
// This package defines repository interfaces that decouple storage
// implementation from recommendation logic, so different backends (BadgerDB,
// in-memory, a remote vector store) can be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - PolicyRepository: the policy catalog (records, text fallback search)
//   - VectorIndex: similarity search with metadata pre-filtering
//   - RecommendationLogRepository: append-only recommendation outcomes
//
// # Usage
//
// Create repositories backed by a shared BadgerDB instance:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	policies, err := badger.NewPolicyRepository(backend)
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
