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


package badger

import "github.com/bluebridge/bluebridge/storage"

// MemoryStore bundles in-memory repositories over a shared backend for tests.
// Caller must Close when done.
type MemoryStore struct {
	Policies storage.PolicyRepository
	Index    storage.VectorIndex
	RecLog   storage.RecommendationLogRepository

	backend *Backend
}

// NewMemoryStore creates in-memory policy, index, and log repositories.
func NewMemoryStore() (*MemoryStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	policies, err := NewPolicyRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index, err := NewVectorIndex(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	recLog, err := NewRecommendationLogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &MemoryStore{
		Policies: policies,
		Index:    index,
		RecLog:   recLog,
		backend:  backend,
	}, nil
}

// Close closes the underlying backend.
func (s *MemoryStore) Close() error {
	return s.backend.Close()
}
