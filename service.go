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


package bluebridge

import (
	"log/slog"

	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/ai/openai"
	"github.com/bluebridge/bluebridge/indexer"
	"github.com/bluebridge/bluebridge/recommend"
	"github.com/bluebridge/bluebridge/storage"
	"github.com/bluebridge/bluebridge/storage/badger"
)

// Service bundles the policy catalog, vector index, recommendation log, and
// AI provider behind one handle. It is the entry point for embedding the
// recommendation system into a host application.
type Service struct {
	backend  *badger.Backend
	policies storage.PolicyRepository
	index    storage.VectorIndex
	recLog   storage.RecommendationLogRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
// Ignored when WithProvider is also given.
func WithAIConfig(cfg *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from config. Used by tests and by hosts that share a provider.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the storage backend in memory. Data is lost on Close.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// NewService opens the storage backend at filePath and wires up the
// repositories and AI provider.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	policies, err := badger.NewPolicyRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index, err := badger.NewVectorIndex(backend)
	if err != nil {
		policies.Close()
		backend.Close()
		return nil, err
	}

	recLog, err := badger.NewRecommendationLogRepository(backend)
	if err != nil {
		index.Close()
		policies.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			recLog.Close()
			index.Close()
			policies.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Service{
		backend:  backend,
		policies: policies,
		index:    index,
		recLog:   recLog,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.recLog.Close(); err != nil {
		s.logger.Error("error closing recommendation log", "err", err)
		return err
	}
	if err := s.index.Close(); err != nil {
		s.logger.Error("error closing vector index", "err", err)
		return err
	}
	if err := s.policies.Close(); err != nil {
		s.logger.Error("error closing policy repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// PolicyRepository returns the policy catalog.
func (s *Service) PolicyRepository() storage.PolicyRepository {
	return s.policies
}

// VectorIndex returns the policy vector index.
func (s *Service) VectorIndex() storage.VectorIndex {
	return s.index
}

// RecommendationLog returns the append-only recommendation outcome log.
func (s *Service) RecommendationLog() storage.RecommendationLogRepository {
	return s.recLog
}

// NewIndexer creates an indexing pipeline over the service's catalog and index.
func (s *Service) NewIndexer(opts ...indexer.Option) (*indexer.Pipeline, error) {
	return indexer.NewPipeline(s.policies, s.index, s.provider, opts...)
}

// NewEngine creates a recommendation engine over the service's catalog and
// index. The recommendation log is wired in; requests with a UserKey are
// recorded.
func (s *Service) NewEngine(opts ...recommend.Option) (*recommend.Engine, error) {
	opts = append([]recommend.Option{recommend.WithRecommendationLog(s.recLog)}, opts...)
	return recommend.NewEngine(s.policies, s.index, s.provider, opts...)
}
