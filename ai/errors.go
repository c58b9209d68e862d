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


package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyVector indicates the embedding service returned no vector.
	ErrEmptyVector = errors.New("embedding service returned empty vector")

	// ErrMalformedResponse indicates a chat response could not be parsed
	// after repair attempts.
	ErrMalformedResponse = errors.New("malformed model response")
)

// EmbeddingError wraps an embedding failure with the mode that failed.
// Retrieval treats any *EmbeddingError as a signal to fall back to
// non-vector search.
type EmbeddingError struct {
	// Mode is "query" or "document".
	Mode string
	Err  error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed (%s mode): %v", e.Mode, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// NewEmbeddingError wraps err as an EmbeddingError for the given mode.
func NewEmbeddingError(mode string, err error) *EmbeddingError {
	return &EmbeddingError{Mode: mode, Err: err}
}
