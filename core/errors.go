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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPolicyRecord indicates a PolicyRecord failed validation.
	ErrInvalidPolicyRecord = errors.New("invalid policy record")

	// ErrInvalidProfile indicates a UserProfile failed validation.
	ErrInvalidProfile = errors.New("invalid user profile")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptySourceCode indicates the SourceCode field is empty.
	ErrEmptySourceCode = errors.New("source code cannot be empty")

	// ErrInvalidStatus indicates an unknown PolicyStatus value.
	ErrInvalidStatus = errors.New("invalid policy status")

	// ErrInvalidRegionScope indicates an unknown RegionScope value.
	ErrInvalidRegionScope = errors.New("invalid region scope")

	// ErrInvalidAgeBounds indicates MinAge exceeds MaxAge or a bound is negative.
	ErrInvalidAgeBounds = errors.New("invalid age bounds")

	// ErrInvalidAge indicates a profile age outside the plausible range.
	ErrInvalidAge = errors.New("invalid age")
)
