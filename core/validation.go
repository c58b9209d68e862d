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

import "fmt"

// ValidatePolicyRecord validates a PolicyRecord according to domain rules.
//
// Validation rules:
//   - SourceCode must not be empty (IDs are derived from it)
//   - Title must not be empty
//   - Status must be a known value
//   - RegionScope must be a known value
//   - Age bounds, when declared, must be non-negative and ordered
//
// NOT validated (populated later):
//   - Vector (empty until the indexer runs)
//   - RestrictedTargets (resolved from SpecialTargets at store time)
func ValidatePolicyRecord(record *PolicyRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPolicyRecord)
	}

	if record.SourceCode == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, ErrEmptySourceCode)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, ErrEmptyTitle)
	}

	if err := ValidatePolicyStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, err)
	}

	if err := ValidateRegionScope(record.RegionScope); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, err)
	}

	if !validAgeBounds(record.MinAge, record.MaxAge) {
		return fmt.Errorf("%w: %w", ErrInvalidPolicyRecord, ErrInvalidAgeBounds)
	}

	return nil
}

// ValidateProfile validates a UserProfile according to domain rules.
// All profile attributes are optional; only a declared age is checked.
func ValidateProfile(profile *UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if profile.Age != nil && (*profile.Age < 0 || *profile.Age > 150) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidProfile, ErrInvalidAge, *profile.Age)
	}

	return nil
}

// ValidatePolicyStatus validates that a PolicyStatus has a known value.
func ValidatePolicyStatus(status PolicyStatus) error {
	switch status {
	case PolicyStatusActive, PolicyStatusUpcoming, PolicyStatusExpired:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidStatus, string(status))
}

// ValidateRegionScope validates that a RegionScope has a known value.
func ValidateRegionScope(scope RegionScope) error {
	switch scope {
	case RegionScopeNationwide, RegionScopeLocal:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidRegionScope, string(scope))
}

func validAgeBounds(min, max *int) bool {
	if min != nil && *min < 0 {
		return false
	}
	if max != nil && *max < 0 {
		return false
	}
	if min != nil && max != nil && *min > *max {
		return false
	}
	return true
}
