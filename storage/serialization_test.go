package storage

import (
	"bytes"
	"testing"
	"time"

	"github.com/bluebridge/bluebridge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalID_KeyOrdering(t *testing.T) {
	// Big-endian encoding keeps lexicographic key order aligned with
	// numeric order, which the badger iterators rely on.
	low := MarshalID(core.ID(5))
	high := MarshalID(core.ID(1 << 40))

	assert.Len(t, low, 8)
	assert.Negative(t, bytes.Compare(low, high))

	id, err := UnmarshalID(high)
	require.NoError(t, err)
	assert.Equal(t, core.ID(1<<40), id)
}

func TestUnmarshalID_Truncated(t *testing.T) {
	_, err := UnmarshalID([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestPolicyRecordRoundTrip(t *testing.T) {
	minAge, maxAge := 19, 34
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	record := &core.PolicyRecord{
		Id:                core.IDFromContent("R2024-001"),
		SourceCode:        "R2024-001",
		Title:             "Youth Employment Grant",
		Summary:           "Monthly stipend for unemployed young adults.",
		Category:          "jobs",
		Keywords:          []string{"employment", "stipend"},
		RegionScope:       core.RegionScopeLocal,
		RegionSido:        "Seoul",
		MinAge:            &minAge,
		MaxAge:            &maxAge,
		Employment:        []string{"unemployed"},
		SpecialTargets:    []string{"low-income households"},
		RestrictedTargets: []core.RestrictedTargetCategory{core.TargetLowIncome},
		Status:            core.PolicyStatusActive,
		EndDate:           &end,
		Vector:            []float32{0.1, 0.2, 0.3},
	}

	data, err := MarshalPolicyRecord(record)
	require.NoError(t, err)

	got, err := UnmarshalPolicyRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// Deterministic encoding: same record, same bytes.
	again, err := MarshalPolicyRecord(record)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestLogEntryRoundTrip(t *testing.T) {
	entry := &RecommendationLogEntry{
		Id:        "3f1d9a4e-8b1c-4c57-9d2e-0c1b2a3d4e5f",
		UserKey:   "user-42",
		Query:     "job programs for young people",
		PolicyIds: []core.ID{1, 2, 3},
		UXScores:  map[core.ID]int{1: 80, 2: 65, 3: 40},
		CreatedAt: time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC),
	}

	data, err := MarshalLogEntry(entry)
	require.NoError(t, err)

	got, err := UnmarshalLogEntry(data)
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}
