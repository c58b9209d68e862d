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


package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/bluebridge/bluebridge/core"
	"github.com/fxamacker/cbor/v2"
)

// encMode uses core-deterministic encoding so identical records always
// serialize to identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.EncOptions{Sort: cbor.SortCoreDeterministic}.EncMode()
	if err != nil {
		panic(err)
	}
}

// MarshalID serializes an ID to 8 fixed bytes, big-endian so lexicographic
// key order matches numeric order.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("%w: id needs 8 bytes, got %d", ErrSerializationFailed, len(data))
	}
	return core.ID(binary.BigEndian.Uint64(data)), nil
}

// MarshalPolicyRecord serializes a PolicyRecord to bytes.
func MarshalPolicyRecord(record *core.PolicyRecord) ([]byte, error) {
	data, err := encMode.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalPolicyRecord deserializes a PolicyRecord from bytes.
func UnmarshalPolicyRecord(data []byte) (*core.PolicyRecord, error) {
	var record core.PolicyRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalIndexEntry serializes an IndexEntry to bytes.
func MarshalIndexEntry(entry *IndexEntry) ([]byte, error) {
	data, err := encMode.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalIndexEntry deserializes an IndexEntry from bytes.
func UnmarshalIndexEntry(data []byte) (*IndexEntry, error) {
	var entry IndexEntry
	if err := cbor.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalLogEntry serializes a RecommendationLogEntry to bytes.
func MarshalLogEntry(entry *RecommendationLogEntry) ([]byte, error) {
	data, err := encMode.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalLogEntry deserializes a RecommendationLogEntry from bytes.
func UnmarshalLogEntry(data []byte) (*RecommendationLogEntry, error) {
	var entry RecommendationLogEntry
	if err := cbor.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}
