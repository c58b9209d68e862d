package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/bluebridge/bluebridge/core"
)

// Key prefixes for different data types
const (
	policyRecordPrefix = "polrec"
	indexEntryPrefix   = "polvec"
	recLogPrefix       = "reclog"
)

// makePolicyKey generates a key for a policy record by ID.
func makePolicyKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", policyRecordPrefix, id))
}

// makeIndexKey generates a key for a vector index entry by policy ID.
func makeIndexKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", indexEntryPrefix, id))
}

// makeRecLogKey generates a composite key for a log entry.
// Format: prefix:timestamp:hash(id). BigEndian timestamps keep lexicographic
// order aligned with time, so reverse iteration yields newest first.
func makeRecLogKey(createdAt time.Time, entryID string) []byte {
	prefix := recLogPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(entryID)))
	return buf
}

// makePartialRecLogKey generates a partial key for time-based log seeks.
func makePartialRecLogKey(createdAt time.Time) []byte {
	prefix := recLogPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}
