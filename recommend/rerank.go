package recommend

import (
	"strings"

	"github.com/bluebridge/bluebridge/core"
)

// defaultMaxPerBucket caps how many policies of one category survive the
// diversity pass.
const defaultMaxPerBucket = 2

// DiversityRerank makes a single pass over score-ordered candidates and
// drops any candidate whose category bucket is already full. Relative order
// of the survivors is preserved.
func DiversityRerank(candidates []*core.RankedCandidate, records map[core.ID]*core.PolicyRecord, maxPerBucket int) []*core.RankedCandidate {
	if maxPerBucket <= 0 {
		maxPerBucket = defaultMaxPerBucket
	}

	buckets := make(map[string]int)
	out := make([]*core.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		bucket := "other"
		if record := records[c.PolicyId]; record != nil && record.Category != "" {
			bucket = strings.ToLower(record.Category)
		}
		if buckets[bucket] >= maxPerBucket {
			continue
		}
		buckets[bucket]++
		out = append(out, c)
	}
	return out
}
