package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Policy IDs are generated from upstream source codes using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs, so repeated catalog
// loads assign stable IDs to the same upstream policy.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RegionScope describes the geographic reach of a policy.
type RegionScope string

const (
	// RegionScopeNationwide marks policies open to residents of any region.
	RegionScopeNationwide RegionScope = "NATIONWIDE"
	// RegionScopeLocal marks policies limited to specific regions.
	RegionScopeLocal RegionScope = "LOCAL"
)

// PolicyStatus describes the lifecycle state of a policy.
// Only active policies are eligible for recommendation.
type PolicyStatus string

const (
	PolicyStatusActive   PolicyStatus = "ACTIVE"
	PolicyStatusUpcoming PolicyStatus = "UPCOMING"
	PolicyStatusExpired  PolicyStatus = "EXPIRED"
)

// PolicyRecord is an immutable snapshot of a government support program as
// consumed by the recommendation core. Records are normalized by the catalog
// loaders before they reach this package; the core never mutates them.
type PolicyRecord struct {
	Id            ID
	SourceCode    string // upstream identifier the Id is derived from
	Title         string
	Summary       string
	SearchSummary string // condensed text used for embedding and keyword matching
	Category      string
	Keywords      []string
	Provider      string

	RegionScope       RegionScope
	RegionSido        string // province-level label, empty for nationwide policies
	ApplicableRegions []string

	MinAge *int // inclusive, nil = no lower bound
	MaxAge *int // inclusive, nil = no upper bound

	Employment []string // allowed employment-status labels, empty = unrestricted
	Education  []string
	Major      []string

	SpecialTargets    []string
	RestrictedTargets []RestrictedTargetCategory // resolved once at snapshot build

	Status    PolicyStatus
	StartDate *time.Time
	EndDate   *time.Time

	Vector     []float32 // document embedding (populated by the indexer)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// SearchText returns the text used for keyword matching, preferring the
// condensed search summary over the full summary.
func (p *PolicyRecord) SearchText() string {
	if p.SearchSummary != "" {
		return p.SearchSummary
	}
	return p.Summary
}

// UserProfile is a read-only snapshot of stored user attributes.
type UserProfile struct {
	Region           string
	Age              *int
	Gender           string // "male", "female", or empty
	EmploymentStatus string
	EducationLevel   string
	Major            string
	IncomeQuintile   string
	Interest         string // free text, comma-separated interests
	SpecialTargets   []string
}

// Interests splits the free-text interest field into normalized tokens.
func (p *UserProfile) Interests() []string {
	if p == nil || p.Interest == "" {
		return nil
	}
	var out []string
	for _, raw := range splitAndTrim(p.Interest, ",") {
		if raw != "" {
			out = append(out, raw)
		}
	}
	return out
}

// RankedCandidate is the per-request scoring state for one policy. It is
// created at retrieval time, mutated in place by the scorer, reranker, and
// normalizer, and discarded after the response is serialized. Candidates are
// never shared across requests.
type RankedCandidate struct {
	PolicyId ID
	Distance *float64 // raw vector distance, nil when the fallback path assigned no distance

	SemanticScore    float64 // in [0,1]
	IntentScore      float64 // in [0,1]
	EligibilityScore float64 // in [0,1]
	HybridScore      float64
	UXScore          int // in [0,100], set by the display normalizer

	TargetRequired bool
	TargetMatch    bool
}
