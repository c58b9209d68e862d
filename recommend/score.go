package recommend

import (
	"slices"
	"strings"

	"github.com/bluebridge/bluebridge/core"
)

// Eligibility component penalties. The component starts at 1.0 and loses
// a fixed amount per mismatched attribute, clamped to [0, 1].
const (
	regionPenalty     = 0.3
	agePenalty        = 0.3
	employmentPenalty = 0.2
	majorPenalty      = 0.1
	softTargetPenalty = 0.1
)

// SemanticScore converts a vector distance into a [0, 1] score.
// Fallback-retrieved candidates carry no distance and score 1.
func SemanticScore(distance *float64) float64 {
	if distance == nil {
		return 1.0
	}
	return clamp01(1.0 - *distance)
}

// IntentScore measures how well a policy matches inferred search intent:
// 0.6 for a category match plus 0.1 per matched keyword capped at 0.4.
func IntentScore(record *core.PolicyRecord, keywords, categories []string) float64 {
	score := 0.0

	recordCategory := strings.ToLower(record.Category)
	if recordCategory != "" && slices.Contains(categories, recordCategory) {
		score += 0.6
	}

	haystack := strings.ToLower(record.Title + " " + record.SearchText() + " " + strings.Join(record.Keywords, " "))
	matched := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, kw) {
			matched++
		}
	}
	score += min(0.1*float64(matched), 0.4)

	return clamp01(score)
}

// EligibilityScore measures soft profile fit. It is independent of the hard
// gate: restricted-target failures never reach scoring.
func EligibilityScore(record *core.PolicyRecord, profile *core.UserProfile) float64 {
	score := 1.0
	if profile == nil {
		return score
	}

	if profile.Region != "" && record.RegionScope == core.RegionScopeLocal {
		if record.RegionSido != profile.Region && !slices.Contains(record.ApplicableRegions, profile.Region) {
			score -= regionPenalty
		}
	}

	if profile.Age != nil {
		age := *profile.Age
		if (record.MinAge != nil && age < *record.MinAge) || (record.MaxAge != nil && age > *record.MaxAge) {
			score -= agePenalty
		}
	}

	if profile.EmploymentStatus != "" && len(record.Employment) > 0 {
		if !containsFold(record.Employment, profile.EmploymentStatus) {
			score -= employmentPenalty
		}
	}

	if profile.Major != "" && len(record.Major) > 0 {
		if !containsFold(record.Major, profile.Major) {
			score -= majorPenalty
		}
	}

	if hasUnmatchedSoftTarget(record, profile) {
		score -= softTargetPenalty
	}

	return clamp01(score)
}

// ScoreCandidates fills in the component and hybrid scores for every
// candidate, then sorts by hybrid score descending with ties broken by
// ascending policy ID so equal-score orderings are stable across runs.
func ScoreCandidates(candidates []*core.RankedCandidate, records map[core.ID]*core.PolicyRecord, profile *core.UserProfile, keywords, categories []string, weights Weights) {
	for _, c := range candidates {
		record := records[c.PolicyId]
		if record == nil {
			continue
		}
		c.SemanticScore = SemanticScore(c.Distance)
		c.IntentScore = IntentScore(record, keywords, categories)
		c.EligibilityScore = EligibilityScore(record, profile)
		c.HybridScore = weights.Semantic*c.SemanticScore +
			weights.Intent*c.IntentScore +
			weights.Eligibility*c.EligibilityScore
	}

	slices.SortFunc(candidates, func(a, b *core.RankedCandidate) int {
		if a.HybridScore > b.HybridScore {
			return -1
		}
		if a.HybridScore < b.HybridScore {
			return 1
		}
		if a.PolicyId < b.PolicyId {
			return -1
		}
		if a.PolicyId > b.PolicyId {
			return 1
		}
		return 0
	})
}

// hasUnmatchedSoftTarget reports whether the policy names special targets
// that resolve to no known category and are absent from the profile's own
// labels. Soft targets only dampen the score; they never gate.
func hasUnmatchedSoftTarget(record *core.PolicyRecord, profile *core.UserProfile) bool {
	for _, label := range record.SpecialTargets {
		normalized := core.NormalizeLabel(label)
		if normalized == "" {
			continue
		}
		if len(core.ResolveRestrictedTargets([]string{label})) > 0 {
			continue // handled by the hard gate
		}
		if !containsFold(profile.SpecialTargets, label) {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
