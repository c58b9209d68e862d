package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/core"
)

const (
	// topPickCount is how many leading candidates receive explanations.
	topPickCount = 3

	// batchReasonLimit caps reason length when several picks are shown.
	batchReasonLimit = 180
	// singleReasonLimit caps reason length on a single-pick card.
	singleReasonLimit = 80
)

// BuildTopPicks selects up to three leading candidates and attaches an
// explanation to each. The generator gets one attempt; any failure, missing
// candidate, or invalid reference falls back to rule-based reasons. This
// function never fails.
func BuildTopPicks(ctx context.Context, explainer ai.ExplanationGenerator, candidates []*core.RankedCandidate, records map[core.ID]*core.PolicyRecord, profile *core.UserProfile, query string, categories []string) []TopPick {
	n := min(topPickCount, len(candidates))
	if n == 0 {
		return nil
	}
	top := candidates[:n]

	limit := batchReasonLimit
	if n == 1 {
		limit = singleReasonLimit
	}

	reasons := generatedReasons(ctx, explainer, top, records, profile, query)

	picks := make([]TopPick, 0, n)
	for _, c := range top {
		record := records[c.PolicyId]
		if record == nil {
			continue
		}

		reason := reasons[c.PolicyId]
		if reason == "" {
			reason = ruleReason(record, profile, categories)
		}
		reason = truncateRunes(reason, limit)

		picks = append(picks, TopPick{
			Policy:  record,
			Reason:  reason,
			UXScore: c.UXScore,
			Subscores: Subscores{
				Semantic:    scale10(c.SemanticScore),
				Intent:      scale10(c.IntentScore),
				Eligibility: scale10(c.EligibilityScore),
			},
		})
	}
	return picks
}

// generatedReasons asks the explanation generator once and returns whatever
// validated reasons came back, keyed by policy ID.
func generatedReasons(ctx context.Context, explainer ai.ExplanationGenerator, top []*core.RankedCandidate, records map[core.ID]*core.PolicyRecord, profile *core.UserProfile, query string) map[core.ID]string {
	reasons := make(map[core.ID]string, len(top))
	if explainer == nil {
		return reasons
	}

	req := &ai.ExplanationRequest{
		Query:          query,
		ProfileSummary: ProfileSummary(profile),
	}
	for _, c := range top {
		record := records[c.PolicyId]
		if record == nil {
			continue
		}
		req.Candidates = append(req.Candidates, ai.CandidateSummary{
			Ref:      uint64(c.PolicyId),
			Title:    record.Title,
			Summary:  record.SearchText(),
			Category: record.Category,
		})
	}
	if len(req.Candidates) == 0 {
		return reasons
	}

	explanations, err := explainer.GenerateExplanations(ctx, req)
	if err != nil {
		slog.Default().Warn("explanation generation failed, using rule-based reasons", "err", err)
		return reasons
	}

	for _, e := range explanations {
		id := core.ID(e.Ref)
		if records[id] == nil {
			continue
		}
		if reason := strings.TrimSpace(e.Reason); reason != "" {
			reasons[id] = reason
		}
	}
	return reasons
}

// ruleReason builds a deterministic reason, checking fit in priority order:
// region, age, employment, category, then a generic line.
func ruleReason(record *core.PolicyRecord, profile *core.UserProfile, categories []string) string {
	if profile != nil && profile.Region != "" {
		if record.RegionScope == core.RegionScopeNationwide {
			return fmt.Sprintf("Available nationwide, including %s.", profile.Region)
		}
		if record.RegionSido == profile.Region || slices.Contains(record.ApplicableRegions, profile.Region) {
			return fmt.Sprintf("Offered in %s, where you live.", profile.Region)
		}
	}

	if profile != nil && profile.Age != nil {
		age := *profile.Age
		minOK := record.MinAge == nil || age >= *record.MinAge
		maxOK := record.MaxAge == nil || age <= *record.MaxAge
		if (record.MinAge != nil || record.MaxAge != nil) && minOK && maxOK {
			switch {
			case record.MinAge != nil && record.MaxAge != nil:
				return fmt.Sprintf("Open to ages %d to %d, which includes you.", *record.MinAge, *record.MaxAge)
			case record.MinAge != nil:
				return fmt.Sprintf("Open to ages %d and up.", *record.MinAge)
			default:
				return fmt.Sprintf("Open to applicants up to age %d.", *record.MaxAge)
			}
		}
	}

	if profile != nil && profile.EmploymentStatus != "" && containsFold(record.Employment, profile.EmploymentStatus) {
		return fmt.Sprintf("Targets %s applicants like you.", strings.ToLower(profile.EmploymentStatus))
	}

	if record.Category != "" && slices.Contains(categories, strings.ToLower(record.Category)) {
		return fmt.Sprintf("Closely related to the %s programs you are looking for.", strings.ToLower(record.Category))
	}

	return "A broadly applicable program currently accepting applications."
}

// ProfileSummary renders a one-line digest of the profile for prompts and
// profile-mode embedding.
func ProfileSummary(profile *core.UserProfile) string {
	if profile == nil {
		return ""
	}

	var parts []string
	if profile.Age != nil {
		parts = append(parts, fmt.Sprintf("%d years old", *profile.Age))
	}
	if profile.Region != "" {
		parts = append(parts, "living in "+profile.Region)
	}
	if profile.EmploymentStatus != "" {
		parts = append(parts, strings.ToLower(profile.EmploymentStatus))
	}
	if profile.EducationLevel != "" {
		parts = append(parts, "education: "+strings.ToLower(profile.EducationLevel))
	}
	if profile.Major != "" {
		parts = append(parts, "major: "+strings.ToLower(profile.Major))
	}
	if interests := profile.Interests(); len(interests) > 0 {
		parts = append(parts, "interested in "+strings.Join(interests, ", "))
	}
	if len(profile.SpecialTargets) > 0 {
		parts = append(parts, strings.Join(profile.SpecialTargets, ", "))
	}
	return strings.Join(parts, ", ")
}

// scale10 maps a [0,1] component score to a 0-10 display integer.
func scale10(v float64) int {
	return int(math.Round(clamp01(v) * 10))
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
