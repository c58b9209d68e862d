package core

import "strings"

// RestrictedTargetCategory is an enumerated tag for a restricted-target
// attribute found on a policy. Categories are resolved once when the catalog
// snapshot is built, so the request path never scans raw label strings.
type RestrictedTargetCategory int

const (
	TargetDisability RestrictedTargetCategory = iota + 1
	TargetVeteran
	TargetLowIncome
	TargetSingleParent
	TargetMilitary
	TargetMulticultural
	TargetWomenOnly
	TargetMenOnly
)

// String returns the canonical label for the category.
func (c RestrictedTargetCategory) String() string {
	switch c {
	case TargetDisability:
		return "disability"
	case TargetVeteran:
		return "veteran"
	case TargetLowIncome:
		return "low-income"
	case TargetSingleParent:
		return "single-parent"
	case TargetMilitary:
		return "military"
	case TargetMulticultural:
		return "multicultural"
	case TargetWomenOnly:
		return "women-only"
	case TargetMenOnly:
		return "men-only"
	}
	return "unknown"
}

// ForceMatch reports whether the category hard-gates eligibility. Gender
// categories are handled separately by the eligibility filter because they
// match against the profile's gender rather than its special-target labels.
func (c RestrictedTargetCategory) ForceMatch() bool {
	switch c {
	case TargetDisability, TargetVeteran, TargetLowIncome,
		TargetSingleParent, TargetMilitary, TargetMulticultural:
		return true
	}
	return false
}

// Gendered reports whether the category restricts by gender.
func (c RestrictedTargetCategory) Gendered() bool {
	return c == TargetWomenOnly || c == TargetMenOnly
}

// targetKeywords lists, in resolution order, the label substrings that
// identify each category. Matching is case-insensitive on whitespace-
// normalized labels. The female entries precede the male ones because
// "female" and "women" contain "male" and "men" as substrings; a label may
// resolve to at most one gender category.
var targetKeywords = []struct {
	category RestrictedTargetCategory
	keywords []string
}{
	{TargetDisability, []string{"disab"}},
	{TargetVeteran, []string{"veteran", "national merit"}},
	{TargetLowIncome, []string{"low-income", "low income", "basic livelihood"}},
	{TargetSingleParent, []string{"single-parent", "single parent"}},
	{TargetMilitary, []string{"military", "soldier", "enlisted"}},
	{TargetMulticultural, []string{"multicultural"}},
	{TargetWomenOnly, []string{"women", "female"}},
	{TargetMenOnly, []string{"men", "male"}},
}

// ResolveRestrictedTargets maps raw special-target labels to enumerated
// categories. Labels that match no known keyword resolve to nothing; they are
// treated as soft signals by the scorer instead.
func ResolveRestrictedTargets(labels []string) []RestrictedTargetCategory {
	var resolved []RestrictedTargetCategory
	seen := make(map[RestrictedTargetCategory]bool)
	for _, label := range labels {
		normalized := NormalizeLabel(label)
		if normalized == "" {
			continue
		}
		genderMatched := false
		for _, entry := range targetKeywords {
			if entry.category.Gendered() && genderMatched {
				continue
			}
			matched := false
			for _, kw := range entry.keywords {
				if strings.Contains(normalized, kw) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if entry.category.Gendered() {
				genderMatched = true
			}
			if !seen[entry.category] {
				resolved = append(resolved, entry.category)
				seen[entry.category] = true
			}
		}
	}
	return resolved
}

// NormalizeLabel lowercases a label and collapses surrounding whitespace so
// label comparisons are insensitive to formatting differences between sources.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// splitAndTrim splits s on sep and trims whitespace from every part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
