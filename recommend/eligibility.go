package recommend

import (
	"slices"

	"github.com/bluebridge/bluebridge/core"
)

// CheckEligibility applies the hard gate for restricted-target policies.
//
// A policy restricted to force-match categories (disability, veteran,
// low-income, single-parent, military, multicultural) passes when the
// profile carries at least one of them. Gender-restricted policies require
// a matching declared gender; a missing gender fails. Policies without
// restricted targets always pass.
//
// Returns (pass, targetRequired, targetMatch). targetRequired reports
// whether the policy carried any restriction; targetMatch whether the
// profile satisfied the gate.
func CheckEligibility(record *core.PolicyRecord, profile *core.UserProfile) (pass, targetRequired, targetMatch bool) {
	if len(record.RestrictedTargets) == 0 {
		return true, false, false
	}

	profileTargets := make(map[core.RestrictedTargetCategory]bool)
	gender := ""
	if profile != nil {
		for _, c := range core.ResolveRestrictedTargets(profile.SpecialTargets) {
			profileTargets[c] = true
		}
		gender = core.NormalizeLabel(profile.Gender)
	}

	forceMatch := false
	overlap := false
	for _, category := range record.RestrictedTargets {
		switch {
		case category.ForceMatch():
			forceMatch = true
			if profileTargets[category] {
				overlap = true
			}
		case category == core.TargetWomenOnly:
			if gender != "female" {
				return false, true, false
			}
		case category == core.TargetMenOnly:
			if gender != "male" {
				return false, true, false
			}
		}
	}
	if forceMatch && !overlap {
		return false, true, false
	}

	return true, true, true
}

// MatchesProfileBounds reports whether the record satisfies the relational
// constraints applied as hard filters in profile mode: a declared age must
// fall inside the policy's age bounds, and a local policy must cover the
// profile's region. Unset attributes on either side never exclude.
func MatchesProfileBounds(record *core.PolicyRecord, profile *core.UserProfile) bool {
	if profile == nil {
		return true
	}

	if profile.Age != nil {
		age := *profile.Age
		if record.MinAge != nil && age < *record.MinAge {
			return false
		}
		if record.MaxAge != nil && age > *record.MaxAge {
			return false
		}
	}

	if profile.Region != "" && record.RegionScope == core.RegionScopeLocal {
		if record.RegionSido != profile.Region && !slices.Contains(record.ApplicableRegions, profile.Region) {
			return false
		}
	}

	return true
}
