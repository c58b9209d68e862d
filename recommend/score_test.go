package recommend

import (
	"math"
	"testing"

	"github.com/bluebridge/bluebridge/core"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSemanticScore(t *testing.T) {
	tests := []struct {
		name     string
		distance *float64
		want     float64
	}{
		{"nil distance is neutral", nil, 1.0},
		{"zero distance", floatPtr(0), 1.0},
		{"half distance", floatPtr(0.5), 0.5},
		{"full distance", floatPtr(1), 0.0},
		{"distance beyond one clamps", floatPtr(1.7), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SemanticScore(tt.distance); !almostEqual(got, tt.want) {
				t.Errorf("SemanticScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntentScore(t *testing.T) {
	record := &core.PolicyRecord{
		Title:    "Youth Rent Deposit Loan",
		Summary:  "Deposit loan for young renters",
		Category: "Housing",
		Keywords: []string{"rent", "deposit", "loan"},
	}

	tests := []struct {
		name       string
		keywords   []string
		categories []string
		want       float64
	}{
		{"no signal", nil, nil, 0.0},
		{"category only", nil, []string{"housing"}, 0.6},
		{"two keywords", []string{"rent", "deposit"}, nil, 0.2},
		{"category and keywords", []string{"rent", "deposit"}, []string{"housing"}, 0.8},
		{
			"keyword contribution caps at 0.4",
			[]string{"rent", "deposit", "loan", "youth", "young", "renters"},
			nil,
			0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntentScore(record, tt.keywords, tt.categories); !almostEqual(got, tt.want) {
				t.Errorf("IntentScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligibilityScorePenalties(t *testing.T) {
	seoulRecord := &core.PolicyRecord{
		RegionScope: core.RegionScopeLocal,
		RegionSido:  "Seoul",
		MinAge:      intPtr(19),
		MaxAge:      intPtr(34),
		Employment:  []string{"Unemployed"},
	}

	tests := []struct {
		name    string
		profile *core.UserProfile
		want    float64
	}{
		{"nil profile scores full", nil, 1.0},
		{
			"perfect fit",
			&core.UserProfile{Region: "Seoul", Age: intPtr(25), EmploymentStatus: "unemployed"},
			1.0,
		},
		{
			"wrong region",
			&core.UserProfile{Region: "Busan", Age: intPtr(25), EmploymentStatus: "unemployed"},
			0.7,
		},
		{
			"too old",
			&core.UserProfile{Region: "Seoul", Age: intPtr(40), EmploymentStatus: "unemployed"},
			0.7,
		},
		{
			"wrong employment",
			&core.UserProfile{Region: "Seoul", Age: intPtr(25), EmploymentStatus: "employed"},
			0.8,
		},
		{
			"everything wrong",
			&core.UserProfile{Region: "Busan", Age: intPtr(40), EmploymentStatus: "employed"},
			0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EligibilityScore(seoulRecord, tt.profile); !almostEqual(got, tt.want) {
				t.Errorf("EligibilityScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligibilityScoreApplicableRegions(t *testing.T) {
	record := &core.PolicyRecord{
		RegionScope:       core.RegionScopeLocal,
		RegionSido:        "Gyeonggi",
		ApplicableRegions: []string{"Seoul", "Incheon"},
	}
	profile := &core.UserProfile{Region: "Seoul"}

	if got := EligibilityScore(record, profile); !almostEqual(got, 1.0) {
		t.Errorf("EligibilityScore = %v, want 1.0 for listed applicable region", got)
	}
}

func TestEligibilityScoreSoftTarget(t *testing.T) {
	record := &core.PolicyRecord{
		SpecialTargets: []string{"rural youth"},
	}

	missing := &core.UserProfile{}
	if got := EligibilityScore(record, missing); !almostEqual(got, 0.9) {
		t.Errorf("unmatched soft target: score = %v, want 0.9", got)
	}

	holder := &core.UserProfile{SpecialTargets: []string{"rural youth"}}
	if got := EligibilityScore(record, holder); !almostEqual(got, 1.0) {
		t.Errorf("matched soft target: score = %v, want 1.0", got)
	}
}

func TestEligibilityScoreClampsAtZero(t *testing.T) {
	record := &core.PolicyRecord{
		RegionScope:    core.RegionScopeLocal,
		RegionSido:     "Seoul",
		MinAge:         intPtr(19),
		MaxAge:         intPtr(24),
		Employment:     []string{"Student"},
		Major:          []string{"Engineering"},
		SpecialTargets: []string{"rural youth"},
	}
	profile := &core.UserProfile{
		Region:           "Busan",
		Age:              intPtr(50),
		EmploymentStatus: "employed",
		Major:            "Arts",
	}

	if got := EligibilityScore(record, profile); got < 0 || !almostEqual(got, 0.0) {
		t.Errorf("EligibilityScore = %v, want clamp to 0", got)
	}
}

func TestScoreCandidatesSortsAndBreaksTies(t *testing.T) {
	records := map[core.ID]*core.PolicyRecord{
		1: {Id: 1, Title: "Alpha"},
		2: {Id: 2, Title: "Beta"},
		3: {Id: 3, Title: "Gamma"},
	}
	candidates := []*core.RankedCandidate{
		{PolicyId: 3, Distance: floatPtr(0.2)},
		{PolicyId: 1, Distance: floatPtr(0.2)},
		{PolicyId: 2, Distance: floatPtr(0.1)},
	}

	ScoreCandidates(candidates, records, nil, nil, nil, QueryModeWeights)

	gotOrder := []core.ID{candidates[0].PolicyId, candidates[1].PolicyId, candidates[2].PolicyId}
	wantOrder := []core.ID{2, 1, 3}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestScoreCandidatesHybridMix(t *testing.T) {
	records := map[core.ID]*core.PolicyRecord{
		1: {Id: 1, Title: "Rent Help", Category: "Housing"},
	}
	candidates := []*core.RankedCandidate{
		{PolicyId: 1, Distance: floatPtr(0.4)},
	}

	ScoreCandidates(candidates, records, nil, []string{"rent"}, []string{"housing"}, QueryModeWeights)

	c := candidates[0]
	if !almostEqual(c.SemanticScore, 0.6) {
		t.Errorf("SemanticScore = %v, want 0.6", c.SemanticScore)
	}
	if !almostEqual(c.IntentScore, 0.7) {
		t.Errorf("IntentScore = %v, want 0.7", c.IntentScore)
	}
	if !almostEqual(c.EligibilityScore, 1.0) {
		t.Errorf("EligibilityScore = %v, want 1.0", c.EligibilityScore)
	}
	want := 0.5*0.6 + 0.3*0.7 + 0.2*1.0
	if !almostEqual(c.HybridScore, want) {
		t.Errorf("HybridScore = %v, want %v", c.HybridScore, want)
	}
}
