package core

import (
	"reflect"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "R2024-001",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "A much longer upstream source code that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("R2024-001")
	id2 := IDFromContent("R2024-002")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPolicyRecord_SearchText(t *testing.T) {
	tests := []struct {
		name   string
		record PolicyRecord
		want   string
	}{
		{
			name: "prefers search summary",
			record: PolicyRecord{
				Summary:       "full summary",
				SearchSummary: "condensed summary",
			},
			want: "condensed summary",
		},
		{
			name: "falls back to summary",
			record: PolicyRecord{
				Summary: "full summary",
			},
			want: "full summary",
		},
		{
			name:   "both empty",
			record: PolicyRecord{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.SearchText(); got != tt.want {
				t.Errorf("SearchText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserProfile_Interests(t *testing.T) {
	tests := []struct {
		name    string
		profile *UserProfile
		want    []string
	}{
		{
			name:    "comma separated",
			profile: &UserProfile{Interest: "jobs, housing,education"},
			want:    []string{"jobs", "housing", "education"},
		},
		{
			name:    "single interest",
			profile: &UserProfile{Interest: "jobs"},
			want:    []string{"jobs"},
		},
		{
			name:    "empty interest",
			profile: &UserProfile{},
			want:    nil,
		},
		{
			name:    "nil profile",
			profile: nil,
			want:    nil,
		},
		{
			name:    "trailing comma and blanks",
			profile: &UserProfile{Interest: "jobs, ,housing,"},
			want:    []string{"jobs", "housing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Interests(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Interests() = %v, want %v", got, tt.want)
			}
		})
	}
}
