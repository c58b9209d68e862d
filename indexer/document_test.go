package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluebridge/bluebridge/core"
)

func TestBuildEmbeddingText_MetadataBlock(t *testing.T) {
	record := &core.PolicyRecord{
		Title:          "Youth Rent Deposit Loan",
		Summary:        "Deposit loans for young renters",
		Category:       "Housing",
		Keywords:       []string{"Rent", "Deposit"},
		SpecialTargets: []string{"Low-income"},
		RegionScope:    core.RegionScopeLocal,
		RegionSido:     "Seoul",
	}

	text := BuildEmbeddingText(record)

	lines := strings.Split(text, "\n")
	assert.Equal(t, "category: housing | region: seoul | keywords: rent, deposit | targets: low-income", lines[0])
	assert.Equal(t, "Youth Rent Deposit Loan", lines[1])
	assert.Equal(t, "Deposit loans for young renters", lines[2])
}

func TestBuildEmbeddingText_NationwideRegion(t *testing.T) {
	record := &core.PolicyRecord{
		Title:       "National Job Allowance",
		RegionScope: core.RegionScopeNationwide,
	}

	text := BuildEmbeddingText(record)
	assert.Contains(t, text, "region: nationwide")
}

func TestBuildEmbeddingText_NoMetadata(t *testing.T) {
	record := &core.PolicyRecord{Title: "Bare Policy"}

	text := BuildEmbeddingText(record)
	assert.Equal(t, "Bare Policy", text)
}

func TestBuildEmbeddingText_PrefersSearchSummary(t *testing.T) {
	record := &core.PolicyRecord{
		Title:         "Policy",
		Summary:       "Long full summary",
		SearchSummary: "Condensed summary",
	}

	text := BuildEmbeddingText(record)
	assert.Contains(t, text, "Condensed summary")
	assert.NotContains(t, text, "Long full summary")
}

func TestBuildEmbeddingText_CapsLength(t *testing.T) {
	record := &core.PolicyRecord{
		Title:   "Policy",
		Summary: strings.Repeat("word ", 1000),
	}

	text := BuildEmbeddingText(record)
	assert.LessOrEqual(t, len([]rune(text)), maxEmbeddingTextLength)
}
