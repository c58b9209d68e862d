package indexer

import (
	"strings"

	"github.com/bluebridge/bluebridge/core"
)

// maxEmbeddingTextLength caps the text sent to the embedder. Long policy
// summaries past this point add noise rather than signal.
const maxEmbeddingTextLength = 1500

// BuildEmbeddingText renders the text a policy is embedded under. A compact
// metadata block leads so that category, region, keyword, and target terms
// weigh into the vector alongside the prose.
func BuildEmbeddingText(record *core.PolicyRecord) string {
	var b strings.Builder

	var meta []string
	if record.Category != "" {
		meta = append(meta, "category: "+strings.ToLower(record.Category))
	}
	if region := regionLabel(record); region != "" {
		meta = append(meta, "region: "+region)
	}
	if len(record.Keywords) > 0 {
		meta = append(meta, "keywords: "+strings.ToLower(strings.Join(record.Keywords, ", ")))
	}
	if len(record.SpecialTargets) > 0 {
		meta = append(meta, "targets: "+strings.ToLower(strings.Join(record.SpecialTargets, ", ")))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " | "))
		b.WriteString("\n")
	}

	b.WriteString(record.Title)
	if text := record.SearchText(); text != "" {
		b.WriteString("\n")
		b.WriteString(text)
	}

	return truncateRunes(b.String(), maxEmbeddingTextLength)
}

func regionLabel(record *core.PolicyRecord) string {
	if record.RegionScope == core.RegionScopeNationwide {
		return "nationwide"
	}
	if record.RegionSido != "" {
		return strings.ToLower(record.RegionSido)
	}
	if len(record.ApplicableRegions) > 0 {
		return strings.ToLower(strings.Join(record.ApplicableRegions, ", "))
	}
	return ""
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
