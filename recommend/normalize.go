package recommend

import "strings"

// Stop words filtered from queries before keyword matching. Domain fillers
// like "policy" and "support" appear in nearly every query and carry no
// search signal.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "i": true, "im": true, "me": true, "my": true,
	"any": true, "anything": true, "please": true, "there": true, "can": true,
	"policy": true, "policies": true, "support": true, "program": true,
	"programs": true, "benefit": true, "benefits": true,
}

// categoryOrder fixes the iteration order over categorySynonyms.
var categoryOrder = []string{"jobs", "housing", "education", "welfare", "culture", "participation"}

// categorySynonyms maps each policy category to the query terms that imply
// it. Used both to expand keywords and to infer category hints from tokens.
var categorySynonyms = map[string][]string{
	"jobs":          {"job", "jobs", "employment", "work", "career", "hiring", "startup", "jobless", "unemployed"},
	"housing":       {"housing", "house", "rent", "lease", "deposit", "residence", "apartment"},
	"education":     {"education", "training", "tuition", "scholarship", "course", "study"},
	"welfare":       {"welfare", "livelihood", "health", "medical", "allowance"},
	"culture":       {"culture", "arts", "leisure", "sports"},
	"participation": {"participation", "civic", "rights", "volunteering"},
}

// NormalizedQuery is the outcome of query normalization.
type NormalizedQuery struct {
	// Original is the query as received, trimmed.
	Original string

	// Cleaned is the query with punctuation mapped to spaces and
	// whitespace collapsed. Used as the embedding text.
	Cleaned string

	// Keywords are the filtered, synonym-expanded, deduplicated tokens.
	Keywords []string

	// Categories are the category hints inferred from the tokens.
	Categories []string
}

// NormalizeQuery cleans a raw query and derives keywords and category hints.
func NormalizeQuery(query string) NormalizedQuery {
	original := strings.TrimSpace(query)

	// Punctuation becomes a separator rather than vanishing, so "jobs/housing"
	// splits into two tokens.
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(".,!?;:\"'()[]{}/\\|&+", r) {
			return ' '
		}
		return r
	}, original)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(cleaned)) {
		if !stopWords[word] {
			tokens = append(tokens, word)
		}
	}

	return NormalizedQuery{
		Original:   original,
		Cleaned:    cleaned,
		Keywords:   ExpandKeywords(tokens),
		Categories: inferCategories(tokens),
	}
}

// ExpandKeywords appends category synonyms for any token that implies a
// category, preserving first-seen order and dropping duplicates.
func ExpandKeywords(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	add := func(word string) {
		if word != "" && !seen[word] {
			seen[word] = true
			out = append(out, word)
		}
	}

	for _, token := range tokens {
		add(token)
		for _, category := range inferCategories([]string{token}) {
			for _, syn := range categorySynonyms[category] {
				add(syn)
			}
		}
	}
	return out
}

// inferCategories returns the categories implied by the tokens, in
// first-seen order.
func inferCategories(tokens []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, token := range tokens {
		for _, category := range categoryOrder {
			if seen[category] {
				continue
			}
			for _, syn := range categorySynonyms[category] {
				if token == syn {
					seen[category] = true
					out = append(out, category)
					break
				}
			}
		}
	}
	return out
}
