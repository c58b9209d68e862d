package ai

// RewriteResult is the structured form of a rewritten search query.
type RewriteResult struct {
	// Intent is a one-sentence restatement of what the user is looking for.
	Intent string

	// Keywords are expansion terms to search alongside the original query.
	Keywords []string

	// Category is an optional policy category hint (e.g. "jobs", "housing").
	// Empty when the model could not infer one.
	Category string
}

// CandidateSummary is the digest of one candidate handed to the
// explanation generator. Ref is the caller's opaque identifier and is
// echoed back in Explanation.
type CandidateSummary struct {
	Ref      uint64
	Title    string
	Summary  string
	Category string
}

// ExplanationRequest carries everything the explanation generator needs
// for one batch of candidates.
type ExplanationRequest struct {
	// Query is the user's search query, empty in profile-only mode.
	Query string

	// ProfileSummary is a one-line digest of the user profile.
	ProfileSummary string

	Candidates []CandidateSummary
}

// Explanation is one generated reason, keyed by the candidate's Ref.
type Explanation struct {
	Ref    uint64
	Reason string
}
