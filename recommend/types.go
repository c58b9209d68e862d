package recommend

import "github.com/bluebridge/bluebridge/core"

// Mode selects how a recommendation request is interpreted.
type Mode string

const (
	// ModeQuery ranks policies against a user-typed search query.
	ModeQuery Mode = "query"
	// ModeProfile ranks policies against stored profile attributes alone.
	ModeProfile Mode = "profile"
)

// Request is one recommendation request. Query mode requires a non-blank
// Query; profile mode requires a Profile. A profile may accompany a query
// request, where it drives eligibility and region filtering.
type Request struct {
	Mode    Mode
	Query   string
	Profile *core.UserProfile

	// TopK caps the candidate pool. Zero means the engine default.
	TopK int

	// UserKey identifies the requester in the recommendation log.
	// Empty disables logging for this request.
	UserKey string
}

// Weights are the hybrid score mixing weights for one mode.
type Weights struct {
	Semantic    float64
	Intent      float64
	Eligibility float64
}

// QueryModeWeights favors semantic similarity to the typed query.
var QueryModeWeights = Weights{Semantic: 0.5, Intent: 0.3, Eligibility: 0.2}

// ProfileModeWeights favors eligibility fit when there is no query.
var ProfileModeWeights = Weights{Semantic: 0.1, Intent: 0.2, Eligibility: 0.7}

// RankedItem is one ranked policy with its request-scoped scores.
type RankedItem struct {
	Policy    *core.PolicyRecord
	Candidate core.RankedCandidate
}

// Subscores are display-scaled component scores for a top pick, each 0-10.
type Subscores struct {
	Semantic    int
	Intent      int
	Eligibility int
}

// TopPick is one of the leading recommendations, carrying its explanation.
type TopPick struct {
	Policy    *core.PolicyRecord
	Reason    string
	UXScore   int
	Subscores Subscores
}

// RankedResult is the outcome of one recommendation request. An empty
// Results slice is a valid outcome.
type RankedResult struct {
	Results []RankedItem

	// Distances mirrors Results. Fallback-retrieved candidates carry nil
	// because no vector distance was measured for them.
	Distances []*float64

	// Top3 holds up to three leading picks with explanations.
	Top3 []TopPick

	// EchoQuery is the text the ranking actually ran against: the
	// normalized query, or the synthesized profile sentence.
	EchoQuery string

	// SuggestedQueries offers example searches in query mode.
	SuggestedQueries []string
}
