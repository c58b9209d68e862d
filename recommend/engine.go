package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/storage"
)

const (
	// defaultTopK is the candidate pool size before gating and reranking.
	defaultTopK = 30

	// chatCallTimeout bounds the rewriter and explainer calls.
	chatCallTimeout = 30 * time.Second
)

// defaultSuggestedQueries are example searches offered alongside query-mode
// results.
var defaultSuggestedQueries = []string{
	"housing deposit support for young renters",
	"allowance for job seekers",
	"startup funding for first-time founders",
	"tuition and training assistance",
}

// Engine runs the recommendation pipeline: normalize, retrieve, gate,
// score, rerank, normalize display scores, and explain.
type Engine struct {
	retriever *Retriever
	rewriter  ai.QueryRewriter
	explainer ai.ExplanationGenerator
	recLog    storage.RecommendationLogRepository

	topK           int
	maxPerBucket   int
	queryWeights   Weights
	profileWeights Weights
	suggested      []string
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithTopK sets the default candidate pool size.
func WithTopK(topK int) Option {
	return func(e *Engine) error {
		if topK <= 0 {
			return fmt.Errorf("%w: topK must be positive", ErrInvalidRequest)
		}
		e.topK = topK
		return nil
	}
}

// WithMaxPerBucket sets the diversity cap per category.
func WithMaxPerBucket(n int) Option {
	return func(e *Engine) error {
		e.maxPerBucket = n
		return nil
	}
}

// WithQueryWeights overrides the query-mode scoring weights.
func WithQueryWeights(w Weights) Option {
	return func(e *Engine) error {
		e.queryWeights = w
		return nil
	}
}

// WithProfileWeights overrides the profile-mode scoring weights.
func WithProfileWeights(w Weights) Option {
	return func(e *Engine) error {
		e.profileWeights = w
		return nil
	}
}

// WithRecommendationLog enables best-effort outcome logging.
func WithRecommendationLog(repo storage.RecommendationLogRepository) Option {
	return func(e *Engine) error {
		e.recLog = repo
		return nil
	}
}

// WithSuggestedQueries overrides the example queries shown in query mode.
func WithSuggestedQueries(queries []string) Option {
	return func(e *Engine) error {
		e.suggested = queries
		return nil
	}
}

// NewEngine creates a recommendation engine over the given catalog, index,
// and AI provider.
func NewEngine(policies storage.PolicyRepository, index storage.VectorIndex, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	retriever, err := NewRetriever(policies, index, provider.Embedder())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		retriever:      retriever,
		rewriter:       provider.QueryRewriter(),
		explainer:      provider.ExplanationGenerator(),
		topK:           defaultTopK,
		maxPerBucket:   defaultMaxPerBucket,
		queryWeights:   QueryModeWeights,
		profileWeights: ProfileModeWeights,
		suggested:      defaultSuggestedQueries,
		logger:         slog.Default().With("component", "recommend-engine"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Reload refreshes the engine's catalog snapshot. Call after the catalog or
// index has been rebuilt.
func (e *Engine) Reload(ctx context.Context) error {
	return e.retriever.Reload(ctx)
}

// Recommend ranks policies for the request.
// Returns ErrInvalidRequest for unservable requests; every other internal
// failure degrades to an empty result.
func (e *Engine) Recommend(ctx context.Context, req *Request) (*RankedResult, error) {
	return e.RecommendWithMonitor(ctx, req, nil)
}

// RecommendWithMonitor ranks policies for the request with monitoring.
// The monitor receives callbacks at each stage of the pipeline.
func (e *Engine) RecommendWithMonitor(ctx context.Context, req *Request, monitor PipelineMonitor) (*RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	monitor.Start(req.Mode, req.Query)

	topK := req.TopK
	if topK <= 0 {
		topK = e.topK
	}

	searchText, keywords, categories, weights := e.prepare(ctx, req)
	monitor.AfterNormalize(searchText, keywords)

	result := &RankedResult{EchoQuery: searchText}
	if req.Mode == ModeQuery {
		result.SuggestedQueries = e.suggested
	}

	region := ""
	if req.Profile != nil {
		region = req.Profile.Region
	}

	candidates, records, tier, err := e.retriever.Retrieve(ctx, searchText, region, keywords, topK)
	if err != nil {
		// Internal retrieval failures degrade to an empty result.
		e.logger.Error("retrieval failed", "tier", tier, "err", err)
		monitor.Finish(result)
		return result, nil
	}
	monitor.AfterRetrieval(tier, candidateIDs(candidates))

	kept := make([]*core.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		record := records[c.PolicyId]
		if record == nil {
			continue
		}
		// Profile mode gates on age and region relationally; query mode
		// keeps them as score penalties.
		if req.Mode == ModeProfile && !MatchesProfileBounds(record, req.Profile) {
			continue
		}
		pass, required, match := CheckEligibility(record, req.Profile)
		c.TargetRequired = required
		c.TargetMatch = match
		if pass {
			kept = append(kept, c)
		}
	}
	monitor.AfterEligibilityGate(len(kept), len(candidates)-len(kept))

	ScoreCandidates(kept, records, req.Profile, keywords, categories, weights)
	monitor.AfterScoring(candidateIDs(kept))

	reranked := DiversityRerank(kept, records, e.maxPerBucket)
	monitor.AfterRerank(candidateIDs(reranked))

	NormalizeUXScores(reranked)

	explainCtx, cancel := context.WithTimeout(ctx, chatCallTimeout)
	result.Top3 = BuildTopPicks(explainCtx, e.explainer, reranked, records, req.Profile, req.Query, categories)
	cancel()

	result.Results = make([]RankedItem, 0, len(reranked))
	result.Distances = make([]*float64, 0, len(reranked))
	for _, c := range reranked {
		result.Results = append(result.Results, RankedItem{
			Policy:    records[c.PolicyId],
			Candidate: *c,
		})
		result.Distances = append(result.Distances, c.Distance)
	}

	e.logOutcome(ctx, req, result)
	monitor.Finish(result)

	return result, nil
}

// prepare builds the search text, keywords, category hints, and weights for
// the request's mode.
func (e *Engine) prepare(ctx context.Context, req *Request) (string, []string, []string, Weights) {
	if req.Mode == ModeProfile {
		sentence := ProfileSummary(req.Profile)
		tokens := profileTokens(req.Profile)
		return sentence, ExpandKeywords(tokens), inferCategories(tokens), e.profileWeights
	}

	normalized := NormalizeQuery(req.Query)
	searchText := normalized.Cleaned
	keywords := normalized.Keywords
	categories := normalized.Categories

	// The rewrite is advisory: failures keep the normalized query.
	if e.rewriter != nil {
		rewriteCtx, cancel := context.WithTimeout(ctx, chatCallTimeout)
		rewritten, err := e.rewriter.RewriteQuery(rewriteCtx, normalized.Cleaned)
		cancel()
		if err != nil {
			e.logger.Warn("query rewrite failed, using normalized query", "err", err)
		} else if rewritten != nil {
			if rewritten.Intent != "" {
				searchText = rewritten.Intent
			}
			keywords = mergeKeywords(keywords, rewritten.Keywords)
			if rewritten.Category != "" && !slices.Contains(categories, rewritten.Category) {
				categories = append(categories, rewritten.Category)
			}
		}
	}

	return searchText, keywords, categories, e.queryWeights
}

// logOutcome appends the result to the recommendation log. Best-effort:
// failures are logged and dropped.
func (e *Engine) logOutcome(ctx context.Context, req *Request, result *RankedResult) {
	if e.recLog == nil || req.UserKey == "" {
		return
	}

	entry := &storage.RecommendationLogEntry{
		UserKey:   req.UserKey,
		Query:     req.Query,
		PolicyIds: make([]core.ID, 0, len(result.Results)),
		UXScores:  make(map[core.ID]int, len(result.Results)),
	}
	if req.Profile != nil {
		entry.Profile = *req.Profile
	}
	for _, item := range result.Results {
		entry.PolicyIds = append(entry.PolicyIds, item.Candidate.PolicyId)
		entry.UXScores[item.Candidate.PolicyId] = item.Candidate.UXScore
	}

	if err := e.recLog.Append(ctx, entry); err != nil {
		e.logger.Warn("recommendation log write failed", "err", err)
	}
}

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	switch req.Mode {
	case ModeQuery:
		if strings.TrimSpace(req.Query) == "" {
			return fmt.Errorf("%w: blank query", ErrInvalidRequest)
		}
	case ModeProfile:
		if req.Profile == nil {
			return fmt.Errorf("%w: profile mode requires a profile", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, string(req.Mode))
	}

	if req.Profile != nil {
		if err := core.ValidateProfile(req.Profile); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	return nil
}

// profileTokens lowercases the profile's interest terms for keyword work.
func profileTokens(profile *core.UserProfile) []string {
	if profile == nil {
		return nil
	}
	var tokens []string
	for _, interest := range profile.Interests() {
		tokens = append(tokens, strings.Fields(strings.ToLower(interest))...)
	}
	return tokens
}

func mergeKeywords(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, kw := range base {
		seen[kw] = true
	}
	for _, kw := range extra {
		if kw != "" && !seen[kw] {
			seen[kw] = true
			base = append(base, kw)
		}
	}
	return base
}

func candidateIDs(candidates []*core.RankedCandidate) []core.ID {
	ids := make([]core.ID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.PolicyId)
	}
	return ids
}
