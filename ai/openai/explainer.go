package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/bluebridge/bluebridge/ai"
)

// ExplanationGenerator implements ai.ExplanationGenerator using
// OpenAI-compatible chat APIs.
type ExplanationGenerator struct {
	client          llms.Model
	maxReasonLength int
	logger          *slog.Logger
}

// explanationItem matches one element of the JSON array expected from the LLM.
type explanationItem struct {
	Ref    uint64 `json:"ref"`
	Reason string `json:"reason"`
}

// explanationResponse is the wrapper structure for the LLM's JSON response.
type explanationResponse struct {
	Explanations []explanationItem `json:"explanations"`
}

// newExplanationGenerator is an internal constructor that returns the
// concrete type. Used by Provider to manage the instance.
func newExplanationGenerator(config *ai.Config) (*ExplanationGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &ExplanationGenerator{
		client:          client,
		maxReasonLength: config.MaxReasonLength,
		logger:          slog.Default().With("component", "openai-explainer"),
	}, nil
}

// NewExplanationGenerator creates a new explanation generator using the
// provided configuration.
//
// Returns ai.ExplanationGenerator interface to enforce abstraction.
func NewExplanationGenerator(config *ai.Config) (ai.ExplanationGenerator, error) {
	return newExplanationGenerator(config)
}

// GenerateExplanations returns one reason per requested candidate. Candidates
// the model skips or mislabels are simply absent from the result; the caller
// backfills them.
func (g *ExplanationGenerator) GenerateExplanations(ctx context.Context, req *ai.ExplanationRequest) ([]ai.Explanation, error) {
	if req == nil || len(req.Candidates) == 0 {
		return nil, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(explanationPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildExplanationInput(req))},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		g.logger.Warn("explanation generation failed", "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, ai.ErrMalformedResponse
	}

	responseText := stripCodeFences(response.Choices[0].Content)
	responseText = repairJSON(responseText)

	var parsed explanationResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		g.logger.Warn("error parsing explanation response", "response", responseText, "err", err)
		return nil, ai.ErrMalformedResponse
	}

	valid := make(map[uint64]bool, len(req.Candidates))
	for _, c := range req.Candidates {
		valid[c.Ref] = true
	}

	results := make([]ai.Explanation, 0, len(parsed.Explanations))
	for _, item := range parsed.Explanations {
		reason := strings.TrimSpace(item.Reason)
		if reason == "" || !valid[item.Ref] {
			continue
		}
		if runes := []rune(reason); len(runes) > g.maxReasonLength {
			reason = string(runes[:g.maxReasonLength])
		}
		results = append(results, ai.Explanation{Ref: item.Ref, Reason: reason})
	}

	g.logger.Debug("generated explanations", "requested", len(req.Candidates), "returned", len(results))
	return results, nil
}

// buildExplanationInput renders the user message handed to the model.
func buildExplanationInput(req *ai.ExplanationRequest) string {
	var b strings.Builder
	if req.Query != "" {
		fmt.Fprintf(&b, "Query: %s\n", req.Query)
	}
	if req.ProfileSummary != "" {
		fmt.Fprintf(&b, "User: %s\n", req.ProfileSummary)
	}
	b.WriteString("Candidates:\n")
	for _, c := range req.Candidates {
		fmt.Fprintf(&b, "- ref=%d | %s | %s | %s\n", c.Ref, c.Title, c.Category, c.Summary)
	}
	return b.String()
}
