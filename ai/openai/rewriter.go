// Copyright 2025 BlueBridge Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/bluebridge/bluebridge/ai"
)

// QueryRewriter implements ai.QueryRewriter using OpenAI-compatible chat APIs.
type QueryRewriter struct {
	client llms.Model
	logger *slog.Logger
}

// rewriteResponse matches the JSON structure expected from the LLM.
type rewriteResponse struct {
	Intent   string   `json:"intent"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
}

// newQueryRewriter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryRewriter(config *ai.Config) (*QueryRewriter, error) {
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

	return &QueryRewriter{
		client: client,
		logger: slog.Default().With("component", "openai-rewriter"),
	}, nil
}

// NewQueryRewriter creates a new query rewriter using the provided configuration.
//
// Returns ai.QueryRewriter interface to enforce abstraction.
func NewQueryRewriter(config *ai.Config) (ai.QueryRewriter, error) {
	return newQueryRewriter(config)
}

// RewriteQuery analyzes a query and returns structured search intent.
// Callers fall back to the original query on any error.
func (r *QueryRewriter) RewriteQuery(ctx context.Context, query string) (*ai.RewriteResult, error) {
	query = scrubString(query)

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(rewritePrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(query)},
		},
	}

	response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		r.logger.Warn("query rewrite failed", "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		r.logger.Debug("no choices returned from model")
		return nil, ai.ErrMalformedResponse
	}

	responseText := stripCodeFences(response.Choices[0].Content)
	responseText = repairJSON(responseText)

	var parsed rewriteResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		r.logger.Warn("error parsing rewrite response", "response", responseText, "err", err)
		return nil, ai.ErrMalformedResponse
	}

	keywords := make([]string, 0, len(parsed.Keywords))
	for _, kw := range parsed.Keywords {
		if kw = strings.TrimSpace(strings.ToLower(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	result := &ai.RewriteResult{
		Intent:   strings.TrimSpace(parsed.Intent),
		Keywords: keywords,
		Category: strings.TrimSpace(strings.ToLower(parsed.Category)),
	}

	r.logger.Debug("rewrote query", "keywords", len(result.Keywords), "category", result.Category)
	return result, nil
}
