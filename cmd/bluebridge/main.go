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


package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bluebridge/bluebridge"
	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/config"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/indexer"
	"github.com/bluebridge/bluebridge/recommend"
)

func main() {
	app := &cli.App{
		Name:  "bluebridge",
		Usage: "Policy recommendation system for government support programs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Load a policy catalog file and build the vector index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "catalog",
						Usage:    "Path to the policy catalog JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of policies to embed in each batch",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Embedding worker pool size",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every active policy and rebuild the index",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of policies to embed in each batch",
					},
				},
			},
			{
				Name:   "recommend",
				Usage:  "Rank policies for a query or a profile",
				Action: recommendCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search query (omit for profile-only mode)",
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "Province-level region of the requester",
					},
					&cli.IntFlag{
						Name:  "age",
						Usage: "Age of the requester",
					},
					&cli.StringFlag{
						Name:  "gender",
						Usage: "Declared gender (male, female)",
					},
					&cli.StringFlag{
						Name:  "employment",
						Usage: "Employment status",
					},
					&cli.StringFlag{
						Name:  "interests",
						Usage: "Comma-separated interests",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Candidate pool size",
					},
					&cli.StringFlag{
						Name:  "user-key",
						Usage: "Requester key for the recommendation log",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full result as JSON",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig merges the config file with command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, errs := config.Load(c.String("config"))
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	if c.IsSet("db") {
		cfg.DataDir = c.String("db")
	}
	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("pool-size") {
		cfg.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("top-k") {
		cfg.TopK = c.Int("top-k")
	}
	return cfg, nil
}

func openService(cfg *config.Config) (*bluebridge.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.EmbeddingHost),
		ai.WithChatHost(cfg.ChatHost),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
		ai.WithChatModel(cfg.ChatModel),
	)

	opts := []bluebridge.ServiceOption{bluebridge.WithAIConfig(aiConfig)}
	if cfg.InMemory {
		opts = append(opts, bluebridge.WithInMemory())
	}
	return bluebridge.NewService(cfg.DataDir, opts...)
}

func indexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	records, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	svc, err := openService(cfg)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	indexerConfig := indexer.DefaultConfig()
	indexerConfig.BatchSize = cfg.BatchSize

	opts := []indexer.Option{
		indexer.WithConfig(indexerConfig),
		indexer.WithProgress(os.Stderr),
	}
	if cfg.PoolSize > 0 {
		opts = append(opts, indexer.WithPoolSize(cfg.PoolSize))
	}

	pipeline, err := svc.NewIndexer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer pipeline.Release()

	n, err := pipeline.IndexCatalog(c.Context, records...)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d policies into %s\n", n, cfg.DataDir)
	return nil
}

func reindexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	svc, err := openService(cfg)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	indexerConfig := indexer.DefaultConfig()
	indexerConfig.BatchSize = cfg.BatchSize

	pipeline, err := svc.NewIndexer(
		indexer.WithConfig(indexerConfig),
		indexer.WithProgress(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer pipeline.Release()

	n, err := pipeline.Reindex(c.Context)
	if err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Reindexed %d policies\n", n)
	return nil
}

func recommendCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	req, err := buildRequest(c, cfg)
	if err != nil {
		return err
	}

	svc, err := openService(cfg)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	engine, err := svc.NewEngine(
		recommend.WithTopK(cfg.TopK),
		recommend.WithMaxPerBucket(cfg.MaxPerBucket),
		recommend.WithQueryWeights(recommend.Weights{
			Semantic:    cfg.QuerySemanticWeight,
			Intent:      cfg.QueryIntentWeight,
			Eligibility: cfg.QueryEligibilityWeight,
		}),
		recommend.WithProfileWeights(recommend.Weights{
			Semantic:    cfg.ProfileSemanticWeight,
			Intent:      cfg.ProfileIntentWeight,
			Eligibility: cfg.ProfileEligibilityWeight,
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	result, err := engine.Recommend(c.Context, req)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	printResult(result)
	return nil
}

// buildRequest assembles the request from flags. A query selects query mode;
// profile attributes alone select profile mode.
func buildRequest(c *cli.Context, cfg *config.Config) (*recommend.Request, error) {
	var userProfile *core.UserProfile
	if c.IsSet("region") || c.IsSet("age") || c.IsSet("gender") || c.IsSet("employment") || c.IsSet("interests") {
		userProfile = &core.UserProfile{
			Region:           c.String("region"),
			Gender:           c.String("gender"),
			EmploymentStatus: c.String("employment"),
			Interest:         c.String("interests"),
		}
		if c.IsSet("age") {
			age := c.Int("age")
			userProfile.Age = &age
		}
	}

	query := strings.TrimSpace(c.String("query"))
	if query == "" && userProfile == nil {
		return nil, fmt.Errorf("either --query or profile flags are required")
	}

	req := &recommend.Request{
		Query:   query,
		Profile: userProfile,
		TopK:    cfg.TopK,
		UserKey: c.String("user-key"),
	}
	if query != "" {
		req.Mode = recommend.ModeQuery
	} else {
		req.Mode = recommend.ModeProfile
	}
	return req, nil
}

func loadCatalog(path string) ([]*core.PolicyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var records []*core.PolicyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no policies", path)
	}
	return records, nil
}

func printResult(result *recommend.RankedResult) {
	if len(result.Results) == 0 {
		fmt.Println("No matching policies found.")
		for _, q := range result.SuggestedQueries {
			fmt.Printf("  try: %s\n", q)
		}
		return
	}

	fmt.Printf("Top picks for %q:\n\n", result.EchoQuery)
	for i, pick := range result.Top3 {
		fmt.Printf("%d. %s (score %d)\n", i+1, pick.Policy.Title, pick.UXScore)
		fmt.Printf("   %s\n", pick.Reason)
	}

	if len(result.Results) > len(result.Top3) {
		fmt.Printf("\nAlso matched:\n")
		for _, item := range result.Results[len(result.Top3):] {
			fmt.Printf("  %s (score %d)\n", item.Policy.Title, item.Candidate.UXScore)
		}
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
