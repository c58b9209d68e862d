package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/bluebridge/bluebridge"
	"github.com/bluebridge/bluebridge/ai"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/indexer"
)

func intPtr(v int) *int { return &v }

// sampleCatalog is a small demonstration catalog covering every category
// and the common eligibility shapes.
var sampleCatalog = []*core.PolicyRecord{
	{
		SourceCode:  "R2024-JOB-0001",
		Title:       "Youth Job Seeker Allowance",
		Summary:     "Monthly allowance of 500,000 won for up to six months for young people actively looking for work.",
		Category:    "Jobs",
		Keywords:    []string{"allowance", "job seeking", "youth"},
		Provider:    "Ministry of Employment and Labor",
		RegionScope: core.RegionScopeNationwide,
		MinAge:      intPtr(18),
		MaxAge:      intPtr(34),
		Employment:  []string{"Unemployed"},
		Status:      core.PolicyStatusActive,
	},
	{
		SourceCode:  "R2024-JOB-0002",
		Title:       "Seoul Startup Launchpad",
		Summary:     "Seed funding and mentoring for first-time founders based in Seoul.",
		Category:    "Jobs",
		Keywords:    []string{"startup", "founders", "funding"},
		Provider:    "Seoul Metropolitan Government",
		RegionScope: core.RegionScopeLocal,
		RegionSido:  "Seoul",
		MinAge:      intPtr(19),
		MaxAge:      intPtr(39),
		Status:      core.PolicyStatusActive,
	},
	{
		SourceCode:  "R2024-HOU-0001",
		Title:       "Youth Rent Deposit Loan",
		Summary:     "Low-interest loans covering rental deposits for young tenants signing their first lease.",
		Category:    "Housing",
		Keywords:    []string{"rent", "deposit", "loan"},
		Provider:    "Ministry of Land, Infrastructure and Transport",
		RegionScope: core.RegionScopeNationwide,
		MinAge:      intPtr(19),
		MaxAge:      intPtr(34),
		Status:      core.PolicyStatusActive,
	},
	{
		SourceCode:     "R2024-HOU-0002",
		Title:          "Single-Parent Housing Priority",
		Summary:        "Priority placement in public rental housing for single-parent households.",
		Category:       "Housing",
		Keywords:       []string{"public housing", "rental"},
		Provider:       "Korea Land and Housing Corporation",
		RegionScope:    core.RegionScopeNationwide,
		SpecialTargets: []string{"Single parent"},
		Status:         core.PolicyStatusActive,
	},
	{
		SourceCode:  "R2024-EDU-0001",
		Title:       "National Tuition Support",
		Summary:     "Tuition grants for university students from lower income brackets.",
		Category:    "Education",
		Keywords:    []string{"tuition", "scholarship", "university"},
		Provider:    "Korea Student Aid Foundation",
		RegionScope: core.RegionScopeNationwide,
		Employment:  []string{"Student"},
		Status:      core.PolicyStatusActive,
	},
	{
		SourceCode:     "R2024-WEL-0001",
		Title:          "Disability Mobility Support",
		Summary:        "Transportation vouchers and vehicle modification subsidies for people with disabilities.",
		Category:       "Welfare",
		Keywords:       []string{"mobility", "transportation", "voucher"},
		Provider:       "Ministry of Health and Welfare",
		RegionScope:    core.RegionScopeNationwide,
		SpecialTargets: []string{"Disability"},
		Status:         core.PolicyStatusActive,
	},
	{
		SourceCode:     "R2024-JOB-0003",
		Title:          "Women Career Comeback Program",
		Summary:        "Reemployment training and placement for women returning to work after a career break.",
		Category:       "Jobs",
		Keywords:       []string{"reemployment", "training", "career break"},
		Provider:       "Ministry of Gender Equality and Family",
		RegionScope:    core.RegionScopeNationwide,
		SpecialTargets: []string{"Women only"},
		Status:         core.PolicyStatusActive,
	},
	{
		SourceCode:  "R2024-CUL-0001",
		Title:       "Youth Culture Pass",
		Summary:     "Annual credit for performances, exhibitions, and sports events for young residents.",
		Category:    "Culture",
		Keywords:    []string{"culture", "arts", "sports"},
		Provider:    "Ministry of Culture, Sports and Tourism",
		RegionScope: core.RegionScopeNationwide,
		MinAge:      intPtr(18),
		MaxAge:      intPtr(24),
		Status:      core.PolicyStatusActive,
	},
	{
		SourceCode:  "R2024-PAR-0001",
		Title:       "Youth Policy Participation Panel",
		Summary:     "Paid panel seats for young citizens shaping municipal youth policy.",
		Category:    "Participation",
		Keywords:    []string{"civic", "panel", "participation"},
		Provider:    "Busan Metropolitan City",
		RegionScope: core.RegionScopeLocal,
		RegionSido:  "Busan",
		MinAge:      intPtr(19),
		MaxAge:      intPtr(34),
		Status:      core.PolicyStatusActive,
	},
	{
		SourceCode:  "R2023-JOB-0009",
		Title:       "Retired Job Fair 2023",
		Summary:     "Job fair for workers seeking re-entry, held in late 2023.",
		Category:    "Jobs",
		Keywords:    []string{"job fair"},
		Provider:    "Ministry of Employment and Labor",
		RegionScope: core.RegionScopeNationwide,
		Status:      core.PolicyStatusExpired,
	},
}

func main() {
	dbPath := flag.String("db", "./data", "Path to BadgerDB database directory")
	host := flag.String("host", "http://localhost:11434/v1", "OpenAI-compatible service host")
	embeddingModel := flag.String("embedding-model", "embeddinggemma", "Embedding model name")
	catalogPath := flag.String("catalog", "", "Optional JSON catalog file; defaults to the embedded sample catalog")
	flag.Parse()

	catalog := sampleCatalog
	if *catalogPath != "" {
		data, err := os.ReadFile(*catalogPath)
		if err != nil {
			slog.Error("failed to read catalog file", "path", *catalogPath, "err", err)
			os.Exit(1)
		}
		catalog = nil
		if err := json.Unmarshal(data, &catalog); err != nil {
			slog.Error("failed to parse catalog file", "path", *catalogPath, "err", err)
			os.Exit(1)
		}
	}

	svc, err := bluebridge.NewService(*dbPath, bluebridge.WithAIConfig(ai.NewConfig(
		ai.WithHost(*host),
		ai.WithEmbeddingModel(*embeddingModel),
	)))
	if err != nil {
		slog.Error("failed to open service", "err", err)
		os.Exit(1)
	}
	defer svc.Close()

	pipeline, err := svc.NewIndexer(indexer.WithProgress(os.Stderr))
	if err != nil {
		slog.Error("failed to create indexer", "err", err)
		os.Exit(1)
	}
	defer pipeline.Release()

	n, err := pipeline.IndexCatalog(context.Background(), catalog...)
	if err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	slog.Info("seeded sample catalog", "policies", n, "db", *dbPath)
}
