package bluebridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebridge/bluebridge/ai/mock"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/recommend"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := NewService("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestServiceIndexAndRecommend(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pipeline, err := svc.NewIndexer()
	require.NoError(t, err)
	defer pipeline.Release()

	n, err := pipeline.IndexCatalog(ctx,
		&core.PolicyRecord{
			SourceCode:  "JOB-001",
			Title:       "Youth Job Allowance",
			Summary:     "Monthly allowance for unemployed young job seekers",
			Category:    "Jobs",
			Status:      core.PolicyStatusActive,
			RegionScope: core.RegionScopeNationwide,
		},
		&core.PolicyRecord{
			SourceCode:  "HOU-001",
			Title:       "Rent Deposit Loan",
			Summary:     "Deposit loans for young renters",
			Category:    "Housing",
			Status:      core.PolicyStatusActive,
			RegionScope: core.RegionScopeNationwide,
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	engine, err := svc.NewEngine()
	require.NoError(t, err)

	result, err := engine.Recommend(ctx, &recommend.Request{
		Mode:  recommend.ModeQuery,
		Query: "allowance for job seekers",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Results)
	assert.NotEmpty(t, result.Top3)
}

func TestServiceRecordsOutcomes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pipeline, err := svc.NewIndexer()
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.IndexCatalog(ctx, &core.PolicyRecord{
		SourceCode:  "EDU-001",
		Title:       "Tuition Support",
		Summary:     "Tuition assistance for students",
		Category:    "Education",
		Status:      core.PolicyStatusActive,
		RegionScope: core.RegionScopeNationwide,
	})
	require.NoError(t, err)

	engine, err := svc.NewEngine()
	require.NoError(t, err)

	_, err = engine.Recommend(ctx, &recommend.Request{
		Mode:    recommend.ModeQuery,
		Query:   "tuition support",
		UserKey: "user-42",
	})
	require.NoError(t, err)

	entries, err := svc.RecommendationLog().Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-42", entries[0].UserKey)
}

func TestServiceCloseIdempotentRepos(t *testing.T) {
	svc, err := NewService("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	require.NoError(t, svc.Close())
}
