package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebridge/bluebridge/ai/mock"
	"github.com/bluebridge/bluebridge/core"
	"github.com/bluebridge/bluebridge/storage"
	"github.com/bluebridge/bluebridge/storage/badger"
)

// recordingMonitor captures pipeline callbacks for assertions.
type recordingMonitor struct {
	tier      RetrievalTier
	retrieved []core.ID
	kept      int
	dropped   int
	finished  bool
}

func (m *recordingMonitor) Start(_ Mode, _ string)              {}
func (m *recordingMonitor) AfterNormalize(_ string, _ []string) {}
func (m *recordingMonitor) AfterRetrieval(tier RetrievalTier, ids []core.ID) {
	m.tier = tier
	m.retrieved = ids
}
func (m *recordingMonitor) AfterEligibilityGate(kept, dropped int) {
	m.kept = kept
	m.dropped = dropped
}
func (m *recordingMonitor) AfterScoring(_ []core.ID)  {}
func (m *recordingMonitor) AfterRerank(_ []core.ID)   {}
func (m *recordingMonitor) Finish(_ *RankedResult)    { m.finished = true }

type engineFixture struct {
	engine   *Engine
	store    *badger.MemoryStore
	embedder *mock.MockEmbedder
}

// queryVector is what the mock embedder returns for every search text, so
// index distances in tests are fully determined by the seeded vectors.
var queryVector = []float32{1, 0, 0}

func newEngineFixture(t *testing.T, records []*core.PolicyRecord, opts ...Option) *engineFixture {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if len(records) > 0 {
		stored, err := store.Policies.PutPolicies(ctx, records...)
		require.NoError(t, err)

		entries := make([]*storage.IndexEntry, 0, len(stored))
		for _, record := range stored {
			if len(record.Vector) == 0 {
				continue
			}
			entries = append(entries, &storage.IndexEntry{
				PolicyId:    record.Id,
				Vector:      record.Vector,
				RegionScope: record.RegionScope,
				RegionSido:  record.RegionSido,
				Category:    record.Category,
				Status:      record.Status,
			})
		}
		if len(entries) > 0 {
			require.NoError(t, store.Index.Upsert(ctx, entries...))
		}
	}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return queryVector, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockQueryRewriter(), mock.NewMockExplanationGenerator())

	engine, err := NewEngine(store.Policies, store.Index, provider, opts...)
	require.NoError(t, err)

	return &engineFixture{engine: engine, store: store, embedder: embedder}
}

func activePolicy(id core.ID, title, category string, vector []float32) *core.PolicyRecord {
	return &core.PolicyRecord{
		Id:          id,
		SourceCode:  title,
		Title:       title,
		Category:    category,
		Status:      core.PolicyStatusActive,
		RegionScope: core.RegionScopeNationwide,
		Vector:      vector,
	}
}

func seoulCatalog() []*core.PolicyRecord {
	jobs := activePolicy(1, "Seoul Youth Job Allowance", "Jobs", []float32{1, 0, 0})
	jobs.RegionScope = core.RegionScopeLocal
	jobs.RegionSido = "Seoul"
	jobs.MinAge = intPtr(19)
	jobs.MaxAge = intPtr(34)
	jobs.Employment = []string{"Unemployed"}
	jobs.Summary = "Monthly allowance for unemployed young job seekers in Seoul"

	housing := activePolicy(2, "Rent Deposit Loan", "Housing", []float32{0.6, 0.8, 0})
	housing.Summary = "Deposit loans for young renters"

	womenOnly := activePolicy(3, "Women Career Comeback", "Jobs", []float32{1, 0, 0})
	womenOnly.SpecialTargets = []string{"Women only"}
	womenOnly.Summary = "Reemployment support for women returning to work"

	busan := activePolicy(4, "Busan Job Academy", "Jobs", []float32{1, 0, 0})
	busan.RegionScope = core.RegionScopeLocal
	busan.RegionSido = "Busan"
	busan.Summary = "Job training in Busan"

	return []*core.PolicyRecord{jobs, housing, womenOnly, busan}
}

func seoulProfile() *core.UserProfile {
	return &core.UserProfile{
		Region:           "Seoul",
		Age:              intPtr(25),
		Gender:           "male",
		EmploymentStatus: "unemployed",
	}
}

func TestEngineValidatesRequests(t *testing.T) {
	f := newEngineFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"blank query", &Request{Mode: ModeQuery, Query: "   "}},
		{"profile mode without profile", &Request{Mode: ModeProfile}},
		{"unknown mode", &Request{Mode: Mode("bogus"), Query: "jobs"}},
		{
			"invalid profile age",
			&Request{Mode: ModeQuery, Query: "jobs", Profile: &core.UserProfile{Age: intPtr(-1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Recommend(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestEngineQueryModeRanksSeoulScenario(t *testing.T) {
	f := newEngineFixture(t, seoulCatalog())
	monitor := &recordingMonitor{}

	result, err := f.engine.RecommendWithMonitor(context.Background(), &Request{
		Mode:    ModeQuery,
		Query:   "job support for unemployed",
		Profile: seoulProfile(),
	}, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	assert.Equal(t, TierVector, monitor.tier)
	assert.True(t, monitor.finished)

	// Best fit first: local, age-eligible, unemployment-targeted jobs policy.
	assert.Equal(t, core.ID(1), result.Results[0].Policy.Id)

	for _, item := range result.Results {
		assert.NotEqual(t, core.ID(3), item.Policy.Id, "women-only policy passed the gate for a male profile")
		assert.NotEqual(t, core.ID(4), item.Policy.Id, "out-of-region policy survived the region filter")
	}

	require.NotEmpty(t, result.Top3)
	for _, pick := range result.Top3 {
		assert.NotEmpty(t, pick.Reason)
	}
	assert.Equal(t, result.Results[0].Policy.Id, result.Top3[0].Policy.Id)
	assert.NotEmpty(t, result.SuggestedQueries)

	require.Len(t, result.Distances, len(result.Results))
	for _, distance := range result.Distances {
		assert.NotNil(t, distance, "vector-retrieved candidates carry a measured distance")
	}
}

func TestEngineHardGateAdmitsMatchingGender(t *testing.T) {
	f := newEngineFixture(t, seoulCatalog())

	profile := seoulProfile()
	profile.Gender = "female"

	result, err := f.engine.Recommend(context.Background(), &Request{
		Mode:    ModeQuery,
		Query:   "career comeback for women",
		Profile: profile,
	})
	require.NoError(t, err)

	found := false
	for _, item := range result.Results {
		if item.Policy.Id == 3 {
			found = true
			assert.True(t, item.Candidate.TargetRequired)
			assert.True(t, item.Candidate.TargetMatch)
		}
	}
	assert.True(t, found, "women-only policy missing for a female profile")
}

func TestEngineDiversityCap(t *testing.T) {
	var records []*core.PolicyRecord
	for i := core.ID(1); i <= 5; i++ {
		records = append(records, activePolicy(i, "Job Program", "Jobs", []float32{1, 0, 0}))
	}
	for i := range records {
		records[i].SourceCode = records[i].Title + string(rune('A'+i))
	}
	f := newEngineFixture(t, records)

	result, err := f.engine.Recommend(context.Background(), &Request{Mode: ModeQuery, Query: "jobs"})
	require.NoError(t, err)

	perCategory := make(map[string]int)
	for _, item := range result.Results {
		perCategory[item.Policy.Category]++
	}
	for category, n := range perCategory {
		assert.LessOrEqual(t, n, 2, "category %q over the diversity cap", category)
	}
}

func TestEngineUXScoreBounds(t *testing.T) {
	f := newEngineFixture(t, seoulCatalog())

	result, err := f.engine.Recommend(context.Background(), &Request{
		Mode:    ModeQuery,
		Query:   "job support for unemployed",
		Profile: seoulProfile(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	for i, item := range result.Results {
		assert.GreaterOrEqual(t, item.Candidate.UXScore, 0)
		assert.LessOrEqual(t, item.Candidate.UXScore, 100)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Results[i-1].Candidate.HybridScore, item.Candidate.HybridScore)
		}
	}
}

func TestEngineIdempotent(t *testing.T) {
	f := newEngineFixture(t, seoulCatalog())
	req := &Request{Mode: ModeQuery, Query: "job support for unemployed", Profile: seoulProfile()}

	first, err := f.engine.Recommend(context.Background(), req)
	require.NoError(t, err)
	second, err := f.engine.Recommend(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Policy.Id, second.Results[i].Policy.Id)
		assert.Equal(t, first.Results[i].Candidate.UXScore, second.Results[i].Candidate.UXScore)
	}
}

func TestEngineTextFallback(t *testing.T) {
	f := newEngineFixture(t, seoulCatalog())
	f.embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding backend down")
	}
	monitor := &recordingMonitor{}

	result, err := f.engine.RecommendWithMonitor(context.Background(), &Request{
		Mode:  ModeQuery,
		Query: "rent deposit",
	}, monitor)
	require.NoError(t, err)

	assert.Equal(t, TierText, monitor.tier)
	require.NotEmpty(t, result.Results)
	assert.Equal(t, core.ID(2), result.Results[0].Policy.Id)
	for _, distance := range result.Distances {
		assert.Nil(t, distance, "fallback candidates have no measured distance")
	}
}

func TestEngineUnfilteredVectorFallback(t *testing.T) {
	// Every indexed policy is local to Seoul, so a Jeju profile empties the
	// filtered pass and the query is retried without the region filter.
	local := activePolicy(1, "Seoul Job Academy", "Jobs", []float32{1, 0, 0})
	local.RegionScope = core.RegionScopeLocal
	local.RegionSido = "Seoul"
	f := newEngineFixture(t, []*core.PolicyRecord{local})
	monitor := &recordingMonitor{}

	result, err := f.engine.RecommendWithMonitor(context.Background(), &Request{
		Mode:    ModeQuery,
		Query:   "job academy training",
		Profile: &core.UserProfile{Region: "Jeju"},
	}, monitor)
	require.NoError(t, err)

	assert.Equal(t, TierVectorUnfiltered, monitor.tier)
	require.NotEmpty(t, result.Results)
	assert.Equal(t, core.ID(1), result.Results[0].Policy.Id)
}

func TestEngineEmptyCatalog(t *testing.T) {
	f := newEngineFixture(t, nil)

	result, err := f.engine.Recommend(context.Background(), &Request{Mode: ModeQuery, Query: "anything at all"})
	require.NoError(t, err)

	assert.Empty(t, result.Results)
	assert.Empty(t, result.Top3)
	assert.NotEmpty(t, result.EchoQuery)
}

func TestEngineProfileMode(t *testing.T) {
	f := newEngineFixture(t, seoulCatalog())

	profile := seoulProfile()
	profile.Interest = "housing"

	result, err := f.engine.Recommend(context.Background(), &Request{
		Mode:    ModeProfile,
		Profile: profile,
	})
	require.NoError(t, err)

	assert.Contains(t, result.EchoQuery, "living in Seoul")
	assert.Empty(t, result.SuggestedQueries, "profile mode offers no example queries")
	require.NotEmpty(t, result.Results)
}

func TestEngineProfileModeGatesAgeAndRegion(t *testing.T) {
	senior := activePolicy(10, "Senior Career Transition", "Jobs", []float32{1, 0, 0})
	senior.MinAge = intPtr(40)
	senior.MaxAge = intPtr(50)

	youth := activePolicy(11, "Youth Job Allowance", "Jobs", []float32{1, 0, 0})
	youth.MinAge = intPtr(19)
	youth.MaxAge = intPtr(34)

	busan := activePolicy(12, "Busan Youth Stipend", "Jobs", []float32{1, 0, 0})
	busan.RegionScope = core.RegionScopeLocal
	busan.RegionSido = "Busan"

	f := newEngineFixture(t, []*core.PolicyRecord{senior, youth, busan})

	result, err := f.engine.Recommend(context.Background(), &Request{
		Mode:    ModeProfile,
		Profile: seoulProfile(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	for _, item := range result.Results {
		assert.NotEqual(t, core.ID(10), item.Policy.Id, "age-ineligible policy survived the profile gate")
		assert.NotEqual(t, core.ID(12), item.Policy.Id, "out-of-region policy survived the profile gate")
	}
	assert.Equal(t, core.ID(11), result.Results[0].Policy.Id)
}

func TestEngineRecommendationLog(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = store.Policies.PutPolicies(ctx, seoulCatalog()...)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return queryVector, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockQueryRewriter(), mock.NewMockExplanationGenerator())

	engine, err := NewEngine(store.Policies, store.Index, provider, WithRecommendationLog(store.RecLog))
	require.NoError(t, err)

	result, err := engine.Recommend(ctx, &Request{
		Mode:    ModeQuery,
		Query:   "rent deposit",
		UserKey: "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	entries, err := store.RecLog.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].UserKey)
	assert.Equal(t, "rent deposit", entries[0].Query)
	assert.Len(t, entries[0].PolicyIds, len(result.Results))
}

func TestEngineSkipsLogWithoutUserKey(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = store.Policies.PutPolicies(ctx, seoulCatalog()...)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return queryVector, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockQueryRewriter(), mock.NewMockExplanationGenerator())

	engine, err := NewEngine(store.Policies, store.Index, provider, WithRecommendationLog(store.RecLog))
	require.NoError(t, err)

	_, err = engine.Recommend(ctx, &Request{Mode: ModeQuery, Query: "rent deposit"})
	require.NoError(t, err)

	entries, err := store.RecLog.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEngineOptionValidation(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	provider := mock.NewMockProvider()

	_, err = NewEngine(store.Policies, store.Index, provider, WithTopK(0))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewEngine(store.Policies, store.Index, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewEngine(nil, store.Index, provider)
	assert.ErrorIs(t, err, ErrPolicyRepositoryRequired)

	_, err = NewEngine(store.Policies, nil, provider)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)
}
