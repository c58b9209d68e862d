package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluebridge/bluebridge/core"
)

func TestNormalizeUXScoresEmpty(t *testing.T) {
	NormalizeUXScores(nil)
	NormalizeUXScores([]*core.RankedCandidate{})
}

func TestNormalizeUXScoresAllEqual(t *testing.T) {
	candidates := []*core.RankedCandidate{
		{PolicyId: 1, HybridScore: 0.8},
		{PolicyId: 2, HybridScore: 0.8},
		{PolicyId: 3, HybridScore: 0.8},
	}

	NormalizeUXScores(candidates)

	for _, c := range candidates {
		assert.Equal(t, 50, c.UXScore, "policy %d", c.PolicyId)
	}
}

func TestNormalizeUXScoresSingleCandidate(t *testing.T) {
	candidates := []*core.RankedCandidate{{PolicyId: 1, HybridScore: 0.42}}

	NormalizeUXScores(candidates)

	assert.Equal(t, 50, candidates[0].UXScore)
}

func TestNormalizeUXScoresBoundsAndOrder(t *testing.T) {
	candidates := []*core.RankedCandidate{
		{PolicyId: 1, HybridScore: 0.9},
		{PolicyId: 2, HybridScore: 0.6},
		{PolicyId: 3, HybridScore: 0.3},
	}

	NormalizeUXScores(candidates)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.UXScore, 0)
		assert.LessOrEqual(t, c.UXScore, 100)
	}
	assert.Greater(t, candidates[0].UXScore, candidates[1].UXScore)
	assert.Greater(t, candidates[1].UXScore, candidates[2].UXScore)
}

func TestNormalizeUXScoresSpreadsCloseScores(t *testing.T) {
	candidates := []*core.RankedCandidate{
		{PolicyId: 1, HybridScore: 0.80},
		{PolicyId: 2, HybridScore: 0.60},
	}

	NormalizeUXScores(candidates)

	assert.NotEqual(t, 0, candidates[1].UXScore, "close runner-up should not collapse to zero")
	assert.Greater(t, candidates[0].UXScore, candidates[1].UXScore)
}

func TestNormalizeUXScoresDeterministic(t *testing.T) {
	build := func() []*core.RankedCandidate {
		return []*core.RankedCandidate{
			{PolicyId: 1, HybridScore: 0.71},
			{PolicyId: 2, HybridScore: 0.64},
			{PolicyId: 3, HybridScore: 0.22},
		}
	}

	a := build()
	b := build()
	NormalizeUXScores(a)
	NormalizeUXScores(b)

	for i := range a {
		assert.Equal(t, a[i].UXScore, b[i].UXScore)
	}
}
