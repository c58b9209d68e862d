package recommend

import (
	"math"

	"github.com/bluebridge/bluebridge/core"
)

// NormalizeUXScores maps hybrid scores onto a softmax distribution scaled to
// [0, 100] and rounded. The softmax exaggerates relative differences so the
// display separates close candidates. When every hybrid score is identical
// there is no signal to spread, and all candidates receive 50.
func NormalizeUXScores(candidates []*core.RankedCandidate) {
	if len(candidates) == 0 {
		return
	}

	allEqual := true
	maxScore := candidates[0].HybridScore
	for _, c := range candidates[1:] {
		if c.HybridScore != candidates[0].HybridScore {
			allEqual = false
		}
		if c.HybridScore > maxScore {
			maxScore = c.HybridScore
		}
	}
	if allEqual {
		for _, c := range candidates {
			c.UXScore = 50
		}
		return
	}

	// Shift by the max before exponentiating for numeric stability.
	var sum float64
	exps := make([]float64, len(candidates))
	for i, c := range candidates {
		exps[i] = math.Exp(c.HybridScore - maxScore)
		sum += exps[i]
	}

	for i, c := range candidates {
		c.UXScore = int(math.Round(exps[i] / sum * 100))
	}
}
