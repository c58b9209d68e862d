package recommend

import "github.com/bluebridge/bluebridge/core"

// RetrievalTier names the retrieval path that produced the candidate pool.
type RetrievalTier string

const (
	// TierVector is the filtered vector query.
	TierVector RetrievalTier = "vector"
	// TierVectorUnfiltered is the vector query retried without the region filter.
	TierVectorUnfiltered RetrievalTier = "vector-unfiltered"
	// TierText is the substring fallback over the catalog.
	TierText RetrievalTier = "text"
)

// PipelineMonitor provides hooks to observe the recommendation pipeline.
// Implement this interface to track intermediate steps during a request.
type PipelineMonitor interface {
	Start(mode Mode, query string)
	AfterNormalize(searchText string, keywords []string)
	AfterRetrieval(tier RetrievalTier, ids []core.ID)
	AfterEligibilityGate(kept, dropped int)
	AfterScoring(ids []core.ID)
	AfterRerank(ids []core.ID)
	Finish(result *RankedResult)
}

// noopMonitor is a no-op implementation of PipelineMonitor
type noopMonitor struct{}

var _ PipelineMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Mode, _ string)                   {}
func (n *noopMonitor) AfterNormalize(_ string, _ []string)      {}
func (n *noopMonitor) AfterRetrieval(_ RetrievalTier, _ []core.ID) {}
func (n *noopMonitor) AfterEligibilityGate(_, _ int)            {}
func (n *noopMonitor) AfterScoring(_ []core.ID)                 {}
func (n *noopMonitor) AfterRerank(_ []core.ID)                  {}
func (n *noopMonitor) Finish(_ *RankedResult)                   {}
