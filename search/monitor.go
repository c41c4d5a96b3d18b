package search

import "github.com/poiesic/particula/core"

// ResolveMonitor provides hooks to observe the resolve pipeline.
// Implement this interface to trace which stage contributed which
// identifiers.
type ResolveMonitor interface {
	Start(query string, limit int)
	CacheHit(query string, limit int)
	NumericHit(id core.ID)
	AfterExactMatch(ids []core.ID)
	AfterSubstringMatch(ids []core.ID)
	AfterApproximateMatch(candidates []Candidate)
	AfterFallback(ids []core.ID)
	Finish(result *core.ResolveResult)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)               {}
func (n *noopMonitor) CacheHit(_ string, _ int)            {}
func (n *noopMonitor) NumericHit(_ core.ID)                {}
func (n *noopMonitor) AfterExactMatch(_ []core.ID)         {}
func (n *noopMonitor) AfterSubstringMatch(_ []core.ID)     {}
func (n *noopMonitor) AfterApproximateMatch(_ []Candidate) {}
func (n *noopMonitor) AfterFallback(_ []core.ID)           {}
func (n *noopMonitor) Finish(_ *core.ResolveResult)        {}
