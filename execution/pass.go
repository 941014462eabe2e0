package execution

import "github.com/meikuraledutech/nodegraph"

// Pass records the control-flow nodes that have run during one event.
type Pass struct {
	visited map[string]bool
}

// NewPass returns an empty pass.
func NewPass() *Pass {
	return &Pass{visited: make(map[string]bool)}
}

// Mark records n as having run.
func (p *Pass) Mark(n nodegraph.Node) { p.visited[n.Core().ID()] = true }

// Visited reports whether n has run in this pass.
func (p *Pass) Visited(n nodegraph.Node) bool { return p.visited[n.Core().ID()] }

// Len returns the number of distinct nodes that have run.
func (p *Pass) Len() int { return len(p.visited) }
