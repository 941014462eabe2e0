package execution

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/nodegraph"
)

// Runner resolves a node's value dependencies with an explicit stack of
// frames. Run drives it to completion; Iterate advances one step so callers
// can single-step an evaluation.
type Runner struct {
	graph *nodegraph.Graph
	visit VisitFunc
	pass  *Pass
	stack []*Frame
}

// NewRunner creates a runner over g. WithVisitor and WithPass apply.
func NewRunner(g *nodegraph.Graph, opts ...Option) *Runner {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	return &Runner{graph: g, visit: s.visit, pass: s.pass}
}

// StartFrom discards any pending work and roots the runner at n.
func (r *Runner) StartFrom(n nodegraph.Node) {
	r.stack = append(r.stack[:0], newFrame(n, 0))
}

// Done reports whether the stack is empty.
func (r *Runner) Done() bool { return len(r.stack) == 0 }

// Current returns the frame on top of the stack, or nil when done.
func (r *Runner) Current() *Frame {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of frames on the stack.
func (r *Runner) Depth() int { return len(r.stack) }

// Iterate performs one step on the top frame. A frame that spawns a
// sub-frame pushes it; a frame that finishes computes its node and pops.
func (r *Runner) Iterate(ctx context.Context) (done bool, err error) {
	top := r.Current()
	if top == nil {
		return true, nil
	}
	if !top.visited {
		top.visited = true
		if r.visit != nil {
			if err := r.visit(ctx, top.node); err != nil {
				return false, fmt.Errorf("visit %s: %w", top.node.Core().ID(), err)
			}
		}
	}

	sub, err := top.iterate(r.graph, r.pass)
	if err != nil {
		return false, err
	}
	if sub != nil {
		r.stack = append(r.stack, sub)
		return false, nil
	}
	if top.finished {
		if c, ok := top.node.(nodegraph.Computable); ok {
			if err := c.Calculate(); err != nil {
				b := top.node.Core()
				return false, fmt.Errorf("calculate %s (%s): %w", b.ID(), b.Kind(), err)
			}
		}
		r.stack = r.stack[:len(r.stack)-1]
	}
	return r.Done(), nil
}

// Run iterates until the rooted node and everything it pulls on has been
// computed.
func (r *Runner) Run(ctx context.Context) error {
	for {
		done, err := r.Iterate(ctx)
		if err != nil {
			r.stack = r.stack[:0]
			return err
		}
		if done {
			return nil
		}
	}
}
