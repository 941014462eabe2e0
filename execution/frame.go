// Package execution evaluates node graphs: the resolver pulls a node's value
// inputs depth first, and the driver walks the execute chain from an event.
package execution

import (
	"fmt"

	"github.com/meikuraledutech/nodegraph"
)

// Frame resolves the inputs of one node, one pin per step.
type Frame struct {
	node  nodegraph.Node
	depth int

	cursor   int
	sub      *Frame
	source   nodegraph.PinRef
	visited  bool
	finished bool
}

func newFrame(n nodegraph.Node, depth int) *Frame {
	return &Frame{node: n, depth: depth}
}

// Node returns the node being resolved.
func (f *Frame) Node() nodegraph.Node { return f.node }

// Depth is 0 for the root frame and grows by one per upstream hop.
func (f *Frame) Depth() int { return f.depth }

// Finished reports whether every input has been resolved.
func (f *Frame) Finished() bool { return f.finished }

// iterate advances the frame by one step. It returns a new sub-frame when the
// pin under the cursor needs an upstream node resolved first.
func (f *Frame) iterate(g *nodegraph.Graph, pass *Pass) (*Frame, error) {
	inputs := f.node.Core().InputPins()
	if f.cursor >= len(inputs) {
		f.sub = nil
		f.finished = true
		return nil, nil
	}
	pin := inputs[f.cursor]

	switch {
	case f.sub != nil:
		if !f.sub.finished {
			return nil, nil
		}
		if err := f.copyFrom(g, f.source, pin); err != nil {
			return nil, err
		}
		f.sub = nil

	case !pin.IsExecute():
		ref := nodegraph.PinRef{Node: f.node.Core().ID(), Index: pin.Index}
		c, ok := g.Incoming(ref)
		if !ok {
			break
		}
		upstream, ok := g.Node(c.Source.Node)
		if !ok {
			break
		}
		if upstream.Core().HasExecutePins() {
			if pass != nil && !pass.Visited(upstream) {
				return nil, fmt.Errorf("%w: %s reads %s", ErrUnvisitedUpstream, ref, c.Source)
			}
			if err := f.copyFrom(g, c.Source, pin); err != nil {
				return nil, err
			}
			break
		}
		f.sub = newFrame(upstream, f.depth+1)
		f.source = c.Source
		return f.sub, nil
	}

	f.cursor++
	return nil, nil
}

func (f *Frame) copyFrom(g *nodegraph.Graph, from nodegraph.PinRef, to *nodegraph.Pin) error {
	src, ok := g.Pin(from)
	if !ok {
		return fmt.Errorf("%w: %s", nodegraph.ErrPinNotFound, from)
	}
	val, err := nodegraph.Assign(src.Value, to.Type)
	if err != nil {
		return fmt.Errorf("%s -> %s[%d]: %w", from, f.node.Core().ID(), to.Index, err)
	}
	to.Value = val
	return nil
}
