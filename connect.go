package nodegraph

import (
	"fmt"
	"slices"
)

// Connect wires the output pin source to the input pin target.
//
// An execute connection replaces every connection on either pin. A value
// connection replaces only the connection already feeding target; outputs fan
// out freely. Both nodes are notified afterwards so wildcard pins can
// specialize.
func (g *Graph) Connect(source, target PinRef) (Connection, error) {
	var c Connection
	err := g.edit(func() error {
		var err error
		c, err = g.connect(source, target, true)
		return err
	})
	return c, err
}

// connect validates and stores a connection. notify tells the endpoints about
// it; Load replays saved connections without notifying, so it does not
// specialize pins that were still wildcards when the graph was saved.
func (g *Graph) connect(source, target PinRef, notify bool) (Connection, error) {
	if source == target {
		return Connection{}, fmt.Errorf("%w: %s connects to itself", ErrInvalidConnection, source)
	}
	srcNode, src, err := g.lookupPin(source)
	if err != nil {
		return Connection{}, fmt.Errorf("%w: source: %w", ErrInvalidConnection, err)
	}
	tgtNode, tgt, err := g.lookupPin(target)
	if err != nil {
		return Connection{}, fmt.Errorf("%w: target: %w", ErrInvalidConnection, err)
	}
	if src.Direction != Output {
		return Connection{}, fmt.Errorf("%w: source %s is not an output", ErrInvalidConnection, source)
	}
	if tgt.Direction != Input {
		return Connection{}, fmt.Errorf("%w: target %s is not an input", ErrInvalidConnection, target)
	}
	if !g.loose {
		if err := g.checkTypes(srcNode, src, tgtNode, tgt); err != nil {
			return Connection{}, err
		}
	}

	execute := src.IsExecute() && tgt.IsExecute()
	if !execute {
		if source.Node == target.Node {
			return Connection{}, fmt.Errorf("%w: %s feeds its own node", ErrCycleDetected, source)
		}
		if g.pullsFrom(source.Node, target.Node) {
			return Connection{}, fmt.Errorf("%w: %s -> %s", ErrCycleDetected, source, target)
		}
	}

	if execute {
		g.dropConnections(func(c Connection) bool { return c.Touches(source) || c.Touches(target) })
	} else {
		g.dropConnections(func(c Connection) bool { return c.Target == target })
	}
	c := Connection{Source: source, Target: target}
	g.connections = append(g.connections, c)
	g.touch()

	if !notify {
		return c, nil
	}
	if s, ok := srcNode.(Specializer); ok {
		s.PinConnected(src, tgt)
	}
	if s, ok := tgtNode.(Specializer); ok {
		s.PinConnected(tgt, src)
	}
	return c, nil
}

func (g *Graph) checkTypes(srcNode Node, src *Pin, tgtNode Node, tgt *Pin) error {
	if !Compatible(src.Type, tgt.Type) {
		return fmt.Errorf("%w: %s to %s", ErrIncompatibleTypes, src.Type, tgt.Type)
	}
	if a, ok := srcNode.(PinAcceptor); ok && !a.AcceptsPin(src, tgt.Type) {
		return fmt.Errorf("%w: %s rejects %s", ErrIncompatibleTypes, srcNode.Core().Kind(), tgt.Type)
	}
	if a, ok := tgtNode.(PinAcceptor); ok && !a.AcceptsPin(tgt, src.Type) {
		return fmt.Errorf("%w: %s rejects %s", ErrIncompatibleTypes, tgtNode.Core().Kind(), src.Type)
	}
	return nil
}

// pullsFrom reports whether wiring a value edge from node from into node to
// would make the resolver pull to while resolving to. The resolver only
// descends into nodes without execute pins, so only such paths count.
func (g *Graph) pullsFrom(from, to string) bool {
	if g.nodes[from].Core().HasExecutePins() || g.nodes[to].Core().HasExecutePins() {
		return false
	}

	seen := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		if seen[id] || g.nodes[id].Core().HasExecutePins() {
			continue
		}
		seen[id] = true
		for _, c := range g.connections {
			if c.Target.Node == id && g.KindOf(c) == ValueKind {
				stack = append(stack, c.Source.Node)
			}
		}
	}
	return false
}

// Disconnect removes c. Specializations it caused stay in place.
func (g *Graph) Disconnect(c Connection) error {
	return g.edit(func() error { return g.disconnect(c) })
}

func (g *Graph) disconnect(c Connection) error {
	i := slices.Index(g.connections, c)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, c)
	}
	g.connections = slices.Delete(g.connections, i, i+1)
	g.touch()
	return nil
}

// Replace swaps old for a connection between source and target as a single
// edit. If the new connection is rejected, old is put back in its place and
// the graph counts as unchanged.
func (g *Graph) Replace(old Connection, source, target PinRef) (Connection, error) {
	var c Connection
	err := g.edit(func() error {
		i := slices.Index(g.connections, old)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrConnectionNotFound, old)
		}
		changed := g.changed
		g.connections = slices.Delete(g.connections, i, i+1)

		var err error
		c, err = g.connect(source, target, true)
		if err != nil {
			g.connections = slices.Insert(g.connections, i, old)
			g.changed = changed
			return err
		}
		g.touch()
		return nil
	})
	return c, err
}
