package nodegraph

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

// Graph owns nodes, connections and variables. It is the only mutation path,
// so its observers see every structural change. A Graph is not safe for
// concurrent use.
type Graph struct {
	registry *Registry
	logger   *slog.Logger
	loose    bool

	nodes       map[string]Node
	order       []string
	connections []Connection
	variables   []*Variable

	observers    []observerEntry
	nextObserver int
	editDepth    int
	changed      bool
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for soft lookup misses and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithLooseTyping turns off the pin type check in Connect. Callers that have
// already validated a connection (an editor, for instance) can use it.
func WithLooseTyping() Option {
	return func(g *Graph) { g.loose = true }
}

// New creates an empty graph of the registry's type. A nil registry yields a
// graph that only knows constants and variable nodes.
func New(reg *Registry, opts ...Option) *Graph {
	if reg == nil {
		reg = NewRegistry("default")
	}
	g := &Graph{
		registry: reg,
		logger:   slog.Default(),
		nodes:    make(map[string]Node),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Registry returns the catalog the graph was created with.
func (g *Graph) Registry() *Registry { return g.registry }

// Type returns the graph type persisted in documents.
func (g *Graph) Type() string { return g.registry.Name() }

// Logger returns the graph's logger.
func (g *Graph) Logger() *slog.Logger { return g.logger }

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Node looks a node up by ID. A miss logs a warning.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		g.logger.Warn("node not found", "node", id)
	}
	return n, ok
}

// Pin resolves a pin reference. A miss logs a warning.
func (g *Graph) Pin(ref PinRef) (*Pin, bool) {
	_, p, err := g.lookupPin(ref)
	if err != nil {
		g.logger.Warn("pin not found", "pin", ref.String(), "error", err)
		return nil, false
	}
	return p, true
}

func (g *Graph) lookupPin(ref PinRef) (Node, *Pin, error) {
	n, ok := g.nodes[ref.Node]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, ref.Node)
	}
	p, ok := n.Core().Pin(ref.Index)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrPinNotFound, ref)
	}
	return n, p, nil
}

// Connections returns a copy of the connection list.
func (g *Graph) Connections() []Connection {
	return append([]Connection(nil), g.connections...)
}

// Incoming returns the connection feeding the input pin ref, if any.
func (g *Graph) Incoming(ref PinRef) (Connection, bool) {
	for _, c := range g.connections {
		if c.Target == ref {
			return c, true
		}
	}
	return Connection{}, false
}

// Outgoing returns the connections leaving the output pin ref.
func (g *Graph) Outgoing(ref PinRef) []Connection {
	var out []Connection
	for _, c := range g.connections {
		if c.Source == ref {
			out = append(out, c)
		}
	}
	return out
}

// KindOf derives a connection's kind: Execute iff both endpoints are execute
// pins.
func (g *Graph) KindOf(c Connection) ConnectionKind {
	_, src, err := g.lookupPin(c.Source)
	if err != nil {
		return ValueKind
	}
	_, tgt, err := g.lookupPin(c.Target)
	if err != nil {
		return ValueKind
	}
	if src.IsExecute() && tgt.IsExecute() {
		return ExecuteKind
	}
	return ValueKind
}

// Variables returns the variables in creation order.
func (g *Graph) Variables() []*Variable {
	return append([]*Variable(nil), g.variables...)
}

// Variable looks a variable up by ID. A miss logs a warning.
func (g *Graph) Variable(id string) (*Variable, bool) {
	for _, v := range g.variables {
		if v.ID == id {
			return v, true
		}
	}
	g.logger.Warn("variable not found", "variable", id)
	return nil, false
}

// VariableByName looks a variable up by name. A miss logs a warning.
func (g *Graph) VariableByName(name string) (*Variable, bool) {
	for _, v := range g.variables {
		if v.Name == name {
			return v, true
		}
	}
	g.logger.Warn("variable not found", "name", name)
	return nil, false
}

// AddNode creates a node of the registered kind and assigns it a fresh ID.
func (g *Graph) AddNode(kind string) (Node, error) {
	n, err := g.registry.create(kind)
	if err != nil {
		return nil, err
	}
	if err := g.edit(func() error { g.insert(n, ""); return nil }); err != nil {
		return nil, err
	}
	return n, nil
}

// AddConstant creates a constant node of type t holding literal.
func (g *Graph) AddConstant(t PinType, literal string) (*Constant, error) {
	c, err := newConstant(t)
	if err != nil {
		return nil, err
	}
	if err := c.cell.Parse(literal); err != nil {
		return nil, err
	}
	g.edit(func() error { g.insert(c, ""); return nil })
	return c, nil
}

// SetConstant replaces a constant node's literal.
func (g *Graph) SetConstant(c *Constant, literal string) error {
	if err := g.owns(c); err != nil {
		return err
	}
	return g.edit(func() error {
		if err := c.cell.Parse(literal); err != nil {
			return err
		}
		g.touch()
		return nil
	})
}

// AddVariableNode creates an accessor node bound to the variable varID.
func (g *Graph) AddVariableNode(varID string, a Accessor) (*VariableAccessor, error) {
	v := g.variable(varID)
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVariableNotFound, varID)
	}
	n, err := newVariableAccessor(v, a)
	if err != nil {
		return nil, err
	}
	g.edit(func() error { g.insert(n, ""); return nil })
	return n, nil
}

// insert registers n under id, or a fresh ID when id is empty.
func (g *Graph) insert(n Node, id string) {
	if id == "" {
		id = uuid.NewString()
	}
	b := n.Core()
	b.id = id
	if b.name == "" {
		b.name = b.kind
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	g.emit(Event{Kind: NodeAdded, NodeID: id})
	g.touch()
}

func (g *Graph) owns(n Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrForeignNode)
	}
	if have, ok := g.nodes[n.Core().ID()]; !ok || have != n {
		return fmt.Errorf("%w: %s", ErrForeignNode, n.Core().ID())
	}
	return nil
}

// RemoveNode deletes n and every connection touching it.
func (g *Graph) RemoveNode(n Node) error {
	if err := g.owns(n); err != nil {
		return err
	}
	id := n.Core().ID()
	return g.edit(func() error {
		g.dropConnections(func(c Connection) bool { return c.TouchesNode(id) })
		delete(g.nodes, id)
		for i, have := range g.order {
			if have == id {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
		g.emit(Event{Kind: NodeRemoved, NodeID: id})
		g.touch()
		return nil
	})
}

// dropConnections removes every connection matching drop.
func (g *Graph) dropConnections(drop func(Connection) bool) {
	kept := g.connections[:0]
	for _, c := range g.connections {
		if drop(c) {
			g.touch()
			continue
		}
		kept = append(kept, c)
	}
	g.connections = kept
}

// AddVariable creates a variable. A name already in use gets a "_N" suffix.
func (g *Graph) AddVariable(name string, t PinType) (*Variable, error) {
	if err := checkVariableType(t); err != nil {
		return nil, err
	}
	v := newVariable(uuid.NewString(), g.uniqueName(name, nil), t)
	g.edit(func() error { g.insertVariable(v); return nil })
	return v, nil
}

// checkVariableType rejects the types a variable cannot hold a value of.
func checkVariableType(t PinType) error {
	if t.IsExecute() || t.IsNone() || t.IsAny() {
		return fmt.Errorf("%w: variables cannot be of type %s", ErrUnknownType, t.Key)
	}
	return nil
}

func (g *Graph) insertVariable(v *Variable) {
	g.variables = append(g.variables, v)
	g.emit(Event{Kind: VariableAdded, VariableID: v.ID})
	g.touch()
}

func (g *Graph) uniqueName(name string, except *Variable) string {
	taken := make(map[string]bool, len(g.variables))
	for _, v := range g.variables {
		if v != except {
			taken[v.Name] = true
		}
	}
	if !taken[name] {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func (g *Graph) variable(id string) *Variable {
	for _, v := range g.variables {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// accessors returns the nodes bound to v.
func (g *Graph) accessors(v *Variable) []*VariableAccessor {
	var out []*VariableAccessor
	for _, id := range g.order {
		if a, ok := g.nodes[id].(*VariableAccessor); ok && a.variable == v {
			out = append(out, a)
		}
	}
	return out
}

// RemoveVariable deletes v. Accessor nodes bound to it stay in the graph and
// keep reading the detached variable.
func (g *Graph) RemoveVariable(v *Variable) error {
	if v == nil || g.variable(v.ID) != v {
		return fmt.Errorf("%w: %v", ErrVariableNotFound, v)
	}
	if bound := g.accessors(v); len(bound) > 0 {
		g.logger.Warn("removing variable still in use", "variable", v.Name, "nodes", len(bound))
	}
	return g.edit(func() error {
		for i, have := range g.variables {
			if have == v {
				g.variables = append(g.variables[:i], g.variables[i+1:]...)
				break
			}
		}
		g.emit(Event{Kind: VariableRemoved, VariableID: v.ID})
		g.touch()
		return nil
	})
}

// RenameVariable changes v's name, deduplicating it against the others.
func (g *Graph) RenameVariable(v *Variable, name string) error {
	if v == nil || g.variable(v.ID) != v {
		return fmt.Errorf("%w: %v", ErrVariableNotFound, v)
	}
	if v.Name == name {
		return nil
	}
	return g.edit(func() error {
		v.Name = g.uniqueName(name, v)
		g.touch()
		return nil
	})
}

// SetVariableType retypes v and the value pins of every node bound to it.
// Connections those pins can no longer carry are dropped.
func (g *Graph) SetVariableType(v *Variable, t PinType) error {
	if v == nil || g.variable(v.ID) != v {
		return fmt.Errorf("%w: %v", ErrVariableNotFound, v)
	}
	if err := checkVariableType(t); err != nil {
		return err
	}
	return g.edit(func() error {
		v.cell.SetType(t)
		for _, a := range g.accessors(v) {
			a.retype()
			id := a.ID()
			g.dropConnections(func(c Connection) bool {
				if !c.TouchesNode(id) || g.loose {
					return false
				}
				_, src, err := g.lookupPin(c.Source)
				if err != nil {
					return true
				}
				_, tgt, err := g.lookupPin(c.Target)
				if err != nil {
					return true
				}
				return !Compatible(src.Type, tgt.Type)
			})
		}
		g.touch()
		return nil
	})
}

// SetVariableValue parses literal into v.
func (g *Graph) SetVariableValue(v *Variable, literal string) error {
	if v == nil || g.variable(v.ID) != v {
		return fmt.Errorf("%w: %v", ErrVariableNotFound, v)
	}
	return g.edit(func() error {
		if err := v.cell.Parse(literal); err != nil {
			return err
		}
		g.touch()
		return nil
	})
}

// DuplicateOffset is added to a duplicated node's position.
var DuplicateOffset = Position{X: 32, Y: 32}

// Duplicate re-adds a copy of n's saved form under a new ID, shifted by
// DuplicateOffset. Connections are not copied.
func (g *Graph) Duplicate(n Node) (Node, error) {
	if err := g.owns(n); err != nil {
		return nil, err
	}
	var dup Node
	err := g.edit(func() error {
		var err error
		switch src := n.(type) {
		case *Constant:
			data := g.constantData(src)
			data.ID = ""
			data.Position = shift(data.Position)
			dup, err = g.restoreConstant(data)
		case *VariableAccessor:
			data := g.variableNodeData(src)
			data.ID = ""
			data.Position = shift(data.Position)
			dup, err = g.restoreVariableNode(data)
		default:
			data := g.nodeData(src)
			data.ID = ""
			data.Position = shift(data.Position)
			dup, err = g.restoreNode(data)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

func shift(p Position) Position {
	return Position{X: p.X + DuplicateOffset.X, Y: p.Y + DuplicateOffset.Y}
}
