package nodegraph

import "fmt"

// Save captures the graph as a document.
func (g *Graph) Save() *GraphData {
	d := &GraphData{GraphType: g.Type()}
	for _, v := range g.variables {
		d.Variables = append(d.Variables, NodeGraphVariableData{
			Name:         v.Name,
			ID:           v.ID,
			VariableType: v.Type().Key,
			Value:        v.Literal(),
		})
	}
	for _, id := range g.order {
		switch n := g.nodes[id].(type) {
		case *Constant:
			d.Constants = append(d.Constants, g.constantData(n))
		case *VariableAccessor:
			d.VariableNodes = append(d.VariableNodes, g.variableNodeData(n))
		default:
			d.Nodes = append(d.Nodes, g.nodeData(n))
		}
	}
	for _, c := range g.connections {
		d.Connections = append(d.Connections, NodeConnectionData{
			SourceNodeID:   c.Source.Node,
			SourcePinIndex: c.Source.Index,
			TargetNodeID:   c.Target.Node,
			TargetPinIndex: c.Target.Index,
		})
	}
	return d
}

func (g *Graph) nodeData(n Node) NodeData {
	b := n.Core()
	d := NodeData{ClassType: b.Kind(), ID: b.ID(), Name: b.Name(), Position: b.Position}
	if c, ok := n.(Configurable); ok {
		if props := c.Properties(); len(props) > 0 {
			d.Properties = make(map[string]string, len(props))
			for k, v := range props {
				d.Properties[k] = v
			}
		}
	}
	return d
}

func (g *Graph) constantData(c *Constant) NodeConstantData {
	return NodeConstantData{
		NodeData:     g.nodeData(c),
		ConstantType: c.cell.Type().Key,
		Value:        c.cell.String(),
	}
}

func (g *Graph) variableNodeData(a *VariableAccessor) NodeVariableData {
	return NodeVariableData{
		NodeData:     g.nodeData(a),
		VariableID:   a.variable.ID,
		AccessorType: a.accessor,
	}
}

// Load replaces the graph's contents with d. Variables are restored first,
// then plain nodes, constants, variable nodes and finally connections, so
// every pin exists before it is wired. The whole load is one edit.
//
// Variable nodes whose variable is missing, and connections whose endpoints
// are missing, are skipped with a warning. Any other problem aborts the load
// and leaves the graph empty.
func (g *Graph) Load(d *GraphData) error {
	if d == nil {
		return fmt.Errorf("nodegraph: nil graph data")
	}
	if d.GraphType != "" && d.GraphType != g.Type() {
		return fmt.Errorf("%w: document is %q, graph is %q", ErrGraphTypeMismatch, d.GraphType, g.Type())
	}
	return g.edit(func() error {
		g.clear()
		if err := g.load(d); err != nil {
			g.clear()
			return err
		}
		return nil
	})
}

func (g *Graph) clear() {
	for _, id := range append([]string(nil), g.order...) {
		delete(g.nodes, id)
		g.emit(Event{Kind: NodeRemoved, NodeID: id})
	}
	for _, v := range g.variables {
		g.emit(Event{Kind: VariableRemoved, VariableID: v.ID})
	}
	g.order = nil
	g.connections = nil
	g.variables = nil
	g.touch()
}

func (g *Graph) load(d *GraphData) error {
	for _, vd := range d.Variables {
		t, ok := g.registry.Type(vd.VariableType)
		if !ok {
			return fmt.Errorf("%w: variable %s: %q", ErrUnknownType, vd.Name, vd.VariableType)
		}
		if err := checkVariableType(t); err != nil {
			return fmt.Errorf("variable %s: %w", vd.Name, err)
		}
		if g.variable(vd.ID) != nil {
			return fmt.Errorf("nodegraph: duplicate variable id %s", vd.ID)
		}
		v := newVariable(vd.ID, vd.Name, t)
		if err := v.cell.Parse(vd.Value); err != nil {
			return fmt.Errorf("variable %s: %w", vd.Name, err)
		}
		g.insertVariable(v)
	}
	for _, nd := range d.Nodes {
		if _, err := g.restoreNode(nd); err != nil {
			return err
		}
	}
	for _, cd := range d.Constants {
		if _, err := g.restoreConstant(cd); err != nil {
			return err
		}
	}
	for _, vd := range d.VariableNodes {
		if g.variable(vd.VariableID) == nil {
			g.logger.Warn("skipping variable node with missing variable", "node", vd.ID, "variable", vd.VariableID)
			continue
		}
		if _, err := g.restoreVariableNode(vd); err != nil {
			return err
		}
	}
	for _, cd := range d.Connections {
		if _, ok := g.nodes[cd.SourceNodeID]; !ok {
			g.logger.Warn("skipping connection from missing node", "node", cd.SourceNodeID)
			continue
		}
		if _, ok := g.nodes[cd.TargetNodeID]; !ok {
			g.logger.Warn("skipping connection to missing node", "node", cd.TargetNodeID)
			continue
		}
		src := PinRef{Node: cd.SourceNodeID, Index: cd.SourcePinIndex}
		tgt := PinRef{Node: cd.TargetNodeID, Index: cd.TargetPinIndex}
		if _, err := g.connect(src, tgt, false); err != nil {
			return fmt.Errorf("connection %s -> %s: %w", src, tgt, err)
		}
	}
	return nil
}

// place registers a restored node under its persisted identity.
func (g *Graph) place(n Node, d NodeData) error {
	if d.ID != "" {
		if _, taken := g.nodes[d.ID]; taken {
			return fmt.Errorf("nodegraph: duplicate node id %s", d.ID)
		}
	}
	b := n.Core()
	if d.Name != "" {
		b.name = d.Name
	}
	b.Position = d.Position
	if ta, ok := n.(TypeAware); ok {
		ta.UseTypes(g.registry.Type)
	}
	if c, ok := n.(Configurable); ok && len(d.Properties) > 0 {
		if err := c.SetProperties(d.Properties); err != nil {
			return fmt.Errorf("node %s: %w", d.ID, err)
		}
	}
	g.insert(n, d.ID)
	return nil
}

func (g *Graph) restoreNode(d NodeData) (Node, error) {
	n, err := g.registry.create(d.ClassType)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", d.ID, err)
	}
	if err := g.place(n, d); err != nil {
		return nil, err
	}
	return n, nil
}

func (g *Graph) restoreConstant(d NodeConstantData) (*Constant, error) {
	t, ok := g.registry.Type(d.ConstantType)
	if !ok {
		return nil, fmt.Errorf("%w: constant %s: %q", ErrUnknownType, d.ID, d.ConstantType)
	}
	c, err := newConstant(t)
	if err != nil {
		return nil, err
	}
	if err := c.cell.Parse(d.Value); err != nil {
		return nil, fmt.Errorf("constant %s: %w", d.ID, err)
	}
	if err := g.place(c, d.NodeData); err != nil {
		return nil, err
	}
	return c, nil
}

func (g *Graph) restoreVariableNode(d NodeVariableData) (*VariableAccessor, error) {
	v := g.variable(d.VariableID)
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVariableNotFound, d.VariableID)
	}
	a, err := newVariableAccessor(v, d.AccessorType)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", d.ID, err)
	}
	if err := g.place(a, d.NodeData); err != nil {
		return nil, err
	}
	return a, nil
}

// Load builds a new graph of reg's type from d.
func Load(reg *Registry, d *GraphData, opts ...Option) (*Graph, error) {
	g := New(reg, opts...)
	if err := g.Load(d); err != nil {
		return nil, err
	}
	return g, nil
}
