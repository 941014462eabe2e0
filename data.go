package nodegraph

// NodeData is the persisted form of a plain node.
type NodeData struct {
	ClassType  string            `json:"class_type" yaml:"class_type"`
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name" yaml:"name"`
	Position   Position          `json:"position" yaml:"position"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// NodeConstantData is the persisted form of a constant node.
type NodeConstantData struct {
	NodeData     `yaml:",inline"`
	ConstantType string `json:"constant_type" yaml:"constant_type"`
	Value        string `json:"value" yaml:"value"`
}

// NodeVariableData is the persisted form of a variable accessor node.
type NodeVariableData struct {
	NodeData     `yaml:",inline"`
	VariableID   string   `json:"variable_id" yaml:"variable_id"`
	AccessorType Accessor `json:"accessor_type" yaml:"accessor_type"`
}

// NodeConnectionData is the persisted form of a connection.
type NodeConnectionData struct {
	SourceNodeID   string `json:"source_node_id" yaml:"source_node_id"`
	SourcePinIndex int    `json:"source_pin_index" yaml:"source_pin_index"`
	TargetNodeID   string `json:"target_node_id" yaml:"target_node_id"`
	TargetPinIndex int    `json:"target_pin_index" yaml:"target_pin_index"`
}

// NodeGraphVariableData is the persisted form of a variable.
type NodeGraphVariableData struct {
	Name         string `json:"name" yaml:"name"`
	ID           string `json:"id" yaml:"id"`
	VariableType string `json:"variable_type" yaml:"variable_type"`
	Value        string `json:"value" yaml:"value"`
}

// GraphData is the host-facing document a graph saves to and loads from.
type GraphData struct {
	GraphType     string                  `json:"graph_type" yaml:"graph_type"`
	Nodes         []NodeData              `json:"nodes" yaml:"nodes"`
	Constants     []NodeConstantData      `json:"constants" yaml:"constants"`
	VariableNodes []NodeVariableData      `json:"variable_nodes" yaml:"variable_nodes"`
	Connections   []NodeConnectionData    `json:"connections" yaml:"connections"`
	Variables     []NodeGraphVariableData `json:"variables" yaml:"variables"`
}

// Clone returns a deep copy of d.
func (d *GraphData) Clone() *GraphData {
	if d == nil {
		return nil
	}
	out := &GraphData{GraphType: d.GraphType}
	for _, n := range d.Nodes {
		out.Nodes = append(out.Nodes, n.clone())
	}
	for _, c := range d.Constants {
		c.NodeData = c.NodeData.clone()
		out.Constants = append(out.Constants, c)
	}
	for _, v := range d.VariableNodes {
		v.NodeData = v.NodeData.clone()
		out.VariableNodes = append(out.VariableNodes, v)
	}
	out.Connections = append(out.Connections, d.Connections...)
	out.Variables = append(out.Variables, d.Variables...)
	return out
}

func (n NodeData) clone() NodeData {
	if n.Properties != nil {
		props := make(map[string]string, len(n.Properties))
		for k, v := range n.Properties {
			props[k] = v
		}
		n.Properties = props
	}
	return n
}
