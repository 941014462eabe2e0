package nodegraph

import "fmt"

// ConnectionKind is derived from a connection's endpoints, never stored.
type ConnectionKind int

const (
	// ValueKind edges move data from an output to an input.
	ValueKind ConnectionKind = iota
	// ExecuteKind edges sequence side effects between execute pins.
	ExecuteKind
)

func (k ConnectionKind) String() string {
	if k == ExecuteKind {
		return "execute"
	}
	return "value"
}

// Connection is a directed edge from an output pin to an input pin.
type Connection struct {
	Source PinRef `json:"source" yaml:"source"`
	Target PinRef `json:"target" yaml:"target"`
}

// Touches reports whether either endpoint is ref.
func (c Connection) Touches(ref PinRef) bool {
	return c.Source == ref || c.Target == ref
}

// TouchesNode reports whether either endpoint lies on node id.
func (c Connection) TouchesNode(id string) bool {
	return c.Source.Node == id || c.Target.Node == id
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -> %s", c.Source, c.Target)
}
