package nodegraph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Direction tells whether a pin consumes or produces values.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Pin is a typed port occupying a fixed slot on its node. Retyping a pin keeps
// the slot index and the *Pin itself.
type Pin struct {
	Index     int
	Name      string
	Direction Direction
	Type      PinType
	Value     cty.Value
}

// IsExecute reports whether the pin carries control flow.
func (p *Pin) IsExecute() bool { return p.Type.IsExecute() }

// PinRef addresses a pin by node ID and slot index.
type PinRef struct {
	Node  string `json:"node" yaml:"node"`
	Index int    `json:"index" yaml:"index"`
}

func (r PinRef) String() string {
	return fmt.Sprintf("%s[%d]", r.Node, r.Index)
}
