package nodes

import (
	"fmt"

	"github.com/meikuraledutech/nodegraph"
	"github.com/zclconf/go-cty/cty"
)

// Comparison operators.
const (
	OpEqual    = "equal"
	OpNotEqual = "not-equal"
	OpLess     = "less"
	OpGreater  = "greater"
)

// Compare tests two operands and outputs a bool. Both operands follow the
// first concrete type connected to either of them.
type Compare struct {
	nodegraph.Base
	op          string
	specialized bool
	types       nodegraph.TypeLookup
}

func newCompare(op string) nodegraph.Factory {
	return func() nodegraph.Node {
		n := &Compare{op: op}
		n.SetName(op)
		n.AddInput("a", nodegraph.TypeAny)
		n.AddInput("b", nodegraph.TypeAny)
		n.AddOutput("result", nodegraph.TypeBool)
		return n
	}
}

func (n *Compare) ordered() bool { return n.op == OpLess || n.op == OpGreater }

func (n *Compare) AcceptsPin(local *nodegraph.Pin, remote nodegraph.PinType) bool {
	if local.Index == PinResult || !n.ordered() {
		return true
	}
	return remote.IsAny() || remote.IsNumeric()
}

func (n *Compare) PinConnected(local, remote *nodegraph.Pin) {
	if n.specialized || local.Index == PinResult || remote.Type.IsAny() {
		return
	}
	n.specialize(remote.Type)
}

func (n *Compare) specialize(t nodegraph.PinType) {
	n.SetPinType(PinA, t)
	n.SetPinType(PinB, t)
	n.specialized = true
}

func (n *Compare) UseTypes(lookup nodegraph.TypeLookup) { n.types = lookup }

// Properties records the operand type once it has been fixed.
func (n *Compare) Properties() map[string]string {
	if !n.specialized {
		return nil
	}
	return map[string]string{"type": n.Pins()[PinA].Type.Key}
}

func (n *Compare) SetProperties(props map[string]string) error {
	key := props["type"]
	if key == "" {
		return nil
	}
	lookup := n.types
	if lookup == nil {
		lookup = nodegraph.BuiltinType
	}
	t, ok := lookup(key)
	if !ok || t.IsAny() || t.IsExecute() || t.IsNone() {
		return fmt.Errorf("%w: %q", nodegraph.ErrUnknownType, key)
	}
	if n.ordered() && !t.IsNumeric() {
		return fmt.Errorf("%w: %q is not numeric", nodegraph.ErrUnknownType, key)
	}
	n.specialize(t)
	return nil
}

func (n *Compare) Calculate() error {
	a, b := n.Input(PinA), n.Input(PinB)
	var out cty.Value
	switch n.op {
	case OpEqual:
		out = a.Equals(b)
	case OpNotEqual:
		out = a.Equals(b).Not()
	case OpLess, OpGreater:
		x, err := operand(a)
		if err != nil {
			return fmt.Errorf("a: %w", err)
		}
		y, err := operand(b)
		if err != nil {
			return fmt.Errorf("b: %w", err)
		}
		if n.op == OpLess {
			out = x.LessThan(y)
		} else {
			out = x.GreaterThan(y)
		}
	default:
		return fmt.Errorf("unknown operator %q", n.op)
	}
	return n.SetOutput(PinResult, out)
}
