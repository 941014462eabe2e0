package nodes

import (
	"fmt"

	"github.com/meikuraledutech/nodegraph"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Arithmetic operators.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// Pin slots shared by binary operator nodes.
const (
	PinA      = 0
	PinB      = 1
	PinResult = 2
)

// Arithmetic applies a binary operator to two numbers. Its pins start as
// wildcards; the first float or int pin connected to any of them fixes the
// type of all three. Specialization happens once and is not undone by
// disconnecting.
type Arithmetic struct {
	nodegraph.Base
	op          string
	specialized bool
}

func newArithmetic(op string) nodegraph.Factory {
	return func() nodegraph.Node {
		n := &Arithmetic{op: op}
		n.SetName(op)
		n.AddInput("a", nodegraph.TypeAny)
		n.AddInput("b", nodegraph.TypeAny)
		n.AddOutput("result", nodegraph.TypeAny)
		return n
	}
}

// Specialized reports whether the wildcard pins have been fixed.
func (n *Arithmetic) Specialized() bool { return n.specialized }

func (n *Arithmetic) AcceptsPin(local *nodegraph.Pin, remote nodegraph.PinType) bool {
	return remote.IsAny() || remote.IsNumeric()
}

func (n *Arithmetic) PinConnected(local, remote *nodegraph.Pin) {
	if n.specialized || !remote.Type.IsNumeric() {
		return
	}
	n.specialize(remote.Type)
}

func (n *Arithmetic) specialize(t nodegraph.PinType) {
	for _, p := range n.Pins() {
		if p.Type.IsAny() {
			n.SetPinType(p.Index, t)
		}
	}
	n.specialized = true
}

// Properties records the specialized type so a reloaded node keeps it even
// when the connection that caused it is gone.
func (n *Arithmetic) Properties() map[string]string {
	if !n.specialized {
		return nil
	}
	return map[string]string{"type": n.Pins()[PinResult].Type.Key}
}

func (n *Arithmetic) SetProperties(props map[string]string) error {
	switch key := props["type"]; key {
	case "":
	case nodegraph.KeyFloat:
		n.specialize(nodegraph.TypeFloat)
	case nodegraph.KeyInt:
		n.specialize(nodegraph.TypeInt)
	default:
		return fmt.Errorf("%w: %q is not numeric", nodegraph.ErrUnknownType, key)
	}
	return nil
}

func (n *Arithmetic) Calculate() error {
	a, err := operand(n.Input(PinA))
	if err != nil {
		return fmt.Errorf("a: %w", err)
	}
	b, err := operand(n.Input(PinB))
	if err != nil {
		return fmt.Errorf("b: %w", err)
	}

	var out cty.Value
	switch n.op {
	case OpAdd:
		out = a.Add(b)
	case OpSubtract:
		out = a.Subtract(b)
	case OpMultiply:
		out = a.Multiply(b)
	case OpDivide:
		if b.Equals(cty.Zero).True() {
			return fmt.Errorf("division by zero")
		}
		out = a.Divide(b)
	default:
		return fmt.Errorf("unknown operator %q", n.op)
	}
	return n.SetOutput(PinResult, out)
}

// operand reads a numeric input. Unset inputs count as zero.
func operand(v cty.Value) (cty.Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return cty.Zero, nil
	}
	return convert.Convert(v, cty.Number)
}
