package nodegraph

import "fmt"

// KindConstant is the registry key persisted for constant nodes.
const KindConstant = "core/constant"

// Constant is a node whose single output is a literal held in a Value cell.
type Constant struct {
	Base
	cell *Value
}

func newConstant(t PinType) (*Constant, error) {
	if t.IsExecute() || t.IsNone() {
		return nil, fmt.Errorf("%w: constants cannot be of type %s", ErrInvalidLiteral, t.Key)
	}
	c := &Constant{cell: NewValue(t)}
	c.kind = KindConstant
	c.name = "Constant"
	c.AddOutput("value", t)
	return c, nil
}

// Cell exposes the literal. Use Graph.SetConstant to change it.
func (c *Constant) Cell() *Value { return c.cell }

// Calculate publishes the literal on the output pin.
func (c *Constant) Calculate() error {
	return c.SetOutput(0, c.cell.Get())
}
