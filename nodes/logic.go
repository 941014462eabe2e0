package nodes

import (
	"fmt"

	"github.com/meikuraledutech/nodegraph"
	"github.com/zclconf/go-cty/cty"
)

// Logic operators.
const (
	OpAnd = "and"
	OpOr  = "or"
	OpNot = "not"
)

// Logic combines bool inputs. "not" has a single input, so its result sits
// at slot 1.
type Logic struct {
	nodegraph.Base
	op string
}

func newLogic(op string) nodegraph.Factory {
	return func() nodegraph.Node {
		n := &Logic{op: op}
		n.SetName(op)
		n.AddInput("a", nodegraph.TypeBool)
		if op != OpNot {
			n.AddInput("b", nodegraph.TypeBool)
		}
		n.AddOutput("result", nodegraph.TypeBool)
		return n
	}
}

func (n *Logic) Calculate() error {
	a := truth(n.Input(PinA))
	if n.op == OpNot {
		return n.SetOutput(1, cty.BoolVal(!a))
	}
	b := truth(n.Input(PinB))
	switch n.op {
	case OpAnd:
		return n.SetOutput(PinResult, cty.BoolVal(a && b))
	case OpOr:
		return n.SetOutput(PinResult, cty.BoolVal(a || b))
	}
	return fmt.Errorf("unknown operator %q", n.op)
}

// truth reads a bool input. Null and unknown read as false.
func truth(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Bool) {
		return false
	}
	return v.True()
}
