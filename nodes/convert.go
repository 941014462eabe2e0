package nodes

import (
	"fmt"

	"github.com/meikuraledutech/nodegraph"
	"github.com/zclconf/go-cty/cty/convert"
)

// Convert turns its input (slot 0) into another type on its output (slot 1).
type Convert struct {
	nodegraph.Base
	from, to nodegraph.PinType
}

func newConvert(from, to nodegraph.PinType) nodegraph.Factory {
	return func() nodegraph.Node {
		n := &Convert{from: from, to: to}
		n.SetName(fmt.Sprintf("%s to %s", from, to))
		n.AddInput("in", from)
		n.AddOutput("out", to)
		return n
	}
}

// ConvertKind is the registry key of the conversion from one type to another.
func ConvertKind(from, to nodegraph.PinType) string {
	return fmt.Sprintf("convert/%s-to-%s", from.Key, to.Key)
}

func (n *Convert) Calculate() error {
	in := n.Input(0)
	if in.IsNull() {
		return n.SetOutput(1, n.to.Zero())
	}
	out, err := convert.Convert(in, n.to.Cty)
	if err != nil {
		return fmt.Errorf("%s to %s: %w", n.from, n.to, err)
	}
	return n.SetOutput(1, out)
}

var conversions = [][2]nodegraph.PinType{
	{nodegraph.TypeFloat, nodegraph.TypeString},
	{nodegraph.TypeInt, nodegraph.TypeString},
	{nodegraph.TypeBool, nodegraph.TypeString},
	{nodegraph.TypeInt, nodegraph.TypeFloat},
	{nodegraph.TypeFloat, nodegraph.TypeInt},
	{nodegraph.TypeString, nodegraph.TypeFloat},
}
