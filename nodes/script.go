package nodes

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/meikuraledutech/nodegraph"
	"github.com/zclconf/go-cty/cty"
)

// DefaultScript is the source a new script node starts with.
const DefaultScript = "return a + b"

// Script evaluates a Lua chunk with the globals a and b set from its inputs.
// The chunk's first return value becomes the result.
type Script struct {
	nodegraph.Base
	source string
}

func newScript() nodegraph.Node {
	n := &Script{source: DefaultScript}
	n.SetName("Lua")
	n.AddInput("a", nodegraph.TypeFloat)
	n.AddInput("b", nodegraph.TypeFloat)
	n.AddOutput("result", nodegraph.TypeFloat)
	return n
}

// Source returns the Lua source.
func (n *Script) Source() string { return n.source }

func (n *Script) Properties() map[string]string {
	return map[string]string{"script": n.source}
}

func (n *Script) SetProperties(props map[string]string) error {
	src, ok := props["script"]
	if !ok || src == "" {
		return nil
	}
	l := lua.NewState()
	if err := lua.LoadString(l, src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	n.source = src
	return nil
}

func (n *Script) Calculate() error {
	a, b := float(n.Input(PinA)), float(n.Input(PinB))

	l := lua.NewState()
	lua.Require(l, "_G", lua.BaseOpen, true)
	l.Pop(1)
	lua.Require(l, "math", lua.MathOpen, true)
	l.Pop(1)

	l.PushNumber(a)
	l.SetGlobal("a")
	l.PushNumber(b)
	l.SetGlobal("b")

	if err := lua.DoString(l, n.source); err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	if l.Top() == 0 {
		return fmt.Errorf("script returned no value")
	}
	result, ok := l.ToNumber(-1)
	if !ok {
		return fmt.Errorf("script returned %s, want a number", lua.TypeNameOf(l, -1))
	}
	l.Pop(1)
	return n.SetOutput(PinResult, cty.NumberFloatVal(result))
}

// float reads a number input. Null and unknown read as zero.
func float(v cty.Value) float64 {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return 0
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}
