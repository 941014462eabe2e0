package nodegraph

import (
	"context"
	"fmt"
)

// KindVariable is the registry key persisted for variable accessor nodes.
const KindVariable = "core/variable"

// Accessor selects which pins a variable node exposes.
type Accessor string

const (
	AccessGet    Accessor = "Get"
	AccessGetSet Accessor = "GetSet"
	AccessSet    Accessor = "Set"
)

// Valid reports whether a is one of the known accessors.
func (a Accessor) Valid() bool {
	return a == AccessGet || a == AccessGetSet || a == AccessSet
}

// Pin slots of variable accessor nodes.
const (
	// Get accessors only have the value output.
	GetValueOut = 0

	SetExecIn   = 0
	SetExecOut  = 1
	SetValueIn  = 2
	SetValueOut = 3 // GetSet only
)

// VariableAccessor reads or writes a graph variable. Its value pins mirror the
// variable's type.
type VariableAccessor struct {
	Base
	variable *Variable
	accessor Accessor
}

func newVariableAccessor(v *Variable, a Accessor) (*VariableAccessor, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("nodegraph: unknown accessor %q", a)
	}
	n := &VariableAccessor{variable: v, accessor: a}
	n.kind = KindVariable
	n.name = fmt.Sprintf("%s %s", a, v.Name)
	t := v.Type()
	switch a {
	case AccessGet:
		n.AddOutput("value", t)
	default:
		n.AddInput("in", TypeExecute)
		n.AddOutput("then", TypeExecute)
		n.AddInput("value", t)
		if a == AccessGetSet {
			n.AddOutput("value", t)
		}
	}
	return n, nil
}

// Variable returns the bound variable.
func (n *VariableAccessor) Variable() *Variable { return n.variable }

// Accessor returns the accessor kind.
func (n *VariableAccessor) Accessor() Accessor { return n.accessor }

// valuePins returns the slots whose type follows the variable.
func (n *VariableAccessor) valuePins() []int {
	switch n.accessor {
	case AccessGet:
		return []int{GetValueOut}
	case AccessSet:
		return []int{SetValueIn}
	default:
		return []int{SetValueIn, SetValueOut}
	}
}

// retype follows a change of the variable's type.
func (n *VariableAccessor) retype() {
	for _, i := range n.valuePins() {
		n.SetPinType(i, n.variable.Type())
	}
}

// Calculate publishes the variable's current value.
func (n *VariableAccessor) Calculate() error {
	switch n.accessor {
	case AccessGet:
		return n.SetOutput(GetValueOut, n.variable.Value())
	case AccessGetSet:
		return n.SetOutput(SetValueOut, n.variable.Value())
	}
	return nil
}

// Execute writes the value input into the variable.
func (n *VariableAccessor) Execute(ctx context.Context) error {
	if n.accessor == AccessGet {
		return nil
	}
	if err := n.variable.Set(n.Input(SetValueIn)); err != nil {
		return fmt.Errorf("set %s: %w", n.variable.Name, err)
	}
	if n.accessor == AccessGetSet {
		return n.SetOutput(SetValueOut, n.variable.Value())
	}
	return nil
}

// ExecuteOut continues through "then" on writing accessors.
func (n *VariableAccessor) ExecuteOut() (int, bool) {
	if n.accessor == AccessGet {
		return 0, false
	}
	return SetExecOut, true
}
