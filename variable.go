package nodegraph

import "github.com/zclconf/go-cty/cty"

// Variable is named, typed storage shared by the accessor nodes bound to it.
type Variable struct {
	ID   string
	Name string

	cell *Value
}

func newVariable(id, name string, t PinType) *Variable {
	return &Variable{ID: id, Name: name, cell: NewValue(t)}
}

// Type returns the variable's declared type.
func (v *Variable) Type() PinType { return v.cell.Type() }

// Value returns the current value.
func (v *Variable) Value() cty.Value { return v.cell.Get() }

// Set stores val, converted to the variable's type.
func (v *Variable) Set(val cty.Value) error { return v.cell.Set(val) }

// Literal returns the persisted form of the current value.
func (v *Variable) Literal() string { return v.cell.String() }
