package nodegraph

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Position is a node's location on the editor canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a computation unit owned by one Graph. Every kind embeds Base, which
// provides Core; behavior comes from the capability interfaces below.
type Node interface {
	Core() *Base
}

// Computable nodes derive their outputs from their inputs.
type Computable interface {
	Node
	Calculate() error
}

// Executable nodes perform a side effect when the control flow reaches them.
type Executable interface {
	Node
	Execute(ctx context.Context) error
}

// ControlFlowSource nodes choose which execute output the control flow leaves
// through. ok is false when the node has no exit to follow.
type ControlFlowSource interface {
	Node
	ExecuteOut() (index int, ok bool)
}

// Specializer nodes are told when one of their pins gets connected, so they can
// replace wildcard pins with the neighbor's concrete type.
type Specializer interface {
	Node
	PinConnected(local, remote *Pin)
}

// PinAcceptor nodes narrow which types may be connected to a pin beyond the
// generic compatibility rule.
type PinAcceptor interface {
	Node
	AcceptsPin(local *Pin, remote PinType) bool
}

// EventSource nodes are control-flow entry points named by an event.
type EventSource interface {
	Node
	Event() string
}

// TypeLookup resolves a pin type key, as Registry.Type does.
type TypeLookup func(key string) (PinType, bool)

// TypeAware nodes are handed the graph's type table before their properties
// are restored, so a persisted type key can name a host type.
type TypeAware interface {
	Node
	UseTypes(lookup TypeLookup)
}

// Configurable nodes persist extra string settings with their node data.
type Configurable interface {
	Node
	Properties() map[string]string
	SetProperties(props map[string]string) error
}

// Base holds the identity and pin slots shared by every node kind.
type Base struct {
	id       string
	name     string
	kind     string
	Position Position

	pins []*Pin
}

// Core returns b. Kinds embed Base to satisfy Node.
func (b *Base) Core() *Base { return b }

// ID returns the graph-assigned identifier.
func (b *Base) ID() string { return b.id }

// Name returns the display name.
func (b *Base) Name() string { return b.name }

// SetName changes the display name.
func (b *Base) SetName(name string) { b.name = name }

// Kind returns the registry key the node was created from.
func (b *Base) Kind() string { return b.kind }

// Pins returns every slot in index order.
func (b *Base) Pins() []*Pin { return b.pins }

// Pin returns the pin at slot i.
func (b *Base) Pin(i int) (*Pin, bool) {
	if i < 0 || i >= len(b.pins) {
		return nil, false
	}
	return b.pins[i], true
}

// InputPins returns the input slots in index order.
func (b *Base) InputPins() []*Pin { return b.filter(Input) }

// OutputPins returns the output slots in index order.
func (b *Base) OutputPins() []*Pin { return b.filter(Output) }

func (b *Base) filter(d Direction) []*Pin {
	out := make([]*Pin, 0, len(b.pins))
	for _, p := range b.pins {
		if p.Direction == d {
			out = append(out, p)
		}
	}
	return out
}

// AddInput appends an input slot and returns its index.
func (b *Base) AddInput(name string, t PinType) int { return b.addPin(name, Input, t) }

// AddOutput appends an output slot and returns its index.
func (b *Base) AddOutput(name string, t PinType) int { return b.addPin(name, Output, t) }

func (b *Base) addPin(name string, d Direction, t PinType) int {
	i := len(b.pins)
	b.pins = append(b.pins, &Pin{Index: i, Name: name, Direction: d, Type: t, Value: t.Zero()})
	return i
}

// SetPinType retypes slot i in place and resets its value.
func (b *Base) SetPinType(i int, t PinType) {
	p := b.pins[i]
	p.Type = t
	p.Value = t.Zero()
}

// HasExecutePins reports whether the node takes part in the control flow.
func (b *Base) HasExecutePins() bool {
	for _, p := range b.pins {
		if p.IsExecute() {
			return true
		}
	}
	return false
}

// Input returns the value currently held by slot i.
func (b *Base) Input(i int) cty.Value { return b.pins[i].Value }

// SetOutput stores val in slot i, converted to the slot's type.
func (b *Base) SetOutput(i int, val cty.Value) error {
	p := b.pins[i]
	converted, err := Assign(val, p.Type)
	if err != nil {
		return err
	}
	p.Value = converted
	return nil
}
