package nodegraph

import (
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// PinType describes what a pin carries. Types are identified by Key, which is
// also the string persisted in graph documents.
type PinType struct {
	Key string
	Cty cty.Type

	zero     cty.Value
	execute  bool
	wildcard bool
	none     bool
}

// Built-in pin type keys.
const (
	KeyExecute = "execute"
	KeyAny     = "any"
	KeyNone    = "none"
	KeyFloat   = "float"
	KeyInt     = "int"
	KeyString  = "string"
	KeyBool    = "bool"
)

type executeSignal struct{}

type noValue struct{}

var (
	executeCty = cty.Capsule("execute", reflect.TypeOf(executeSignal{}))
	noneCty    = cty.Capsule("none", reflect.TypeOf(noValue{}))
)

// Built-in pin types.
var (
	TypeExecute = PinType{Key: KeyExecute, Cty: executeCty, zero: cty.NullVal(executeCty), execute: true}
	TypeAny     = PinType{Key: KeyAny, Cty: cty.DynamicPseudoType, zero: cty.NullVal(cty.DynamicPseudoType), wildcard: true}
	TypeNone    = PinType{Key: KeyNone, Cty: noneCty, zero: cty.NullVal(noneCty), none: true}
	TypeFloat   = PinType{Key: KeyFloat, Cty: cty.Number, zero: cty.Zero}
	TypeInt     = PinType{Key: KeyInt, Cty: cty.Number, zero: cty.Zero}
	TypeString  = PinType{Key: KeyString, Cty: cty.String, zero: cty.StringVal("")}
	TypeBool    = PinType{Key: KeyBool, Cty: cty.Bool, zero: cty.False}
)

// BuiltinTypes returns the pin types every registry starts with.
func BuiltinTypes() []PinType {
	return []PinType{TypeExecute, TypeAny, TypeNone, TypeFloat, TypeInt, TypeString, TypeBool}
}

// BuiltinType looks up one of the built-in pin types by key.
func BuiltinType(key string) (PinType, bool) {
	for _, t := range BuiltinTypes() {
		if t.Key == key {
			return t, true
		}
	}
	return PinType{}, false
}

// NewPinType defines a host data type. Without an explicit zero value, fresh
// pins of the type hold cty.NullVal(ty).
func NewPinType(key string, ty cty.Type, zero ...cty.Value) PinType {
	t := PinType{Key: key, Cty: ty, zero: cty.NullVal(ty)}
	if len(zero) > 0 {
		t.zero = zero[0]
	}
	return t
}

// Is reports whether t and o are the same pin type.
func (t PinType) Is(o PinType) bool { return t.Key == o.Key }

// IsExecute reports whether pins of this type carry control flow.
func (t PinType) IsExecute() bool { return t.execute }

// IsAny reports whether t is the wildcard placeholder type.
func (t PinType) IsAny() bool { return t.wildcard }

// IsNone reports whether t is the "None" type, which never connects.
func (t PinType) IsNone() bool { return t.none }

// IsNumeric reports whether t is float or int.
func (t PinType) IsNumeric() bool { return t.Key == KeyFloat || t.Key == KeyInt }

// Zero returns the value a fresh pin or cell of this type holds.
func (t PinType) Zero() cty.Value { return t.zero }

func (t PinType) String() string { return t.Key }

// Compatible reports whether an output of type a may feed an input of type b.
// It is symmetric.
func Compatible(a, b PinType) bool {
	if a.none || b.none {
		return false
	}
	if a.Is(b) {
		return true
	}
	if a.execute || b.execute {
		return false
	}
	return a.wildcard || b.wildcard
}
