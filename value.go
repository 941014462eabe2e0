package nodegraph

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Value is a typed, string-serializable value box. Variables and constant
// nodes keep their literal in one.
type Value struct {
	typ PinType
	val cty.Value
}

// NewValue returns a cell of type t holding t's zero value.
func NewValue(t PinType) *Value {
	return &Value{typ: t, val: t.Zero()}
}

// Type returns the declared type.
func (v *Value) Type() PinType { return v.typ }

// Get returns the current value.
func (v *Value) Get() cty.Value { return v.val }

// Set stores val, converting it to the declared type.
func (v *Value) Set(val cty.Value) error {
	converted, err := Assign(val, v.typ)
	if err != nil {
		return err
	}
	v.val = converted
	return nil
}

// SetType changes the declared type. The current value survives when it can be
// converted; otherwise the cell is reset to the new type's zero value.
func (v *Value) SetType(t PinType) {
	converted, err := Assign(v.val, t)
	if err != nil || converted.IsNull() {
		converted = t.Zero()
	}
	v.typ = t
	v.val = converted
}

// Parse replaces the value with the one encoded by literal.
func (v *Value) Parse(literal string) error {
	val, err := ParseLiteral(v.typ, literal)
	if err != nil {
		return err
	}
	v.val = val
	return nil
}

// String returns the literal form of the value.
func (v *Value) String() string { return FormatLiteral(v.val) }

// ParseLiteral decodes a persisted literal into a value of type t. An empty
// literal yields the zero value.
func ParseLiteral(t PinType, literal string) (cty.Value, error) {
	if literal == "" {
		return t.Zero(), nil
	}
	switch {
	case t.IsExecute(), t.IsNone():
		return cty.NilVal, fmt.Errorf("%w: %s pins hold no literal", ErrInvalidLiteral, t.Key)
	case t.IsAny():
		return cty.StringVal(literal), nil
	}
	val, err := convert.Convert(cty.StringVal(literal), t.Cty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %q as %s: %v", ErrInvalidLiteral, literal, t.Key, err)
	}
	if t.Key == KeyInt && !val.AsBigFloat().IsInt() {
		return cty.NilVal, fmt.Errorf("%w: %q is not a whole number", ErrInvalidLiteral, literal)
	}
	return Assign(val, t)
}

// FormatLiteral encodes val the way ParseLiteral reads it back. Null, unknown
// and non-primitive values encode as the empty string.
func FormatLiteral(val cty.Value) string {
	if val == cty.NilVal || val.IsNull() || !val.IsKnown() || !val.Type().IsPrimitiveType() {
		return ""
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return ""
	}
	return str.AsString()
}

// Assign converts val so it can be stored in a pin or cell of type t. Wildcard
// pins take any value as-is, float rounds to the nearest float64 and int
// truncates toward zero.
func Assign(val cty.Value, t PinType) (cty.Value, error) {
	if t.IsAny() {
		return val, nil
	}
	if val == cty.NilVal || val.IsNull() {
		return cty.NullVal(t.Cty), nil
	}
	if !val.IsKnown() {
		return cty.UnknownVal(t.Cty), nil
	}
	if val.Type().Equals(t.Cty) && !t.IsNumeric() {
		return val, nil
	}
	converted, err := convert.Convert(val, t.Cty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %s to %s: %v", ErrIncompatibleTypes, val.Type().FriendlyName(), t.Key, err)
	}
	switch t.Key {
	case KeyInt:
		converted = truncate(converted)
	case KeyFloat:
		f, _ := converted.AsBigFloat().Float64()
		converted = cty.NumberFloatVal(f)
	}
	return converted, nil
}

func truncate(val cty.Value) cty.Value {
	bf := val.AsBigFloat()
	if bf.IsInt() {
		return val
	}
	i, _ := bf.Int(nil)
	return cty.NumberVal(new(big.Float).SetInt(i))
}
