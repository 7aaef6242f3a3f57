package traits

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ValueType enumerates the types a trait value can carry on the wire.
type ValueType string

const (
	TypeString  ValueType = "unicode"
	TypeInteger ValueType = "int"
	TypeFloat   ValueType = "float"
	TypeBoolean ValueType = "bool"
)

// StringValueMaxLength caps stored trait strings. Anything longer is
// rejected at parse time rather than silently truncated.
const StringValueMaxLength = 2000

// Value is a typed trait value. The zero value is an empty string trait.
type Value struct {
	Type    ValueType
	Str     string
	Int     int64
	Float   float64
	Boolean bool
}

func NewString(s string) Value { return Value{Type: TypeString, Str: s} }
func NewInt(i int64) Value     { return Value{Type: TypeInteger, Int: i} }
func NewFloat(f float64) Value { return Value{Type: TypeFloat, Float: f} }
func NewBool(b bool) Value     { return Value{Type: TypeBoolean, Boolean: b} }

// ParseJSON builds a Value from a decoded JSON scalar. Unsupported types
// (objects, arrays) are stringified, matching the permissive behavior SDK
// clients rely on. A nil input is rejected: callers handle null as a delete
// marker before reaching this point.
func ParseJSON(raw json.RawMessage) (Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Value{}, ErrNullValue
	}

	var decoded any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return Value{}, errors.Join(ErrInvalidValue, err)
	}

	switch v := decoded.(type) {
	case bool:
		return NewBool(v), nil
	case string:
		if len(v) > StringValueMaxLength {
			return Value{}, ErrValueTooLong
		}
		return NewString(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, errors.Join(ErrInvalidValue, err)
		}
		return NewFloat(f), nil
	default:
		s := string(raw)
		if len(s) > StringValueMaxLength {
			return Value{}, ErrValueTooLong
		}
		return NewString(s), nil
	}
}

// MarshalJSON renders the value as the native JSON scalar of its type.
// Floats always carry a fractional part so the rendering stays
// distinguishable from an integer on the way back in.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case TypeInteger:
		return json.Marshal(v.Int)
	case TypeFloat:
		b, err := json.Marshal(v.Float)
		if err != nil {
			return nil, err
		}
		if !bytes.ContainsAny(b, ".eE") {
			b = append(b, '.', '0')
		}
		return b, nil
	case TypeBoolean:
		return json.Marshal(v.Boolean)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON decodes the scalar wire form back into a typed value, the
// inverse of MarshalJSON. Cached environment documents depend on this
// round-tripping without loss.
func (v *Value) UnmarshalJSON(raw []byte) error {
	parsed, err := ParseJSON(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String returns the canonical string rendering used for string-typed
// condition comparison and hashing.
func (v Value) String() string {
	switch v.Type {
	case TypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case TypeBoolean:
		if v.Boolean {
			return "True"
		}
		return "False"
	default:
		return v.Str
	}
}

// AsFloat reports the numeric interpretation of the value. String traits
// participate when they parse as a number; booleans never do.
func (v Value) AsFloat() (float64, bool) {
	switch v.Type {
	case TypeInteger:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	case TypeString:
		f, err := strconv.ParseFloat(v.Str, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Equal reports whether two values are identical in type and content.
func (v Value) Equal(other Value) bool {
	return v == other
}
