package graph

import (
	"encoding/json"
	"fmt"
	"math"
)

// InitialValue is the startup value of a signal: either a bool or a number.
// The zero value is the number 0.
type InitialValue struct {
	isBool bool
	b      bool
	n      float64
}

// BoolInitial returns an InitialValue holding a bool.
func BoolInitial(b bool) InitialValue {
	return InitialValue{isBool: true, b: b}
}

// NumberInitial returns an InitialValue holding a number.
func NumberInitial(n float64) InitialValue {
	return InitialValue{n: n}
}

// IsBool reports whether the value is a bool.
func (v InitialValue) IsBool() bool { return v.isBool }

// Bool returns the bool value, or false if the value is a number.
func (v InitialValue) Bool() bool { return v.isBool && v.b }

// Number returns the numeric value, or 0 if the value is a bool.
func (v InitialValue) Number() float64 {
	if v.isBool {
		return 0
	}
	return v.n
}

// Value returns the underlying value for serialization. Integral numbers
// come back as int64 so that an initial of 0 is emitted as 0, not 0.0.
func (v InitialValue) Value() any {
	if v.isBool {
		return v.b
	}
	if v.n == math.Trunc(v.n) && !math.IsInf(v.n, 0) {
		return int64(v.n)
	}
	return v.n
}

// InitialFrom converts a decoded bool/int/float into an InitialValue.
func InitialFrom(raw any) (InitialValue, error) {
	switch x := raw.(type) {
	case nil:
		return InitialValue{}, nil
	case bool:
		return BoolInitial(x), nil
	case int:
		return NumberInitial(float64(x)), nil
	case int64:
		return NumberInitial(float64(x)), nil
	case uint64:
		return NumberInitial(float64(x)), nil
	case float32:
		return NumberInitial(float64(x)), nil
	case float64:
		return NumberInitial(x), nil
	default:
		return InitialValue{}, fmt.Errorf("initial value must be a bool or a number, got %T", raw)
	}
}

// MarshalJSON implements json.Marshaler.
func (v InitialValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Value())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *InitialValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// encoding/json decodes every number as float64
	parsed, err := InitialFrom(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v InitialValue) MarshalYAML() (any, error) {
	return v.Value(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *InitialValue) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := InitialFrom(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
