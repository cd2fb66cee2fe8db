package method

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// ParamKind is the value shape of a parameter.
type ParamKind string

const (
	KindNumber  ParamKind = "number"
	KindSelect  ParamKind = "select"
	KindBoolean ParamKind = "boolean"
)

// Option is one choice of a select parameter.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ParamDef declares one parameter a method accepts.
//
// Default holds a float64 for numbers, a string for selects and a bool for
// booleans. Min, Max and Step only apply to numbers; Step <= 0 means any
// value in range is accepted.
type ParamDef struct {
	Key        string    `json:"key"`
	Kind       ParamKind `json:"type"`
	Label      string    `json:"label"`
	HelperText string    `json:"helperText,omitempty"`
	Default    any       `json:"default"`
	Min        float64   `json:"min,omitempty"`
	Max        float64   `json:"max,omitempty"`
	Step       float64   `json:"step,omitempty"`
	Options    []Option  `json:"options,omitempty"`
}

// Values is a coerced parameter set: one entry per ParamDef, typed per kind.
type Values map[string]any

// Number returns the number stored under key, or 0.
func (v Values) Number(key string) float64 {
	f, _ := v[key].(float64)
	return f
}

// Int returns the number stored under key truncated to an int.
func (v Values) Int(key string) int {
	return int(v.Number(key))
}

// Select returns the select value stored under key, or "".
func (v Values) Select(key string) string {
	s, _ := v[key].(string)
	return s
}

// Bool returns the boolean stored under key, or false.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Map returns a plain copy suitable for serialization.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Defaults returns the declared default of every parameter.
func Defaults(defs []ParamDef) Values {
	out := make(Values, len(defs))
	for _, def := range defs {
		out[def.Key] = def.Default
	}
	return out
}

// Resolve coerces an arbitrary mapping into a fully defined parameter set.
// Keys the schema does not declare are dropped. A declared key that is
// missing, of the wrong shape, or fails its constraint takes the default.
// Resolve never fails.
func Resolve(defs []ParamDef, raw map[string]any) Values {
	out := make(Values, len(defs))
	for _, def := range defs {
		value, ok := raw[def.Key]
		if !ok {
			out[def.Key] = def.Default
			continue
		}
		if coerced, ok := def.coerce(value); ok {
			out[def.Key] = coerced
		} else {
			out[def.Key] = def.Default
		}
	}
	return out
}

func (d ParamDef) coerce(value any) (any, bool) {
	switch d.Kind {
	case KindNumber:
		f, ok := toFloat(value)
		if !ok || !d.inRange(f) {
			return nil, false
		}
		return f, true
	case KindSelect:
		s, ok := value.(string)
		if !ok || !d.hasOption(s) {
			return nil, false
		}
		return s, true
	case KindBoolean:
		b, ok := value.(bool)
		return b, ok
	}
	return nil, false
}

func (d ParamDef) inRange(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f < d.Min || f > d.Max {
		return false
	}
	if d.Step > 0 {
		steps := (f - d.Min) / d.Step
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			return false
		}
	}
	return true
}

func (d ParamDef) hasOption(s string) bool {
	return slices.ContainsFunc(d.Options, func(o Option) bool { return o.Value == s })
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ValidateDefs checks that keys are unique and that every default satisfies
// its own declaration.
func ValidateDefs(defs []ParamDef) error {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Key == "" {
			return fmt.Errorf("%w: parameter with empty key", ErrInvalidDescriptor)
		}
		if _, dup := seen[def.Key]; dup {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidDescriptor, def.Key)
		}
		seen[def.Key] = struct{}{}

		switch def.Kind {
		case KindNumber:
			if def.Min > def.Max {
				return fmt.Errorf("%w: parameter %q has min > max", ErrInvalidDescriptor, def.Key)
			}
			f, ok := def.Default.(float64)
			if !ok || !def.inRange(f) {
				return fmt.Errorf("%w: parameter %q default %v outside [%v,%v]", ErrInvalidDescriptor, def.Key, def.Default, def.Min, def.Max)
			}
		case KindSelect:
			if len(def.Options) == 0 {
				return fmt.Errorf("%w: select %q has no options", ErrInvalidDescriptor, def.Key)
			}
			s, ok := def.Default.(string)
			if !ok || !def.hasOption(s) {
				return fmt.Errorf("%w: select %q default %v is not an option", ErrInvalidDescriptor, def.Key, def.Default)
			}
		case KindBoolean:
			if _, ok := def.Default.(bool); !ok {
				return fmt.Errorf("%w: boolean %q default %v is not a bool", ErrInvalidDescriptor, def.Key, def.Default)
			}
		default:
			return fmt.Errorf("%w: parameter %q has unknown kind %q", ErrInvalidDescriptor, def.Key, def.Kind)
		}
	}
	return nil
}
