package models

import "encoding/json"

// Kind discriminates the variants of a frontmatter Value.
type Kind int

// Value kinds.
const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a closed tagged variant for frontmatter property values.
// Exactly one of the payload fields is meaningful, selected by Kind.
// Using a closed type instead of interface{} makes property access a
// deliberate switch on Kind rather than duck-typed assertions.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	List []Value
	Map  map[string]Value
}

// FromYAML converts a value decoded by yaml.v3 into a Value.
// Unrepresentable inputs (nil, unknown types) report ok=false.
func FromYAML(v any) (Value, bool) {
	switch t := v.(type) {
	case string:
		return Value{Kind: KindString, Str: t}, true
	case bool:
		return Value{Kind: KindBool, Bool: t}, true
	case int:
		return Value{Kind: KindNumber, Num: float64(t)}, true
	case int64:
		return Value{Kind: KindNumber, Num: float64(t)}, true
	case uint64:
		return Value{Kind: KindNumber, Num: float64(t)}, true
	case float64:
		return Value{Kind: KindNumber, Num: t}, true
	case []any:
		list := make([]Value, 0, len(t))
		for _, item := range t {
			if cv, ok := FromYAML(item); ok {
				list = append(list, cv)
			}
		}
		return Value{Kind: KindList, List: list}, true
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			if cv, ok := FromYAML(item); ok {
				m[k] = cv
			}
		}
		return Value{Kind: KindMap, Map: m}, true
	default:
		return Value{}, false
	}
}

// Strings returns the value as a flat string list: a string becomes a
// one-element list, a list yields its string elements, anything else is empty.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindString:
		return []string{v.Str}
	case KindList:
		var out []string
		for _, item := range v.List {
			if item.Kind == KindString {
				out = append(out, item.Str)
			}
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON emits the underlying value, so API payloads look like the
// original frontmatter rather than the tagged representation.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindMap:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	default:
		return []byte("null"), nil
	}
}
