package synth

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a synthesized example value: null, bool, number, string,
// sequence, or a mapping with stable key order.
//
// The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	items  []Value
	fields *orderedmap.OrderedMap[string, Value]
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value with the given literal text.
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence returns a sequence holding items.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Mapping returns an empty mapping. Entries are added with Set.
func Mapping() Value {
	return Value{kind: KindMapping, fields: orderedmap.New[string, Value]()}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric literal held by v.
func (v Value) AsNumber() json.Number { return v.num }

// AsString returns the string held by v.
func (v Value) AsString() string { return v.str }

// Items returns the elements of a sequence.
func (v Value) Items() []Value { return v.items }

// Set adds or replaces key in a mapping. A replaced key keeps its position.
// Set panics if v is not a mapping.
func (v Value) Set(key string, val Value) {
	if v.kind != KindMapping {
		panic("synth: Set on " + v.kind.String())
	}
	v.fields.Set(key, val)
}

// Get returns the entry for key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	return v.fields.Get(key)
}

// Keys returns the keys of a mapping in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, v.fields.Len())
	for p := v.fields.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len returns the number of elements of a sequence or entries of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return v.fields.Len()
	default:
		return 0
	}
}

// Depth returns the number of nested container levels in v.
// Scalars have depth 0; an empty container has depth 1.
func (v Value) Depth() int {
	var children []Value
	switch v.kind {
	case KindSequence:
		children = v.items
	case KindMapping:
		for p := v.fields.Oldest(); p != nil; p = p.Next() {
			children = append(children, p.Value)
		}
	default:
		return 0
	}
	deepest := 0
	for _, c := range children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// MarshalJSON renders v. Null entries are written, never omitted.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindString:
		return json.Marshal(v.str)
	case KindSequence:
		return json.Marshal(v.items)
	case KindMapping:
		return v.fields.MarshalJSON()
	default:
		return nil, fmt.Errorf("synth: cannot marshal %s", v.kind)
	}
}
