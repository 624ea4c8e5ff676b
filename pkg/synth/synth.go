package synth

import (
	"strings"

	"github.com/getmockd/feignbridge/pkg/typedesc"
)

// DefaultMaxDepth bounds recursion into nested composite types.
const DefaultMaxDepth = 3

// MaxDepthLimit is the largest accepted depth bound. Output can grow
// exponentially with depth when types refer to each other through
// several fields.
const MaxDepthLimit = 10

// Placeholder values used for leaf types.
const (
	PlaceholderString    = "string"
	PlaceholderChar      = "a"
	PlaceholderTimestamp = "2026-01-01 12:00:00"
	PlaceholderDecimal   = "0.00"
	PlaceholderMapKey    = "key"
)

var (
	booleanTypes = map[string]bool{
		"boolean":           true,
		"java.lang.Boolean": true,
	}
	numericTypes = map[string]bool{
		"byte":   true,
		"short":  true,
		"int":    true,
		"long":   true,
		"float":  true,
		"double": true,

		"java.lang.Byte":    true,
		"java.lang.Short":   true,
		"java.lang.Integer": true,
		"java.lang.Long":    true,
		"java.lang.Float":   true,
		"java.lang.Double":  true,
	}
	charTypes = map[string]bool{
		"char":                true,
		"java.lang.Character": true,
	}
	timestampTypes = map[string]bool{
		"java.util.Date":          true,
		"java.time.LocalDateTime": true,
		"java.time.LocalDate":     true,
		"java.sql.Date":           true,
		"java.sql.Timestamp":      true,
	}
	collectionTypes = map[string]bool{
		"java.lang.Iterable":      true,
		"java.util.Collection":    true,
		"java.util.List":          true,
		"java.util.ArrayList":     true,
		"java.util.LinkedList":    true,
		"java.util.Set":           true,
		"java.util.HashSet":       true,
		"java.util.LinkedHashSet": true,
		"java.util.SortedSet":     true,
		"java.util.TreeSet":       true,
	}
	mapTypes = map[string]bool{
		"java.util.Map":                          true,
		"java.util.HashMap":                      true,
		"java.util.LinkedHashMap":                true,
		"java.util.SortedMap":                    true,
		"java.util.TreeMap":                      true,
		"java.util.concurrent.ConcurrentHashMap": true,
	}
)

// platformPrefixes mark the standard library namespace. Unhandled types in
// it are rendered as empty mappings instead of being walked field by field.
var platformPrefixes = []string{"java.", "javax."}

// Synthesizer produces example values for types.
// It holds no mutable state and is safe for concurrent use.
type Synthesizer struct {
	resolver typedesc.Resolver
	maxDepth int
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMaxDepth sets the deepest nesting level that is expanded. Deeper
// positions are rendered as null. Negative values are ignored and values
// above MaxDepthLimit are clamped to it.
func WithMaxDepth(depth int) Option {
	return func(s *Synthesizer) {
		if depth >= 0 {
			s.maxDepth = min(depth, MaxDepthLimit)
		}
	}
}

// New creates a Synthesizer that resolves class declarations through r.
// A nil resolver resolves nothing.
func New(r typedesc.Resolver, opts ...Option) *Synthesizer {
	if r == nil {
		r = emptyResolver{}
	}
	s := &Synthesizer{resolver: r, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxDepth returns the configured depth bound.
func (s *Synthesizer) MaxDepth() int { return s.maxDepth }

// Synthesize returns an example value for t. It never fails: anything that
// cannot be resolved becomes null or an empty mapping.
func (s *Synthesizer) Synthesize(t typedesc.TypeRef) Value {
	return s.generate(typedesc.Qualify(s.resolver, t), 0)
}

// JSON returns the indented JSON rendering of an example value for t.
func (s *Synthesizer) JSON(t typedesc.TypeRef) string {
	out, err := Render(s.Synthesize(t))
	if err != nil {
		return "{}"
	}
	return string(out)
}

func (s *Synthesizer) generate(t typedesc.TypeRef, depth int) Value {
	if t.IsZero() || depth > s.maxDepth {
		return Null()
	}

	switch t.Kind {
	case typedesc.KindArray:
		if t.Component == nil {
			return Sequence(Null())
		}
		return Sequence(s.generate(*t.Component, depth+1))
	case typedesc.KindTypeVar:
		// An unsubstituted variable has no concrete type to describe.
		return Null()
	}

	if v, ok := leaf(t.Name); ok {
		return v
	}
	if t.Kind == typedesc.KindPrimitive {
		return Mapping()
	}

	if collectionTypes[t.Name] {
		elem, _ := t.Arg(0)
		return Sequence(s.generate(elem, depth+1))
	}
	if mapTypes[t.Name] {
		val, _ := t.Arg(1)
		m := Mapping()
		m.Set(PlaceholderMapKey, s.generate(val, depth+1))
		return m
	}

	def, ok := s.resolver.Resolve(t.Name)
	if !ok {
		return Mapping()
	}
	if def.Enum {
		if len(def.Constants) == 0 {
			return String("")
		}
		return String(def.Constants[0])
	}
	if isPlatform(t.Name) {
		return Mapping()
	}
	return s.composite(t, depth)
}

// composite walks every instance field of t's class hierarchy.
func (s *Synthesizer) composite(t typedesc.TypeRef, depth int) Value {
	obj := Mapping()
	fields, _ := typedesc.AllFields(s.resolver, t)
	for _, f := range fields {
		if f.Static || f.Transient {
			continue
		}
		if f.Type.Equal(t) {
			obj.Set(f.Name, Null())
			continue
		}
		obj.Set(f.Name, s.generate(f.Type, depth+1))
	}
	return obj
}

// leaf returns the placeholder for scalar-like types.
func leaf(name string) (Value, bool) {
	switch {
	case booleanTypes[name]:
		return Bool(true), true
	case numericTypes[name]:
		return Number("0"), true
	case name == "java.lang.String":
		return String(PlaceholderString), true
	case charTypes[name]:
		return String(PlaceholderChar), true
	case timestampTypes[name]:
		return String(PlaceholderTimestamp), true
	case name == "java.math.BigDecimal":
		return Number(PlaceholderDecimal), true
	default:
		return Value{}, false
	}
}

func isPlatform(name string) bool {
	for _, p := range platformPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

type emptyResolver struct{}

func (emptyResolver) Resolve(string) (*typedesc.ClassDef, bool) { return nil, false }
