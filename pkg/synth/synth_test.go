package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/feignbridge/pkg/typedesc"
)

// --- Helpers ---

func registry(t *testing.T, defs ...typedesc.ClassDef) *typedesc.Registry {
	t.Helper()
	r, err := typedesc.NewRegistry(defs...)
	require.NoError(t, err)
	return r
}

func field(name, typ string) typedesc.Field {
	return typedesc.Field{Name: name, Type: typedesc.MustParseTypeRef(typ)}
}

func ref(text string) typedesc.TypeRef {
	return typedesc.MustParseTypeRef(text)
}

func render(t *testing.T, v Value) string {
	t.Helper()
	out, err := Render(v)
	require.NoError(t, err)
	return string(out)
}

// --- Leaf types ---

func TestSynthesize_Leaves(t *testing.T) {
	s := New(nil)

	tests := []struct {
		typ  string
		want string
	}{
		{"boolean", "true"},
		{"java.lang.Boolean", "true"},
		{"int", "0"},
		{"long", "0"},
		{"double", "0"},
		{"java.lang.Integer", "0"},
		{"java.lang.Float", "0"},
		{"java.lang.Byte", "0"},
		{"java.lang.String", `"string"`},
		{"char", `"a"`},
		{"java.lang.Character", `"a"`},
		{"java.util.Date", `"2026-01-01 12:00:00"`},
		{"java.time.LocalDate", `"2026-01-01 12:00:00"`},
		{"java.time.LocalDateTime", `"2026-01-01 12:00:00"`},
		{"java.math.BigDecimal", "0.00"},
		{"void", "{}"},
		{"java.util.UUID", "{}"},
		{"com.x.Unknown", "{}"},
		{"T", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, s.Synthesize(ref(tt.typ))))
		})
	}
}

func TestSynthesize_ZeroRef(t *testing.T) {
	assert.True(t, New(nil).Synthesize(typedesc.TypeRef{}).IsNull())
}

// --- Containers ---

func TestSynthesize_Collections(t *testing.T) {
	s := New(nil)

	v := s.Synthesize(ref("java.util.List<java.lang.String>"))
	require.Equal(t, KindSequence, v.Kind())
	require.Len(t, v.Items(), 1)
	assert.Equal(t, "string", v.Items()[0].AsString())

	raw := s.Synthesize(ref("java.util.List"))
	require.Equal(t, KindSequence, raw.Kind())
	require.Len(t, raw.Items(), 1)
	assert.True(t, raw.Items()[0].IsNull())

	set := s.Synthesize(ref("java.util.Set<java.lang.Long>"))
	assert.Equal(t, "[\n  0\n]", render(t, set))

	arr := s.Synthesize(ref("int[]"))
	assert.Equal(t, "[\n  0\n]", render(t, arr))
}

func TestSynthesize_Maps(t *testing.T) {
	s := New(nil)

	v := s.Synthesize(ref("java.util.Map<java.lang.String,java.lang.Boolean>"))
	require.Equal(t, KindMapping, v.Kind())
	assert.Equal(t, []string{"key"}, v.Keys())
	got, ok := v.Get("key")
	require.True(t, ok)
	assert.True(t, got.AsBool())

	raw := s.Synthesize(ref("java.util.HashMap"))
	assert.Equal(t, "{\n  \"key\": null\n}", render(t, raw))

	// A single argument is the key type only.
	one := s.Synthesize(ref("java.util.Map<java.lang.String>"))
	val, _ := one.Get("key")
	assert.True(t, val.IsNull())
}

// --- Enums ---

func TestSynthesize_Enum(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.Color", Enum: true, Constants: []string{"A", "B"}},
		typedesc.ClassDef{Name: "com.x.Empty", Enum: true},
		typedesc.ClassDef{Name: "java.time.DayOfWeek", Enum: true, Constants: []string{"MONDAY"}},
	))

	assert.Equal(t, `"A"`, render(t, s.Synthesize(ref("com.x.Color"))))
	assert.Equal(t, `""`, render(t, s.Synthesize(ref("com.x.Empty"))))
	assert.Equal(t, `"MONDAY"`, render(t, s.Synthesize(ref("java.time.DayOfWeek"))))
}

// --- Composite types ---

func TestSynthesize_Composite(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.User", Fields: []typedesc.Field{
			field("id", "long"),
			field("name", "java.lang.String"),
			field("tags", "java.util.List<java.lang.String>"),
			field("attrs", "java.util.Map<java.lang.String,java.lang.Integer>"),
			{Name: "SERIAL", Type: ref("long"), Static: true},
			{Name: "cache", Type: ref("java.lang.Object"), Transient: true},
			field("balance", "java.math.BigDecimal"),
			field("createdAt", "java.util.Date"),
		}},
	))

	want := `{
  "id": 0,
  "name": "string",
  "tags": [
    "string"
  ],
  "attrs": {
    "key": 0
  },
  "balance": 0.00,
  "createdAt": "2026-01-01 12:00:00"
}`
	assert.Equal(t, want, s.JSON(ref("com.x.User")))
}

func TestSynthesize_PlatformClassIsOpaque(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "java.util.Optional", TypeParams: []string{"T"}, Fields: []typedesc.Field{field("value", "T")}},
	))
	assert.Equal(t, "{}", render(t, s.Synthesize(ref("java.util.Optional<java.lang.String>"))))
}

func TestSynthesize_GenericSubstitution(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.Result", TypeParams: []string{"T"}, Fields: []typedesc.Field{
			field("code", "int"),
			field("data", "T"),
		}},
		typedesc.ClassDef{Name: "com.x.Page", TypeParams: []string{"E"}, Fields: []typedesc.Field{
			field("records", "java.util.List<E>"),
		}},
	))

	v := s.Synthesize(ref("com.x.Result<com.x.Page<java.lang.String>>"))
	assert.Equal(t, `{
  "code": 0,
  "data": {
    "records": [
      "string"
    ]
  }
}`, render(t, v))

	raw := s.Synthesize(ref("com.x.Result"))
	data, ok := raw.Get("data")
	require.True(t, ok)
	assert.True(t, data.IsNull())
}

func TestSynthesize_InheritedFields(t *testing.T) {
	base := ref("com.x.Base<java.lang.Long>")
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.Base", TypeParams: []string{"ID"}, Fields: []typedesc.Field{field("id", "ID")}},
		typedesc.ClassDef{Name: "com.x.Order", Super: &base, Fields: []typedesc.Field{field("total", "java.math.BigDecimal")}},
	))

	v := s.Synthesize(ref("com.x.Order"))
	assert.Equal(t, []string{"id", "total"}, v.Keys())
	id, _ := v.Get("id")
	assert.Equal(t, "0", string(id.AsNumber()))
}

func TestSynthesize_SelfReference(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.Node", Fields: []typedesc.Field{
			field("value", "java.lang.String"),
			field("next", "com.x.Node"),
		}},
	))

	v := s.Synthesize(ref("com.x.Node"))
	assert.Equal(t, "{\n  \"value\": \"string\",\n  \"next\": null\n}", render(t, v))
}

func TestSynthesize_DefaultPackageClass(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "Node", Fields: []typedesc.Field{
			field("value", "java.lang.String"),
			field("next", "Node"),
			field("peers", "java.util.List<Peer>"),
		}},
		typedesc.ClassDef{Name: "Peer", Fields: []typedesc.Field{field("id", "long")}},
	))

	v := s.Synthesize(ref("Node"))
	assert.Equal(t, `{
  "value": "string",
  "next": null,
  "peers": [
    {
      "id": 0
    }
  ]
}`, render(t, v))

	assert.Equal(t, "null", render(t, s.Synthesize(ref("Missing"))))
}

func TestSynthesize_SelfReferenceThroughCollection(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.Tree", Fields: []typedesc.Field{
			field("children", "java.util.List<com.x.Tree>"),
		}},
	))

	v := s.Synthesize(ref("com.x.Tree"))
	assert.LessOrEqual(t, v.Depth(), DefaultMaxDepth+1)
	assert.Contains(t, render(t, v), "null")
}

func TestSynthesize_MutualRecursionTerminates(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.A", Fields: []typedesc.Field{field("b", "com.x.B"), field("name", "java.lang.String")}},
		typedesc.ClassDef{Name: "com.x.B", Fields: []typedesc.Field{field("a", "com.x.A")}},
	))

	for depth := 0; depth <= 6; depth++ {
		v := New(s.resolver, WithMaxDepth(depth)).Synthesize(ref("com.x.A"))
		assert.LessOrEqual(t, v.Depth(), depth+1, "max depth %d", depth)
	}

	// depth 0 A, 1 B, 2 A, 3 B, 4 A -> null
	v := s.Synthesize(ref("com.x.A"))
	assert.Equal(t, `{
  "b": {
    "a": {
      "b": {
        "a": null
      },
      "name": "string"
    }
  },
  "name": "string"
}`, render(t, v))
}

func TestSynthesize_DeepNestingIsCut(t *testing.T) {
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.L0", Fields: []typedesc.Field{field("l1", "com.x.L1")}},
		typedesc.ClassDef{Name: "com.x.L1", Fields: []typedesc.Field{field("l2", "com.x.L2")}},
		typedesc.ClassDef{Name: "com.x.L2", Fields: []typedesc.Field{field("l3", "com.x.L3")}},
		typedesc.ClassDef{Name: "com.x.L3", Fields: []typedesc.Field{field("l4", "com.x.L4")}},
		typedesc.ClassDef{Name: "com.x.L4", Fields: []typedesc.Field{field("x", "int")}},
	))

	out := s.JSON(ref("com.x.L0"))
	assert.Contains(t, out, `"l4": null`)
	assert.NotContains(t, out, `"x"`)
}

func TestSynthesize_NestedArrays(t *testing.T) {
	v := New(nil).Synthesize(ref("java.lang.String[][][][][]"))
	assert.LessOrEqual(t, v.Depth(), DefaultMaxDepth+1)
	assert.Equal(t, 4, v.Depth())
}

func TestWithMaxDepth_IgnoresNegative(t *testing.T) {
	assert.Equal(t, DefaultMaxDepth, New(nil, WithMaxDepth(-1)).MaxDepth())
	assert.Equal(t, 1, New(nil, WithMaxDepth(1)).MaxDepth())
}

func TestWithMaxDepth_ClampsToLimit(t *testing.T) {
	assert.Equal(t, MaxDepthLimit, New(nil, WithMaxDepth(MaxDepthLimit)).MaxDepth())
	assert.Equal(t, MaxDepthLimit, New(nil, WithMaxDepth(1<<20)).MaxDepth())

	// Two fields per level double the output at each step.
	s := New(registry(t,
		typedesc.ClassDef{Name: "com.x.A", Fields: []typedesc.Field{field("l", "com.x.B"), field("r", "com.x.B")}},
		typedesc.ClassDef{Name: "com.x.B", Fields: []typedesc.Field{field("l", "com.x.A"), field("r", "com.x.A")}},
	), WithMaxDepth(1000))
	v := s.Synthesize(ref("com.x.A"))
	assert.LessOrEqual(t, v.Depth(), MaxDepthLimit+1)
}

// --- Rendering ---

func TestRenderYAML_KeepsOrder(t *testing.T) {
	m := Mapping()
	m.Set("zeta", Number("0"))
	m.Set("alpha", String("string"))
	m.Set("price", Number("0.00"))
	m.Set("none", Null())
	m.Set("list", Sequence(Bool(true)))

	out, err := RenderYAML(m)
	require.NoError(t, err)
	text := string(out)
	assert.Less(t, strings.Index(text, "zeta"), strings.Index(text, "alpha"))
	assert.Contains(t, text, "price: 0.00")
	assert.Contains(t, text, "none: null")
	assert.Contains(t, text, "- true")
}

func TestValue_SetReplacesInPlace(t *testing.T) {
	m := Mapping()
	m.Set("a", Number("1"))
	m.Set("b", Number("2"))
	m.Set("a", Number("3"))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, `{"a":3,"b":2}`, mustMarshal(t, m))
}

func TestValue_SetOnScalarPanics(t *testing.T) {
	assert.Panics(t, func() { String("x").Set("k", Null()) })
}

func mustMarshal(t *testing.T, v Value) string {
	t.Helper()
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	return string(out)
}
