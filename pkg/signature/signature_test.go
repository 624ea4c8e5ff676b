package signature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/feignbridge/pkg/typedesc"
)

func TestNew(t *testing.T) {
	sig := New("com.x.UserClient", "find",
		typedesc.Primitive("int"),
		typedesc.MustParseTypeRef("java.util.List<java.lang.String>"),
		typedesc.MustParseTypeRef("com.x.Query[]"),
		typedesc.Var("T"),
	)
	assert.Equal(t, "com.x.UserClient#find(int,java.util.List,com.x.Query[],java.lang.Object)", sig)

	assert.Equal(t, "com.x.UserClient#ping()", New("com.x.UserClient", "ping"))
}

func TestOf(t *testing.T) {
	client := &typedesc.ClientDef{Name: "com.x.C"}
	m := typedesc.MethodDef{Name: "get", Params: []typedesc.TypeRef{typedesc.Class("java.lang.Long")}}
	assert.Equal(t, "com.x.C#get(java.lang.Long)", Of(client, m))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"com.x.C#get()", "com.x.C#get()"},
		{" com.x.C#get( java.lang.String , int ) ", "com.x.C#get(java.lang.String,int)"},
		{"com.x.C#get(java.util.Map<java.lang.String, java.util.List<X>>,int)", "com.x.C#get(java.util.Map,int)"},
		{"com.x.C#get(java.util.List<java.lang.String>[])", "com.x.C#get(java.util.List[])"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_MatchesNew(t *testing.T) {
	built := New("com.x.C", "put", typedesc.MustParseTypeRef("java.util.Map<java.lang.String,com.x.V>"))
	norm, err := Normalize("com.x.C#put(java.util.Map<java.lang.String, com.x.V>)")
	require.NoError(t, err)
	assert.Equal(t, built, norm)
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"", "com.x.C", "#get()", "com.x.C#()", "com.x.C#get(", "com.x.C#get(int,)"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.True(t, errors.Is(err, ErrMalformed), "err = %v", err)
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("com.x.C#get(java.util.Map<a.B,c.D>,int)")
	require.NoError(t, err)
	assert.Equal(t, "com.x.C", p.Owner)
	assert.Equal(t, "get", p.Method)
	assert.Equal(t, []string{"java.util.Map<a.B,c.D>", "int"}, p.Params)
}
