package typedesc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a type reference.
type Kind string

// Type reference kinds.
const (
	KindPrimitive Kind = "primitive"
	KindClass     Kind = "class"
	KindArray     Kind = "array"
	KindTypeVar   Kind = "typevar"
)

// ObjectType is the qualified name of the root class.
const ObjectType = "java.lang.Object"

// ErrUnknownType is returned when a qualified name has no declaration.
var ErrUnknownType = errors.New("unknown type")

// primitives lists the primitive keywords of the host language.
var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"char":    true,
	"void":    true,
}

// IsPrimitiveName reports whether name is a primitive keyword.
func IsPrimitiveName(name string) bool {
	return primitives[name]
}

// TypeRef is a type as written at a use site.
//
// A TypeRef is an immutable value. Args and Component must not be modified
// after construction.
type TypeRef struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`

	// Args holds generic arguments of a class reference.
	Args []TypeRef `json:"args,omitempty"`

	// Component is the element type of an array reference.
	Component *TypeRef `json:"component,omitempty"`

	// Bound is the erasure bound of a type variable. Nil means java.lang.Object.
	Bound *TypeRef `json:"bound,omitempty"`
}

// Primitive returns a reference to a primitive type.
func Primitive(name string) TypeRef {
	return TypeRef{Kind: KindPrimitive, Name: name}
}

// Class returns a reference to a class type with optional generic arguments.
func Class(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: KindClass, Name: name, Args: args}
}

// Array returns a reference to an array of component.
func Array(component TypeRef) TypeRef {
	c := component
	return TypeRef{Kind: KindArray, Component: &c}
}

// Var returns a reference to the type variable name.
func Var(name string) TypeRef {
	return TypeRef{Kind: KindTypeVar, Name: name}
}

// IsZero reports whether t is the zero TypeRef.
func (t TypeRef) IsZero() bool {
	return t.Kind == "" && t.Name == "" && t.Component == nil && len(t.Args) == 0
}

// Arg returns the i-th generic argument, or false when there is none.
func (t TypeRef) Arg(i int) (TypeRef, bool) {
	if i < 0 || i >= len(t.Args) {
		return TypeRef{}, false
	}
	return t.Args[i], true
}

// Equal reports whether t and o denote the same type.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Kind != o.Kind || t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	if (t.Component == nil) != (o.Component == nil) {
		return false
	}
	if t.Component != nil && !t.Component.Equal(*o.Component) {
		return false
	}
	return true
}

// String returns the canonical text of t, e.g. java.util.Map<java.lang.String,int[]>.
func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch t.Kind {
	case KindArray:
		if t.Component == nil {
			b.WriteString(ObjectType)
		} else {
			t.Component.write(b)
		}
		b.WriteString("[]")
	default:
		b.WriteString(t.Name)
		if len(t.Args) == 0 {
			return
		}
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
}

// Erasure returns t with generic arguments removed and type variables
// replaced by their bound.
func (t TypeRef) Erasure() TypeRef {
	switch t.Kind {
	case KindArray:
		if t.Component == nil {
			return Array(Class(ObjectType))
		}
		return Array(t.Component.Erasure())
	case KindTypeVar:
		if t.Bound != nil {
			return t.Bound.Erasure()
		}
		return Class(ObjectType)
	case KindClass:
		return Class(t.Name)
	default:
		return TypeRef{Kind: t.Kind, Name: t.Name}
	}
}

// MarshalJSON writes t in its canonical text form.
func (t TypeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either canonical text or an object form.
func (t *TypeRef) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		ref, err := ParseTypeRef(text)
		if err != nil {
			return err
		}
		*t = ref
		return nil
	}

	// Alias drops the methods so the object form decodes field by field.
	type rawRef TypeRef
	var raw rawRef
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("type reference: %w", err)
	}
	ref := TypeRef(raw)
	if ref.Kind == "" {
		switch {
		case ref.Component != nil:
			ref.Kind = KindArray
		case IsPrimitiveName(ref.Name):
			ref.Kind = KindPrimitive
		default:
			ref.Kind = KindClass
		}
	}
	*t = ref
	return nil
}

// Field is a declared field of a class.
type Field struct {
	Name      string  `json:"name"`
	Type      TypeRef `json:"type"`
	Static    bool    `json:"static,omitempty"`
	Transient bool    `json:"transient,omitempty"`
}

// ClassDef describes a class, interface or enum declaration.
type ClassDef struct {
	Name       string   `json:"name"`
	Enum       bool     `json:"enum,omitempty"`
	Constants  []string `json:"constants,omitempty"`
	TypeParams []string `json:"typeParams,omitempty"`

	// Super is the superclass reference, in terms of this class's type
	// parameters. Nil for root classes.
	Super *TypeRef `json:"super,omitempty"`

	Fields []Field `json:"fields,omitempty"`
}

// Ref returns an unparameterized reference to the declared class.
func (c *ClassDef) Ref() TypeRef {
	return Class(c.Name)
}

// MethodDef describes one method of a remote client interface.
type MethodDef struct {
	Name    string    `json:"name"`
	Params  []TypeRef `json:"params,omitempty"`
	Returns TypeRef   `json:"returns"`
}

// ClientDef describes a remote client interface and its methods.
type ClientDef struct {
	Name    string      `json:"name"`
	Methods []MethodDef `json:"methods,omitempty"`
}

// Resolver maps qualified names to class declarations.
type Resolver interface {
	// Resolve returns the declaration for name, or false when it is unknown.
	Resolve(name string) (*ClassDef, bool)
}
