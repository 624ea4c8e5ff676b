package typedesc

import "slices"

// Substitution maps type variable names to concrete references.
type Substitution map[string]TypeRef

// Bind returns the substitution that instantiates def's type parameters with
// the arguments of ref. Raw references bind nothing.
func Bind(def *ClassDef, ref TypeRef) Substitution {
	s := make(Substitution, len(def.TypeParams))
	for i, name := range def.TypeParams {
		if arg, ok := ref.Arg(i); ok {
			s[name] = arg
		}
	}
	return s
}

// Apply replaces every bound type variable in t.
// Unbound variables are left in place.
func (s Substitution) Apply(t TypeRef) TypeRef {
	if len(s) == 0 {
		return t
	}
	switch t.Kind {
	case KindTypeVar:
		if v, ok := s[t.Name]; ok {
			return v
		}
		return t
	case KindArray:
		if t.Component == nil {
			return t
		}
		return Array(s.Apply(*t.Component))
	case KindClass:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]TypeRef, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.Apply(a)
		}
		return Class(t.Name, args...)
	default:
		return t
	}
}

// Qualify turns type variables that are not in scope into class references
// when r declares a class of that name. Names in the default package have
// no dot and parse as variables.
func Qualify(r Resolver, t TypeRef, scope ...string) TypeRef {
	switch t.Kind {
	case KindTypeVar:
		if slices.Contains(scope, t.Name) {
			return t
		}
		if _, ok := r.Resolve(t.Name); ok {
			return Class(t.Name)
		}
		return t
	case KindArray:
		if t.Component == nil {
			return t
		}
		return Array(Qualify(r, *t.Component, scope...))
	case KindClass:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]TypeRef, len(t.Args))
		for i, a := range t.Args {
			args[i] = Qualify(r, a, scope...)
		}
		return Class(t.Name, args...)
	default:
		return t
	}
}

// ResolvedField is a field whose type has been substituted through the
// instantiation that declared it.
type ResolvedField struct {
	Name      string
	Type      TypeRef
	Static    bool
	Transient bool
	Owner     string
}

// AllFields returns the fields of the class denoted by ref and all of its
// superclasses, superclass fields first, each in declaration order. Field
// types are expressed in terms of ref's generic arguments. Superclasses the
// resolver does not know end the walk.
func AllFields(r Resolver, ref TypeRef) ([]ResolvedField, bool) {
	if ref.Kind != KindClass {
		return nil, false
	}
	def, ok := r.Resolve(ref.Name)
	if !ok {
		return nil, false
	}

	// Collect the chain bottom-up, then emit top-down.
	type level struct {
		def   *ClassDef
		subst Substitution
	}
	var chain []level
	seen := make(map[string]bool)
	for def != nil && !seen[def.Name] {
		seen[def.Name] = true
		subst := Bind(def, ref)
		chain = append(chain, level{def: def, subst: subst})

		if def.Super == nil {
			break
		}
		ref = subst.Apply(Qualify(r, *def.Super, def.TypeParams...))
		next, ok := r.Resolve(ref.Name)
		if !ok {
			break
		}
		def = next
	}

	var fields []ResolvedField
	for i := len(chain) - 1; i >= 0; i-- {
		lv := chain[i]
		for _, f := range lv.def.Fields {
			fields = append(fields, ResolvedField{
				Name:      f.Name,
				Type:      lv.subst.Apply(Qualify(r, f.Type, lv.def.TypeParams...)),
				Static:    f.Static,
				Transient: f.Transient,
				Owner:     lv.def.Name,
			})
		}
	}
	return fields, true
}
