// Package signature builds the canonical method keys that join editor nodes,
// stored mocks and agent commands.
//
// A signature has the form
//
//	com.example.UserClient#find(java.lang.String,java.util.List)
//
// with the owner's qualified name, the method name, and the erased parameter
// types separated by commas without spaces.
package signature

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/getmockd/feignbridge/pkg/typedesc"
)

// ErrMalformed is returned for text that is not a method signature.
var ErrMalformed = errors.New("malformed method signature")

// New builds the signature of owner.method with the given parameter types.
func New(owner, method string, params ...typedesc.TypeRef) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Erasure().String()
	}
	return format(owner, method, names)
}

// Of builds the signature of m declared on client.
func Of(client *typedesc.ClientDef, m typedesc.MethodDef) string {
	return New(client.Name, m.Name, m.Params...)
}

// Parts is a decomposed signature.
type Parts struct {
	Owner  string
	Method string
	Params []string
}

// String formats p canonically.
func (p Parts) String() string {
	return format(p.Owner, p.Method, p.Params)
}

// Parse splits sig into owner, method and parameter type names.
func Parse(sig string) (Parts, error) {
	hash := strings.IndexByte(sig, '#')
	open := strings.IndexByte(sig, '(')
	if hash <= 0 || open < hash+2 || !strings.HasSuffix(sig, ")") {
		return Parts{}, fmt.Errorf("%w: %q", ErrMalformed, sig)
	}

	p := Parts{
		Owner:  sig[:hash],
		Method: sig[hash+1 : open],
	}
	inner := sig[open+1 : len(sig)-1]
	if strings.TrimSpace(inner) != "" {
		for _, param := range splitTopLevel(inner) {
			param = strings.TrimSpace(param)
			if param == "" {
				return Parts{}, fmt.Errorf("%w: empty parameter in %q", ErrMalformed, sig)
			}
			p.Params = append(p.Params, param)
		}
	}
	return p, nil
}

// Normalize rewrites sig into canonical form: whitespace removed and
// generic arguments erased. Two spellings of the same method normalize to
// the same string.
func Normalize(sig string) (string, error) {
	p, err := Parse(strings.TrimSpace(sig))
	if err != nil {
		return "", err
	}
	p.Owner = stripSpace(p.Owner)
	p.Method = stripSpace(p.Method)
	for i, param := range p.Params {
		p.Params[i] = eraseText(stripSpace(param))
	}
	return p.String(), nil
}

func format(owner, method string, params []string) string {
	var b strings.Builder
	b.WriteString(owner)
	b.WriteByte('#')
	b.WriteString(method)
	b.WriteByte('(')
	b.WriteString(strings.Join(params, ","))
	b.WriteByte(')')
	return b.String()
}

// splitTopLevel splits on commas that are not nested in angle brackets.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// eraseText drops every <...> group from a type name.
func eraseText(s string) string {
	var (
		b     strings.Builder
		depth int
	)
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
