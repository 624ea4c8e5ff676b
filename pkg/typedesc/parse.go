package typedesc

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseTypeRef parses canonical type text such as
// "java.util.Map<java.lang.String, java.util.List<T>>[]".
// Dotless names other than primitives parse as type variables unless they
// carry arguments; see Qualify for default-package classes.
func ParseTypeRef(text string) (TypeRef, error) {
	p := &typeParser{src: text}
	ref, err := p.parseType()
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeRef{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return ref, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on malformed text.
// It is intended for tests and static tables.
func MustParseTypeRef(text string) TypeRef {
	ref, err := ParseTypeRef(text)
	if err != nil {
		panic(err)
	}
	return ref
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("parse type %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) parseType() (TypeRef, error) {
	p.skipSpace()

	var ref TypeRef
	if p.peek() == '?' {
		p.pos++
		wildcard, err := p.parseWildcard()
		if err != nil {
			return TypeRef{}, err
		}
		ref = wildcard
	} else {
		name := p.parseName()
		if name == "" {
			return TypeRef{}, p.errorf("expected type name")
		}
		switch {
		case IsPrimitiveName(name):
			ref = Primitive(name)
		case !strings.Contains(name, "."):
			ref = Var(name)
		default:
			ref = Class(name)
		}

		p.skipSpace()
		if p.peek() == '<' {
			if ref.Kind == KindTypeVar {
				// Variables take no arguments, so this is a default-package class.
				ref = Class(name)
			}
			if ref.Kind != KindClass {
				return TypeRef{}, p.errorf("%s cannot take type arguments", name)
			}
			args, err := p.parseArgs()
			if err != nil {
				return TypeRef{}, err
			}
			ref.Args = args
		}
	}

	for {
		p.skipSpace()
		if !strings.HasPrefix(p.src[p.pos:], "[]") {
			return ref, nil
		}
		p.pos += 2
		ref = Array(ref)
	}
}

// parseWildcard reads what follows a '?'.
func (p *typeParser) parseWildcard() (TypeRef, error) {
	p.skipSpace()
	rest := p.src[p.pos:]
	for _, kw := range []string{"extends", "super"} {
		if strings.HasPrefix(rest, kw) && len(rest) > len(kw) && unicode.IsSpace(rune(rest[len(kw)])) {
			p.pos += len(kw)
			return p.parseType()
		}
	}
	return Class(ObjectType), nil
}

func (p *typeParser) parseName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c == '.' || c == '_' || c == '$' || unicode.IsLetter(c) || unicode.IsDigit(c) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseArgs() ([]TypeRef, error) {
	p.pos++ // '<'
	var args []TypeRef
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return args, nil
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}
