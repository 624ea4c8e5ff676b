package typedesc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Document is the on-the-wire form of a descriptor export.
type Document struct {
	Classes []ClassDef  `json:"classes,omitempty"`
	Clients []ClientDef `json:"clients,omitempty"`
}

// Registry is an in-memory Resolver built from descriptor documents.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*ClassDef
	clients map[string]*ClientDef
}

// NewRegistry creates a registry holding defs.
func NewRegistry(defs ...ClassDef) (*Registry, error) {
	r := &Registry{
		classes: make(map[string]*ClassDef),
		clients: make(map[string]*ClientDef),
	}
	for _, d := range defs {
		if err := r.AddClass(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadRegistry decodes a Document from rd.
func LoadRegistry(rd io.Reader) (*Registry, error) {
	var doc Document
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode descriptors: %w", err)
	}
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := r.Merge(doc); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRegistryFile reads a Document from path.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := LoadRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// LoadRegistryFiles merges the documents at paths, in order, into one
// registry. Later files replace earlier definitions.
func LoadRegistryFiles(paths ...string) (*Registry, error) {
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		var doc Document
		err = json.NewDecoder(f).Decode(&doc)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: decode descriptors: %w", p, err)
		}
		if err := r.Merge(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return r, nil
}

// Merge adds every class and client in doc, replacing earlier definitions
// with the same name.
func (r *Registry) Merge(doc Document) error {
	for _, c := range doc.Classes {
		if err := r.AddClass(c); err != nil {
			return err
		}
	}
	for _, c := range doc.Clients {
		if err := r.AddClient(c); err != nil {
			return err
		}
	}
	return nil
}

// AddClass registers def, replacing any previous definition with the same name.
func (r *Registry) AddClass(def ClassDef) error {
	if def.Name == "" {
		return fmt.Errorf("class definition without a name")
	}
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("class %s: field without a name", def.Name)
		}
	}
	d := def
	r.mu.Lock()
	r.classes[d.Name] = &d
	r.mu.Unlock()
	return nil
}

// AddClient registers def, replacing any previous client with the same name.
func (r *Registry) AddClient(def ClientDef) error {
	if def.Name == "" {
		return fmt.Errorf("client definition without a name")
	}
	d := def
	r.mu.Lock()
	r.clients[d.Name] = &d
	r.mu.Unlock()
	return nil
}

// Resolve implements Resolver.
func (r *Registry) Resolve(name string) (*ClassDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.classes[name]
	return d, ok
}

// Class returns the declaration for name or ErrUnknownType.
func (r *Registry) Class(name string) (*ClassDef, error) {
	if d, ok := r.Resolve(name); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
}

// Clients returns all registered clients sorted by name.
func (r *Registry) Clients() []*ClientDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ClientDef, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Ensure Registry implements Resolver.
var _ Resolver = (*Registry)(nil)
