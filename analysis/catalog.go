// Copyright © 2026 The futurec authors

package analysis

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogFiles are the workspace-relative locations searched for a parser
// function catalog, in order.
var CatalogFiles = []string{
	filepath.Join(".futurec", "scriptautocompletedefs.json"),
	filepath.Join(".futurec", "scriptautocompletedefs.yaml"),
	filepath.Join(".futurec", "scriptautocompletedefs.yml"),
}

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog describes the parser functions available to scripts, grouped by
// namespace (S.Foo, H.Bar, ...).
type Catalog struct {
	Namespaces []*Namespace `yaml:"namespaces" json:"namespaces"`

	byName map[string]*Namespace
}

// Namespace is a group of parser functions. When Closed is set, calls to
// functions missing from the namespace are errors.
type Namespace struct {
	Name      string      `yaml:"name" json:"name"`
	Doc       string      `yaml:"doc" json:"doc,omitempty"`
	Closed    bool        `yaml:"closed" json:"closed,omitempty"`
	Functions []*Function `yaml:"functions" json:"functions"`

	byName map[string]*Function
}

// Function is one parser function signature.
type Function struct {
	Name     string  `yaml:"name" json:"name"`
	Params   []Param `yaml:"params" json:"params,omitempty"`
	Variadic bool    `yaml:"variadic" json:"variadic,omitempty"`
	Returns  string  `yaml:"returns" json:"returns,omitempty"`
	Doc      string  `yaml:"doc" json:"doc,omitempty"`
}

// Param is a parser function parameter.
type Param struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type,omitempty"`
	Optional bool   `yaml:"optional" json:"optional,omitempty"`
	Doc      string `yaml:"doc" json:"doc,omitempty"`
}

// ParseCatalog decodes a catalog. JSON input is accepted since it is valid
// YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for _, ns := range c.Namespaces {
		if ns.Name == "" {
			return nil, errors.New("parsing catalog: namespace without a name")
		}
	}
	c.index()
	return &c, nil
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-configured catalog path
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog of common parser functions.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// FindCatalog loads the first catalog file found under root, falling back
// to the built-in catalog. The returned path is empty for the built-in
// catalog.
func FindCatalog(root string) (*Catalog, string, error) {
	for _, rel := range CatalogFiles {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		c, err := LoadCatalog(path)
		if err != nil {
			return nil, path, err
		}
		return c, path, nil
	}
	return DefaultCatalog(), "", nil
}

func (c *Catalog) index() {
	c.byName = make(map[string]*Namespace, len(c.Namespaces))
	for _, ns := range c.Namespaces {
		ns.byName = make(map[string]*Function, len(ns.Functions))
		for _, fn := range ns.Functions {
			ns.byName[fn.Name] = fn
		}
		c.byName[ns.Name] = ns
	}
}

// Namespace returns the namespace called name, or nil. A nil catalog has
// no namespaces.
func (c *Catalog) Namespace(name string) *Namespace {
	if c == nil {
		return nil
	}
	if c.byName != nil {
		return c.byName[name]
	}
	for _, ns := range c.Namespaces {
		if ns.Name == name {
			return ns
		}
	}
	return nil
}

// Lookup returns the function ns.name.
func (c *Catalog) Lookup(ns, name string) (*Function, bool) {
	n := c.Namespace(ns)
	if n == nil {
		return nil, false
	}
	fn, ok := n.Function(name)
	return fn, ok
}

// Function returns the function called name.
func (ns *Namespace) Function(name string) (*Function, bool) {
	if ns.byName != nil {
		fn, ok := ns.byName[name]
		return fn, ok
	}
	for _, fn := range ns.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Names returns the function names of ns, sorted.
func (ns *Namespace) Names() []string {
	names := make([]string, 0, len(ns.Functions))
	for _, fn := range ns.Functions {
		names = append(names, fn.Name)
	}
	sort.Strings(names)
	return names
}

// Arity returns the accepted argument count range. hi is -1 for variadic
// functions.
func (fn *Function) Arity() (lo, hi int) {
	for _, p := range fn.Params {
		if !p.Optional {
			lo++
		}
	}
	if fn.Variadic {
		return lo, -1
	}
	return lo, len(fn.Params)
}

// AcceptsArgs reports whether n arguments satisfy the signature.
func (fn *Function) AcceptsArgs(n int) bool {
	lo, hi := fn.Arity()
	return n >= lo && (hi < 0 || n <= hi)
}

// Signature formats fn as ns.Name(type name, ...) returns.
func (fn *Function) Signature(ns string) string {
	var b strings.Builder
	if ns != "" {
		b.WriteString(ns)
		b.WriteByte('.')
	}
	b.WriteString(fn.Name)
	b.WriteByte('(')
	for i, p := range fn.ParamLabels() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p)
	}
	b.WriteByte(')')
	if fn.Returns != "" {
		b.WriteString(" ")
		b.WriteString(fn.Returns)
	}
	return b.String()
}

// ParamLabels returns the display label of every parameter.
func (fn *Function) ParamLabels() []string {
	labels := make([]string, 0, len(fn.Params)+1)
	for _, p := range fn.Params {
		label := p.Name
		if p.Type != "" {
			label = p.Type + " " + p.Name
		}
		if p.Optional {
			label = "[" + label + "]"
		}
		labels = append(labels, label)
	}
	if fn.Variadic {
		labels = append(labels, "...")
	}
	return labels
}
