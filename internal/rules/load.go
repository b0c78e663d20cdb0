package rules

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed institutions/*.yaml
var builtin embed.FS

// Parse decodes and validates one rule file. Unknown keys are rejected so a
// misspelled field does not silently disable a matcher.
func Parse(data []byte) (*Institution, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var in Institution
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("rule validation failed: %w", err)
	}
	return &in, nil
}

// LoadFile reads and parses one rule file from disk.
func LoadFile(name string) (*Institution, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	in, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return in, nil
}

// LoadDir parses every .yaml or .yml file in dir, in name order.
func LoadDir(dir string) ([]*Institution, error) {
	return loadFS(os.DirFS(dir), ".")
}

// Builtin returns the rule tables compiled into the binary.
func Builtin() ([]*Institution, error) {
	return loadFS(builtin, "institutions")
}

func loadFS(fsys fs.FS, dir string) ([]*Institution, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir: %w", err)
	}
	var out []*Institution
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		in, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, in)
	}
	return out, nil
}

// Catalog indexes rule tables by slug. Later additions replace earlier ones,
// so rule files from disk override the built-in set.
type Catalog struct {
	bySlug map[string]*Institution
}

// NewCatalog builds a catalog from one or more rule sets, in order.
func NewCatalog(sets ...[]*Institution) *Catalog {
	c := &Catalog{bySlug: make(map[string]*Institution)}
	for _, set := range sets {
		for _, in := range set {
			c.bySlug[in.Slug] = in
		}
	}
	return c
}

// Get returns the rule table for a slug.
func (c *Catalog) Get(slug string) (*Institution, bool) {
	in, ok := c.bySlug[slug]
	return in, ok
}

// Slugs returns all known slugs in sorted order.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.bySlug))
	for s := range c.bySlug {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
