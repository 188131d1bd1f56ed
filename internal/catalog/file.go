package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a custom catalog:
//
//	categories:
//	  - name: greetings
//	    patterns: [hello, hi]
//	    responses: ["Hello!"]
//	defaults: ["Tell me more."]
//
// Categories are scanned in file order. Omitted defaults fall back to
// the built-in ones.
type File struct {
	Categories []Category `yaml:"categories"`
	Defaults   []string   `yaml:"defaults"`
}

// Load reads a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(f.Defaults) == 0 {
		f.Defaults = DefaultReplies()
	}
	c, err := New(f.Categories, f.Defaults)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}
	return c, nil
}

// Marshal renders a catalog back into the File layout
func Marshal(c *Catalog) ([]byte, error) {
	f := File{Categories: c.Categories()}
	for _, r := range c.Defaults() {
		f.Defaults = append(f.Defaults, r.Text())
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize catalog: %w", err)
	}
	return data, nil
}
