// Package catalog holds the static keyword → reply table the responder scans.
//
// A Catalog is built once at startup and never mutated afterwards. Category
// order is significant: the first category with a pattern contained in the
// input wins, so "history" lands in greetings through "hi".
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Well-known category names
const (
	Greetings = "greetings"
	Farewells = "farewells"
	Name      = "name"
	Time      = "time"
	Date      = "date"
	Joke      = "joke"
	Weather   = "weather"
	Help      = "help"
)

var (
	// ErrNoCategories is returned when a catalog has nothing to match against
	ErrNoCategories = errors.New("catalog has no categories")
	// ErrNoDefaults is returned when the fallback reply list is empty
	ErrNoDefaults = errors.New("catalog has no default replies")
	// ErrNoFarewells is returned when the farewells category is missing
	ErrNoFarewells = errors.New("catalog has no farewells category")
)

// Category is a named group of trigger keywords and candidate replies
type Category struct {
	Name      string   `yaml:"name"`
	Patterns  []string `yaml:"patterns"`
	Responses []string `yaml:"responses"`
}

// Data is what reply templates can refer to
type Data struct {
	Bot  string    // bot name
	User string    // remembered user name, may be empty
	Now  time.Time // render time
}

// Reply is a parsed candidate reply
type Reply struct {
	text string
	tmpl *template.Template
}

// Text returns the unrendered reply template
func (r Reply) Text() string {
	return r.text
}

// Render executes the reply template. A reply that fails to render
// is returned verbatim.
func (r Reply) Render(data Data) string {
	if r.tmpl == nil {
		return r.text
	}
	var b strings.Builder
	if err := r.tmpl.Execute(&b, data); err != nil {
		return r.text
	}
	return b.String()
}

type entry struct {
	category Category
	replies  []Reply
}

// Catalog is an ordered, immutable set of categories plus fallback replies
type Catalog struct {
	entries  []entry
	byName   map[string]int
	defaults []Reply
}

// New builds a catalog from categories in scan order and a default reply list.
// Patterns are lowercased; replies are parsed as text/template.
func New(categories []Category, defaults []string) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}
	if len(defaults) == 0 {
		return nil, ErrNoDefaults
	}

	c := &Catalog{byName: make(map[string]int, len(categories))}
	for i, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: name cannot be empty", i)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("category %q: duplicate name", name)
		}
		if len(cat.Patterns) == 0 {
			return nil, fmt.Errorf("category %q: no patterns", name)
		}
		if len(cat.Responses) == 0 {
			return nil, fmt.Errorf("category %q: no responses", name)
		}

		patterns := make([]string, 0, len(cat.Patterns))
		for _, p := range cat.Patterns {
			p = strings.ToLower(p)
			if strings.TrimSpace(p) == "" {
				return nil, fmt.Errorf("category %q: empty pattern", name)
			}
			patterns = append(patterns, p)
		}

		replies, err := parseReplies(name, cat.Responses)
		if err != nil {
			return nil, err
		}

		c.byName[name] = len(c.entries)
		c.entries = append(c.entries, entry{
			category: Category{
				Name:      name,
				Patterns:  patterns,
				Responses: append([]string(nil), cat.Responses...),
			},
			replies: replies,
		})
	}

	if _, ok := c.byName[Farewells]; !ok {
		return nil, ErrNoFarewells
	}

	d, err := parseReplies("defaults", defaults)
	if err != nil {
		return nil, err
	}
	c.defaults = d

	return c, nil
}

func parseReplies(name string, texts []string) ([]Reply, error) {
	replies := make([]Reply, 0, len(texts))
	for i, text := range texts {
		tmpl, err := template.New(fmt.Sprintf("%s.%d", name, i)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("category %q: reply %d: %w", name, i, err)
		}
		// Surface references to unknown fields now rather than mid-chat
		if err := tmpl.Execute(&strings.Builder{}, Data{}); err != nil {
			return nil, fmt.Errorf("category %q: reply %d: %w", name, i, err)
		}
		replies = append(replies, Reply{text: text, tmpl: tmpl})
	}
	return replies, nil
}

// Match returns the name of the first category, in declared order, with a
// pattern contained in input. Matching is case-insensitive substring
// containment with no word boundaries.
func (c *Catalog) Match(input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, e := range c.entries {
		for _, p := range e.category.Patterns {
			if strings.Contains(lower, p) {
				return e.category.Name, true
			}
		}
	}
	return "", false
}

// Replies returns the candidate replies of a category
func (c *Catalog) Replies(name string) []Reply {
	i, ok := c.byName[name]
	if !ok {
		return nil
	}
	return c.entries[i].replies
}

// Defaults returns the fallback replies
func (c *Catalog) Defaults() []Reply {
	return c.defaults
}

// Category looks up a category by name. The returned value is a copy.
func (c *Catalog) Category(name string) (Category, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Category{}, false
	}
	return cloneCategory(c.entries[i].category), true
}

// Categories returns copies of all categories in scan order
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, cloneCategory(e.category))
	}
	return out
}

func cloneCategory(cat Category) Category {
	return Category{
		Name:      cat.Name,
		Patterns:  append([]string(nil), cat.Patterns...),
		Responses: append([]string(nil), cat.Responses...),
	}
}
