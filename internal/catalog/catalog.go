// Package catalog holds the static class list and per-class metadata used to
// label detections.
//
// The table is declarative data loaded once per process: the bundled copy is
// embedded in the binary, and a deployment may supply its own file with the
// same schema. A Catalog is read-only after construction and safe for
// concurrent use.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed classes.yaml
var embeddedClasses []byte

// DefaultUnknownPrefix labels class ids that have no catalog entry.
const DefaultUnknownPrefix = "Unknown_Class_"

// Entry is the descriptive metadata attached to a class name.
type Entry struct {
	Description string   `yaml:"description" json:"description"`
	Treatments  []string `yaml:"treatments" json:"treatments"`
}

type classSpec struct {
	Name  string `yaml:"name"`
	Entry `yaml:",inline"`
}

type fileSpec struct {
	UnknownPrefix string      `yaml:"unknown_prefix"`
	Fallback      Entry       `yaml:"fallback"`
	Classes       []classSpec `yaml:"classes"`
}

// Catalog maps class ids to names and names to metadata.
type Catalog struct {
	names         []string
	entries       map[string]Entry
	fallback      Entry
	unknownPrefix string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog embedded in the binary. It is parsed on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedClasses)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded classes.yaml is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from its YAML form.
//
// Class names must be unique and non-empty. A missing fallback is an error so
// that every lookup has something to return; entries with an empty description
// or no treatments inherit the fallback values.
func Parse(data []byte) (*Catalog, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if spec.Fallback.Description == "" || len(spec.Fallback.Treatments) == 0 {
		return nil, fmt.Errorf("catalog fallback needs a description and at least one treatment")
	}
	if spec.UnknownPrefix == "" {
		spec.UnknownPrefix = DefaultUnknownPrefix
	}

	c := &Catalog{
		names:         make([]string, 0, len(spec.Classes)),
		entries:       make(map[string]Entry, len(spec.Classes)),
		fallback:      spec.Fallback,
		unknownPrefix: spec.UnknownPrefix,
	}

	for i, cls := range spec.Classes {
		if cls.Name == "" {
			return nil, fmt.Errorf("class %d has no name", i)
		}
		if _, dup := c.entries[cls.Name]; dup {
			return nil, fmt.Errorf("duplicate class name %q", cls.Name)
		}
		entry := cls.Entry
		if entry.Description == "" {
			entry.Description = spec.Fallback.Description
		}
		if len(entry.Treatments) == 0 {
			entry.Treatments = spec.Fallback.Treatments
		}
		c.names = append(c.names, cls.Name)
		c.entries[cls.Name] = entry
	}

	return c, nil
}

// Len returns the number of known classes.
func (c *Catalog) Len() int { return len(c.names) }

// Names returns a copy of the ordered class list.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Name returns the class name for id, or the unknown prefix followed by id
// when the id is out of range.
func (c *Catalog) Name(id int) string {
	if id >= 0 && id < len(c.names) {
		return c.names[id]
	}
	return c.unknownPrefix + strconv.Itoa(id)
}

// Describe returns the metadata for a class name, falling back to the generic
// entry for names the catalog does not know. The returned slice is a copy.
func (c *Catalog) Describe(name string) Entry {
	e, ok := c.entries[name]
	if !ok {
		e = c.fallback
	}
	return Entry{
		Description: e.Description,
		Treatments:  append([]string(nil), e.Treatments...),
	}
}

// Known reports whether name is a catalog class.
func (c *Catalog) Known(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// UnknownPrefix returns the placeholder prefix for out-of-range class ids.
func (c *Catalog) UnknownPrefix() string { return c.unknownPrefix }
