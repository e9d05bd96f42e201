// Package directive holds the per-backend knowledge the compiler needs about
// directive names: which ones may stand alone at block level and how many
// values each one returns.
package directive

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Classifier decides whether a directive may start a block on its own.
type Classifier interface {
	IsStandalone(name string) bool
}

// Arity reports how many return slots a call to name needs.
type Arity interface {
	ExpectedReturns(name string) int
}

// DefaultReturns is the arity of names the table does not know.
const DefaultReturns = 1

// Entry describes one directive.
type Entry struct {
	Standalone bool `toml:"standalone"`
	Returns    *int `toml:"returns"`
}

type file struct {
	Directive map[string]Entry `toml:"directive"`
}

// Table maps lower-case directive names to their entries. The zero value is
// an empty table. A nil *Table behaves like an empty one.
type Table struct {
	entries map[string]Entry
}

//go:embed default.toml
var defaultTable []byte

// Default returns a fresh copy of the built-in table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("directive: built-in table: %v", err))
	}
	return t
}

// Parse reads a table in TOML form.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("directive: %w", err)
	}
	t := &Table{entries: make(map[string]Entry, len(f.Directive))}
	for name, e := range f.Directive {
		if e.Returns != nil && *e.Returns < 0 {
			return nil, fmt.Errorf("directive: %s: negative return count %d", name, *e.Returns)
		}
		t.entries[strings.ToLower(name)] = e
	}
	return t, nil
}

// LoadFile reads a table from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directive: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// IsStandalone implements Classifier.
func (t *Table) IsStandalone(name string) bool {
	e, ok := t.lookup(name)
	return ok && e.Standalone
}

// ExpectedReturns implements Arity.
func (t *Table) ExpectedReturns(name string) int {
	if e, ok := t.lookup(name); ok && e.Returns != nil {
		return *e.Returns
	}
	return DefaultReturns
}

// Set adds or replaces the entry for name.
func (t *Table) Set(name string, standalone bool, returns int) {
	if t.entries == nil {
		t.entries = make(map[string]Entry)
	}
	t.entries[strings.ToLower(name)] = Entry{Standalone: standalone, Returns: &returns}
}

// Merge overlays other on t. Entries of other replace those of t with the
// same name; a return count missing in other keeps the one from t.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	if t.entries == nil {
		t.entries = make(map[string]Entry, len(other.entries))
	}
	for name, e := range other.entries {
		if e.Returns == nil {
			e.Returns = t.entries[name].Returns
		}
		t.entries[name] = e
	}
}

// Names returns the known directive names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) lookup(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[strings.ToLower(name)]
	return e, ok
}
