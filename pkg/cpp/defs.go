package cpp

import (
	"sort"
	"strings"
)

// Def is a macro definition.
type Def struct {
	Name string
	// Params is nil for object-like macros. A non-nil slice, even an
	// empty one, makes the macro function-like.
	Params []string
	// Text is the raw replacement text. It is expanded at each use site.
	Text string
}

// IsFunction reports whether the macro takes an argument list.
func (d *Def) IsFunction() bool {
	return d.Params != nil
}

// DefTable maps macro names to their definitions. A single table is
// shared by everything processed in one run.
type DefTable struct {
	defs map[string]*Def
}

// NewDefTable creates an empty definition table.
func NewDefTable() *DefTable {
	return &DefTable{defs: make(map[string]*Def)}
}

// Lookup returns the definition for name, or nil.
func (t *DefTable) Lookup(name string) *Def {
	return t.defs[name]
}

// IsDefined reports whether name has a definition.
func (t *DefTable) IsDefined(name string) bool {
	_, ok := t.defs[name]
	return ok
}

// Define adds def, replacing any previous definition of the same name.
func (t *DefTable) Define(def *Def) {
	t.defs[def.Name] = def
}

// Undef removes the definition of name. Unknown names are ignored.
func (t *DefTable) Undef(name string) {
	delete(t.defs, name)
}

// Len returns the number of definitions.
func (t *DefTable) Len() int {
	return len(t.defs)
}

// Names returns the defined names in sorted order.
func (t *DefTable) Names() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyCmdlineDefines applies -D and -U style definitions. Each define is
// NAME or NAME=VALUE; a bare NAME is defined as 1. Undefines are applied
// after all defines.
func (t *DefTable) ApplyCmdlineDefines(defines, undefines []string) {
	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			value = "1"
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t.Define(&Def{Name: name, Text: strings.TrimSpace(value)})
	}
	for _, name := range undefines {
		t.Undef(strings.TrimSpace(name))
	}
}
