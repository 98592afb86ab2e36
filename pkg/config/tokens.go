package config

import (
	"sort"
	"strings"
)

// TokenSet is a set of identifiers requested for removal. It counts how many
// times each entry matched so that requests which never fired can be
// reported after a run. A nil *TokenSet is an empty set.
type TokenSet struct {
	counts map[string]int
}

// NewTokenSet returns a set holding names.
func NewTokenSet(names ...string) *TokenSet {
	s := &TokenSet{counts: make(map[string]int, len(names))}
	for _, n := range names {
		s.counts[n] = 0
	}
	return s
}

// Add inserts name into the set.
func (s *TokenSet) Add(name string) {
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	if _, ok := s.counts[name]; !ok {
		s.counts[name] = 0
	}
}

// Contains reports whether name is in the set and records a match if so.
// Callers must only ask when a positive answer leads to a removal.
func (s *TokenSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.counts[name]; !ok {
		return false
	}
	s.counts[name]++
	return true
}

// Has reports membership without recording a match.
func (s *TokenSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.counts[name]
	return ok
}

// Len returns the number of entries.
func (s *TokenSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.counts)
}

// Matches returns how many times name matched so far.
func (s *TokenSet) Matches(name string) int {
	if s == nil {
		return 0
	}
	return s.counts[name]
}

// Names returns the entries in sorted order.
func (s *TokenSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.counts))
	for n := range s.counts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Unmatched returns, in sorted order, the entries that never matched.
func (s *TokenSet) Unmatched() []string {
	var out []string
	for _, n := range s.Names() {
		if s.counts[n] == 0 {
			out = append(out, n)
		}
	}
	return out
}

// clone copies the entries with their counters reset.
func (s *TokenSet) clone() *TokenSet {
	if s == nil {
		return NewTokenSet()
	}
	return NewTokenSet(s.Names()...)
}

// Category labels a removal set in diagnostics.
type Category string

// Removal set categories.
const (
	CategoryFromImports   Category = "from imports"
	CategoryFunctions     Category = "functions"
	CategoryVariables     Category = "variables"
	CategoryClasses       Category = "classes"
	CategoryDictKeys      Category = "dict keys"
	CategoryDecorators    Category = "decorators"
	CategoryModuleImports Category = "module imports"
)

// Tokens groups the removal sets.
type Tokens struct {
	FromImports   *TokenSet
	Functions     *TokenSet
	Variables     *TokenSet
	Classes       *TokenSet
	DictKeys      *TokenSet
	Decorators    *TokenSet
	ModuleImports *TokenSet

	// NoWarn names are never reported as unmatched.
	NoWarn map[string]struct{}
}

// NewTokens returns empty removal sets.
func NewTokens() *Tokens {
	return &Tokens{
		FromImports:   NewTokenSet(),
		Functions:     NewTokenSet(),
		Variables:     NewTokenSet(),
		Classes:       NewTokenSet(),
		DictKeys:      NewTokenSet(),
		Decorators:    NewTokenSet(),
		ModuleImports: NewTokenSet(),
		NoWarn:        make(map[string]struct{}),
	}
}

type categorySet struct {
	category Category
	set      *TokenSet
}

func (t *Tokens) sets() []categorySet {
	return []categorySet{
		{CategoryFromImports, t.FromImports},
		{CategoryFunctions, t.Functions},
		{CategoryVariables, t.Variables},
		{CategoryClasses, t.Classes},
		{CategoryDictKeys, t.DictKeys},
		{CategoryDecorators, t.Decorators},
		{CategoryModuleImports, t.ModuleImports},
	}
}

// Empty reports whether no removal was requested.
func (t *Tokens) Empty() bool {
	if t == nil {
		return true
	}
	for _, cs := range t.sets() {
		if cs.set.Len() > 0 {
			return false
		}
	}
	return true
}

// Set returns the removal set for a category.
func (t *Tokens) Set(c Category) *TokenSet {
	for _, cs := range t.sets() {
		if cs.category == c {
			return cs.set
		}
	}
	return nil
}

// Unmatched returns one diagnostic per category holding entries that never
// matched, skipping NoWarn names.
func (t *Tokens) Unmatched(module string) []Diagnostic {
	if t == nil {
		return nil
	}
	var diags []Diagnostic
	for _, cs := range t.sets() {
		var missing []string
		for _, name := range cs.set.Unmatched() {
			if _, quiet := t.NoWarn[name]; quiet {
				continue
			}
			missing = append(missing, name)
		}
		if len(missing) == 0 {
			continue
		}
		diags = append(diags, Diagnostic{
			Module:   module,
			Category: cs.category,
			Tokens:   strings.Join(missing, ","),
		})
	}
	return diags
}

func (t *Tokens) clone() *Tokens {
	if t == nil {
		return NewTokens()
	}
	out := &Tokens{
		FromImports:   t.FromImports.clone(),
		Functions:     t.Functions.clone(),
		Variables:     t.Variables.clone(),
		Classes:       t.Classes.clone(),
		DictKeys:      t.DictKeys.clone(),
		Decorators:    t.Decorators.clone(),
		ModuleImports: t.ModuleImports.clone(),
		NoWarn:        make(map[string]struct{}, len(t.NoWarn)),
	}
	for n := range t.NoWarn {
		out.NoWarn[n] = struct{}{}
	}
	return out
}
