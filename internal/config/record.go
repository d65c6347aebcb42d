package config

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// EnvironmentPrefix prefixes scoped keys in lookups and listings.
const EnvironmentPrefix = "environment."

// PageRule holds the options of one `page` declaration.
type PageRule struct {
	Path   string
	Values map[string]Value
}

// Layout reports the configured layout. An empty name with ok=true means
// the page renders without a layout.
func (p PageRule) Layout() (name string, ok bool) {
	v, ok := p.Values["layout"]
	if !ok {
		return "", false
	}
	return v.Str, true
}

// Equal reports whether two rules declare the same options.
func (p PageRule) Equal(o PageRule) bool {
	return p.Path == o.Path && maps.EqualFunc(p.Values, o.Values, Value.Equal)
}

// Scope is one namespace of the record: the global scope or a single
// environment.
type Scope struct {
	values map[string]Value
	pages  map[string]PageRule
}

func newScope() *Scope {
	return &Scope{values: map[string]Value{}, pages: map[string]PageRule{}}
}

// Get returns the value of a canonical key declared in this scope.
func (s *Scope) Get(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is declared in this scope.
func (s *Scope) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys lists the declared keys in sorted order.
func (s *Scope) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.values))
}

// Len is the number of declared keys.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Page returns the rule declared for path.
func (s *Scope) Page(path string) (PageRule, bool) {
	if s == nil {
		return PageRule{}, false
	}
	p, ok := s.pages[path]
	return p, ok
}

// Pages lists the page rules sorted by path.
func (s *Scope) Pages() []PageRule {
	if s == nil {
		return nil
	}
	out := make([]PageRule, 0, len(s.pages))
	for _, path := range slices.Sorted(maps.Keys(s.pages)) {
		out = append(out, s.pages[path])
	}
	return out
}

func (s *Scope) set(key string, v Value) { s.values[key] = v }

func (s *Scope) unset(key string) { delete(s.values, key) }

func (s *Scope) setPage(p PageRule) { s.pages[p.Path] = p }

func (s *Scope) equal(o *Scope) bool {
	if s.Len() != o.Len() || len(s.pageMap()) != len(o.pageMap()) {
		return false
	}
	return maps.EqualFunc(s.valueMap(), o.valueMap(), Value.Equal) &&
		maps.EqualFunc(s.pageMap(), o.pageMap(), PageRule.Equal)
}

func (s *Scope) valueMap() map[string]Value {
	if s == nil {
		return nil
	}
	return s.values
}

func (s *Scope) pageMap() map[string]PageRule {
	if s == nil {
		return nil
	}
	return s.pages
}

// Record is the Site Configuration Record produced by one load. It is not
// modified after the loader returns it and is safe for concurrent reads.
type Record struct {
	// Source names the file the record was loaded from.
	Source string
	Format Format

	global *Scope
	envs   map[Environment]*Scope
}

func newRecord(source string, format Format) *Record {
	return &Record{Source: source, Format: format, global: newScope(), envs: map[Environment]*Scope{}}
}

// Global returns the unscoped options.
func (r *Record) Global() *Scope { return r.global }

// Scope returns the options declared for env, or the global scope for
// EnvGlobal. Undeclared environments yield an empty (nil) scope.
func (r *Record) Scope(env Environment) *Scope {
	if env == EnvGlobal {
		return r.global
	}
	return r.envs[env]
}

func (r *Record) scopeFor(env Environment) *Scope {
	if env == EnvGlobal {
		return r.global
	}
	s, ok := r.envs[env]
	if !ok {
		s = newScope()
		r.envs[env] = s
	}
	return s
}

// Environments lists the environments that have a configure block,
// sorted by name.
func (r *Record) Environments() []Environment {
	return slices.Sorted(maps.Keys(r.envs))
}

// Get looks up a key. Keys prefixed with "environment.<env>." are read
// from that environment's scope only.
func (r *Record) Get(key string) (Value, bool) {
	env, rest := splitScopedKey(key)
	return r.Scope(env).Get(rest)
}

// Has reports whether Get would find key.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

func splitScopedKey(key string) (Environment, string) {
	rest, ok := strings.CutPrefix(key, EnvironmentPrefix)
	if !ok {
		return EnvGlobal, key
	}
	env, k, ok := strings.Cut(rest, ".")
	if !ok {
		return EnvGlobal, key
	}
	return Environment(env), k
}

// Entry is one flattened key/value of the record.
type Entry struct {
	Env   Environment
	Key   string
	Value Value
}

// QualifiedKey returns the key with its environment prefix.
func (e Entry) QualifiedKey() string {
	if e.Env == EnvGlobal {
		return e.Key
	}
	return EnvironmentPrefix + string(e.Env) + "." + e.Key
}

// Entries flattens the record: global entries first, then each environment
// in name order. Page rules appear as `pages["<path>"].<option>` keys.
func (r *Record) Entries() []Entry {
	var out []Entry
	out = appendEntries(out, EnvGlobal, r.global)
	for _, env := range r.Environments() {
		out = appendEntries(out, env, r.envs[env])
	}
	return out
}

func appendEntries(out []Entry, env Environment, s *Scope) []Entry {
	for _, k := range s.Keys() {
		out = append(out, Entry{Env: env, Key: k, Value: s.values[k]})
	}
	for _, p := range s.Pages() {
		prefix := "pages[" + strconv.Quote(p.Path) + "]"
		if len(p.Values) == 0 {
			out = append(out, Entry{Env: env, Key: prefix, Value: BoolValue(true)})
			continue
		}
		for _, k := range slices.Sorted(maps.Keys(p.Values)) {
			out = append(out, Entry{Env: env, Key: prefix + "." + k, Value: p.Values[k]})
		}
	}
	return out
}

// Len is the total number of declared options across all scopes.
func (r *Record) Len() int {
	n := r.global.Len()
	for _, s := range r.envs {
		n += s.Len()
	}
	return n
}

// Equal reports whether both records declare the same options and pages
// in every scope. Source and Format are ignored.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if !r.global.equal(o.global) || len(r.envs) != len(o.envs) {
		return false
	}
	for env, s := range r.envs {
		other, ok := o.envs[env]
		if !ok || !s.equal(other) {
			return false
		}
	}
	return true
}
