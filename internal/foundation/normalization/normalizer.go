// Package normalization maps loosely written option values onto canonical enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Enum normalizes raw strings onto a closed set of canonical values.
// Matching ignores case, surrounding whitespace and '-' versus '_'.
type Enum[T ~string] struct {
	name      string
	values    map[string]T
	validKeys []string // sorted, cached for error messages
}

// NewEnum creates an Enum for the given canonical values. Aliases may be
// registered with Alias.
func NewEnum[T ~string](name string, values ...T) *Enum[T] {
	e := &Enum[T]{name: name, values: make(map[string]T, len(values))}
	for _, v := range values {
		key := Clean(string(v))
		e.values[key] = v
		e.validKeys = append(e.validKeys, key)
	}
	sort.Strings(e.validKeys)
	return e
}

// Alias registers an additional spelling for value. Aliases are accepted by
// Parse but not listed by Values.
func (e *Enum[T]) Alias(alias string, value T) *Enum[T] {
	e.values[Clean(alias)] = value
	return e
}

// Name returns the enum's descriptive name.
func (e *Enum[T]) Name() string { return e.name }

// Parse converts raw to its canonical value.
func (e *Enum[T]) Parse(raw string) (T, error) {
	if v, ok := e.values[Clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %s", e.name, raw, strings.Join(e.validKeys, ", "))
}

// Normalize converts raw to its canonical value, or returns fallback.
func (e *Enum[T]) Normalize(raw string, fallback T) T {
	if v, err := e.Parse(raw); err == nil {
		return v
	}
	return fallback
}

// IsValid reports whether raw names a known value.
func (e *Enum[T]) IsValid(raw string) bool {
	_, ok := e.values[Clean(raw)]
	return ok
}

// Values returns the canonical spellings in sorted order.
func (e *Enum[T]) Values() []string {
	out := make([]string, len(e.validKeys))
	copy(out, e.validKeys)
	return out
}

// Clean is the normalization applied to both keys and input.
func Clean(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
