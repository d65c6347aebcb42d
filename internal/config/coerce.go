package config

import (
	"fmt"

	"git.home.luguber.info/inful/siteconfig/internal/dsl"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/util/sets"
)

// coerce converts a literal into the declared type of spec. key is the
// qualified key used in error messages. nil literals are handled by the
// caller.
func coerce(spec optionSpec, key string, v dsl.Value) (Value, error) {
	switch spec.Type {
	case TypeBool:
		if v.Kind == dsl.KindBool {
			return BoolValue(v.Bool), nil
		}
	case TypeInt:
		if v.Kind == dsl.KindInt {
			n := int(v.Int)
			if spec.Max > 0 && (v.Int < int64(spec.Min) || v.Int > int64(spec.Max)) {
				return Value{}, typeMismatch(v.Pos, key,
					fmt.Sprintf("%s must be between %d and %d, got %d", key, spec.Min, spec.Max, v.Int))
			}
			return IntValue(n), nil
		}
	case TypeString:
		if s, ok := v.Text(); ok {
			return StringValue(s), nil
		}
	case TypeStringList:
		return coerceList(key, v)
	case TypeEnum:
		if s, ok := v.Text(); ok {
			canonical, err := spec.parse(s)
			if err != nil {
				return Value{}, typeMismatch(v.Pos, key, fmt.Sprintf("%s: %v", key, err))
			}
			return Value{Type: TypeEnum, Str: canonical}, nil
		}
	case TypeFlags:
		if v.Kind == dsl.KindHash {
			return coerceFlags(key, v.Hash)
		}
	case TypeLayout:
		if s, ok := v.Text(); ok {
			if s == "" {
				return Value{}, typeMismatch(v.Pos, key, key+": layout name must not be empty")
			}
			return Value{Type: TypeLayout, Str: s}, nil
		}
		if v.Kind == dsl.KindBool && !v.Bool {
			return Value{Type: TypeLayout}, nil
		}
		return Value{}, typeMismatch(v.Pos, key, fmt.Sprintf("%s: expected layout name or false, got %s", key, v))
	}
	return Value{}, typeMismatch(v.Pos, key, fmt.Sprintf("%s: expected %s, got %s %s", key, spec.Type, v.Kind, v))
}

// coerceList accepts an array of strings or symbols, or a single one.
func coerceList(key string, v dsl.Value) (Value, error) {
	if s, ok := v.Text(); ok {
		return ListValue(s), nil
	}
	if v.Kind != dsl.KindArray {
		return Value{}, typeMismatch(v.Pos, key, fmt.Sprintf("%s: expected list of strings, got %s %s", key, v.Kind, v))
	}
	items := make([]string, 0, len(v.List))
	for _, item := range v.List {
		s, ok := item.Text()
		if !ok {
			return Value{}, typeMismatch(item.Pos, key, fmt.Sprintf("%s: list items must be strings, got %s %s", key, item.Kind, item))
		}
		items = append(items, s)
	}
	return ListValue(items...), nil
}

// coerceFlags turns `flag => bool` pairs into the sorted set of enabled
// canonical flags.
func coerceFlags(key string, pairs []dsl.Pair) (Value, error) {
	enabled := sets.New[string]()
	for _, p := range pairs {
		flag, ok := markdownFlags[p.Key]
		if !ok {
			return Value{}, ferrors.UnknownOptionError(fmt.Sprintf("unknown markdown option %q", p.Key)).
				WithPosition(p.KeyPos.File, p.KeyPos.Line, p.KeyPos.Column).
				WithContext(ferrors.ContextKey, key).
				Build()
		}
		if p.Value.Kind != dsl.KindBool {
			return Value{}, typeMismatch(p.Value.Pos, key,
				fmt.Sprintf("%s.%s: expected boolean, got %s %s", key, p.Key, p.Value.Kind, p.Value))
		}
		if p.Value.Bool {
			enabled.Add(string(flag))
		} else {
			enabled.Delete(string(flag))
		}
	}
	return Value{Type: TypeFlags, List: sets.Sorted(enabled)}, nil
}

func typeMismatch(pos dsl.Pos, key, msg string) error {
	return ferrors.TypeMismatchError(msg).
		WithPosition(pos.File, pos.Line, pos.Column).
		WithContext(ferrors.ContextKey, key).
		Build()
}

func unknownOption(pos dsl.Pos, key, msg string) error {
	return ferrors.UnknownOptionError(msg).
		WithPosition(pos.File, pos.Line, pos.Column).
		WithContext(ferrors.ContextKey, key).
		Build()
}
