package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/siteconfig/internal/dsl"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// applier records directives into a Record in declaration order.
type applier struct {
	rec *Record
	env Environment
}

func apply(rec *Record, directives []dsl.Directive) error {
	a := &applier{rec: rec}
	return a.all(directives)
}

func (a *applier) all(ds []dsl.Directive) error {
	for _, d := range ds {
		if err := a.directive(d); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) scope() *Scope { return a.rec.scopeFor(a.env) }

// qualify prefixes key with the current environment for error messages.
func (a *applier) qualify(key string) string {
	return Entry{Env: a.env, Key: key}.QualifiedKey()
}

func (a *applier) directive(d dsl.Directive) error {
	if d.Kind == dsl.Assign {
		return configErrorf(d.Pos, d.Receiver, "assignment to %s.%s outside of its activate block", d.Receiver, d.Attr)
	}
	switch d.Name {
	case "activate":
		return a.activate(d)
	case "set":
		return a.set(d)
	case "page":
		return a.page(d)
	case "configure":
		return a.configure(d)
	default:
		return ferrors.UnknownOptionError(fmt.Sprintf("unknown directive %q", d.Name)).
			WithPosition(d.Pos.File, d.Pos.Line, d.Pos.Column).
			WithContext(ferrors.ContextDirective, d.Name).
			Build()
	}
}

// directiveName extracts the single symbol or string argument of a directive.
func directiveName(d dsl.Directive, what string) (string, dsl.Pos, error) {
	if len(d.Args) == 0 {
		return "", d.Pos, configErrorf(d.Pos, d.Name, "%s requires a %s", d.Name, what)
	}
	s, ok := d.Args[0].Text()
	if !ok {
		return "", d.Args[0].Pos, typeMismatch(d.Args[0].Pos, d.Name,
			fmt.Sprintf("%s: %s must be a symbol or string, got %s", d.Name, what, d.Args[0].Kind))
	}
	return s, d.Args[0].Pos, nil
}

func (a *applier) activate(d dsl.Directive) error {
	extName, pos, err := directiveName(d, "extension name")
	if err != nil {
		return err
	}
	if len(d.Args) > 1 {
		return configErrorf(d.Args[1].Pos, d.Name, "activate :%s takes options as key: value pairs", extName)
	}
	ext, ok := lookupExtension(extName)
	if !ok {
		return unknownOption(pos, extName, fmt.Sprintf("unknown extension %q (known: %s)", extName, strings.Join(ExtensionNames(), ", ")))
	}

	s := a.scope()
	s.set(ext.Key, BoolValue(true))

	for _, opt := range d.Options {
		if err := a.extensionOption(s, ext, opt.Key, opt.KeyPos, opt.Value); err != nil {
			return err
		}
	}

	if d.Block == nil {
		return nil
	}
	if len(d.Block.Params) > 1 {
		return configErrorf(d.Block.Pos, ext.Name, "activate :%s block takes a single parameter", ext.Name)
	}
	for _, stmt := range d.Block.Body {
		if stmt.Kind != dsl.Assign {
			return configErrorf(stmt.Pos, ext.Name, "only attribute assignments are allowed inside activate :%s", ext.Name)
		}
		if len(d.Block.Params) == 0 || stmt.Receiver != d.Block.Params[0] {
			return configErrorf(stmt.Pos, ext.Name, "%s is not the parameter of activate :%s", stmt.Receiver, ext.Name)
		}
		if err := a.extensionOption(s, ext, stmt.Attr, stmt.Pos, stmt.Value); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) extensionOption(s *Scope, ext *extensionSpec, attr string, pos dsl.Pos, v dsl.Value) error {
	spec, ok := ext.option(attr)
	if !ok {
		return unknownOption(pos, a.qualify(ext.Key+"."+attr), fmt.Sprintf("unknown option %q for extension %s", attr, ext.Name))
	}
	key := ext.Key + "." + spec.Key
	if v.Kind == dsl.KindNil {
		s.unset(key)
		return nil
	}
	val, err := coerce(spec, a.qualify(key), v)
	if err != nil {
		return err
	}
	s.set(key, val)
	return nil
}

func (a *applier) set(d dsl.Directive) error {
	setting, pos, err := directiveName(d, "setting name")
	if err != nil {
		return err
	}
	spec, ok := lookupSetting(setting)
	if !ok {
		return unknownOption(pos, setting, fmt.Sprintf("unknown setting %q", setting))
	}

	var v dsl.Value
	switch {
	case len(d.Args) == 2 && len(d.Options) == 0:
		v = d.Args[1]
	case len(d.Args) == 1 && len(d.Options) > 0:
		// set :markdown, :tables => true, ...
		v = dsl.Value{Kind: dsl.KindHash, Hash: d.Options, Pos: d.Options[0].KeyPos}
	case len(d.Args) == 1:
		return configErrorf(d.Pos, setting, "set :%s requires a value", setting)
	default:
		return configErrorf(d.Pos, setting, "set :%s takes a single value", setting)
	}

	s := a.scope()
	if v.Kind == dsl.KindNil {
		s.unset(spec.Key)
		return nil
	}
	val, err := coerce(spec, a.qualify(spec.Key), v)
	if err != nil {
		return err
	}
	s.set(spec.Key, val)
	return nil
}

func (a *applier) page(d dsl.Directive) error {
	if len(d.Args) != 1 || d.Args[0].Kind != dsl.KindString {
		return configErrorf(d.Pos, d.Name, "page requires a single path string")
	}
	if d.Block != nil {
		return configErrorf(d.Block.Pos, d.Name, "page does not take a block")
	}
	rule := PageRule{Path: d.Args[0].Str, Values: map[string]Value{}}
	for _, opt := range d.Options {
		spec, ok := lookupPageOption(opt.Key)
		if !ok {
			return unknownOption(opt.KeyPos, opt.Key, fmt.Sprintf("unknown page option %q", opt.Key))
		}
		if opt.Value.Kind == dsl.KindNil {
			delete(rule.Values, spec.Key)
			continue
		}
		val, err := coerce(spec, fmt.Sprintf("page %q %s", rule.Path, opt.Key), opt.Value)
		if err != nil {
			return err
		}
		rule.Values[spec.Key] = val
	}
	a.scope().setPage(rule)
	return nil
}

func (a *applier) configure(d dsl.Directive) error {
	raw, pos, err := directiveName(d, "environment name")
	if err != nil {
		return err
	}
	if a.env != EnvGlobal {
		return configErrorf(d.Pos, raw, "configure :%s cannot be nested inside configure :%s", raw, a.env)
	}
	env, err := ParseEnvironment(raw)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryUnknownOption, fmt.Sprintf("unknown environment %q", raw)).
			Fatal().
			UserAction().
			WithPosition(pos.File, pos.Line, pos.Column).
			WithContext(ferrors.ContextKey, raw).
			Build()
	}
	if len(d.Args) > 1 || len(d.Options) > 0 {
		return configErrorf(d.Pos, raw, "configure takes only an environment name")
	}
	if d.Block == nil {
		return configErrorf(d.Pos, raw, "configure :%s requires a do ... end block", env)
	}
	if len(d.Block.Params) > 0 {
		return configErrorf(d.Block.Pos, raw, "configure :%s block takes no parameters", env)
	}

	a.rec.scopeFor(env)
	a.env = env
	defer func() { a.env = EnvGlobal }()
	return a.all(d.Block.Body)
}

func configErrorf(pos dsl.Pos, directive, format string, args ...any) error {
	return ferrors.ConfigError(fmt.Sprintf(format, args...)).
		UserAction().
		WithPosition(pos.File, pos.Line, pos.Column).
		WithContext(ferrors.ContextDirective, directive).
		Build()
}
