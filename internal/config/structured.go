package config

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/siteconfig/internal/dsl"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

var yamlErrLine = regexp.MustCompile(`line (\d+)`)

// parseJSONC strips comments and trailing commas and parses the result as
// YAML, which accepts JSON documents. Stripping keeps byte offsets, so
// reported lines match the original file.
func parseJSONC(name string, data []byte) ([]dsl.Directive, error) {
	return parseStructured(name, jsonc.ToJSON(data))
}

// parseStructured converts a YAML document with top-level activate, set,
// page and configure keys into directives, preserving document order.
func parseStructured(name string, data []byte) ([]dsl.Directive, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		line := 0
		if m := yamlErrLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		return nil, ferrors.WrapError(err, ferrors.CategorySyntax, "malformed document").
			Fatal().
			UserAction().
			WithPosition(name, line, 0).
			Build()
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	c := &structConverter{file: name}
	return c.section(doc.Content[0])
}

type structConverter struct {
	file string
}

func (c *structConverter) pos(n *yaml.Node) dsl.Pos {
	return dsl.Pos{File: c.file, Line: n.Line, Column: n.Column}
}

func (c *structConverter) mapping(n *yaml.Node, what string) ([][2]*yaml.Node, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return nil, configErrorf(c.pos(n), what, "%s must be a mapping", what)
	}
	pairs := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolveAlias(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return nil, configErrorf(c.pos(k), what, "%s keys must be scalars", what)
		}
		pairs = append(pairs, [2]*yaml.Node{k, n.Content[i+1]})
	}
	return pairs, nil
}

// section converts the document root or the body of a configure entry.
func (c *structConverter) section(n *yaml.Node) ([]dsl.Directive, error) {
	top, err := c.mapping(n, "document")
	if err != nil {
		return nil, err
	}
	var out []dsl.Directive
	for _, kv := range top {
		key, body := kv[0], kv[1]
		var ds []dsl.Directive
		switch key.Value {
		case "activate":
			ds, err = c.activate(body)
		case "set":
			ds, err = c.set(body)
		case "page":
			ds, err = c.page(body)
		case "configure":
			ds, err = c.configure(body)
		default:
			// Reported as an unknown directive by the applier.
			ds = []dsl.Directive{{Kind: dsl.Call, Pos: c.pos(key), Name: key.Value}}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	return out, nil
}

func (c *structConverter) activate(n *yaml.Node) ([]dsl.Directive, error) {
	entries, err := c.mapping(n, "activate")
	if err != nil {
		return nil, err
	}
	var out []dsl.Directive
	for _, kv := range entries {
		d := dsl.Directive{
			Kind: dsl.Call,
			Pos:  c.pos(kv[0]),
			Name: "activate",
			Args: []dsl.Value{{Kind: dsl.KindSymbol, Str: kv[0].Value, Pos: c.pos(kv[0])}},
		}
		v := resolveAlias(kv[1])
		switch {
		case v.Kind == yaml.ScalarNode && v.Tag == "!!bool":
			b, _ := strconv.ParseBool(v.Value)
			if !b {
				continue
			}
		case v.Kind == yaml.MappingNode:
			opts, err := c.value(v)
			if err != nil {
				return nil, err
			}
			d.Options = opts.Hash
		default:
			return nil, typeMismatch(c.pos(v), kv[0].Value,
				fmt.Sprintf("activate %s: expected true or a mapping of options", kv[0].Value))
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *structConverter) set(n *yaml.Node) ([]dsl.Directive, error) {
	entries, err := c.mapping(n, "set")
	if err != nil {
		return nil, err
	}
	out := make([]dsl.Directive, 0, len(entries))
	for _, kv := range entries {
		v, err := c.value(kv[1])
		if err != nil {
			return nil, err
		}
		out = append(out, dsl.Directive{
			Kind: dsl.Call,
			Pos:  c.pos(kv[0]),
			Name: "set",
			Args: []dsl.Value{{Kind: dsl.KindSymbol, Str: kv[0].Value, Pos: c.pos(kv[0])}, v},
		})
	}
	return out, nil
}

func (c *structConverter) page(n *yaml.Node) ([]dsl.Directive, error) {
	entries, err := c.mapping(n, "page")
	if err != nil {
		return nil, err
	}
	out := make([]dsl.Directive, 0, len(entries))
	for _, kv := range entries {
		d := dsl.Directive{
			Kind: dsl.Call,
			Pos:  c.pos(kv[0]),
			Name: "page",
			Args: []dsl.Value{{Kind: dsl.KindString, Str: kv[0].Value, Pos: c.pos(kv[0])}},
		}
		v, err := c.value(kv[1])
		if err != nil {
			return nil, err
		}
		switch v.Kind {
		case dsl.KindHash:
			d.Options = v.Hash
		case dsl.KindNil:
		default:
			return nil, typeMismatch(v.Pos, kv[0].Value, fmt.Sprintf("page %q: expected a mapping of options", kv[0].Value))
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *structConverter) configure(n *yaml.Node) ([]dsl.Directive, error) {
	entries, err := c.mapping(n, "configure")
	if err != nil {
		return nil, err
	}
	out := make([]dsl.Directive, 0, len(entries))
	for _, kv := range entries {
		body, err := c.section(kv[1])
		if err != nil {
			return nil, err
		}
		out = append(out, dsl.Directive{
			Kind:  dsl.Call,
			Pos:   c.pos(kv[0]),
			Name:  "configure",
			Args:  []dsl.Value{{Kind: dsl.KindSymbol, Str: kv[0].Value, Pos: c.pos(kv[0])}},
			Block: &dsl.Block{Pos: c.pos(kv[1]), Body: body},
		})
	}
	return out, nil
}

// value converts a YAML node into a literal.
func (c *structConverter) value(n *yaml.Node) (dsl.Value, error) {
	n = resolveAlias(n)
	v := dsl.Value{Pos: c.pos(n)}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			v.Kind = dsl.KindNil
		case "!!bool":
			v.Kind = dsl.KindBool
			if err := n.Decode(&v.Bool); err != nil {
				return dsl.Value{}, c.syntax(n, err)
			}
		case "!!int":
			v.Kind = dsl.KindInt
			if err := n.Decode(&v.Int); err != nil {
				return dsl.Value{}, c.syntax(n, err)
			}
		case "!!float":
			return dsl.Value{}, syntaxErrorAt(v.Pos, "floating point values are not supported")
		default:
			v.Kind, v.Str = dsl.KindString, n.Value
		}
	case yaml.SequenceNode:
		v.Kind = dsl.KindArray
		v.List = make([]dsl.Value, 0, len(n.Content))
		for _, item := range n.Content {
			iv, err := c.value(item)
			if err != nil {
				return dsl.Value{}, err
			}
			v.List = append(v.List, iv)
		}
	case yaml.MappingNode:
		pairs, err := c.mapping(n, "value")
		if err != nil {
			return dsl.Value{}, err
		}
		v.Kind = dsl.KindHash
		v.Hash = make([]dsl.Pair, 0, len(pairs))
		for _, kv := range pairs {
			pv, err := c.value(kv[1])
			if err != nil {
				return dsl.Value{}, err
			}
			v.Hash = append(v.Hash, dsl.Pair{Key: kv[0].Value, KeyPos: c.pos(kv[0]), Value: pv})
		}
	default:
		return dsl.Value{}, syntaxErrorAt(v.Pos, "unsupported document node")
	}
	return v, nil
}

func (c *structConverter) syntax(n *yaml.Node, err error) error {
	return ferrors.WrapError(err, ferrors.CategorySyntax, "malformed value "+strconv.Quote(n.Value)).
		Fatal().
		UserAction().
		WithPosition(c.file, n.Line, n.Column).
		Build()
}

func syntaxErrorAt(pos dsl.Pos, msg string) error {
	return ferrors.SyntaxError(msg).WithPosition(pos.File, pos.Line, pos.Column).Build()
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
