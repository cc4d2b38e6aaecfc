package mddiff

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML document into a normalized value, keeping the
// order of mapping keys. Aliases are expanded, integer mapping keys become
// index keys
func DecodeYAML(data []byte) (interface{}, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrapf(ErrDecode, "yaml: %s", err)
	}
	return yamlValue(&n, map[*yaml.Node]bool{})
}

func yamlValue(n *yaml.Node, path map[*yaml.Node]bool) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0], path)
	case yaml.AliasNode:
		if path[n.Alias] {
			return nil, errors.Wrapf(ErrDecode, "yaml: line %d: alias %q refers to an enclosing node", n.Line, n.Value)
		}
		return yamlValue(n.Alias, path)
	case yaml.MappingNode:
		path[n] = true
		defer delete(path, n)

		doc := newDocument(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := yamlKey(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := yamlValue(n.Content[i+1], path)
			if err != nil {
				return nil, err
			}
			doc.set(key, v)
		}
		return doc, nil
	case yaml.SequenceNode:
		path[n] = true
		defer delete(path, n)

		doc := newDocument(len(n.Content))
		doc.list = true
		for i, ch := range n.Content {
			v, err := yamlValue(ch, path)
			if err != nil {
				return nil, err
			}
			doc.set(IndexKey(i), v)
		}
		return doc, nil
	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrapf(ErrDecode, "yaml: %s", err)
		}
		return Normalize(v), nil
	default:
		return nil, nil
	}
}

func yamlKey(n *yaml.Node) (Key, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return Key{}, errors.Wrapf(ErrDecode, "yaml: line %d: mapping keys must be scalars", n.Line)
	}

	var k interface{}
	if err := n.Decode(&k); err != nil {
		return Key{}, errors.Wrapf(ErrDecode, "yaml: %s", err)
	}
	if i, ok := k.(int); ok {
		return IndexKey(i), nil
	}
	return StringKey(n.Value), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. the node must be a
// mapping or sequence
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	v, err := yamlValue(value, map[*yaml.Node]bool{})
	if err != nil {
		return err
	}
	doc, ok := v.(*Document)
	if !ok {
		return errors.Wrapf(ErrDecode, "expected a yaml mapping or sequence, got %s", KindOf(v))
	}
	*d = *doc
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface, writing keys in
// document order
func (d *Document) MarshalYAML() (interface{}, error) {
	return yamlNode(d, docPath{})
}

func yamlNode(v interface{}, path docPath) (*yaml.Node, error) {
	switch x := v.(type) {
	case *Document:
		if !path.enter(x) {
			return nil, errors.Wrap(ErrEncode, "document contains itself")
		}
		defer path.leave(x)

		if x.IsList() {
			n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, k := range x.keys {
				ch, err := yamlNode(x.vals[k], path)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, ch)
			}
			return n, nil
		}

		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range x.keys {
			kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k.String()}
			if k.IsIndex() {
				kn.Tag = "!!int"
			}
			ch, err := yamlNode(x.vals[k], path)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, kn, ch)
		}
		return n, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(x)}, nil
	case Opaque:
		v = x.V
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, errors.Wrapf(ErrEncode, "yaml: %s", err)
	}
	return n, nil
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		s += ".0"
	}
	return s
}
