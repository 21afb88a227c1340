package filter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op is a comparison operator of a single constraint.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// lookupSuffixes are the legacy "attr__lookup" key forms still found in stored
// widget filters.
var lookupSuffixes = map[string]Op{
	"exact": OpEq,
	"gt":    OpGt,
	"gte":   OpGte,
	"lt":    OpLt,
	"lte":   OpLte,
}

// Term is one parsed, still untyped, constraint of a filter spec.
type Term struct {
	Attribute string
	Op        Op
	Raw       interface{}
}

// Spec is a parsed filter spec: terms in document order, combined with AND.
type Spec []Term

// ParseSpec parses the serialized filter stored on a widget.
//
// The format is a YAML mapping of attribute to constraint, so legacy literals
// such as {'status': 'active'} parse unchanged. A scalar value is an equality,
// a two-item list is an inclusive [low, high] range, and a nested mapping with
// gt/gte/lt/lte keys is an explicit range. Keys may carry a __gt, __gte, __lt,
// __lte, __exact or __range suffix instead. Blank input yields an empty Spec.
func ParseSpec(raw string) (Spec, error) {
	if strings.TrimSpace(raw) == "" {
		return Spec{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Spec{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return Spec{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping of attribute to value", ErrMalformedSpec)
	}

	spec := make(Spec, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Value == "" {
			return nil, fmt.Errorf("%w: attribute names must be non-empty strings", ErrMalformedSpec)
		}

		terms, err := parseTerm(keyNode.Value, valueNode)
		if err != nil {
			return nil, err
		}
		spec = append(spec, terms...)
	}
	return spec, nil
}

func parseTerm(key string, node *yaml.Node) ([]Term, error) {
	attr, lookup := splitLookup(key)

	switch lookup {
	case "":
	case "range":
		return parseRange(attr, node)
	default:
		op, ok := lookupSuffixes[lookup]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported lookup %q on %q", ErrMalformedSpec, lookup, attr)
		}
		v, err := scalarValue(attr, node)
		if err != nil {
			return nil, err
		}
		return []Term{{Attribute: attr, Op: op, Raw: v}}, nil
	}

	switch node.Kind {
	case yaml.ScalarNode:
		v, err := scalarValue(attr, node)
		if err != nil {
			return nil, err
		}
		return []Term{{Attribute: attr, Op: OpEq, Raw: v}}, nil
	case yaml.SequenceNode:
		return parseRange(attr, node)
	case yaml.MappingNode:
		return parseBounds(attr, node)
	default:
		return nil, fmt.Errorf("%w: unsupported value for %q", ErrMalformedSpec, attr)
	}
}

// parseRange handles [low, high]; both ends are inclusive.
func parseRange(attr string, node *yaml.Node) ([]Term, error) {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("%w: range on %q must be a [low, high] pair", ErrMalformedSpec, attr)
	}
	low, err := scalarValue(attr, node.Content[0])
	if err != nil {
		return nil, err
	}
	high, err := scalarValue(attr, node.Content[1])
	if err != nil {
		return nil, err
	}
	return []Term{
		{Attribute: attr, Op: OpGte, Raw: low},
		{Attribute: attr, Op: OpLte, Raw: high},
	}, nil
}

func parseBounds(attr string, node *yaml.Node) ([]Term, error) {
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("%w: empty bounds for %q", ErrMalformedSpec, attr)
	}
	terms := make([]Term, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		opName := node.Content[i].Value
		op, ok := lookupSuffixes[opName]
		if !ok || op == OpEq {
			return nil, fmt.Errorf("%w: unsupported bound %q on %q (use gt, gte, lt, lte)", ErrMalformedSpec, opName, attr)
		}
		v, err := scalarValue(attr, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Attribute: attr, Op: op, Raw: v})
	}
	return terms, nil
}

func scalarValue(attr string, node *yaml.Node) (interface{}, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: value for %q must be a scalar", ErrMalformedSpec, attr)
	}
	if node.Tag == "!!null" {
		return nil, fmt.Errorf("%w: null value for %q", ErrMalformedSpec, attr)
	}
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedSpec, attr, err)
	}
	return v, nil
}

func splitLookup(key string) (attr, lookup string) {
	idx := strings.LastIndex(key, "__")
	if idx <= 0 {
		return key, ""
	}
	suffix := key[idx+2:]
	if _, ok := lookupSuffixes[suffix]; ok || suffix == "range" {
		return key[:idx], suffix
	}
	return key, ""
}
