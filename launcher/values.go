package launcher

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Pair struct {
	Key   string
	Value string
}

// Values is an ordered string mapping. It backs command-line options,
// LAMMPS variables and scheduler settings, all of which are rendered in
// insertion order so that generated commands are reproducible.
type Values []Pair

// NewValues builds Values from alternating keys and values.
func NewValues(kv ...string) Values {
	if len(kv)%2 != 0 {
		panic("launcher: NewValues needs an even number of arguments")
	}
	values := make(Values, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		values.Set(kv[i], kv[i+1])
	}
	return values
}

// Set overwrites the value of an existing key in place or appends a new pair.
func (v *Values) Set(key, value string) {
	for i := range *v {
		if (*v)[i].Key == key {
			(*v)[i].Value = value
			return
		}
	}
	*v = append(*v, Pair{key, value})
}

func (v Values) Get(key string) (string, bool) {
	for _, p := range v {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (v Values) Keys() []string {
	keys := make([]string, len(v))
	for i, p := range v {
		keys[i] = p.Key
	}
	return keys
}

func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return append(make(Values, 0, len(v)), v...)
}

// Merge returns a new Values holding defaults overlaid with overrides.
// Keys keep the order in which they first appear in defaults; override-only
// keys are appended in their own order. Overrides win on collision.
func Merge(defaults, overrides Values) Values {
	merged := defaults.Clone()
	for _, p := range overrides {
		merged.Set(p.Key, p.Value)
	}
	return merged
}

// ParseAssignments parses KEY=VALUE items, keeping their order. A repeated
// key keeps its first position and its last value.
func ParseAssignments(items []string) (Values, error) {
	values := Values{}
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment '%s', expected KEY=VALUE", item)
		}
		values.Set(key, value)
	}
	return values, nil
}

func (v Values) String() string {
	var b strings.Builder
	for i, p := range v {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%s", p.Key, p.Value)
	}
	return b.String()
}

// UnmarshalYAML decodes a YAML mapping, preserving document order.
// Scalar values are kept as their literal text, so `T: 300` yields "300".
// Aliases are followed and `<<` merge keys are expanded in place, keys
// written explicitly in the mapping taking precedence.
func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*v = Values{}
		return nil
	}

	values := Values{}
	if err := values.decodeMapping(node); err != nil {
		return err
	}
	*v = values
	return nil
}

func (v *Values) decodeMapping(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	explicit := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := resolveAlias(node.Content[i]), resolveAlias(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: keys must be scalars", key.Line)
		}
		if key.Tag == "!!merge" {
			if err := v.merge(value, explicit); err != nil {
				return err
			}
			continue
		}
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of '%s' must be a scalar", value.Line, key.Value)
		}

		if value.Tag == "!!null" {
			v.Set(key.Value, "")
		} else {
			v.Set(key.Value, value.Value)
		}
		explicit[key.Value] = true
	}
	return nil
}

// merge adds the pairs of a merge key value: one mapping or a sequence of
// mappings, earlier ones winning.
func (v *Values) merge(node *yaml.Node, explicit map[string]bool) error {
	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = lo.Map(node.Content, func(n *yaml.Node, _ int) *yaml.Node { return resolveAlias(n) })
	}

	merged := map[string]bool{}
	for _, source := range sources {
		if source.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: merge value must be a mapping", source.Line)
		}

		var values Values
		if err := values.decodeMapping(source); err != nil {
			return err
		}
		for _, p := range values {
			if explicit[p.Key] || merged[p.Key] {
				continue
			}
			v.Set(p.Key, p.Value)
			merged[p.Key] = true
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// MarshalYAML encodes Values as an ordered mapping.
func (v Values) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range v {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Value},
		)
	}
	return node, nil
}
