package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Virtual keys of the lookup view.
const (
	keyOrientation = "orientation"
	keyPageSize    = "pageSize"
	keyFields      = "fields"
)

// KeyKind identifies which variant a Key holds.
type KeyKind int

const (
	KindRegion KeyKind = iota
	KindOrientation
	KindPageSize
	KindFields
)

// Key is a lookup key: one of the three virtual keys or a region name.
type Key struct {
	kind   KeyKind
	region string
}

// Virtual lookup keys.
var (
	KeyOrientation = Key{kind: KindOrientation}
	KeyPageSize    = Key{kind: KindPageSize}
	KeyFields      = Key{kind: KindFields}
)

// RegionKey returns a key addressing the region with the given name.
func RegionKey(name string) Key {
	return Key{kind: KindRegion, region: name}
}

// ParseKey maps a legacy string key onto a Key. The virtual keys take
// precedence, so a region named "fields" is not reachable through the view.
func ParseKey(s string) Key {
	switch s {
	case keyOrientation:
		return KeyOrientation
	case keyPageSize:
		return KeyPageSize
	case keyFields:
		return KeyFields
	default:
		return RegionKey(s)
	}
}

// Kind returns the key variant.
func (k Key) Kind() KeyKind { return k.kind }

// String returns the key in the legacy vocabulary.
func (k Key) String() string {
	switch k.kind {
	case KindOrientation:
		return keyOrientation
	case KindPageSize:
		return keyPageSize
	case KindFields:
		return keyFields
	default:
		return k.region
	}
}

// PageSize is the value of the "pageSize" key.
type PageSize struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Value is the result of resolving a Key. Exactly the field matching Kind is set.
type Value struct {
	Kind        KeyKind
	Orientation Orientation
	PageSize    PageSize
	Fields      *TextFieldCollection
	Region      Element
}

// Any unwraps the value into the untyped form legacy consumers expect.
func (v Value) Any() any {
	switch v.Kind {
	case KindOrientation:
		return string(v.Orientation)
	case KindPageSize:
		return v.PageSize
	case KindFields:
		return v.Fields
	default:
		return v.Region
	}
}

// Resolve evaluates k against the template.
func (t *Template) Resolve(k Key) (Value, error) {
	switch k.kind {
	case KindOrientation:
		return Value{Kind: KindOrientation, Orientation: t.orientation}, nil
	case KindPageSize:
		return Value{Kind: KindPageSize, PageSize: PageSize{Width: t.width, Height: t.height}}, nil
	case KindFields:
		return Value{Kind: KindFields, Fields: t.textFields}, nil
	default:
		r, err := t.GetRegion(k.region)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindRegion, Region: r}, nil
	}
}

// LookupExists reports whether key resolves. The virtual keys always exist.
func (t *Template) LookupExists(key string) bool {
	k := ParseKey(key)
	if k.kind != KindRegion {
		return true
	}
	return t.HasRegion(k.region)
}

// LookupGet resolves a legacy string key. Unknown region names fail with
// ErrNotFound.
func (t *Template) LookupGet(key string) (any, error) {
	v, err := t.Resolve(ParseKey(key))
	if err != nil {
		return nil, err
	}
	return v.Any(), nil
}

// LookupSet always fails: the lookup view is read-only.
func (t *Template) LookupSet(key string, _ any) error {
	return fmt.Errorf("set %q: %w", key, ErrUnsupportedMutation)
}

// LookupUnset always fails: the lookup view is read-only.
func (t *Template) LookupUnset(key string) error {
	return fmt.Errorf("unset %q: %w", key, ErrUnsupportedMutation)
}

// AsMap materializes the legacy nested map. Regions whose names collide with
// a virtual key are shadowed, matching LookupGet.
func (t *Template) AsMap() map[string]any {
	m := make(map[string]any, 3+t.regions.Len())
	for name, r := range t.regions.All() {
		m[name] = r
	}
	m[keyOrientation] = string(t.orientation)
	m[keyPageSize] = map[string]any{
		"width":  t.width,
		"height": t.height,
	}
	m[keyFields] = t.textFields
	return m
}

// MarshalYAML emits the legacy map shape with a stable key order:
// orientation, pageSize, fields, then regions in insertion order.
func (t *Template) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair := func(key string, value interface{}) error {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return fmt.Errorf("encode %q: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &v)
		return nil
	}

	if err := appendPair(keyOrientation, string(t.orientation)); err != nil {
		return nil, err
	}
	if err := appendPair(keyPageSize, PageSize{Width: t.width, Height: t.height}); err != nil {
		return nil, err
	}
	if err := appendPair(keyFields, t.textFields); err != nil {
		return nil, err
	}
	for name, r := range t.regions.All() {
		if ParseKey(name).kind != KindRegion {
			continue
		}
		if err := appendPair(name, r); err != nil {
			return nil, err
		}
	}
	return node, nil
}
