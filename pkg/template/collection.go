package template

import (
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// Pool names used in error messages.
const (
	poolRegion    = "region"
	poolTextField = "text field"
)

// Collection is an ordered, name-unique set of elements.
//
// Members are only added through Template.AddRegion and Template.AddTextField;
// a name, once added, resolves to the same element for the lifetime of the
// collection. Iteration follows insertion order.
type Collection struct {
	pool    string
	names   []string
	members map[string]Element
}

func newCollection(pool string) Collection {
	return Collection{
		pool:    pool,
		members: make(map[string]Element),
	}
}

// add binds name to e. Re-adding a taken name fails with ErrDuplicateName
// and leaves the collection unchanged.
func (c *Collection) add(name string, e Element) error {
	if _, exists := c.members[name]; exists {
		return fmt.Errorf("%s %q: %w", c.pool, name, ErrDuplicateName)
	}
	c.members[name] = e
	c.names = append(c.names, name)
	return nil
}

// Has reports whether an element with the given name exists.
func (c *Collection) Has(name string) bool {
	_, ok := c.members[name]
	return ok
}

// Get returns the element bound to name, or a *NotFoundError.
func (c *Collection) Get(name string) (Element, error) {
	if e, ok := c.members[name]; ok {
		return e, nil
	}
	return nil, &NotFoundError{
		Pool:       c.pool,
		Name:       name,
		Suggestion: suggest(name, c.names),
	}
}

// Len returns the number of elements.
func (c *Collection) Len() int {
	return len(c.names)
}

// Names returns the element names in insertion order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.names...)
}

// All iterates name/element pairs in insertion order.
func (c *Collection) All() iter.Seq2[string, Element] {
	return func(yield func(string, Element) bool) {
		for _, name := range c.names {
			if !yield(name, c.members[name]) {
				return
			}
		}
	}
}

// MarshalYAML emits the collection as a mapping in insertion order.
func (c *Collection) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for name, e := range c.All() {
		var value yaml.Node
		if err := value.Encode(e); err != nil {
			return nil, fmt.Errorf("encode %s %q: %w", c.pool, name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&value,
		)
	}
	return node, nil
}

// RegionCollection holds the regions of a template (map, overview, ...).
type RegionCollection struct {
	Collection
}

// TextFieldCollection holds the text fields of a template (title, ...).
type TextFieldCollection struct {
	Collection
}
