// Package template describes the layout of a printed page.
//
// A Template is a fixed-size page with an orientation that holds two
// independent pools of named placeholder elements:
//
// - Regions: rectangular areas filled by the renderer (e.g., "map", "overview")
// - Text fields: areas that receive text (e.g., "title")
//
// Templates are built once, by a loader or by hand, and then read by a
// rendering pipeline. Besides typed accessors, a Template offers a read-only
// lookup view over a small set of virtual keys for consumers that expect the
// legacy nested map:
//
//	orientation: <"landscape"|"portrait">
//	pageSize:    {width: <mm>, height: <mm>}
//	fields:      <text field collection>
//	<other>:     <region with that name>
//
// A Template is not safe for concurrent mutation.
package template

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Orientation is the page orientation of a template.
type Orientation string

// Recognized orientations.
const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// ParseOrientation validates s as an orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(s); o {
	case Landscape, Portrait:
		return o, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidOrientation, s)
	}
}

// Template is the structural description of a page to be generated.
type Template struct {
	id          uuid.UUID
	width       float64 // mm
	height      float64 // mm
	orientation Orientation
	regions     *RegionCollection
	textFields  *TextFieldCollection
}

// New creates an empty template. Width and height are in mm and must be
// positive; orientation must be "landscape" or "portrait".
func New(width, height float64, orientation string) (*Template, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("%w: width %v, height %v", ErrInvalidGeometry, width, height)
	}
	o, err := ParseOrientation(orientation)
	if err != nil {
		return nil, err
	}
	return &Template{
		id:          uuid.New(),
		width:       width,
		height:      height,
		orientation: o,
		regions:     &RegionCollection{newCollection(poolRegion)},
		textFields:  &TextFieldCollection{newCollection(poolTextField)},
	}, nil
}

// ID returns the random identifier assigned at construction.
func (t *Template) ID() uuid.UUID { return t.id }

// Width returns the page width in mm.
func (t *Template) Width() float64 { return t.width }

// Height returns the page height in mm.
func (t *Template) Height() float64 { return t.height }

// Orientation returns the page orientation.
func (t *Template) Orientation() Orientation { return t.orientation }

// Regions returns the region pool. The collection is shared, not copied.
func (t *Template) Regions() *RegionCollection { return t.regions }

// TextFields returns the text field pool. The collection is shared, not copied.
func (t *Template) TextFields() *TextFieldCollection { return t.textFields }

// HasRegion reports whether a region with the given name exists.
func (t *Template) HasRegion(name string) bool { return t.regions.Has(name) }

// HasTextField reports whether a text field with the given name exists.
func (t *Template) HasTextField(name string) bool { return t.textFields.Has(name) }

// GetRegion returns the region with the given name.
//
// There is intentionally no GetTextField; text fields are reached through
// TextFields() or the "fields" lookup key.
func (t *Template) GetRegion(name string) (Element, error) {
	return t.regions.Get(name)
}

// AddRegion adopts e and adds it to the region pool under e.Name().
func (t *Template) AddRegion(e Element) error {
	return t.adopt(&t.regions.Collection, e)
}

// AddTextField adopts e and adds it to the text field pool under e.Name().
func (t *Template) AddTextField(e Element) error {
	return t.adopt(&t.textFields.Collection, e)
}

// adopt sets the back-reference and inserts e. A rejected element keeps
// whatever parent it had before. Nil elements, including a nil *Region, are
// rejected; other typed nils are the caller's responsibility.
func (t *Template) adopt(c *Collection, e Element) error {
	if r, ok := e.(*Region); e == nil || ok && r == nil {
		return fmt.Errorf("add %s: nil element", c.pool)
	}
	name := e.Name()
	if c.Has(name) {
		return fmt.Errorf("%s %q: %w", c.pool, name, ErrDuplicateName)
	}
	e.SetParentTemplate(t)
	return c.add(name, e)
}

func (t *Template) String() string {
	return fmt.Sprintf("Template(%gx%gmm %s, %d regions, %d text fields)",
		t.width, t.height, t.orientation, t.regions.Len(), t.textFields.Len())
}
