package template

import (
	"fmt"
	"strconv"
	"strings"
	"weak"
)

// Element is the contract a template child must satisfy.
//
// Name is used as the collection key and must not change once the element
// has been added. SetParentTemplate records a non-owning back-reference; the
// template calls it exactly once, when the element is added.
type Element interface {
	Name() string
	SetParentTemplate(t *Template)
}

// Color is an RGB color with 0-255 components.
type Color struct {
	R, G, B int
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// String formats the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Font describes how text placed into a region is drawn.
type Font struct {
	Name  string  // Font family (e.g., "Helvetica")
	Style string  // "", "B", "I", "BI"
	Size  float64 // Size in points
	Color Color
}

// Region is a named rectangular placeholder on a template page.
// Offsets are measured in mm from the top-left page corner.
type Region struct {
	name string

	X        float64 // Left offset
	Y        float64 // Top offset
	Width    float64
	Height   float64
	Rotation float64 // Degrees, counter-clockwise
	Font     *Font   // Optional, used when the region holds text

	parent weak.Pointer[Template]
}

// NewRegion creates a region with the given name and geometry.
func NewRegion(name string, x, y, width, height float64) *Region {
	return &Region{
		name:   name,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// SetParentTemplate records the owning template without keeping it alive.
func (r *Region) SetParentTemplate(t *Template) {
	r.parent = weak.Make(t)
}

// ParentTemplate returns the owning template, or nil if the region was never
// added or the template is gone.
func (r *Region) ParentTemplate() *Template {
	return r.parent.Value()
}

type regionYAML struct {
	X        float64   `yaml:"x"`
	Y        float64   `yaml:"y"`
	Width    float64   `yaml:"width"`
	Height   float64   `yaml:"height"`
	Rotation float64   `yaml:"rotation,omitempty"`
	Font     *fontYAML `yaml:"font,omitempty"`
}

type fontYAML struct {
	Name  string  `yaml:"name"`
	Style string  `yaml:"style,omitempty"`
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
}

// MarshalYAML emits the region geometry. The name is the mapping key of the
// enclosing collection and is not repeated.
func (r *Region) MarshalYAML() (interface{}, error) {
	out := regionYAML{
		X:        r.X,
		Y:        r.Y,
		Width:    r.Width,
		Height:   r.Height,
		Rotation: r.Rotation,
	}
	if r.Font != nil {
		out.Font = &fontYAML{
			Name:  r.Font.Name,
			Style: r.Font.Style,
			Size:  r.Font.Size,
			Color: r.Font.Color.String(),
		}
	}
	return out, nil
}
