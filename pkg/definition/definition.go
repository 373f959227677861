// Package definition loads page templates from YAML definitions.
//
// A definition lists the page geometry and the two element pools:
//
//	width: 297
//	height: 210
//	orientation: landscape
//	regions:
//	  - {name: map, x: 10, y: 10, width: 200, height: 180}
//	fields:
//	  - name: title
//	    x: 220
//	    y: 80
//	    width: 70
//	    height: 10
//	    font: {name: Helvetica, style: B, size: 14, color: "#000000"}
//
// All lengths are in mm, font sizes in points.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gardar/printtemplate/pkg/template"
)

// File is the YAML document layout.
type File struct {
	Width       float64   `yaml:"width"`
	Height      float64   `yaml:"height"`
	Orientation string    `yaml:"orientation"`
	Regions     []Element `yaml:"regions"`
	Fields      []Element `yaml:"fields"`
}

// Element is one region or text field entry.
type Element struct {
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Rotation float64 `yaml:"rotation"`
	Font     *Font   `yaml:"font"`
}

// Font is the optional font block of an element.
type Font struct {
	Name  string  `yaml:"name"`
	Style string  `yaml:"style"`
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
}

// Load reads and parses a YAML definition file.
func Load(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tpl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tpl, nil
}

// Parse builds a template from YAML data. Unknown keys are rejected.
func Parse(data []byte) (*template.Template, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty template definition")
		}
		return nil, fmt.Errorf("failed to decode template definition: %w", err)
	}
	return f.Build()
}

// Build validates the definition and constructs the template.
func (f File) Build() (*template.Template, error) {
	tpl, err := template.New(f.Width, f.Height, f.Orientation)
	if err != nil {
		return nil, err
	}

	for i, e := range f.Regions {
		r, err := e.region()
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i+1, err)
		}
		if err := tpl.AddRegion(r); err != nil {
			return nil, err
		}
	}
	for i, e := range f.Fields {
		r, err := e.region()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		if err := tpl.AddTextField(r); err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

func (e Element) region() (*template.Region, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if e.Width <= 0 || e.Height <= 0 {
		return nil, fmt.Errorf("%q: width and height must be positive, got %v x %v", e.Name, e.Width, e.Height)
	}

	r := template.NewRegion(e.Name, e.X, e.Y, e.Width, e.Height)
	r.Rotation = e.Rotation
	if e.Font != nil {
		font, err := e.Font.build()
		if err != nil {
			return nil, fmt.Errorf("%q: %w", e.Name, err)
		}
		r.Font = font
	}
	return r, nil
}

func (f Font) build() (*template.Font, error) {
	if f.Size < 0 {
		return nil, fmt.Errorf("negative font size %v", f.Size)
	}
	font := &template.Font{Name: f.Name, Style: f.Style, Size: f.Size}
	if f.Color != "" {
		c, err := template.ParseColor(f.Color)
		if err != nil {
			return nil, err
		}
		font.Color = c
	}
	return font, nil
}
