package odg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gardar/printtemplate/pkg/template"
)

// OpenDocument namespaces. Documents without namespace declarations report
// the bare prefix instead, so both are accepted.
var namespaces = map[string]string{
	"draw":  "urn:oasis:names:tc:opendocument:xmlns:drawing:1.0",
	"fo":    "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0",
	"style": "urn:oasis:names:tc:opendocument:xmlns:style:1.0",
	"svg":   "urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0",
	"text":  "urn:oasis:names:tc:opendocument:xmlns:text:1.0",
}

func is(name xml.Name, prefix, local string) bool {
	return name.Local == local && (name.Space == namespaces[prefix] || name.Space == prefix)
}

func attr(se xml.StartElement, prefix, local string) string {
	for _, a := range se.Attr {
		if is(a.Name, prefix, local) {
			return a.Value
		}
	}
	return ""
}

type pageLayout struct {
	width       float64 // mm
	height      float64 // mm
	orientation string
}

// parsePageLayout reads the first page layout in styles.xml.
func parsePageLayout(data []byte) (pageLayout, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return pageLayout{}, fmt.Errorf("no page layout found")
		}
		if err != nil {
			return pageLayout{}, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || !is(se.Name, "style", "page-layout-properties") {
			continue
		}

		var layout pageLayout
		if layout.width, err = parseLength(attr(se, "fo", "page-width")); err != nil {
			return pageLayout{}, fmt.Errorf("page width: %w", err)
		}
		if layout.height, err = parseLength(attr(se, "fo", "page-height")); err != nil {
			return pageLayout{}, fmt.Errorf("page height: %w", err)
		}
		layout.orientation = attr(se, "style", "print-orientation")
		if layout.orientation == "" {
			layout.orientation = string(template.Portrait)
			if layout.width > layout.height {
				layout.orientation = string(template.Landscape)
			}
		}
		return layout, nil
	}
}

type shapeKind int

const (
	shapeRegion shapeKind = iota
	shapeTextField
)

type shape struct {
	kind                 shapeKind
	name                 string
	x, y, width, height  float64 // mm
	rotation             float64 // degrees
	paraStyle, spanStyle string
}

// textStyle prefers the span style, which overrides the paragraph style.
func (s shape) textStyle() string {
	if s.spanStyle != "" {
		return s.spanStyle
	}
	return s.paraStyle
}

type textProps struct {
	fontName string
	size     float64 // pt
	bold     bool
	italic   bool
	color    *template.Color
}

func (p textProps) font() *template.Font {
	f := &template.Font{Name: p.fontName, Size: p.size}
	if p.bold {
		f.Style += "B"
	}
	if p.italic {
		f.Style += "I"
	}
	if p.color != nil {
		f.Color = *p.color
	}
	return f
}

// parseContent collects named shapes and automatic text styles from content.xml.
func parseContent(data []byte) ([]shape, map[string]textProps, error) {
	var shapes []shape
	styles := make(map[string]textProps)
	// style is the automatic text style being read, frame the index of the
	// open frame in shapes and frameAt its element depth. Only the first
	// draw:page describes the template.
	style, frame, depth, frameAt, pages := "", -1, 0, 0, 0

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return shapes, styles, nil
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case is(t.Name, "style", "style"):
				style = ""
				if textFamilies[attr(t, "style", "family")] {
					style = attr(t, "style", "name")
				}
			case is(t.Name, "draw", "page"):
				pages++
			case is(t.Name, "style", "text-properties") && style != "":
				props, err := parseTextProps(t)
				if err != nil {
					return nil, nil, fmt.Errorf("style %q: %w", style, err)
				}
				styles[style] = props
			case is(t.Name, "draw", "custom-shape"), is(t.Name, "draw", "frame"):
				name := attr(t, "draw", "name")
				if name == "" || frame >= 0 || pages > 1 {
					continue
				}
				s, err := parseShape(t, name)
				if err != nil {
					return nil, nil, fmt.Errorf("shape %q: %w", name, err)
				}
				if is(t.Name, "draw", "frame") {
					s.kind = shapeTextField
					frame, frameAt = len(shapes), depth
				}
				shapes = append(shapes, s)
			case frame >= 0 && is(t.Name, "text", "p"):
				if shapes[frame].paraStyle == "" {
					shapes[frame].paraStyle = attr(t, "text", "style-name")
				}
			case frame >= 0 && is(t.Name, "text", "span"):
				if shapes[frame].spanStyle == "" {
					shapes[frame].spanStyle = attr(t, "text", "style-name")
				}
			}
		case xml.EndElement:
			if frame >= 0 && depth == frameAt {
				frame = -1
			}
			if is(t.Name, "style", "style") {
				style = ""
			}
			depth--
		}
	}
}

// textFamilies are the style families whose text properties apply to frames.
var textFamilies = map[string]bool{"paragraph": true, "text": true}

var (
	rotateRe    = regexp.MustCompile(`rotate\s*\(\s*([-+0-9.eE]+)\s*\)`)
	translateRe = regexp.MustCompile(`translate\s*\(\s*(\S+?)\s*[,\s]\s*(\S+?)\s*\)`)
)

func parseShape(se xml.StartElement, name string) (shape, error) {
	s := shape{kind: shapeRegion, name: name}
	var err error
	if s.width, err = parseLength(attr(se, "svg", "width")); err != nil {
		return s, fmt.Errorf("width: %w", err)
	}
	if s.height, err = parseLength(attr(se, "svg", "height")); err != nil {
		return s, fmt.Errorf("height: %w", err)
	}

	transform := attr(se, "draw", "transform")
	if m := translateRe.FindStringSubmatch(transform); m != nil {
		if s.x, err = parseLength(m[1]); err != nil {
			return s, fmt.Errorf("translate x: %w", err)
		}
		if s.y, err = parseLength(m[2]); err != nil {
			return s, fmt.Errorf("translate y: %w", err)
		}
	} else {
		if s.x, err = parseOptionalLength(attr(se, "svg", "x")); err != nil {
			return s, fmt.Errorf("x: %w", err)
		}
		if s.y, err = parseOptionalLength(attr(se, "svg", "y")); err != nil {
			return s, fmt.Errorf("y: %w", err)
		}
	}
	if m := rotateRe.FindStringSubmatch(transform); m != nil {
		rad, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return s, fmt.Errorf("rotation: %w", err)
		}
		s.rotation = rad * 180 / math.Pi
	}
	return s, nil
}

func parseTextProps(se xml.StartElement) (textProps, error) {
	p := textProps{
		fontName: attr(se, "style", "font-name"),
		bold:     attr(se, "fo", "font-weight") == "bold",
		italic:   attr(se, "fo", "font-style") == "italic",
	}
	// Relative sizes ("150%") leave the size to the render default.
	if size := attr(se, "fo", "font-size"); size != "" && !strings.HasSuffix(size, "%") {
		mm, err := parseLength(size)
		if err != nil {
			return p, fmt.Errorf("font size: %w", err)
		}
		p.size = mm / mmPerPoint
	}
	if c := attr(se, "fo", "color"); c != "" {
		color, err := template.ParseColor(c)
		if err != nil {
			return p, err
		}
		p.color = &color
	}
	return p, nil
}

const mmPerPoint = 25.4 / 72

var unitToMM = map[string]float64{
	"mm": 1,
	"cm": 10,
	"in": 25.4,
	"pt": mmPerPoint,
	"pc": 12 * mmPerPoint,
}

// parseLength converts an ODF length such as "21cm" or "12pt" to mm.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing length")
	}
	for unit, factor := range unitToMM {
		if num, ok := strings.CutSuffix(s, unit); ok {
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid length %q", s)
			}
			return v * factor, nil
		}
	}
	return 0, fmt.Errorf("unsupported length unit in %q", s)
}

func parseOptionalLength(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return parseLength(s)
}
