// Package odg builds page templates from OpenDocument Drawing (.odg) files.
//
// Template authors draw the page in a drawing application and name the
// placeholder shapes:
//
// - draw:custom-shape elements with a name become regions (e.g., "map")
// - draw:frame elements with a name become text fields (e.g., "title")
//
// The page size and orientation come from the page layout in styles.xml.
// Text field fonts are taken from the automatic text style applied to the
// frame's first paragraph or span.
package odg

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gardar/printtemplate/pkg/template"
)

const (
	contentFile = "content.xml"
	stylesFile  = "styles.xml"
)

// Load reads an .odg file and builds its template.
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

// Parse builds a template from the bytes of an .odg archive.
func Parse(data []byte) (*template.Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	stylesXML, err := readEntry(zr, stylesFile)
	if err != nil {
		return nil, err
	}
	contentXML, err := readEntry(zr, contentFile)
	if err != nil {
		return nil, err
	}

	layout, err := parsePageLayout(stylesXML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", stylesFile, err)
	}
	shapes, textStyles, err := parseContent(contentXML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", contentFile, err)
	}

	tpl, err := template.New(layout.width, layout.height, layout.orientation)
	if err != nil {
		return nil, err
	}
	for _, s := range shapes {
		r := template.NewRegion(s.name, s.x, s.y, s.width, s.height)
		r.Rotation = s.rotation
		switch s.kind {
		case shapeRegion:
			err = tpl.AddRegion(r)
		case shapeTextField:
			if props, ok := textStyles[s.textStyle()]; ok {
				r.Font = props.font()
			}
			err = tpl.AddTextField(r)
		}
		if err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

// readEntry returns the content of a file in the archive.
func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("missing required file: %s", name)
}
