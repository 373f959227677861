// Package render composes a PDF page from a page template.
//
// The page gets the template's exact size and orientation. Regions and text
// fields are drawn on two separate optional content layers, so PDF readers
// can toggle them. Content is placed by name:
//
// - Images fill the region with the same name (e.g., a map snapshot for "map")
// - Texts are written into the text field with the same name (e.g., "title")
//
// An optional background PDF, usually the PDF export of the drawing the
// template was made from, is imported beneath both layers.
//
// Main Functions:
//
// - Render: Composes a PDF page from a template and its content
// - DetectLayers: Lists the layers of an existing PDF
// - CheckLayers: Checks a PDF for previously rendered template layers
package render

import (
	"bytes"
	"fmt"
	"sort"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/printtemplate/pkg/template"
)

// Content is what gets placed into a template.
type Content struct {
	Texts      map[string]string // Text field name -> text
	Images     map[string][]byte // Region name -> PNG or JPEG data
	Background []byte            // Optional PDF drawn beneath the template
}

// Render composes a single PDF page from tpl and content.
// Content keys must name existing text fields (Texts) or regions (Images).
func Render(tpl *template.Template, content Content, config Config) ([]byte, error) {
	if tpl == nil {
		return nil, fmt.Errorf("template is nil")
	}
	if err := validateContent(tpl, content); err != nil {
		return nil, err
	}

	if len(content.Background) > 0 {
		if config.BackgroundPage < 1 {
			return nil, fmt.Errorf("background page must be at least 1, got %d", config.BackgroundPage)
		}
		layerResult, err := CheckLayers(content.Background, config.RegionLayer, config.TextLayer)
		if err != nil {
			return nil, fmt.Errorf("layer detection failed: %w", err)
		}
		if layerResult.HasLayers && !config.Force {
			return nil, fmt.Errorf("background already has template layers %q; use -force to render anyway",
				layerResult.Found)
		} else if layerResult.HasLayers {
			warnf(config, "background already has template layers; rendering again due to -force")
		}
	}

	if config.Debug {
		fmt.Fprintf(getLogger(config), "Rendering %s (id %s)\n", tpl, tpl.ID())
	}

	pdf := fpdf.New("P", "mm", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("printtemplate", false)
	pdf.SetKeywords("template:"+tpl.ID().String(), false)

	orientation, size := pageFormat(tpl)
	pdf.AddPageFormat(orientation, size)

	if len(content.Background) > 0 {
		if err := importBackground(pdf, content.Background, config.BackgroundPage, tpl.Width(), tpl.Height()); err != nil {
			return nil, fmt.Errorf("error importing background: %w", err)
		}
	}

	if err := drawRegionLayer(pdf, tpl, content.Images, config); err != nil {
		return nil, fmt.Errorf("failed to draw regions: %w", err)
	}
	if err := drawTextLayer(pdf, tpl, content.Texts, config); err != nil {
		return nil, fmt.Errorf("failed to draw text fields: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	if config.DumpPDF {
		dumpPDFStructure(buf.Bytes(), 2000, getLogger(config))
	}
	return buf.Bytes(), nil
}

// pageFormat returns the fpdf orientation and size for the template page.
// fpdf swaps width and height for landscape pages, so the size is passed
// in portrait form.
func pageFormat(tpl *template.Template) (string, fpdf.SizeType) {
	if tpl.Orientation() == template.Landscape {
		return "L", fpdf.SizeType{Wd: tpl.Height(), Ht: tpl.Width()}
	}
	return "P", fpdf.SizeType{Wd: tpl.Width(), Ht: tpl.Height()}
}

// validateContent rejects content addressed to unknown elements and
// undecodable images.
func validateContent(tpl *template.Template, content Content) error {
	for _, name := range sortedKeys(content.Texts) {
		if !tpl.HasTextField(name) {
			_, err := tpl.TextFields().Get(name)
			return fmt.Errorf("text for unknown field: %w", err)
		}
	}
	for _, name := range sortedKeys(content.Images) {
		if _, err := tpl.GetRegion(name); err != nil {
			return fmt.Errorf("image for unknown region: %w", err)
		}
		if len(content.Images[name]) == 0 {
			return fmt.Errorf("image for region %q is empty", name)
		}
		if _, err := detectImageType(content.Images[name]); err != nil {
			return fmt.Errorf("image for region %q has invalid format: %w", name, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
