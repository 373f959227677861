package render

import (
	"bytes"
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/printtemplate/pkg/template"
)

// coreFonts are the fonts fpdf can use without embedding.
var coreFonts = map[string]bool{
	"arial":        true,
	"courier":      true,
	"helvetica":    true,
	"symbol":       true,
	"times":        true,
	"zapfdingbats": true,
}

// drawRegionLayer draws the regions onto their own layer: images where content
// provides one, and in debug mode a dashed outline labeled with the region name.
func drawRegionLayer(
	pdf *fpdf.Fpdf,
	tpl *template.Template,
	images map[string][]byte,
	config Config,
) error {
	layer := pdf.AddLayer(config.RegionLayer, true)
	pdf.BeginLayer(layer)

	for name, e := range tpl.Regions().All() {
		r, ok := e.(*template.Region)
		if !ok {
			warnf(config, "region %q has no geometry (%T), skipped", name, e)
			continue
		}
		withRotation(pdf, r, func() {
			if data, ok := images[name]; ok {
				drawImage(pdf, r, data)
			}
			if config.Debug {
				drawOutline(pdf, r, config.Font)
			}
		})
	}

	pdf.EndLayer()
	return pdf.Error()
}

// drawTextLayer writes the given texts into their fields on a separate layer.
// Fields without text are left empty.
func drawTextLayer(
	pdf *fpdf.Fpdf,
	tpl *template.Template,
	texts map[string]string,
	config Config,
) error {
	layer := pdf.AddLayer(config.TextLayer, true)
	pdf.BeginLayer(layer)

	encodingErrors := 0
	for name, e := range tpl.TextFields().All() {
		r, ok := e.(*template.Region)
		if !ok {
			warnf(config, "text field %q has no geometry (%T), skipped", name, e)
			continue
		}
		text, ok := texts[name]
		withRotation(pdf, r, func() {
			if ok {
				if !drawText(pdf, r, text, config) {
					encodingErrors++
				}
			}
			if config.Debug {
				drawOutline(pdf, r, config.Font)
			}
		})
	}

	pdf.EndLayer()

	if encodingErrors > 0 {
		warnf(config, "%d text field(s) contain characters outside ISO-8859-1; they were replaced", encodingErrors)
	}
	return pdf.Error()
}

// withRotation runs draw with the region's rotation applied around its
// top-left corner.
func withRotation(pdf *fpdf.Fpdf, r *template.Region, draw func()) {
	if r.Rotation == 0 {
		draw()
		return
	}
	pdf.TransformBegin()
	pdf.TransformRotate(r.Rotation, r.X, r.Y)
	draw()
	pdf.TransformEnd()
}

// drawImage stretches the image over the region. The data was validated by
// validateContent.
func drawImage(pdf *fpdf.Fpdf, r *template.Region, data []byte) {
	imageType, err := detectImageType(data)
	if err != nil {
		pdf.SetError(fmt.Errorf("region %q: %w", r.Name(), err))
		return
	}
	imageName := "region:" + r.Name()
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(data))
	pdf.ImageOptions(imageName, r.X, r.Y, r.Width, r.Height, false, opts, 0, "")
}

// drawText writes text into the field box, shrinking the font when the text
// is wider than the box. It reports false when the text had to be re-encoded
// lossily.
func drawText(pdf *fpdf.Fpdf, r *template.Region, text string, config Config) bool {
	font := fieldFont(r.Font, config.Font)
	pdf.SetFont(font.Name, font.Style, font.Size)
	if r.Font != nil {
		pdf.SetTextColor(r.Font.Color.R, r.Font.Color.G, r.Font.Color.B)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}

	latin1, ok := toLatin1(text)

	strWidth := pdf.GetStringWidth(latin1)
	if strWidth > r.Width && strWidth > 0 {
		pdf.SetFontSize(font.Size * r.Width / strWidth)
	}

	pdf.SetXY(r.X, r.Y)
	pdf.CellFormat(r.Width, r.Height, latin1, "", 0, "LM", false, 0, "")
	pdf.SetFontSize(font.Size)
	return ok
}

// drawOutline marks the element box with a dashed red rectangle and its name.
func drawOutline(pdf *fpdf.Fpdf, r *template.Region, font FontConfig) {
	pdf.SetDrawColor(255, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{2, 1}, 0)
	pdf.Rect(r.X, r.Y, r.Width, r.Height, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetFont(font.Name, "", 6)
	pdf.SetTextColor(255, 0, 0)
	label, _ := toLatin1(r.Name())
	pdf.Text(r.X+1, r.Y+3, label)
}

// fieldFont resolves the font of a text field against the fallback.
// Fonts fpdf cannot use without embedding fall back to the default family.
func fieldFont(f *template.Font, fallback FontConfig) FontConfig {
	if f == nil {
		return fallback
	}
	font := fallback
	if coreFonts[strings.ToLower(f.Name)] {
		font.Name = f.Name
	}
	font.Style = f.Style
	if f.Size > 0 {
		font.Size = f.Size
	}
	return font
}

// toLatin1 converts text to ISO-8859-1 to avoid PDF encoding issues with core
// fonts. Characters that cannot be encoded are replaced, and ok is false.
func toLatin1(s string) (string, bool) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err == nil {
		return latin1, true
	}
	latin1, _ = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(s)
	return latin1, false
}
