package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/require"

	"github.com/gardar/printtemplate/pkg/template"
)

func quietConfig(logger *bytes.Buffer) Config {
	cfg := DefaultConfig()
	cfg.Logger = logger
	return cfg
}

func a4Landscape(t *testing.T) *template.Template {
	t.Helper()
	tpl, err := template.New(297, 210, "landscape")
	require.NoError(t, err)
	require.NoError(t, tpl.AddRegion(template.NewRegion("map", 10, 10, 200, 180)))
	overview := template.NewRegion("overview", 220, 10, 60, 60)
	overview.Rotation = 90
	require.NoError(t, tpl.AddRegion(overview))

	title := template.NewRegion("title", 220, 80, 70, 10)
	title.Font = &template.Font{Name: "Helvetica", Style: "B", Size: 14, Color: template.Color{R: 0x33}}
	require.NoError(t, tpl.AddTextField(title))
	require.NoError(t, tpl.AddTextField(template.NewRegion("date", 220, 95, 70, 6)))
	return tpl
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0x80, B: 0x20, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func plainPDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(20, 20, "background")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestRenderLayersAndPageSize(t *testing.T) {
	t.Parallel()

	var log bytes.Buffer
	out, err := Render(a4Landscape(t), Content{
		Texts:  map[string]string{"title": "Stadtplan Bonn", "date": "2026-10-19"},
		Images: map[string][]byte{"map": pngImage(t)},
	}, quietConfig(&log))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.Regexp(t, regexp.MustCompile(`/MediaBox \[0 0 841\.89\d* 595\.2[78]\d*\]`), string(out))

	layers, err := DetectLayers(out)
	require.NoError(t, err)
	require.Contains(t, layers, "Regions")
	require.Contains(t, layers, "Text fields")
	require.Empty(t, log.String())
}

func TestRenderPortraitPageSize(t *testing.T) {
	t.Parallel()

	tpl, err := template.New(100, 150, "portrait")
	require.NoError(t, err)
	out, err := Render(tpl, Content{}, quietConfig(&bytes.Buffer{}))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`/MediaBox \[0 0 283\.46\d* 425\.2[01]\d*\]`), string(out))
}

func TestRenderRejectsUnknownContent(t *testing.T) {
	t.Parallel()

	tpl := a4Landscape(t)
	cfg := quietConfig(&bytes.Buffer{})

	_, err := Render(tpl, Content{Texts: map[string]string{"map": "not a field"}}, cfg)
	require.ErrorIs(t, err, template.ErrNotFound)

	_, err = Render(tpl, Content{Images: map[string][]byte{"title": pngImage(t)}}, cfg)
	require.ErrorIs(t, err, template.ErrNotFound)

	_, err = Render(tpl, Content{Images: map[string][]byte{"map": []byte("not an image")}}, cfg)
	require.ErrorContains(t, err, "invalid format")

	_, err = Render(tpl, Content{Images: map[string][]byte{"map": nil}}, cfg)
	require.ErrorContains(t, err, "is empty")

	_, err = Render(nil, Content{}, cfg)
	require.Error(t, err)
}

func TestRenderDebugOutput(t *testing.T) {
	t.Parallel()

	var log bytes.Buffer
	cfg := quietConfig(&log)
	cfg.Debug = true
	cfg.DumpPDF = true

	_, err := Render(a4Landscape(t), Content{Texts: map[string]string{"title": "Übersicht €"}}, cfg)
	require.NoError(t, err)
	require.Contains(t, log.String(), "Rendering Template(297x210mm landscape, 2 regions, 2 text fields)")
	require.Contains(t, log.String(), "===== PDF STRUCTURE (")
	require.Regexp(t, `MediaBox: \[0 0 841\.89`, log.String())
	require.Contains(t, log.String(), "Keywords: template:")
	require.Contains(t, log.String(), "Warning: 1 text field(s) contain characters outside ISO-8859-1")
}

func TestOutlinesOnlyInDebug(t *testing.T) {
	t.Parallel()

	draw := func(debug bool) string {
		pdf := fpdf.New("L", "mm", "A4", "")
		pdf.SetCompression(false)
		pdf.AddPage()
		cfg := quietConfig(&bytes.Buffer{})
		cfg.Debug = debug
		tpl := a4Landscape(t)
		require.NoError(t, drawRegionLayer(pdf, tpl, nil, cfg))
		require.NoError(t, drawTextLayer(pdf, tpl, map[string]string{"title": "Title"}, cfg))
		var buf bytes.Buffer
		require.NoError(t, pdf.Output(&buf))
		return buf.String()
	}

	plain := draw(false)
	require.NotContains(t, plain, " re S")
	require.NotContains(t, plain, "(map) Tj")

	debug := draw(true)
	require.Contains(t, debug, " re S")
	require.Contains(t, debug, "(map) Tj")
	require.Contains(t, debug, "(date) Tj")
}

func TestRenderBackground(t *testing.T) {
	t.Parallel()

	tpl := a4Landscape(t)
	var log bytes.Buffer
	cfg := quietConfig(&log)

	composed, err := Render(tpl, Content{
		Texts:      map[string]string{"title": "With background"},
		Background: plainPDF(t),
	}, cfg)
	require.NoError(t, err)

	// A composed page already carries the template layers.
	_, err = Render(tpl, Content{Background: composed}, cfg)
	require.ErrorContains(t, err, "already has template layers")

	cfg.Force = true
	_, err = Render(tpl, Content{Background: composed}, cfg)
	require.NoError(t, err)
	require.Contains(t, log.String(), "rendering again due to -force")
}

func TestRenderBackgroundErrors(t *testing.T) {
	t.Parallel()

	tpl := a4Landscape(t)
	cfg := quietConfig(&bytes.Buffer{})

	_, err := Render(tpl, Content{Background: []byte("definitely not a PDF")}, cfg)
	require.ErrorContains(t, err, "error importing background")

	cfg.BackgroundPage = 0
	_, err = Render(tpl, Content{Background: plainPDF(t)}, cfg)
	require.ErrorContains(t, err, "background page must be at least 1")
}

type opaqueElement struct {
	name   string
	parent *template.Template
}

func (e *opaqueElement) Name() string                           { return e.name }
func (e *opaqueElement) SetParentTemplate(t *template.Template) { e.parent = t }

func TestRenderSkipsElementsWithoutGeometry(t *testing.T) {
	t.Parallel()

	tpl, err := template.New(210, 297, "portrait")
	require.NoError(t, err)
	require.NoError(t, tpl.AddRegion(&opaqueElement{name: "legend"}))

	var log bytes.Buffer
	_, err = Render(tpl, Content{}, quietConfig(&log))
	require.NoError(t, err)
	require.Contains(t, log.String(), `region "legend" has no geometry`)
}

func TestPageFormat(t *testing.T) {
	t.Parallel()

	tpl, err := template.New(297, 210, "landscape")
	require.NoError(t, err)
	o, size := pageFormat(tpl)
	require.Equal(t, "L", o)
	require.Equal(t, fpdf.SizeType{Wd: 210, Ht: 297}, size)

	tpl, err = template.New(210, 297, "portrait")
	require.NoError(t, err)
	o, size = pageFormat(tpl)
	require.Equal(t, "P", o)
	require.Equal(t, fpdf.SizeType{Wd: 210, Ht: 297}, size)
}

func TestFieldFont(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultFont, fieldFont(nil, DefaultFont))
	require.Equal(t, FontConfig{Name: "Times", Style: "I", Size: 12},
		fieldFont(&template.Font{Name: "Times", Style: "I", Size: 12}, DefaultFont))
	require.Equal(t, FontConfig{Name: "Helvetica", Style: "B", Size: 10},
		fieldFont(&template.Font{Name: "Liberation Sans", Style: "B"}, DefaultFont))
}

func TestToLatin1(t *testing.T) {
	t.Parallel()

	s, ok := toLatin1("Straße")
	require.True(t, ok)
	require.Equal(t, "Stra\xdfe", s)

	s, ok = toLatin1("5 €")
	require.False(t, ok)
	require.Len(t, s, 3)
}
