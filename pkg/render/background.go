package render

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

// importBackground imports one page of an existing PDF and stretches it over
// the current page. The importer panics on malformed input, which is turned
// into an error here.
func importBackground(pdf *fpdf.Fpdf, pdfData []byte, page int, width, height float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot import page %d: %v", page, r)
		}
	}()

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(pdfData))

	tpl := importer.ImportPageFromStream(pdf, &rs, page, "/MediaBox")
	importer.UseImportedTemplate(pdf, tpl, 0, 0, width, height)
	return pdf.Error()
}
