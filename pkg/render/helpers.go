package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

func unescapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\(", "(")
	s = strings.ReplaceAll(s, "\\)", ")")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

// decodeUTF16BE decodes a PDF text string that starts with a UTF-16BE byte order mark.
func decodeUTF16BE(b []byte) (string, error) {
	if len(b) < 2 || b[0] != 0xFE || b[1] != 0xFF {
		return "", fmt.Errorf("no BOM detected, cannot confirm UTF-16BE")
	}
	decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-16BE: %w", err)
	}
	return string(decoded), nil
}

// getLogger returns the appropriate io.Writer to use for logging
// based on the configuration settings, defaulting to os.Stdout if nil.
func getLogger(config Config) io.Writer {
	if config.Logger == nil {
		return os.Stdout
	}
	return config.Logger
}

// warnf prints a warning unless warnings are disabled.
func warnf(config Config, format string, args ...interface{}) {
	if config.LogWarnings {
		fmt.Fprintf(getLogger(config), "Warning: "+format+"\n", args...)
	}
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}

var (
	mediaBoxPattern = regexp.MustCompile(`/MediaBox\s*\[([^\]]*)\]`)
	keywordsPattern = regexp.MustCompile(`/Keywords\s*\(([^)]*)\)`)
)

// dumpPDFStructure prints the page boxes, layers and template keywords
// of a rendered page, followed by the first byteCount bytes.
func dumpPDFStructure(pdfData []byte, byteCount int, logger io.Writer) {
	byteCount = min(byteCount, len(pdfData))

	fmt.Fprintf(logger, "===== PDF STRUCTURE (%d bytes) =====\n", len(pdfData))
	for _, m := range mediaBoxPattern.FindAllSubmatch(pdfData, -1) {
		fmt.Fprintf(logger, "MediaBox: [%s]\n", bytes.TrimSpace(m[1]))
	}
	if layers, err := DetectLayers(pdfData); err == nil {
		fmt.Fprintf(logger, "Layers: %s\n", strings.Join(layers, ", "))
	}
	if m := keywordsPattern.FindSubmatch(pdfData); m != nil {
		fmt.Fprintf(logger, "Keywords: %s\n", unescapePDFString(string(m[1])))
	}
	fmt.Fprintln(logger, "----- head -----")
	fmt.Fprintln(logger, string(pdfData[:byteCount]))
	fmt.Fprintln(logger, "===== END PDF STRUCTURE =====")
}
