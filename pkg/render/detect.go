package render

import (
	"fmt"
	"regexp"
	"slices"
)

// Patterns for optional content group names in raw PDF data.
var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(([^)]+)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(([^)]+)\)`),
	regexp.MustCompile(`<</Type/OCG/Name\(([^)]+)\)`),
	regexp.MustCompile(`/Name\s*\(([^)]+)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// DetectLayers returns the names of the optional content groups (layers)
// found in the raw PDF data, deduplicated and in order of appearance.
func DetectLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	content := string(pdfData)
	var layers []string
	for _, re := range ocgPatterns {
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			layers = append(layers, unescapePDFString(match[1]))
		}
	}

	for i, layer := range layers {
		if len(layer) >= 2 && layer[0] == '\xfe' && layer[1] == '\xff' {
			if decoded, err := decodeUTF16BE([]byte(layer)); err == nil {
				layers[i] = decoded
			}
		}
	}

	unique := make([]string, 0, len(layers))
	seen := make(map[string]bool)
	for _, l := range layers {
		if !seen[l] {
			seen[l] = true
			unique = append(unique, l)
		}
	}
	return unique, nil
}

// LayerCheckResult contains the results of checking a PDF for template layers
type LayerCheckResult struct {
	Layers    []string // All detected layers
	HasLayers bool     // True if any of the requested layers exists
	Found     []string // Requested layers that were found
}

// CheckLayers reports which of the named layers already exist in the PDF.
// Rendering checks a background against its own layer names so a composed
// page is not composed twice.
func CheckLayers(pdfData []byte, names ...string) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := DetectLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	for _, name := range names {
		if name != "" && slices.Contains(layers, name) {
			result.Found = append(result.Found, name)
		}
	}
	result.HasLayers = len(result.Found) > 0
	return result, nil
}
