package render

import (
	"io"
)

// Config holds user options for rendering a template
type Config struct {
	Debug          bool      // Outline and label every region
	Force          bool      // Render even if the background already has template layers
	BackgroundPage int       // Page of the background PDF to import (1-based)
	RegionLayer    string    // Name of the optional content layer holding regions
	TextLayer      string    // Name of the optional content layer holding text fields
	DumpPDF        bool      // Dump generated PDF structure for debugging
	LogWarnings    bool      // Whether to print warnings
	Logger         io.Writer // Custom logger for warnings (nil = stdout)
	Font           FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Debug:          false,
		Force:          false,
		BackgroundPage: 1,
		RegionLayer:    "Regions",
		TextLayer:      "Text fields",
		DumpPDF:        false,
		LogWarnings:    true,
		Logger:         nil, // stdout
		Font:           DefaultFont,
	}
}

// FontConfig contains the font used for text fields that do not define their own
type FontConfig struct {
	Name  string  // Core font name (e.g., "Helvetica")
	Style string  // Font style ("", "B", "I", "BI")
	Size  float64 // Font size in points
}

// DefaultFont is Helvetica, available as a core font in every PDF reader
var DefaultFont = FontConfig{
	Name:  "Helvetica",
	Style: "",
	Size:  10,
}
