// printtemplate is a command-line tool for composing a PDF page from a print template.
//
// A template describes a page of fixed size and orientation with named regions
// (e.g. "map", "overview") and named text fields (e.g. "title"). Templates are
// read from YAML definitions or from OpenDocument drawings (.odg).
//
// Usage:
//
//	printtemplate -template a4_landscape.odg -output page.pdf [options]
//
// Required flags:
//
//	-template string  Path to the template (.yml, .yaml or .odg)
//	-output string    Output PDF path (optional with -dump)
//
// Content options:
//
//	-text name=value        Text for a text field (repeatable)
//	-image name=path        PNG or JPEG image for a region (repeatable)
//	-background string      PDF drawn beneath the template
//	-background-page int    Page of the background PDF to use (default 1)
//
// Processing options:
//
//	-config string    Settings file (YAML); PRINTTEMPLATE_* env vars override it
//	-debug            Outline and label every region and text field
//	-debug-pdf        Dump the generated PDF structure for debugging
//	-force            Render even if the background already has template layers
//	-overwrite        Overwrite the output PDF if it already exists
//	-dump             Print the template in its legacy map form as YAML
//
// Examples:
//
// Compose a page with a map image and a title:
//
//	printtemplate -template a4_landscape.odg -image map=map.png -text title="City map" -output page.pdf
//
// Inspect a template:
//
//	printtemplate -template a4_landscape.yml -dump
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gardar/printtemplate/pkg/definition"
	"github.com/gardar/printtemplate/pkg/odg"
	"github.com/gardar/printtemplate/pkg/render"
	"github.com/gardar/printtemplate/pkg/template"
)

// assignments collects repeated name=value flags.
type assignments map[string]string

func (a assignments) String() string {
	pairs := make([]string, 0, len(a))
	for k, v := range a {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (a assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	if _, dup := a[name]; dup {
		return fmt.Errorf("%q given more than once", name)
	}
	a[name] = value
	return nil
}

// loadTemplate picks the loader by file extension.
func loadTemplate(path string) (*template.Template, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".odg":
		return odg.Load(path)
	case ".yml", ".yaml":
		return definition.Load(path)
	default:
		return nil, fmt.Errorf("unsupported template format %q (want .odg, .yml or .yaml)", filepath.Ext(path))
	}
}

// readImages loads the image file of every region assignment.
func readImages(paths assignments) (map[string][]byte, error) {
	images := make(map[string][]byte, len(paths))
	for name, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("image for %q: %w", name, err)
		}
		images[name] = data
	}
	return images, nil
}

func main() {
	templatePath := flag.String("template", "", "Path to the template (.yml, .yaml or .odg)")
	outputPath := flag.String("output", "", "Output PDF path")
	backgroundPath := flag.String("background", "", "PDF drawn beneath the template")
	backgroundPage := flag.Int("background-page", 0, "Page of the background PDF to use (1-based, default from settings)")
	configPath := flag.String("config", "", "Path to a settings YAML file")
	debug := flag.Bool("debug", false, "Outline and label every region and text field")
	dumpPDF := flag.Bool("debug-pdf", false, "Dump the generated PDF structure for debugging")
	force := flag.Bool("force", false, "Render even if the background already has template layers")
	overwriteOutput := flag.Bool("overwrite", false, "Overwrite the output PDF if it already exists")
	dump := flag.Bool("dump", false, "Print the template in its legacy map form as YAML")
	texts := assignments{}
	imagePaths := assignments{}
	flag.Var(texts, "text", "Text for a text field as name=value (repeatable)")
	flag.Var(imagePaths, "image", "Image for a region as name=path (repeatable)")
	flag.Parse()

	if *templatePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -template flag is required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *outputPath == "" && !*dump {
		fmt.Fprintln(os.Stderr, "Error: -output flag is required unless -dump is given")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadSettings(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *debug {
		cfg.Debug = true
	}
	if *force {
		cfg.Force = true
	}
	cfg.DumpPDF = *dumpPDF
	if *backgroundPage > 0 {
		cfg.BackgroundPage = *backgroundPage
	}

	tpl, err := loadTemplate(*templatePath)
	if err != nil {
		log.Fatalf("Failed to load template: %v", err)
	}

	if *dump {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(tpl); err != nil {
			log.Fatalf("Failed to dump template: %v", err)
		}
		if err := enc.Close(); err != nil {
			log.Fatalf("Failed to dump template: %v", err)
		}
		if *outputPath == "" {
			return
		}
	}

	if _, err := os.Stat(*outputPath); err == nil {
		if !*overwriteOutput {
			fmt.Printf("Output file %s already exists. Use -overwrite to overwrite.\n", *outputPath)
			os.Exit(1)
		}
	}

	content := render.Content{Texts: texts}
	content.Images, err = readImages(imagePaths)
	if err != nil {
		log.Fatalf("Failed to read images: %v", err)
	}
	if *backgroundPath != "" {
		content.Background, err = os.ReadFile(*backgroundPath)
		if err != nil {
			log.Fatalf("Failed to read background PDF: %v", err)
		}
	} else if *force {
		fmt.Println("Warning: -force is only applicable when -background is set. Ignoring -force.")
	}

	pdf, err := render.Render(tpl, content, cfg)
	if err != nil {
		log.Fatalf("Error rendering template: %v", err)
	}

	if err := os.WriteFile(*outputPath, pdf, 0o644); err != nil {
		log.Fatalf("Failed to write output PDF: %v", err)
	}
	fmt.Println("PDF created:", *outputPath)
}
