package http

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// loadTemplates parses the templates from dir, or the embedded copies when
// dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("")
	var err error
	if dir != "" {
		tmpl, err = tmpl.ParseGlob(dir + "/*.html")
	} else {
		tmpl, err = tmpl.ParseFS(templateFS, "templates/*.html")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
