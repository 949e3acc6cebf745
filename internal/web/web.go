// Package web holds the HTML templates for the interactive form.
package web

import (
	"embed"
	"fmt"
	"html/template"

	"cell-monitor/internal/registry"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"volts":   func(v float64) string { return fmt.Sprintf("%.2fV", v) },
		"celsius": func(v float64) string { return fmt.Sprintf("%.1f°C", v) },
		"wh":      func(v float64) string { return fmt.Sprintf("%.2fWh", v) },
		"inc":     func(i int) int { return i + 1 },
		"num":     registry.FormatFloat,
	}).ParseFS(templateFS, "templates/*.html")
}
