package view

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names rendered by the handlers.
const (
	IndexTemplate      = "index"
	TableTemplate      = "table"
	ErrorTemplate      = "error"
	TableErrorTemplate = "table_error"
)

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
	"isSelected": func(a, b interface{}) bool {
		return toString(a) == toString(b)
	},
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ String() string }:
		return t.String()
	}
	return ""
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("bookmanager").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
