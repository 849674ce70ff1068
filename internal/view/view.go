// Package view holds the admin's HTML templates and the page models the
// handlers fill in.
package view

import (
	"embed"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/studioadmin/internal/panel"
)

//go:embed templates/*.html
var templateFS embed.FS

// Flash kinds carried across a redirect.
const (
	FlashNotice = "notice"
	FlashError  = "error"
)

// Flash is a one-shot message shown on the next page.
type Flash struct {
	Kind    string
	Message string
}

// Cell is one list-table value.
type Cell struct {
	Field panel.Field
	Value string
}

// Row is one record in a list table.
type Row struct {
	ID    uint
	Label string
	Cells []Cell
}

// ListPage is the model of panel_list.html.
type ListPage struct {
	Title    string
	Path     string
	Singular string
	Can      panel.Capabilities
	Columns  []panel.Field
	Rows     []Row
	Count    int
	Error    string
	Flashes  []Flash
}

// FormPage is the model of panel_form.html, used for create, edit and the
// contact singleton.
type FormPage struct {
	Title     string
	Path      string
	Singular  string
	Action    string
	BackURL   string
	Fields    []panel.Field
	Form      panel.Form
	Multipart bool
	Preview   template.HTML
	Error     string
	Flashes   []Flash
}

// ConfirmPage asks before a delete.
type ConfirmPage struct {
	Title   string
	Path    string
	ID      uint
	Label   string
	Action  string
	BackURL string
}

// Card is one panel summary on the home page.
type Card struct {
	Title string
	Path  string
	Count int64
	Error string
}

// HomePage is the model of home.html.
type HomePage struct {
	Cards   []Card
	Flashes []Flash
}

// FuncMap returns the helpers available in every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": func(content string) template.HTML {
			rendered, err := RenderMarkdown(content)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(content))
			}
			return rendered
		},
		"optionLabel": OptionLabel,
		"options":     Options,
		"truncate":    Truncate,
		"stars":       Stars,
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Truncate shortens s to at most limit runes, adding an ellipsis.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// Stars renders a 0–5 rating as filled and empty stars.
func Stars(value string) string {
	n := 0
	for _, r := range strings.TrimSpace(value) {
		if r < '0' || r > '9' {
			n = 0
			break
		}
		n = n*10 + int(r-'0')
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
