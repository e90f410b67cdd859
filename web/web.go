// Package web holds the page templates, embedded into the binary.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	// number renders counts with thousands separators: 12,345.
	"number": func(n int) string {
		return printer.Sprintf("%d", n)
	},
	"paragraphs": paragraphs,
}

// Templates parses every page and partial. Pages are looked up by file name,
// e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// paragraphs splits text on blank lines and wraps each block in <p>, escaping
// the content.
func paragraphs(text string) template.HTML {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(template.HTMLEscapeString(block))
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}
