package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/htol/libshelf/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"books.html",
		"book_form.html",
		"confirm_delete.html",
		"borrow_form.html",
		"summary.html",
	} {
		pages[name] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+name))
	}
}

// render writes a page template wrapped in the shared layout
func render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := pages[name]
	if !ok {
		logger.Error("Unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("Failed to render template", "name", name, "error", err)
	}
}
