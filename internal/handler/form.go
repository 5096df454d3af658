package handler

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mlorentedev/promptdesk/internal/adapter"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is the static part of the form page.
type Page struct {
	Title        string
	Description  string
	Models       []adapter.ModelInfo
	DefaultModel string
}

type formView struct {
	Page
	Prompt   string
	Selected string
	Output   string
}

// Form serves the HTML form: GET renders it empty, POST runs the relay and
// renders the result into the output box with the inputs preserved.
func Form(gen Generator, page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := formView{Page: page, Selected: page.DefaultModel}

		switch r.Method {
		case http.MethodGet:
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
			view.Prompt = r.PostForm.Get("prompt")
			view.Selected = r.PostForm.Get("model")
			view.Output = gen.Do(r.Context(), view.Prompt, view.Selected).String()
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, view); err != nil {
			slog.Error("render form", "error", err)
		}
	}
}
