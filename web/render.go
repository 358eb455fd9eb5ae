package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/authform"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// page is the data every template receives; the layout reads Title, Toast and User.
type page struct {
	Title string
	Toast *notify.Toast
	User  *auth.SessionClaims
	Auth  *authView
}

type authView struct {
	Path         string
	Fields       []fieldView
	Submit       string
	TogglePrompt string
	ToggleLabel  string
	TogglePath   string
}

type fieldView struct {
	authform.Field
	Value string
	Error string
}

// Renderer executes the layout around one page template.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{"auth", "home"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) render(w http.ResponseWriter, status int, name string, data page) {
	t, ok := r.pages[name]
	if !ok {
		logging.ErrorLog("Render failed: unknown page %q", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.ErrorLog("Render failed: page %q: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.DebugLog("Render write failed: %v", err)
	}
}

func newAuthView(mode authform.Mode, res *authform.Result) *authView {
	v := &authView{Path: mode.Path(), TogglePath: mode.Toggle().Path()}
	if mode.IsSignIn() {
		v.Submit = "Sign In"
		v.TogglePrompt = "No account yet?"
		v.ToggleLabel = "Sign Up"
	} else {
		v.Submit = "Create an Account"
		v.TogglePrompt = "Have an account already?"
		v.ToggleLabel = "Sign In"
	}
	for _, f := range authform.Fields(mode) {
		fv := fieldView{Field: f}
		if res != nil {
			fv.Value = res.Values[f.Name]
			fv.Error = res.FieldErrors[f.Name]
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

func titleFor(mode authform.Mode) string {
	if mode.IsSignIn() {
		return "Sign In"
	}
	return "Sign Up"
}
