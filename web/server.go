// Package web serves the PrepWise pages: the root layout, the auth forms and the home page.
package web

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/authform"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/notify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SessionManager issues and verifies session tokens.
type SessionManager interface {
	Issue(account models.Account) (string, error)
	Parse(token string) (*auth.SessionClaims, error)
	TTL() time.Duration
}

// Deps are the collaborators the router needs.
type Deps struct {
	Auth           authform.Authenticator
	Toasts         *notify.Center
	Sessions       SessionManager
	SecureCookies  bool
	AllowedOrigins []string
	MaxBodyBytes   int64
}

type Server struct {
	render        *Renderer
	auth          authform.Authenticator
	toasts        *notify.Center
	sessions      SessionManager
	secureCookies bool
}

func NewServer(d Deps) (*Server, error) {
	r, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{
		render:        r,
		auth:          d.Auth,
		toasts:        d.Toasts,
		sessions:      d.Sessions,
		secureCookies: d.SecureCookies,
	}, nil
}

// NewRouter builds the complete HTTP handler.
func NewRouter(d Deps) (http.Handler, error) {
	s, err := NewServer(d)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 10
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeaders)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(limitBody(maxBody))

	router.Get("/health", HealthHandler)
	router.Handle("/logo.svg", http.FileServer(http.FS(static)))

	router.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.HomeHandler())
		for _, mode := range []authform.Mode{authform.SignIn, authform.SignUp} {
			r.Get(mode.Path(), s.AuthPageHandler(mode))
			r.Post(mode.Path(), s.AuthSubmitHandler(mode))
		}
		r.Post("/sign-out", s.SignOutHandler())
	})

	return router, nil
}
