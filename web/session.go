package web

import (
	"context"
	"net/http"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/notify"
)

// SessionCookie holds the signed session token.
const SessionCookie = "session"

type ctxKey struct{}

// withSession attaches verified session claims to the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err == nil && cookie.Value != "" {
			if claims, err := s.sessions.Parse(cookie.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *auth.SessionClaims {
	claims, _ := r.Context().Value(ctxKey{}).(*auth.SessionClaims)
	return claims
}

func (s *Server) startSession(w http.ResponseWriter, account models.Account) error {
	token, err := s.sessions.Issue(account)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) endSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionErrorToast() *notify.Toast {
	return notify.Error("There was an error: could not start your session")
}
