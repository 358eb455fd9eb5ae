package web

import (
	"encoding/json"
	"net/http"

	"github.com/Goofygiraffe06/prepwise/internal/authform"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
)

// HomeHandler renders the landing page inside the layout.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render.render(w, http.StatusOK, "home", page{
			Title: "Home",
			Toast: s.toasts.Take(w, r),
			User:  currentUser(r),
		})
	}
}

// AuthPageHandler renders an empty form for mode.
func (s *Server) AuthPageHandler(mode authform.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render.render(w, http.StatusOK, "auth", page{
			Title: titleFor(mode),
			Toast: s.toasts.Take(w, r),
			User:  currentUser(r),
			Auth:  newAuthView(mode, nil),
		})
	}
}

// AuthSubmitHandler runs one submission of mode's form.
// Success redirects; failures re-render the form with errors inline or as a toast.
func (s *Server) AuthSubmitHandler(mode authform.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			logging.WarnLog("Auth form %s: unreadable body: %v", mode, err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := authform.New(mode, s.auth)
		res := form.Submit(r.Context(), r.PostForm)

		switch res.State {
		case authform.Success:
			if mode.IsSignIn() {
				if err := s.startSession(w, res.Account); err != nil {
					logging.ErrorLog("Auth form %s: session not started [%s]: %v", mode, utils.HashEmail(res.Account.Email), err)
					s.render.render(w, http.StatusOK, "auth", page{
						Title: titleFor(mode),
						Toast: sessionErrorToast(),
						User:  currentUser(r),
						Auth:  newAuthView(mode, &res),
					})
					return
				}
			}
			if err := s.toasts.Flash(w, res.Toast); err != nil {
				logging.WarnLog("Auth form %s: toast not queued [%s]: %v", mode, utils.HashEmail(res.Account.Email), err)
			}
			http.Redirect(w, r, res.Redirect, http.StatusSeeOther)

		case authform.ValidationError:
			s.render.render(w, http.StatusUnprocessableEntity, "auth", page{
				Title: titleFor(mode),
				User:  currentUser(r),
				Auth:  newAuthView(mode, &res),
			})

		default:
			s.render.render(w, http.StatusOK, "auth", page{
				Title: titleFor(mode),
				Toast: res.Toast,
				User:  currentUser(r),
				Auth:  newAuthView(mode, &res),
			})
		}
	}
}

// SignOutHandler drops the session and returns home.
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.endSession(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(models.StatusResponse{Status: "ok"}); err != nil {
		logging.ErrorLog("JSON encoding failed: %v", err)
	}
}
