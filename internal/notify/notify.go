// Package notify delivers one-shot toast notifications across a redirect.
package notify

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
	"github.com/Goofygiraffe06/prepwise/store/ephemeral"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// CookieName names the cookie pointing at a pending toast.
const CookieName = "toast"

type Toast struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func Success(msg string) *Toast { return &Toast{Kind: KindSuccess, Message: msg} }

func Error(msg string) *Toast { return &Toast{Kind: KindError, Message: msg} }

// Center keeps pending toasts server-side; the browser only holds an opaque id.
type Center struct {
	store  *ephemeral.Store
	ttl    time.Duration
	secure bool
}

func NewCenter(store *ephemeral.Store, ttl time.Duration, secureCookies bool) *Center {
	return &Center{store: store, ttl: ttl, secure: secureCookies}
}

// Flash queues t for the next page the client renders.
func (c *Center) Flash(w http.ResponseWriter, t *Toast) error {
	if t == nil {
		return nil
	}
	id, err := auth.GenerateNonce()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := c.store.Set(id, string(raw), c.ttl); err != nil {
		logging.WarnLog("Toast dropped [%s]: %v", utils.HashKey(id), err)
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Take pops the pending toast, if any, and clears the cookie.
func (c *Center) Take(w http.ResponseWriter, r *http.Request) *Toast {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, ok := c.store.Take(cookie.Value)
	if !ok {
		return nil
	}
	var t Toast
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		logging.WarnLog("Toast decode failed [%s]: %v", utils.HashKey(cookie.Value), err)
		return nil
	}
	return &t
}
