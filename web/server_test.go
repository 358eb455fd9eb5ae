package web_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Goofygiraffe06/prepwise/internal/account"
	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/manager"
	"github.com/Goofygiraffe06/prepwise/internal/models"
	"github.com/Goofygiraffe06/prepwise/internal/notify"
	"github.com/Goofygiraffe06/prepwise/store"
	"github.com/Goofygiraffe06/prepwise/store/ephemeral"
	"github.com/Goofygiraffe06/prepwise/web"
)

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	return setupRouterWithSessions(t, auth.NewSessions("test-secret", "prepwise-test", time.Hour))
}

func setupRouterWithSessions(t *testing.T, sessions web.SessionManager) http.Handler {
	t.Helper()

	userStore, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { userStore.Close() })

	mgr := manager.NewWorkManager(
		manager.WithStoreWorkers(1),
		manager.WithHashWorkers(1),
		manager.WithMailWorkers(1),
		manager.WithQueueSize(8),
	)
	t.Cleanup(mgr.Close)

	toastStore := ephemeral.New()
	t.Cleanup(toastStore.Close)

	router, err := web.NewRouter(web.Deps{
		Auth:           account.NewService(userStore, mgr, nil),
		Toasts:         notify.NewCenter(toastStore, time.Minute, false),
		Sessions:       sessions,
		AllowedOrigins: []string{"http://localhost:8080"},
	})
	require.NoError(t, err)
	return router
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func post(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func signUpForm(name, email, password string) url.Values {
	return url.Values{"name": {name}, "email": {email}, "password": {password}}
}

func signInForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func TestLayoutRendersLogoNav(t *testing.T) {
	router := setupRouter(t)

	rr := get(t, router, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<nav>`)
	assert.Contains(t, body, `<a href="/" class="flex items-center gap-2">`)
	assert.Contains(t, body, `<img src="/logo.svg" alt="logo" width="38" height="32">`)

	logo := get(t, router, "/logo.svg")
	assert.Equal(t, http.StatusOK, logo.Code)
	assert.Contains(t, logo.Body.String(), "<svg")
}

func TestAuthPages_FieldSets(t *testing.T) {
	router := setupRouter(t)

	signUp := get(t, router, "/sign-up").Body.String()
	assert.Contains(t, signUp, `name="name"`)
	assert.Contains(t, signUp, `name="email"`)
	assert.Contains(t, signUp, `name="password"`)
	assert.Contains(t, signUp, "Create an Account")
	assert.Contains(t, signUp, `<a href="/sign-in">Sign In</a>`)

	// toggling to sign-in drops the name field
	signIn := get(t, router, "/sign-in").Body.String()
	assert.NotContains(t, signIn, `name="name"`)
	assert.Contains(t, signIn, `name="email"`)
	assert.Contains(t, signIn, `<a href="/sign-up">Sign Up</a>`)
}

func TestSignUp_ShortNameStaysOnForm(t *testing.T) {
	router := setupRouter(t)

	rr := post(t, router, "/sign-up", signUpForm("Al", "al@example.com", "abc"))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	body := rr.Body.String()
	assert.Contains(t, body, "name must be at least 3 characters")
	assert.Contains(t, body, `value="al@example.com"`)
	assert.NotContains(t, body, `value="abc"`, "password is never echoed")
}

func TestInvalidEmail_BothModes(t *testing.T) {
	router := setupRouter(t)

	for path, form := range map[string]url.Values{
		"/sign-up": signUpForm("Ada", "nope", "abc"),
		"/sign-in": signInForm("nope", "abc"),
	} {
		t.Run(path, func(t *testing.T) {
			rr := post(t, router, path, form)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Empty(t, rr.Header().Get("Location"))
			assert.Contains(t, rr.Body.String(), "invalid email format")
		})
	}
}

func TestSignUpThenSignIn(t *testing.T) {
	router := setupRouter(t)

	// sign-up navigates to sign-in with a success toast
	rr := post(t, router, "/sign-up", signUpForm("Ada", "ada@example.com", "abc"))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/sign-in", rr.Header().Get("Location"))
	toast := cookie(rr, notify.CookieName)
	require.NotNil(t, toast)

	page := get(t, router, "/sign-in", toast)
	assert.Contains(t, page.Body.String(), "Account created successfully. Please sign in.")
	assert.Contains(t, page.Body.String(), `toast-success`)

	// the toast is shown once
	again := get(t, router, "/sign-in", toast)
	assert.NotContains(t, again.Body.String(), "Account created successfully.")

	// sign-in navigates home with a success toast and a session
	rr = post(t, router, "/sign-in", signInForm("ADA@example.com", "abc"))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	session := cookie(rr, web.SessionCookie)
	require.NotNil(t, session)
	toast = cookie(rr, notify.CookieName)
	require.NotNil(t, toast)

	home := get(t, router, "/", session, toast)
	assert.Contains(t, home.Body.String(), "Signed in successfully.")
	assert.Contains(t, home.Body.String(), "Welcome back, Ada")

	// sign-out clears the session
	out := post(t, router, "/sign-out", url.Values{}, session)
	assert.Equal(t, http.StatusSeeOther, out.Code)
	cleared := cookie(out, web.SessionCookie)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestSignIn_WrongPasswordShowsErrorToast(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusSeeOther, post(t, router, "/sign-up", signUpForm("Ada", "ada@example.com", "abc")).Code)

	rr := post(t, router, "/sign-in", signInForm("ada@example.com", "wrong"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	assert.Nil(t, cookie(rr, web.SessionCookie))
	body := rr.Body.String()
	assert.Contains(t, body, "toast-error")
	assert.Contains(t, body, "There was an error: invalid email or password")
}

func TestSignUp_DuplicateShowsErrorToast(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusSeeOther, post(t, router, "/sign-up", signUpForm("Ada", "ada@example.com", "abc")).Code)

	rr := post(t, router, "/sign-up", signUpForm("Ada", "ada@example.com", "abc"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "There was an error: an account with this email already exists")
}

// brokenIssuer verifies like the real manager but cannot sign.
type brokenIssuer struct {
	*auth.Sessions
}

func (brokenIssuer) Issue(models.Account) (string, error) {
	return "", errors.New("signing key unavailable")
}

func TestSignIn_SessionFailureStaysOnForm(t *testing.T) {
	router := setupRouterWithSessions(t, brokenIssuer{auth.NewSessions("test-secret", "prepwise-test", time.Hour)})
	require.Equal(t, http.StatusSeeOther, post(t, router, "/sign-up", signUpForm("Ada", "ada@example.com", "abc")).Code)

	rr := post(t, router, "/sign-in", signInForm("ada@example.com", "abc"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	assert.Nil(t, cookie(rr, web.SessionCookie))
	assert.Nil(t, cookie(rr, notify.CookieName), "success toast must not be queued")
	body := rr.Body.String()
	assert.Contains(t, body, "There was an error: could not start your session")
	assert.Contains(t, body, `value="ada@example.com"`)
}

func TestLongPasswordsSignUpAndSignIn(t *testing.T) {
	router := setupRouter(t)

	for i, n := range []int{72, 73, 128} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			email := fmt.Sprintf("user%d@example.com", i)
			password := strings.Repeat("a", n)

			rr := post(t, router, "/sign-up", signUpForm("Ada", email, password))
			require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
			assert.Equal(t, "/sign-in", rr.Header().Get("Location"))

			rr = post(t, router, "/sign-in", signInForm(email, password))
			require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
			assert.Equal(t, "/", rr.Header().Get("Location"))
		})
	}
}

func TestForgedSessionIsIgnored(t *testing.T) {
	router := setupRouter(t)
	rr := get(t, router, "/", &http.Cookie{Name: web.SessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Welcome back")
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	rr := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
