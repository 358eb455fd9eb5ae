package notify_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goofygiraffe06/prepwise/internal/notify"
	"github.com/Goofygiraffe06/prepwise/store/ephemeral"
)

func newCenter(t *testing.T) *notify.Center {
	t.Helper()
	s := ephemeral.New()
	t.Cleanup(s.Close)
	return notify.NewCenter(s, time.Minute, false)
}

func TestFlashThenTake(t *testing.T) {
	c := newCenter(t)

	rec := httptest.NewRecorder()
	require.NoError(t, c.Flash(rec, notify.Success("Signed in successfully.")))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, notify.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()

	toast := c.Take(rec, req)
	require.NotNil(t, toast)
	assert.Equal(t, notify.KindSuccess, toast.Kind)
	assert.Equal(t, "Signed in successfully.", toast.Message)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Less(t, cleared[0].MaxAge, 0)

	// shown at most once
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Nil(t, c.Take(httptest.NewRecorder(), req))
}

func TestTakeWithoutCookie(t *testing.T) {
	c := newCenter(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, c.Take(httptest.NewRecorder(), req))
}

func TestTakeUnknownID(t *testing.T) {
	c := newCenter(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: notify.CookieName, Value: "forged"})
	assert.Nil(t, c.Take(httptest.NewRecorder(), req))
}

func TestFlashNil(t *testing.T) {
	c := newCenter(t)
	rec := httptest.NewRecorder()
	require.NoError(t, c.Flash(rec, nil))
	assert.Empty(t, rec.Result().Cookies())
}
