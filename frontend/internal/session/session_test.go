package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory("")
	assert.Empty(t, m.Token())

	m.SetToken("abc")
	assert.Equal(t, "abc", m.Token())

	m.Clear()
	assert.Empty(t, m.Token())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory("start")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); m.SetToken("t") }()
		go func() { defer wg.Done(); _ = m.Token() }()
	}
	wg.Wait()
	assert.Equal(t, "t", m.Token())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	f := NewFile(path)

	assert.Empty(t, f.Token(), "missing file means no token")

	f.SetToken("persisted")
	assert.Equal(t, "persisted", NewFile(path).Token(), "a second store reads the same file")

	f.Clear()
	assert.Empty(t, f.Token())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	f.Clear() // clearing twice is fine
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Empty(t, NewFile(path).Token())
}

func TestCookieRoundTrip(t *testing.T) {
	store := NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false)

	// login response sets the cookie
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/student/login", nil)
	store.ForRequest(rr, req).SetToken("jwt-value")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// next request carries it back
	next := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
	next.AddCookie(cookies[0])
	rr2 := httptest.NewRecorder()
	c := store.ForRequest(rr2, next)
	assert.Equal(t, "jwt-value", c.Token())

	c.Clear()
	assert.Empty(t, c.Token())
	assert.NotEmpty(t, rr2.Result().Cookies(), "clearing rewrites the cookie")
}

func TestCookieForeignKey(t *testing.T) {
	signer := NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false)
	rr := httptest.NewRecorder()
	signer.ForRequest(rr, httptest.NewRequest(http.MethodGet, "/", nil)).SetToken("x")

	other := NewCookieStore([]byte("fedcba9876543210fedcba9876543210"), false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	assert.Empty(t, other.ForRequest(httptest.NewRecorder(), req).Token())
}

var (
	_ TokenStore = (*Memory)(nil)
	_ TokenStore = (*File)(nil)
	_ TokenStore = (*Cookie)(nil)
)

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, FlashError, "Please log in; 请登录", false)

	req := httptest.NewRequest(http.MethodGet, "/student/login", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	read := httptest.NewRecorder()
	assert.Equal(t, "Please log in; 请登录", PopFlash(read, req, FlashError))
	cleared := read.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	assert.Empty(t, PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), FlashError))
}
