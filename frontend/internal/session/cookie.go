package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/eduportal/portal/shared/logger"
)

const (
	cookieName   = "portal-session"
	cookieMaxAge = 30 * 24 * 60 * 60
)

// CookieStore keeps the token in a signed browser cookie.
type CookieStore struct {
	store *sessions.CookieStore
}

func NewCookieStore(key []byte, secure bool) *CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

// ForRequest binds the cookie session of r. Writes go out on w, so SetToken
// and Clear must happen before the response header is written.
func (s *CookieStore) ForRequest(w http.ResponseWriter, r *http.Request) *Cookie {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session.
		logger.Log.Debug("discarding unreadable session cookie", "error", err)
	}
	return &Cookie{w: w, r: r, sess: sess}
}

// Cookie is a TokenStore bound to one request.
type Cookie struct {
	w    http.ResponseWriter
	r    *http.Request
	sess *sessions.Session
}

func (c *Cookie) Token() string {
	token, _ := c.sess.Values[TokenKey].(string)
	return token
}

func (c *Cookie) SetToken(token string) {
	c.sess.Values[TokenKey] = token
	c.save()
}

func (c *Cookie) Clear() {
	delete(c.sess.Values, TokenKey)
	c.save()
}

func (c *Cookie) save() {
	if err := c.sess.Save(c.r, c.w); err != nil {
		logger.Log.Error("saving session cookie", "error", err)
	}
}
