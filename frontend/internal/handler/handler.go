package handler

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	"github.com/eduportal/portal/frontend/internal/markdown"
	"github.com/eduportal/portal/frontend/internal/middleware"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/config"
	"github.com/eduportal/portal/shared/logger"
	"github.com/eduportal/portal/shared/utils"
)

type Handler struct {
	templatesMu   sync.RWMutex
	templates     map[string]*template.Template
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	APIClient     *apiclient.Client
	Sessions      *session.CookieStore
	Routes        *routes.Table
	LoginPath     string
	mediaURL      func(string) string
}

func New(templates map[string]*template.Template, cfg *config.Config, textProcessor *markdown.TextProcessor, apiClient *apiclient.Client, sessions *session.CookieStore) *Handler {
	return &Handler{
		templates:     templates,
		Public:        cfg.Public,
		TextProcessor: textProcessor,
		APIClient:     apiClient,
		Sessions:      sessions,
		LoginPath:     "/student/login",
		mediaURL:      cfg.ToAbsoluteURL,
	}
}

// SetTemplates swaps the template set. Used by the dev-mode reloader.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.templatesMu.Lock()
	h.templates = templates
	h.templatesMu.Unlock()
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.templatesMu.RLock()
	defer h.templatesMu.RUnlock()
	tmpl, ok := h.templates[name]
	return tmpl, ok
}

// call is a client bound to the browser's cookie session for one request.
// unauthorized flips when the backend answered 401 and the token was dropped.
type call struct {
	*apiclient.Client
	tokens       session.TokenStore
	unauthorized bool
}

func (h *Handler) client(w http.ResponseWriter, r *http.Request) *call {
	tokens := h.Sessions.ForRequest(w, r)
	c := &call{tokens: tokens}
	c.Client = h.APIClient.WithSession(tokens, func() { c.unauthorized = true })
	return c
}

// Token is the credential token the browser presented. Used by the guard.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) string {
	return h.Sessions.ForRequest(w, r).Token()
}

// backendFailed handles an error from a backend call made while rendering a
// page. A 401 sends the user to the login view; any other error is shown on
// the page itself. It reports whether a redirect was written.
func (h *Handler) backendFailed(w http.ResponseWriter, r *http.Request, c *call, err error) (string, bool) {
	if c.unauthorized {
		middleware.RedirectToLogin(w, r, h.LoginPath, h.Public.SecureCookies)
		return "", true
	}
	logger.Log.Error("backend call failed", "path", r.URL.Path, "error", err)
	return utils.UserMessage(err), false
}

// redirectWithFlash sets a flash message and sends the browser to target.
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, flashName, message string) {
	session.SetFlash(w, flashName, message, h.Public.SecureCookies)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderTemplateStatus(w, r, http.StatusNotFound, "not_found.html", nil, "")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
