package handler

import (
	"net/http"
	"strings"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/logger"
	"github.com/eduportal/portal/shared/utils"
)

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "login.html", nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimSpace(r.FormValue("identifier"))
	password := r.FormValue("password")

	c := h.client(w, r)
	_, err := c.Login(r.Context(), apiclient.LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		logger.Log.Info("login failed", "identifier", identifier, "error", err)
		session.SetFlash(w, session.FlashIdentifier, identifier, h.Public.SecureCookies)
		h.redirectWithFlash(w, r, h.LoginPath, session.FlashError, utils.UserMessage(err))
		return
	}

	logger.Log.Info("login succeeded", "identifier", identifier)
	http.Redirect(w, r, h.routePath(routes.StudentDashboard), http.StatusSeeOther)
}

func (h *Handler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "register.html", nil)
}

func (h *Handler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	targetURL := h.routePath(routes.StudentRegister)

	c := h.client(w, r)
	_, err := c.Register(r.Context(), apiclient.RegisterRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	})
	if err != nil {
		logger.Log.Info("registration failed", "error", err)
		h.redirectWithFlash(w, r, targetURL, session.FlashError, utils.UserMessage(err))
		return
	}

	// Some backends log the new account in right away.
	if c.tokens.Token() != "" {
		http.Redirect(w, r, h.routePath(routes.StudentDashboard), http.StatusSeeOther)
		return
	}
	h.redirectWithFlash(w, r, h.LoginPath, session.FlashSuccess, "Account created. You can now log in.")
}

// LogoutHandler drops the token even when the backend call fails.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	c := h.client(w, r)
	if _, err := c.Logout(r.Context()); err != nil {
		logger.Log.Debug("backend logout failed", "error", err)
	}
	h.redirectWithFlash(w, r, h.routePath(routes.Home), session.FlashSuccess, "You have been logged out.")
}

// routePath looks a route up by name, falling back to the site root.
func (h *Handler) routePath(name string) string {
	if h.Routes != nil {
		if p, ok := h.Routes.Path(name); ok {
			return p
		}
	}
	return "/"
}
