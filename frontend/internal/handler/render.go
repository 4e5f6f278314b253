package handler

import (
	"bytes"
	"fmt"
	"net/http"

	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
	"github.com/eduportal/portal/frontend/internal/middleware"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/jwt"
	"github.com/eduportal/portal/shared/logger"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

// Navigation entries shown in the student layout.
var studentNav = []struct{ title, route string }{
	{"Dashboard", routes.StudentDashboard},
	{"Data", routes.StudentDataScreen},
	{"Homework", routes.StudentHomework},
	{"Courses", routes.StudentCourses},
	{"Achievements", routes.StudentAchievement},
	{"Teachers", routes.StudentTeachers},
	{"Consult", routes.StudentConsult},
	{"Jobs", routes.JobRecommendation},
	{"Feedback", routes.StudentFeedback},
	{"Activities", routes.StudentActivities},
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	h.renderTemplateStatus(w, r, http.StatusOK, name, data, errMsg)
}

func (h *Handler) renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any, errMsg string) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	common := frontend_domain.CommonTemplateData{
		Error:      session.PopFlash(w, r, session.FlashError),
		Success:    session.PopFlash(w, r, session.FlashSuccess),
		Identifier: session.PopFlash(w, r, session.FlashIdentifier),
		CSRFToken:  middleware.CSRFToken(r),
		DevMode:    h.Public.DevMode,
		Path:       r.URL.Path,
	}

	if token := h.Token(w, r); token != "" {
		common.LoggedIn = true
		if claims, err := jwt.Inspect(token); err == nil {
			common.TokenExpires = claims.ExpiresAt
		}
	}

	if common.LoggedIn && h.Routes != nil {
		for _, item := range studentNav {
			p, ok := h.Routes.Path(item.route)
			if !ok {
				continue
			}
			common.Nav = append(common.Nav, frontend_domain.NavItem{Title: item.title, Path: p, Active: p == r.URL.Path})
		}
	}
	return common
}
