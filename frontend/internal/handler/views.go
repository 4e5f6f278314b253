package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
	"github.com/eduportal/portal/frontend/internal/middleware"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/logger"
)

// View builds the handler of a named route. It is handed to routes.Portal
// and called lazily on first visit.
func (h *Handler) View(name string) http.Handler {
	switch name {
	case routes.Home:
		return methods(h.static("home.html"), nil)
	case routes.About:
		return methods(h.static("about.html"), nil)
	case routes.StudentLogin:
		return methods(h.LoginGetHandler, h.LoginPostHandler)
	case routes.StudentRegister:
		return methods(h.RegisterGetHandler, h.RegisterPostHandler)

	case routes.StudentDashboard:
		return methods(h.DashboardHandler, nil)
	case routes.StudentStastic:
		return methods(h.detailPage("Statistics", "", func(r *http.Request, c *call) (json.RawMessage, error) {
			return c.StudentStatistics(r.Context())
		}), nil)
	case routes.StudentDataScreen:
		return methods(h.DataScreenGetHandler, h.DataScreenPostHandler)
	case routes.StudentHomework:
		return methods(h.HomeworkGetHandler, h.HomeworkPostHandler)
	case routes.StudentCourses:
		return methods(h.listPage("Courses", "", func(r *http.Request, c *call) (json.RawMessage, error) {
			return c.Courses(r.Context())
		}, nil), nil)
	case routes.CourseSchedule:
		return methods(h.listPage("Course schedule", "Your enrolled courses and their times.", func(r *http.Request, c *call) (json.RawMessage, error) {
			return c.Courses(r.Context())
		}, nil), nil)

	case routes.StudentAchievement:
		return methods(h.AchievementsGetHandler, h.AchievementsPostHandler)
	case routes.AchievementCollect:
		return methods(h.static("achievement_collect.html"), h.AchievementCollectPostHandler)
	case routes.AchievementDetail:
		return methods(h.detailPage("Achievement", "", func(r *http.Request, c *call) (json.RawMessage, error) {
			return c.ViewAchievement(r.Context(), pathParam(r, "id"))
		}), nil)
	case routes.AchievementSettings:
		return methods(h.AchievementSettingsGetHandler, h.AchievementSettingsPostHandler)

	case routes.StudentTeachers:
		return methods(h.TeachersGetHandler, nil)
	case routes.TeacherInfo:
		return methods(h.TeacherInfoGetHandler, nil)
	case routes.TeacherDetail:
		return methods(h.detailPage("Teacher", "", func(r *http.Request, c *call) (json.RawMessage, error) {
			return c.TeacherByID(r.Context(), pathParam(r, "id"))
		}), nil)
	case routes.TeacherFavorites:
		return methods(h.TeacherFavoritesGetHandler, nil)

	case routes.StudentConsult:
		return methods(h.ConsultGetHandler, h.ConsultPostHandler)
	case routes.ConsultantDetail:
		return methods(h.detailPage("Consultant", "", func(r *http.Request, c *call) (json.RawMessage, error) {
			return c.ConsultantByID(r.Context(), pathParam(r, "id"))
		}), nil)
	case routes.BookConsultation:
		return methods(h.BookConsultationGetHandler, h.BookConsultationPostHandler)

	case routes.StudentResume:
		return methods(h.ResumeGetHandler, h.ResumePostHandler)
	case routes.StudentFeedback:
		return methods(h.FeedbackGetHandler, h.FeedbackPostHandler)
	case routes.StudentSurvey:
		return methods(h.static("survey.html"), h.SurveyPostHandler)
	case routes.JobRecommendation:
		return methods(h.JobsGetHandler, h.JobsPostHandler)
	case routes.APITest:
		return methods(h.APITestGetHandler, h.APITestPostHandler)
	case routes.StudentActivities:
		return methods(h.ActivitiesGetHandler, h.ActivitiesPostHandler)
	case routes.TalentMarket:
		return methods(h.TalentMarketGetHandler, nil)
	}

	logger.Log.Warn("no view for route", "route", name)
	return http.HandlerFunc(h.NotFound)
}

// dispatcher sends GET/HEAD to get and POST to post. A nil post answers
// 405 to form submissions.
type dispatcher struct {
	get, post http.HandlerFunc
}

func methods(get, post http.HandlerFunc) http.Handler {
	return dispatcher{get: get, post: post}
}

func (d dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		d.get(w, r)
	case r.Method == http.MethodPost && d.post != nil:
		d.post(w, r)
	default:
		allow := "GET, HEAD"
		if d.post != nil {
			allow += ", POST"
		}
		w.Header().Set("Allow", allow)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) static(tmpl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderTemplate(w, r, tmpl, nil)
	}
}

// pathParam reads a route param from the chi context, or from the match the
// guard resolved when the handler is mounted outside chi.
func pathParam(r *http.Request, name string) string {
	if v := chi.URLParam(r, name); v != "" {
		return v
	}
	if m, ok := middleware.MatchFromContext(r.Context()); ok {
		return m.Params[name]
	}
	return ""
}

// link fills the :id segment of a named route.
func (h *Handler) link(name, id string) string {
	return strings.Replace(h.routePath(name), ":id", id, 1)
}

type loadFunc func(r *http.Request, c *call) (json.RawMessage, error)

// listPage renders the records of one backend list. decorate may add
// actions or filters.
func (h *Handler) listPage(title, intro string, load loadFunc, decorate func(r *http.Request, page *frontend_domain.Page)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := &frontend_domain.Page{Title: title, Intro: intro}
		if decorate != nil {
			decorate(r, page)
		}
		c := h.client(w, r)
		raw, err := load(r, c)
		if err != nil {
			msg, redirected := h.backendFailed(w, r, c, err)
			if redirected {
				return
			}
			h.renderTemplateWithError(w, r, "list.html", page, msg)
			return
		}
		page.Records = h.toRecords(raw)
		h.renderTemplate(w, r, "list.html", page)
	}
}

func (h *Handler) detailPage(title, intro string, load loadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := &frontend_domain.Page{Title: title, Intro: intro}
		c := h.client(w, r)
		raw, err := load(r, c)
		if err != nil {
			msg, redirected := h.backendFailed(w, r, c, err)
			if redirected {
				return
			}
			h.renderTemplateWithError(w, r, "detail.html", page, msg)
			return
		}
		page.Record = h.toSingleRecord(raw)
		if page.Record != nil && page.Record.Title != "" && !strings.HasPrefix(page.Record.Title, "#") {
			page.Title = page.Record.Title
		}
		h.renderTemplate(w, r, "detail.html", page)
	}
}

// formAction runs one backend call for a form post and redirects back with
// a flash. act returns the success message.
func (h *Handler) formAction(back string, act func(r *http.Request, c *call) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := back
		if target == "" {
			target = r.URL.Path
		}
		c := h.client(w, r)
		msg, err := act(r, c)
		if err != nil {
			errMsg, redirected := h.backendFailed(w, r, c, err)
			if redirected {
				return
			}
			h.redirectWithFlash(w, r, target, session.FlashError, errMsg)
			return
		}
		h.redirectWithFlash(w, r, target, session.FlashSuccess, msg)
	}
}
