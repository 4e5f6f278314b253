package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
	"github.com/eduportal/portal/frontend/internal/routes"
	internal_errors "github.com/eduportal/portal/shared/errors"
)

const defaultPageSize = 10

type dashboardData struct {
	User       *frontend_domain.Record
	Stats      *frontend_domain.Record
	StatsError string
}

func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	c := h.client(w, r)
	var data dashboardData

	me, err := c.Me(r.Context())
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "dashboard.html", data, msg)
		return
	}
	data.User = h.toSingleRecord(me)

	// Statistics are optional on the dashboard.
	stats, err := c.StudentStatistics(r.Context())
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		data.StatsError = msg
	} else {
		data.Stats = h.toSingleRecord(stats)
	}
	h.renderTemplate(w, r, "dashboard.html", data)
}

// DataScreenGetHandler shows the student profile, or one saved portrait
// when ?portrait= names it.
func (h *Handler) DataScreenGetHandler(w http.ResponseWriter, r *http.Request) {
	h.detailPage("Data overview", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		if id := r.URL.Query().Get("portrait"); id != "" {
			return c.PortraitByID(r.Context(), id)
		}
		return c.StudentProfile(r.Context())
	})(w, r)
}

// DataScreenPostHandler asks the backend to rebuild the profile analysis.
func (h *Handler) DataScreenPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		id, err := c.CurrentStudentID(r.Context())
		if err != nil {
			return "", err
		}
		if _, err := c.AnalyzePortrait(r.Context(), id); err != nil {
			return "", err
		}
		return "Analysis requested.", nil
	})(w, r)
}

func (h *Handler) HomeworkGetHandler(w http.ResponseWriter, r *http.Request) {
	h.listPage("Homework", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		return c.Assignments(r.Context())
	}, func(r *http.Request, page *frontend_domain.Page) {
		page.Actions = []frontend_domain.Action{{Label: "Submit", Path: r.URL.Path, Value: "submit"}}
	})(w, r)
}

func (h *Handler) HomeworkPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		id := r.FormValue("id")
		if id == "" {
			return "", &internal_errors.ValidationError{Field: "id", Message: "no assignment selected"}
		}
		_, err := c.SubmitAssignment(r.Context(), map[string]any{
			"assignment": id,
			"content":    r.FormValue("content"),
		})
		if err != nil {
			return "", err
		}
		return "Assignment submitted.", nil
	})(w, r)
}

func (h *Handler) TeachersGetHandler(w http.ResponseWriter, r *http.Request) {
	department := strings.TrimSpace(r.URL.Query().Get("department"))
	h.listPage("Teachers", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		if department != "" {
			return c.TeachersByDepartment(r.Context(), department)
		}
		return c.Teachers(r.Context())
	}, func(r *http.Request, page *frontend_domain.Page) {
		page.Query = map[string]string{"department": department}
		page.Actions = []frontend_domain.Action{{Label: "Details", Path: h.link(routes.TeacherDetail, "")}}
	})(w, r)
}

type teacherInfoData struct {
	Colleges   []frontend_domain.Record
	Department *frontend_domain.Record
	Code       string
}

// TeacherInfoGetHandler lists colleges and, given ?code=, the department it
// names. The department lookup tries each known endpoint shape.
func (h *Handler) TeacherInfoGetHandler(w http.ResponseWriter, r *http.Request) {
	c := h.client(w, r)
	data := teacherInfoData{Code: strings.TrimSpace(r.URL.Query().Get("code"))}

	colleges, err := c.Colleges(r.Context())
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "teacher_info.html", data, msg)
		return
	}
	data.Colleges = h.toRecords(colleges)

	if data.Code != "" {
		dept, err := c.DepartmentByCode(r.Context(), data.Code)
		if err != nil {
			msg, redirected := h.backendFailed(w, r, c, err)
			if redirected {
				return
			}
			h.renderTemplateWithError(w, r, "teacher_info.html", data, msg)
			return
		}
		data.Department = h.toSingleRecord(dept)
	}
	h.renderTemplate(w, r, "teacher_info.html", data)
}

func (h *Handler) TeacherFavoritesGetHandler(w http.ResponseWriter, r *http.Request) {
	kind := strings.TrimSpace(r.URL.Query().Get("type"))
	online := r.URL.Query().Get("online") == "1"
	h.listPage("Consult teachers", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		switch {
		case online:
			return c.OnlineConsultTeachers(r.Context())
		case kind != "":
			return c.ConsultTeachersByType(r.Context(), kind)
		}
		return c.ConsultTeachers(r.Context())
	}, func(r *http.Request, page *frontend_domain.Page) {
		page.Query = map[string]string{"type": kind}
		page.Actions = []frontend_domain.Action{{Label: "Book", Path: h.link(routes.BookConsultation, "")}}
	})(w, r)
}

func (h *Handler) BookConsultationGetHandler(w http.ResponseWriter, r *http.Request) {
	h.detailPage("Book a consultation", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		return c.ConsultantByID(r.Context(), pathParam(r, "id"))
	})(w, r)
}

func (h *Handler) BookConsultationPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		_, err := c.BookConsultation(r.Context(), map[string]any{
			"consultant": pathParam(r, "id"),
			"time":       r.FormValue("time"),
			"topic":      r.FormValue("topic"),
		})
		if err != nil {
			return "", err
		}
		return "Consultation booked.", nil
	})(w, r)
}

func (h *Handler) ResumeGetHandler(w http.ResponseWriter, r *http.Request) {
	h.detailPage("Resume", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		return c.Resume(r.Context())
	})(w, r)
}

func (h *Handler) ResumePostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		if err := r.ParseForm(); err != nil {
			return "", &internal_errors.ValidationError{Field: "form", Message: err.Error()}
		}
		fields := map[string]any{}
		for _, key := range []string{"title", "summary", "education", "experience", "skills"} {
			if v := strings.TrimSpace(r.PostForm.Get(key)); v != "" {
				fields[key] = v
			}
		}
		if len(fields) == 0 {
			return "", &internal_errors.ValidationError{Field: "resume", Message: "nothing to save"}
		}
		if _, err := c.UpdateResume(r.Context(), fields); err != nil {
			return "", err
		}
		return "Resume saved.", nil
	})(w, r)
}

// pagingFromQuery reads ?page= and ?size=, defaulting to the first page.
func pagingFromQuery(q url.Values) apiclient.Pagination {
	p := apiclient.Pagination{Page: 1, PageSize: defaultPageSize}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 && v <= 100 {
		p.PageSize = v
	}
	return p
}

func pagingLinks(path string, p apiclient.Pagination, got int) *frontend_domain.Paging {
	paging := &frontend_domain.Paging{Page: p.Page, PageSize: p.PageSize}
	if p.Page > 1 {
		paging.Prev = fmt.Sprintf("%s?page=%d&size=%d", path, p.Page-1, p.PageSize)
	}
	if got >= p.PageSize {
		paging.Next = fmt.Sprintf("%s?page=%d&size=%d", path, p.Page+1, p.PageSize)
	}
	return paging
}

func (h *Handler) FeedbackGetHandler(w http.ResponseWriter, r *http.Request) {
	paging := pagingFromQuery(r.URL.Query())
	page := &frontend_domain.Page{Title: "Feedback"}
	c := h.client(w, r)
	raw, err := c.Feedbacks(r.Context(), paging)
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "feedback.html", page, msg)
		return
	}
	page.Records = h.toRecords(raw)
	page.Paging = pagingLinks(r.URL.Path, paging, len(page.Records))
	h.renderTemplate(w, r, "feedback.html", page)
}

func (h *Handler) FeedbackPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		return submitFeedback(r, c, "feedback")
	})(w, r)
}

func (h *Handler) SurveyPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		return submitFeedback(r, c, "survey")
	})(w, r)
}

func submitFeedback(r *http.Request, c *call, kind string) (string, error) {
	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		return "", &internal_errors.ValidationError{Field: "content", Message: "cannot be empty"}
	}
	data := map[string]any{"content": content, "type": kind}
	if rating, err := strconv.Atoi(r.FormValue("rating")); err == nil {
		data["rating"] = rating
	}
	if _, err := c.SubmitFeedback(r.Context(), data); err != nil {
		return "", err
	}
	return "Thank you for your feedback.", nil
}

func (h *Handler) JobsGetHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := apiclient.PositionFilter{
		Pagination: pagingFromQuery(q),
		Keyword:    strings.TrimSpace(q.Get("keyword")),
		City:       strings.TrimSpace(q.Get("city")),
	}
	page := &frontend_domain.Page{
		Title:   "Job recommendations",
		Query:   map[string]string{"keyword": filter.Keyword, "city": filter.City},
		Actions: []frontend_domain.Action{{Label: "Apply", Path: r.URL.Path, Value: "apply"}},
	}
	c := h.client(w, r)
	raw, err := c.Positions(r.Context(), filter)
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "list.html", page, msg)
		return
	}
	page.Records = h.toRecords(raw)
	page.Paging = pagingLinks(r.URL.Path, filter.Pagination, len(page.Records))
	h.renderTemplate(w, r, "list.html", page)
}

func (h *Handler) JobsPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		id := r.FormValue("id")
		if id == "" {
			return "", &internal_errors.ValidationError{Field: "id", Message: "no position selected"}
		}
		if _, err := c.ApplyPosition(r.Context(), map[string]any{"position": id}); err != nil {
			return "", err
		}
		return "Application sent.", nil
	})(w, r)
}

func (h *Handler) ActivitiesGetHandler(w http.ResponseWriter, r *http.Request) {
	h.listPage("Activities", "", func(r *http.Request, c *call) (json.RawMessage, error) {
		return c.Activities(r.Context())
	}, func(r *http.Request, page *frontend_domain.Page) {
		page.Actions = []frontend_domain.Action{{Label: "Join", Path: r.URL.Path, Value: "join"}}
	})(w, r)
}

func (h *Handler) ActivitiesPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		if _, err := c.JoinActivity(r.Context(), r.FormValue("id")); err != nil {
			return "", err
		}
		return "You joined the activity.", nil
	})(w, r)
}

type talentMarketData struct {
	Companies []frontend_domain.Record
	Stats     *frontend_domain.Record
}

func (h *Handler) TalentMarketGetHandler(w http.ResponseWriter, r *http.Request) {
	c := h.client(w, r)
	var data talentMarketData

	companies, err := c.Companies(r.Context())
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "talent_market.html", data, msg)
		return
	}
	data.Companies = h.toRecords(companies)

	if stats, err := c.MarketStats(r.Context()); err == nil {
		data.Stats = h.toSingleRecord(stats)
	} else if _, redirected := h.backendFailed(w, r, c, err); redirected {
		return
	}
	h.renderTemplate(w, r, "talent_market.html", data)
}
