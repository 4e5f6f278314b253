package handler

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
	"github.com/eduportal/portal/shared/logger"
)

const maxQuestionLen = 2000

type consultData struct {
	Question    string
	Turn        *frontend_domain.ChatTurn
	Consultants []frontend_domain.Record
}

func (h *Handler) ConsultGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderConsult(w, r, consultData{})
}

// ConsultPostHandler asks the profile assistant. The assistant never fails
// the page: errors come back as a fallback answer. A successful answer is
// appended to the student's portrait history.
func (h *Handler) ConsultPostHandler(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.FormValue("question"))
	data := consultData{Question: question}
	if question == "" {
		h.renderConsultWithError(w, r, data, "Please enter a question.")
		return
	}
	if len([]rune(question)) > maxQuestionLen {
		h.renderConsultWithError(w, r, data, "Your question is too long.")
		return
	}

	c := h.client(w, r)
	// An unknown id is left empty; SafeChat then answers with its fallback.
	studentID, err := c.CurrentStudentID(r.Context())
	if err != nil {
		if c.unauthorized {
			h.backendFailed(w, r, c, err)
			return
		}
		logger.Log.Debug("student id unavailable before chat", "error", err)
	}

	var reply *apiclient.ChatReply
	if h.Public.DevMode && r.FormValue("mock") == "1" {
		reply = &apiclient.ChatReply{Message: apiclient.MockReply(question)}
	} else {
		reply = c.SafeChat(r.Context(), apiclient.ChatRequest{Question: question, StudentID: studentID})
	}
	if c.unauthorized {
		h.backendFailed(w, r, c, apiclient.ErrEmptyReply)
		return
	}

	data.Turn = &frontend_domain.ChatTurn{
		Question: question,
		Answer:   h.TextProcessor.Render(reply.Message),
		Failed:   reply.Error,
	}
	if !reply.Error && studentID != "" {
		h.recordAnswer(r, c, studentID, question, reply.Message)
	}
	h.renderConsult(w, r, data)
}

// recordAnswer appends to the first portrait of the current student. Failure
// is logged only; the answer was already produced.
func (h *Handler) recordAnswer(r *http.Request, c *call, studentID, question, answer string) {
	ctx := r.Context()
	portraits, err := c.Portrait(ctx, studentID)
	if err != nil {
		logger.Log.Debug("skipping qa history, portrait lookup failed", "error", err)
		return
	}
	id := gjson.GetBytes(portraits, "0.documentId").String()
	if id == "" {
		id = gjson.GetBytes(portraits, "0.id").String()
	}
	if id == "" {
		return
	}
	if _, err := c.AppendQAHistory(ctx, id, apiclient.QAEntry{Question: question, Answer: answer}); err != nil {
		logger.Log.Warn("appending qa history failed", "portrait", id, "error", err)
	}
}

func (h *Handler) renderConsult(w http.ResponseWriter, r *http.Request, data consultData) {
	h.renderConsultWithError(w, r, data, "")
}

func (h *Handler) renderConsultWithError(w http.ResponseWriter, r *http.Request, data consultData, errMsg string) {
	c := h.client(w, r)
	if raw, err := c.Consultants(r.Context()); err == nil {
		data.Consultants = h.toRecords(raw)
	} else {
		logger.Log.Debug("consultant list unavailable", "error", err)
	}
	h.renderTemplateWithError(w, r, "consult.html", data, errMsg)
}
