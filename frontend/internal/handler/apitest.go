package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/eduportal/portal/frontend/internal/probe"
)

const maxPayloadPreview = 4000

type apiTestResult struct {
	Suite string
	probe.Result
	Preview string
}

type apiTestData struct {
	Suites   []string
	Selected string
	Question string
	Results  []apiTestResult
	Passed   bool
	Ran      bool
}

func suiteNames() []string {
	names := make([]string, 0)
	for name := range probe.Suites("", "") {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *Handler) APITestGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "api_test.html", apiTestData{Suites: suiteNames(), Selected: "all"})
}

// APITestPostHandler runs one suite, or all of them in name order, with the
// browser's token.
func (h *Handler) APITestPostHandler(w http.ResponseWriter, r *http.Request) {
	data := apiTestData{
		Suites:   suiteNames(),
		Selected: r.FormValue("suite"),
		Question: strings.TrimSpace(r.FormValue("question")),
		Ran:      true,
	}
	if data.Question == "" {
		data.Question = "How am I doing this term?"
	}

	suites := probe.Suites(data.Question, strings.TrimSpace(r.FormValue("student_id")))
	selected := data.Suites
	if data.Selected != "" && data.Selected != "all" {
		if _, ok := suites[data.Selected]; !ok {
			h.renderTemplateWithError(w, r, "api_test.html", data, "Unknown test suite.")
			return
		}
		selected = []string{data.Selected}
	}

	c := h.client(w, r)
	var all []probe.Result
	for _, name := range selected {
		for _, res := range probe.Run(r.Context(), c.Client, suites[name]) {
			data.Results = append(data.Results, apiTestResult{Suite: name, Result: res, Preview: preview(res.Payload)})
			all = append(all, res)
		}
	}
	data.Passed = probe.Passed(all)
	h.renderTemplate(w, r, "api_test.html", data)
}

func preview(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return truncate(string(payload), maxPayloadPreview)
	}
	return truncate(buf.String(), maxPayloadPreview)
}
