package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	internal_errors "github.com/eduportal/portal/shared/errors"
	"github.com/eduportal/portal/shared/logger"
	"github.com/eduportal/portal/shared/validation"
)

const maxUploadSize = 20 << 20

func (h *Handler) AchievementsGetHandler(w http.ResponseWriter, r *http.Request) {
	page := &frontend_domain.Page{
		Title: "Achievements",
		Actions: []frontend_domain.Action{
			{Label: "View", Path: h.link(routes.AchievementDetail, "")},
			{Label: "Delete", Path: r.URL.Path, Value: "delete", Danger: true},
		},
	}
	c := h.client(w, r)
	raw, err := c.Achievements(r.Context())
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "list.html", page, msg)
		return
	}
	page.Records = visible(h.toRecords(raw))
	h.renderTemplate(w, r, "list.html", page)
}

// AchievementsPostHandler soft-deletes; the record stays restorable from
// the settings page.
func (h *Handler) AchievementsPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		if action := r.FormValue("action"); action != "delete" {
			return "", &internal_errors.ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", action)}
		}
		if _, err := c.SoftDeleteAchievement(r.Context(), r.FormValue("id")); err != nil {
			return "", err
		}
		return "Achievement moved to the recycle bin.", nil
	})(w, r)
}

func (h *Handler) AchievementSettingsGetHandler(w http.ResponseWriter, r *http.Request) {
	page := &frontend_domain.Page{
		Title: "Recycle bin",
		Intro: "Deleted achievements can be restored or removed for good.",
		Actions: []frontend_domain.Action{
			{Label: "Restore", Path: r.URL.Path, Value: "restore"},
			{Label: "Delete forever", Path: r.URL.Path, Value: "purge", Danger: true},
		},
	}
	c := h.client(w, r)
	raw, err := c.Achievements(r.Context())
	if err != nil {
		msg, redirected := h.backendFailed(w, r, c, err)
		if redirected {
			return
		}
		h.renderTemplateWithError(w, r, "list.html", page, msg)
		return
	}
	page.Records = deleted(h.toRecords(raw))
	h.renderTemplate(w, r, "list.html", page)
}

func (h *Handler) AchievementSettingsPostHandler(w http.ResponseWriter, r *http.Request) {
	h.formAction("", func(r *http.Request, c *call) (string, error) {
		id := r.FormValue("id")
		switch r.FormValue("action") {
		case "restore":
			if _, err := c.RestoreAchievement(r.Context(), id); err != nil {
				return "", err
			}
			return "Achievement restored.", nil
		case "purge":
			if id == "" {
				return "", &internal_errors.ValidationError{Field: "id", Message: "is required"}
			}
			if _, err := c.DeleteAchievement(r.Context(), id); err != nil {
				return "", err
			}
			return "Achievement deleted.", nil
		}
		return "", &internal_errors.ValidationError{Field: "action", Message: "unknown action"}
	})(w, r)
}

// AchievementCollectPostHandler uploads the certificate files, then creates
// the achievement pointing at them. With ocr=1 the first file is also run
// through text recognition and the result stored as a description.
func (h *Handler) AchievementCollectPostHandler(w http.ResponseWriter, r *http.Request) {
	back := r.URL.Path
	if r.MultipartForm == nil {
		if err := validation.ParseMultipart(w, r, maxUploadSize); err != nil {
			h.redirectWithFlash(w, r, back, session.FlashError,
				fmt.Sprintf("Upload too large, at most %.0f MB.", validation.FormatSizeMB(maxUploadSize)))
			return
		}
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		h.redirectWithFlash(w, r, back, session.FlashError, "Title is required.")
		return
	}

	uploads, err := validation.ReadUploads(r.MultipartForm, "files", validation.DocumentUploads)
	if err != nil && !errors.Is(err, validation.ErrNoFiles) {
		h.redirectWithFlash(w, r, back, session.FlashError, err.Error())
		return
	}

	c := h.client(w, r)
	data := map[string]any{
		"title":       title,
		"description": strings.TrimSpace(r.FormValue("description")),
		"category":    strings.TrimSpace(r.FormValue("category")),
	}

	if len(uploads) > 0 {
		form := apiclient.Form{}
		for _, u := range uploads {
			form.Files = append(form.Files, apiclient.File{Name: u.Name, ContentType: u.ContentType, Content: bytes.NewReader(u.Content)})
		}
		uploaded, err := c.UploadFiles(r.Context(), form)
		if err != nil {
			h.collectFailed(w, r, c, back, err)
			return
		}
		data["certificate"] = uploadedIDs(uploaded)

		if r.FormValue("ocr") == "1" {
			first := uploads[0]
			ocr, err := c.ProcessOCR(r.Context(), apiclient.Form{Files: []apiclient.File{{
				Field: "file", Name: first.Name, ContentType: first.ContentType, Content: bytes.NewReader(first.Content),
			}}})
			if err != nil {
				// Recognition is a convenience; the achievement is saved anyway.
				logger.Log.Warn("ocr failed", "file", first.Name, "error", err)
			} else if text := gjson.GetBytes(ocr, "text").String(); text != "" && data["description"] == "" {
				data["description"] = text
			}
		}
	}

	if _, err := c.CreateAchievement(r.Context(), data); err != nil {
		h.collectFailed(w, r, c, back, err)
		return
	}
	h.redirectWithFlash(w, r, h.routePath(routes.StudentAchievement), session.FlashSuccess, "Achievement saved.")
}

func (h *Handler) collectFailed(w http.ResponseWriter, r *http.Request, c *call, back string, err error) {
	msg, redirected := h.backendFailed(w, r, c, err)
	if redirected {
		return
	}
	h.redirectWithFlash(w, r, back, session.FlashError, msg)
}

// uploadedIDs reads the ids of an upload response, a bare array of files.
func uploadedIDs(raw json.RawMessage) []int64 {
	var ids []int64
	list := gjson.ParseBytes(raw)
	if !list.IsArray() {
		list = list.Get("data")
	}
	list.ForEach(func(_, f gjson.Result) bool {
		if id := f.Get("id"); id.Exists() {
			ids = append(ids, id.Int())
		}
		return true
	})
	return ids
}
