package handler

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	frontend_domain "github.com/eduportal/portal/frontend/internal/domain"
)

const maxFieldLen = 160

var (
	titleKeys   = []string{"title", "name", "course_name", "username", "company_name", "realname"}
	summaryKeys = []string{"description", "summary", "introduction", "content", "bio", "remark"}
	imageKeys   = []string{"avatar.url", "avatar.data.attributes.url", "cover.url", "cover.data.attributes.url", "image.url", "image_url", "avatar_url"}
	hiddenKeys  = map[string]bool{"id": true, "documentId": true, "createdAt": true, "updatedAt": true, "publishedAt": true, "password": true}
)

// toRecords turns a list payload into display records. Both the flat shape
// and the {id, attributes} shape are accepted, inside a data envelope or not.
func (h *Handler) toRecords(raw json.RawMessage) []frontend_domain.Record {
	list := envelope(gjson.ParseBytes(raw))
	if !list.IsArray() {
		if list.IsObject() {
			return []frontend_domain.Record{h.toRecord(list)}
		}
		return nil
	}
	var records []frontend_domain.Record
	list.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			records = append(records, h.toRecord(item))
		}
		return true
	})
	return records
}

// toSingleRecord is toRecords for detail payloads.
func (h *Handler) toSingleRecord(raw json.RawMessage) *frontend_domain.Record {
	item := envelope(gjson.ParseBytes(raw))
	if item.IsArray() {
		item = item.Get("0")
	}
	if !item.IsObject() {
		return nil
	}
	rec := h.toRecord(item)
	return &rec
}

func envelope(res gjson.Result) gjson.Result {
	if data := res.Get("data"); data.Exists() && (data.IsArray() || data.IsObject()) {
		return data
	}
	return res
}

func (h *Handler) toRecord(item gjson.Result) frontend_domain.Record {
	attrs := item
	if a := item.Get("attributes"); a.IsObject() {
		attrs = a
	}

	rec := frontend_domain.Record{
		ID:      firstString(item, "documentId", "id"),
		Title:   firstString(attrs, titleKeys...),
		Summary: firstString(attrs, summaryKeys...),
		Deleted: attrs.Get("is_deleted").Bool(),
	}
	if img := firstString(attrs, imageKeys...); img != "" && h.mediaURL != nil {
		rec.Image = h.mediaURL(img)
	}
	if rec.Title == "" {
		rec.Title = "#" + rec.ID
	}

	skip := map[string]bool{}
	for _, k := range append(append([]string{}, titleKeys...), summaryKeys...) {
		skip[k] = true
	}
	attrs.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if hiddenKeys[k] || skip[k] || value.IsObject() || value.IsArray() || value.Type == gjson.Null {
			return true
		}
		rec.Fields = append(rec.Fields, frontend_domain.Field{Key: k, Value: truncate(value.String(), maxFieldLen)})
		return true
	})
	sort.Slice(rec.Fields, func(i, j int) bool { return rec.Fields[i].Key < rec.Fields[j].Key })
	return rec
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := res.Get(p); v.Exists() && v.Type != gjson.Null {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// visible drops soft-deleted records.
func visible(records []frontend_domain.Record) []frontend_domain.Record {
	out := records[:0:0]
	for _, rec := range records {
		if !rec.Deleted {
			out = append(out, rec)
		}
	}
	return out
}

func deleted(records []frontend_domain.Record) []frontend_domain.Record {
	out := records[:0:0]
	for _, rec := range records {
		if rec.Deleted {
			out = append(out, rec)
		}
	}
	return out
}
