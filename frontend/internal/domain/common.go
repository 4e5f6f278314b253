package frontend_domain

import (
	"html/template"
	"time"
)

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error      string
	Success    string
	CSRFToken  string // CSRF token for form submissions
	Identifier string // Pre-filled login identifier (from cookie, not URL)
	LoggedIn   bool
	// TokenExpires is read from the unverified token; zero when unknown.
	TokenExpires time.Time
	DevMode      bool
	Nav          []NavItem
	Path         string
}

type NavItem struct {
	Title  string
	Path   string
	Active bool
}

// Record is one backend record prepared for display. Payloads are opaque,
// so Title and Summary are picked from well-known keys and the rest goes
// to Fields.
type Record struct {
	ID      string
	Title   string
	Summary string
	Image   string
	Fields  []Field
	Deleted bool
}

type Field struct {
	Key   string
	Value string
}

// Page is the data of the generic list and detail views.
type Page struct {
	Title   string
	Intro   string
	Records []Record
	Record  *Record
	// Actions render next to each record.
	Actions []Action
	Query   map[string]string
	Paging  *Paging
}

// Action is a per-record control. With a Value it posts the record id and
// Value as "action" to Path; without one it links to Path plus the id.
type Action struct {
	Label  string
	Path   string
	Value  string
	Danger bool
}

type Paging struct {
	Page     int
	PageSize int
	Prev     string
	Next     string
}

// ChatTurn is one exchange on the consult page.
type ChatTurn struct {
	Question string
	Answer   template.HTML
	Failed   bool
}
