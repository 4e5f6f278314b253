package setup

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/eduportal/portal/frontend/internal/apiclient"
	"github.com/eduportal/portal/frontend/internal/handler"
	"github.com/eduportal/portal/frontend/internal/markdown"
	"github.com/eduportal/portal/frontend/internal/routes"
	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/frontend/templates"
	"github.com/eduportal/portal/shared/config"
	"github.com/eduportal/portal/shared/logger"
)

const (
	baseTemplate           = "base.html"
	partialsTemplate       = "partials.html"
	templateReloadInterval = 5 * time.Second
	// Dev-mode override to read templates from disk instead of the binary.
	templateDirEnv = "TEMPLATE_DIR"
)

type Dependencies struct {
	Handler *handler.Handler
	Routes  *routes.Table
	Guard   *routes.Guard
	Public  config.Public
	// Done is closed by Stop. Background work started by callers, such as
	// limiter sweepers, ends with it.
	Done <-chan struct{}
	// Stop ends background work started here.
	Stop func()
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	key, err := sessionKey(cfg)
	if err != nil {
		return nil, err
	}

	templateFS := fs.FS(templates.FS)
	if dir := os.Getenv(templateDirEnv); dir != "" && cfg.Public.DevMode {
		templateFS = os.DirFS(dir)
	}
	tmpls, err := loadTemplates(templateFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	textProcessor := markdown.New()
	// Browser requests bind their own cookie session; this store only backs
	// calls made outside a request.
	apiClient := apiclient.New(cfg.APIURL(), cfg.ServerURL(), session.NewMemory(""), apiclient.WithTimeout(cfg.Public.Timeout))
	sessions := session.NewCookieStore(key, cfg.Public.SecureCookies)

	h := handler.New(tmpls, cfg, textProcessor, apiClient, sessions)
	table := routes.Portal(h.View)
	h.Routes = table
	if p, ok := table.Path(routes.StudentLogin); ok {
		h.LoginPath = p
	}

	policy := routes.InheritAuth
	if cfg.Public.ExplicitAuth {
		policy = routes.ExplicitAuth
	}
	guard := routes.NewGuard(policy, h.LoginPath)

	stop := make(chan struct{})
	if cfg.Public.DevMode {
		startTemplateReloader(h, templateFS, stop)
	}

	logger.Log.Info("dependencies ready",
		"api_url", cfg.APIURL(),
		"server_url", cfg.ServerURL(),
		"auth_policy", policy.String(),
		"templates", len(tmpls))

	return &Dependencies{
		Handler: h,
		Routes:  table,
		Guard:   guard,
		Public:  cfg.Public,
		Done:    stop,
		Stop:    func() { close(stop) },
	}, nil
}

// sessionKey is required outside dev mode. Dev mode falls back to a random
// key, so sessions do not survive a restart.
func sessionKey(cfg *config.Config) ([]byte, error) {
	if key := cfg.SessionKey(); key != "" {
		if len(key) < 32 {
			return nil, errors.New("SESSION_KEY must be at least 32 characters")
		}
		return []byte(key), nil
	}
	if !cfg.Public.DevMode {
		return nil, errors.New("SESSION_KEY environment variable is required")
	}
	logger.Log.Warn("SESSION_KEY not set, using a random key for this run")
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, errors.New("failed to generate a session key")
	}
	return key, nil
}

func sub(a, b int) int { return a - b }
func add(a, b int) int { return a + b }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

var funcs = template.FuncMap{
	"sub":        sub,
	"add":        add,
	"dict":       dict,
	"hasPrefix":  strings.HasPrefix,
	"formatTime": formatTime,
}

// loadTemplates parses every page together with the base layout and the
// partials, keyed by page file name.
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	tmpls := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if path.Ext(name) != ".html" || name == baseTemplate || name == partialsTemplate {
			continue
		}
		t, err := template.New(baseTemplate).Funcs(funcs).ParseFS(fsys, baseTemplate, name, partialsTemplate)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		tmpls[name] = t
	}
	return tmpls, nil
}

func startTemplateReloader(h *handler.Handler, fsys fs.FS, stop <-chan struct{}) {
	ticker := time.NewTicker(templateReloadInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				tmpls, err := loadTemplates(fsys)
				if err != nil {
					logger.Log.Error("template reload failed", "error", err)
					continue
				}
				h.SetTemplates(tmpls)
			}
		}
	}()
}
