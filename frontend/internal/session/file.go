package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/eduportal/portal/shared/logger"
)

// File persists the token as {"token": "..."} so it survives between
// invocations of the debug CLI.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultFilePath is <user config dir>/eduportal/token.json, or a file in the
// working directory when no config dir is known.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".eduportal-token.json"
	}
	return filepath.Join(dir, "eduportal", "token.json")
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Log.Error("reading token file", "path", f.path, "error", err)
		}
		return ""
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Log.Error("decoding token file", "path", f.path, "error", err)
		return ""
	}
	return stored[TokenKey]
}

func (f *File) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		logger.Log.Error("creating token dir", "path", f.path, "error", err)
		return
	}
	data, _ := json.Marshal(map[string]string{TokenKey: token})
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		logger.Log.Error("writing token file", "path", f.path, "error", err)
	}
}

func (f *File) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.Error("removing token file", "path", f.path, "error", err)
	}
}
