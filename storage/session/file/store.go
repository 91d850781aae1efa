// Package filesession persists the admin code in a plain file, the desktop
// equivalent of the browser's localStorage key.
package filesession

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/trysabi/sabi-admin/core"
)

type store struct {
	path string
}

var _ core.SessionStore = (*store)(nil)

func NewStore(path string) core.SessionStore {
	return &store{path: path}
}

// DefaultPath puts the session file under the user config dir; falls back
// to the working directory when the platform has none.
func DefaultPath(appName string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := strings.ToLower(strings.ReplaceAll(appName, " ", "-"))
	return filepath.Join(dir, name, "session")
}

func (s *store) Load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *store) Save(code string) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(s.path, []byte(code), 0o600)
}

func (s *store) Clear() {
	_ = os.Remove(s.path)
}
