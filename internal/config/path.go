// Package config loads tracker settings from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "~/.local/share/tracker/tracker.db"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the expanded database.path setting of v, falling back
// to DefaultDatabasePath. ":memory:" is returned unchanged.
func DatabasePath(v *viper.Viper) string {
	p := strings.TrimSpace(v.GetString("database.path"))
	if p == "" {
		p = DefaultDatabasePath
	}
	if p == ":memory:" {
		return p
	}
	return ExpandPath(p)
}
