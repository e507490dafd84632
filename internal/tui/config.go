package tui

import (
	"github.com/Veraticus/builder-tracking/internal/tui/themes"
)

// Config holds dashboard configuration.
type Config struct {
	Theme  themes.Theme
	Title  string
	Width  int
	Height int
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Title:  "Builder attendance",
		Width:  100,
		Height: 24,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(c *Config) { c.Title = title }
}

// WithSize sets the initial size used before the terminal reports its own.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
