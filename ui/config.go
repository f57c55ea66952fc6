package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	GlamourStyle string `env:"GLAMOUR_STYLE"`
	EnableMouse  bool

	// RefreshInterval is how often the status line is refreshed.
	RefreshInterval time.Duration `env:"LECTURECAST_TUI_REFRESH" envDefault:"200ms"`

	// AltScreen runs the TUI in the alternate screen buffer.
	AltScreen bool `env:"LECTURECAST_ALT_SCREEN" envDefault:"true"`
}
