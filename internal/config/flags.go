package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagRoom      = flag.String("room", "", "Room to open (bedroom, studio, street)")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagData      = flag.String("data", "", "Path to the poster store")
	flagAssets    = flag.String("assets", "", "Directory with default posters and audio")
	flagTemplates = flag.String("templates", "", "Directory with room template overrides")
	flagWatch     = flag.Bool("watch", false, "Reload the room when a template changes")
	flagMute      = flag.Bool("mute", false, "Start with audio muted")
	flagWrite     = flag.Bool("write-config", false, "Write the effective config to the config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteRequested reports whether -write-config was given.
func WriteRequested() bool {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Window.ShowFPS = true
	}
	if *flagRoom != "" {
		cfg.Scene.Room = *flagRoom
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagData != "" {
		cfg.Storage.Path = *flagData
	}
	if *flagAssets != "" {
		cfg.Scene.AssetDir = *flagAssets
	}
	if *flagTemplates != "" {
		cfg.Scene.TemplateDir = *flagTemplates
	}
	if *flagWatch {
		cfg.Scene.WatchTemplates = true
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
}
