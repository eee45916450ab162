// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Audio   AudioConfig   `yaml:"audio"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the config was read from, empty for defaults only.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	ShowFPS       bool   `yaml:"show_fps"`
	MaxFPS        uint   `yaml:"max_fps"`        // 0 means uncapped
	ScreenshotDir string `yaml:"screenshot_dir"` // F12 and the toolbar button save here
}

// SceneConfig selects the room and where its templates and assets live.
type SceneConfig struct {
	Room           string `yaml:"room"`            // bedroom, studio or street
	TemplateDir    string `yaml:"template_dir"`    // optional on-disk overrides for the embedded templates
	WatchTemplates bool   `yaml:"watch_templates"` // rebuild the room when a template file changes
	AssetDir       string `yaml:"asset_dir"`       // default posters and audio tracks
}

// AudioConfig holds playback settings.
type AudioConfig struct {
	Volume float32 `yaml:"volume"`
	Muted  bool    `yaml:"muted"`
}

// StorageConfig holds the location of the poster store.
type StorageConfig struct {
	Path string `yaml:"path"` // empty means <config dir>/creaoverse.db
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console or json, for the log file
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:         1280,
			Height:        720,
			MaxFPS:        60,
			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			Room:     "bedroom",
			AssetDir: "assets",
		},
		Audio: AudioConfig{
			Volume: 0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// normalize clamps out-of-range values loaded from file or flags.
func (c *Config) normalize() {
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	c.Audio.Volume = min(max(c.Audio.Volume, 0), 1)
	if c.Scene.Room == "" {
		c.Scene.Room = "bedroom"
	}
}
