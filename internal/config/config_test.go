package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.MaxFPS != 60 {
		t.Errorf("expected max fps 60, got %d", cfg.Window.MaxFPS)
	}
	if cfg.Window.ScreenshotDir != "screenshots" {
		t.Errorf("expected screenshot dir 'screenshots', got %s", cfg.Window.ScreenshotDir)
	}
	if cfg.Scene.Room != "bedroom" {
		t.Errorf("expected room 'bedroom', got %s", cfg.Scene.Room)
	}
	if cfg.Scene.AssetDir != "assets" {
		t.Errorf("expected asset dir 'assets', got %s", cfg.Scene.AssetDir)
	}
	if cfg.Audio.Volume != 0.8 {
		t.Errorf("expected volume 0.8, got %f", cfg.Audio.Volume)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  max_fps: 0
  screenshot_dir: /tmp/shots

scene:
  room: studio
  template_dir: ./rooms
  watch_templates: true
  asset_dir: /srv/assets

audio:
  volume: 0.5
  muted: true

storage:
  path: /tmp/posters.db

logging:
  level: debug
  log_file: creaoverse.log
  format: json
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.MaxFPS != 0 || cfg.Window.ScreenshotDir != "/tmp/shots" {
		t.Errorf("unexpected window config %+v", cfg.Window)
	}
	if cfg.Scene.Room != "studio" {
		t.Errorf("expected room 'studio', got %s", cfg.Scene.Room)
	}
	if cfg.Scene.TemplateDir != "./rooms" || !cfg.Scene.WatchTemplates {
		t.Errorf("unexpected scene config %+v", cfg.Scene)
	}
	if cfg.Scene.AssetDir != "/srv/assets" {
		t.Errorf("expected asset dir /srv/assets, got %s", cfg.Scene.AssetDir)
	}
	if cfg.Audio.Volume != 0.5 || !cfg.Audio.Muted {
		t.Errorf("unexpected audio config %+v", cfg.Audio)
	}
	if cfg.StorePath() != "/tmp/posters.db" {
		t.Errorf("expected store path /tmp/posters.db, got %s", cfg.StorePath())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "creaoverse.log" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(*testing.T, *Config)
	}{
		{
			name:   "volume above range",
			mutate: func(c *Config) { c.Audio.Volume = 3 },
			check: func(t *testing.T, c *Config) {
				if c.Audio.Volume != 1 {
					t.Errorf("expected volume clamped to 1, got %f", c.Audio.Volume)
				}
			},
		},
		{
			name:   "negative volume",
			mutate: func(c *Config) { c.Audio.Volume = -0.5 },
			check: func(t *testing.T, c *Config) {
				if c.Audio.Volume != 0 {
					t.Errorf("expected volume clamped to 0, got %f", c.Audio.Volume)
				}
			},
		},
		{
			name:   "zero window size",
			mutate: func(c *Config) { c.Window.Width, c.Window.Height = 0, -1 },
			check: func(t *testing.T, c *Config) {
				if c.Window.Width != 1280 || c.Window.Height != 720 {
					t.Errorf("expected default size, got %dx%d", c.Window.Width, c.Window.Height)
				}
			},
		},
		{
			name:   "empty room",
			mutate: func(c *Config) { c.Scene.Room = "" },
			check: func(t *testing.T, c *Config) {
				if c.Scene.Room != "bedroom" {
					t.Errorf("expected bedroom, got %q", c.Scene.Room)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			cfg.normalize()
			tt.check(t, cfg)
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestStorePathDefault(t *testing.T) {
	cfg := Default()
	want := filepath.Join(ConfigDir(), "creaoverse.db")
	if got := cfg.StorePath(); got != want {
		t.Errorf("StorePath() = %s, want %s", got, want)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != "config.yaml" {
		t.Errorf("expected config.yaml in current directory, got %q", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "creaoverse.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if path := findConfigFile(); path != "creaoverse.yaml" {
		t.Errorf("expected creaoverse.yaml to take precedence, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Window.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "room flag",
			setup: func() { *flagRoom = "street" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Room != "street" {
					t.Errorf("expected room street, got %s", cfg.Scene.Room)
				}
			},
			teardown: func() { *flagRoom = "" },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "data, assets, templates and watch flags",
			setup: func() {
				*flagData = "/tmp/x.db"
				*flagAssets = "/tmp/assets"
				*flagTemplates = "/tmp/rooms"
				*flagWatch = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Storage.Path != "/tmp/x.db" {
					t.Errorf("expected storage path /tmp/x.db, got %s", cfg.Storage.Path)
				}
				if cfg.Scene.AssetDir != "/tmp/assets" {
					t.Errorf("expected asset dir /tmp/assets, got %s", cfg.Scene.AssetDir)
				}
				if cfg.Scene.TemplateDir != "/tmp/rooms" || !cfg.Scene.WatchTemplates {
					t.Errorf("unexpected scene config %+v", cfg.Scene)
				}
			},
			teardown: func() {
				*flagData = ""
				*flagAssets = ""
				*flagTemplates = ""
				*flagWatch = false
			},
		},
		{
			name:  "mute flag",
			setup: func() { *flagMute = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Audio.Muted {
					t.Error("expected audio muted with mute flag")
				}
			},
			teardown: func() { *flagMute = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
scene:
  room: studio
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
	if cfg.Scene.Room != "studio" {
		t.Errorf("expected room studio from file, got %s", cfg.Scene.Room)
	}
	if cfg.Source != configPath {
		t.Errorf("expected source %s, got %s", configPath, cfg.Source)
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	envFile := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(envFile, []byte("scene:\n  room: street\n"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.yaml")

	tests := []struct {
		name    string
		flag    string
		env     string
		room    string
		source  string
		wantErr bool
	}{
		{name: "environment", env: envFile, room: "street", source: envFile},
		{name: "flag wins over environment", flag: envFile, env: missing, room: "street", source: envFile},
		{name: "missing environment file", env: missing, room: "bedroom"},
		{name: "missing flag file", flag: missing, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*flagConfig = tt.flag
			defer func() { *flagConfig = "" }()
			t.Setenv(EnvConfig, tt.env)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Scene.Room != tt.room || cfg.Source != tt.source {
				t.Errorf("expected room %q from %q, got %q from %q", tt.room, tt.source, cfg.Scene.Room, cfg.Source)
			}
		})
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty file", "", false},
		{"comment only", "# nothing here\n", false},
		{"unknown section", "windw:\n  width: 800\n", true},
		{"unknown key", "audio:\n  volum: 0.3\n", true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("c%d.yaml", i))
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg := Default()
			err := loadFromFile(cfg, path)
			if tt.wantErr != (err != nil) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && cfg.Audio.Volume != 0.8 {
				t.Errorf("expected defaults kept, got volume %f", cfg.Audio.Volume)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Room = "street"
	cfg.Audio.Volume = 0.25
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Scene.Room != "street" || loaded.Audio.Volume != 0.25 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
