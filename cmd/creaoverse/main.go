// Package main is the entry point for CREAOverse, a set of decorable 3D
// rooms.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/creaoverse/internal/assets"
	"github.com/Faultbox/creaoverse/internal/config"
	"github.com/Faultbox/creaoverse/internal/engine/audio"
	"github.com/Faultbox/creaoverse/internal/engine/renderer"
	"github.com/Faultbox/creaoverse/internal/logger"
	"github.com/Faultbox/creaoverse/internal/room"
	"github.com/Faultbox/creaoverse/internal/storage"
	"github.com/Faultbox/creaoverse/internal/ui"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if config.WriteRequested() {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote", path)
		return
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultRotation(cfg.Logging.LogFile)
	}
	if err := logger.Init(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== CREAOverse ===", zap.String("config", cfg.Source))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("fatal", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("closed normally")
}

func run(cfg *config.Config) error {
	store := openStore(cfg.StorePath())
	defer store.Close()

	library := assets.NewManager()
	defer library.Close()
	if err := library.AddDir(cfg.Scene.AssetDir); err != nil {
		logger.Warn("asset directory unavailable, posters fall back to placeholders", zap.Error(err))
	}
	logger.Debug("assets ready", zap.Int("layers", library.Layers()))

	player := audio.New(float64(cfg.Audio.Volume))
	player.SetMuted(cfg.Audio.Muted)
	defer player.Close()

	backend, err := ui.NewBackend("CREAOverse", cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	backend.SetTargetFPS(cfg.Window.MaxFPS)

	r, err := renderer.New(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer r.Close()

	app := room.NewApp(room.Options{
		Library:  room.NewLibrary(cfg.Scene.TemplateDir),
		Store:    store,
		Assets:   library,
		Audio:    player,
		Spectrum: player.Analyser(),
		Drawer:   r,
	})
	defer app.Close()

	if err := app.Switch(cfg.Scene.Room); err != nil {
		return fmt.Errorf("open room %s: %w", cfg.Scene.Room, err)
	}

	var reloads <-chan string
	if cfg.Scene.WatchTemplates && cfg.Scene.TemplateDir != "" {
		w, err := room.NewWatcher(cfg.Scene.TemplateDir)
		if err != nil {
			logger.Warn("template watch disabled", zap.Error(err))
		} else {
			defer w.Close()
			reloads = w.Events
			go func() {
				for err := range w.Errors {
					logger.Warn("template watcher", zap.Error(err))
				}
			}()
		}
	}

	shell := ui.NewShell(app, r, ui.Options{
		ShowFPS:       cfg.Window.ShowFPS,
		ScreenshotDir: cfg.Window.ScreenshotDir,
	})

	backend.Run(func() {
		select {
		case name := <-reloads:
			if err := app.Reload(name); err != nil {
				logger.Warn("template reload failed", zap.String("room", name), zap.Error(err))
			}
		default:
		}
		shell.Render()
		backend.SetWindowTitle(shell.Title())
	})
	return nil
}

// openStore opens the poster store, falling back to memory so the rooms
// still work when the file cannot be opened.
func openStore(path string) storage.Store {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("creating store dir", zap.Error(err))
	}
	s, err := storage.OpenBolt(path)
	if err != nil {
		logger.Warn("poster store unavailable, uploads will not persist", zap.String("path", path), zap.Error(err))
		return storage.NewMemStore()
	}
	keys, err := s.Keys()
	if err != nil {
		logger.Warn("listing stored posters", zap.Error(err))
	}
	logger.Info("poster store opened", zap.String("path", path), zap.Strings("keys", keys))
	return s
}
