package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/veena/internal/app"
	"github.com/ayusman/veena/internal/config"
	"github.com/ayusman/veena/internal/layout"
	"github.com/ayusman/veena/internal/server"
	"github.com/ayusman/veena/internal/server/api"
	"github.com/ayusman/veena/internal/store"
	"github.com/ayusman/veena/internal/synth"
	"github.com/ayusman/veena/internal/tray"
)

func main() {
	fmt.Println("Veena - Camera Piano")

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Load configuration and watch it for edits.
	loader := config.NewLoader(config.DefaultPath())
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defer loader.Close()

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	hub := server.NewEventHub()
	application := app.New(app.Config{
		Settings: cfg,
		Synth:    buildSynth(cfg),
		Events:   hub,
	})

	// Engine tuning follows config file edits without a restart.
	loader.OnChange(application.ReloadSettings)
	if err := loader.Watch(); err != nil {
		log.Printf("Config watch unavailable: %v", err)
	}

	// Restore the saved overlay transform, if the user has placed one.
	if tr, err := api.LoadTransform(st); err == nil {
		application.SetTransform(tr)
		log.Println("Restored render transform")
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Failed to load render transform: %v", err)
	}

	// Restore the active layout, or fall back to a generated keyboard.
	if _, l, err := st.Layouts().Active(); err == nil {
		application.ApplyLayout(l)
		log.Println("Restored active layout")
	} else if errors.Is(err, store.ErrNotFound) {
		l := layout.Generate(cfg.Layout.Octaves, cfg.Layout.StartOctave)
		application.ApplyLayout(l)
		log.Printf("No saved layout, generated %d octaves from C%d",
			cfg.Layout.Octaves, cfg.Layout.StartOctave)
	} else {
		log.Fatalf("Failed to load active layout: %v", err)
	}

	// The tray owns the main goroutine; quitting it unwinds everything.
	// Its callbacks are registered before the play loop starts.
	t := tray.New()
	application.SetEnabled(t.IsEnabled())
	application.OnNote(t.SetLastNote)
	t.OnToggle(application.SetEnabled)
	t.OnSettings(func() { openBrowser("http://" + cfg.Server.Addr) })
	t.OnQuit(func() {})

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start play loop: %v", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{
		StaticDir:  findWebDir(),
		Store:      st,
		Camera:     application.Camera(),
		Controller: application,
		Events:     hub,
	})
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t.Run()
}

// buildSynth creates the configured audio backend, falling back to the
// logging sink when the helper is missing.
func buildSynth(cfg *config.Config) synth.Synth {
	if cfg.Synth.Backend == "process" {
		s, err := synth.NewProcessSynth()
		if err == nil {
			return s
		}
		log.Printf("Audio helper not available (%v), using log synth", err)
	}
	return synth.NewLogSynth()
}

// openBrowser opens the given URL with the platform opener.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
