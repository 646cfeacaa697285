package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"scenegraph-engine/config"
	"scenegraph-engine/core"
	"scenegraph-engine/internal/opengl"
)

const drawsPerSecond = 60

func main() {
	configPath := flag.String("config", "", "YAML configuration file (defaults apply when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	windowConfig := core.DefaultWindowConfig()
	windowConfig.Width = cfg.Window.Width
	windowConfig.Height = cfg.Window.Height
	windowConfig.Title = cfg.Window.Title
	windowConfig.VSync = cfg.Window.VSync

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}

	shaders, err := fs.Sub(embedded, "shaders")
	if err != nil {
		return err
	}
	width, height := window.GetFramebufferSize()
	d, err := buildScene(dev, shaders, cfg, aspectRatio(width, height))
	if err != nil {
		return err
	}
	defer d.root.Release()

	reshape := func(w, h int) {
		if w <= 0 || h <= 0 {
			return
		}
		dev.SetViewport(w, h)
		d.camera.ChangeAspectRatio(aspectRatio(w, h))
	}
	reshape(width, height)
	window.SetResizeCallback(reshape)
	window.SetKeyCallback(func(key int, shift bool) {
		if !d.handleKey(key, shift, os.Stdout) {
			window.Close()
		}
	})

	fmt.Print(usage)
	fmt.Print(d.status())

	ticker := time.NewTicker(time.Second / drawsPerSecond)
	defer ticker.Stop()
	for !window.ShouldClose() {
		window.PollEvents()
		dev.Clear(clearColor)
		d.frame()
		window.SwapBuffers()
		<-ticker.C
	}
	return nil
}

// aspectRatio is w/h, or 1 for a degenerate (minimised) framebuffer.
func aspectRatio(w, h int) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}
