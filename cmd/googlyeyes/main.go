// Googly Eyes - face tracking with spring-loaded cartoon eyes
//
// Captures camera frames, finds faces and their eye landmarks, runs a
// damped-spring iris simulation per eye, and serves the annotated feed on
// a live dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/googly-eyes/internal/config"
	"github.com/teslashibe/googly-eyes/internal/log"
	"github.com/teslashibe/googly-eyes/pkg/camera"
	"github.com/teslashibe/googly-eyes/pkg/debug"
	"github.com/teslashibe/googly-eyes/pkg/detection"
	"github.com/teslashibe/googly-eyes/pkg/ingest"
	"github.com/teslashibe/googly-eyes/pkg/overlay"
	"github.com/teslashibe/googly-eyes/pkg/protocol"
	"github.com/teslashibe/googly-eyes/pkg/tracking"
	"github.com/teslashibe/googly-eyes/pkg/web"
)

func main() {
	preset := flag.String("preset", "default", "Eye tuning preset: default, smooth, jiggly")
	source := flag.String("source", "camera", "Frame source: camera (local webcam) or ws (remote feeders)")
	noBlink := flag.Bool("no-blink", false, "Disable open/closed eye classification")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	debugFaces := flag.Bool("debug-faces", false, "Enable per-frame face detection logging")
	flag.Parse()

	debug.Enabled = *debugFlag
	debug.Faces = *debugFaces
	log.Init(config.LogLevel())

	fmt.Println("👀 Googly Eyes")
	fmt.Println("==============")

	cfg, err := presetConfig(*preset)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	// Fetch detection models on first run
	detCfg := detection.DefaultConfig()
	detCfg.SetModelDir(config.ModelDir())
	if err := detection.EnsureModels(detCfg); err != nil {
		fmt.Printf("❌ Model download failed: %v\n", err)
		os.Exit(1)
	}

	detector, err := detection.NewYuNet(detCfg)
	if err != nil {
		fmt.Printf("❌ Face detector: %v\n", err)
		os.Exit(1)
	}
	defer detector.Close()
	fmt.Println("🧠 Face detector loaded")

	// Frame source: local webcam or remote feeders over websocket
	server := web.NewServer(config.Port())

	var video tracking.VideoSource
	switch *source {
	case "camera":
		cam, err := camera.Open(config.CameraID())
		if err != nil {
			fmt.Printf("❌ Camera: %v\n", err)
			os.Exit(1)
		}
		defer cam.Close()
		video = cam
		fmt.Printf("📷 Webcam %d opened\n", config.CameraID())

	case "ws":
		feedHub := ingest.NewHub(*debugFlag)
		feedHub.RegisterRoutes(server.App())
		feedHub.RegisterAPIRoutes(server.App().Group("/api"))
		video = feedHub
		fmt.Println("📡 Waiting for websocket feeders on /ws/feed")

	default:
		fmt.Printf("❌ Unknown source %q\n", *source)
		os.Exit(1)
	}

	tracker := tracking.New(cfg, video, detector)
	tracker.SetRenderer(overlay.NewRenderer())
	tracker.SetStateUpdater(server)

	if !*noBlink {
		classifier, err := detection.NewCascadeEyeClassifier(detCfg.CascadePath)
		if err != nil {
			fmt.Printf("⚠️  Blink detection disabled: %v\n", err)
		} else {
			defer classifier.Close()
			tracker.SetClassifier(classifier)
			fmt.Println("😉 Blink detection enabled")
		}
	}

	server.UpdateStatus(func(st *web.Status) {
		st.CameraConnected = true
		st.Preset = *preset
	})
	server.OnConfigUpdate = func(update protocol.ConfigUpdate) error {
		return applyConfig(tracker, server, update)
	}
	server.StartAsync()

	// Handle Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\n👋 Goodbye!")
		cancel()
	}()

	tracker.Run(ctx) // Blocks until cancelled

	if err := server.Shutdown(); err != nil {
		log.Warn("web server shutdown", "error", err)
	}
}

// presetConfig maps a preset name to a tracking configuration
func presetConfig(name string) (tracking.Config, error) {
	switch name {
	case "default":
		return tracking.DefaultConfig(), nil
	case "smooth":
		return tracking.SmoothConfig(), nil
	case "jiggly":
		return tracking.JigglyConfig(), nil
	default:
		return tracking.Config{}, fmt.Errorf("unknown preset %q (want default, smooth, or jiggly)", name)
	}
}

// applyConfig applies a dashboard tuning update to the running tracker
func applyConfig(tracker *tracking.Tracker, server *web.Server, update protocol.ConfigUpdate) error {
	if update.Preset != "" {
		cfg, err := presetConfig(update.Preset)
		if err != nil {
			return err
		}
		tracker.GetWorld().SetTuning(cfg.Spring, cfg.Damping)
		server.UpdateStatus(func(st *web.Status) {
			st.Preset = update.Preset
		})
	}

	if update.Spring != nil || update.Damping != nil {
		spring := tracking.DefaultConfig().Spring
		damping := tracking.DefaultConfig().Damping
		if update.Spring != nil {
			spring = *update.Spring
		}
		if update.Damping != nil {
			damping = *update.Damping
		}
		if spring <= 0 || damping <= 0 || damping >= 1 {
			return fmt.Errorf("tuning out of range: spring %.2f, damping %.2f", spring, damping)
		}
		tracker.GetWorld().SetTuning(spring, damping)
	}

	return nil
}
