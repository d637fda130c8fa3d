// Feed - remote camera feeder
//
// Captures frames from a local webcam and pushes them to a tracker
// running with --source=ws.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/googly-eyes/internal/config"
	"github.com/teslashibe/googly-eyes/pkg/camera"
	"github.com/teslashibe/googly-eyes/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8090/ws/feed", "Tracker feed endpoint")
	interval := flag.Duration("interval", 66*time.Millisecond, "Frame push interval")
	flag.Parse()

	fmt.Println("📡 Googly Eyes Feeder")

	cam, err := camera.Open(config.CameraID())
	if err != nil {
		fmt.Printf("❌ Camera: %v\n", err)
		os.Exit(1)
	}
	defer cam.Close()
	fmt.Printf("📷 Webcam %d opened\n", config.CameraID())

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	ws, _, err := dialer.Dial(*url, nil)
	if err != nil {
		fmt.Printf("❌ Connect failed: %v\n", err)
		os.Exit(1)
	}
	defer ws.Close()
	fmt.Printf("✅ Feeding %s every %v (Ctrl+C to stop)\n", *url, *interval)

	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Goodbye!")
		close(done)
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	var frameID uint64
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame, err := cam.CaptureJPEG()
			if err != nil {
				fmt.Printf("⚠️  Capture: %v\n", err)
				continue
			}

			w, h := 0, 0
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(frame)); err == nil {
				w, h = cfg.Width, cfg.Height
			}

			frameID++
			msg, err := protocol.NewFrameMessage(w, h, frame, frameID)
			if err != nil {
				continue
			}
			data, err := msg.Bytes()
			if err != nil {
				continue
			}

			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				fmt.Printf("❌ Write error: %v\n", err)
				return
			}
		}
	}
}
