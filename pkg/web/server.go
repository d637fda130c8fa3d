// Package web provides the real-time googly-eyes dashboard
package web

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/googly-eyes/pkg/hub"
	"github.com/teslashibe/googly-eyes/pkg/protocol"
	"github.com/teslashibe/googly-eyes/pkg/tracking"
)

// Status represents the tracker state shown on the dashboard
type Status struct {
	CameraConnected bool   `json:"camera_connected"`
	FaceCount       int    `json:"face_count"`
	FramesProcessed uint64 `json:"frames_processed"`
	Preset          string `json:"preset"`
	Viewers         int    `json:"viewers"`
}

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, face, error
	Message string `json:"message"`
}

// Server is the web dashboard server. It implements tracking.StateUpdater so
// the tracker can push faces, frames, and logs straight to viewers.
type Server struct {
	app  *fiber.App
	port string

	// State
	status   Status
	statusMu sync.RWMutex

	// Latest face snapshots for /api/faces
	faces   []tracking.FaceState
	facesMu sync.RWMutex

	// Log buffer (last 500 entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	frameID atomic.Uint64

	// Hubs for websocket broadcast (thread-safe!)
	framesHub *hub.Hub
	facesHub  *hub.Hub
	logHub    *hub.Hub

	// Config update callback
	OnConfigUpdate func(update protocol.ConfigUpdate) error
}

// NewServer creates a new web dashboard server
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		logs:      make([]LogEntry, 0, 500),
		framesHub: hub.New("frames"),
		facesHub:  hub.New("faces"),
		logHub:    hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Googly Eyes Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/faces", s.handleGetFaces)
	api.Get("/logs", s.handleGetLogs)
	api.Post("/config", s.handleConfig)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/faces", websocket.New(s.handleFacesWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s
}

// App returns the underlying Fiber app so other packages can register
// routes (e.g., the feeder ingest endpoints) before Start.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the web server
func (s *Server) Start() error {
	fmt.Printf("🌐 Dashboard: http://localhost:%s\n", s.port)

	// Start all hubs
	go s.framesHub.Run()
	go s.facesHub.Run()
	go s.logHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			fmt.Printf("⚠️  Web server error: %v\n", err)
		}
	}()
}

// UpdateStatus applies a mutation to the dashboard status
func (s *Server) UpdateStatus(update func(*Status)) {
	s.statusMu.Lock()
	update(&s.status)
	s.statusMu.Unlock()
}

// UpdateFaces stores the latest face snapshots and broadcasts them to
// viewers. Part of tracking.StateUpdater.
func (s *Server) UpdateFaces(faces []tracking.FaceState) {
	s.facesMu.Lock()
	s.faces = faces
	s.facesMu.Unlock()

	s.statusMu.Lock()
	s.status.FaceCount = len(faces)
	s.statusMu.Unlock()

	msg, err := protocol.NewFacesMessage(faces, s.frameID.Load())
	if err != nil {
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	s.facesHub.Broadcast(hub.NewJSONMessage(data))
}

// PublishFrame broadcasts an annotated frame to viewers. Part of
// tracking.StateUpdater.
func (s *Server) PublishFrame(jpeg []byte) {
	s.frameID.Add(1)

	s.statusMu.Lock()
	s.status.FramesProcessed++
	s.statusMu.Unlock()

	s.framesHub.BroadcastBinary(jpeg)
}

// AddLog adds a log entry and broadcasts to viewers. Part of
// tracking.StateUpdater.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
