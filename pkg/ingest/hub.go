// Package ingest accepts WebSocket connections from remote camera feeders
// and makes their frames available to the tracker.
package ingest

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/teslashibe/googly-eyes/pkg/protocol"
)

// FeederConnection represents a connected camera feeder
type FeederConnection struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send sends a message to the feeder
func (f *FeederConnection) Send(msg *protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	return f.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections from camera feeders. It keeps the most
// recent frame per feeder and serves the active feeder's latest frame
// through CaptureJPEG, so it can stand in for a local webcam.
type Hub struct {
	mu      sync.RWMutex
	feeders map[string]*FeederConnection
	debug   bool

	// Latest decoded frame per feeder
	frames   map[string][]byte
	activeID string // Feeder whose frames the tracker consumes

	// Callbacks
	onFrame func(feederID string, frame *protocol.FrameData)

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	framesReceived   atomic.Uint64
}

// NewHub creates a new feeder hub
func NewHub(debug bool) *Hub {
	return &Hub{
		feeders: make(map[string]*FeederConnection),
		frames:  make(map[string][]byte),
		debug:   debug,
	}
}

// OnFrame sets the callback for incoming video frames
func (h *Hub) OnFrame(callback func(feederID string, frame *protocol.FrameData)) {
	h.mu.Lock()
	h.onFrame = callback
	h.mu.Unlock()
}

// CaptureJPEG returns the active feeder's most recent frame. It implements
// tracking.VideoSource.
func (h *Hub) CaptureJPEG() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.activeID == "" {
		return nil, fmt.Errorf("no feeder connected")
	}
	frame, ok := h.frames[h.activeID]
	if !ok || len(frame) == 0 {
		return nil, fmt.Errorf("feeder %s has not sent a frame yet", h.activeID)
	}
	return frame, nil
}

// RegisterRoutes registers WebSocket routes on a Fiber app
func (h *Hub) RegisterRoutes(app *fiber.App) {
	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Feeder connection endpoint
	app.Get("/ws/feed", websocket.New(h.handleFeeder))
	app.Get("/ws/feed/:id", websocket.New(h.handleFeeder))
}

// handleFeeder handles a camera feeder WebSocket connection
func (h *Hub) handleFeeder(c *websocket.Conn) {
	// Get feeder ID from path or generate one
	feederID := c.Params("id")
	if feederID == "" {
		feederID = uuid.NewString()
	}

	feeder := &FeederConnection{
		ID:        feederID,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	// Register feeder; the first one in becomes the active source
	h.mu.Lock()
	h.feeders[feederID] = feeder
	if h.activeID == "" {
		h.activeID = feederID
	}
	feederCount := len(h.feeders)
	h.mu.Unlock()

	if h.debug {
		log.Printf("📷 Feeder connected: %s (total: %d)", feederID, feederCount)
	}

	defer func() {
		h.mu.Lock()
		delete(h.feeders, feederID)
		delete(h.frames, feederID)
		if h.activeID == feederID {
			h.activeID = ""
			// Fail over to any remaining feeder
			for id := range h.feeders {
				h.activeID = id
				break
			}
		}
		feederCount := len(h.feeders)
		h.mu.Unlock()

		if h.debug {
			log.Printf("📷 Feeder disconnected: %s (total: %d)", feederID, feederCount)
		}
	}()

	// Read loop
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if h.debug {
				log.Printf("⚠️  Feeder %s read error: %v", feederID, err)
			}
			return
		}

		feeder.mu.Lock()
		feeder.LastSeen = time.Now()
		feeder.mu.Unlock()

		h.messagesReceived.Add(1)
		h.handleMessage(feederID, data)
	}
}

// handleMessage processes an incoming message from a feeder
func (h *Hub) handleMessage(feederID string, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		if h.debug {
			log.Printf("⚠️  Parse error from %s: %v", feederID, err)
		}
		return
	}

	h.mu.RLock()
	frameCb := h.onFrame
	h.mu.RUnlock()

	switch msg.Type {
	case protocol.TypeFrame:
		frame, err := msg.GetFrameData()
		if err != nil {
			return
		}
		jpeg, err := frame.DecodeFrameData()
		if err != nil {
			if h.debug {
				log.Printf("⚠️  Bad frame data from %s: %v", feederID, err)
			}
			return
		}

		h.framesReceived.Add(1)
		h.mu.Lock()
		h.frames[feederID] = jpeg
		h.mu.Unlock()

		if frameCb != nil {
			frameCb(feederID, frame)
		}

	case protocol.TypePing:
		// Respond with pong
		h.SendPong(feederID, msg.Timestamp)
	}
}

// SendPong sends a pong response to a feeder
func (h *Hub) SendPong(feederID string, pingTS int64) error {
	msg, err := protocol.NewPongMessage("", pingTS, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	return h.sendToFeeder(feederID, msg)
}

// sendToFeeder sends a message to a specific feeder
func (h *Hub) sendToFeeder(feederID string, msg *protocol.Message) error {
	h.mu.RLock()
	feeder, ok := h.feeders[feederID]
	h.mu.RUnlock()

	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "feeder not connected")
	}

	h.messagesSent.Add(1)
	return feeder.Send(msg)
}

// SetActive selects which feeder's frames the tracker consumes
func (h *Hub) SetActive(feederID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.feeders[feederID]; !ok {
		return fmt.Errorf("feeder %s not connected", feederID)
	}
	h.activeID = feederID
	return nil
}

// FeederCount returns the number of connected feeders
func (h *Hub) FeederCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feeders)
}

// Stats contains hub statistics
type Stats struct {
	FeederCount      int    `json:"feeder_count"`
	ActiveFeeder     string `json:"active_feeder"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	FramesReceived   uint64 `json:"frames_received"`
}

// GetStats returns hub statistics
func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	active := h.activeID
	h.mu.RUnlock()

	return Stats{
		FeederCount:      h.FeederCount(),
		ActiveFeeder:     active,
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		FramesReceived:   h.framesReceived.Load(),
	}
}

// FeederInfo contains info about a connected feeder
type FeederInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	Active    bool      `json:"active"`
}

// GetFeederInfos returns info about all connected feeders
func (h *Hub) GetFeederInfos() []FeederInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]FeederInfo, 0, len(h.feeders))
	for _, f := range h.feeders {
		f.mu.Lock()
		infos = append(infos, FeederInfo{
			ID:        f.ID,
			Connected: f.Connected,
			LastSeen:  f.LastSeen,
			Active:    f.ID == h.activeID,
		})
		f.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers API routes for feeder management
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	feeders := api.Group("/feeders")

	// List connected feeders
	feeders.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"feeders": h.GetFeederInfos(),
			"count":   h.FeederCount(),
		})
	})

	// Get hub stats
	feeders.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})

	// Select the active feeder
	feeders.Post("/:id/activate", func(c *fiber.Ctx) error {
		if err := h.SetActive(c.Params("id")); err != nil {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "active"})
	})
}
