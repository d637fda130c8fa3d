package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/googly-eyes/pkg/hub"
	"github.com/teslashibe/googly-eyes/pkg/protocol"
)

// handleStatus returns the current tracker status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()

	status.Viewers = s.framesHub.ClientCount()
	return c.JSON(status)
}

// handleGetFaces returns the latest face snapshots
func (s *Server) handleGetFaces(c *fiber.Ctx) error {
	s.facesMu.RLock()
	defer s.facesMu.RUnlock()
	return c.JSON(fiber.Map{
		"count": len(s.faces),
		"faces": s.faces,
	})
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// handleConfig applies a tuning update from a viewer
func (s *Server) handleConfig(c *fiber.Ctx) error {
	var update protocol.ConfigUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if s.OnConfigUpdate == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Config updates not configured",
		})
	}

	if err := s.OnConfigUpdate(update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	s.AddLog("info", "Config updated: "+update.Preset)
	return c.JSON(fiber.Map{"status": "applied"})
}

// handleFramesWS streams annotated frames to a viewer
func (s *Server) handleFramesWS(c *websocket.Conn) {
	client := hub.NewClient(s.framesHub, c)
	client.Run() // Blocks until disconnect
}

// handleFacesWS streams face snapshots to a viewer
func (s *Server) handleFacesWS(c *websocket.Conn) {
	client := hub.NewClient(s.facesHub, c)
	client.Run()
}

// handleLogsWS streams log entries to a viewer, replaying recent history
// on connect
func (s *Server) handleLogsWS(c *websocket.Conn) {
	// Send recent logs before joining the broadcast
	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()

	client := hub.NewClient(s.logHub, c)
	client.Run()
}
