// Package protocol defines the WebSocket message types spoken between
// camera feeders, the googly-eye tracker, and dashboard viewers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/googly-eyes/pkg/tracking"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Feeder → Tracker messages
	TypeFrame MessageType = "frame" // Video frame

	// Tracker → Viewer messages
	TypeFaces MessageType = "faces" // Tracked face snapshots
	TypeLog   MessageType = "log"   // Event log line

	// Viewer → Tracker messages
	TypeConfig MessageType = "config" // Tuning update

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// FrameData contains a video frame
type FrameData struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"` // "jpeg"
	Data    string `json:"data"`   // base64 encoded
	FrameID uint64 `json:"frame_id,omitempty"`
}

// FacesData contains the tracked face snapshots for one frame
type FacesData struct {
	Count   int                  `json:"count"`
	FrameID uint64               `json:"frame_id,omitempty"`
	Faces   []tracking.FaceState `json:"faces"`
}

// LogData contains one event log line
type LogData struct {
	LogType string `json:"log_type"` // "face", "system", "error"
	Message string `json:"message"`
}

// ConfigUpdate contains tuning changes from a viewer
type ConfigUpdate struct {
	Preset  string   `json:"preset,omitempty"` // "default", "smooth", "jiggly"
	Spring  *float64 `json:"spring,omitempty"`
	Damping *float64 `json:"damping,omitempty"`
}

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
