package protocol

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/teslashibe/googly-eyes/pkg/eyes"
	"github.com/teslashibe/googly-eyes/pkg/tracking"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		data    interface{}
		wantErr bool
	}{
		{
			name:    "frame message",
			msgType: TypeFrame,
			data:    FrameData{Width: 640, Height: 480, Format: "jpeg"},
			wantErr: false,
		},
		{
			name:    "faces message",
			msgType: TypeFaces,
			data:    FacesData{Count: 1},
			wantErr: false,
		},
		{
			name:    "nil data",
			msgType: TypePing,
			data:    nil,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.msgType, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if msg == nil && !tt.wantErr {
				t.Error("NewMessage() returned nil message")
				return
			}
			if msg.Type != tt.msgType {
				t.Errorf("NewMessage() type = %v, want %v", msg.Type, tt.msgType)
			}
			if msg.Timestamp == 0 {
				t.Error("NewMessage() timestamp should be set")
			}
		})
	}
}

func TestMessageRoundTrip(t *testing.T) {
	originalFrame := FrameData{
		Width:   1920,
		Height:  1080,
		Format:  "jpeg",
		Data:    base64.StdEncoding.EncodeToString([]byte("test image data")),
		FrameID: 42,
	}

	msg, err := NewMessage(TypeFrame, originalFrame)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}

	bytes, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	parsed, err := ParseMessage(bytes)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}

	if parsed.Type != TypeFrame {
		t.Errorf("Type = %v, want %v", parsed.Type, TypeFrame)
	}

	frameData, err := parsed.GetFrameData()
	if err != nil {
		t.Fatalf("GetFrameData() error = %v", err)
	}

	if frameData.Width != originalFrame.Width {
		t.Errorf("Width = %v, want %v", frameData.Width, originalFrame.Width)
	}
	if frameData.Height != originalFrame.Height {
		t.Errorf("Height = %v, want %v", frameData.Height, originalFrame.Height)
	}
	if frameData.FrameID != originalFrame.FrameID {
		t.Errorf("FrameID = %v, want %v", frameData.FrameID, originalFrame.FrameID)
	}
}

func TestFrameMessage(t *testing.T) {
	jpegData := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10} // Fake JPEG header

	msg, err := NewFrameMessage(640, 480, jpegData, 1)
	if err != nil {
		t.Fatalf("NewFrameMessage() error = %v", err)
	}

	if msg.Type != TypeFrame {
		t.Errorf("Type = %v, want %v", msg.Type, TypeFrame)
	}

	frameData, err := msg.GetFrameData()
	if err != nil {
		t.Fatalf("GetFrameData() error = %v", err)
	}

	if frameData.Width != 640 {
		t.Errorf("Width = %v, want 640", frameData.Width)
	}
	if frameData.Format != "jpeg" {
		t.Errorf("Format = %v, want jpeg", frameData.Format)
	}

	decoded, err := frameData.DecodeFrameData()
	if err != nil {
		t.Fatalf("DecodeFrameData() error = %v", err)
	}

	if len(decoded) != len(jpegData) {
		t.Errorf("Decoded length = %v, want %v", len(decoded), len(jpegData))
	}
}

func TestFacesMessage(t *testing.T) {
	faces := []tracking.FaceState{
		{
			ID:         "face-1",
			Confidence: 0.95,
			HasEyes:    true,
			Left: tracking.EyeView{
				Anchor:     eyes.Point{X: 100, Y: 120},
				Iris:       eyes.Point{X: 104, Y: 118},
				EyeRadius:  40,
				IrisRadius: 20,
				Open:       true,
				OpenScore:  0.9,
			},
		},
	}

	msg, err := NewFacesMessage(faces, 7)
	if err != nil {
		t.Fatalf("NewFacesMessage() error = %v", err)
	}

	if msg.Type != TypeFaces {
		t.Errorf("Type = %v, want %v", msg.Type, TypeFaces)
	}

	facesData, err := msg.GetFacesData()
	if err != nil {
		t.Fatalf("GetFacesData() error = %v", err)
	}

	if facesData.Count != 1 {
		t.Errorf("Count = %v, want 1", facesData.Count)
	}
	if facesData.FrameID != 7 {
		t.Errorf("FrameID = %v, want 7", facesData.FrameID)
	}
	if len(facesData.Faces) != 1 {
		t.Fatalf("len(Faces) = %v, want 1", len(facesData.Faces))
	}

	got := facesData.Faces[0]
	if got.ID != "face-1" {
		t.Errorf("ID = %v, want face-1", got.ID)
	}
	if got.Left.Iris.X != 104 {
		t.Errorf("Left.Iris.X = %v, want 104", got.Left.Iris.X)
	}
	if !got.Left.Open {
		t.Error("Left.Open should be true")
	}
}

func TestLogMessage(t *testing.T) {
	msg, err := NewLogMessage("face", "Lost all faces")
	if err != nil {
		t.Fatalf("NewLogMessage() error = %v", err)
	}

	if msg.Type != TypeLog {
		t.Errorf("Type = %v, want %v", msg.Type, TypeLog)
	}

	logData, err := msg.GetLogData()
	if err != nil {
		t.Fatalf("GetLogData() error = %v", err)
	}

	if logData.LogType != "face" {
		t.Errorf("LogType = %v, want face", logData.LogType)
	}
	if logData.Message != "Lost all faces" {
		t.Errorf("Message = %v, want Lost all faces", logData.Message)
	}
}

func TestConfigMessage(t *testing.T) {
	spring := 0.3
	msg, err := NewConfigMessage(ConfigUpdate{Preset: "jiggly", Spring: &spring})
	if err != nil {
		t.Fatalf("NewConfigMessage() error = %v", err)
	}

	if msg.Type != TypeConfig {
		t.Errorf("Type = %v, want %v", msg.Type, TypeConfig)
	}

	update, err := msg.GetConfigUpdate()
	if err != nil {
		t.Fatalf("GetConfigUpdate() error = %v", err)
	}

	if update.Preset != "jiggly" {
		t.Errorf("Preset = %v, want jiggly", update.Preset)
	}
	if update.Spring == nil || *update.Spring != 0.3 {
		t.Errorf("Spring = %v, want 0.3", update.Spring)
	}
	if update.Damping != nil {
		t.Error("Damping should be nil when not set")
	}
}

func TestPingPongMessage(t *testing.T) {
	pingMsg, err := NewPingMessage("test-123")
	if err != nil {
		t.Fatalf("NewPingMessage() error = %v", err)
	}

	if pingMsg.Type != TypePing {
		t.Errorf("Type = %v, want %v", pingMsg.Type, TypePing)
	}

	pingData, err := pingMsg.GetPingData()
	if err != nil {
		t.Fatalf("GetPingData() error = %v", err)
	}

	if pingData.ID != "test-123" {
		t.Errorf("ID = %v, want test-123", pingData.ID)
	}

	now := time.Now().UnixMilli()
	pongMsg, err := NewPongMessage("test-123", pingMsg.Timestamp, now)
	if err != nil {
		t.Fatalf("NewPongMessage() error = %v", err)
	}

	if pongMsg.Type != TypePong {
		t.Errorf("Type = %v, want %v", pongMsg.Type, TypePong)
	}

	pongData, err := pongMsg.GetPongData()
	if err != nil {
		t.Fatalf("GetPongData() error = %v", err)
	}

	if pongData.ID != "test-123" {
		t.Errorf("ID = %v, want test-123", pongData.ID)
	}
	if pongData.LatencyMs < 0 {
		t.Errorf("LatencyMs = %v, should be >= 0", pongData.LatencyMs)
	}
}

func TestParseInvalidMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "invalid json",
			input:   "not json",
			wantErr: true,
		},
		{
			name:    "empty json",
			input:   "{}",
			wantErr: false, // Empty is valid, just no type
		},
		{
			name:    "valid message",
			input:   `{"type":"ping","ts":1234567890}`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessageJSON(t *testing.T) {
	// Verify JSON structure matches the wire format viewers expect
	msg, _ := NewFacesMessage([]tracking.FaceState{{ID: "face-1"}}, 1)

	bytes, _ := msg.Bytes()

	var parsed map[string]interface{}
	if err := json.Unmarshal(bytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal as map: %v", err)
	}

	if parsed["type"] != "faces" {
		t.Errorf("type = %v, want faces", parsed["type"])
	}

	if _, ok := parsed["ts"]; !ok {
		t.Error("ts field should be present")
	}

	if _, ok := parsed["data"]; !ok {
		t.Error("data field should be present")
	}
}

func BenchmarkNewFrameMessage(b *testing.B) {
	jpegData := make([]byte, 100*1024) // 100KB fake JPEG

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewFrameMessage(1920, 1080, jpegData, uint64(i))
	}
}

func BenchmarkParseMessage(b *testing.B) {
	msg, _ := NewFrameMessage(1920, 1080, make([]byte, 100*1024), 1)
	bytes, _ := msg.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseMessage(bytes)
	}
}
