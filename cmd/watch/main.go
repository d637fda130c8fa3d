// Watch - live googly-eye console client
//
// Subscribes to a running tracker's face stream and prints eye state as
// it changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/googly-eyes/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8090/ws/faces", "Tracker face stream URL")
	flag.Parse()

	fmt.Println("👀 Googly Eyes Watch")
	fmt.Printf("Connecting to %s...\n", *url)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	ws, _, err := dialer.Dial(*url, nil)
	if err != nil {
		fmt.Printf("❌ Connect failed: %v\n", err)
		os.Exit(1)
	}
	defer ws.Close()
	fmt.Println("✅ Connected (Ctrl+C to stop)\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Goodbye!")
		ws.Close()
		os.Exit(0)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			fmt.Printf("❌ Read error: %v\n", err)
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil || msg.Type != protocol.TypeFaces {
			continue
		}

		faces, err := msg.GetFacesData()
		if err != nil {
			continue
		}

		printFaces(faces)
	}
}

// printFaces renders one line per face update
func printFaces(data *protocol.FacesData) {
	if data.Count == 0 {
		fmt.Println("·  no faces")
		return
	}

	for _, face := range data.Faces {
		left, right := "😑", "😑"
		if face.Left.Open {
			left = "👁️"
		}
		if face.Right.Open {
			right = "👁️"
		}
		fmt.Printf("%s %s %s  iris L(%.0f,%.0f) R(%.0f,%.0f)  conf %.2f\n",
			face.ID[:8], left, right,
			face.Left.Iris.X, face.Left.Iris.Y,
			face.Right.Iris.X, face.Right.Iris.Y,
			face.Confidence)
	}
}
