// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Faces controls whether verbose per-frame face/eye logs are shown.
// Use --debug-faces flag to enable these very verbose logs
var Faces bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// Logln prints a message with newline only if debug mode is enabled
func Logln(msg string) {
	if Enabled {
		fmt.Println(msg)
	}
}

// FaceLog prints a message only if face debug mode is enabled
func FaceLog(format string, args ...interface{}) {
	if Faces {
		fmt.Printf(format, args...)
	}
}

// FaceLogln prints a message with newline only if face debug mode is enabled
func FaceLogln(msg string) {
	if Faces {
		fmt.Println(msg)
	}
}
