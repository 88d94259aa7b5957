//go:build linux

// ABOUTME: IPC protocol types for communication between daemon client and server.
// ABOUTME: Uses JSON-over-Unix-socket for simple, reliable inter-process communication.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Common errors
var (
	ErrDaemonNotAvailable = errors.New("daemon not available")
	ErrDaemonNotRunning   = errors.New("daemon not running")
)

// Protocol version for compatibility checking
const ProtocolVersion = "1.0"

// MessageType identifies the type of IPC message
type MessageType string

const (
	MessageTypeNotify   MessageType = "notify"
	MessageTypeMinimize MessageType = "minimize"
	MessageTypePing     MessageType = "ping"
	MessageTypeStop     MessageType = "stop"
)

// Request is the wrapper for all IPC requests
type Request struct {
	Type    MessageType    `json:"type"`
	Notify  *NotifyRequest `json:"notify,omitempty"`
	Version string         `json:"version"`
}

// Response is the wrapper for all IPC responses
type Response struct {
	Type   MessageType     `json:"type"`
	Notify *NotifyResponse `json:"notify,omitempty"`
	Ping   *PingResponse   `json:"ping,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// NotifyRequest asks the daemon to post the application's notification
type NotifyRequest struct {
	SessionID string `json:"session_id"` // Carried unchanged to the relaunched window
	Text      string `json:"text"`
}

// NotifyResponse acknowledges a notification request. Posting is fire-and-forget,
// so Accepted only means the daemon handed it to the tray.
type NotifyResponse struct {
	Accepted bool `json:"accepted"`
}

// PingResponse contains daemon status information
type PingResponse struct {
	Version        string `json:"version"`
	Uptime         int64  `json:"uptime"` // Seconds since daemon started
	EngineAttached bool   `json:"engine_attached"`
}

const baseName = "engine-notifications"

// GetSocketPath returns the Unix socket path for the daemon.
// Uses XDG_RUNTIME_DIR if available, falls back to /tmp with UID suffix.
func GetSocketPath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, baseName+".sock")
	}
	return fmt.Sprintf("/tmp/%s-%d.sock", baseName, os.Getuid())
}

// GetPidFilePath returns the path to the daemon's PID file.
func GetPidFilePath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, baseName+".pid")
	}
	return fmt.Sprintf("/tmp/%s-%d.pid", baseName, os.Getuid())
}

// Paths locates the daemon's socket and PID file.
type Paths struct {
	Socket string
	Pid    string
}

// ResolvePaths returns the default paths, or paths next to socketOverride
// when it is set (the PID file swaps the .sock suffix for .pid).
func ResolvePaths(socketOverride string) Paths {
	if socketOverride == "" {
		return Paths{Socket: GetSocketPath(), Pid: GetPidFilePath()}
	}
	return Paths{
		Socket: socketOverride,
		Pid:    strings.TrimSuffix(socketOverride, ".sock") + ".pid",
	}
}
