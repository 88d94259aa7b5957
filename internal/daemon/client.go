//go:build linux

// ABOUTME: Client library for communicating with the notification daemon.
// ABOUTME: Provides functions to check daemon status, start on-demand, and forward requests.
package daemon

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/777genius/engine-notifications/internal/errorhandler"
	"github.com/777genius/engine-notifications/internal/logging"
)

// Client communicates with the daemon via Unix socket
type Client struct {
	socketPath string
}

// NewClient creates a new daemon client for socketPath (empty = default path)
func NewClient(socketPath string) (*Client, error) {
	if socketPath == "" {
		socketPath = GetSocketPath()
	}

	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: socket does not exist", ErrDaemonNotRunning)
	}

	return &Client{socketPath: socketPath}, nil
}

// Notify asks the daemon to post text for sessionID
func (c *Client) Notify(sessionID, text string) (*NotifyResponse, error) {
	req := Request{
		Type:    MessageTypeNotify,
		Version: ProtocolVersion,
		Notify: &NotifyRequest{
			SessionID: sessionID,
			Text:      text,
		},
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return resp.Notify, nil
}

// Minimize asks the daemon to send the application to the background
func (c *Client) Minimize() error {
	req := Request{
		Type:    MessageTypeMinimize,
		Version: ProtocolVersion,
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("daemon error: %s", resp.Error)
	}
	return nil
}

// Ping checks if the daemon is responding and returns status info
func (c *Client) Ping() (*PingResponse, error) {
	req := Request{
		Type:    MessageTypePing,
		Version: ProtocolVersion,
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return resp.Ping, nil
}

// Stop requests the daemon to shut down
func (c *Client) Stop() error {
	req := Request{
		Type:    MessageTypeStop,
		Version: ProtocolVersion,
	}

	_, err := c.send(req)
	return err
}

// send sends a request to the daemon and returns the response
func (c *Client) send(req Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect: %v", ErrDaemonNotAvailable, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	decoder := json.NewDecoder(conn)
	var resp Response
	if err := decoder.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &resp, nil
}

// IsDaemonRunning checks if the daemon at socketPath is running and responsive
func IsDaemonRunning(socketPath string) bool {
	client, err := NewClient(socketPath)
	if err != nil {
		return false
	}

	_, err = client.Ping()
	return err == nil
}

// StartDaemonOnDemand starts the daemon if it's not already running.
// configPath is forwarded to the daemon when set.
// Returns true if daemon is running (either started now or was already running).
func StartDaemonOnDemand(socketPath, configPath string) bool {
	if IsDaemonRunning(socketPath) {
		return true
	}

	daemonPath, err := findDaemonBinary()
	if err != nil {
		return false
	}

	args := []string{"daemon"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	cmd := exec.Command(daemonPath, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session (detach from terminal)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err == nil {
		cmd.Stdout = devNull
		cmd.Stderr = devNull
		defer devNull.Close()
	}

	if err := cmd.Start(); err != nil {
		return false
	}
	errorhandler.SafeGo(func() {
		if err := cmd.Wait(); err != nil {
			logging.Debug("Daemon process %s exited: %v", daemonPath, err)
		}
	})

	// Wait for daemon to be ready (up to 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if IsDaemonRunning(socketPath) {
			return true
		}
	}

	return false
}

// StopDaemon stops the running daemon
func StopDaemon(socketPath string) error {
	client, err := NewClient(socketPath)
	if err != nil {
		return err
	}
	return client.Stop()
}

// findDaemonBinary locates the daemon binary
func findDaemonBinary() (string, error) {
	if exe, err := os.Executable(); err == nil {
		return exe, nil
	}

	if path, err := exec.LookPath(baseName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("daemon binary not found")
}

// GetDaemonPID returns the PID recorded at pidPath if that process is alive, or 0
func GetDaemonPID(pidPath string) int {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return 0
	}

	// On Unix, FindProcess always succeeds; check if process exists with signal 0
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return 0
	}

	return pid
}
