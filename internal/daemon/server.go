//go:build linux

// ABOUTME: Daemon server that keeps the tray connection alive so notification taps can be handled.
// ABOUTME: Listens on Unix socket for IPC requests and forwards them to the host application.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/777genius/engine-notifications/internal/errorhandler"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/metrics"
)

// Host is what the daemon drives on behalf of its clients
type Host interface {
	PostNotification(sessionID, text string)
	Minimize()
	EngineAttached() bool
}

// Server is the notification daemon server
type Server struct {
	host      Host
	paths     Paths
	listener  net.Listener
	startTime time.Time

	metrics     *metrics.Recorder
	metricsAddr string
	metricsSrv  *http.Server
	metricsLn   net.Listener

	// Idle timeout for auto-shutdown
	idleTimeout  time.Duration
	lastActivity time.Time
	activityMu   sync.Mutex

	// Shutdown handling
	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// ServerConfig contains server configuration options
type ServerConfig struct {
	Paths       Paths
	IdleTimeout time.Duration     // Auto-shutdown after this duration of inactivity (0 = disabled)
	MetricsAddr string            // Serve /metrics here when set
	Metrics     *metrics.Recorder // Required for MetricsAddr
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Paths:       ResolvePaths(""),
		IdleTimeout: 10 * time.Minute,
	}
}

// NewServer creates a new daemon server for host
func NewServer(host Host, cfg ServerConfig) *Server {
	if cfg.Paths.Socket == "" {
		cfg.Paths = ResolvePaths("")
	}
	return &Server{
		host:         host,
		paths:        cfg.Paths,
		startTime:    time.Now(),
		metrics:      cfg.Metrics,
		metricsAddr:  cfg.MetricsAddr,
		idleTimeout:  cfg.IdleTimeout,
		lastActivity: time.Now(),
		done:         make(chan struct{}),
	}
}

// Start opens the socket, writes the PID file and begins serving.
func (s *Server) Start() error {
	socketPath := s.paths.Socket

	// Remove existing socket
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	if err := os.WriteFile(s.paths.Pid, []byte(fmt.Sprintf("%d", os.Getpid())), 0600); err != nil {
		logging.Warn("Failed to write PID file: %v", err)
	}

	if s.metricsAddr != "" && s.metrics != nil {
		if err := s.startMetrics(); err != nil {
			listener.Close()
			return err
		}
	}

	logging.Info("Daemon started, listening on %s", socketPath)

	if s.idleTimeout > 0 {
		s.wg.Add(1)
		go s.idleChecker()
	}

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Run starts the server and blocks until a signal, a stop request or the idle timeout.
func (s *Server) Run() error {
	if err := s.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logging.Info("Received signal %v, shutting down", sig)
	case <-s.done:
		logging.Info("Shutdown requested")
	}

	return s.Shutdown()
}

// Done is closed once shutdown has been requested.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (s *Server) MetricsAddr() string {
	if s.metricsLn == nil {
		return ""
	}
	return s.metricsLn.Addr().String()
}

func (s *Server) startMetrics() error {
	ln, err := net.Listen("tcp", s.metricsAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for metrics on %s: %w", s.metricsAddr, err)
	}
	s.metricsLn = ln

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	s.metricsSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorhandler.SafeGo(func() {
		if err := s.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server stopped: %v", err)
		}
	})
	logging.Info("Serving metrics on http://%s/metrics", ln.Addr())
	return nil
}

// requestStop closes done once.
func (s *Server) requestStop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Server) stopping() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			logging.Error("Accept error: %v", err)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection handles a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.updateActivity()

	if err := conn.SetReadDeadline(time.Now().Add(30 * time.Second)); err != nil {
		logging.Error("Failed to set read deadline: %v", err)
		return
	}

	decoder := json.NewDecoder(conn)
	var req Request
	if err := decoder.Decode(&req); err != nil {
		logging.Error("Failed to decode request: %v", err)
		s.sendError(conn, "invalid request")
		return
	}

	var resp Response
	resp.Type = req.Type

	switch req.Type {
	case MessageTypeNotify:
		if req.Notify == nil {
			s.sendError(conn, "missing notify payload")
			return
		}
		s.host.PostNotification(req.Notify.SessionID, req.Notify.Text)
		resp.Notify = &NotifyResponse{Accepted: true}

	case MessageTypeMinimize:
		s.host.Minimize()

	case MessageTypePing:
		resp.Ping = s.status()

	case MessageTypeStop:
		logging.Info("Stop command received")
		resp.Ping = s.status()
		// Signal shutdown after sending response
		defer s.requestStop()

	default:
		s.sendError(conn, "unknown message type")
		return
	}

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(resp); err != nil {
		logging.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) status() *PingResponse {
	return &PingResponse{
		Version:        ProtocolVersion,
		Uptime:         int64(time.Since(s.startTime).Seconds()),
		EngineAttached: s.host.EngineAttached(),
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.activityMu.Lock()
	s.lastActivity = time.Now()
	s.activityMu.Unlock()
}

// idleChecker monitors for idle timeout
func (s *Server) idleChecker() {
	defer s.wg.Done()

	interval := s.idleTimeout / 4
	if interval > 30*time.Second {
		interval = 30 * time.Second
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.activityMu.Lock()
			idle := time.Since(s.lastActivity)
			s.activityMu.Unlock()

			if idle >= s.idleTimeout {
				logging.Info("Idle timeout reached (%v), shutting down", s.idleTimeout)
				s.requestStop()
				return
			}

		case <-s.done:
			return
		}
	}
}

// Shutdown gracefully shuts down the server. It is safe to call more than once.
func (s *Server) Shutdown() error {
	s.requestStop()
	s.closeOnce.Do(s.close)
	return nil
}

func (s *Server) close() {
	if s.listener != nil {
		s.listener.Close()
	}

	if s.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown: %v", err)
		}
		cancel()
	}

	// Wait for goroutines with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logging.Warn("Shutdown timeout, forcing exit")
	}

	os.Remove(s.paths.Socket)
	os.Remove(s.paths.Pid)

	logging.Info("Daemon stopped")
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, msg string) {
	resp := Response{Error: msg}
	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(resp); err != nil {
		logging.Error("Failed to send error response: %v", err)
	}
}
