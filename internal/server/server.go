// Package server implements the TCP front end for EmberDB using the
// RESP protocol. Each connection gets its own goroutine; requests are
// decoded into frames, dispatched through the engine, and the reply
// frame is encoded back. Replies for pipelined requests are batched
// into a single flush.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emberdb/emberdb/internal/engine"
	"github.com/emberdb/emberdb/internal/metrics"
	"github.com/emberdb/emberdb/internal/resp"
)

// Config holds server configuration.
type Config struct {
	// MaxClients caps concurrent connections; 0 means unlimited.
	MaxClients int
	// Timeout closes connections idle longer than this; 0 disables it.
	Timeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		MaxClients: 10000,
		Timeout:    0,
	}
}

// Server represents the EmberDB TCP server.
type Server struct {
	addr    string
	engine  *engine.Engine
	config  Config
	log     *zap.Logger
	metrics *metrics.Metrics

	mu         sync.RWMutex
	listener   net.Listener
	closed     bool
	wg         sync.WaitGroup
	connCount  atomic.Int64
	nextConnID atomic.Int64
}

// New creates a new Server with the specified address and engine.
func New(addr string, eng *engine.Engine, m *metrics.Metrics, log *zap.Logger, cfg Config) *Server {
	return &Server{
		addr:    addr,
		engine:  eng,
		config:  cfg,
		log:     log,
		metrics: m,
	}
}

// Addr returns the address the server is listening on. It is only
// valid after Start has bound the listener.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Start listens for connections and serves them until the context is
// cancelled. It blocks.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info("server listening", zap.String("addr", listener.Addr().String()))

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.RLock()
			closed := s.closed
			s.mu.RUnlock()
			if closed {
				return nil
			}
			s.log.Warn("failed to accept connection", zap.Error(err))
			continue
		}

		if s.config.MaxClients > 0 && s.connCount.Load() >= int64(s.config.MaxClients) {
			conn.Close()
			s.log.Warn("max clients reached, rejecting connection")
			continue
		}

		id := s.nextConnID.Add(1)
		s.connCount.Add(1)
		s.metrics.ConnectedClients.Inc()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				s.connCount.Add(-1)
				s.metrics.ConnectedClients.Dec()
			}()
			s.handleConnection(ctx, conn, id)
		}()
	}
}

// Close gracefully shuts down the server and waits for in-flight
// connections to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	s.wg.Wait()
	return err
}

// handleConnection serves a single client until it disconnects or the
// context is cancelled.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn, id int64) {
	defer conn.Close()

	log := s.log.With(zap.Int64("conn", id), zap.String("remote", conn.RemoteAddr().String()))
	log.Debug("client connected")

	reader := resp.NewReader(conn)
	writer := resp.NewWriter(conn)
	// Flushing is driven by the pipeline state below.
	writer.SetAutoFlush(false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.config.Timeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.config.Timeout))
		}

		req, err := reader.ReadFrame()
		if err != nil {
			if errors.Is(err, resp.ErrInvalidProtocol) {
				writer.WriteError("protocol error")
				writer.Flush()
			} else if err != io.EOF && !errors.Is(err, net.ErrClosed) && !isTimeout(err) {
				log.Warn("failed to read request", zap.Error(err))
			}
			return
		}

		reply, quit := s.handle(req)
		if err := writer.WriteFrame(reply); err != nil {
			return
		}
		// Flush once per pipeline batch: only when no further request
		// is already buffered.
		if reader.Buffered() == 0 {
			if err := writer.Flush(); err != nil {
				return
			}
		}
		if quit {
			writer.Flush()
			log.Debug("client quit")
			return
		}
	}
}

// handle produces the reply for one request and reports whether the
// connection should close. PING and QUIT are connection-level concerns
// answered here; everything else goes through the engine.
func (s *Server) handle(req resp.Frame) (resp.Frame, bool) {
	if name, ok := requestName(req); ok {
		switch name {
		case "ping":
			if len(req.Array) == 2 && req.Array[1].IsBulk() {
				return req.Array[1], false
			}
			return resp.SimpleString("PONG"), false
		case "quit":
			return resp.SimpleString("OK"), true
		}
	}
	return s.engine.Dispatch(req), false
}

// requestName returns the lower-cased command name of a well-formed
// request array.
func requestName(req resp.Frame) (string, bool) {
	if req.Type != resp.TypeArray || len(req.Array) == 0 || !req.Array[0].IsBulk() {
		return "", false
	}
	return strings.ToLower(req.Array[0].Str), true
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
