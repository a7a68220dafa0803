// Package ipc exposes the bar's input surface over a WebSocket
// endpoint.
//
// External tools deliver named action events as JSON messages; each
// message is routed through the module registry to the addressed
// module, or to the first module that accepts the action when no
// module is named. The reply reports whether any module handled it.
package ipc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/conneroisu/barcore/internal/logging"
	"github.com/conneroisu/barcore/internal/registry"
)

// Message is one incoming action event.
type Message struct {
	Module string `json:"module,omitempty"`
	Name   string `json:"name"`
	Data   string `json:"data,omitempty"`
}

// Reply reports the routing outcome for one message.
type Reply struct {
	Handled bool   `json:"handled"`
	Error   string `json:"error,omitempty"`
}

// Server accepts WebSocket connections and routes action messages.
type Server struct {
	addr     string
	registry *registry.Registry
	log      logging.Logger
	server   *http.Server
}

// NewServer creates an IPC server bound to addr.
func NewServer(addr string, reg *registry.Registry, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		addr:     addr,
		registry: reg,
		log:      log.WithComponent("ipc"),
	}
}

// Handler returns the HTTP handler accepting WebSocket upgrades.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handle)
}

// Start begins listening. It returns once the listener is bound; the
// accept loop runs in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("listening", "address", listener.Addr().String())
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(err, "serve failed")
		}
	}()
	return nil
}

// Shutdown stops accepting connections and closes existing ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The endpoint binds to loopback by default; origin checks
		// add nothing for local tooling like barcore-msg.
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Error(err, "websocket upgrade failed", "remote", r.RemoteAddr)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	s.log.Debug("client connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			s.log.Debug("client disconnected", "remote", r.RemoteAddr)
			return
		}

		reply := s.route(msg)
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			s.log.Error(err, "writing reply", "remote", r.RemoteAddr)
			return
		}
	}
}

func (s *Server) route(msg Message) Reply {
	if msg.Name == "" {
		return Reply{Handled: false, Error: "missing action name"}
	}

	handled := s.registry.Input(msg.Module, msg.Name, msg.Data)
	if !handled {
		s.log.Warn("unhandled action", "module", msg.Module, "action", msg.Name)
		return Reply{Handled: false, Error: "no module handled the action"}
	}

	s.log.Debug("routed action", "module", msg.Module, "action", msg.Name)
	return Reply{Handled: true}
}
