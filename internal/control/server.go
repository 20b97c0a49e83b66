// ABOUTME: WebSocket endpoint for remote live coding
// ABOUTME: Accepts patch text over the network and applies it to the engine
package control

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sineworks/glint/internal/bridge"
	"github.com/sineworks/glint/pkg/synth"
)

// Request is a client message.
type Request struct {
	Type string `json:"type"` // "patch" or "graph"
	Code string `json:"code,omitempty"`
}

// Response is the server's reply to one request.
type Response struct {
	Type   string            `json:"type"` // "ok", "error" or "graph"
	Error  string            `json:"error,omitempty"`
	Line   int               `json:"line,omitempty"`
	Chains []synth.ChainInfo `json:"chains,omitempty"`
}

// Config holds control endpoint configuration.
type Config struct {
	// Addr to listen on; ":0" picks a free port.
	Addr string

	// Name used for mDNS advertisement.
	Name string

	// MDNS advertises the endpoint as _glint._tcp on the LAN.
	MDNS bool

	// OnPatch is called after a remote patch applies cleanly, so the UI
	// can refresh. May be nil.
	OnPatch func(code string)
}

// Server accepts patch text over WebSocket and applies it through the
// shared engine handle. It is the network flavor of the TUI's evaluate
// key: failures are reported to the sender, the running graph stays up.
type Server struct {
	config   Config
	handle   *bridge.Handle
	listener net.Listener
	httpSrv  *http.Server
	mdnsSrv  *mdnsServer
	upgrader websocket.Upgrader
}

// NewServer creates a control server around the shared handle.
func NewServer(handle *bridge.Handle, config Config) *Server {
	return &Server{
		config: config,
		handle: handle,
		upgrader: websocket.Upgrader{
			// Patches arrive from editors and scripts, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start begins listening. Returns once the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("control listen failed: %w", err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/glint", s.handleWS)
	s.httpSrv = &http.Server{Handler: mux}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Control server stopped: %v", err)
		}
	}()
	log.Printf("Control endpoint listening on ws://%s/glint", ln.Addr())

	if s.config.MDNS {
		port := ln.Addr().(*net.TCPAddr).Port
		srv, err := advertise(s.config.Name, port)
		if err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			s.mdnsSrv = srv
		}
	}
	return nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Close shuts the endpoint down.
func (s *Server) Close() {
	if s.mdnsSrv != nil {
		s.mdnsSrv.Shutdown()
	}
	if s.httpSrv != nil {
		_ = s.httpSrv.Close()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	session := uuid.New().String()
	log.Printf("Control session %s from %s", session, r.RemoteAddr)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			log.Printf("Control session %s closed: %v", session, err)
			return
		}
		if err := conn.WriteJSON(s.dispatch(req)); err != nil {
			log.Printf("Control session %s write failed: %v", session, err)
			return
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	switch req.Type {
	case "patch":
		if err := s.handle.ApplyPatch(req.Code); err != nil {
			resp := Response{Type: "error", Error: err.Error()}
			var perr *synth.PatchError
			if errors.As(err, &perr) {
				resp.Line = perr.Line
			}
			return resp
		}
		log.Printf("Remote patch applied (%d bytes)", len(req.Code))
		if s.config.OnPatch != nil {
			s.config.OnPatch(req.Code)
		}
		return Response{Type: "ok"}

	case "graph":
		return Response{Type: "graph", Chains: s.handle.Graph()}
	}
	return Response{Type: "error", Error: fmt.Sprintf("unknown request type %q", req.Type)}
}
