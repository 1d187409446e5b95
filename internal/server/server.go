// Package server streams decoded CRT frames to browser clients over a
// WebSocket and advertises itself on the local network via mDNS, so a
// remote viewer can find and preview a running encode without a cable.
//
// Grounded on madpsy-ka9q_ubersdr's main.go HTTP wiring (plain
// http.HandleFunc routing, a gorilla/websocket upgrade handler, one uuid
// per connection) and doismellburning-samoyed's dns_sd.go (brutella/dnssd
// service announcement). The remote preview server is an addition that
// sits beside the interactive viewer as another external collaborator; it
// uses only the crt package's public operations.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/brutella/dnssd"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ntsccrt/ntsccrt/crt"
)

const mdnsServiceType = "_ntsccrt._tcp"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 20,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server holds one CRT instance shared across all connected clients. Every
// request serializes on mu, matching spec.md's note that Modulate/
// Demodulate are not reentrant on a single CRT.
type Server struct {
	mu     sync.Mutex
	crt    *crt.CRT
	outW   int
	outH   int
	buf    []byte
	source *crt.ModulateSettings

	clients map[string]*websocket.Conn
}

// New builds a Server decoding src through a CRT sized outW x outH,
// serving RGB frames as packed binary WebSocket messages.
func New(src *crt.ModulateSettings, outW, outH int) *Server {
	c := crt.NewCRT(crt.DefaultSystemConfig())
	buf := make([]byte, outW*outH*3)
	c.Init(outW, outH, crt.FormatRGB, buf)
	return &Server{
		crt:     c,
		outW:    outW,
		outH:    outH,
		buf:     buf,
		source:  src,
		clients: make(map[string]*websocket.Conn),
	}
}

// Handler returns the HTTP handler serving the WebSocket frame stream and
// a JSON status endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"clients": n,
		"width":   s.outW,
		"height":  s.outH,
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ntsccrt server: upgrade failed: %v", err)
		return
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.clients[id] = conn
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// PushFrame re-modulates/demodulates the server's source and broadcasts the
// resulting RGB frame to every connected client.
func (s *Server) PushFrame(field int, noise int32) {
	s.mu.Lock()
	s.source.Field = field
	s.source.Frame = field
	s.crt.Modulate(s.source)
	s.crt.Demodulate(noise)
	frame := make([]byte, len(s.buf))
	copy(frame, s.buf)
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Printf("ntsccrt server: write failed: %v", err)
		}
	}
}

// Controls exposes the shared CRT's monitor controls. No handler in this
// package or in cmd/ntsccrt calls it; it does not take the mutex.
func (s *Server) Controls() *crt.MonitorControls {
	return &s.crt.Controls
}

// Advertise announces the server on the local network via mDNS/DNS-SD so a
// viewer on the same network can discover it without a hostname or IP.
func Advertise(ctx context.Context, name string, port int) error {
	cfg := dnssd.Config{
		Name: name,
		Type: mdnsServiceType,
		Port: port,
	}
	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return err
	}
	resp, err := dnssd.NewResponder()
	if err != nil {
		return err
	}
	if _, err := resp.Add(svc); err != nil {
		return err
	}
	go func() {
		if err := resp.Respond(ctx); err != nil {
			log.Printf("ntsccrt server: mdns responder stopped: %v", err)
		}
	}()
	return nil
}
