package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server accepts websocket clients and routes their events to the game
// service. It also serves the read-only /health and /rooms endpoints.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[string]*Connection
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server
	gameService *GameService
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetGameService sets the game service for the server
func (s *Server) SetGameService(gameService *GameService) {
	s.gameService = gameService
}

// Start runs the server until Shutdown is called
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRooms)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.logger.Info("starting websocket server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP listener and closes all connections
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for _, conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn.ID()] = conn
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn.ID()]
			delete(s.connections, conn.ID())
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// Drop the seat the connection was serving
				userID, roomCode := conn.Identity()
				if userID != "" && roomCode != "" && s.gameService != nil {
					s.logger.Info("cleaning up disconnected player", "user", userID, "room", roomCode)
					s.gameService.Disconnect(roomCode, userID)
				}
				_ = conn.Close()
			}
			s.logger.Info("client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gameService)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleRooms serves the lobby listing over plain HTTP
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if s.gameService == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.gameService.ListRooms()); err != nil {
		s.logger.Error("failed to encode room list", "error", err)
	}
}

// SendToConn sends a message to one connection by id
func (s *Server) SendToConn(connID string, msg *Message) error {
	s.mu.RLock()
	conn, ok := s.connections[connID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("connection not found: %s", connID)
	}
	return conn.SendMessage(msg)
}

// BroadcastAll sends a message to every connected client
func (s *Server) BroadcastAll(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("broadcast not delivered", "error", err)
		}
	}
}
