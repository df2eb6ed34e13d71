package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. The connection
// learns its user and room from create_room/join_room and uses them to route
// later events and to clean up on disconnect.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	userID    string
	roomCode  string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	service   *GameService
}

// NewConnection creates a new connection wrapper with a fresh connection id
func NewConnection(conn *websocket.Conn, logger *log.Logger, service *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()

	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:     ctx,
		cancel:  cancel,
		service: service,
	}
}

// ID returns the connection id
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A full send buffer closes the
// connection rather than blocking the room.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel closed during shutdown
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetIdentity records which user and room this connection serves
func (c *Connection) SetIdentity(userID, roomCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.roomCode = roomCode
}

// Identity returns the user and room bound to this connection
func (c *Connection) Identity() (userID, roomCode string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.roomCode
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage decodes and routes one inbound event. Malformed payloads are
// rejected before any state is touched.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid create_room payload")
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid join_room payload")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeStartGame:
		userID, roomCode := c.Identity()
		if roomCode == "" {
			c.sendError("not in a room")
			return
		}
		if err := c.service.StartGame(roomCode, userID); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid action payload")
			return
		}
		userID, roomCode := c.Identity()
		if roomCode == "" {
			c.sendError("not in a room")
			return
		}
		if err := c.service.HandleAction(roomCode, userID, data); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeDiscard:
		var data DiscardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid discard payload")
			return
		}
		userID, roomCode := c.Identity()
		if roomCode == "" {
			c.sendError("not in a room")
			return
		}
		if err := c.service.HandleDiscard(roomCode, userID, data.Cards); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeAddBot:
		userID, roomCode := c.Identity()
		if roomCode == "" {
			c.sendError("not in a room")
			return
		}
		if err := c.service.AddBot(roomCode, userID); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeKickPlayer:
		var data KickPlayerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid kick_player payload")
			return
		}
		userID, roomCode := c.Identity()
		if roomCode == "" {
			c.sendError("not in a room")
			return
		}
		if err := c.service.KickPlayer(roomCode, userID, data.TargetID); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeDeleteRoom:
		userID, roomCode := c.Identity()
		if roomCode == "" {
			c.sendError("not in a room")
			return
		}
		if err := c.service.DeleteRoom(roomCode, userID); err != nil {
			c.sendError(err.Error())
		}

	case MessageTypeGetRooms:
		response, err := NewMessage(MessageTypeRoomList, c.service.ListRooms())
		if err != nil {
			c.logger.Error("failed to encode room list", "error", err)
			return
		}
		_ = c.SendMessage(response)

	default:
		c.sendError("unknown message type: " + string(msg.Type))
	}
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	if data.UserID == "" || data.DisplayName == "" {
		c.sendError("userId and displayName required")
		return
	}

	code, err := c.service.CreateRoom(data.UserID, c.id, data.DisplayName, data.Avatar, data.Settings.ToGame())
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.SetIdentity(data.UserID, code)

	response, _ := NewMessage(MessageTypeRoomCreated, RoomCreatedData{RoomCode: code})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	if data.UserID == "" || data.DisplayName == "" {
		c.sendError("userId and displayName required")
		return
	}

	if err := c.service.JoinRoom(data.RoomCode, data.UserID, c.id, data.DisplayName, data.Avatar); err != nil {
		c.sendError(err.Error())
		return
	}
	c.SetIdentity(data.UserID, data.RoomCode)
}

// sendError sends an error payload to the client
func (c *Connection) sendError(message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}
