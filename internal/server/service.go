package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/mkrall/pokerroom/internal/game"
)

// Sender delivers messages to clients. Implemented by *Server; tests inject a
// recording fake.
type Sender interface {
	SendToConn(connID string, msg *Message) error
	BroadcastAll(msg *Message)
}

// GameService glues the transport to the room engine. All room mutations go
// through here: each entry point takes the room lock, applies the event,
// broadcasts the new state to every seated connection and re-arms the room's
// single scheduled task (turn timeout or bot think delay).
type GameService struct {
	registry    *Registry
	sender      Sender
	clock       quartz.Clock
	logger      *log.Logger
	defaults    game.Settings
	turnTimeout time.Duration
	botThink    time.Duration
}

// NewGameService wires a service. The clock is injected so tests can drive
// timers with quartz.NewMock; defaults fill settings a create_room request
// leaves unset.
func NewGameService(registry *Registry, sender Sender, clock quartz.Clock, logger *log.Logger, defaults game.Settings, turnTimeout, botThink time.Duration) *GameService {
	return &GameService{
		registry:    registry,
		sender:      sender,
		clock:       clock,
		logger:      logger.WithPrefix("service"),
		defaults:    defaults,
		turnTimeout: turnTimeout,
		botThink:    botThink,
	}
}

// mergeDefaults fills zero-valued settings from the server's configured room
// defaults
func (s *GameService) mergeDefaults(settings game.Settings) game.Settings {
	if settings.BuyIn <= 0 {
		settings.BuyIn = s.defaults.BuyIn
	}
	if settings.SmallBlind <= 0 {
		settings.SmallBlind = s.defaults.SmallBlind
	}
	if settings.BigBlind <= 0 {
		settings.BigBlind = s.defaults.BigBlind
	}
	if settings.MaxPlayers <= 0 {
		settings.MaxPlayers = s.defaults.MaxPlayers
	}
	if !settings.Variant.Valid() {
		settings.Variant = s.defaults.Variant
	}
	return settings
}

// withRoom runs fn under the room's lock. A panic inside one room is logged
// and contained; it never takes down other rooms or the process.
func (s *GameService) withRoom(code string, fn func(h *RoomHandle) error) error {
	h, ok := s.registry.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	h.lock()
	defer h.unlock()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in room event", "room", code, "panic", r)
		}
	}()

	return fn(h)
}

// CreateRoom creates a room and seats the creator
func (s *GameService) CreateRoom(userID, connID, name, avatar string, settings game.Settings) (string, error) {
	h, err := s.registry.Create(userID, s.mergeDefaults(settings).WithDefaults(name))
	if err != nil {
		return "", err
	}

	h.lock()
	defer h.unlock()
	if _, err := h.Room.AddSeat(userID, connID, name, avatar, game.ControllerHuman); err != nil {
		return "", err
	}
	s.sync(h)

	s.broadcastRoomList()
	return h.Room.Code, nil
}

// JoinRoom seats a new player, or re-binds an existing seat when the same
// userId rejoins after a disconnect.
func (s *GameService) JoinRoom(code, userID, connID, name, avatar string) error {
	err := s.withRoom(code, func(h *RoomHandle) error {
		if seat, ok := h.Room.Reconnect(userID, connID, name, avatar); ok {
			s.logger.Info("player rejoined", "room", h.Room.Code, "player", seat.Name)
			s.sync(h)
			return nil
		}

		seat, err := h.Room.AddSeat(userID, connID, name, avatar, game.ControllerHuman)
		if err != nil {
			return err
		}
		s.notifyRoom(h, MessageTypePlayerJoined, PlayerJoinedData{
			RoomCode: h.Room.Code,
			UserID:   seat.UserID,
			Name:     seat.Name,
		})
		s.sync(h)
		return nil
	})
	if err == nil {
		s.broadcastRoomList()
	}
	return err
}

// StartGame begins play; valid only from the waiting phase with two or more
// seats.
func (s *GameService) StartGame(code, userID string) error {
	return s.withRoom(code, func(h *RoomHandle) error {
		if h.Room.SeatIndexByUser(userID) < 0 {
			return game.ErrSeatNotFound
		}
		if err := h.Room.StartHand(); err != nil {
			return err
		}
		s.sync(h)
		return nil
	})
}

// HandleAction validates and applies one wagering action from a human seat
func (s *GameService) HandleAction(code, userID string, data ActionData) error {
	return s.withRoom(code, func(h *RoomHandle) error {
		actionType, ok := game.ParseActionType(data.Type)
		if !ok {
			return fmt.Errorf("unknown action %q", data.Type)
		}
		if err := h.Room.ApplyAction(userID, game.Action{Type: actionType, Amount: data.Amount}); err != nil {
			// Protocol violations carry no state change; the offender gets
			// the error, everyone else sees nothing.
			s.logger.Warn("action rejected", "room", code, "user", userID, "error", err)
			return err
		}
		s.sync(h)
		return nil
	})
}

// HandleDiscard applies a draw-phase discard
func (s *GameService) HandleDiscard(code, userID string, cards []int) error {
	return s.withRoom(code, func(h *RoomHandle) error {
		if err := h.Room.DiscardAndDraw(userID, cards); err != nil {
			s.logger.Warn("discard rejected", "room", code, "user", userID, "error", err)
			return err
		}
		s.sync(h)
		return nil
	})
}

// AddBot seats a bot. Owner-only; requests from other seats are ignored.
func (s *GameService) AddBot(code, userID string) error {
	return s.withRoom(code, func(h *RoomHandle) error {
		if h.Room.OwnerID != userID {
			s.logger.Warn("add_bot from non-owner ignored", "room", code, "user", userID)
			return nil
		}
		name := botNames[h.rng.IntN(len(botNames))]
		botID := "bot-" + uuid.New().String()
		if _, err := h.Room.AddSeat(botID, "", name, "🤖", game.ControllerBot); err != nil {
			return err
		}
		s.sync(h)
		return nil
	})
}

// KickPlayer removes a seat. Owner-only; the kicked connection is told to
// disconnect.
func (s *GameService) KickPlayer(code, userID, targetID string) error {
	err := s.withRoom(code, func(h *RoomHandle) error {
		if h.Room.OwnerID != userID {
			s.logger.Warn("kick_player from non-owner ignored", "room", code, "user", userID)
			return nil
		}
		seat, err := h.Room.RemoveSeat(targetID)
		if err != nil {
			return err
		}
		if seat.ConnID != "" {
			s.sendTo(seat.ConnID, MessageTypeForceDisconnect, ForceDisconnectData{Reason: "kicked from room"})
		}
		s.notifyRoom(h, MessageTypePlayerLeft, PlayerLeftData{RoomCode: h.Room.Code, UserID: seat.UserID, Name: seat.Name})
		s.sync(h)
		return nil
	})
	if err == nil {
		s.dropIfEmpty(code)
		s.broadcastRoomList()
	}
	return err
}

// DeleteRoom tears the room down. Owner-only.
func (s *GameService) DeleteRoom(code, userID string) error {
	err := s.withRoom(code, func(h *RoomHandle) error {
		if h.Room.OwnerID != userID {
			s.logger.Warn("delete_room from non-owner ignored", "room", code, "user", userID)
			return nil
		}
		s.notifyRoom(h, MessageTypeForceDisconnect, ForceDisconnectData{Reason: "room deleted by owner"})
		return nil
	})
	if err != nil {
		return err
	}
	s.registry.Delete(code)
	s.broadcastRoomList()
	return nil
}

// Disconnect handles a dropped connection: a seat mid-turn folds first, then
// leaves. Room ownership transfers to the next human seat; a room with no
// humans left is destroyed.
func (s *GameService) Disconnect(code, userID string) {
	err := s.withRoom(code, func(h *RoomHandle) error {
		seat, err := h.Room.RemoveSeat(userID)
		if err != nil {
			return err
		}
		if h.Room.OwnerID == userID {
			s.transferOwnership(h)
		}
		s.notifyRoom(h, MessageTypePlayerLeft, PlayerLeftData{RoomCode: h.Room.Code, UserID: seat.UserID, Name: seat.Name})
		s.sync(h)
		return nil
	})
	if err != nil && !errors.Is(err, ErrRoomNotFound) && !errors.Is(err, game.ErrSeatNotFound) {
		s.logger.Error("disconnect cleanup failed", "room", code, "user", userID, "error", err)
	}
	s.dropIfEmpty(code)
	s.broadcastRoomList()
}

// transferOwnership hands the room to the first remaining human seat.
// Callers must hold the room lock.
func (s *GameService) transferOwnership(h *RoomHandle) {
	for _, seat := range h.Room.Seats {
		if !seat.IsBot() {
			h.Room.OwnerID = seat.UserID
			s.logger.Info("ownership transferred", "room", h.Room.Code, "owner", seat.Name)
			return
		}
	}
}

// dropIfEmpty destroys the room when no human seats remain
func (s *GameService) dropIfEmpty(code string) {
	h, ok := s.registry.Get(code)
	if !ok {
		return
	}
	h.lock()
	humans := 0
	for _, seat := range h.Room.Seats {
		if !seat.IsBot() {
			humans++
		}
	}
	h.unlock()

	if humans == 0 {
		s.registry.Delete(code)
	}
}

// ListRooms returns the lobby listing
func (s *GameService) ListRooms() RoomListData {
	handles := s.registry.Handles()
	out := RoomListData{Rooms: make([]RoomSummary, 0, len(handles))}
	for _, h := range handles {
		h.lock()
		out.Rooms = append(out.Rooms, Summary(h.Room))
		h.unlock()
	}
	return out
}

// sync broadcasts the post-mutation state and re-arms the room's scheduled
// task. Callers must hold the room lock.
func (s *GameService) sync(h *RoomHandle) {
	s.broadcastRoom(h)
	s.rearm(h)
}

// broadcastRoom sends each seated human its own redacted view
func (s *GameService) broadcastRoom(h *RoomHandle) {
	for _, seat := range h.Room.Seats {
		if seat.ConnID == "" {
			continue
		}
		view := BuildGameView(h.Room, seat.UserID)
		msg, err := NewMessage(MessageTypeGameUpdate, view)
		if err != nil {
			s.logger.Error("failed to encode game update", "room", h.Room.Code, "error", err)
			return
		}
		if err := s.sender.SendToConn(seat.ConnID, msg); err != nil {
			s.logger.Debug("game update not delivered", "room", h.Room.Code, "player", seat.Name, "error", err)
		}
	}
}

// notifyRoom sends one event to every seated connection
func (s *GameService) notifyRoom(h *RoomHandle, t MessageType, data interface{}) {
	msg, err := NewMessage(t, data)
	if err != nil {
		s.logger.Error("failed to encode message", "type", t, "error", err)
		return
	}
	for _, seat := range h.Room.Seats {
		if seat.ConnID == "" {
			continue
		}
		_ = s.sender.SendToConn(seat.ConnID, msg)
	}
}

func (s *GameService) sendTo(connID string, t MessageType, data interface{}) {
	msg, err := NewMessage(t, data)
	if err != nil {
		return
	}
	_ = s.sender.SendToConn(connID, msg)
}

// broadcastRoomList pushes the lobby listing to every connection
func (s *GameService) broadcastRoomList() {
	msg, err := NewMessage(MessageTypeRoomList, s.ListRooms())
	if err != nil {
		return
	}
	s.sender.BroadcastAll(msg)
}

var botNames = []string{
	"Ace", "Dealer Dan", "River Rat", "Bluff", "Tilt", "Rocket",
	"Kicker", "Maniac", "The Nit", "Shark",
}
