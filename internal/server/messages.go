package server

import (
	"encoding/json"
	"time"

	"github.com/mkrall/pokerroom/internal/game"
)

// MessageType names a wire event
type MessageType string

// Client → Server
const (
	MessageTypeCreateRoom MessageType = "create_room"
	MessageTypeJoinRoom   MessageType = "join_room"
	MessageTypeStartGame  MessageType = "start_game"
	MessageTypeAction     MessageType = "action"
	MessageTypeDiscard    MessageType = "discard"
	MessageTypeAddBot     MessageType = "add_bot"
	MessageTypeKickPlayer MessageType = "kick_player"
	MessageTypeDeleteRoom MessageType = "delete_room"
	MessageTypeGetRooms   MessageType = "get_rooms"
)

// Server → Client
const (
	MessageTypeRoomCreated     MessageType = "room_created"
	MessageTypePlayerJoined    MessageType = "player_joined"
	MessageTypePlayerLeft      MessageType = "player_left"
	MessageTypeGameUpdate      MessageType = "game_update"
	MessageTypeRoomList        MessageType = "room_list"
	MessageTypeError           MessageType = "error"
	MessageTypeForceDisconnect MessageType = "force_disconnect"
)

// Message is the base wire envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

// RoomSettingsData is the settings block of a create_room request. Zero
// fields fall back to the server's room defaults.
type RoomSettingsData struct {
	BuyIn      int    `json:"buyIn,omitempty"`
	SmallBlind int    `json:"smallBlind,omitempty"`
	BigBlind   int    `json:"bigBlind,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	RoomName   string `json:"roomName,omitempty"`
	Variant    string `json:"gameType,omitempty"`
}

// ToGame converts wire settings into engine settings
func (d RoomSettingsData) ToGame() game.Settings {
	return game.Settings{
		BuyIn:      d.BuyIn,
		SmallBlind: d.SmallBlind,
		BigBlind:   d.BigBlind,
		MaxPlayers: d.MaxPlayers,
		RoomName:   d.RoomName,
		Variant:    game.Variant(d.Variant),
	}
}

type CreateRoomData struct {
	UserID      string           `json:"userId"`
	DisplayName string           `json:"displayName"`
	Avatar      string           `json:"avatar,omitempty"`
	Settings    RoomSettingsData `json:"settings"`
}

type JoinRoomData struct {
	RoomCode    string `json:"roomCode"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
}

type ActionData struct {
	Type   string `json:"type"`
	Amount int    `json:"amount,omitempty"`
}

type DiscardData struct {
	Cards []int `json:"cards"`
}

type KickPlayerData struct {
	TargetID string `json:"targetId"`
}

// Server → Client payloads

type RoomCreatedData struct {
	RoomCode string `json:"roomCode"`
}

type PlayerJoinedData struct {
	RoomCode string `json:"roomCode"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
}

type PlayerLeftData struct {
	RoomCode string `json:"roomCode"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type ForceDisconnectData struct {
	Reason string `json:"reason"`
}

// RoomSummary is one lobby listing entry
type RoomSummary struct {
	RoomCode   string `json:"roomCode"`
	RoomName   string `json:"roomName"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Variant    string `json:"gameType"`
	Phase      string `json:"phase"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
}

type RoomListData struct {
	Rooms []RoomSummary `json:"rooms"`
}
