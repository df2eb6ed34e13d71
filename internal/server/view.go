package server

import (
	"github.com/mkrall/pokerroom/internal/game"
	"github.com/mkrall/pokerroom/poker"
)

// Per-viewer room snapshots. Every game_update is rendered once per seated
// connection so that hole cards of other seats never leave the server except
// at showdown.

// SeatView is one seat as a particular viewer sees it
type SeatView struct {
	UserID     string   `json:"userId"`
	Name       string   `json:"name"`
	Avatar     string   `json:"avatar"`
	Chips      int      `json:"chips"`
	HoleCards  []string `json:"holeCards,omitempty"`
	CardCount  int      `json:"cardCount"`
	Folded     bool     `json:"folded"`
	CurrentBet int      `json:"currentBet"`
	IsDealer   bool     `json:"isDealer"`
	IsTurn     bool     `json:"isTurn"`
	IsBot      bool     `json:"isBot"`
	AllIn      bool     `json:"allIn"`
}

// GameView is the full redacted room state sent as a game_update
type GameView struct {
	RoomCode    string     `json:"roomCode"`
	RoomName    string     `json:"roomName"`
	Variant     string     `json:"gameType"`
	Phase       string     `json:"phase"`
	Pot         int        `json:"pot"`
	CurrentBet  int        `json:"currentBet"`
	SmallBlind  int        `json:"smallBlind"`
	BigBlind    int        `json:"bigBlind"`
	Community   []string   `json:"communityCards"`
	Seats       []SeatView `json:"players"`
	DealerIdx   int        `json:"dealerIdx"`
	TurnIdx     int        `json:"turnIdx"`
	Winners     []string   `json:"winners,omitempty"`
	WinningHand string     `json:"winningHand,omitempty"`
	OwnerID     string     `json:"ownerId"`
	MyCards     []string   `json:"myCards,omitempty"`
}

// BuildGameView renders the room for one viewer. The viewer always sees its
// own hole cards; other seats' cards are revealed only at showdown, and only
// for seats still in the hand.
func BuildGameView(r *game.Room, viewerID string) GameView {
	view := GameView{
		RoomCode:    r.Code,
		RoomName:    r.Settings.RoomName,
		Variant:     string(r.Settings.Variant),
		Phase:       r.Phase.String(),
		Pot:         r.Pot,
		CurrentBet:  r.CurrentBet,
		SmallBlind:  r.Settings.SmallBlind,
		BigBlind:    r.Settings.BigBlind,
		Community:   poker.Strings(r.Community),
		DealerIdx:   r.DealerIdx,
		TurnIdx:     r.TurnIdx,
		Winners:     r.Winners,
		WinningHand: r.WinningHand,
		OwnerID:     r.OwnerID,
	}

	view.Seats = make([]SeatView, len(r.Seats))
	for i, s := range r.Seats {
		sv := SeatView{
			UserID:     s.UserID,
			Name:       s.Name,
			Avatar:     s.Avatar,
			Chips:      s.Chips,
			CardCount:  len(s.HoleCards),
			Folded:     s.Folded,
			CurrentBet: s.CurrentBet,
			IsDealer:   s.IsDealer,
			IsTurn:     s.IsTurn,
			IsBot:      s.IsBot(),
			AllIn:      s.AllIn(),
		}

		own := s.UserID == viewerID
		revealed := r.Phase == game.PhaseShowdown && !s.Folded
		if own || revealed {
			sv.HoleCards = poker.Strings(s.HoleCards)
		}
		if own {
			view.MyCards = poker.Strings(s.HoleCards)
		}
		view.Seats[i] = sv
	}

	return view
}

// Summary renders the lobby listing entry for a room
func Summary(r *game.Room) RoomSummary {
	return RoomSummary{
		RoomCode:   r.Code,
		RoomName:   r.Settings.RoomName,
		Players:    len(r.Seats),
		MaxPlayers: r.Settings.MaxPlayers,
		Variant:    string(r.Settings.Variant),
		Phase:      r.Phase.String(),
		SmallBlind: r.Settings.SmallBlind,
		BigBlind:   r.Settings.BigBlind,
	}
}
