package game

import (
	"github.com/mkrall/pokerroom/poker"
)

// Controller identifies who produces actions for a seat. The betting
// coordinator is agnostic to the distinction; only the bot scheduler and the
// turn timer care.
type Controller int

const (
	ControllerHuman Controller = iota
	ControllerBot
)

func (c Controller) String() string {
	if c == ControllerBot {
		return "bot"
	}
	return "human"
}

// Seat is one position at the table. Seat order is turn order. UserID is the
// stable identity that survives reconnects; ConnID is the current transport
// connection and is swapped on reconnect.
type Seat struct {
	UserID     string
	ConnID     string
	Name       string
	Avatar     string
	Controller Controller

	Chips      int
	HoleCards  []poker.Card
	Discarded  []poker.Card
	Folded     bool
	CurrentBet int
	IsDealer   bool
	IsTurn     bool

	// drawn marks that the seat took its draw this hand. Drawing is not a
	// wager, so all-in seats draw too.
	drawn bool
}

// IsBot reports whether the seat is bot-controlled
func (s *Seat) IsBot() bool {
	return s.Controller == ControllerBot
}

// AllIn reports whether the seat is out of chips but still in the hand
func (s *Seat) AllIn() bool {
	return !s.Folded && s.Chips == 0
}

// CanAct reports whether the seat can still take wagering actions this hand
func (s *Seat) CanAct() bool {
	return !s.Folded && s.Chips > 0
}

// resetForHand clears per-hand state ahead of a new deal
func (s *Seat) resetForHand() {
	s.HoleCards = nil
	s.Discarded = nil
	s.Folded = false
	s.CurrentBet = 0
	s.IsTurn = false
	s.drawn = false
}
