package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/mkrall/pokerroom/poker"
)

// Phase is the room's position in the hand lifecycle
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseDraw
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseDraw:
		return "draw"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Betting reports whether the phase accepts wagering actions
func (p Phase) Betting() bool {
	return p >= PhasePreflop && p <= PhaseRiver
}

// Settings are the table parameters fixed at room creation
type Settings struct {
	BuyIn      int
	SmallBlind int
	BigBlind   int
	MaxPlayers int
	RoomName   string
	Variant    Variant
}

// WithDefaults fills unset fields with the standard table configuration
func (s Settings) WithDefaults(ownerName string) Settings {
	if s.BuyIn <= 0 {
		s.BuyIn = 1000
	}
	if s.SmallBlind <= 0 {
		s.SmallBlind = 5
	}
	if s.BigBlind <= 0 {
		s.BigBlind = 10
	}
	if s.MaxPlayers <= 0 {
		s.MaxPlayers = 6
	}
	if s.RoomName == "" {
		s.RoomName = fmt.Sprintf("%s's Table", ownerName)
	}
	if !s.Variant.Valid() {
		s.Variant = DefaultVariant
	}
	if max := s.Variant.Config().MaxSeats(); s.MaxPlayers > max {
		s.MaxPlayers = max
	}
	return s
}

// Validate rejects settings no table could run with
func (s Settings) Validate() error {
	if s.SmallBlind <= 0 || s.BigBlind <= s.SmallBlind {
		return fmt.Errorf("blinds must satisfy 0 < small < big, got %d/%d", s.SmallBlind, s.BigBlind)
	}
	if s.BuyIn < s.BigBlind {
		return fmt.Errorf("buy-in %d below big blind %d", s.BuyIn, s.BigBlind)
	}
	if s.MaxPlayers < 2 || s.MaxPlayers > 10 {
		return fmt.Errorf("max players must be between 2 and 10, got %d", s.MaxPlayers)
	}
	if max := s.Variant.Config().MaxSeats(); s.MaxPlayers > max {
		return fmt.Errorf("%s deals to at most %d players, got %d", s.Variant, max, s.MaxPlayers)
	}
	return nil
}

var (
	ErrRoomFull         = errors.New("room is full")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrNotEnoughPlayers = errors.New("at least 2 players required")
	ErrWrongPhase       = errors.New("not valid in this phase")
)

// Room holds the authoritative state of one table. Rooms are not safe for
// concurrent use; the registry serialises all access.
type Room struct {
	Code          string
	Seats         []*Seat
	Community     []poker.Card
	Pot           int
	CurrentBet    int
	Phase         Phase
	DealerIdx     int
	TurnIdx       int
	LastRaiserIdx int
	ActionsLeft   int
	Winners       []string
	WinningHand   string
	OwnerID       string
	Settings      Settings

	deck   *poker.Deck
	rng    *rand.Rand
	logger *log.Logger
}

// NewRoom creates an empty room in the waiting phase
func NewRoom(code, ownerID string, settings Settings, rng *rand.Rand, logger *log.Logger) *Room {
	return &Room{
		Code:     code,
		Phase:    PhaseWaiting,
		OwnerID:  ownerID,
		Settings: settings,
		rng:      rng,
		logger:   logger.WithPrefix("room").With("room", code),
	}
}

// SeatIndexByUser returns the seat index for a user id, or -1
func (r *Room) SeatIndexByUser(userID string) int {
	for i, s := range r.Seats {
		if s.UserID == userID {
			return i
		}
	}
	return -1
}

// SeatByUser returns the seat for a user id, or nil
func (r *Room) SeatByUser(userID string) *Seat {
	if i := r.SeatIndexByUser(userID); i >= 0 {
		return r.Seats[i]
	}
	return nil
}

// AddSeat seats a new player or bot with a fresh buy-in. The first seat
// becomes the dealer.
func (r *Room) AddSeat(userID, connID, name, avatar string, ctrl Controller) (*Seat, error) {
	if len(r.Seats) >= r.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}
	if r.SeatIndexByUser(userID) >= 0 {
		return nil, fmt.Errorf("user %s already seated", userID)
	}

	if avatar == "" {
		avatar = "👤"
	}
	seat := &Seat{
		UserID:     userID,
		ConnID:     connID,
		Name:       name,
		Avatar:     avatar,
		Controller: ctrl,
		Chips:      r.Settings.BuyIn,
		IsDealer:   len(r.Seats) == 0,
	}
	r.Seats = append(r.Seats, seat)

	r.logger.Info("player joined", "player", name, "controller", ctrl, "seats", len(r.Seats))
	return seat, nil
}

// Reconnect re-binds an existing seat to a new connection. The seat keeps its
// chips and cards; only the connection id (and cosmetics) change.
func (r *Room) Reconnect(userID, connID, name, avatar string) (*Seat, bool) {
	seat := r.SeatByUser(userID)
	if seat == nil {
		return nil, false
	}

	seat.ConnID = connID
	if name != "" {
		seat.Name = name
	}
	if avatar != "" {
		seat.Avatar = avatar
	}

	r.logger.Info("player reconnected", "player", seat.Name)
	return seat, true
}

// RemoveSeat takes a player out of the room. Leaving during one's own turn
// counts as a fold before the seat is removed; wagered chips stay in the pot.
func (r *Room) RemoveSeat(userID string) (*Seat, error) {
	idx := r.SeatIndexByUser(userID)
	if idx < 0 {
		return nil, ErrSeatNotFound
	}
	seat := r.Seats[idx]

	if (r.Phase.Betting() || r.Phase == PhaseDraw) && idx == r.TurnIdx && !seat.Folded {
		r.forceFold(idx)
	}

	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)
	r.logger.Info("player left", "player", seat.Name, "seats", len(r.Seats))

	n := len(r.Seats)
	if n == 0 {
		return seat, nil
	}

	adjust := func(i int) int {
		if i > idx {
			i--
		}
		return ((i % n) + n) % n
	}
	r.DealerIdx = adjust(r.DealerIdx)
	r.TurnIdx = adjust(r.TurnIdx)
	r.LastRaiserIdx = adjust(r.LastRaiserIdx)

	if n < 2 {
		r.abortHand()
		return seat, nil
	}

	if r.Phase.Betting() {
		// The turn may now point at a folded or all-in seat
		if !r.Seats[r.TurnIdx].CanAct() {
			r.advanceTurn()
		}
		if r.roundComplete() {
			r.advancePhase()
		} else {
			r.markTurn()
		}
	}
	return seat, nil
}

// abortHand drops back to the waiting phase when too few seats remain.
// Chips already in the pot are returned to the last seated players evenly;
// with a single seat left they all go to it.
func (r *Room) abortHand() {
	if r.Pot > 0 && len(r.Seats) > 0 {
		share := r.Pot / len(r.Seats)
		rem := r.Pot % len(r.Seats)
		for i, s := range r.Seats {
			s.Chips += share
			if i == 0 {
				s.Chips += rem
			}
		}
	}
	r.Pot = 0
	r.CurrentBet = 0
	r.Community = nil
	r.Phase = PhaseWaiting
	r.Winners = nil
	r.WinningHand = ""
	for _, s := range r.Seats {
		s.resetForHand()
	}
}

// StartHand begins play from the waiting phase
func (r *Room) StartHand() error {
	if r.Phase != PhaseWaiting {
		return ErrWrongPhase
	}
	if len(r.Seats) < 2 {
		return ErrNotEnoughPlayers
	}
	r.startNewRound()
	return nil
}

// startNewRound deals a fresh hand: new deck, hole cards, blinds, first turn
func (r *Room) startNewRound() {
	cfg := r.Settings.Variant.Config()
	n := len(r.Seats)

	r.logger.Info("starting new round", "variant", r.Settings.Variant, "players", n)

	r.deck = poker.NewDeck(r.rng, cfg.Deck)
	for _, s := range r.Seats {
		s.resetForHand()
		s.HoleCards = r.deck.Deal(cfg.HoleCards)
	}

	r.Community = nil
	r.Pot = 0
	r.CurrentBet = 0
	r.Winners = nil
	r.WinningHand = ""

	r.DealerIdx = r.DealerIdx % n
	sbIdx := (r.DealerIdx + 1) % n
	bbIdx := (r.DealerIdx + 2) % n

	// Short stacks post what they have
	sb := min(r.Settings.SmallBlind, r.Seats[sbIdx].Chips)
	bb := min(r.Settings.BigBlind, r.Seats[bbIdx].Chips)
	r.Seats[sbIdx].Chips -= sb
	r.Seats[sbIdx].CurrentBet = sb
	r.Seats[bbIdx].Chips -= bb
	r.Seats[bbIdx].CurrentBet = bb
	r.Pot = sb + bb
	r.CurrentBet = r.Settings.BigBlind

	if cfg.HasDiscard {
		r.Phase = PhaseDraw
	} else {
		r.Phase = PhasePreflop
	}

	if r.Phase == PhaseDraw {
		r.TurnIdx = r.nextDrawer((bbIdx + 1) % n)
	} else {
		r.TurnIdx = r.nextEligible((bbIdx + 1) % n)
	}
	r.LastRaiserIdx = bbIdx
	r.ActionsLeft = n

	for i, s := range r.Seats {
		s.IsDealer = i == r.DealerIdx
	}
	r.markTurn()

	// Blinds can leave at most one seat able to wager (short stacks)
	if r.Phase.Betting() && r.roundComplete() {
		r.advancePhase()
	}
}

// advancePhase moves the hand to its next phase, dealing community cards and
// resetting betting state. From showdown it rotates the dealer and starts the
// next hand.
func (r *Room) advancePhase() {
	cfg := r.Settings.Variant.Config()
	n := len(r.Seats)

	switch r.Phase {
	case PhasePreflop:
		if cfg.CommunityCards == 0 {
			r.resolveShowdown()
			return
		}
		r.Community = append(r.Community, r.deck.Deal(3)...)
		r.Phase = PhaseFlop
	case PhaseFlop:
		r.Community = append(r.Community, r.deck.Deal(1)...)
		r.Phase = PhaseTurn
	case PhaseTurn:
		r.Community = append(r.Community, r.deck.Deal(1)...)
		r.Phase = PhaseRiver
	case PhaseRiver:
		r.resolveShowdown()
		return
	case PhaseShowdown:
		r.DealerIdx = (r.DealerIdx + 1) % n
		r.startNewRound()
		return
	default:
		return
	}

	for _, s := range r.Seats {
		s.CurrentBet = 0
	}
	r.CurrentBet = 0

	// First actor is the seat after the dealer; the dealer index doubles as
	// the last-raiser sentinel so the round goes around at least once.
	r.TurnIdx = r.nextEligible((r.DealerIdx + 1) % n)
	r.LastRaiserIdx = r.DealerIdx
	r.ActionsLeft = r.countNonFolded()
	r.markTurn()

	r.logger.Debug("phase advanced", "phase", r.Phase, "community", poker.Strings(r.Community))

	// All-in run-out: nobody (or only one seat) can still wager, so deal the
	// remaining streets straight through to showdown.
	if r.countCanAct() <= 1 {
		r.advancePhase()
	}
}

// nextEligible returns the first seat at or after from that can act,
// skipping folded and all-in seats. Returns -1 if no seat can act.
func (r *Room) nextEligible(from int) int {
	n := len(r.Seats)
	for i := 0; i < n; i++ {
		pos := (from + i) % n
		if r.Seats[pos].CanAct() {
			return pos
		}
	}
	return -1
}

// advanceTurn hands the turn to the next eligible seat
func (r *Room) advanceTurn() {
	for _, s := range r.Seats {
		s.IsTurn = false
	}
	if next := r.nextEligible((r.TurnIdx + 1) % len(r.Seats)); next >= 0 {
		r.TurnIdx = next
	}
	r.markTurn()
}

// markTurn syncs the per-seat IsTurn flags with TurnIdx. In the draw phase
// the turn tracks seats still owed a draw, all-in included; in betting phases
// it tracks seats that can still wager.
func (r *Room) markTurn() {
	for i, s := range r.Seats {
		if r.Phase == PhaseDraw {
			s.IsTurn = i == r.TurnIdx && !s.Folded && !s.drawn
		} else {
			s.IsTurn = i == r.TurnIdx && s.CanAct() && r.Phase.Betting()
		}
	}
}

// CurrentSeat returns the seat whose turn it is, or nil
func (r *Room) CurrentSeat() *Seat {
	if r.TurnIdx < 0 || r.TurnIdx >= len(r.Seats) {
		return nil
	}
	s := r.Seats[r.TurnIdx]
	if !s.IsTurn {
		return nil
	}
	return s
}

func (r *Room) countNonFolded() int {
	count := 0
	for _, s := range r.Seats {
		if !s.Folded {
			count++
		}
	}
	return count
}

func (r *Room) countCanAct() int {
	count := 0
	for _, s := range r.Seats {
		if s.CanAct() {
			count++
		}
	}
	return count
}
