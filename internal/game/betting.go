package game

import (
	"errors"
	"fmt"
)

// ActionType is the closed set of player actions. Payloads are validated
// into this type at the wire boundary before reaching the coordinator.
type ActionType int

const (
	ActionFold ActionType = iota
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
	ActionNext
)

func (a ActionType) String() string {
	switch a {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionBet:
		return "bet"
	case ActionRaise:
		return "raise"
	case ActionNext:
		return "next"
	default:
		return "unknown"
	}
}

// ParseActionType maps a wire action name to its type
func ParseActionType(s string) (ActionType, bool) {
	switch s {
	case "fold":
		return ActionFold, true
	case "check":
		return ActionCheck, true
	case "call":
		return ActionCall, true
	case "bet":
		return ActionBet, true
	case "raise":
		return ActionRaise, true
	case "next":
		return ActionNext, true
	default:
		return 0, false
	}
}

// Action is one validated player action
type Action struct {
	Type   ActionType
	Amount int
}

var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrCannotCheck = errors.New("cannot check, must call or fold")
)

// ApplyAction validates and applies one action for the given user. On a
// completed betting round it advances the phase; otherwise the turn moves to
// the next eligible seat. Errors leave the room unchanged.
func (r *Room) ApplyAction(userID string, act Action) error {
	idx := r.SeatIndexByUser(userID)
	if idx < 0 {
		return ErrSeatNotFound
	}

	if r.Phase == PhaseShowdown {
		if act.Type != ActionNext {
			return fmt.Errorf("%w: only next is valid at showdown", ErrWrongPhase)
		}
		r.advancePhase()
		return nil
	}

	if !r.Phase.Betting() {
		return ErrWrongPhase
	}
	if act.Type == ActionNext {
		return fmt.Errorf("%w: next is only valid at showdown", ErrWrongPhase)
	}
	if act.Amount < 0 {
		return fmt.Errorf("negative amount %d", act.Amount)
	}
	if idx != r.TurnIdx || !r.Seats[idx].IsTurn {
		return ErrNotYourTurn
	}

	seat := r.Seats[idx]
	r.logger.Debug("action", "player", seat.Name, "action", act.Type, "amount", act.Amount)

	switch act.Type {
	case ActionFold:
		r.forceFold(idx)
		return nil

	case ActionCheck:
		if seat.CurrentBet < r.CurrentBet {
			return ErrCannotCheck
		}

	case ActionCall:
		if seat.CurrentBet >= r.CurrentBet {
			return errors.New("nothing to call, check instead")
		}
		// The only action allowed to be short: a stack smaller than the
		// amount owed goes all-in for what it has.
		toCall := min(r.CurrentBet-seat.CurrentBet, seat.Chips)
		seat.Chips -= toCall
		seat.CurrentBet += toCall
		r.Pot += toCall

	case ActionBet, ActionRaise:
		if seat.Chips == 0 {
			return errors.New("no chips left to bet")
		}
		amount := act.Amount
		if amount <= 0 {
			amount = r.Settings.BigBlind
		}
		if amount < r.Settings.BigBlind {
			amount = r.Settings.BigBlind
		}
		if amount > seat.Chips {
			amount = seat.Chips // all-in
		}
		seat.Chips -= amount
		seat.CurrentBet += amount
		r.Pot += amount
		if seat.CurrentBet > r.CurrentBet {
			r.CurrentBet = seat.CurrentBet
		}
		r.LastRaiserIdx = idx
		// Everyone else must respond to the raise
		r.ActionsLeft = r.countNonFolded() - 1
	}

	if act.Type != ActionBet && act.Type != ActionRaise {
		r.ActionsLeft--
	}

	r.finishBettingAction()
	return nil
}

// forceFold folds the seat at idx regardless of which action produced the
// fold (player action, timeout, disconnect, bot protocol violation).
func (r *Room) forceFold(idx int) {
	seat := r.Seats[idx]
	seat.Folded = true
	seat.IsTurn = false

	if r.Phase == PhaseDraw {
		if r.countNonFolded() == 1 {
			r.resolveShowdown()
			return
		}
		r.finishDrawAction()
		return
	}

	// Folding down to one seat ends the hand immediately; the remaining
	// community cards are never dealt.
	if r.countNonFolded() == 1 {
		r.resolveShowdown()
		return
	}

	r.ActionsLeft--
	r.finishBettingAction()
}

// finishBettingAction rotates the turn and advances the phase if the round
// is complete
func (r *Room) finishBettingAction() {
	r.advanceTurn()
	if r.roundComplete() {
		r.advancePhase()
	}
}

// roundComplete reports whether the betting round is over: either everyone
// still in the hand has acted and matched the table bet (all-in seats count
// as matched), or at most one seat can still wager (the all-in shortcut).
func (r *Room) roundComplete() bool {
	matched := true
	for _, s := range r.Seats {
		if s.Folded {
			continue
		}
		if s.Chips > 0 && s.CurrentBet != r.CurrentBet {
			matched = false
			break
		}
	}
	if !matched {
		return false
	}
	if r.countCanAct() <= 1 {
		return true
	}
	return r.ActionsLeft <= 0
}
