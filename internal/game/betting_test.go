package game

import (
	"errors"
	"testing"
)

// actingSeat fails the test if no live seat holds the turn
func actingSeat(t *testing.T, r *Room) *Seat {
	t.Helper()
	seat := r.CurrentSeat()
	if seat == nil {
		t.Fatalf("no acting seat in phase %v", r.Phase)
	}
	return seat
}

func TestCheckRejectedWhenOwing(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	sb := actingSeat(t, r) // small blind owes 5
	err := r.ApplyAction(sb.UserID, Action{Type: ActionCheck})
	if !errors.Is(err, ErrCannotCheck) {
		t.Fatalf("expected ErrCannotCheck, got %v", err)
	}
	// No state change on rejection
	if !sb.IsTurn || sb.CurrentBet != 5 || r.Pot != 15 {
		t.Error("rejected check mutated state")
	}
}

func TestActionOutOfTurnRejected(t *testing.T) {
	r := newTestRoom(t, 3, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	acting := actingSeat(t, r)
	for _, s := range r.Seats {
		if s == acting {
			continue
		}
		if err := r.ApplyAction(s.UserID, Action{Type: ActionCall}); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("expected ErrNotYourTurn for %s, got %v", s.Name, err)
		}
	}
}

func TestActionInWaitingRejected(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.ApplyAction("user-0", Action{Type: ActionCall}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("expected ErrWrongPhase, got %v", err)
	}
}

func TestUnknownSeatRejected(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := r.ApplyAction("stranger", Action{Type: ActionFold}); !errors.Is(err, ErrSeatNotFound) {
		t.Errorf("expected ErrSeatNotFound, got %v", err)
	}
}

func TestNegativeAmountRejected(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	seat := actingSeat(t, r)
	if err := r.ApplyAction(seat.UserID, Action{Type: ActionBet, Amount: -50}); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestCallRejectedWhenNothingOwed(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	if err := r.ApplyAction(actingSeat(t, r).UserID, Action{Type: ActionCall}); err != nil {
		t.Fatal(err)
	}

	// Big blind option: bets are matched, so check is the only passive action
	bb := actingSeat(t, r)
	if err := r.ApplyAction(bb.UserID, Action{Type: ActionCall}); err == nil {
		t.Error("call with nothing owed should be rejected")
	}
	if !bb.IsTurn || r.Pot != 20 {
		t.Error("rejected call mutated state")
	}
}

func TestCallShortStackGoesAllIn(t *testing.T) {
	// Facing a bet of 50 with 30 chips: call puts in 30, not 50, and the
	// round completes without waiting on the all-in seat again.
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	sb := actingSeat(t, r)
	bb := r.Seats[(r.DealerIdx+2)%2]

	// SB raises to 50 total
	if err := r.ApplyAction(sb.UserID, Action{Type: ActionBet, Amount: 45}); err != nil {
		t.Fatal(err)
	}
	if r.CurrentBet != 50 {
		t.Fatalf("current bet = %d, want 50", r.CurrentBet)
	}

	// Shrink the BB stack so the call is short
	bb.Chips = 30

	if err := r.ApplyAction(bb.UserID, Action{Type: ActionCall}); err != nil {
		t.Fatal(err)
	}

	if bb.Chips != 0 {
		t.Errorf("bb chips = %d, want 0", bb.Chips)
	}
	if !bb.AllIn() {
		t.Error("bb should be all-in")
	}
	// The all-in shortcut must run the board out to showdown and pay the pot
	if r.Phase != PhaseShowdown {
		t.Errorf("phase = %v, want showdown", r.Phase)
	}
	if r.Pot != 0 {
		t.Errorf("pot = %d after run-out", r.Pot)
	}
	if len(r.Community) != 5 {
		t.Errorf("community = %d cards, want 5", len(r.Community))
	}
}

func TestCallShortStackAmount(t *testing.T) {
	r := newTestRoom(t, 3, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	// First to act raises big
	first := actingSeat(t, r)
	if err := r.ApplyAction(first.UserID, Action{Type: ActionBet, Amount: 100}); err != nil {
		t.Fatal(err)
	}

	second := actingSeat(t, r)
	second.Chips = 30
	owed := r.CurrentBet - second.CurrentBet
	if owed <= 30 {
		t.Fatalf("test setup: owed %d should exceed stack", owed)
	}
	potBefore := r.Pot
	betBefore := second.CurrentBet

	if err := r.ApplyAction(second.UserID, Action{Type: ActionCall}); err != nil {
		t.Fatal(err)
	}

	if second.Chips != 0 {
		t.Errorf("chips = %d, want 0", second.Chips)
	}
	if second.CurrentBet != betBefore+30 {
		t.Errorf("current bet = %d, want %d (short call)", second.CurrentBet, betBefore+30)
	}
	if r.Pot != potBefore+30 {
		t.Errorf("pot increased by %d, want 30", r.Pot-potBefore)
	}
}

func TestFoldToOneEndsHandImmediately(t *testing.T) {
	r := newTestRoom(t, 3, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	pot := r.Pot
	bbSeat := r.Seats[(r.DealerIdx+2)%3]
	chipsBefore := bbSeat.Chips

	// Everyone folds to the big blind
	if err := r.ApplyAction(actingSeat(t, r).UserID, Action{Type: ActionFold}); err != nil {
		t.Fatal(err)
	}
	if err := r.ApplyAction(actingSeat(t, r).UserID, Action{Type: ActionFold}); err != nil {
		t.Fatal(err)
	}

	if r.Phase != PhaseShowdown {
		t.Fatalf("phase = %v, want showdown", r.Phase)
	}
	if len(r.Community) != 0 {
		t.Error("community cards dealt despite uncontested win")
	}
	if r.WinningHand != "Last player standing" {
		t.Errorf("winning hand = %q", r.WinningHand)
	}
	if bbSeat.Chips != chipsBefore+pot {
		t.Errorf("winner chips = %d, want %d", bbSeat.Chips, chipsBefore+pot)
	}
	if r.Pot != 0 {
		t.Errorf("pot = %d after payout", r.Pot)
	}
}

func TestBetDefaultsAndFloorsToBigBlind(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	sb := actingSeat(t, r)
	// Unspecified amount defaults to one big blind
	if err := r.ApplyAction(sb.UserID, Action{Type: ActionBet}); err != nil {
		t.Fatal(err)
	}
	if sb.CurrentBet != 15 { // 5 blind + 10 default bet
		t.Errorf("current bet = %d, want 15", sb.CurrentBet)
	}
	if r.CurrentBet != 15 {
		t.Errorf("room current bet = %d, want 15", r.CurrentBet)
	}
	if r.LastRaiserIdx != r.SeatIndexByUser(sb.UserID) {
		t.Errorf("last raiser not set to bettor")
	}
}

func TestRaiseResetsActionsLeft(t *testing.T) {
	r := newTestRoom(t, 4, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	// First player calls, second raises: everyone else must act again
	if err := r.ApplyAction(actingSeat(t, r).UserID, Action{Type: ActionCall}); err != nil {
		t.Fatal(err)
	}
	raiser := actingSeat(t, r)
	if err := r.ApplyAction(raiser.UserID, Action{Type: ActionRaise, Amount: 40}); err != nil {
		t.Fatal(err)
	}

	if r.ActionsLeft != 3 { // 4 non-folded minus the raiser
		t.Errorf("actions left = %d, want 3", r.ActionsLeft)
	}
}

func TestBetCappedAtStack(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	sb := actingSeat(t, r)
	if err := r.ApplyAction(sb.UserID, Action{Type: ActionBet, Amount: 5000}); err != nil {
		t.Fatal(err)
	}
	if sb.Chips != 0 {
		t.Errorf("over-bet should cap at stack, chips = %d", sb.Chips)
	}
	if sb.CurrentBet != 1000 {
		t.Errorf("current bet = %d, want 1000", sb.CurrentBet)
	}
}

func TestHeadsUpBigBlindGetsOption(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	sb := actingSeat(t, r)
	if err := r.ApplyAction(sb.UserID, Action{Type: ActionCall}); err != nil {
		t.Fatal(err)
	}

	// Bets are matched but the big blind has not acted yet
	if r.Phase != PhasePreflop {
		t.Fatalf("round ended before big blind option, phase = %v", r.Phase)
	}
	bb := actingSeat(t, r)
	if err := r.ApplyAction(bb.UserID, Action{Type: ActionCheck}); err != nil {
		t.Fatal(err)
	}
	if r.Phase != PhaseFlop {
		t.Errorf("phase = %v, want flop", r.Phase)
	}
	if len(r.Community) != 3 {
		t.Errorf("community = %d cards, want 3", len(r.Community))
	}
}

func TestNextOnlyAtShowdown(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	seat := actingSeat(t, r)
	if err := r.ApplyAction(seat.UserID, Action{Type: ActionNext}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("expected ErrWrongPhase, got %v", err)
	}
}

func TestBetsResetEachStreet(t *testing.T) {
	r := newTestRoom(t, 2, testSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	if err := r.ApplyAction(actingSeat(t, r).UserID, Action{Type: ActionCall}); err != nil {
		t.Fatal(err)
	}
	if err := r.ApplyAction(actingSeat(t, r).UserID, Action{Type: ActionCheck}); err != nil {
		t.Fatal(err)
	}

	if r.Phase != PhaseFlop {
		t.Fatalf("phase = %v", r.Phase)
	}
	if r.CurrentBet != 0 {
		t.Errorf("room current bet = %d, want 0", r.CurrentBet)
	}
	for _, s := range r.Seats {
		if s.CurrentBet != 0 {
			t.Errorf("%s current bet = %d, want 0", s.Name, s.CurrentBet)
		}
	}
	// Post-flop the seat after the dealer acts first
	if r.TurnIdx != r.nextEligible((r.DealerIdx+1)%2) {
		t.Errorf("wrong first actor post-flop")
	}
	if r.LastRaiserIdx != r.DealerIdx {
		t.Errorf("last raiser sentinel not set to dealer")
	}
}
