package game

import (
	"errors"
	"testing"
)

func drawSettings() Settings {
	s := testSettings()
	s.Variant = VariantDraw5
	return s
}

func TestDrawPhaseFlow(t *testing.T) {
	r := newTestRoom(t, 2, drawSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	if r.Phase != PhaseDraw {
		t.Fatalf("phase = %v, want draw", r.Phase)
	}
	if r.Pot != 15 {
		t.Errorf("blinds not posted before draw: pot = %d", r.Pot)
	}

	first := actingSeat(t, r)
	old := []string{first.HoleCards[0].String(), first.HoleCards[4].String()}
	if err := r.DiscardAndDraw(first.UserID, []int{0, 4}); err != nil {
		t.Fatalf("DiscardAndDraw: %v", err)
	}
	if len(first.HoleCards) != 5 {
		t.Errorf("hand size = %d after draw, want 5", len(first.HoleCards))
	}
	if len(first.Discarded) != 2 {
		t.Errorf("discarded = %d cards, want 2", len(first.Discarded))
	}
	for _, c := range first.HoleCards {
		if c.String() == old[0] || c.String() == old[1] {
			t.Errorf("discarded card %s still in hand", c)
		}
	}

	// Second player stands pat, which closes the draw round
	second := actingSeat(t, r)
	if err := r.DiscardAndDraw(second.UserID, nil); err != nil {
		t.Fatalf("stand pat: %v", err)
	}
	if len(second.Discarded) != 0 {
		t.Error("stand pat discarded cards")
	}

	if r.Phase != PhasePreflop {
		t.Fatalf("phase = %v after draw round, want preflop", r.Phase)
	}
	if r.CurrentBet != 10 {
		t.Errorf("blind bet lost across draw: current bet = %d", r.CurrentBet)
	}
	if actingSeat(t, r) != first {
		t.Error("betting should open on the small blind")
	}
}

func TestDrawRejectsBadIndices(t *testing.T) {
	r := newTestRoom(t, 2, drawSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	seat := actingSeat(t, r)

	if err := r.DiscardAndDraw(seat.UserID, []int{5}); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := r.DiscardAndDraw(seat.UserID, []int{1, 1}); err == nil {
		t.Error("expected error for duplicate index")
	}
	// Rejected draws leave the turn in place
	if !seat.IsTurn || len(seat.Discarded) != 0 {
		t.Error("rejected draw mutated state")
	}
}

func TestDrawOnlyInDrawPhase(t *testing.T) {
	r := newTestRoom(t, 2, testSettings()) // holdem has no draw
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	seat := actingSeat(t, r)
	if err := r.DiscardAndDraw(seat.UserID, []int{0}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("expected ErrWrongPhase, got %v", err)
	}
}

func TestDrawOutOfTurn(t *testing.T) {
	r := newTestRoom(t, 3, drawSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	acting := actingSeat(t, r)
	for _, s := range r.Seats {
		if s == acting {
			continue
		}
		if err := r.DiscardAndDraw(s.UserID, nil); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("expected ErrNotYourTurn for %s, got %v", s.Name, err)
		}
	}
}

func TestNoBettingDuringDraw(t *testing.T) {
	r := newTestRoom(t, 2, drawSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}
	seat := actingSeat(t, r)
	if err := r.ApplyAction(seat.UserID, Action{Type: ActionCall}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("expected ErrWrongPhase, got %v", err)
	}
}

func TestDrawAllInBlindStillDraws(t *testing.T) {
	// Buy-in equal to the big blind: heads-up the dealer posts the big blind
	// and is all-in before the draw. Drawing is not a wager, so the seat
	// still exchanges cards.
	s := drawSettings()
	s.BuyIn = 10
	r := newTestRoom(t, 2, s)
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	bb := r.Seats[r.DealerIdx]
	sb := r.Seats[(r.DealerIdx+1)%2]
	if bb.Chips != 0 {
		t.Fatalf("big blind chips = %d, want 0 (all-in)", bb.Chips)
	}

	if actingSeat(t, r) != sb {
		t.Fatal("draw should start with the small blind")
	}
	if err := r.DiscardAndDraw(sb.UserID, []int{0}); err != nil {
		t.Fatal(err)
	}

	if actingSeat(t, r) != bb {
		t.Fatal("all-in seat skipped in the draw round")
	}
	if err := r.DiscardAndDraw(bb.UserID, []int{0, 1}); err != nil {
		t.Fatalf("all-in draw rejected: %v", err)
	}
	if len(bb.HoleCards) != 5 {
		t.Errorf("hand size = %d after draw, want 5", len(bb.HoleCards))
	}

	// Only one seat can still wager, so the hand runs straight to showdown
	if r.Phase != PhaseShowdown {
		t.Errorf("phase = %v, want showdown", r.Phase)
	}
}

func TestDrawEachSeatDrawsOnce(t *testing.T) {
	r := newTestRoom(t, 3, drawSettings())
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	first := actingSeat(t, r)
	if err := r.DiscardAndDraw(first.UserID, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.DiscardAndDraw(first.UserID, nil); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("second draw by the same seat: got %v, want ErrNotYourTurn", err)
	}
}

func TestDrawFullTableRedrawsWithinDeck(t *testing.T) {
	// Five seats is the draw5 table cap: 25 cards dealt plus 25 replacements
	// fits the 52-card deck
	s := drawSettings()
	s.MaxPlayers = 5
	r := newTestRoom(t, 5, s)
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	for r.Phase == PhaseDraw {
		seat := actingSeat(t, r)
		if err := r.DiscardAndDraw(seat.UserID, []int{0, 1, 2, 3, 4}); err != nil {
			t.Fatal(err)
		}
		if len(seat.HoleCards) != 5 {
			t.Fatalf("%s hand size = %d after full redraw", seat.Name, len(seat.HoleCards))
		}
	}
	if r.Phase != PhasePreflop {
		t.Errorf("phase = %v after draw round, want preflop", r.Phase)
	}
}

func TestDrawHandPlaysToShowdown(t *testing.T) {
	r := newTestRoom(t, 3, drawSettings())
	start := totalChips(r)
	if err := r.StartHand(); err != nil {
		t.Fatal(err)
	}

	for r.Phase == PhaseDraw {
		seat := actingSeat(t, r)
		if err := r.DiscardAndDraw(seat.UserID, []int{0}); err != nil {
			t.Fatal(err)
		}
	}
	for r.Phase.Betting() {
		seat := actingSeat(t, r)
		act := Action{Type: ActionCheck}
		if seat.CurrentBet < r.CurrentBet {
			act = Action{Type: ActionCall}
		}
		if err := r.ApplyAction(seat.UserID, act); err != nil {
			t.Fatal(err)
		}
	}

	if r.Phase != PhaseShowdown {
		t.Fatalf("phase = %v, want showdown", r.Phase)
	}
	if len(r.Community) != 0 {
		t.Error("draw variant dealt community cards")
	}
	if got := totalChips(r); got != start {
		t.Errorf("chips not conserved: %d != %d", got, start)
	}
}
