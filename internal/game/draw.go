package game

import (
	"fmt"
)

// Draw-phase handling for discard variants (5-card draw). The draw phase
// runs once per hand between the deal and the first betting round: each seat
// in turn order discards up to its whole hand and draws replacements.

// DiscardAndDraw replaces the cards at the given hole-card indices for the
// acting seat. An empty index list stands pat. Indices must be unique and in
// range.
func (r *Room) DiscardAndDraw(userID string, indices []int) error {
	idx := r.SeatIndexByUser(userID)
	if idx < 0 {
		return ErrSeatNotFound
	}
	if r.Phase != PhaseDraw {
		return ErrWrongPhase
	}
	if idx != r.TurnIdx || !r.Seats[idx].IsTurn {
		return ErrNotYourTurn
	}

	seat := r.Seats[idx]

	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(seat.HoleCards) {
			return fmt.Errorf("discard index %d out of range", i)
		}
		if seen[i] {
			return fmt.Errorf("duplicate discard index %d", i)
		}
		seen[i] = true
	}

	if len(indices) > 0 {
		kept := seat.HoleCards[:0:0]
		for i, c := range seat.HoleCards {
			if seen[i] {
				seat.Discarded = append(seat.Discarded, c)
			} else {
				kept = append(kept, c)
			}
		}
		seat.HoleCards = append(kept, r.deck.Deal(len(indices))...)
		r.logger.Debug("draw", "player", seat.Name, "discarded", len(indices))
	}

	seat.drawn = true
	r.finishDrawAction()
	return nil
}

// finishDrawAction passes the draw to the next seat still owed one and opens
// betting once every live seat has drawn
func (r *Room) finishDrawAction() {
	for _, s := range r.Seats {
		s.IsTurn = false
	}
	if next := r.nextDrawer((r.TurnIdx + 1) % len(r.Seats)); next >= 0 {
		r.TurnIdx = next
		r.markTurn()
		return
	}
	r.beginPostDrawBetting()
}

// nextDrawer returns the first seat at or after from that is still in the
// hand and has not drawn, or -1. Unlike nextEligible this does not skip
// all-in seats; a seat that went all-in on its blind still exchanges cards.
func (r *Room) nextDrawer(from int) int {
	n := len(r.Seats)
	for i := 0; i < n; i++ {
		pos := (from + i) % n
		if s := r.Seats[pos]; !s.Folded && !s.drawn {
			return pos
		}
	}
	return -1
}

// beginPostDrawBetting opens the hand's betting round with the blinds still
// live, exactly as a preflop round would start
func (r *Room) beginPostDrawBetting() {
	n := len(r.Seats)
	bbIdx := (r.DealerIdx + 2) % n

	r.Phase = PhasePreflop
	r.TurnIdx = r.nextEligible((bbIdx + 1) % n)
	r.LastRaiserIdx = bbIdx
	r.ActionsLeft = r.countNonFolded()
	r.markTurn()

	if r.countCanAct() <= 1 {
		r.advancePhase()
	}
}
