package game

import (
	"github.com/mkrall/pokerroom/poker"
)

// resolveShowdown compares the remaining hands, pays the pot and leaves the
// room in the showdown phase until a "next" action starts the following hand.
func (r *Room) resolveShowdown() {
	r.Phase = PhaseShowdown
	for _, s := range r.Seats {
		s.IsTurn = false
	}

	var active []*Seat
	for _, s := range r.Seats {
		if !s.Folded {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		r.Pot = 0
		return
	}

	if len(active) == 1 {
		winner := active[0]
		winner.Chips += r.Pot
		r.Winners = []string{winner.Name}
		r.WinningHand = "Last player standing"
		r.logger.Info("hand won uncontested", "player", winner.Name, "pot", r.Pot)
		r.Pot = 0
		return
	}

	cfg := r.Settings.Variant.Config()

	// An oracle failure on one hand excludes that hand rather than taking
	// the room down.
	var (
		evaluated []*Seat
		ranks     []poker.HandRank
	)
	for _, s := range active {
		rank, err := poker.Evaluate(s.HoleCards, r.Community, cfg.EvalMode)
		if err != nil {
			r.logger.Error("hand evaluation failed", "player", s.Name, "error", err)
			continue
		}
		evaluated = append(evaluated, s)
		ranks = append(ranks, rank)
	}
	if len(evaluated) == 0 {
		r.logger.Error("no hands could be evaluated, pot forfeited", "pot", r.Pot)
		r.Pot = 0
		return
	}

	winnerIdx := poker.SelectWinners(ranks)
	winners := make(map[*Seat]bool, len(winnerIdx))
	for _, i := range winnerIdx {
		winners[evaluated[i]] = true
	}
	r.WinningHand = ranks[winnerIdx[0]].String()

	r.payPot(winners)
}

// payPot splits the pot among the winners in seat order starting after the
// dealer; the first winner in that order receives any odd remainder.
func (r *Room) payPot(winners map[*Seat]bool) {
	n := len(r.Seats)
	var ordered []*Seat
	for i := 1; i <= n; i++ {
		s := r.Seats[(r.DealerIdx+i)%n]
		if winners[s] {
			ordered = append(ordered, s)
		}
	}

	share := r.Pot / len(ordered)
	rem := r.Pot % len(ordered)

	r.Winners = r.Winners[:0]
	for i, s := range ordered {
		amount := share
		if i == 0 {
			amount += rem
		}
		s.Chips += amount
		r.Winners = append(r.Winners, s.Name)
		r.logger.Info("hand won", "player", s.Name, "hand", r.WinningHand, "amount", amount)
	}
	r.Pot = 0
}
