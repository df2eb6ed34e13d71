package game

import (
	rand "math/rand/v2"

	"github.com/mkrall/pokerroom/poker"
)

// Heuristic action selection for bot-controlled seats. This is a pure
// function of room and seat state; the caller owns scheduling (thinking
// delay) and must re-validate the seat still holds the turn before applying
// the result.

const (
	// botBetChance is how often a bot bets instead of checking when free to check
	botBetChance = 0.1
	// botBluffChance is how often a bot calls a large bet with a weak hand
	botBluffChance = 0.1
)

// BotDecide picks an action for the bot seat at seatIdx.
func BotDecide(r *Room, seatIdx int, rng *rand.Rand) Action {
	if r.Phase == PhaseShowdown {
		return Action{Type: ActionNext}
	}

	seat := r.Seats[seatIdx]
	owed := r.CurrentBet - seat.CurrentBet
	bb := r.Settings.BigBlind

	// Free to check: mostly check, occasionally probe with a bet of one big
	// blind. Never probe preflop.
	if owed <= 0 {
		if r.Phase != PhasePreflop && rng.Float64() < botBetChance {
			return Action{Type: ActionBet, Amount: bb}
		}
		return Action{Type: ActionCheck}
	}

	// Always call small bets
	if owed <= 2*bb {
		return Action{Type: ActionCall}
	}

	// Facing a big bet: call with a pair or better. Bots always rank hand
	// strength in standard mode; the variant's showdown mode may not accept
	// a partial board.
	rank, err := poker.Evaluate(seat.HoleCards, r.Community, poker.ModeStandard)
	if err != nil {
		// Oracle failure degrades the bot to a fold
		r.logger.Error("bot hand evaluation failed", "player", seat.Name, "error", err)
		return Action{Type: ActionFold}
	}
	if rank.Type() >= poker.Pair {
		return Action{Type: ActionCall}
	}

	// Small chance to call anyway so the bot is not perfectly readable
	if rng.Float64() < botBluffChance {
		return Action{Type: ActionCall}
	}
	return Action{Type: ActionFold}
}

// BotDrawDecision returns the hole-card indices a bot discards in the draw
// phase. Bots keep made hands and otherwise throw away everything that is
// not part of a pair or better.
func BotDrawDecision(r *Room, seatIdx int) []int {
	seat := r.Seats[seatIdx]

	counts := make(map[poker.Rank]int, len(seat.HoleCards))
	for _, c := range seat.HoleCards {
		counts[c.Rank]++
	}

	var discard []int
	for i, c := range seat.HoleCards {
		if counts[c.Rank] < 2 && c.Rank < poker.Jack {
			discard = append(discard, i)
		}
	}
	// Keep at least two cards so the hand stays recognisable
	if len(discard) > 3 {
		discard = discard[:3]
	}
	return discard
}
