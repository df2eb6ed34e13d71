package game

import (
	"github.com/mkrall/pokerroom/poker"
)

// Variant names a poker ruleset. The zero value is not valid; use
// DefaultVariant for fallbacks.
type Variant string

const (
	VariantHoldem    Variant = "holdem"
	VariantOmaha     Variant = "omaha"
	VariantOmahaHiLo Variant = "omaha_hilo"
	VariantStud7     Variant = "stud7"
	VariantDraw5     Variant = "draw5"
	VariantShortDeck Variant = "shortdeck"
	VariantThreeCard Variant = "threecard"
)

// DefaultVariant is used when a room is created without naming a game.
const DefaultVariant = VariantHoldem

// VariantConfig fixes the rules of a variant: how many cards each seat
// holds, how many community cards are dealt, how hands are ranked, whether a
// discard/draw step exists and which deck is used. This table is read-only
// domain configuration.
type VariantConfig struct {
	HoleCards      int
	CommunityCards int
	EvalMode       poker.Mode
	HasDiscard     bool
	Deck           poker.DeckType
	Description    string
}

var variantConfigs = map[Variant]VariantConfig{
	VariantHoldem: {
		HoleCards:      2,
		CommunityCards: 5,
		EvalMode:       poker.ModeStandard,
		Deck:           poker.DeckStandard,
		Description:    "Texas Hold'em - 2 cards, 5 community",
	},
	VariantOmaha: {
		HoleCards:      4,
		CommunityCards: 5,
		EvalMode:       poker.ModeOmaha,
		Deck:           poker.DeckStandard,
		Description:    "Omaha - 4 cards, must use exactly 2",
	},
	// Hi/lo split payout is not implemented; the pot goes to the high hand.
	VariantOmahaHiLo: {
		HoleCards:      4,
		CommunityCards: 5,
		EvalMode:       poker.ModeOmaha,
		Deck:           poker.DeckStandard,
		Description:    "Omaha Hi-Lo - Split pot high/low (high hand only)",
	},
	VariantStud7: {
		HoleCards:      7,
		CommunityCards: 0,
		EvalMode:       poker.ModeStandard,
		Deck:           poker.DeckStandard,
		Description:    "7-Card Stud - 7 cards, no community",
	},
	VariantDraw5: {
		HoleCards:      5,
		CommunityCards: 0,
		EvalMode:       poker.ModeStandard,
		HasDiscard:     true,
		Deck:           poker.DeckStandard,
		Description:    "5-Card Draw - Discard and replace",
	},
	VariantShortDeck: {
		HoleCards:      2,
		CommunityCards: 5,
		EvalMode:       poker.ModeStandard,
		Deck:           poker.DeckShort,
		Description:    "Short Deck (6+) - No 2-5 cards",
	},
	VariantThreeCard: {
		HoleCards:      3,
		CommunityCards: 0,
		EvalMode:       poker.ModeThree,
		Deck:           poker.DeckStandard,
		Description:    "3-Card Poker - Fast casino style",
	},
}

// MaxSeats is the largest table the variant's deck can serve: hole cards for
// every seat plus the community cards, with a full replacement hand per seat
// reserved in discard variants. Never above the 10-seat table limit.
func (c VariantConfig) MaxSeats() int {
	perSeat := c.HoleCards
	if c.HasDiscard {
		perSeat *= 2
	}
	return min((c.Deck.Size()-c.CommunityCards)/perSeat, 10)
}

// Valid reports whether the variant is known
func (v Variant) Valid() bool {
	_, ok := variantConfigs[v]
	return ok
}

// Config returns the variant's rule table. Unknown variants fall back to
// hold'em so a malformed create_room payload cannot wedge a room.
func (v Variant) Config() VariantConfig {
	if cfg, ok := variantConfigs[v]; ok {
		return cfg
	}
	return variantConfigs[DefaultVariant]
}

// Variants lists all known variants
func Variants() []Variant {
	out := make([]Variant, 0, len(variantConfigs))
	for v := range variantConfigs {
		out = append(out, v)
	}
	return out
}
