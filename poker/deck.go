package poker

import (
	"fmt"
	rand "math/rand/v2"
)

// DeckType selects the deck composition for a game variant.
type DeckType int

const (
	// DeckStandard is the full 52-card deck.
	DeckStandard DeckType = iota
	// DeckShort is the 36-card short deck ("6+"), omitting ranks 2-5.
	DeckShort
)

func (dt DeckType) String() string {
	switch dt {
	case DeckShort:
		return "shortdeck"
	default:
		return "standard"
	}
}

func (dt DeckType) lowRank() Rank {
	if dt == DeckShort {
		return Six
	}
	return Two
}

// Size returns the number of cards in a fresh deck of this type
func (dt DeckType) Size() int {
	return int(Ace-dt.lowRank()+1) * 4
}

// Deck is an ordered sequence of unique cards, consumed from the front.
// A deck is built fresh per hand and never reused across hands.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with an explicit RNG
func NewDeck(rng *rand.Rand, dt DeckType) *Deck {
	d := &Deck{
		cards: make([]Card, 0, dt.Size()),
		rng:   rng,
	}

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := dt.lowRank(); rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}

	d.Shuffle()
	return d
}

// Shuffle shuffles the remaining cards using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns n cards from the top of the deck. Asking for more
// cards than remain is a seat-accounting bug in the caller and panics; tables
// are sized so a hand can never exhaust its deck.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		panic(fmt.Sprintf("poker: deal %d cards with %d remaining", n, len(d.cards)))
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// DealOne removes and returns the top card
func (d *Deck) DealOne() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
