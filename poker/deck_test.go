package poker

import (
	"testing"

	"github.com/mkrall/pokerroom/internal/randutil"
)

func TestNewDeckStandard(t *testing.T) {
	d := NewDeck(randutil.New(1), DeckStandard)
	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}

	seen := make(map[Card]bool)
	for {
		c, ok := d.DealOne()
		if !ok {
			break
		}
		if seen[c] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestNewDeckShortOmitsLowRanks(t *testing.T) {
	d := NewDeck(randutil.New(1), DeckShort)
	if d.Remaining() != 36 {
		t.Fatalf("expected 36 cards, got %d", d.Remaining())
	}

	for _, c := range d.Deal(36) {
		if c.Rank < Six {
			t.Errorf("short deck contains %s", c)
		}
	}
}

func TestShortDeckCoversSevenSeats(t *testing.T) {
	// 7 seats x 2 hole cards + 5 community = 19 cards from 36
	d := NewDeck(randutil.New(7), DeckShort)
	for seat := 0; seat < 7; seat++ {
		if cards := d.Deal(2); cards == nil {
			t.Fatalf("deck underflow dealing to seat %d", seat)
		}
	}
	if cards := d.Deal(5); cards == nil {
		t.Fatal("deck underflow dealing community cards")
	}
	if d.Remaining() != 36-19 {
		t.Errorf("expected %d cards remaining, got %d", 36-19, d.Remaining())
	}
}

func TestDealPastEndPanics(t *testing.T) {
	d := NewDeck(randutil.New(3), DeckStandard)
	d.Deal(50)
	defer func() {
		if recover() == nil {
			t.Error("expected panic dealing past the end of the deck")
		}
		if d.Remaining() != 2 {
			t.Errorf("failed deal should not consume cards, %d remaining", d.Remaining())
		}
	}()
	d.Deal(3)
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	a := NewDeck(randutil.New(42), DeckStandard).Deal(52)
	b := NewDeck(randutil.New(42), DeckStandard).Deal(52)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different decks at %d: %s vs %s", i, a[i], b[i])
		}
	}
}
