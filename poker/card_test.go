package poker

import (
	"testing"
)

func TestParseCardRoundTrip(t *testing.T) {
	for _, s := range []string{"As", "Td", "2c", "9h", "Kd"} {
		c, err := ParseCard(s)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", s, err)
		}
		if c.String() != s {
			t.Errorf("round trip %q -> %q", s, c.String())
		}
	}
}

func TestParseCardInvalid(t *testing.T) {
	for _, s := range []string{"", "A", "1s", "Ax", "10s"} {
		if _, err := ParseCard(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestCardDisplay(t *testing.T) {
	tests := []struct {
		card string
		want string
	}{
		{"As", "A♠"},
		{"Th", "10♥"},
		{"2d", "2♦"},
		{"Kc", "K♣"},
	}
	for _, tt := range tests {
		c, _ := ParseCard(tt.card)
		if got := c.Display(); got != tt.want {
			t.Errorf("Display(%s) = %q, want %q", tt.card, got, tt.want)
		}
	}
}
