package poker

import (
	"fmt"
	"sort"
)

// Mode selects how hole and board cards combine into a ranked hand.
// Ranks are totally ordered and comparable across calls within the same mode.
type Mode int

const (
	// ModeStandard picks the best hand of up to five cards from hole+board.
	ModeStandard Mode = iota
	// ModeOmaha uses exactly two hole cards and exactly three board cards.
	ModeOmaha
	// ModeThree ranks a fixed three-card hand with the three-card ladder
	// (trips beat straights, straights beat flushes).
	ModeThree
)

func (m Mode) String() string {
	switch m {
	case ModeOmaha:
		return "omaha"
	case ModeThree:
		return "threecard"
	default:
		return "standard"
	}
}

// HandType enumerates the categories of poker hands.
type HandType int

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand description
func (ht HandType) String() string {
	switch ht {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank represents the strength of an evaluated hand. Higher values are
// stronger. Layout: 4-bit ladder position, 4-bit HandType, then up to five
// 4-bit tiebreaker ranks from most to least significant.
type HandRank uint32

// Type returns the category of the hand (pair, flush, etc.)
func (hr HandRank) Type() HandType {
	return HandType((hr >> 20) & 0xf)
}

// String returns the hand description, e.g. "Two Pair"
func (hr HandRank) String() string {
	return hr.Type().String()
}

func packRank(order int, ht HandType, tiebreaks []Rank) HandRank {
	v := uint32(order)<<24 | uint32(ht)<<20
	shift := 16
	for _, r := range tiebreaks {
		v |= uint32(r) << shift
		shift -= 4
	}
	return HandRank(v)
}

// threeCardOrder positions three-card hand types on the three-card ladder,
// where trips beat straights and straights beat flushes.
var threeCardOrder = map[HandType]int{
	HighCard:      0,
	Pair:          1,
	Flush:         2,
	Straight:      3,
	ThreeOfAKind:  4,
	StraightFlush: 5,
}

// Evaluate ranks the hand formed from hole and board cards under the given
// mode. It returns an error if the card counts cannot satisfy the mode.
func Evaluate(hole, board []Card, mode Mode) (HandRank, error) {
	switch mode {
	case ModeStandard:
		all := append(append([]Card{}, hole...), board...)
		if len(all) == 0 {
			return 0, fmt.Errorf("no cards to evaluate")
		}
		return evaluateBestFive(all), nil

	case ModeOmaha:
		if len(hole) < 2 || len(board) < 3 {
			return 0, fmt.Errorf("omaha requires 2+ hole and 3+ board cards, got %d/%d", len(hole), len(board))
		}
		var best HandRank
		combinations(len(hole), 2, func(hi []int) {
			combinations(len(board), 3, func(bi []int) {
				hand := []Card{
					hole[hi[0]], hole[hi[1]],
					board[bi[0]], board[bi[1]], board[bi[2]],
				}
				if r := evalFive(hand); r > best {
					best = r
				}
			})
		})
		return best, nil

	case ModeThree:
		all := append(append([]Card{}, hole...), board...)
		if len(all) != 3 {
			return 0, fmt.Errorf("three-card mode requires exactly 3 cards, got %d", len(all))
		}
		return evalThree(all), nil

	default:
		return 0, fmt.Errorf("unknown evaluation mode %d", mode)
	}
}

// SelectWinners returns the indices of every rank tied for best
func SelectWinners(ranks []HandRank) []int {
	if len(ranks) == 0 {
		return nil
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r > best {
			best = r
		}
	}

	var winners []int
	for i, r := range ranks {
		if r == best {
			winners = append(winners, i)
		}
	}
	return winners
}

// evaluateBestFive picks the strongest combination of up to five cards
func evaluateBestFive(cards []Card) HandRank {
	if len(cards) <= 5 {
		return evalFive(cards)
	}

	var best HandRank
	combinations(len(cards), 5, func(idx []int) {
		hand := make([]Card, 5)
		for i, j := range idx {
			hand[i] = cards[j]
		}
		if r := evalFive(hand); r > best {
			best = r
		}
	})
	return best
}

// evalFive ranks a hand of 1-5 cards. Straights and flushes only exist for
// complete five-card hands; partial hands (preflop bot evaluation) rank on
// pairs and high cards alone.
func evalFive(cards []Card) HandRank {
	quads, trips, pairs, singles := groupByRank(cards)

	flush := len(cards) == 5 && sameSuit(cards)
	straightHigh := Rank(0)
	if len(cards) == 5 {
		straightHigh = straightHighCard(cards)
	}

	switch {
	case flush && straightHigh != 0:
		return pack(StraightFlush, []Rank{straightHigh})
	case len(quads) == 1:
		return pack(FourOfAKind, append(quads, singles...))
	case len(trips) == 1 && len(pairs) >= 1:
		return pack(FullHouse, []Rank{trips[0], pairs[0]})
	case flush:
		return pack(Flush, ranksDesc(cards))
	case straightHigh != 0:
		return pack(Straight, []Rank{straightHigh})
	case len(trips) == 1:
		return pack(ThreeOfAKind, append(trips, singles...))
	case len(pairs) >= 2:
		return pack(TwoPair, append(pairs[:2:2], singles...))
	case len(pairs) == 1:
		return pack(Pair, append(pairs, singles...))
	default:
		return pack(HighCard, singles)
	}
}

func pack(ht HandType, tiebreaks []Rank) HandRank {
	return packRank(int(ht), ht, tiebreaks)
}

// evalThree ranks exactly three cards with the three-card ladder
func evalThree(cards []Card) HandRank {
	packThree := func(ht HandType, tiebreaks []Rank) HandRank {
		return packRank(threeCardOrder[ht], ht, tiebreaks)
	}

	_, trips, pairs, singles := groupByRank(cards)
	flush := sameSuit(cards)
	straightHigh := threeStraightHigh(cards)

	switch {
	case flush && straightHigh != 0:
		return packThree(StraightFlush, []Rank{straightHigh})
	case len(trips) == 1:
		return packThree(ThreeOfAKind, trips)
	case straightHigh != 0:
		return packThree(Straight, []Rank{straightHigh})
	case flush:
		return packThree(Flush, ranksDesc(cards))
	case len(pairs) == 1:
		return packThree(Pair, append(pairs, singles...))
	default:
		return packThree(HighCard, singles)
	}
}

// groupByRank splits the hand's ranks into quads, trips, pairs and singles,
// each sorted from high to low
func groupByRank(cards []Card) (quads, trips, pairs, singles []Rank) {
	var counts [int(Ace) + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}

	for r := Ace; r >= Two; r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		case 1:
			singles = append(singles, r)
		}
	}
	return quads, trips, pairs, singles
}

func sameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

func ranksDesc(cards []Card) []Rank {
	ranks := make([]Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
	return ranks
}

// straightHighCard returns the high card of a five-card straight, or 0.
// The wheel (A-5-4-3-2) counts as a five-high straight.
func straightHighCard(cards []Card) Rank {
	ranks := ranksDesc(cards)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return 0
		}
	}

	if ranks[0]-ranks[4] == 4 {
		return ranks[0]
	}
	// Wheel: A,5,4,3,2
	if ranks[0] == Ace && ranks[1] == Five && ranks[1]-ranks[4] == 3 {
		return Five
	}
	return 0
}

// threeStraightHigh returns the high card of a three-card straight, or 0.
// A-3-2 counts as a three-high straight.
func threeStraightHigh(cards []Card) Rank {
	ranks := ranksDesc(cards)
	if ranks[0] == ranks[1] || ranks[1] == ranks[2] {
		return 0
	}

	if ranks[0]-ranks[2] == 2 {
		return ranks[0]
	}
	if ranks[0] == Ace && ranks[1] == Three && ranks[2] == Two {
		return Three
	}
	return 0
}

// combinations invokes fn with every k-element index combination of [0, n)
func combinations(n, k int, fn func(idx []int)) {
	idx := make([]int, k)
	var walk func(start, pos int)
	walk = func(start, pos int) {
		if pos == k {
			fn(idx)
			return
		}
		for i := start; i <= n-(k-pos); i++ {
			idx[pos] = i
			walk(i+1, pos+1)
		}
	}
	walk(0, 0)
}
