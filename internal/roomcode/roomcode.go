// Package roomcode generates the short join codes players type to enter a
// room. Codes use an unambiguous alphabet (no 0/O, 1/I) so they survive being
// read aloud.
package roomcode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet is the set of characters room codes are drawn from.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the fixed room code length.
const Length = 6

// RandSource allows deterministic code generation in tests.
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource uses crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate returns a new 6-character room code. Uniqueness against live rooms
// is the registry's responsibility; this is raw generation only.
func (g *Generator) Generate() string {
	var sb strings.Builder
	sb.Grow(Length)

	if g.randSource != nil {
		for i := 0; i < Length; i++ {
			sb.WriteByte(Alphabet[g.randSource.IntN(len(Alphabet))])
		}
		return sb.String()
	}

	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}
	for _, b := range buf {
		sb.WriteByte(Alphabet[int(b)%len(Alphabet)])
	}
	return sb.String()
}

// Generate returns a new room code using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Validate checks that a code has the right length and alphabet.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return fmt.Errorf("invalid character %c at position %d", code[i], i)
		}
	}
	return nil
}

// Normalize upper-cases a user-entered code before lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
