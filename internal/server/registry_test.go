package server

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrall/pokerroom/internal/game"
	"github.com/mkrall/pokerroom/internal/randutil"
	"github.com/mkrall/pokerroom/internal/roomcode"
)

func testRegistry() *Registry {
	return NewRegistry(randutil.New(42), log.New(io.Discard))
}

func validSettings() game.Settings {
	return game.Settings{
		BuyIn:      1000,
		SmallBlind: 5,
		BigBlind:   10,
		MaxPlayers: 6,
		RoomName:   "test",
		Variant:    game.VariantHoldem,
	}
}

func TestRegistryCreateAssignsUniqueCodes(t *testing.T) {
	reg := testRegistry()

	codes := make(map[string]bool)
	for i := 0; i < 50; i++ {
		h, err := reg.Create("owner", validSettings())
		require.NoError(t, err)
		code := h.Room.Code
		require.NoError(t, roomcode.Validate(code))
		assert.False(t, codes[code], "duplicate room code %s", code)
		codes[code] = true
	}
	assert.Equal(t, 50, reg.Len())
}

func TestRegistryGetNormalizesCode(t *testing.T) {
	reg := testRegistry()
	h, err := reg.Create("owner", validSettings())
	require.NoError(t, err)

	got, ok := reg.Get(strings.ToLower(" " + h.Room.Code + " "))
	require.True(t, ok)
	assert.Same(t, h, got)
}

func TestRegistryDelete(t *testing.T) {
	reg := testRegistry()
	h, err := reg.Create("owner", validSettings())
	require.NoError(t, err)

	reg.Delete(h.Room.Code)
	_, ok := reg.Get(h.Room.Code)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())

	// Deleting a missing room is a no-op
	reg.Delete("NOSUCH")
}

func TestRegistryRejectsInvalidSettings(t *testing.T) {
	reg := testRegistry()
	bad := validSettings()
	bad.BigBlind = bad.SmallBlind // big must exceed small

	_, err := reg.Create("owner", bad)
	require.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}
