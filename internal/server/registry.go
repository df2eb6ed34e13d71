package server

import (
	"errors"
	"sync"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/mkrall/pokerroom/internal/game"
	"github.com/mkrall/pokerroom/internal/randutil"
	"github.com/mkrall/pokerroom/internal/roomcode"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomHandle pairs a room with its serialization lock and scheduling state.
// Every externally-triggered event (player action, join/leave, timer fire,
// bot decision) runs to completion under mu before the next is processed;
// rooms run in full parallel with each other.
type RoomHandle struct {
	mu   sync.Mutex
	Room *game.Room

	// rng drives bot decisions for this room; guarded by mu
	rng *rand.Rand

	// timer is the room's single pending scheduled task (turn timeout or bot
	// think delay). gen invalidates fires from superseded states: it is
	// bumped on every accepted mutation, and a firing task whose captured
	// generation no longer matches is a no-op.
	timer *quartz.Timer
	gen   uint64
}

// lock serialises one event against the room
func (h *RoomHandle) lock() { h.mu.Lock() }

func (h *RoomHandle) unlock() { h.mu.Unlock() }

// stopTimer cancels any pending scheduled task. Callers must hold mu.
func (h *RoomHandle) stopTimer() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// Registry owns the room-by-code map. Lookups are safe while a create is in
// flight; code generation re-checks collisions under the write lock before
// committing.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*RoomHandle
	codes  *roomcode.Generator
	rng    *rand.Rand
	logger *log.Logger
}

// NewRegistry creates an empty registry. The rng seeds per-room generators;
// it is only used under the registry lock.
func NewRegistry(rng *rand.Rand, logger *log.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*RoomHandle),
		codes:  roomcode.NewGenerator(rng),
		rng:    rng,
		logger: logger.WithPrefix("registry"),
	}
}

// Create makes a new room under a fresh collision-checked code
func (r *Registry) Create(ownerID string, settings game.Settings) (*RoomHandle, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for {
		code = r.codes.Generate()
		if _, taken := r.rooms[code]; !taken {
			break
		}
	}

	handle := &RoomHandle{
		Room: game.NewRoom(code, ownerID, settings, randutil.New(r.rng.Int64()), r.logger),
		rng:  randutil.New(r.rng.Int64()),
	}
	r.rooms[code] = handle

	r.logger.Info("room created", "room", code, "owner", ownerID, "variant", settings.Variant)
	return handle, nil
}

// Get looks up a room by code
func (r *Registry) Get(code string) (*RoomHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.rooms[roomcode.Normalize(code)]
	return h, ok
}

// Delete removes a room and cancels its pending timer
func (r *Registry) Delete(code string) {
	code = roomcode.Normalize(code)

	r.mu.Lock()
	h, ok := r.rooms[code]
	delete(r.rooms, code)
	r.mu.Unlock()

	if !ok {
		return
	}
	h.lock()
	h.stopTimer()
	h.unlock()
	r.logger.Info("room deleted", "room", code)
}

// Handles snapshots the current set of rooms
func (r *Registry) Handles() []*RoomHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*RoomHandle, 0, len(r.rooms))
	for _, h := range r.rooms {
		out = append(out, h)
	}
	return out
}

// Len returns the number of live rooms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
