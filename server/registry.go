package server

import (
	"math/rand"
	"sync"

	"battleship-server/game"
)

// Registry maps live room codes to rooms. It is an explicit value
// owned by the composition root, so tests can run any number of
// independent instances.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*game.Room
	rng   *rand.Rand
}

// NewRegistry creates an empty registry. The rng seeds each room's
// first-turn choice; pass a fixed-seed source for deterministic tests.
func NewRegistry(rng *rand.Rand) *Registry {
	return &Registry{
		rooms: make(map[string]*game.Room),
		rng:   rng,
	}
}

// Join adds a participant to the live room for code, creating a
// waiting room on first use. The registry lock is held across the
// room join, so the membership change is atomic with respect to
// RemoveIfEmpty: a room can never be joined while it is being torn
// down. Each new room gets its own rand.Rand so rooms never contend
// on the registry's source.
func (reg *Registry) Join(code, id, name string) (int, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if !ok {
		room = game.NewRoom(code, rand.New(rand.NewSource(reg.rng.Int63())))
		reg.rooms[code] = room
	}
	return room.Join(id, name)
}

// Get returns the live room for code, if any.
func (reg *Registry) Get(code string) (*game.Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// RemoveIfEmpty drops the room for code once no participants remain,
// re-checking the count under the registry lock so a joiner that
// arrived after the last leave keeps the room registered. Reports
// whether the room was removed; a removed code becomes available for
// a fresh game.
func (reg *Registry) RemoveIfEmpty(code string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if !ok || room.PlayerCount() > 0 {
		return false
	}
	delete(reg.rooms, code)
	return true
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
