package server

import (
	"errors"
	"math/rand"
	"testing"

	"battleship-server/game"
)

func TestRegistryJoinSharesRoomPerCode(t *testing.T) {
	reg := NewRegistry(rand.New(rand.NewSource(1)))

	if _, err := reg.Join("1234", "a", "A"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	room, ok := reg.Get("1234")
	if !ok {
		t.Fatalf("expected a live room after join")
	}

	players, err := reg.Join("1234", "b", "B")
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	if players != 2 || room.PlayerCount() != 2 {
		t.Fatalf("expected both joins to land in the same room, got %d players", room.PlayerCount())
	}
	if _, err := reg.Join("1234", "c", "C"); !errors.Is(err, game.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	if _, err := reg.Join("5678", "c", "C"); err != nil {
		t.Fatalf("join other code: %v", err)
	}
	if other, _ := reg.Get("5678"); other == room {
		t.Fatalf("different codes share a room")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 live rooms, got %d", reg.Len())
	}
}

func TestRegistryRemoveIfEmptyFreesCode(t *testing.T) {
	reg := NewRegistry(rand.New(rand.NewSource(1)))

	if _, err := reg.Join("1234", "a", "A"); err != nil {
		t.Fatalf("join: %v", err)
	}
	room, _ := reg.Get("1234")
	if reg.RemoveIfEmpty("1234") {
		t.Fatalf("occupied room was removed")
	}

	room.Leave("a")
	if !reg.RemoveIfEmpty("1234") {
		t.Fatalf("empty room was not removed")
	}
	if _, ok := reg.Get("1234"); ok {
		t.Fatalf("room still registered after removal")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d rooms", reg.Len())
	}

	if _, err := reg.Join("1234", "b", "B"); err != nil {
		t.Fatalf("join after removal: %v", err)
	}
	if fresh, _ := reg.Get("1234"); fresh == room {
		t.Fatalf("removed room resurrected for its old code")
	}
}

// A new player can arrive for a code between the last leave and the
// teardown check; the room they joined must stay registered.
func TestJoinDuringTeardownKeepsRoomRegistered(t *testing.T) {
	reg := NewRegistry(rand.New(rand.NewSource(1)))

	if _, err := reg.Join("1234", "a", "A"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	room, _ := reg.Get("1234")
	if remaining := room.Leave("a"); remaining != 0 {
		t.Fatalf("expected empty room after leave, got %d players", remaining)
	}

	if _, err := reg.Join("1234", "b", "B"); err != nil {
		t.Fatalf("join b: %v", err)
	}
	if reg.RemoveIfEmpty("1234") {
		t.Fatalf("room with a fresh joiner was unregistered")
	}
	got, ok := reg.Get("1234")
	if !ok || got != room {
		t.Fatalf("joiner's room lost its registration")
	}
	if room.PlayerCount() != 1 {
		t.Fatalf("expected 1 player, got %d", room.PlayerCount())
	}

	room.Leave("b")
	if !reg.RemoveIfEmpty("1234") {
		t.Fatalf("empty room survived teardown")
	}
}
