package game

import (
	"math/rand"
	"sync"
)

type RoomState uint8

const (
	StateWaiting RoomState = iota
	StateFull
	StateActive
	StateFinished
)

// Participant is one player slot: a stable identity token, a display
// name and, once submitted, the player's own grid.
type Participant struct {
	ID   string
	Name string
	grid *Grid
}

// FireResult is the outcome of one accepted fire request.
type FireResult struct {
	Hit             bool
	Sunk            bool
	ShipID          int
	AlreadyResolved bool
	GameOver        bool
	Winner          string
	NextTurn        string
}

// Room is a single two-player match. All mutating operations take the
// room lock, so concurrent requests for the same room are serialized;
// different rooms never share state.
type Room struct {
	Code string

	mu           sync.Mutex
	participants []*Participant
	state        RoomState
	turn         string
	rng          *rand.Rand
}

// NewRoom creates an empty room. The rng decides who fires first and
// is owned by the room, guarded by the room lock.
func NewRoom(code string, rng *rand.Rand) *Room {
	return &Room{Code: code, rng: rng}
}

// Join adds a participant and returns the new player count.
func (r *Room) Join(id, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.participants) >= 2 {
		return 0, ErrRoomFull
	}
	r.participants = append(r.participants, &Participant{ID: id, Name: name})
	if len(r.participants) == 2 {
		r.state = StateFull
	}
	return len(r.participants), nil
}

// Place accepts a participant's validated grid. Exactly one placement
// per participant is allowed. When the second placement lands in a
// full room the game starts: the first mover is drawn at random and
// returned as starter.
func (r *Room) Place(id string, grid *Grid) (started bool, starter string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(id)
	if p == nil {
		return false, "", ErrUnknownParticipant
	}
	if p.grid != nil {
		return false, "", ErrAlreadyPlaced
	}
	p.grid = grid

	if len(r.participants) == 2 && r.participants[0].grid != nil && r.participants[1].grid != nil {
		r.state = StateActive
		r.turn = r.participants[r.rng.Intn(2)].ID
		return true, r.turn, nil
	}
	return false, "", nil
}

// Fire resolves a shot against the opponent's grid. Only the
// participant holding the turn may fire, and only while the game is
// active. A shot at an already resolved cell changes nothing and
// keeps the turn with the shooter.
func (r *Room) Fire(id string, x, y int) (FireResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return FireResult{}, ErrNotStarted
	}
	if r.findLocked(id) == nil {
		return FireResult{}, ErrUnknownParticipant
	}
	if id != r.turn {
		return FireResult{}, ErrNotYourTurn
	}
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
		return FireResult{}, ErrOutOfBounds
	}

	opponent := r.opponentLocked(id)
	if opponent == nil || opponent.grid == nil {
		// The other player left mid-game; there is nothing to shoot at.
		return FireResult{}, ErrNotStarted
	}
	shot := opponent.grid.ResolveShot(x, y)
	if shot.AlreadyResolved {
		return FireResult{AlreadyResolved: true, Hit: shot.Hit, ShipID: shot.ShipID}, nil
	}

	result := FireResult{Hit: shot.Hit, ShipID: shot.ShipID}
	if shot.Hit {
		result.Sunk = opponent.grid.ShipSunk(shot.ShipID)
	}

	if !opponent.grid.HasSurvivingShips() {
		r.state = StateFinished
		result.GameOver = true
		result.Winner = id
		return result, nil
	}

	r.turn = opponent.ID
	result.NextTurn = r.turn
	return result, nil
}

// Leave removes a participant and returns how many remain. The caller
// destroys the room when zero remain. There is no resume: a game that
// loses a player simply strands the other one.
func (r *Room) Leave(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.participants {
		if p.ID == id {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			break
		}
	}
	if len(r.participants) < 2 && r.state == StateFull {
		r.state = StateWaiting
	}
	return len(r.participants)
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Turn returns the identity allowed to fire, or "" before the game
// starts.
func (r *Room) Turn() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turn
}

func (r *Room) findLocked(id string) *Participant {
	for _, p := range r.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) opponentLocked(id string) *Participant {
	for _, p := range r.participants {
		if p.ID != id {
			return p
		}
	}
	return nil
}
