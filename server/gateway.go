package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"battleship-server/game"
	"battleship-server/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// session is one connected client: its identity token, the room it is
// bound to (if any) and a write-locked websocket.
type session struct {
	id   string
	name string
	code string

	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *session) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// roomMembers is one room's session set plus the mutex serializing
// event emission to it, so every member observes broadcasts from
// different handlers in the same order.
type roomMembers struct {
	emitMu   sync.Mutex
	sessions map[string]*session
}

// Gateway binds websocket connections to rooms and translates the
// request/ack protocol into game operations and broadcast events.
type Gateway struct {
	registry *Registry
	upgrader websocket.Upgrader

	mu      sync.Mutex
	members map[string]*roomMembers // keyed by room code
}

func NewGateway(registry *Registry) *Gateway {
	return &Gateway{
		registry: registry,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		members:  make(map[string]*roomMembers),
	}
}

// HandleWS upgrades the connection and serves it until it drops.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("server [HandleWS]", "err", err)
		return
	}

	s := &session{id: uuid.NewString(), conn: conn}
	log.Info("server [HandleWS]", "playerId", s.id, "remote", conn.RemoteAddr())

	done := make(chan struct{})
	go g.pingLoop(s, done)
	g.readLoop(s)
	close(done)

	g.disconnect(s)
	conn.Close()
}

func (g *Gateway) pingLoop(s *session, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (g *Gateway) readLoop(s *session) {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req models.Request
		if err := s.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("server [readLoop]", "playerId", s.id, "err", err)
			}
			return
		}
		g.dispatch(s, req)
	}
}

func (g *Gateway) dispatch(s *session, req models.Request) {
	log.Debug("server [dispatch]", "playerId", s.id, "action", req.Action, "seq", req.Seq)

	switch req.Action {
	case models.ActionCreate, models.ActionJoin:
		g.handleJoin(s, req)
	case models.ActionPlace:
		g.handlePlace(s, req)
	case models.ActionFire:
		g.handleFire(s, req)
	default:
		g.reject(s, req.Seq, models.ErrCodeBadRequest)
	}
}

// handleJoin serves both create and join: creating a code that already
// has a waiting room simply joins it.
func (g *Gateway) handleJoin(s *session, req models.Request) {
	var payload models.CreatePayload
	if err := json.Unmarshal(req.Data, &payload); err != nil || !validCode(payload.Code) || s.code != "" {
		g.reject(s, req.Seq, models.ErrCodeBadRequest)
		return
	}

	name := payload.Name
	if name == "" {
		name = "Player"
	}

	players, err := g.registry.Join(payload.Code, s.id, name)
	if err != nil {
		g.reject(s, req.Seq, errorCode(err))
		return
	}

	s.code = payload.Code
	s.name = name
	g.addMember(s)

	log.Info("server [handleJoin]", "playerId", s.id, "code", s.code, "name", name, "players", players)
	g.broadcast(s.code, event(models.EventRoomUpdate, models.RoomUpdateEvent{Players: players}))
	g.ack(s, req.Seq, models.JoinData{PlayerID: s.id})
}

func (g *Gateway) handlePlace(s *session, req models.Request) {
	room, ok := g.boundRoom(s)
	if !ok {
		g.reject(s, req.Seq, models.ErrCodeBadRequest)
		return
	}

	var payload models.PlacePayload
	if err := json.Unmarshal(req.Data, &payload); err != nil {
		g.reject(s, req.Seq, models.ErrCodeBadRequest)
		return
	}

	grid, err := game.GridFromMatrix(payload.Grid)
	if err != nil {
		log.Info("server [handlePlace]", "playerId", s.id, "err", err)
		g.reject(s, req.Seq, errorCode(err))
		return
	}

	started, starter, err := room.Place(s.id, grid)
	if err != nil {
		g.reject(s, req.Seq, errorCode(err))
		return
	}

	log.Info("server [handlePlace]", "playerId", s.id, "code", s.code, "started", started)
	if started {
		g.broadcast(s.code, event(models.EventStart, models.StartEvent{Starter: starter}))
	}
	g.ack(s, req.Seq, nil)
}

func (g *Gateway) handleFire(s *session, req models.Request) {
	room, ok := g.boundRoom(s)
	if !ok {
		g.reject(s, req.Seq, models.ErrCodeBadRequest)
		return
	}

	var payload models.FirePayload
	if err := json.Unmarshal(req.Data, &payload); err != nil {
		g.reject(s, req.Seq, models.ErrCodeBadRequest)
		return
	}

	result, err := room.Fire(s.id, payload.X, payload.Y)
	if err != nil {
		g.reject(s, req.Seq, errorCode(err))
		return
	}

	log.Info("server [handleFire]",
		"playerId", s.id, "code", s.code, "x", payload.X, "y", payload.Y,
		"hit", result.Hit, "sunk", result.Sunk, "gameOver", result.GameOver)

	if !result.AlreadyResolved {
		events := []models.Event{event(models.EventShot, models.ShotEvent{
			Shooter: s.id,
			X:       payload.X,
			Y:       payload.Y,
			Hit:     result.Hit,
			Sunk:    result.Sunk,
			ShipID:  result.ShipID,
		})}
		if result.GameOver {
			events = append(events, event(models.EventGameOver, models.GameOverEvent{Winner: result.Winner}))
		} else {
			events = append(events, event(models.EventTurn, models.TurnEvent{Turn: result.NextTurn}))
		}
		g.broadcast(s.code, events...)
	}

	g.ack(s, req.Seq, models.FireData{
		Hit:             result.Hit,
		Sunk:            result.Sunk,
		GameOver:        result.GameOver,
		AlreadyResolved: result.AlreadyResolved,
	})
}

func (g *Gateway) disconnect(s *session) {
	if s.code == "" {
		return
	}

	g.removeMember(s)
	room, ok := g.registry.Get(s.code)
	if !ok {
		return
	}

	remaining := room.Leave(s.id)
	log.Info("server [disconnect]", "playerId", s.id, "code", s.code, "remaining", remaining)
	if remaining == 0 {
		// A joiner may have slipped in after the leave; the registry
		// re-checks the count before unregistering.
		g.registry.RemoveIfEmpty(s.code)
		return
	}
	g.broadcast(s.code, event(models.EventRoomUpdate, models.RoomUpdateEvent{Players: remaining}))
}

func (g *Gateway) addMember(s *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.members[s.code]
	if rm == nil {
		rm = &roomMembers{sessions: make(map[string]*session)}
		g.members[s.code] = rm
	}
	rm.sessions[s.id] = s
}

func (g *Gateway) removeMember(s *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := g.members[s.code]
	if rm == nil {
		return
	}
	delete(rm.sessions, s.id)
	if len(rm.sessions) == 0 {
		delete(g.members, s.code)
	}
}

func event(name string, data any) models.Event {
	return models.Event{Type: models.TypeEvent, Name: name, Data: data}
}

// broadcast emits a group of events to every member of a room. The
// group is written under the room's emit mutex, so concurrent
// handlers cannot interleave their events within another handler's
// group as seen by any single recipient.
func (g *Gateway) broadcast(code string, events ...models.Event) {
	g.mu.Lock()
	rm := g.members[code]
	var sessions []*session
	if rm != nil {
		sessions = make([]*session, 0, len(rm.sessions))
		for _, member := range rm.sessions {
			sessions = append(sessions, member)
		}
	}
	g.mu.Unlock()
	if rm == nil {
		return
	}

	rm.emitMu.Lock()
	defer rm.emitMu.Unlock()
	for _, member := range sessions {
		for _, ev := range events {
			if err := member.writeJSON(ev); err != nil {
				log.Warn("server [broadcast]", "playerId", member.id, "event", ev.Name, "err", err)
			}
		}
	}
}

func (g *Gateway) boundRoom(s *session) (*game.Room, bool) {
	if s.code == "" {
		return nil, false
	}
	return g.registry.Get(s.code)
}

func (g *Gateway) ack(s *session, seq int, data any) {
	err := s.writeJSON(models.Ack{Type: models.TypeAck, Seq: seq, Ok: true, Data: data})
	if err != nil {
		log.Warn("server [ack]", "playerId", s.id, "err", err)
	}
}

func (g *Gateway) reject(s *session, seq int, code string) {
	err := s.writeJSON(models.Ack{Type: models.TypeAck, Seq: seq, Ok: false, Error: code})
	if err != nil {
		log.Warn("server [reject]", "playerId", s.id, "err", err)
	}
}

// validCode accepts the externally supplied 4-digit room codes.
func validCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomFull):
		return models.ErrCodeRoomFull
	case errors.Is(err, game.ErrUnknownParticipant):
		return models.ErrCodeUnknownParticipant
	case errors.Is(err, game.ErrInvalidPlacement):
		return models.ErrCodeInvalidPlacement
	case errors.Is(err, game.ErrAlreadyPlaced):
		return models.ErrCodeAlreadyPlaced
	case errors.Is(err, game.ErrNotStarted):
		return models.ErrCodeNotStarted
	case errors.Is(err, game.ErrNotYourTurn):
		return models.ErrCodeNotYourTurn
	case errors.Is(err, game.ErrOutOfBounds):
		return models.ErrCodeOutOfBounds
	default:
		return models.ErrCodeBadRequest
	}
}
