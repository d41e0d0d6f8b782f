package models

import "encoding/json"

// Request is the client→server envelope. Seq is chosen by the client
// and echoed on the matching Ack.
type Request struct {
	Action string          `json:"action"`
	Seq    int             `json:"seq"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Ack is the server's reply to one Request.
type Ack struct {
	Type  string `json:"type"`
	Seq   int    `json:"seq"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Event is a named broadcast to every member of a room.
type Event struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
}

// ServerMessage is the decode-side union of Ack and Event.
type ServerMessage struct {
	Type  string          `json:"type"`
	Seq   int             `json:"seq"`
	Ok    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Name  string          `json:"name,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

const (
	TypeAck   = "ack"
	TypeEvent = "event"
)

const (
	ActionCreate = "create"
	ActionJoin   = "join"
	ActionPlace  = "place"
	ActionFire   = "fire"
)

const (
	EventRoomUpdate = "roomUpdate"
	EventStart      = "start"
	EventShot       = "shot"
	EventTurn       = "turn"
	EventGameOver   = "gameOver"
)

const (
	ErrCodeBadRequest         = "badRequest"
	ErrCodeRoomFull           = "roomFull"
	ErrCodeUnknownParticipant = "unknownParticipant"
	ErrCodeInvalidPlacement   = "invalidPlacement"
	ErrCodeAlreadyPlaced      = "alreadyPlaced"
	ErrCodeNotStarted         = "notStarted"
	ErrCodeNotYourTurn        = "notYourTurn"
	ErrCodeOutOfBounds        = "outOfBounds"
)

type CreatePayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type PlacePayload struct {
	Grid [][]int `json:"grid"`
}

type FirePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type JoinData struct {
	PlayerID string `json:"playerId"`
}

type FireData struct {
	Hit             bool `json:"hit"`
	Sunk            bool `json:"sunk"`
	GameOver        bool `json:"gameOver,omitempty"`
	AlreadyResolved bool `json:"alreadyResolved,omitempty"`
}

type RoomUpdateEvent struct {
	Players int `json:"players"`
}

type StartEvent struct {
	Starter string `json:"starter"`
}

type ShotEvent struct {
	Shooter string `json:"shooter"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Hit     bool   `json:"hit"`
	Sunk    bool   `json:"sunk"`
	ShipID  int    `json:"shipId,omitempty"`
}

type TurnEvent struct {
	Turn string `json:"turn"`
}

type GameOverEvent struct {
	Winner string `json:"winner"`
}
