package game

import (
	"errors"
	"fmt"
)

var (
	ErrRoomFull           = errors.New("room full")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrInvalidPlacement   = errors.New("invalid placement")
	ErrAlreadyPlaced      = errors.New("already placed")
	ErrNotStarted         = errors.New("game not started")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrOutOfBounds        = errors.New("out of bounds")
)

func invalidPlacement(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPlacement, fmt.Sprintf(format, args...))
}
