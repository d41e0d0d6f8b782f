package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"battleship-server/models"
)

const requestTimeout = 5 * time.Second

var ErrClosed = errors.New("connection closed")

// ServerError is a request the server rejected, carrying the protocol
// error code.
type ServerError struct {
	Code string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request: %s", e.Code)
}

// Client speaks the gateway's request/ack protocol over a websocket.
// Broadcast events arrive on Events in delivery order.
type Client struct {
	conn     *websocket.Conn
	playerID string

	writeMu sync.Mutex

	mu      sync.Mutex
	seq     int
	pending map[int]chan models.ServerMessage

	events chan models.ServerMessage
	closed chan struct{}
	once   sync.Once
}

// Dial connects to a gateway websocket URL and starts the read loop.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial: %w", err)
	}

	c := &Client{
		conn:    conn,
		pending: make(map[int]chan models.ServerMessage),
		events:  make(chan models.ServerMessage, 256),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer c.once.Do(func() { close(c.closed) })

	for {
		var msg models.ServerMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if msg.Type == models.TypeAck {
			c.mu.Lock()
			ch, ok := c.pending[msg.Seq]
			delete(c.pending, msg.Seq)
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
			continue
		}

		select {
		case c.events <- msg:
		default:
			log.Warn("client [readLoop]", "msg", "event buffer full, dropping", "event", msg.Name)
		}
	}
}

// Create creates or joins the room for code and returns the identity
// token the server minted for this connection.
func (c *Client) Create(code, name string) (playerID string, err error) {
	return c.enterRoom(models.ActionCreate, code, name)
}

// Join joins the room for code.
func (c *Client) Join(code, name string) (playerID string, err error) {
	return c.enterRoom(models.ActionJoin, code, name)
}

func (c *Client) enterRoom(action, code, name string) (playerID string, err error) {
	data, err := c.request(action, models.CreatePayload{Code: code, Name: name})
	if err != nil {
		return "", err
	}

	var joined models.JoinData
	if err = json.Unmarshal(data, &joined); err != nil {
		return "", fmt.Errorf("json.Unmarshal: %w", err)
	}
	c.playerID = joined.PlayerID
	return joined.PlayerID, nil
}

// Place submits a 10x10 ship-id matrix as this player's fleet.
func (c *Client) Place(grid [][]int) error {
	_, err := c.request(models.ActionPlace, models.PlacePayload{Grid: grid})
	return err
}

// Fire shoots at the opponent's board.
func (c *Client) Fire(x, y int) (result models.FireData, err error) {
	data, err := c.request(models.ActionFire, models.FirePayload{X: x, Y: y})
	if err != nil {
		return models.FireData{}, err
	}
	if err = json.Unmarshal(data, &result); err != nil {
		return models.FireData{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	return result, nil
}

// Events exposes the broadcast stream.
func (c *Client) Events() <-chan models.ServerMessage {
	return c.events
}

// PlayerID returns the token received on create/join, or "".
func (c *Client) PlayerID() string {
	return c.playerID
}

func (c *Client) Close() error {
	c.once.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *Client) request(action string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	ch := make(chan models.ServerMessage, 1)
	c.pending[seq] = ch
	c.mu.Unlock()

	req := models.Request{Action: action, Seq: seq, Data: data}
	log.Debug("client [request]", "action", action, "seq", seq)

	c.writeMu.Lock()
	err = c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, fmt.Errorf("websocket.WriteJSON: %w", err)
	}

	select {
	case msg := <-ch:
		if !msg.Ok {
			return nil, &ServerError{Code: msg.Error}
		}
		return msg.Data, nil
	case <-c.closed:
		return nil, ErrClosed
	case <-time.After(requestTimeout):
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: timed out waiting for ack", action)
	}
}
