package ws

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/models"
	"github.com/classtrack/classtrack/internal/repository"
)

// Publisher relays a stored message to rooms living on other server
// instances. A nil Publisher means single-instance operation.
type Publisher interface {
	Publish(ctx context.Context, msg *models.Message) error
}

// envelope is the wire frame in both directions:
// {"event": "join-classroom" | "send-message" | "new-message", "data": ...}
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type sendMessagePayload struct {
	ClassroomID string `json:"classroomId"`
	Author      string `json:"author"`
	Content     string `json:"content"`
}

type subscription struct {
	client *Client
	code   string
}

type frame struct {
	code    string
	payload []byte
}

// Hub owns the room table: classroom code → set of connected clients.
// All mutation happens on the Run goroutine, fed by channels, so the table
// needs no lock. Membership is transient; a reconnecting client re-joins
// and re-fetches the message log over HTTP.
type Hub struct {
	messages  repository.MessageRepository
	publisher Publisher
	logger    *zap.Logger

	clients  map[*Client]bool
	rooms    map[string]map[*Client]bool
	register chan *Client
	join     chan subscription
	leave    chan *Client
	deliver  chan frame
}

func NewHub(messages repository.MessageRepository, publisher Publisher, logger *zap.Logger) *Hub {
	return &Hub{
		messages:  messages,
		publisher: publisher,
		logger:    logger,
		clients:   make(map[*Client]bool),
		rooms:     make(map[string]map[*Client]bool),
		register:  make(chan *Client),
		join:      make(chan subscription),
		leave:     make(chan *Client),
		deliver:   make(chan frame, 64),
	}
}

// Run is the single dispatcher loop. It must be running before any client
// is served and exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true

		case sub := <-h.join:
			if !h.clients[sub.client] {
				continue
			}
			// A connection is in at most one room; joining another
			// implicitly leaves the previous one.
			h.detach(sub.client)
			room := h.rooms[sub.code]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[sub.code] = room
			}
			room[sub.client] = true
			sub.client.room = sub.code

		case c := <-h.leave:
			h.drop(c)

		case f := <-h.deliver:
			for c := range h.rooms[f.code] {
				select {
				case c.send <- f.payload:
				default:
					// Slow consumer: drop the connection rather than
					// block every other member of the room.
					h.drop(c)
				}
			}
		}
	}
}

// drop deregisters a client entirely and closes its send channel. Safe to
// call twice; only the first call closes.
func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	h.detach(c)
	close(c.send)
}

func (h *Hub) detach(c *Client) {
	if c.room == "" {
		return
	}
	if room, ok := h.rooms[c.room]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}

// Join adds the connection to the code's broadcast group. There is no
// membership or password re-check against the classroom registry; any
// connected client may join any room by code.
func (h *Hub) Join(c *Client, code string) {
	h.join <- subscription{client: c, code: code}
}

// Send persists the message and then broadcasts the stored record, with its
// server-assigned id and timestamp, to the room. Persist failure is logged
// and nothing is broadcast; the two steps are not atomic.
func (h *Hub) Send(ctx context.Context, code, author, content string) {
	msg, err := h.messages.Create(ctx, code, author, content)
	if err != nil {
		h.logger.Error("failed to save chat message",
			zap.String("classroom", code),
			zap.Error(err))
		return
	}

	h.Broadcast(msg)

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, msg); err != nil {
			h.logger.Warn("failed to publish chat message",
				zap.String("classroom", code),
				zap.Error(err))
		}
	}
}

// Broadcast fans a stored message out to the local room only. The redis
// bridge calls this for messages originating on other instances.
func (h *Hub) Broadcast(msg *models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal message", zap.Error(err))
		return
	}
	payload, err := json.Marshal(envelope{Event: "new-message", Data: data})
	if err != nil {
		h.logger.Error("failed to marshal envelope", zap.Error(err))
		return
	}
	h.deliver <- frame{code: msg.ClassroomCode, payload: payload}
}

// storeTimeout bounds the persist step of Send; socket events carry no
// request deadline of their own.
const storeTimeout = 5 * time.Second
