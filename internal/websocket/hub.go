package assistantws

import (
	"context"
	"encoding/json"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
)

// Hub fans assistant replies out to a user's connected sockets.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan *delivery
}

type delivery struct {
	userID  string
	payload []byte
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type sender interface {
	SendMessage(ctx context.Context, userID int64, content string) (*services.AssistantExchange, error)
}

type Event struct {
	Type    string                   `json:"type"`
	Message *models.AssistantMessage `json:"message,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan *delivery, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case item := <-h.outbound:
			h.deliver(item)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToUser queues an assistant message for every socket the user has open.
// Dropping is fine when the user is not connected; the message is already
// persisted.
func (h *Hub) SendToUser(userID int64, message *models.AssistantMessage) {
	payload, err := json.Marshal(Event{Type: "message", Message: message})
	if err != nil {
		log.Error().Err(err).Msg("assistant hub encode message")
		return
	}

	select {
	case h.outbound <- &delivery{userID: strconv.FormatInt(userID, 10), payload: payload}:
	default:
		log.Warn().Int64("user_id", userID).Msg("assistant hub outbound queue full, dropping message")
	}
}

func (h *Hub) deliver(item *delivery) {
	set, ok := h.clients[item.userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- item.payload:
		default:
			// Full buffer: drop the payload. The message is already
			// persisted, and only the unregister path closes send; the
			// client's ReadPump may still write to this channel.
		}
	}
}

func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	userID, err := strconv.ParseInt(c.userID, 10, 64)
	if err != nil {
		writeError(c, "invalid user")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			writeError(c, "unsupported message type")
			continue
		}

		exchange, err := service.SendMessage(context.Background(), userID, incoming.Content)
		if err != nil {
			writeError(c, "failed to send message")
			continue
		}

		// The assistant reply arrives through SendToUser; echo the stored
		// user message so the client can reconcile its pending state.
		echo, err := json.Marshal(Event{Type: "message", Message: exchange.UserMessage})
		if err != nil {
			continue
		}
		select {
		case c.send <- echo:
		default:
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Event{Type: "error", Error: message})
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		client.hub.Unregister(client)
	}
}
