package ws

import (
	"context"
	"log/slog"
	"sync"
)

type broadcastMsg struct {
	room    string
	payload []byte
}

// Hub fans messages out to the clients joined to a room. Rooms are keyed by
// mentorship id.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	broadcast  chan broadcastMsg
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		broadcast:  make(chan broadcastMsg, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger.With("component", "ws"),
	}
}

// Run owns room membership until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for room, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
				delete(h.rooms, room)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			clients, ok := h.rooms[client.room]
			if !ok {
				clients = make(map[*Client]struct{})
				h.rooms[client.room] = clients
			}
			clients[client] = struct{}{}
			total := len(clients)
			h.mutex.Unlock()
			h.logger.Debug("client joined", "room", client.room, "user_id", client.userID, "room_clients", total)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.rooms[msg.room]))
			for c := range h.rooms[msg.room] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
			h.logger.Debug("room broadcast", "room", msg.room, "clients", len(snapshot))
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
	h.logger.Debug("client left", "room", client.room, "user_id", client.userID)
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast queues payload for room. It never blocks; a full queue drops the message.
func (h *Hub) Broadcast(room string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- broadcastMsg{room: room, payload: payload}:
	default:
		h.logger.Warn("broadcast dropped", "room", room, "reason", "buffer_full")
	}
}

func (h *Hub) ClientCount(room string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}
