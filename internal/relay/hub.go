package relay

import "log/slog"

// frame is one pushed sync message fanned out to the sender's room.
// Contents are opaque to the relay.
type frame struct {
	storeID string
	sender  *Client
	data    []byte
}

// Hub tracks admitted clients grouped by store id and broadcasts every
// pushed frame to the other members of the same room. All membership
// mutation happens on the Run goroutine; no locks.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan frame
}

func NewHub() *Hub {
	return &Hub{
		rooms:      map[string]map[*Client]bool{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, 64),
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case f := <-h.broadcast:
			h.fanout(f)
		}
	}
}

func (h *Hub) add(client *Client) {
	room := h.rooms[client.storeID]
	if room == nil {
		room = map[*Client]bool{}
		h.rooms[client.storeID] = room
	}
	room[client] = true
	slog.Info("sync client joined", "store_id", client.storeID, "email", client.email)
}

func (h *Hub) remove(client *Client) {
	if room, ok := h.rooms[client.storeID]; ok && room[client] {
		delete(room, client)
		close(client.send)
		if len(room) == 0 {
			delete(h.rooms, client.storeID)
		}
		slog.Info("sync client left", "store_id", client.storeID, "email", client.email)
	}
}

func (h *Hub) fanout(f frame) {
	room := h.rooms[f.storeID]
	for client := range room {
		if client == f.sender {
			continue
		}
		select {
		case client.send <- f.data:
		default:
			// Slow consumer; drop it rather than stall the room.
			close(client.send)
			delete(room, client)
		}
	}
	if len(room) == 0 {
		delete(h.rooms, f.storeID)
	}
}
