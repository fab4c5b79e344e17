package realtime

import "sync"

// Registry tracks which clients are in which rooms. Rooms are keyed by group
// id. All methods are safe for concurrent use; event handlers for different
// connections run on separate goroutines.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]map[string]struct{}
}

// NewRegistry creates an empty room registry
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]map[string]struct{}),
	}
}

// Join adds a client to a room. Joining a room the client is already in is a
// no-op, so a double join never causes duplicate delivery.
func (r *Registry) Join(roomID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[*Client]struct{})
	}
	r.rooms[roomID][client] = struct{}{}

	if r.clients[client] == nil {
		r.clients[client] = make(map[string]struct{})
	}
	r.clients[client][roomID] = struct{}{}
}

// Members returns a snapshot of the clients currently in a room
func (r *Registry) Members(roomID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*Client, 0, len(r.rooms[roomID]))
	for client := range r.rooms[roomID] {
		members = append(members, client)
	}
	return members
}

// Remove drops a client from every room it joined. Empty rooms are pruned.
func (r *Registry) Remove(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.clients[client] {
		delete(r.rooms[roomID], client)
		if len(r.rooms[roomID]) == 0 {
			delete(r.rooms, roomID)
		}
	}
	delete(r.clients, client)
}

// RoomCount returns the number of active rooms
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
