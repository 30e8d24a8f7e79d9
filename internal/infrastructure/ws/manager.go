package ws

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// RoomManager tracks the current subscribers of each session's room. The
// per-player entry is a connection handle only: it is replaced on reconnect
// and never stands in for the player's durable identity.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Client]struct{}
	byPlayer map[string]map[string]*Client
	upgrader websocket.Upgrader
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]map[*Client]struct{}),
		byPlayer: make(map[string]map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (m *RoomManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return m.upgrader.Upgrade(w, r, nil)
}

func (m *RoomManager) AddClient(cl *Client) {
	m.mu.Lock()

	room, ok := m.rooms[cl.SessionID]
	if !ok {
		room = make(map[*Client]struct{})
		m.rooms[cl.SessionID] = room
	}

	players, ok := m.byPlayer[cl.SessionID]
	if !ok {
		players = make(map[string]*Client)
		m.byPlayer[cl.SessionID] = players
	}

	// Reconnect: drop the stale handle for the same player.
	var stale *Client
	if cl.PlayerID != "" {
		if prev, ok := players[cl.PlayerID]; ok && prev != cl {
			stale = prev
			delete(room, prev)
		}
		players[cl.PlayerID] = cl
	}

	room[cl] = struct{}{}
	m.mu.Unlock()

	if stale != nil {
		stale.CloseSend()
	}
}

func (m *RoomManager) RemoveClient(cl *Client) {
	m.mu.Lock()

	if room, ok := m.rooms[cl.SessionID]; ok {
		if _, present := room[cl]; present {
			delete(room, cl)
			if len(room) == 0 {
				delete(m.rooms, cl.SessionID)
			}
		}
	}
	if players, ok := m.byPlayer[cl.SessionID]; ok {
		if players[cl.PlayerID] == cl {
			delete(players, cl.PlayerID)
		}
		if len(players) == 0 {
			delete(m.byPlayer, cl.SessionID)
		}
	}

	m.mu.Unlock()

	cl.CloseSend()
}

func (m *RoomManager) BroadcastToRoom(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("nil message")
	}

	m.mu.RLock()
	room := m.rooms[msg.SessionID]
	clients := make([]*Client, 0, len(room))
	for cl := range room {
		clients = append(clients, cl)
	}
	m.mu.RUnlock()

	for _, cl := range clients {
		cl.Send(msg)
	}

	return nil
}

func (m *RoomManager) RoomSize(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms[sessionID])
}
