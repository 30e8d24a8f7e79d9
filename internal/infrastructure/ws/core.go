package ws

import (
	"context"
	"log"

	"github.com/emberlit/guessparty/internal/domain"
)

// Core is the hub goroutine: registrations, unregistrations and room
// broadcasts all funnel through one select loop.
type Core struct {
	roomMgr    *RoomManager
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	sessions   domain.SessionRepository
}

func NewCore(roomMgr *RoomManager, sessions domain.SessionRepository) *Core {
	return &Core{
		roomMgr:    roomMgr,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		sessions:   sessions,
	}
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.roomMgr.AddClient(cl)

			// ---------- Replay current state to the new subscriber ----------
			go func() {
				session, err := c.sessions.GetByID(context.Background(), cl.SessionID)
				if err != nil {
					log.Printf("session %s not in store: %v", cl.SessionID, err)
					cl.Send(NewError(cl.SessionID, "session no longer exists"))
					return
				}

				cl.Send(NewRosterUpdated(session.ID, session.Roster))
				cl.Send(NewLeaderboardUpdated(session.ID, domain.Standings(session.Roster)))
				if session.Status == domain.StatusLive && session.TimerEndsAt != nil {
					cl.Send(NewRoundStarted(session.ID, session.Question, *session.TimerEndsAt))
				}
			}()

		case cl := <-c.unregister:
			c.roomMgr.RemoveClient(cl)

		case msg := <-c.broadcast:
			if err := c.roomMgr.BroadcastToRoom(msg); err != nil {
				log.Printf("broadcast error: %v", err)
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

// Publish enqueues a room broadcast without blocking the caller.
func (c *Core) Publish(msg *Message) {
	select {
	case c.broadcast <- msg:
	default:
		log.Printf("broadcast queue full, dropping %s for session %s", msg.Type, msg.SessionID)
	}
}
