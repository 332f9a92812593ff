// internal/feed/hub.go
// Live feed fan-out. The hub holds one snapshot subscription on the
// posts collection and pushes every change to all connected websocket
// clients, so a new post appears in every open feed without polling.

package feed

import (
	"context"
	"encoding/json"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/stvnptra/picshare/internal/posts"
	"github.com/stvnptra/picshare/internal/store"
)

// FeedPageSize is the number of posts pushed on every update
const FeedPageSize = 20

// Event is one push to connected clients
type Event struct {
	Type  string        `json:"type"` // "feed"
	Posts []*posts.Post `json:"posts"`
}

// Hub maintains the set of connected clients and fans feed updates out
// to them
type Hub struct {
	docs *store.DocStore

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// latest retains the most recent payload so newly connected
	// clients see the feed immediately
	latest []byte
}

// NewHub creates a new feed hub
func NewHub(docs *store.DocStore) *Hub {
	return &Hub{
		docs:       docs,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 8),
	}
}

// Run subscribes to the posts collection and serves clients until the
// context is cancelled
func (h *Hub) Run(ctx context.Context) {
	cancel := h.docs.SubscribeCollection(ctx, "posts", store.QueryOptions{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   FeedPageSize,
	}, h.onSnapshot)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			if h.latest != nil {
				select {
				case client.send <- h.latest:
				default:
				}
			}
			log.Printf("feed: client connected (%d total)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("feed: client disconnected (%d total)", len(h.clients))
			}

		case message := <-h.broadcast:
			h.latest = message
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the hub
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

func (h *Hub) onSnapshot(docs []*firestore.DocumentSnapshot) {
	page := make([]*posts.Post, 0, len(docs))
	for _, snap := range docs {
		var p posts.Post
		if err := snap.DataTo(&p); err != nil {
			log.Printf("feed: failed to decode post %s: %v", snap.Ref.ID, err)
			continue
		}
		p.ID = snap.Ref.ID
		page = append(page, &p)
	}

	payload, err := json.Marshal(Event{Type: "feed", Posts: page})
	if err != nil {
		log.Printf("feed: failed to encode update: %v", err)
		return
	}

	h.broadcast <- payload
}
