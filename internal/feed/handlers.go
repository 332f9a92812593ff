// internal/feed/handlers.go

package feed

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/stvnptra/picshare/internal/auth"
	"github.com/stvnptra/picshare/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced at the proxy
	},
}

// Handler upgrades authenticated feed connections
type Handler struct {
	hub  *Hub
	auth auth.Service
}

// NewHandler creates a new feed handler
func NewHandler(hub *Hub, authService auth.Service) *Handler {
	return &Handler{hub: hub, auth: authService}
}

// Subscribe upgrades the request to a websocket. Browsers cannot set an
// Authorization header on websocket requests, so the client presents a
// short-lived ticket minted by the auth service instead.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		utils.ErrorResponse(w, "Missing ticket", http.StatusUnauthorized)
		return
	}

	sess, err := h.auth.ValidateTicket(ticket)
	if err != nil {
		utils.ErrorResponse(w, "Invalid or expired ticket", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("feed: upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, sess.UserID)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// RegisterRoutes attaches the websocket endpoint to the router
func RegisterRoutes(router *mux.Router, handler *Handler) {
	router.HandleFunc("/ws/feed", handler.Subscribe).Methods("GET")
}
