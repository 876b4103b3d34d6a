package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"chessbook-sync/internal/relay"
	"chessbook-sync/pkg/apierror"
)

// SyncHandler admits WebSocket sync connections. The guard validates the
// caller-supplied payload before the upgrade, so a rejected attempt never
// exchanges any sync data.
type SyncHandler struct {
	guard    *relay.Guard
	hub      *relay.Hub
	upgrader websocket.Upgrader
}

func NewSyncHandler(guard *relay.Guard, hub *relay.Hub) *SyncHandler {
	return &SyncHandler{
		guard: guard,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy matches the permissive CORS surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *SyncHandler) Connect(w http.ResponseWriter, r *http.Request) {
	payload := relay.ParsePayload(r.URL.Query())

	admission := h.guard.Admit(payload)
	if admission.State != relay.StateAdmitted {
		writeError(w, apierror.New("UNAUTHORIZED", admission.Reason, http.StatusUnauthorized))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		slog.Warn("sync upgrade failed", "error", err, "email", admission.Email)
		return
	}

	client := relay.NewClient(h.hub, conn, payload.StoreID, admission.Email)
	h.hub.Register(client)
	client.Start()
}
