package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"swarm-duel/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// routerHandlers holds the dependencies the HTTP handlers need. Used by
// both the standalone router (for tests) and the full server.
type routerHandlers struct {
	registry *game.Registry
	bc       game.Broadcaster
}

// roomSummary is one row of the room listing.
type roomSummary struct {
	RoomID  string `json:"roomId"`
	Players int    `json:"players"`
	Active  bool   `json:"active"`
}

func (h *routerHandlers) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.registry.Rooms()
	out := make([]roomSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomSummary{
			RoomID:  room.ID,
			Players: room.PlayerCount(),
			Active:  room.Active(),
		})
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}

	room := h.registry.CreateRoom()
	RecordRoomCreated()

	connectionID := uuid.NewString()
	player, err := h.registry.JoinRoom(room.ID, connectionID, req.Name)
	if err != nil {
		// Freshly created room, can only happen if it expired mid-request
		writeError(w, "Room unavailable", http.StatusServiceUnavailable)
		return
	}

	h.bc.RoomCreated(room.Snapshot())

	writeJSON(w, map[string]interface{}{
		"roomId": room.ID,
		"player": player,
	})
}

func (h *routerHandlers) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(chi.URLParam(r, "code"))

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}

	connectionID := uuid.NewString()
	player, err := h.registry.JoinRoom(roomID, connectionID, req.Name)
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		writeError(w, "Room not found", http.StatusNotFound)
		return
	case errors.Is(err, game.ErrRoomFull):
		writeError(w, "Room is full", http.StatusConflict)
		return
	case err != nil:
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if room, ok := h.registry.Room(roomID); ok {
		h.bc.PlayerJoined(room.Snapshot())
	}

	writeJSON(w, map[string]interface{}{
		"roomId": roomID,
		"player": player,
	})
}

func (h *routerHandlers) handleRestartMatch(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(chi.URLParam(r, "code"))

	ok := h.registry.RestartMatch(roomID)
	if ok {
		if room, found := h.registry.Room(roomID); found {
			h.bc.MatchRestarted(room.Snapshot())
		}
	}
	writeJSON(w, map[string]bool{"success": ok})
}

// handleGetState serves an on-demand snapshot so a client can resync
// without waiting for the next broadcast.
func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(chi.URLParam(r, "code"))

	room, ok := h.registry.Room(roomID)
	if !ok {
		writeError(w, "Room not found", http.StatusNotFound)
		return
	}
	writeJSON(w, room.Snapshot())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
