package game

import "time"

// EntityView is an immutable copy of one entity for broadcast. Velocity is
// included so clients can extrapolate between snapshots without
// re-deriving it.
type EntityView struct {
	ID      string  `json:"id"`
	OwnerID string  `json:"ownerId"`
	Kind    string  `json:"kind"`
	Pos     Vec2    `json:"pos"`
	Vel     Vec2    `json:"vel"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
}

// PlayerView is an immutable copy of one player's roster entry.
type PlayerView struct {
	ConnectionID string       `json:"connectionId"`
	DisplayName  string       `json:"displayName"`
	Team         TeamColor    `json:"team"`
	Leader       EntityView   `json:"leader"`
	Underlings   []EntityView `json:"underlings"`
}

// StateView is the complete serializable projection of a room. It is the
// sole contract exposed to clients: value types throughout, no references
// into live simulation state.
type StateView struct {
	RoomID     string       `json:"roomId"`
	Active     bool         `json:"active"`
	Players    []PlayerView `json:"players"`
	WinnerID   string       `json:"winnerId,omitempty"`
	ServerTime int64        `json:"serverTime"` // unix milliseconds
}

// Snapshot builds the broadcast view of the room. Side-effect free.
func (r *Room) Snapshot() StateView {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := StateView{
		RoomID:     r.ID,
		Active:     r.active,
		Players:    make([]PlayerView, 0, len(r.players)),
		WinnerID:   r.winnerID,
		ServerTime: time.Now().UnixMilli(),
	}

	for _, p := range r.players {
		pv := PlayerView{
			ConnectionID: p.ConnectionID,
			DisplayName:  p.DisplayName,
			Team:         p.Team,
			Leader:       entityView(p.Leader, p.Team),
			Underlings:   make([]EntityView, 0, len(p.Underlings)),
		}
		for _, u := range p.Underlings {
			pv.Underlings = append(pv.Underlings, entityView(u, p.Team))
		}
		view.Players = append(view.Players, pv)
	}

	return view
}

func entityView(e *Entity, team TeamColor) EntityView {
	return EntityView{
		ID:      e.ID,
		OwnerID: e.OwnerID,
		Kind:    e.Kind.String(),
		Pos:     e.Pos,
		Vel:     e.Vel,
		Radius:  e.Radius,
		Color:   string(team),
	}
}
