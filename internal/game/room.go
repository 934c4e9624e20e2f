package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

var (
	// ErrRoomNotFound is returned when a room code does not resolve.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when a third player tries to join.
	ErrRoomFull = errors.New("room is full")
)

// MaxPlayersPerRoom is fixed: the contest is strictly one-on-one.
const MaxPlayersPerRoom = 2

// PlayerInfo is the immutable join result handed back across the API
// boundary. It never aliases live simulation state.
type PlayerInfo struct {
	ConnectionID string    `json:"connectionId"`
	DisplayName  string    `json:"displayName"`
	Team         TeamColor `json:"team"`
}

// Room is one match's isolated state container. Every read-modify-write of
// its players, entities and flags happens under mu, so a simulation tick
// is never interleaved with an input mutation. Rooms share no state with
// each other.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu              sync.Mutex
	players         []*Player // join order: blue first, then red
	active          bool
	winnerID        string
	winnerAnnounced bool
	lastActivity    time.Time

	arenaW, arenaH float64
	rng            *rand.Rand
	events         *MatchLog
}

// NewRoom creates an empty room. The rand source is the room's sole source
// of randomness (spawn jitter, wander, collision fallbacks), so injecting
// a seeded one makes the whole simulation deterministic.
func NewRoom(id string, arenaW, arenaH float64, rng *rand.Rand) *Room {
	now := time.Now()
	return &Room{
		ID:           id,
		CreatedAt:    now,
		lastActivity: now,
		arenaW:       arenaW,
		arenaH:       arenaH,
		rng:          rng,
	}
}

// SetEventLog attaches an optional match event log. Must be called before
// the room is shared.
func (r *Room) SetEventLog(l *MatchLog) {
	r.events = l
}

// AddPlayer joins a connection to the room. The first player is blue and
// spawns on the left, the second is red and spawns on the right. A third
// join fails with ErrRoomFull.
func (r *Room) AddPlayer(connectionID, displayName string) (PlayerInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= MaxPlayersPerRoom {
		return PlayerInfo{}, ErrRoomFull
	}

	team := TeamBlue
	spawnLeft := true
	if len(r.players) == 1 {
		team = TeamRed
		spawnLeft = false
	}

	p := &Player{
		ConnectionID: connectionID,
		DisplayName:  displayName,
		Team:         team,
	}
	spawnPlayerEntities(p, r.rng, r.arenaW, r.arenaH, spawnLeft)
	r.players = append(r.players, p)
	r.lastActivity = time.Now()

	r.events.Emit(EventPlayerJoined, r.ID, connectionID, displayName)
	return PlayerInfo{ConnectionID: connectionID, DisplayName: displayName, Team: team}, nil
}

// RemovePlayer removes a connection from the room. Removing an absent
// connection is a no-op, so disconnect and explicit leave can both fire.
// If a match was running the survivor is declared winner by forfeit.
func (r *Room) RemovePlayer(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ConnectionID == connectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.lastActivity = time.Now()
	r.events.Emit(EventPlayerLeft, r.ID, connectionID, "")

	if r.active && len(r.players) == 1 {
		r.active = false
		r.winnerID = r.players[0].ConnectionID
		r.winnerAnnounced = false
		r.events.Emit(EventMatchWon, r.ID, r.winnerID, "forfeit")
	}
	return true
}

// SetDirection records a movement intent, last write wins. Intents for
// unknown connections are silently dropped; the client resyncs on the
// next snapshot.
func (r *Room) SetDirection(connectionID string, dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.ConnectionID == connectionID {
			p.PendingDir = dir
			p.LastInputAt = time.Now()
			r.lastActivity = time.Now()
			return
		}
	}
}

// MaybeStart begins the match if two players are waiting and no finished
// match is pending a restart. Returns true when the match started.
func (r *Room) MaybeStart() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active || r.winnerID != "" || len(r.players) != MaxPlayersPerRoom {
		return false
	}
	r.startLocked()
	r.events.Emit(EventMatchStarted, r.ID, "", "")
	return true
}

// Restart re-arms a room for another match: both players get fresh
// entities and the previous outcome is cleared. No-op unless exactly two
// players are present.
func (r *Room) Restart() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) != MaxPlayersPerRoom {
		return false
	}
	r.startLocked()
	r.events.Emit(EventMatchRestarted, r.ID, "", "")
	return true
}

// startLocked fully respawns both players and flips the room to active.
// Caller holds mu.
func (r *Room) startLocked() {
	for i, p := range r.players {
		p.PendingDir = DirNone
		spawnPlayerEntities(p, r.rng, r.arenaW, r.arenaH, i == 0)
	}
	r.active = true
	r.winnerID = ""
	r.winnerAnnounced = false
	r.lastActivity = time.Now()
}

// Tick advances the simulation by dt seconds if a match is running.
func (r *Room) Tick(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	r.step(dt)
}

// TakePendingWin returns the winner exactly once after a match ends.
// Subsequent calls return false until another match finishes.
func (r *Room) TakePendingWin() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.winnerID == "" || r.winnerAnnounced {
		return "", false
	}
	r.winnerAnnounced = true
	return r.winnerID, true
}

// Active reports whether a match is currently being simulated.
func (r *Room) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Winner returns the winning connection id, empty while undecided.
func (r *Room) Winner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winnerID
}

// PlayerCount returns the number of players in the room.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Empty reports whether the room has no players left.
func (r *Room) Empty() bool {
	return r.PlayerCount() == 0
}

// ConnectionIDs returns the connection ids of all players in join order.
func (r *Room) ConnectionIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ConnectionID)
	}
	return ids
}

// Touch refreshes the activity timestamp, deferring expiry.
func (r *Room) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActivity = time.Now()
}

// Expired reports whether the room has been idle past the timeout.
func (r *Room) Expired(timeout time.Duration, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.lastActivity) > timeout
}

// opponentOf returns the other player, or nil. Caller holds mu.
func (r *Room) opponentOf(p *Player) *Player {
	for _, o := range r.players {
		if o != p {
			return o
		}
	}
	return nil
}
