package game

import (
	"crypto/rand"
	"log"
	"math/big"
	mrand "math/rand"
	"sync"
	"time"
)

// Room codes avoid characters players misread over voice chat (0/O, 1/I).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// RegistryConfig configures room creation and reclamation.
type RegistryConfig struct {
	ArenaWidth  float64
	ArenaHeight float64
	// InactivityTimeout is how long a room may sit idle before SweepExpired
	// reclaims it.
	InactivityTimeout time.Duration
	// Seed, when nonzero, makes every created room's rand source
	// deterministic. Zero seeds from the clock.
	Seed int64
}

// Registry owns all live rooms. Its own lock covers only the maps, never a
// room's state, so creating room B never blocks ticking room A.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	conns map[string]string // connection id -> room id

	cfg    RegistryConfig
	events *MatchLog
}

// NewRegistry creates an empty registry. events may be nil.
func NewRegistry(cfg RegistryConfig, events *MatchLog) *Registry {
	if cfg.ArenaWidth <= 0 {
		cfg.ArenaWidth = DefaultArenaWidth
	}
	if cfg.ArenaHeight <= 0 {
		cfg.ArenaHeight = DefaultArenaHeight
	}
	if cfg.InactivityTimeout <= 0 {
		cfg.InactivityTimeout = 10 * time.Minute
	}
	return &Registry{
		rooms:  make(map[string]*Room),
		conns:  make(map[string]string),
		cfg:    cfg,
		events: events,
	}
}

// CreateRoom generates a non-colliding code and stores an empty room.
func (g *Registry) CreateRoom() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		code := generateCode(codeLength)
		if _, exists := g.rooms[code]; exists {
			continue
		}

		seed := g.cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		room := NewRoom(code, g.cfg.ArenaWidth, g.cfg.ArenaHeight, mrand.New(mrand.NewSource(seed)))
		room.SetEventLog(g.events)
		g.rooms[code] = room

		g.events.Emit(EventRoomCreated, code, "", "")
		log.Printf("room %s created", code)
		return room
	}
}

// Room returns the room for a code.
func (g *Registry) Room(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

// JoinRoom adds a connection to a room, assigning blue to the first player
// and red to the second. Fails with ErrRoomNotFound or ErrRoomFull.
func (g *Registry) JoinRoom(roomID, connectionID, displayName string) (PlayerInfo, error) {
	room, ok := g.Room(roomID)
	if !ok {
		return PlayerInfo{}, ErrRoomNotFound
	}

	info, err := room.AddPlayer(connectionID, displayName)
	if err != nil {
		return PlayerInfo{}, err
	}

	g.mu.Lock()
	g.conns[connectionID] = roomID
	g.mu.Unlock()
	return info, nil
}

// RemoveConnection removes a player wherever it is. Idempotent: removing
// an unknown or already-removed connection is a no-op. Destroys the room
// when it empties; if a match was running the survivor wins by forfeit.
func (g *Registry) RemoveConnection(connectionID string) {
	g.mu.Lock()
	roomID, ok := g.conns[connectionID]
	if !ok {
		g.mu.Unlock()
		return
	}
	delete(g.conns, connectionID)
	room := g.rooms[roomID]
	g.mu.Unlock()

	if room == nil {
		return
	}
	room.RemovePlayer(connectionID)

	if room.Empty() {
		g.destroyRoom(roomID)
	}
}

// SetDirection routes a movement intent to the owning room. Unknown
// connections are silently ignored.
func (g *Registry) SetDirection(connectionID string, dir Direction) {
	g.mu.RLock()
	roomID, ok := g.conns[connectionID]
	room := g.rooms[roomID]
	g.mu.RUnlock()

	if !ok || room == nil {
		return
	}
	room.SetDirection(connectionID, dir)
}

// RestartMatch re-arms the room for another match. Returns false for
// unknown rooms or rooms without two players.
func (g *Registry) RestartMatch(roomID string) bool {
	room, ok := g.Room(roomID)
	if !ok {
		return false
	}
	return room.Restart()
}

// Rooms returns a point-in-time list of all rooms for the tick driver.
func (g *Registry) Rooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	return out
}

// RoomCount returns the number of live rooms.
func (g *Registry) RoomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// SweepExpired reclaims rooms idle past the inactivity timeout. Called
// once per tick before simulation. Returns the number reclaimed.
func (g *Registry) SweepExpired(now time.Time) int {
	var expired []*Room
	g.mu.RLock()
	for _, r := range g.rooms {
		if r.Expired(g.cfg.InactivityTimeout, now) {
			expired = append(expired, r)
		}
	}
	g.mu.RUnlock()

	for _, r := range expired {
		g.events.Emit(EventRoomExpired, r.ID, "", "")
		log.Printf("room %s expired, reclaiming", r.ID)
		g.destroyRoom(r.ID)
	}
	return len(expired)
}

// destroyRoom drops the room and any connection index entries pointing at
// it.
func (g *Registry) destroyRoom(roomID string) {
	room, ok := g.Room(roomID)
	if !ok {
		return
	}
	connIDs := room.ConnectionIDs()

	g.mu.Lock()
	delete(g.rooms, roomID)
	for _, id := range connIDs {
		delete(g.conns, id)
	}
	g.mu.Unlock()
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b)
}
