package game

import (
	"strings"
	"time"
)

// TeamColor identifies a player's side. The first player to enter a room
// is blue, the second red.
type TeamColor string

const (
	TeamBlue TeamColor = "blue"
	TeamRed  TeamColor = "red"
)

// Direction is a pending movement intent for a leader. Only the four
// cardinal directions exist; there is no diagonal movement.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// ParseDirection maps a wire string to a Direction. Matching is
// case-insensitive and unknown values collapse to DirNone, so a stale or
// buggy client can never inject a fault.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirNone
	}
}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Vector returns the axis-aligned unit vector for the direction. Screen
// coordinates: positive Y points down.
func (d Direction) Vector() Vec2 {
	switch d {
	case DirUp:
		return Vec2{0, -1}
	case DirDown:
		return Vec2{0, 1}
	case DirLeft:
		return Vec2{-1, 0}
	case DirRight:
		return Vec2{1, 0}
	default:
		return Vec2{}
	}
}

// Player owns one leader and a swarm of underlings inside a room. All
// mutation happens under the owning room's lock.
type Player struct {
	ConnectionID string
	DisplayName  string
	Team         TeamColor

	Leader     *Entity
	Underlings []*Entity

	PendingDir  Direction
	LastInputAt time.Time
}

// removeUnderlingAt drops the underling at index i by swapping it with the
// last element. Callers iterating while removing must walk indexes in
// reverse.
func (p *Player) removeUnderlingAt(i int) {
	last := len(p.Underlings) - 1
	p.Underlings[i] = p.Underlings[last]
	p.Underlings[last] = nil
	p.Underlings = p.Underlings[:last]
}
