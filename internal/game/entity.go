package game

import "github.com/google/uuid"

// EntityKind tags the two entity variants. A tag plus shared fields keeps
// the collision loops allocation-free; there is no entity hierarchy.
type EntityKind uint8

const (
	KindLeader EntityKind = iota
	KindUnderling
)

// String returns the wire name of the kind.
func (k EntityKind) String() string {
	switch k {
	case KindLeader:
		return "leader"
	case KindUnderling:
		return "underling"
	default:
		return "unknown"
	}
}

// Entity is a simulated body in the arena. Entities are exclusively owned
// by their player and never outlive it.
type Entity struct {
	ID      string
	OwnerID string
	Kind    EntityKind
	Pos     Vec2
	Vel     Vec2
	Radius  float64
}

func newLeader(ownerID string, pos Vec2) *Entity {
	return &Entity{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Kind:    KindLeader,
		Pos:     pos,
		Radius:  LeaderRadius,
	}
}

func newUnderling(ownerID string, pos, vel Vec2) *Entity {
	return &Entity{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Kind:    KindUnderling,
		Pos:     pos,
		Vel:     vel,
		Radius:  UnderlingRadius,
	}
}

// overlaps reports whether two entities intersect, compared on squared
// distance so the hot loops never take a square root.
func overlaps(a, b *Entity) bool {
	sum := a.Radius + b.Radius
	return a.Pos.Sub(b.Pos).LengthSq() < sum*sum
}
