package game

import (
	"math"
	"math/rand"
)

// randomUnitVec returns a unit vector with a uniformly random direction.
func randomUnitVec(rng *rand.Rand) Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// spawnPlayerEntities gives the player a fresh leader and swarm, replacing
// whatever entities it had before. Used at match start and restart.
//
// The leader is placed at 25% (left side) or 75% of the arena width, at
// half height, standing still. Each underling spawns near the leader with
// independent jitter on both axes and starts drifting in a random
// direction at underling speed.
func spawnPlayerEntities(p *Player, rng *rand.Rand, arenaW, arenaH float64, spawnLeft bool) {
	x := arenaW * 0.75
	if spawnLeft {
		x = arenaW * 0.25
	}
	leaderPos := Vec2{x, arenaH * 0.5}

	p.Leader = newLeader(p.ConnectionID, leaderPos)

	count := MinUnderlings + rng.Intn(MaxUnderlings-MinUnderlings+1)
	p.Underlings = make([]*Entity, 0, count)
	for i := 0; i < count; i++ {
		offset := Vec2{
			(rng.Float64()*2 - 1) * SpawnJitter,
			(rng.Float64()*2 - 1) * SpawnJitter,
		}
		vel := randomUnitVec(rng).Scale(UnderlingSpeed)
		p.Underlings = append(p.Underlings, newUnderling(p.ConnectionID, leaderPos.Add(offset), vel))
	}
}
