package game

import (
	"math"
	"math/rand"
	"testing"
)

// TestSpawnLeaderPlacement tests leader positions for both sides
func TestSpawnLeaderPlacement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	left := &Player{ConnectionID: "c1", Team: TeamBlue}
	spawnPlayerEntities(left, rng, 960, 640, true)
	if left.Leader.Pos != (Vec2{240, 320}) {
		t.Errorf("Expected left leader at {240 320}, got %v", left.Leader.Pos)
	}
	if !left.Leader.Vel.IsZero() {
		t.Errorf("Expected zero leader velocity, got %v", left.Leader.Vel)
	}
	if left.Leader.Radius != LeaderRadius {
		t.Errorf("Expected radius %v, got %v", LeaderRadius, left.Leader.Radius)
	}

	right := &Player{ConnectionID: "c2", Team: TeamRed}
	spawnPlayerEntities(right, rng, 960, 640, false)
	if right.Leader.Pos != (Vec2{720, 320}) {
		t.Errorf("Expected right leader at {720 320}, got %v", right.Leader.Pos)
	}
}

// TestSpawnUnderlings tests swarm size, placement jitter and speed
func TestSpawnUnderlings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		p := &Player{ConnectionID: "c1"}
		spawnPlayerEntities(p, rng, 960, 640, true)

		n := len(p.Underlings)
		if n < MinUnderlings || n > MaxUnderlings {
			t.Fatalf("Expected %d..%d underlings, got %d", MinUnderlings, MaxUnderlings, n)
		}

		for _, u := range p.Underlings {
			dx := u.Pos.X - p.Leader.Pos.X
			dy := u.Pos.Y - p.Leader.Pos.Y
			if math.Abs(dx) > SpawnJitter || math.Abs(dy) > SpawnJitter {
				t.Errorf("Underling offset {%f %f} outside jitter range", dx, dy)
			}
			if speed := u.Vel.Length(); math.Abs(speed-UnderlingSpeed) > 1e-9 {
				t.Errorf("Expected underling speed %v, got %f", UnderlingSpeed, speed)
			}
			if u.OwnerID != "c1" {
				t.Errorf("Expected owner c1, got %s", u.OwnerID)
			}
			if u.Radius != UnderlingRadius {
				t.Errorf("Expected radius %v, got %v", UnderlingRadius, u.Radius)
			}
		}
	}
}

// TestSpawnReplacesEntities tests that respawning discards prior entities
func TestSpawnReplacesEntities(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	p := &Player{ConnectionID: "c1"}
	spawnPlayerEntities(p, rng, 960, 640, true)
	oldLeader := p.Leader.ID
	oldIDs := map[string]bool{}
	for _, u := range p.Underlings {
		oldIDs[u.ID] = true
	}

	spawnPlayerEntities(p, rng, 960, 640, true)

	if p.Leader.ID == oldLeader {
		t.Error("Expected a fresh leader entity after respawn")
	}
	for _, u := range p.Underlings {
		if oldIDs[u.ID] {
			t.Errorf("Underling %s survived respawn", u.ID)
		}
	}
}
