package game

import "time"

// step advances the room by dt seconds. Caller holds r.mu.
//
// Sub-step order is fixed; reordering changes outcomes and breaks
// deterministic replays:
//
//	intents -> wander -> integrate -> walls -> underling pairs ->
//	leader pair -> eating -> win check -> touch
func (r *Room) step(dt float64) {
	r.applyIntents()
	r.wanderUnderlings()
	r.integrate(dt)
	r.bounceWalls()
	r.collideUnderlings()
	r.collideLeaders()
	r.eatUnderlings()
	r.checkWin()
	r.lastActivity = time.Now()
}

// applyIntents overwrites each leader's velocity from the pending
// direction. No inertia: a released key stops the leader on the next tick.
func (r *Room) applyIntents() {
	for _, p := range r.players {
		dir := p.PendingDir.Vector()
		if dir.IsZero() {
			p.Leader.Vel = Vec2{}
			continue
		}
		p.Leader.Vel = dir.Scale(LeaderSpeed)
	}
}

// wanderUnderlings gives each underling a small chance to pick a new
// random heading. Keeps swarms visually alive without any server AI.
func (r *Room) wanderUnderlings() {
	for _, p := range r.players {
		for _, u := range p.Underlings {
			if r.rng.Float64() < WanderChance {
				u.Vel = randomUnitVec(r.rng).Scale(UnderlingSpeed)
			}
		}
	}
}

// integrate moves every entity by its velocity, underlings before leaders.
func (r *Room) integrate(dt float64) {
	for _, p := range r.players {
		for _, u := range p.Underlings {
			u.Pos = u.Pos.Add(u.Vel.Scale(dt))
		}
	}
	for _, p := range r.players {
		p.Leader.Pos = p.Leader.Pos.Add(p.Leader.Vel.Scale(dt))
	}
}

// bounceWalls clamps every entity into the arena and reflects the
// velocity component of any axis that hit a wall. Perfect reflection, no
// energy loss.
func (r *Room) bounceWalls() {
	for _, p := range r.players {
		for _, u := range p.Underlings {
			r.bounceEntity(u)
		}
		r.bounceEntity(p.Leader)
	}
}

func (r *Room) bounceEntity(e *Entity) {
	if e.Pos.X < e.Radius {
		e.Pos.X = e.Radius
		e.Vel = e.Vel.ReflectX()
	} else if e.Pos.X > r.arenaW-e.Radius {
		e.Pos.X = r.arenaW - e.Radius
		e.Vel = e.Vel.ReflectX()
	}
	if e.Pos.Y < e.Radius {
		e.Pos.Y = e.Radius
		e.Vel = e.Vel.ReflectY()
	} else if e.Pos.Y > r.arenaH-e.Radius {
		e.Pos.Y = r.arenaH - e.Radius
		e.Vel = e.Vel.ReflectY()
	}
}

// collideUnderlings resolves every unordered pair across both swarms
// pooled together. Overlapping pairs swap velocities outright and get
// pushed apart by half the overlap each. O(n²), but n stays in the low
// tens.
func (r *Room) collideUnderlings() {
	pool := make([]*Entity, 0, 2*MaxUnderlings)
	for _, p := range r.players {
		pool = append(pool, p.Underlings...)
	}

	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			a, b := pool[i], pool[j]
			if !overlaps(a, b) {
				continue
			}

			a.Vel, b.Vel = b.Vel, a.Vel

			sep := b.Pos.Sub(a.Pos)
			dist := sep.Length()
			if dist < normalizeEpsilon {
				// Exactly coincident: direction undefined, skip the push
				continue
			}
			n := sep.Scale(1 / dist)
			half := (a.Radius + b.Radius - dist) / 2
			a.Pos = a.Pos.Sub(n.Scale(half))
			b.Pos = b.Pos.Add(n.Scale(half))
		}
	}
}

// collideLeaders pushes overlapping leaders apart along the connecting
// normal, both at leader speed in opposite directions.
func (r *Room) collideLeaders() {
	if len(r.players) != MaxPlayersPerRoom {
		return
	}
	a := r.players[0].Leader
	b := r.players[1].Leader
	if !overlaps(a, b) {
		return
	}

	n := b.Pos.Sub(a.Pos).Normalize()
	if n.IsZero() {
		n = Vec2{1, 0}
	}
	a.Vel = n.Scale(-LeaderSpeed)
	b.Vel = n.Scale(LeaderSpeed)
	a.Pos = a.Pos.Add(n.Scale(-LeaderNudge))
	b.Pos = b.Pos.Add(n.Scale(LeaderNudge))
}

// eatUnderlings removes opponent underlings a leader touches. This is the
// only way a swarm shrinks. Reverse iteration keeps removal-during-
// traversal safe with swap-with-last deletion.
func (r *Room) eatUnderlings() {
	for _, p := range r.players {
		opp := r.opponentOf(p)
		if opp == nil {
			continue
		}
		leader := p.Leader
		for i := len(opp.Underlings) - 1; i >= 0; i-- {
			u := opp.Underlings[i]
			if !overlaps(leader, u) {
				continue
			}

			n := leader.Pos.Sub(u.Pos).Normalize()
			if n.IsZero() {
				n = randomUnitVec(r.rng)
			}
			leader.Pos = leader.Pos.Add(n.Scale(EatPush))
			leader.Vel = n.Scale(LeaderSpeed)

			opp.removeUnderlingAt(i)
			r.events.Emit(EventUnderlingEaten, r.ID, p.ConnectionID, u.ID)
		}
	}
}

// checkWin ends the match for the first player whose opponent has no
// underlings left. At most one winner per tick; the announced flag stays
// down until the driver dispatches the game-over event.
func (r *Room) checkWin() {
	for _, p := range r.players {
		opp := r.opponentOf(p)
		if opp == nil {
			continue
		}
		if len(opp.Underlings) == 0 {
			r.active = false
			r.winnerID = p.ConnectionID
			r.winnerAnnounced = false
			r.events.Emit(EventMatchWon, r.ID, p.ConnectionID, "")
			return
		}
	}
}
