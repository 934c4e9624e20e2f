package game

// Simulation tuning constants. Speeds are world units per second, radii and
// distances are world units.
const (
	LeaderRadius    = 18.0
	UnderlingRadius = 12.0

	LeaderSpeed    = 160.0
	UnderlingSpeed = 120.0

	// Underling spawn placement around the leader
	MinUnderlings = 3
	MaxUnderlings = 5
	SpawnJitter   = 60.0

	// Per-tick probability that an underling picks a new wander direction
	WanderChance = 0.02

	// Separation applied when leaders collide
	LeaderNudge = 4.0

	// Push applied to a leader when it eats an underling
	EatPush = 6.0

	DefaultArenaWidth  = 960.0
	DefaultArenaHeight = 640.0
)
