package game

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Broadcaster receives outbound events from the simulation core. The
// transport layer implements it; the core never knows what a socket is.
// Every event is scoped to one room's subscriber group.
type Broadcaster interface {
	RoomCreated(view StateView)
	PlayerJoined(view StateView)
	StateUpdated(view StateView)
	MatchRestarted(view StateView)
	GameOver(roomID, winnerID string)
}

// NopBroadcaster discards all events. Useful headless and in tests.
type NopBroadcaster struct{}

func (NopBroadcaster) RoomCreated(StateView)    {}
func (NopBroadcaster) PlayerJoined(StateView)   {}
func (NopBroadcaster) StateUpdated(StateView)   {}
func (NopBroadcaster) MatchRestarted(StateView) {}
func (NopBroadcaster) GameOver(string, string)  {}

// Driver walks all rooms at a fixed cadence: sweep expired rooms, start
// matches that have two players waiting, advance active simulations, and
// hand every room's snapshot to the broadcaster. One goroutine drives all
// rooms sequentially; per-room work is independent.
type Driver struct {
	registry *Registry
	bc       Broadcaster

	interval time.Duration
	maxDelta float64 // clamp on elapsed seconds, absorbs scheduler stalls

	// OnTickDuration, when set, observes how long each full pass took.
	OnTickDuration func(time.Duration)

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDriver creates a driver. interval is the tick cadence, maxDelta the
// largest elapsed time in seconds a single tick will integrate.
func NewDriver(registry *Registry, bc Broadcaster, interval time.Duration, maxDelta float64) *Driver {
	if bc == nil {
		bc = NopBroadcaster{}
	}
	return &Driver{
		registry: registry,
		bc:       bc,
		interval: interval,
		maxDelta: maxDelta,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the scheduler goroutine.
func (d *Driver) Start() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-d.stopCh:
				return
			case now := <-ticker.C:
				dt := now.Sub(last).Seconds()
				last = now
				d.TickAll(dt)
			}
		}
	}()

	log.Printf("tick driver started (%v cadence)", d.interval)
}

// Stop halts the scheduler and waits for the in-flight tick to finish, so
// no room is left mid-step.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		d.running.Store(false)
		close(d.stopCh)
		d.wg.Wait()
		log.Printf("tick driver stopped")
	})
}

// TickAll runs one full pass over every room with the given delta in
// seconds, clamped to maxDelta so a scheduler stall never teleports
// entities. Exposed so tests can drive time by hand.
func (d *Driver) TickAll(dt float64) {
	if dt > d.maxDelta {
		dt = d.maxDelta
	}
	start := time.Now()

	d.registry.SweepExpired(start)

	for _, room := range d.registry.Rooms() {
		d.tickRoom(room, dt)
	}

	if d.OnTickDuration != nil {
		d.OnTickDuration(time.Since(start))
	}
}

// tickRoom advances one room. A panic in one room is logged and contained
// so the remaining rooms still tick.
func (d *Driver) tickRoom(room *Room, dt float64) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("room %s: tick panicked: %v", room.ID, rec)
		}
	}()

	if room.MaybeStart() {
		log.Printf("room %s: match started", room.ID)
	}

	if room.Active() {
		room.Tick(dt)
	}

	// Snapshots go out every tick, even while waiting, so clients can
	// render the lobby.
	d.bc.StateUpdated(room.Snapshot())

	if winnerID, ok := room.TakePendingWin(); ok {
		log.Printf("room %s: game over, winner %s", room.ID, winnerID)
		d.bc.GameOver(room.ID, winnerID)
	}
}
