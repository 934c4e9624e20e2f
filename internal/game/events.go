package game

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// EventType classifies match events for the audit trail.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventRoomCreated
	EventRoomExpired
	EventPlayerJoined
	EventPlayerLeft
	EventMatchStarted
	EventMatchRestarted
	EventUnderlingEaten
	EventMatchWon
)

// String returns the wire name of the event type.
func (t EventType) String() string {
	switch t {
	case EventRoomCreated:
		return "room_created"
	case EventRoomExpired:
		return "room_expired"
	case EventPlayerJoined:
		return "player_joined"
	case EventPlayerLeft:
		return "player_left"
	case EventMatchStarted:
		return "match_started"
	case EventMatchRestarted:
		return "match_restarted"
	case EventUnderlingEaten:
		return "underling_eaten"
	case EventMatchWon:
		return "match_won"
	default:
		return "unknown"
	}
}

// MatchEvent is one line of the append-only JSONL match log.
type MatchEvent struct {
	Time         int64  `json:"time"` // unix nano
	Type         string `json:"type"`
	RoomID       string `json:"roomId"`
	ConnectionID string `json:"connectionId,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

const (
	eventBufferCap     = 1024
	maxEventsPerSec    = 1000
	eventFlushInterval = 100 * time.Millisecond
)

// MatchLog is a bounded, rate-limited, append-only event log. Producers
// are the rooms and the registry; a single background goroutine batches
// writes to disk. A nil *MatchLog is valid and drops everything, so
// callers never need to guard.
type MatchLog struct {
	mu  sync.Mutex
	buf []MatchEvent

	limiter *rate.Limiter
	file    *os.File

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	total   atomic.Uint64
	dropped atomic.Uint64
}

// NewMatchLog creates a match log. It stays inert until Start.
func NewMatchLog() *MatchLog {
	return &MatchLog{
		buf:     make([]MatchEvent, 0, eventBufferCap),
		limiter: rate.NewLimiter(maxEventsPerSec, maxEventsPerSec/10),
		stopCh:  make(chan struct{}),
	}
}

// Start opens the output file and launches the writer goroutine.
func (l *MatchLog) Start(path string) error {
	if l.running.Load() {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.running.Store(true)

	l.wg.Add(1)
	go l.writerLoop()
	return nil
}

// Stop flushes pending events and closes the file. Safe to call twice.
func (l *MatchLog) Stop() {
	l.stopOnce.Do(func() {
		if !l.running.Load() {
			return
		}
		l.running.Store(false)
		close(l.stopCh)
		l.wg.Wait()

		l.flush()
		if l.file != nil {
			l.file.Close()
		}
	})
}

// Emit records one event. Returns false when the log is nil, stopped,
// rate limited, or the buffer is full; emitting never blocks a tick.
func (l *MatchLog) Emit(t EventType, roomID, connectionID, detail string) bool {
	if l == nil || !l.running.Load() {
		return false
	}
	if !l.limiter.Allow() {
		l.dropped.Add(1)
		return false
	}

	ev := MatchEvent{
		Time:         time.Now().UnixNano(),
		Type:         t.String(),
		RoomID:       roomID,
		ConnectionID: connectionID,
		Detail:       detail,
	}

	l.mu.Lock()
	if len(l.buf) >= eventBufferCap {
		l.mu.Unlock()
		l.dropped.Add(1)
		return false
	}
	l.buf = append(l.buf, ev)
	l.mu.Unlock()

	l.total.Add(1)
	return true
}

// writerLoop flushes the buffer to disk on a fixed interval.
func (l *MatchLog) writerLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(eventFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.flush()
		}
	}
}

// flush writes buffered events as newline-delimited JSON.
func (l *MatchLog) flush() {
	l.mu.Lock()
	if len(l.buf) == 0 {
		l.mu.Unlock()
		return
	}
	batch := l.buf
	l.buf = make([]MatchEvent, 0, eventBufferCap)
	l.mu.Unlock()

	for _, ev := range batch {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("match log: marshal failed: %v", err)
			continue
		}
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}
}

// Stats returns counters for monitoring.
func (l *MatchLog) Stats() map[string]uint64 {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	pending := uint64(len(l.buf))
	l.mu.Unlock()

	return map[string]uint64{
		"total":   l.total.Load(),
		"dropped": l.dropped.Load(),
		"pending": pending,
	}
}
