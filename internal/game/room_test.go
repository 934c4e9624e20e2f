package game

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	return NewRoom("TEST42", 960, 640, rand.New(rand.NewSource(1)))
}

func newActiveRoom(t *testing.T) *Room {
	t.Helper()
	r := newTestRoom(t)
	if _, err := r.AddPlayer("c1", "Ana"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if _, err := r.AddPlayer("c2", "Bo"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if !r.MaybeStart() {
		t.Fatal("Expected match to start with two players")
	}
	return r
}

// TestAddPlayerTeams tests team assignment by join order
func TestAddPlayerTeams(t *testing.T) {
	r := newTestRoom(t)

	first, err := r.AddPlayer("c1", "Ana")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if first.Team != TeamBlue {
		t.Errorf("Expected first player blue, got %s", first.Team)
	}

	second, err := r.AddPlayer("c2", "Bo")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if second.Team != TeamRed {
		t.Errorf("Expected second player red, got %s", second.Team)
	}
}

// TestAddPlayerRoomFull tests that a third join always fails
func TestAddPlayerRoomFull(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("c1", "Ana")
	r.AddPlayer("c2", "Bo")

	_, err := r.AddPlayer("c3", "Cy")
	if !errors.Is(err, ErrRoomFull) {
		t.Errorf("Expected ErrRoomFull, got %v", err)
	}
	if r.PlayerCount() != 2 {
		t.Errorf("Expected 2 players, got %d", r.PlayerCount())
	}
}

// TestMaybeStartNeedsTwoPlayers tests the waiting state
func TestMaybeStartNeedsTwoPlayers(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("c1", "Ana")

	if r.MaybeStart() {
		t.Error("Match should not start with one player")
	}
	if r.Active() {
		t.Error("Room should not be active with one player")
	}
}

// TestMaybeStartOnlyOnce tests that a running match is not restarted
func TestMaybeStartOnlyOnce(t *testing.T) {
	r := newActiveRoom(t)
	if r.MaybeStart() {
		t.Error("MaybeStart should be a no-op while active")
	}
}

// TestRemovePlayerForfeit tests that leaving mid-match hands the win to
// the survivor
func TestRemovePlayerForfeit(t *testing.T) {
	r := newActiveRoom(t)

	if !r.RemovePlayer("c1") {
		t.Fatal("Expected removal to succeed")
	}
	if r.Active() {
		t.Error("Room should stop on forfeit")
	}
	if r.Winner() != "c2" {
		t.Errorf("Expected survivor c2 to win, got %q", r.Winner())
	}

	winner, ok := r.TakePendingWin()
	if !ok || winner != "c2" {
		t.Errorf("Expected pending win for c2, got %q (%v)", winner, ok)
	}
}

// TestRemovePlayerIdempotent tests that a second removal is a no-op
func TestRemovePlayerIdempotent(t *testing.T) {
	r := newActiveRoom(t)

	r.RemovePlayer("c1")
	winnerBefore := r.Winner()

	if r.RemovePlayer("c1") {
		t.Error("Second removal should be a no-op")
	}
	if r.Winner() != winnerBefore {
		t.Error("Second removal must not change the winner")
	}
	if r.PlayerCount() != 1 {
		t.Errorf("Expected 1 player, got %d", r.PlayerCount())
	}
}

// TestRemovePlayerBeforeStart tests that leaving a waiting room declares
// no winner
func TestRemovePlayerBeforeStart(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("c1", "Ana")
	r.AddPlayer("c2", "Bo")

	r.RemovePlayer("c1")

	if r.Winner() != "" {
		t.Errorf("Expected no winner before match start, got %q", r.Winner())
	}
}

// TestRestart tests that restart fully respawns and clears the outcome
func TestRestart(t *testing.T) {
	r := newActiveRoom(t)

	// Force a finished match
	r.mu.Lock()
	r.active = false
	r.winnerID = "c1"
	r.winnerAnnounced = true
	oldLeader := r.players[0].Leader.ID
	r.mu.Unlock()

	if !r.Restart() {
		t.Fatal("Expected restart with two players to succeed")
	}
	if !r.Active() {
		t.Error("Room should be active after restart")
	}
	if r.Winner() != "" {
		t.Errorf("Expected winner cleared, got %q", r.Winner())
	}

	r.mu.Lock()
	newLeader := r.players[0].Leader.ID
	underlings := len(r.players[0].Underlings)
	r.mu.Unlock()
	if newLeader == oldLeader {
		t.Error("Expected fresh entities after restart")
	}
	if underlings < MinUnderlings || underlings > MaxUnderlings {
		t.Errorf("Expected %d..%d underlings after restart, got %d", MinUnderlings, MaxUnderlings, underlings)
	}
}

// TestRestartNeedsTwoPlayers tests the restart guard
func TestRestartNeedsTwoPlayers(t *testing.T) {
	r := newTestRoom(t)
	r.AddPlayer("c1", "Ana")

	if r.Restart() {
		t.Error("Restart should fail with one player")
	}
}

// TestSetDirectionUnknownConnection tests the silent no-op contract
func TestSetDirectionUnknownConnection(t *testing.T) {
	r := newActiveRoom(t)

	// Must not panic or mutate anything visible
	r.SetDirection("ghost", DirUp)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.PendingDir != DirNone {
			t.Errorf("Expected DirNone for %s, got %v", p.ConnectionID, p.PendingDir)
		}
	}
}

// TestSetDirectionLastWriteWins tests the O(1) intent overwrite
func TestSetDirectionLastWriteWins(t *testing.T) {
	r := newActiveRoom(t)

	r.SetDirection("c1", DirUp)
	r.SetDirection("c1", DirLeft)

	r.mu.Lock()
	got := r.players[0].PendingDir
	r.mu.Unlock()
	if got != DirLeft {
		t.Errorf("Expected DirLeft, got %v", got)
	}
}
