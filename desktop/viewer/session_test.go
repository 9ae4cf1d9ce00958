package viewer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func boardWith(total int, occupants ...Occupant) *BoardState {
	return &BoardState{Width: 7, Height: 5, TotalMoves: total, Occupants: occupants}
}

func TestApplyAnimatesMovedOccupants(t *testing.T) {
	s := NewSessionView("abc")
	start := time.Unix(1000, 0)

	mover := Occupant{ID: 1, Kind: "mover", Pos: Position{X: 3, Y: 3}}
	s.Apply(boardWith(0, mover), start)

	if x, y := s.DisplayPos(mover, start); x != 3 || y != 3 {
		t.Errorf("first state should not animate, got (%v,%v)", x, y)
	}

	moved := Occupant{ID: 1, Kind: "mover", Pos: Position{X: 4, Y: 3}}
	s.Apply(boardWith(1, moved), start)

	tests := []struct {
		name  string
		after time.Duration
		wantX float64
	}{
		{"start", 0, 3},
		{"halfway", animationDuration / 2, 3.5},
		{"done", animationDuration, 4},
		{"later", time.Second, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := s.DisplayPos(moved, start.Add(tt.after))
			if x != tt.wantX || y != 3 {
				t.Errorf("DisplayPos = (%v,%v), want (%v,3)", x, y, tt.wantX)
			}
		})
	}

	if s.Bump(start) != 0 {
		t.Error("a successful move should not bump")
	}
}

func TestApplyBumpsOnBlockedMove(t *testing.T) {
	s := NewSessionView("abc")
	start := time.Unix(1000, 0)

	mover := Occupant{ID: 1, Kind: "mover", Pos: Position{X: 3, Y: 3}}
	s.Apply(boardWith(2, mover), start)
	if s.Bump(start) != 0 {
		t.Fatal("no bump expected before a blocked move")
	}

	s.Apply(boardWith(3, mover), start)
	if got := s.Bump(start); got != 1 {
		t.Errorf("Bump at start = %v, want 1", got)
	}
	if got := s.Bump(start.Add(bumpDuration / 2)); got != 0.5 {
		t.Errorf("Bump halfway = %v, want 0.5", got)
	}
	if got := s.Bump(start.Add(bumpDuration)); got != 0 {
		t.Errorf("Bump after the duration = %v, want 0", got)
	}

	// A refresh with the same counters changes nothing
	s.Apply(boardWith(3, mover), start.Add(time.Second))
	if got := s.Bump(start.Add(time.Second)); got != 0 {
		t.Errorf("Bump after an unchanged refresh = %v, want 0", got)
	}
}

func TestStale(t *testing.T) {
	s := NewSessionView("abc")
	now := time.Unix(1000, 0)

	if !s.Stale(now, time.Second) {
		t.Error("a view without state should be stale")
	}
	s.Apply(boardWith(0), now)
	if s.Stale(now.Add(500*time.Millisecond), time.Second) {
		t.Error("a fresh view should not be stale")
	}
	if !s.Stale(now.Add(2*time.Second), time.Second) {
		t.Error("an old view should be stale")
	}
}

func TestConnectListenAndSend(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan map[string]string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" || r.URL.Query().Get("session") != "abc" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteJSON(WSMessage{SessionID: "abc", Event: "error", Data: "ignored"})
		conn.WriteJSON(WSMessage{
			SessionID:  "abc",
			Event:      "state_update",
			BoardState: &BoardState{LevelName: "twins", TotalMoves: 1},
		})

		var msg map[string]string
		if err := conn.ReadJSON(&msg); err == nil {
			received <- msg
		}
	}))
	defer srv.Close()

	s := NewSessionView("abc")
	if s.Live() {
		t.Fatal("a new view should not be live")
	}
	if err := s.Connect(NewAPIClient(srv.URL)); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	if !s.Live() {
		t.Fatal("view should be live after connecting")
	}

	done := make(chan struct{})
	go func() {
		s.Listen()
		close(done)
	}()

	if err := s.Send("move", "right"); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	select {
	case msg := <-received:
		if msg["action"] != "move" || msg["direction"] != "right" {
			t.Errorf("server received %v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the move")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after the server closed")
	}

	if s.Live() {
		t.Error("view should fall back to polling once the socket closes")
	}
	if err := s.Send("reset", ""); err == nil {
		t.Error("Send should fail without a connection")
	}

	state := s.Snapshot()
	if state == nil || !strings.EqualFold(state.LevelName, "twins") || state.TotalMoves != 1 {
		t.Errorf("unexpected state after listen: %+v", state)
	}
}
