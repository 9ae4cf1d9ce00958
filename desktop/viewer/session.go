package viewer

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errNotConnected = errors.New("websocket not connected")

const (
	animationDuration = 150 * time.Millisecond
	bumpDuration      = 400 * time.Millisecond
)

// SessionView is the viewer's copy of one session with the data needed to
// animate occupants between updates
type SessionView struct {
	id   string
	conn *websocket.Conn

	mu         sync.RWMutex
	state      *BoardState
	from       map[int]Position // where each moving occupant started
	moveStart  time.Time
	bumpStart  time.Time
	lastUpdate time.Time
}

func NewSessionView(id string) *SessionView {
	return &SessionView{id: id, from: make(map[int]Position)}
}

func (s *SessionView) ID() string { return s.id }

// Live reports whether updates arrive over a websocket
func (s *SessionView) Live() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn != nil
}

// Apply installs a new state. Occupants that changed cell animate from their
// old cell; a new request that moved nothing triggers a bump.
func (s *SessionView) Apply(state *BoardState, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUpdate = now
	if s.state == nil || state == nil {
		s.state = state
		s.from = make(map[int]Position)
		return
	}

	previous := make(map[int]Position, len(s.state.Occupants))
	for _, o := range s.state.Occupants {
		previous[o.ID] = o.Pos
	}

	moved := make(map[int]Position)
	for _, o := range state.Occupants {
		if old, ok := previous[o.ID]; ok && old != o.Pos {
			moved[o.ID] = old
		}
	}

	switch {
	case len(moved) > 0:
		s.from = moved
		s.moveStart = now
	case state.TotalMoves > s.state.TotalMoves:
		s.bumpStart = now
	}
	s.state = state
}

// Snapshot returns the current state
func (s *SessionView) Snapshot() *BoardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// DisplayPos interpolates an occupant's cell position at time now
func (s *SessionView) DisplayPos(o Occupant, now time.Time) (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, ok := s.from[o.ID]
	if !ok {
		return float64(o.Pos.X), float64(o.Pos.Y)
	}

	t := float64(now.Sub(s.moveStart)) / float64(animationDuration)
	if t >= 1 {
		return float64(o.Pos.X), float64(o.Pos.Y)
	}
	if t < 0 {
		t = 0
	}
	return float64(from.X)*(1-t) + float64(o.Pos.X)*t, float64(from.Y)*(1-t) + float64(o.Pos.Y)*t
}

// Bump returns the remaining bump intensity in [0,1]
func (s *SessionView) Bump(now time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bumpStart.IsZero() {
		return 0
	}
	progress := float64(now.Sub(s.bumpStart)) / float64(bumpDuration)
	if progress >= 1 {
		return 0
	}
	return 1 - progress
}

// Stale reports whether a polled session is due for a refresh
func (s *SessionView) Stale(now time.Time, every time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == nil || now.Sub(s.lastUpdate) > every
}

func (s *SessionView) Connect(api *APIClient) error {
	wsURL, err := api.WSURL(s.id)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	log.Printf("WebSocket connected for session %s", s.id)
	return nil
}

// Listen applies every board update pushed over the websocket until it
// closes, then falls back to polling
func (s *SessionView) Listen() {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return
	}

	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error for %s: %v", s.id, err)
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}
		if msg.Event == "error" {
			log.Printf("Server error for %s: %v", s.id, msg.Data)
			continue
		}
		if msg.BoardState == nil {
			continue
		}
		s.Apply(msg.BoardState, time.Now())
	}
}

// Send issues a move or reset over the websocket
func (s *SessionView) Send(action, direction string) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return errNotConnected
	}
	return conn.WriteJSON(map[string]string{"action": action, "direction": direction})
}
