package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Position is a 1-based board coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Occupant is one object on the board
type Occupant struct {
	ID   int      `json:"id"`
	Kind string   `json:"kind"`
	Pos  Position `json:"pos"`
}

// Move is one entry of the server's move history
type Move struct {
	Action     string `json:"action"`
	Actor      int    `json:"actor"`
	Success    bool   `json:"success"`
	MoveNumber int    `json:"move_number"`
}

// BoardState mirrors the server's board state
type BoardState struct {
	LevelName         string     `json:"level_name"`
	Width             int        `json:"width"`
	Height            int        `json:"height"`
	Occupants         []Occupant `json:"occupants"`
	Goals             []Position `json:"goals,omitempty"`
	Message           string     `json:"message"`
	Solved            bool       `json:"solved"`
	TotalMoves        int        `json:"total_moves"`
	CurrentMovesCount int        `json:"current_moves_count"`
	CurrentMoves      []Move     `json:"current_moves"`
}

// WSMessage is a websocket frame sent by the server
type WSMessage struct {
	SessionID  string      `json:"session_id"`
	BoardState *BoardState `json:"board_state,omitempty"`
	Event      string      `json:"event,omitempty"`
	Data       any         `json:"data,omitempty"`
}

// SessionListItem is one entry of GET /api/sessions
type SessionListItem struct {
	ID         string      `json:"id"`
	LevelID    string      `json:"level_id"`
	BoardState *BoardState `json:"board_state"`
}

// LevelListItem is one entry of GET /api/levels
type LevelListItem struct {
	LevelID     string `json:"level_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// APIClient wraps the REST endpoints the viewer uses
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *APIClient) ListSessions() ([]SessionListItem, error) {
	var resp struct {
		Sessions []SessionListItem `json:"sessions"`
	}
	if err := c.do(http.MethodGet, "/api/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *APIClient) ListLevels() ([]LevelListItem, error) {
	var levels []LevelListItem
	if err := c.do(http.MethodGet, "/api/levels", nil, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

// CreateSession starts a session on levelID, or the server default when empty
func (c *APIClient) CreateSession(levelID string) (string, error) {
	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(http.MethodPost, "/api/sessions", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *APIClient) State(sessionID string) (*BoardState, error) {
	var state BoardState
	if err := c.do(http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID)+"/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *APIClient) Move(sessionID, direction string) error {
	body := map[string]string{"direction": direction}
	return c.do(http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/move", body, nil)
}

func (c *APIClient) Reset(sessionID string) error {
	return c.do(http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/reset", nil, nil)
}

// WSURL returns the websocket address for a session
func (c *APIClient) WSURL(sessionID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"session": []string{sessionID}}.Encode()
	return u.String(), nil
}

func (c *APIClient) do(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to parse response: %v (body: %s)", err, string(data))
		}
	}
	return nil
}

// NextLevel cycles through the level IDs, with "" (server default) after the last
func NextLevel(levels []LevelListItem, current string) string {
	idx := -1
	for i, l := range levels {
		if l.LevelID == current {
			idx = i
			break
		}
	}
	if idx+1 >= len(levels) {
		return ""
	}
	return levels[idx+1].LevelID
}

// SessionLine summarises a session for the welcome list
func SessionLine(s SessionListItem) string {
	line := fmt.Sprintf("%s | %s", s.ID, s.LevelID)
	if s.BoardState != nil {
		line += fmt.Sprintf(" | moves:%d", s.BoardState.CurrentMovesCount)
		if s.BoardState.Solved {
			line += " SOLVED"
		}
	}
	return line
}
