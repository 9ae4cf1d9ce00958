// Command desktop is a graphical viewer for gridpush sessions. It follows
// sessions over the server's websocket (falling back to polling), animates
// occupants between updates and forwards keyboard moves.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/wricardo/mcp-training/gridpush/desktop/viewer"
)

const (
	cellSize     = 40
	headerHeight = 80
	screenWidth  = 800
	screenHeight = 720
	pollInterval = 500 * time.Millisecond
	maxSessions  = 9
)

// ScreenType represents different screens in the app
type ScreenType int

const (
	ScreenWelcome ScreenType = iota
	ScreenGame
)

var (
	backgroundColor = color.RGBA{20, 20, 30, 255}
	floorColor      = color.RGBA{60, 60, 70, 255}
	goalColor       = color.RGBA{200, 60, 60, 255}
	activeColor     = color.RGBA{255, 255, 255, 255}
)

// kindColor returns the fill colour of an occupant kind
func kindColor(kind string) color.RGBA {
	switch kind {
	case "wall":
		return color.RGBA{100, 50, 0, 255}
	case "mover":
		return color.RGBA{255, 220, 80, 255}
	case "smooth":
		return color.RGBA{80, 140, 255, 255}
	case "sticky":
		return color.RGBA{190, 90, 255, 255}
	case "clingy":
		return color.RGBA{60, 200, 180, 255}
	default:
		return color.RGBA{128, 128, 128, 255}
	}
}

// Game represents the desktop client
type Game struct {
	api              *viewer.APIClient
	sessions         []*viewer.SessionView
	activeSession    int
	currentScreen    ScreenType
	welcomeScreen    *WelcomeScreen
	selectedSessions map[string]bool
}

// WelcomeScreen manages the session selection screen
type WelcomeScreen struct {
	availableSessions []viewer.SessionListItem
	availableLevels   []viewer.LevelListItem
	cursorPos         int
	errorMsg          string
	newSessionLevel   string
}

// NewGame creates a viewer; with session IDs it skips the welcome screen
func NewGame(api *viewer.APIClient, sessionIDs []string) *Game {
	g := &Game{
		api:              api,
		currentScreen:    ScreenWelcome,
		selectedSessions: make(map[string]bool),
		welcomeScreen:    &WelcomeScreen{},
	}

	if len(sessionIDs) > 0 {
		for _, id := range sessionIDs {
			g.addSession(id)
		}
		g.currentScreen = ScreenGame
	} else {
		g.loadWelcomeData()
	}
	return g
}

// addSession follows a session, creating one on the active level when id is empty
func (g *Game) addSession(id string) {
	if id == "" {
		levelID := g.welcomeScreen.newSessionLevel
		created, err := g.api.CreateSession(levelID)
		if err != nil {
			log.Printf("Failed to create session: %v", err)
			return
		}
		id = created
		log.Printf("Created new session: %s (level: %s)", id, levelID)
	}

	s := viewer.NewSessionView(id)
	g.sessions = append(g.sessions, s)

	if err := s.Connect(g.api); err != nil {
		log.Printf("Failed to connect WebSocket for %s: %v (falling back to polling)", id, err)
	} else {
		go s.Listen()
	}

	g.refresh(s)
}

func (g *Game) refresh(s *viewer.SessionView) {
	state, err := g.api.State(s.ID())
	if err != nil {
		log.Printf("Error fetching state for %s: %v", s.ID(), err)
		return
	}
	s.Apply(state, time.Now())
}

// loadWelcomeData fetches sessions and levels for the welcome screen
func (g *Game) loadWelcomeData() {
	ws := g.welcomeScreen
	ws.errorMsg = ""

	sessions, err := g.api.ListSessions()
	if err != nil {
		ws.errorMsg = fmt.Sprintf("Error loading sessions: %v", err)
		return
	}
	ws.availableSessions = sessions

	levels, err := g.api.ListLevels()
	if err != nil {
		ws.errorMsg = fmt.Sprintf("Error loading levels: %v", err)
		return
	}
	ws.availableLevels = levels
}

// sendAction forwards a move or reset for the active session
func (g *Game) sendAction(action, direction string) {
	if len(g.sessions) == 0 {
		return
	}
	s := g.sessions[g.activeSession]

	if s.Live() {
		if err := s.Send(action, direction); err == nil {
			return
		}
		log.Printf("WebSocket send failed for %s, using REST", s.ID())
	}

	var err error
	if action == "reset" {
		err = g.api.Reset(s.ID())
	} else {
		err = g.api.Move(s.ID(), direction)
	}
	if err != nil {
		log.Printf("Action %s failed for %s: %v", action, s.ID(), err)
	}
	g.refresh(s)
}

// Update handles input for the current screen
func (g *Game) Update() error {
	switch g.currentScreen {
	case ScreenWelcome:
		g.updateWelcomeScreen()
	case ScreenGame:
		g.updateGameScreen()
	}
	return nil
}

func (g *Game) updateWelcomeScreen() {
	ws := g.welcomeScreen

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.loadWelcomeData()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && ws.cursorPos < len(ws.availableSessions)-1 {
		ws.cursorPos++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && ws.cursorPos > 0 {
		ws.cursorPos--
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && ws.cursorPos < len(ws.availableSessions) {
		id := ws.availableSessions[ws.cursorPos].ID
		if g.selectedSessions[id] {
			delete(g.selectedSessions, id)
		} else {
			g.selectedSessions[id] = true
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ws.newSessionLevel = viewer.NextLevel(ws.availableLevels, ws.newSessionLevel)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		id, err := g.api.CreateSession(ws.newSessionLevel)
		if err != nil {
			ws.errorMsg = fmt.Sprintf("Failed to create session: %v", err)
		} else {
			g.selectedSessions[id] = true
			g.loadWelcomeData()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if len(g.selectedSessions) == 0 {
			ws.errorMsg = "Please select at least one session"
			return
		}
		for id := range g.selectedSessions {
			g.addSession(id)
		}
		g.selectedSessions = make(map[string]bool)
		g.currentScreen = ScreenGame
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && len(g.sessions) > 0 {
		g.currentScreen = ScreenGame
	}
}

func (g *Game) updateGameScreen() {
	if len(g.sessions) == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.currentScreen = ScreenWelcome
			g.loadWelcomeData()
		}
		return
	}

	now := time.Now()
	for _, s := range g.sessions {
		if !s.Live() && s.Stale(now, pollInterval) {
			g.refresh(s)
		}
	}

	for k := ebiten.Key1; k <= ebiten.Key9; k++ {
		if inpututil.IsKeyJustPressed(k) {
			if idx := int(k - ebiten.Key1); idx < len(g.sessions) {
				g.activeSession = idx
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyN) && len(g.sessions) < maxSessions {
		g.addSession("")
	}

	keys := []struct {
		dir  string
		keys []ebiten.Key
	}{
		{"up", []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
		{"down", []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
		{"left", []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
		{"right", []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
	}
	for _, k := range keys {
		for _, key := range k.keys {
			if inpututil.IsKeyJustPressed(key) {
				g.sendAction("move", k.dir)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sendAction("reset", "")
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.currentScreen = ScreenWelcome
		g.loadWelcomeData()
	}
}

// Draw renders the current screen
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	switch g.currentScreen {
	case ScreenWelcome:
		g.drawWelcomeScreen(screen)
	case ScreenGame:
		g.drawGameScreen(screen)
	}
}

func (g *Game) drawWelcomeScreen(screen *ebiten.Image) {
	ws := g.welcomeScreen

	y := 20
	ebitenutil.DebugPrintAt(screen, "=== GRIDPUSH - SESSION SELECT ===", 250, y)
	y += 30

	if ws.errorMsg != "" {
		ebitenutil.DebugPrintAt(screen, "ERROR: "+ws.errorMsg, 20, y)
		y += 20
	}

	ebitenutil.DebugPrintAt(screen, "Available Sessions:", 20, y)
	y += 20
	if len(ws.availableSessions) == 0 {
		ebitenutil.DebugPrintAt(screen, "  No sessions found. Press N to create one.", 20, y)
		y += 20
	}
	for i, s := range ws.availableSessions {
		cursor := "  "
		if i == ws.cursorPos {
			cursor = "> "
		}
		checkbox := "[ ]"
		if g.selectedSessions[s.ID] {
			checkbox = "[X]"
		}
		ebitenutil.DebugPrintAt(screen, cursor+checkbox+" "+viewer.SessionLine(s), 20, y)
		y += 15
	}

	y += 20
	level := ws.newSessionLevel
	if level == "" {
		level = "default"
	}
	ebitenutil.DebugPrintAt(screen, "New session level: "+level, 20, y)
	y += 15
	for _, l := range ws.availableLevels {
		marker := "  "
		if l.LevelID == ws.newSessionLevel {
			marker = "> "
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("    %s%s - %s", marker, l.LevelID, l.Description), 20, y)
		y += 15
	}

	y += 20
	for _, line := range []string{
		"CONTROLS:",
		"  UP/DOWN  - Navigate sessions",
		"  SPACE    - Toggle session selection",
		"  TAB      - Cycle level for new session",
		"  N        - Create new session",
		"  ENTER    - Open selected sessions",
		"  F5       - Refresh",
	} {
		ebitenutil.DebugPrintAt(screen, line, 20, y)
		y += 15
	}
}

func (g *Game) drawGameScreen(screen *ebiten.Image) {
	if len(g.sessions) == 0 {
		ebitenutil.DebugPrint(screen, "No sessions. Press ESC for session select.")
		return
	}

	g.drawSessionStats(screen)

	active := g.sessions[g.activeSession]
	state := active.Snapshot()
	if state == nil {
		ebitenutil.DebugPrintAt(screen, "Loading...", 10, headerHeight)
		return
	}

	now := time.Now()
	bump := active.Bump(now)
	shakeX := 4 * bump * math.Sin(bump*40)

	for y := 1; y <= state.Height; y++ {
		for x := 1; x <= state.Width; x++ {
			px, py := cellOrigin(float64(x), float64(y))
			ebitenutil.DrawRect(screen, px, py, cellSize-1, cellSize-1, floorColor)
		}
	}
	for _, goal := range state.Goals {
		px, py := cellOrigin(float64(goal.X), float64(goal.Y))
		ebitenutil.DrawRect(screen, px+4, py+4, cellSize-9, cellSize-9, goalColor)
	}

	for _, o := range state.Occupants {
		fx, fy := active.DisplayPos(o, now)
		px, py := cellOrigin(fx, fy)
		c := kindColor(o.Kind)
		if o.Kind == "mover" {
			px += shakeX
			c.R = uint8(float64(c.R)*(1-bump*0.7) + 255*bump*0.7)
		}
		if o.Kind == "wall" {
			ebitenutil.DrawRect(screen, px, py, cellSize-1, cellSize-1, c)
			continue
		}
		ebitenutil.DrawRect(screen, px+3, py+3, cellSize-7, cellSize-7, c)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", o.ID), int(px)+10, int(py)+12)
	}

	ebitenutil.DebugPrintAt(screen, state.Message, 10, screenHeight-40)
	ebitenutil.DebugPrintAt(screen, "1-9: Switch | N: New | Arrow/WASD: Move | R: Reset | ESC: Menu", 10, screenHeight-20)
}

// cellOrigin converts a 1-based (possibly fractional) cell coordinate to pixels
func cellOrigin(x, y float64) (float64, float64) {
	return (x - 1) * cellSize, (y-1)*cellSize + headerHeight
}

func (g *Game) drawSessionStats(screen *ebiten.Image) {
	for idx, s := range g.sessions {
		state := s.Snapshot()
		if state == nil {
			continue
		}
		y := 5 + idx*15

		marker := "   "
		if idx == g.activeSession {
			marker = ">>>"
			ebitenutil.DrawRect(screen, 5, float64(y), 10, 10, activeColor)
		}
		conn := "POLL"
		if s.Live() {
			conn = "WS"
		}

		info := fmt.Sprintf("%s [%d] %s [%s] %s MV:%d TOTAL:%d", marker, idx+1, s.ID(), conn,
			state.LevelName, state.CurrentMovesCount, state.TotalMoves)
		if state.Solved {
			info += " SOLVED!"
		}
		ebitenutil.DebugPrintAt(screen, info, 20, y)
	}
}

// Layout returns the logical screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	server := flag.String("url", "http://localhost:8080", "gridpush server URL")
	flag.Parse()

	game := NewGame(viewer.NewAPIClient(*server), flag.Args())

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Gridpush - Desktop Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
