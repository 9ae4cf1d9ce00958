package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/gridpush/game/config"
	"github.com/wricardo/mcp-training/gridpush/game/progress"
)

type recordingSounds struct {
	blocked int
	solved  int
}

func (r *recordingSounds) Blocked() { r.blocked++ }
func (r *recordingSounds) Solved()  { r.solved++ }
func (r *recordingSounds) Close()   {}

func newTestPlayer(t *testing.T) (*player, *recordingSounds) {
	t.Helper()

	levels, err := config.NewManager("../../levels")
	if err != nil {
		t.Fatalf("failed to open levels: %v", err)
	}
	store, err := progress.NewStore(nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	snd := &recordingSounds{}
	p, err := newPlayer(levels, store, snd)
	if err != nil {
		t.Fatalf("newPlayer error: %v", err)
	}
	if err := p.load("clingy"); err != nil {
		t.Fatalf("failed to load clingy: %v", err)
	}
	return p, snd
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		ch   rune
		want action
	}{
		{"arrow up", tcell.KeyUp, 0, "up"},
		{"arrow down", tcell.KeyDown, 0, "down"},
		{"arrow left", tcell.KeyLeft, 0, "left"},
		{"arrow right", tcell.KeyRight, 0, "right"},
		{"w", tcell.KeyRune, 'w', "up"},
		{"s", tcell.KeyRune, 's', "down"},
		{"a", tcell.KeyRune, 'a', "left"},
		{"d", tcell.KeyRune, 'd', "right"},
		{"k", tcell.KeyRune, 'k', "up"},
		{"j", tcell.KeyRune, 'j', "down"},
		{"h", tcell.KeyRune, 'h', "left"},
		{"l", tcell.KeyRune, 'l', "right"},
		{"escape", tcell.KeyEscape, 0, actionQuit},
		{"ctrl-c", tcell.KeyCtrlC, 0, actionQuit},
		{"q", tcell.KeyRune, 'q', actionQuit},
		{"r", tcell.KeyRune, 'r', actionReset},
		{"?", tcell.KeyRune, '?', actionHint},
		{"y", tcell.KeyRune, 'y', actionCopy},
		{"n", tcell.KeyRune, 'n', actionNext},
		{"p", tcell.KeyRune, 'p', actionPrev},
		{"x", tcell.KeyRune, 'x', actionForget},
		{"unmapped rune", tcell.KeyRune, 'z', actionNone},
		{"unmapped key", tcell.KeyTab, 0, actionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone)
			if got := keyAction(ev); got != tt.want {
				t.Errorf("keyAction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlayerSolveRecordsProgress(t *testing.T) {
	p, snd := newTestPlayer(t)
	ctx := context.Background()

	p.handle(ctx, "left")
	if snd.blocked != 1 {
		t.Errorf("blocked sounds = %d, want 1", snd.blocked)
	}
	if !strings.Contains(p.message, "Can't move left") {
		t.Errorf("message = %q, want blocked message", p.message)
	}

	for i := 0; i < 3; i++ {
		p.handle(ctx, "right")
	}

	if !p.engine.IsSolved() {
		t.Fatalf("expected the board to be solved, rows %v", p.engine.GetState().Rows)
	}
	if snd.solved != 1 {
		t.Errorf("solved sounds = %d, want 1", snd.solved)
	}
	if !strings.Contains(p.message, "New best: 4 moves") {
		t.Errorf("message = %q, want new best", p.message)
	}

	record := p.store.Record("clingy")
	want := progress.LevelRecord{Attempts: 1, Solved: true, BestMoves: 4}
	if record != want {
		t.Errorf("record = %+v, want %+v", record, want)
	}

	p.handle(ctx, "right")
	if !strings.Contains(p.message, "Already solved") {
		t.Errorf("message after solve = %q", p.message)
	}
}

func TestPlayerReset(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()

	p.handle(ctx, "right")
	p.handle(ctx, actionReset)

	if got := p.engine.GetState().CurrentMovesCount; got != 0 {
		t.Errorf("CurrentMovesCount after reset = %d, want 0", got)
	}
	if got := p.store.Record("clingy").Attempts; got != 2 {
		t.Errorf("Attempts = %d, want 2", got)
	}
}

func TestPlayerHint(t *testing.T) {
	p, _ := newTestPlayer(t)

	p.handle(context.Background(), actionHint)
	if p.message != "Hint: right (3 moves to go)" {
		t.Errorf("message = %q", p.message)
	}
}

func TestPlayerCopy(t *testing.T) {
	p, _ := newTestPlayer(t)

	var copied string
	p.copyText = func(s string) error {
		copied = s
		return nil
	}
	p.handle(context.Background(), actionCopy)

	want := "#######\n#.....#\n#c@.x.#\n#.....#\n#######"
	if copied != want {
		t.Errorf("copied %q, want %q", copied, want)
	}
	if p.message != "Board copied to clipboard" {
		t.Errorf("message = %q", p.message)
	}

	p.copyText = func(string) error { return errors.New("no clipboard") }
	p.handle(context.Background(), actionCopy)
	if !strings.Contains(p.message, "no clipboard") {
		t.Errorf("message = %q, want copy failure", p.message)
	}
}

func TestPlayerCycleLevels(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()

	if len(p.order) < 2 {
		t.Fatalf("expected several levels, got %v", p.order)
	}

	p.handle(ctx, actionNext)
	if p.levelID == "clingy" {
		t.Fatal("next should load a different level")
	}
	p.handle(ctx, actionPrev)
	if p.levelID != "clingy" {
		t.Errorf("prev should return to clingy, got %s", p.levelID)
	}
}

func TestPlayerProgressStatus(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()

	status := p.statusLines()[0]
	if !strings.Contains(status, "Solved: 0/") {
		t.Errorf("status = %q, want no solved levels", status)
	}
	if !strings.Contains(status, "(in memory only)") {
		t.Errorf("status = %q, want the in-memory note", status)
	}

	for i := 0; i < 3; i++ {
		p.handle(ctx, "right")
	}
	status = p.statusLines()[0]
	if !strings.Contains(status, "Solved: 1/") || !strings.Contains(status, "Best: 3") {
		t.Errorf("status after solving = %q", status)
	}

	p.handle(ctx, actionForget)
	if p.message != "Progress for clingy cleared" {
		t.Errorf("message = %q", p.message)
	}
	if got := p.store.SolvedLevels(); len(got) != 0 {
		t.Errorf("SolvedLevels after forget = %v", got)
	}
	if record := p.store.Record("clingy"); record != (progress.LevelRecord{}) {
		t.Errorf("record after forget = %+v", record)
	}
	if status := p.statusLines()[0]; !strings.Contains(status, "Best: -") {
		t.Errorf("status after forget = %q", status)
	}
}

func TestPlayerQuit(t *testing.T) {
	p, _ := newTestPlayer(t)
	if !p.handle(context.Background(), actionQuit) {
		t.Error("quit should stop the player")
	}
	if p.handle(context.Background(), actionNone) {
		t.Error("an unmapped key should not stop the player")
	}
}

func TestRender(t *testing.T) {
	p, _ := newTestPlayer(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(80, 12)

	render(screen, p)

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '#'},
		{2, 2, 'c'},
		{4, 2, '@'},
		{8, 2, 'x'},
	}
	for _, tt := range tests {
		got, _, _, _ := screen.GetContent(tt.x, tt.y)
		if got != tt.want {
			t.Errorf("cell (%d,%d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}

	status, _, _, _ := screen.GetContent(0, 6)
	if status != 'L' {
		t.Errorf("status line should start with Level, got %q", status)
	}
}
