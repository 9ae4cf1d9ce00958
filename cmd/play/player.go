package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/progress"
	"github.com/wricardo/mcp-training/gridpush/game/service"
	"github.com/wricardo/mcp-training/gridpush/game/solver"
)

// action is what a key press asks the player to do
type action string

const (
	actionNone   action = ""
	actionQuit   action = "quit"
	actionReset  action = "reset"
	actionHint   action = "hint"
	actionCopy   action = "copy"
	actionNext   action = "next"
	actionPrev   action = "prev"
	actionForget action = "forget"
)

// hintStates bounds the search behind the hint key
const hintStates = 50000

// keyAction maps a key press to a direction name or a player action
func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
	default:
		return actionNone
	}

	switch ev.Rune() {
	case 'w', 'k':
		return "up"
	case 's', 'j':
		return "down"
	case 'a', 'h':
		return "left"
	case 'd', 'l':
		return "right"
	case 'q':
		return actionQuit
	case 'r':
		return actionReset
	case '?':
		return actionHint
	case 'y':
		return actionCopy
	case 'n':
		return actionNext
	case 'p':
		return actionPrev
	case 'x':
		return actionForget
	}
	return actionNone
}

// player drives one in-process engine from the keyboard
type player struct {
	levels   service.LevelManager
	order    []string
	current  int
	levelID  string
	engine   *engine.GameEngine
	store    *progress.Store
	sounds   sounds
	copyText func(string) error
	message  string
}

func newPlayer(levels service.LevelManager, store *progress.Store, snd sounds) (*player, error) {
	infos, err := levels.ListLevels()
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}

	p := &player{
		levels:   levels,
		store:    store,
		sounds:   snd,
		copyText: clipboard.WriteAll,
	}
	for _, info := range infos {
		p.order = append(p.order, info.LevelID)
	}
	return p, nil
}

// load starts the level with the given ID
func (p *player) load(levelID string) error {
	level, err := p.levels.LoadLevel(levelID)
	if err != nil {
		return err
	}
	e, err := engine.NewEngine(level)
	if err != nil {
		return err
	}

	p.engine = e
	p.levelID = levelID
	for i, id := range p.order {
		if id == levelID {
			p.current = i
		}
	}
	p.store.RecordAttempt(levelID)
	p.message = e.GetState().Message
	return nil
}

// cycle loads the neighbouring level in list order
func (p *player) cycle(step int) error {
	if len(p.order) == 0 {
		return nil
	}
	next := (p.current + step + len(p.order)) % len(p.order)
	return p.load(p.order[next])
}

// handle applies an action and reports whether the player should quit
func (p *player) handle(ctx context.Context, a action) bool {
	switch a {
	case actionNone:
	case actionQuit:
		return true
	case actionReset:
		p.engine.Reset()
		p.store.RecordAttempt(p.levelID)
		p.message = "Board reset"
	case actionHint:
		p.hint(ctx)
	case actionForget:
		p.store.Forget(p.levelID)
		p.message = fmt.Sprintf("Progress for %s cleared", p.levelID)
		if err := p.store.Save(); err != nil {
			p.message = fmt.Sprintf("%s (not saved: %v)", p.message, err)
		}
	case actionCopy:
		if err := p.copyText(strings.Join(p.engine.GetState().Rows, "\n")); err != nil {
			p.message = fmt.Sprintf("Copy failed: %v", err)
		} else {
			p.message = "Board copied to clipboard"
		}
	case actionNext, actionPrev:
		step := 1
		if a == actionPrev {
			step = -1
		}
		if err := p.cycle(step); err != nil {
			p.message = fmt.Sprintf("Failed to load level: %v", err)
		}
	default:
		p.move(string(a))
	}
	return false
}

func (p *player) move(direction string) {
	state := p.engine.GetState()
	if state.Solved {
		p.message = "Already solved. Press n for the next level or r to replay."
		return
	}

	if !p.engine.Move(direction) {
		p.sounds.Blocked()
		p.message = state.Message
		return
	}

	p.message = state.Message
	if !state.Solved {
		return
	}

	p.sounds.Solved()
	if p.store.RecordSolve(p.levelID, state.CurrentMovesCount) {
		p.message = fmt.Sprintf("%s New best: %d moves.", state.Message, state.CurrentMovesCount)
	}
	if err := p.store.Save(); err != nil {
		p.message = fmt.Sprintf("%s (progress not saved: %v)", state.Message, err)
	}
}

// hint searches from the current position and shows the next move
func (p *player) hint(ctx context.Context) {
	state := p.engine.GetState()
	result, err := solver.Solve(ctx, p.engine.GetConfig(), state.Occupants, solver.Options{MaxStates: hintStates})
	switch {
	case err != nil:
		p.message = fmt.Sprintf("No hint: %v", err)
	case result.Solved && len(result.Moves) == 0:
		p.message = "Already solved"
	case result.Solved:
		p.message = fmt.Sprintf("Hint: %s (%d moves to go)", result.Moves[0], len(result.Moves))
	case result.Exhausted:
		p.message = "No solution from here. Press r to reset."
	default:
		p.message = "No hint found within the search limit"
	}
}

// statusLines describes the level and progress below the board
func (p *player) statusLines() []string {
	state := p.engine.GetState()
	record := p.store.Record(p.levelID)

	best := "-"
	if record.Solved {
		best = fmt.Sprintf("%d", record.BestMoves)
	}

	solved := fmt.Sprintf("Solved: %d/%d", len(p.store.SolvedLevels()), len(p.order))
	if !p.store.Persistent() {
		solved += " (in memory only)"
	}

	lines := []string{
		fmt.Sprintf("Level: %s (%d/%d)  Moves: %d  Best: %s  %s", state.LevelName, p.current+1, len(p.order), state.CurrentMovesCount, best, solved),
		p.message,
		"arrows/wasd/hjkl move  r reset  ? hint  y copy  x forget  n/p level  q quit",
	}
	return lines
}
