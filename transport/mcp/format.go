package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
	"github.com/wricardo/mcp-training/gridpush/game/service"
)

const instructions = `gridpush - Complete Instructions

OBJECTIVE:
Cover every goal cell with a block (smooth, sticky or clingy). The board is
solved the moment every goal is covered.

COORDINATES:
Columns (x) and rows (y) are numbered from 1. x grows to the right, y grows
downwards, so "up" decreases y.

GRID LEGEND:
• @ - Mover (moves when you send a direction)
• o - Smooth block (pushed by whatever walks into it)
• s - Sticky block (follows any neighbour that moves away, and drags neighbours along)
• c - Clingy block (cannot be pushed; follows only when the occupant directly in front pulls away)
• # - Wall (never moves)
• x - Empty goal
• . - Empty cell
Upper-case letters (O, S, C, @) mark an occupant standing on a goal.

MOVEMENT RULES:
• A move sends the direction to every mover, one at a time in id order.
• A mover, smooth or sticky block moves if the cell ahead is empty or its
  occupant can itself move out of the way. Chains of blocks move together or
  not at all.
• Walls and the board edge stop everything.
• When a block leaves a cell, sticky neighbours of that cell try to follow in
  the same direction.
• A clingy block directly behind a departing occupant is dragged along.
• Clingy blocks in front of a mover block it; they never get pushed.

STRATEGY:
• Use board_state to read the grid with coordinates before planning.
• Use describe_cell when you are unsure what occupies a cell.
• Use bulk_move for sequences; it stops at the first blocked move.
• Use solve when you are stuck; it searches from the current position.
• reset_game restores the start without clearing the move history.

MOVEMENT COMMANDS:
- up, down, left, right
- move_occupant moves one occupant by id instead of every mover

Good luck!`

// kindRules explains how an occupant kind reacts to moves
func kindRules(kind engine.Kind) string {
	switch kind {
	case engine.Mover:
		return "Mover: moves when a direction is sent and pushes whatever is ahead"
	case engine.Smooth:
		return "Smooth block: moves only when pushed"
	case engine.Sticky:
		return "Sticky block: pushed like a smooth block, and follows any neighbour that moves away"
	case engine.Clingy:
		return "Clingy block: cannot be pushed; dragged when the occupant in front moves away from it"
	case engine.Wall:
		return "Wall: never moves"
	}
	return "Unknown occupant"
}

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\nLast accessed: %s\n\n%s",
		info.ID, info.LevelID,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		info.LastAccessedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(info.BoardState))
}

// boardRows returns the rendered rows of a state, rendering them when the
// state was sent without them
func boardRows(state *engine.BoardState) []string {
	if len(state.Rows) == state.Height && state.Height > 0 {
		return state.Rows
	}

	grid := make([][]byte, state.Height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(string(engine.GlyphEmpty), state.Width))
	}
	inside := func(p engine.Position) bool {
		return p.X >= 1 && p.X <= state.Width && p.Y >= 1 && p.Y <= state.Height
	}

	for _, g := range state.Goals {
		if inside(g) {
			grid[g.Y-1][g.X-1] = engine.GlyphGoal
		}
	}
	for _, o := range state.Occupants {
		if !inside(o.Pos) {
			continue
		}
		glyph := engine.KindGlyph(o.Kind)
		if grid[o.Pos.Y-1][o.Pos.X-1] == engine.GlyphGoal {
			glyph = strings.ToUpper(string(glyph))[0]
		}
		grid[o.Pos.Y-1][o.Pos.X-1] = glyph
	}

	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = string(row)
	}
	return rows
}

// formatGrid renders the rows with 1-based column and row numbers
func formatGrid(state *engine.BoardState) string {
	var b strings.Builder

	if state.Width >= 10 {
		b.WriteString("    ")
		for x := 1; x <= state.Width; x++ {
			if x >= 10 {
				b.WriteByte(byte('0' + (x/10)%10))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("    ")
	for x := 1; x <= state.Width; x++ {
		b.WriteByte(byte('0' + x%10))
	}
	b.WriteByte('\n')

	for i, row := range boardRows(state) {
		fmt.Fprintf(&b, "%3d %s\n", i+1, row)
	}
	return b.String()
}

func formatBoardState(state *engine.BoardState) string {
	if state == nil {
		return "Board state unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s (%dx%d)\n", state.LevelName, state.Width, state.Height)
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	if state.Solved {
		b.WriteString("Status: 🎉 SOLVED\n")
	} else {
		b.WriteString("Status: in progress\n")
	}
	fmt.Fprintf(&b, "Moves since reset: %d (total %d)\n\n", state.CurrentMovesCount, state.TotalMoves)

	b.WriteString(formatGrid(state))

	b.WriteString("\nOccupants:\n")
	for _, o := range state.Occupants {
		if o.Kind == engine.Wall {
			continue
		}
		fmt.Fprintf(&b, "  #%d %s at %s\n", o.ID, o.Kind, o.Pos)
	}

	if len(state.Goals) > 0 {
		covered := coveredGoals(state)
		b.WriteString("\nGoals:\n")
		for _, g := range state.Goals {
			mark := "empty"
			if covered[g] {
				mark = "covered"
			}
			fmt.Fprintf(&b, "  %s %s\n", g, mark)
		}
	}

	return b.String()
}

// coveredGoals reports which goals hold a block
func coveredGoals(state *engine.BoardState) map[engine.Position]bool {
	goals := make(map[engine.Position]bool, len(state.Goals))
	for _, g := range state.Goals {
		goals[g] = false
	}
	for _, o := range state.Occupants {
		if _, ok := goals[o.Pos]; ok && engine.IsBlock(o.Kind) {
			goals[o.Pos] = true
		}
	}
	return goals
}

func formatDisplacements(moved []engine.Displacement) string {
	var b strings.Builder
	for _, d := range moved {
		fmt.Fprintf(&b, "  #%d %s %s -> %s\n", d.ID, d.Kind, d.From, d.To)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	status := "✓"
	if !result.Success {
		status = "✗"
	}
	fmt.Fprintf(&b, "%s %s\n", status, result.Message)

	if len(result.Moved) > 0 {
		b.WriteString("\nMoved:\n")
		b.WriteString(formatDisplacements(result.Moved))
	}

	for _, event := range result.Events {
		if event.Type == "solved" {
			b.WriteString("\n🎉 SOLVED! Every goal is covered.\n")
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	} else {
		b.WriteString("\nPossible moves: none\n")
	}

	b.WriteString("\n")
	b.WriteString(formatBoardState(result.BoardState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s: executed %d/%d moves\n", sessionID, result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "⚠️ Only the first %d moves were processed\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d (%s): %s\n", result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, step := range result.Steps {
			line := fmt.Sprintf("  %d. %s", step.Idx, step.Dir)
			if len(step.Moved) > 0 {
				ids := make([]string, 0, len(step.Moved))
				for _, d := range step.Moved {
					ids = append(ids, fmt.Sprintf("#%d", d.ID))
				}
				line += " moved " + strings.Join(ids, " ")
			}
			if step.Solved {
				line += " (solved)"
			}
			b.WriteString(line + "\n")
		}
	}

	if result.Solved {
		b.WriteString("\n🎉 SOLVED! Every goal is covered.\n")
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}

	b.WriteString("\n")
	b.WriteString(formatBoardState(result.BoardState))
	return b.String()
}

func formatSolveResult(result *service.SolveResult) string {
	switch {
	case result.Solved && len(result.Moves) == 0:
		return "The board is already solved."
	case result.Solved:
		return fmt.Sprintf("Solution found (%d moves, %d positions explored):\n%s\n\nReplay it with bulk_move.",
			len(result.Moves), result.Explored, strings.Join(result.Moves, ", "))
	case result.Exhausted:
		return fmt.Sprintf("No solution exists from the current position (%d positions explored). Try reset_game.", result.Explored)
	default:
		return fmt.Sprintf("No solution found within the search limit (%d positions explored).", result.Explored)
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) - Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		b.WriteString(formatHistoryLine(move.MoveNumber, move))
	}
	return b.String()
}

func formatHistoryLine(num int, move engine.MoveHistoryEntry) string {
	status := "✓"
	if !move.Success {
		status = "✗"
	}
	return fmt.Sprintf("%d. %s %s [actor #%d, moved %d]\n", num, move.Action, status, move.Actor, len(move.Moved))
}

func formatCurrentSegment(state *engine.BoardState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}

	header := fmt.Sprintf("Current Move Segment - Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}

	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryLine(i+1, move))
	}
	return b.String()
}

// describeCell explains the contents of one cell
func describeCell(state *engine.BoardState, pos engine.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s\n", pos)

	isGoal := false
	for _, g := range state.Goals {
		if g == pos {
			isGoal = true
			break
		}
	}

	var occupant *engine.Occupant
	for i := range state.Occupants {
		if state.Occupants[i].Pos == pos {
			occupant = &state.Occupants[i]
			break
		}
	}

	if occupant == nil {
		b.WriteString("Occupant: none (empty cell)\n")
	} else {
		fmt.Fprintf(&b, "Occupant: #%d %s ('%c')\n", occupant.ID, occupant.Kind, engine.KindGlyph(occupant.Kind))
		fmt.Fprintf(&b, "Rules: %s\n", kindRules(occupant.Kind))
	}

	switch {
	case isGoal && occupant != nil && engine.IsBlock(occupant.Kind):
		b.WriteString("Goal: yes, covered\n")
	case isGoal:
		b.WriteString("Goal: yes, not covered\n")
	default:
		b.WriteString("Goal: no\n")
	}

	return b.String()
}
