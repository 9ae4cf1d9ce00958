package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/gridpush/game/engine"
)

// glyphStyle picks the colour for a rendered board glyph
func glyphStyle(glyph byte) tcell.Style {
	switch glyph {
	case engine.GlyphWall:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case engine.GlyphMover:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case engine.GlyphSmooth, 'O':
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case engine.GlyphSticky, 'S':
		return tcell.StyleDefault.Foreground(tcell.ColorPurple)
	case engine.GlyphClingy, 'C':
		return tcell.StyleDefault.Foreground(tcell.ColorTeal)
	case engine.GlyphGoal:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
}

// render draws the board at the top left and the status lines below it.
// Blocks resting on a goal are highlighted.
func render(screen tcell.Screen, p *player) {
	screen.Clear()

	rows := p.engine.GetState().Rows
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			glyph := row[x]
			style := glyphStyle(glyph)
			if glyph >= 'A' && glyph <= 'Z' {
				style = style.Reverse(true)
			}
			screen.SetContent(x*2, y, rune(glyph), nil, style)
		}
	}

	for i, line := range p.statusLines() {
		drawText(screen, 0, len(rows)+1+i, line, tcell.StyleDefault)
	}

	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
