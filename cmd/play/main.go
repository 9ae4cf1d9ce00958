// Command play is a terminal client for gridpush levels. It runs the engine
// in-process, so no server is needed, and keeps per-level progress in the
// user's data directory.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/gridpush/game/config"
	"github.com/wricardo/mcp-training/gridpush/game/progress"
)

func main() {
	cmd := &cli.Command{
		Name:  "play",
		Usage: "Play gridpush levels in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "levels-dir",
				Value:   "levels",
				Usage:   "Directory containing level files",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "Level ID to start with (defaults to the first level)",
			},
			&cli.BoolFlag{
				Name:  "mute",
				Usage: "Disable sound",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	levels, err := config.NewManager(cmd.String("levels-dir"))
	if err != nil {
		return err
	}

	store := progress.Open("gridpush")

	var snd sounds = mutedSounds{}
	if !cmd.Bool("mute") {
		if s, err := newSpeakerSounds(); err == nil {
			snd = s
		}
	}
	defer snd.Close()

	p, err := newPlayer(levels, store, snd)
	if err != nil {
		return err
	}

	start := cmd.String("level")
	if start == "" && len(p.order) > 0 {
		start = p.order[0]
	}
	if start == "" {
		return fmt.Errorf("no levels found in %s", cmd.String("levels-dir"))
	}
	if err := p.load(start); err != nil {
		return fmt.Errorf("failed to load level %s: %w", start, err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	render(screen, p)
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if p.handle(ctx, keyAction(ev)) {
				return store.Save()
			}
		case *tcell.EventResize:
			screen.Sync()
		case nil:
			return store.Save()
		}
		render(screen, p)
	}
}
