// Command autoplay solves a level on a running gridpush server. It creates
// (or resumes) a session, asks the server's solver for a move sequence,
// replays it through bulk moves and exits non-zero unless the board ends solved.
package main

import (
	"bytes"
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Solve a gridpush level through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "level", Usage: "Level ID for a new session (server default when empty)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "File remembering the last session ID"},
			&cli.IntFlag{Name: "max-states", Usage: "Solver search limit (server default when 0)"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))
	sessionFile := cmd.String("session-file")

	savedSessionID := cmd.String("continue")
	if savedSessionID == "" && cmd.String("level") == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	resumed := false
	if savedSessionID != "" {
		if info, err := client.Resume(ctx, savedSessionID); err != nil {
			log.Printf("Failed to resume session %s (may be expired): %v", savedSessionID, err)
		} else {
			resumed = true
			log.Printf("Resumed session %s on level %s", info.ID, info.LevelID)
		}
	}

	if !resumed {
		info, err := client.CreateSession(ctx, cmd.String("level"))
		if err != nil {
			return err
		}
		log.Printf("Session created: %s (level %s)", info.ID, info.LevelID)

		if err := os.WriteFile(sessionFile, []byte(info.ID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	report, err := autoplay(ctx, client, cmd.Int("max-states"), cmd.Bool("v"))
	if err != nil {
		log.Printf("Session: %s", client.SessionID())
		return err
	}

	log.Printf("🎉 SOLVED in %d moves", report.Executed)
	log.Printf("Session: %s", report.SessionID)
	return nil
}
