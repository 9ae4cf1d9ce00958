// Package engine provides the core puzzle logic for gridpush.
//
// The engine package implements the board mechanics including:
//   - An occupancy registry mapping grid cells to the occupant standing there
//   - The move resolver that pushes, drags and follows occupants in one request
//   - Goal tracking and the solved condition
//   - Level loading (JSON or YAML) and validation
//
// Core Types:
//
// Registry holds at most one Occupant per Position. Resolver answers move
// requests against a Registry: a request either commits every displacement
// it caused or reports failure. GameEngine wraps both for a loaded
// LevelConfig and keeps the BoardState that transports serialize.
//
// Usage:
//
//	config, err := engine.LoadLevelConfig("levels/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Every mover takes the step
//	moved := gameEngine.Move("right")
//	state := gameEngine.GetState()
//
// Occupant kinds:
//
// Walls never move. Movers and smooth blocks move when asked and push what is
// in front of them. Sticky blocks also pull their neighbors along. Clingy
// blocks refuse direct requests and only move when dragged from behind.
// A level is solved when every goal holds a smooth, sticky or clingy block.
package engine
