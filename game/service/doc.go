// Package service provides the business logic layer for gridpush.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Level listing, loading and saving
//   - Move processing, including single-occupant requests and bulk moves
//   - Move history pagination
//   - Solving a session from its current position
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager stores sessions; LevelManager loads levels. Both are
// implemented outside this package (see game/session and game/config) so the
// service can be tested with in-memory mocks.
//
// Usage:
//
//	levels, _ := config.NewManager("levels")
//	sessions := session.NewManager()
//	gameService := service.NewGameService(sessions, levels)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameService.Move(ctx, info.ID, "right", false)
//
// Every mutating call saves the session through SessionManager.Save.
package service
