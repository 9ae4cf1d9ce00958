// Package mcp exposes gridpush to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call is translated into a request to
// the REST API served by package api, and the JSON response is rendered as
// text an agent can read. Boards are printed with 1-based row and column
// numbers so coordinates in tool arguments match what the agent sees.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - board_state, describe_cell
//   - move, move_occupant, bulk_move, reset_game
//   - move_history, solve
//   - list_levels, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
