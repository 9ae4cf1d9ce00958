// Package progress records which levels the local player has solved and
// their best move counts. Records are stored as YAML through gdata in the
// per-user data directory; without a gdata manager they live in memory.
package progress
