// Package session provides session management for gridpush.
//
// Manager keeps one GameEngine per session behind a read/write lock, so
// independent boards can be played concurrently. Session IDs are short
// prefixes of random UUIDs and are matched case-insensitively.
//
// FilePersistence stores each session as JSON: the level identifier plus the
// full board state. Loading a session reloads the level and restores the
// occupants onto a fresh engine.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", levels)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", levels.GetDefault())
package session
