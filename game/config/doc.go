// Package config manages the level files a server offers.
//
// Levels live in a single directory as JSON (.json) or YAML (.yaml, .yml)
// files. A level's ID is its file name without the extension, so
// "levels/classic.json" is loaded as "classic". Parsed levels are validated
// by the engine package and cached until RefreshCache is called.
//
// The default level is "classic" when present, otherwise the first valid
// level in ID order, otherwise the engine's built-in starter level.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("sticky")
package config
