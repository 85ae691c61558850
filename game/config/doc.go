// Package config provides setup preset management for the Dafuweng board game.
//
// The config package handles:
//   - Loading setup presets from JSON files
//   - Preset validation through engine.ValidateGameConfig
//   - Default preset selection
//   - Preset discovery, listing and saving
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory. The board, the
// card decks and all prices are fixed by the rules engine; a preset only
// chooses who plays:
//
//	{
//	  "name": "classic",
//	  "description": "Two players, default names and tokens",
//	  "players": [
//	    {"name": "玩家1", "color": "#e74c3c", "icon": "♔"},
//	    {"name": "玩家2", "color": "#3498db", "icon": "♚"}
//	  ],
//	  "seed": 0
//	}
//
// A nonzero seed makes every session created from the preset replay the same
// dice and card draws.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//
//	preset, err := manager.LoadConfig("duel")
//	defaultPreset := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// The default preset is classic.json when present, otherwise the first valid
// file in the directory, otherwise the built-in two-player setup.
package config
