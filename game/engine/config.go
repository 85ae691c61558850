package engine

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// ChessIcons are the tokens a player may pick
var ChessIcons = []string{"♔", "♕", "♖", "♗", "♘", "♙", "♚", "♛", "♜", "♝", "♞", "♟"}

// MaxNameLength caps player names, counted in runes
const MaxNameLength = 16

var (
	colorPattern      = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	defaultColors     = [PlayerCount]string{"#e74c3c", "#3498db"}
	defaultIcons      = [PlayerCount]string{"♔", "♚"}
	defaultConfigName = "classic"
)

// DefaultGameConfig returns the built-in two-player setup
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        defaultConfigName,
		Description: "Two players, default names and tokens",
		Players: []PlayerSetup{
			{Name: DefaultPlayerName(0), Color: defaultColors[0], Icon: defaultIcons[0]},
			{Name: DefaultPlayerName(1), Color: defaultColors[1], Icon: defaultIcons[1]},
		},
	}
}

// DefaultPlayerName returns the name used when a seat is left blank
func DefaultPlayerName(seat int) string {
	return fmt.Sprintf("玩家%d", seat+1)
}

// NormalizeSetup fills blank fields of the setup for the given seat
func NormalizeSetup(seat int, setup PlayerSetup) PlayerSetup {
	if setup.Name == "" {
		setup.Name = DefaultPlayerName(seat)
	}
	if setup.Color == "" && seat < PlayerCount {
		setup.Color = defaultColors[seat]
	}
	if setup.Icon == "" && seat < PlayerCount {
		setup.Icon = defaultIcons[seat]
	}
	return setup
}

// ValidateGameConfig validates a setup preset. Blank player fields are
// allowed; NormalizeSetup fills them.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if len(config.Players) != PlayerCount {
		return fmt.Errorf("config validation: exactly %d players are required, got %d", PlayerCount, len(config.Players))
	}

	for i, p := range config.Players {
		if utf8.RuneCountInString(p.Name) > MaxNameLength {
			return fmt.Errorf("config validation: player %d name longer than %d characters", i+1, MaxNameLength)
		}
		if p.Color != "" && !colorPattern.MatchString(p.Color) {
			return fmt.Errorf("config validation: player %d color must look like #rrggbb, got %q", i+1, p.Color)
		}
		if p.Icon != "" && !isChessIcon(p.Icon) {
			return fmt.Errorf("config validation: player %d icon %q is not a chess piece", i+1, p.Icon)
		}
	}

	a := NormalizeSetup(0, config.Players[0])
	b := NormalizeSetup(1, config.Players[1])
	if a.Name == b.Name {
		return fmt.Errorf("config validation: player names must differ, both are %q", a.Name)
	}
	if a.Icon == b.Icon {
		return fmt.Errorf("config validation: player icons must differ, both are %q", a.Icon)
	}

	return nil
}

func isChessIcon(icon string) bool {
	for _, c := range ChessIcons {
		if c == icon {
			return true
		}
	}
	return false
}
