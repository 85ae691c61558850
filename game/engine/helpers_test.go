package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed values, then returns 0
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	if s.next >= len(s.values) {
		return 0
	}
	v := s.values[s.next] % n
	s.next++
	return v
}

func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:        "engine-test",
		Description: "Configuration for engine tests",
		Players: []PlayerSetup{
			{Name: "Alice", Color: "#ff0000", Icon: "♔"},
			{Name: "Bob", Color: "#0000ff", Icon: "♚"},
		},
	}
}

func newTestEngine(t *testing.T, values ...int) *GameEngine {
	t.Helper()
	e, err := NewEngine(createTestConfig(), WithSource(&scriptedSource{values: values}))
	require.NoError(t, err)
	return e
}

// giveProperty assigns ownership on both sides of the mirror
func giveProperty(t *testing.T, e *GameEngine, id PlayerID, index int) *Property {
	t.Helper()
	prop := e.board.PropertyAt(index)
	require.NotNil(t, prop, "space %d is not a property", index)
	prop.Owner = id
	e.playerByID(id).addSpace(index)
	return prop
}

// offer puts the engine in the state right after landing on a card space
func offer(e *GameEngine, cards ...EventCard) {
	e.turn.hasRolled = true
	e.turn.landingResolved = true
	e.turn.pendingDraw = &PendingDraw{Deck: cards[0].Deck, Cards: cards}
}

func cardWithAction(t *testing.T, action Action) EventCard {
	t.Helper()
	for _, d := range []*Deck{ChanceDeck(), FateDeck()} {
		for _, c := range d.Cards() {
			if c.Action == action {
				return c
			}
		}
	}
	t.Fatalf("no card with action %q", action)
	return EventCard{}
}
