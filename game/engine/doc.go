// Package engine provides the rules engine for Dafuweng, a two-player
// property-trading board game.
//
// The engine package implements the game mechanics including:
//   - A fixed 24-space loop of properties, start, Chance and Fate spaces
//   - Dice movement with a pass-start bonus
//   - Property purchase, upgrades and rent settlement
//   - Chance and Fate card draws with an explicit player choice
//   - Turn sequencing and legal-action queries
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a detached snapshot for rendering,
// and every operation returns a structured outcome (RollOutcome,
// LandingOutcome, EventOutcome, ...) so callers never need to diff state.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultGameConfig(), engine.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll, err := eng.Roll()
//	if roll.Landing.Kind == engine.LandingEventDraw {
//		// let the player pick one of the three face-down cards
//		eng.ChooseCard(0)
//	}
//	if eng.LegalActions().Buy {
//		eng.Buy()
//	}
//	eng.EndTurn()
//
// Game Rules:
//
// Players start with 10000 in cash at the start space. Rent is a fraction of
// the base price that grows with the building level (10%, 30%, 60%, 100%).
// Upgrades cost half the base price. Refused operations return a *RuleError
// with a reason code and leave the state untouched. Cash may go negative;
// there is no bankruptcy rule.
package engine
