// Command analyze prints quick, human-readable heuristics about the Dafuweng
// board. It summarizes the property ladder with rent per level, the expected
// cash value of each event deck, and how many laps an owner needs to earn a
// property back. With --games it also plays seeded games with a simple
// buy-when-affordable policy and reports the average outcome.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/dafuweng/game/engine"
)

// opponentVisitRate is the chance the opponent stops on a given space during
// one lap: a fair die averages 3.5 steps per roll.
const opponentVisitRate = 2.0 / 7.0

// SpaceEconomics is the payback analysis of one property
type SpaceEconomics struct {
	Index       int
	Name        string
	Price       int
	UpgradeCost int
	Rents       [engine.MaxLevel + 1]int
	// laps of opponent traffic needed to earn back the purchase at level 0
	PaybackLaps float64
	// same for a property bought and upgraded to the top level
	MaxedPaybackLaps float64
}

// SimulationSummary aggregates the outcome of seeded games
type SimulationSummary struct {
	Games        int
	Turns        int
	AvgNetWorth  [engine.PlayerCount]float64
	AvgOwned     [engine.PlayerCount]float64
	Leads        [engine.PlayerCount]int
	Ties         int
	NegativeCash int
}

func analyzeBoard(board []engine.Space) []SpaceEconomics {
	var out []SpaceEconomics
	for i := range board {
		prop, ok := board[i].AsProperty()
		if !ok {
			continue
		}
		rents := engine.RentTable(prop.BasePrice)
		maxedCost := prop.BasePrice + engine.MaxLevel*prop.UpgradeCost
		out = append(out, SpaceEconomics{
			Index:            board[i].Index,
			Name:             prop.Name,
			Price:            prop.BasePrice,
			UpgradeCost:      prop.UpgradeCost,
			Rents:            rents,
			PaybackLaps:      paybackLaps(prop.BasePrice, rents[0]),
			MaxedPaybackLaps: paybackLaps(maxedCost, rents[engine.MaxLevel]),
		})
	}
	return out
}

func paybackLaps(cost, rent int) float64 {
	if rent <= 0 {
		return 0
	}
	return float64(cost) / (float64(rent) * opponentVisitRate)
}

// simulate plays one game per seed for the given number of turns. The
// current player takes a pending card from the first slot, buys or upgrades
// only while keeping reserve cash, then ends the turn.
func simulate(games, turns, reserve int) (SimulationSummary, error) {
	summary := SimulationSummary{Games: games, Turns: turns}
	if games <= 0 {
		return summary, nil
	}

	for seed := int64(1); seed <= int64(games); seed++ {
		eng := engine.NewEngineWithDefaults(engine.WithSeed(seed))
		for turn := 0; turn < turns; turn++ {
			if err := playTurn(eng, reserve); err != nil {
				return summary, fmt.Errorf("seed %d turn %d: %w", seed, turn+1, err)
			}
		}

		state := eng.State()
		var worth [engine.PlayerCount]int
		for i, p := range state.Players {
			worth[i] = engine.NetWorth(state, p.ID)
			summary.AvgNetWorth[i] += float64(worth[i])
			summary.AvgOwned[i] += float64(len(p.OwnedSpaces))
			if p.Cash < 0 {
				summary.NegativeCash++
			}
		}
		switch {
		case worth[0] > worth[1]:
			summary.Leads[0]++
		case worth[1] > worth[0]:
			summary.Leads[1]++
		default:
			summary.Ties++
		}
	}

	for i := range summary.AvgNetWorth {
		summary.AvgNetWorth[i] /= float64(games)
		summary.AvgOwned[i] /= float64(games)
	}
	return summary, nil
}

func playTurn(eng *engine.GameEngine, reserve int) error {
	if _, err := eng.Roll(); err != nil {
		return err
	}
	if eng.LegalActions().ChooseCard {
		if _, err := eng.ChooseCard(0); err != nil {
			return err
		}
	}

	state := eng.State()
	cash := eng.CurrentPlayer().Cash
	if prop, ok := state.Board[eng.CurrentPlayer().Position].AsProperty(); ok {
		legal := eng.LegalActions()
		switch {
		case legal.Buy && cash-prop.BasePrice >= reserve:
			if _, err := eng.Buy(); err != nil {
				return err
			}
		case legal.Upgrade && cash-prop.UpgradeCost >= reserve:
			if _, err := eng.Upgrade(); err != nil {
				return err
			}
		}
	}

	_, err := eng.EndTurn()
	return err
}

func report(out io.Writer, games, turns, reserve int) error {
	eng := engine.NewEngineWithDefaults()
	board := eng.Board().Spaces()
	chance, fate := eng.Decks()

	fmt.Fprintf(out, "\n=== Board ===\n")
	fmt.Fprintf(out, "Spaces: %d (properties %d, chance %d, fate %d)\n",
		len(board),
		engine.CountSpaceKind(board, engine.SpaceProperty),
		engine.CountSpaceKind(board, engine.SpaceChance),
		engine.CountSpaceKind(board, engine.SpaceFate))
	fmt.Fprintf(out, "Starting cash: %d, pass start bonus: %d\n", engine.StartingCash, engine.PassStartBonus)

	fmt.Fprintf(out, "\n=== Properties ===\n")
	fmt.Fprintf(out, "%-3s %-4s %7s %7s  %-24s %8s %8s\n", "#", "name", "price", "upgrade", "rent by level", "payback", "maxed")
	total := 0
	for _, s := range analyzeBoard(board) {
		rents := make([]string, len(s.Rents))
		for i, r := range s.Rents {
			rents[i] = fmt.Sprint(r)
		}
		fmt.Fprintf(out, "%-3d %-4s %7d %7d  %-24s %7.1fL %7.1fL\n",
			s.Index, s.Name, s.Price, s.UpgradeCost, strings.Join(rents, "/"), s.PaybackLaps, s.MaxedPaybackLaps)
		total += s.Price
	}
	fmt.Fprintf(out, "Whole board costs %d, %.1fx the starting cash\n", total, float64(total)/engine.StartingCash)

	fmt.Fprintf(out, "\n=== Decks ===\n")
	for _, d := range []*engine.Deck{chance, fate} {
		fmt.Fprintf(out, "%s: %d cards, expected cash per card %+.1f\n", d.Kind(), d.Len(), engine.ExpectedCashDelta(d))
	}

	if games <= 0 {
		return nil
	}
	summary, err := simulate(games, turns, reserve)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n=== Simulation (%d games x %d turns, reserve %d) ===\n", summary.Games, summary.Turns, reserve)
	for i := 0; i < engine.PlayerCount; i++ {
		fmt.Fprintf(out, "%s: avg net worth %.0f, avg properties %.1f, ahead in %d games\n",
			engine.DefaultPlayerName(i), summary.AvgNetWorth[i], summary.AvgOwned[i], summary.Leads[i])
	}
	fmt.Fprintf(out, "Ties: %d\n", summary.Ties)
	if summary.NegativeCash > 0 {
		fmt.Fprintf(out, "⚠️  %d player(s) finished with negative cash\n", summary.NegativeCash)
	} else {
		fmt.Fprintf(out, "✅ No player finished in debt\n")
	}
	return nil
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "print Dafuweng board economics",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 0, Usage: "number of seeded games to simulate"},
			&cli.IntFlag{Name: "turns", Value: 60, Usage: "turns per simulated game"},
			&cli.IntFlag{Name: "reserve", Value: 2000, Usage: "cash the simulated players keep back"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			turns := int(cmd.Int("turns"))
			if turns <= 0 {
				return fmt.Errorf("--turns must be positive, got %d", turns)
			}
			return report(out, int(cmd.Int("games")), turns, int(cmd.Int("reserve")))
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
