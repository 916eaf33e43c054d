package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/muesli/termenv"

	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// OddsCmd prints bust probabilities, and scores a roll given on the
// command line.
type OddsCmd struct {
	Dice []string `arg:"" optional:"" help:"Dice values to score, e.g. 'odds 1 1 1 5'"`
}

func (c *OddsCmd) Run() error {
	out := termenv.NewOutput(os.Stdout)

	if len(c.Dice) > 0 {
		return c.scoreRoll(out)
	}

	fmt.Println(out.String("Bust odds by dice rolled").Bold())
	fmt.Printf("%-6s %-8s %s\n", "Dice", "Bust", "Expected points")
	for n := 1; n <= 6; n++ {
		bust := score.BustProbability(n) * 100
		line := fmt.Sprintf("%-6d %5.1f%%   %d", n, bust, score.ExpectedPoints(n))
		if bust >= 50 {
			fmt.Println(out.String(line).Foreground(termenv.ANSIRed))
		} else {
			fmt.Println(line)
		}
	}
	return nil
}

func (c *OddsCmd) scoreRoll(out *termenv.Output) error {
	values := make([]int, 0, len(c.Dice))
	for _, arg := range c.Dice {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 || v > 6 {
			return fmt.Errorf("invalid die value %q", arg)
		}
		values = append(values, v)
	}
	if len(values) > 6 {
		return fmt.Errorf("at most 6 dice, got %d", len(values))
	}

	combos := score.Enumerate(values)
	if len(combos) == 0 {
		fmt.Println(out.String("Bust — no scoring dice").Foreground(termenv.ANSIRed).Bold())
		return nil
	}

	fmt.Println(out.String(fmt.Sprintf("Roll %v scores %d kept whole", values, score.ScoreValues(values))).Bold())
	fmt.Println("Scoring combinations:")
	for _, combo := range combos {
		fmt.Printf("  %v — %d (%s)\n", combo.Dice, combo.Points, combo.Description)
	}
	return nil
}
