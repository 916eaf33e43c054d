package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mschmoyer/farkledice-sub000/internal/dice"
)

// Combination is one scorable subset of a roll, independently valid as a
// keep decision. Points always equals what Evaluate would return for exactly
// these dice in isolation.
type Combination struct {
	Dice        []int
	Points      int
	Description string
}

var countWords = [...]string{"", "one", "two", "three", "four", "five", "six"}

// Matches reports whether the given face values are exactly this
// combination's dice, ignoring order.
func (c Combination) Matches(values []int) bool {
	return len(values) == len(c.Dice) && comboKey(values) == comboKey(c.Dice)
}

// Enumerate produces every distinct scoring combination extractable from a
// raw roll of 1..6 dice, sorted by descending point value. It deliberately
// includes lower-value subsets (a single 5, one 1 out of three, a bare
// triple without its spare 1s) so a decision-maker can trade points against
// dice kept free for the next roll.
func Enumerate(roll []int) []Combination {
	if len(roll) == 0 || len(roll) > dice.NumDice {
		return nil
	}

	var counts [dice.Faces + 1]int
	for _, v := range roll {
		if v < 1 || v > dice.Faces {
			return nil
		}
		counts[v]++
	}

	seen := make(map[string]Combination)
	add := func(values []int) {
		key := comboKey(values)
		if _, ok := seen[key]; ok {
			return
		}
		res := Evaluate(mustSet(values))
		if res.Points <= 0 {
			return
		}
		seen[key] = Combination{
			Dice:        append([]int(nil), values...),
			Points:      res.Points,
			Description: describe(values, res),
		}
	}

	// Whole-roll specials only exist on a full six-dice roll.
	if len(roll) == dice.NumDice {
		full := Evaluate(mustSet(roll))
		if full.Straight || full.ThreePairs || full.TwoTriplets {
			add(roll)
		}
	}

	// Of-a-kind runs for every face, at every length from three up, each
	// optionally extended with leftover single 1s and 5s.
	for face := 1; face <= dice.Faces; face++ {
		for size := 3; size <= counts[face]; size++ {
			run := repeat(face, size)
			add(run)

			spareOnes := spareSingles(counts[1], face, 1, size)
			spareFives := spareSingles(counts[5], face, 5, size)
			for ones := 0; ones <= spareOnes; ones++ {
				for fives := 0; fives <= spareFives; fives++ {
					if ones+fives == 0 {
						continue
					}
					combined := append(append([]int(nil), run...), repeat(1, ones)...)
					combined = append(combined, repeat(5, fives)...)
					add(combined)
				}
			}
		}
	}

	// Single 1s and 5s, one or two of each, alone and together. Three or
	// more of either face is already covered by the of-a-kind runs.
	for ones := 0; ones <= min(counts[1], 2); ones++ {
		for fives := 0; fives <= min(counts[5], 2); fives++ {
			if ones+fives == 0 {
				continue
			}
			add(append(repeat(1, ones), repeat(5, fives)...))
		}
	}

	result := make([]Combination, 0, len(seen))
	for _, c := range seen {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Points != result[j].Points {
			return result[i].Points > result[j].Points
		}
		if len(result[i].Dice) != len(result[j].Dice) {
			return len(result[i].Dice) < len(result[j].Dice)
		}
		return comboKey(result[i].Dice) < comboKey(result[j].Dice)
	})
	return result
}

// spareSingles reports how many loose dice of the given scoring face (1 or 5)
// remain outside an of-a-kind run, capped at two since longer stacks are
// enumerated as runs of their own.
func spareSingles(count, runFace, face, runSize int) int {
	if runFace == face {
		count -= runSize
	}
	if count < 0 {
		count = 0
	}
	return min(count, 2)
}

func describe(values []int, res Result) string {
	// Special names apply only when the bonus floor is what actually set the
	// points; six 1s trip the two-triplets flag but score as six of a kind.
	switch {
	case res.Straight:
		return "straight"
	case res.TwoTriplets && res.Points == TwoTripletsScore:
		return "two triplets"
	case res.ThreePairs && res.Points == ThreePairsScore:
		return "three pairs"
	}

	var counts [dice.Faces + 1]int
	for _, v := range values {
		counts[v]++
	}

	var parts []string
	for face := 1; face <= dice.Faces; face++ {
		n := counts[face]
		if n == 0 {
			continue
		}
		if n >= 3 {
			parts = append(parts, fmt.Sprintf("%s %ds", countWords[n], face))
		} else if n == 1 {
			parts = append(parts, fmt.Sprintf("a %d", face))
		} else {
			parts = append(parts, fmt.Sprintf("two %ds", face))
		}
	}
	return strings.Join(parts, " and ")
}

func comboKey(values []int) string {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	var b strings.Builder
	b.Grow(len(sorted))
	for _, v := range sorted {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}

func repeat(face, n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = face
	}
	return values
}

func mustSet(values []int) dice.Set {
	set, err := dice.FromValues(values)
	if err != nil {
		panic(err)
	}
	return set
}
