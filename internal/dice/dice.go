// Package dice defines the six-slot dice set used throughout the rules engine
// and the seeded roller that produces raw rolls.
package dice

import (
	"fmt"
	"strconv"
	"strings"

	rand "math/rand/v2"

	"github.com/mschmoyer/farkledice-sub000/internal/randutil"
)

// NumDice is the number of physical dice slots in a set.
const NumDice = 6

// Faces is the number of sides on each die.
const Faces = 6

// Set holds the six dice slots for one roll or save action. A slot of 0 means
// the die is not in play; anything else is a face value 1..6.
type Set [NumDice]int

// FromValues builds a Set from up to six face values, padding the remaining
// slots with 0. Face values outside 0..6 or more than six values are rejected.
func FromValues(values []int) (Set, error) {
	var s Set
	if len(values) > NumDice {
		return s, fmt.Errorf("dice: %d values exceeds %d slots", len(values), NumDice)
	}
	for i, v := range values {
		if v < 0 || v > Faces {
			return s, fmt.Errorf("dice: face value %d out of range", v)
		}
		s[i] = v
	}
	return s, nil
}

// Counts returns the number of dice showing each face, indexed 1..6.
// Index 0 holds the number of empty slots.
func (s Set) Counts() [Faces + 1]int {
	var counts [Faces + 1]int
	for _, v := range s {
		counts[v]++
	}
	return counts
}

// Active returns the face values currently in play, in slot order.
func (s Set) Active() []int {
	values := make([]int, 0, NumDice)
	for _, v := range s {
		if v != 0 {
			values = append(values, v)
		}
	}
	return values
}

// ActiveCount returns how many slots hold a rolled die.
func (s Set) ActiveCount() int {
	n := 0
	for _, v := range s {
		if v != 0 {
			n++
		}
	}
	return n
}

// Add places the given face values into empty slots. It fails when there are
// not enough free slots, leaving the set unchanged.
func (s *Set) Add(values []int) error {
	updated := *s
	i := 0
	for _, v := range values {
		for i < NumDice && updated[i] != 0 {
			i++
		}
		if i == NumDice {
			return fmt.Errorf("dice: no free slot for face %d", v)
		}
		updated[i] = v
	}
	*s = updated
	return nil
}

func (s Set) String() string {
	parts := make([]string, 0, NumDice)
	for _, v := range s.Active() {
		parts = append(parts, strconv.Itoa(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Roller produces raw rolls from a deterministic seed.
type Roller struct {
	rng *rand.Rand
}

// NewRoller creates a roller seeded via randutil so that games can be
// replayed from the same seed.
func NewRoller(seed int64) *Roller {
	return &Roller{rng: randutil.New(seed)}
}

// NewRollerFrom wraps an existing RNG, used when several components share one
// seeded source.
func NewRollerFrom(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// Roll returns n uniform face values in 1..6.
func (r *Roller) Roll(n int) []int {
	if n < 1 {
		return nil
	}
	if n > NumDice {
		n = NumDice
	}
	values := make([]int, n)
	for i := range values {
		values[i] = randutil.Die(r.rng)
	}
	return values
}
