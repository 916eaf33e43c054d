// Package score implements Farkle scoring: evaluating a declared set of dice,
// enumerating every scoring combination in a roll, and the bust-odds tables
// used by bot heuristics.
package score

import "github.com/mschmoyer/farkledice-sub000/internal/dice"

// Scores for the fixed six-dice bonus combinations. Each acts as a floor on
// the running total rather than a replacement, so a higher base score (for
// example four 1s alongside a pair) is never reduced.
const (
	ThreePairsScore  = 750
	StraightScore    = 1000
	TwoTripletsScore = 2500
)

// Result is the outcome of evaluating one declared dice set. The pattern
// flags report which special combinations fired so callers can emit the
// matching notifications; they never need re-deriving from the points.
type Result struct {
	Points         int
	ThreePairs     bool
	Straight       bool
	TwoTriplets    bool
	SixOfAKindFace int // face showing on all six dice, 0 otherwise
}

// Evaluate scores an entire dice set taken as a single declaration. Empty
// slots (face 0) are ignored. A return of zero points means the set holds no
// scoring dice; bust classification is the caller's responsibility.
func Evaluate(set dice.Set) Result {
	counts := set.Counts()

	var res Result
	points := 0
	singleMatches := 0
	pairUnits := 0
	tripletUnits := 0
	prevPairUnits := 0
	forceThreePairs := false

	for face := 1; face <= dice.Faces; face++ {
		n := counts[face]
		switch {
		case face == 1:
			if n < 3 {
				points += n * 100
			} else {
				points += 1000 * (n - 2)
			}
		case face == 5:
			if n < 3 {
				points += n * 50
			} else {
				points += 500 * (n - 2)
			}
		default:
			if n >= 3 {
				points += face * 100 * (n - 2)
			}
		}

		if n == 1 {
			singleMatches++
		}
		if n == 6 {
			res.SixOfAKindFace = face
		}

		curPairUnits := 0
		if n == 2 || n == 4 || n == 6 {
			curPairUnits = n / 2
		}
		if n == 3 || n == 6 {
			tripletUnits += n / 3
		}

		// A pair next to a four-of-a-kind (in either order) still reads as
		// three pairs. Without this, rolls like two 3s plus four 2s would
		// miss the 750 bonus entirely.
		if (prevPairUnits == 2 && curPairUnits == 1) || (prevPairUnits == 1 && curPairUnits == 2) {
			forceThreePairs = true
		}
		if curPairUnits > 0 {
			prevPairUnits = curPairUnits
		}
		pairUnits += curPairUnits
	}

	if pairUnits == 3 || forceThreePairs {
		res.ThreePairs = true
		if points < ThreePairsScore {
			points = ThreePairsScore
		}
	}
	if singleMatches == 6 {
		res.Straight = true
		if points < StraightScore {
			points = StraightScore
		}
	}
	if tripletUnits == 2 {
		res.TwoTriplets = true
		if points < TwoTripletsScore {
			points = TwoTripletsScore
		}
	}

	res.Points = points
	return res
}

// Score returns just the point value of a declared dice set.
func Score(set dice.Set) int {
	return Evaluate(set).Points
}

// ScoreValues scores a plain slice of face values, padding it into a set.
// It panics on more than six values; that is a caller contract violation,
// not a runtime condition.
func ScoreValues(values []int) int {
	set, err := dice.FromValues(values)
	if err != nil {
		panic(err)
	}
	return Score(set)
}
