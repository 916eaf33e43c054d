package score

// Empirical roll heuristics indexed by the number of dice about to be
// rolled. These are fixed approximations used by bot decision-making; they
// are intentionally not recomputed from the evaluator.
var (
	bustProbability = [...]float64{0, 0.6667, 0.4444, 0.2778, 0.1543, 0.0772, 0.0231}
	expectedPoints  = [...]int{0, 83, 100, 150, 200, 250, 350}
)

// BustProbability returns the probability that rolling n dice scores
// nothing. Inputs outside 1..6 yield 0.
func BustProbability(n int) float64 {
	if n < 1 || n > 6 {
		return 0
	}
	return bustProbability[n]
}

// ExpectedPoints returns the heuristic expected point gain of rolling n
// dice. Inputs outside 1..6 yield 0.
func ExpectedPoints(n int) int {
	if n < 1 || n > 6 {
		return 0
	}
	return expectedPoints[n]
}
