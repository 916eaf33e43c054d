// Package statistics aggregates batch simulation outcomes: win rates per
// risk profile and the distribution of final scores.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed     int64 // RNG seed for this game (for replay)
	Rounds   int   // rounds played, including overtime
	Overtime bool
	// Winner indexes into Scores; -1 when the game did not complete.
	Winner int
	// Scores holds final totals in profile order, independent of the seat
	// rotation used for the game.
	Scores []int
}

// ProfileStats tracks one risk profile's aggregate performance.
type ProfileStats struct {
	Games     int
	Wins      int
	SumScore  float64
	SumScore2 float64
}

// WinRate returns the fraction of games this profile won.
func (p ProfileStats) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games)
}

// MeanScore returns the profile's average final score.
func (p ProfileStats) MeanScore() float64 {
	if p.Games == 0 {
		return 0
	}
	return p.SumScore / float64(p.Games)
}

// Statistics tracks comprehensive simulation statistics across a batch.
type Statistics struct {
	Games     int
	Overtimes int
	RoundsSum int

	// Profiles is indexed the same way as GameResult.Scores.
	Profiles []ProfileStats

	// Winning score distribution.
	SumWin  float64
	SumWin2 float64
	Values  []float64 // all winning scores, for median/percentiles
}

// New creates statistics sized for the given number of profiles.
func New(profiles int) *Statistics {
	return &Statistics{Profiles: make([]ProfileStats, profiles)}
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	s.Games++
	s.RoundsSum += result.Rounds
	if result.Overtime {
		s.Overtimes++
	}

	for i, score := range result.Scores {
		if i >= len(s.Profiles) {
			break
		}
		p := &s.Profiles[i]
		p.Games++
		p.SumScore += float64(score)
		p.SumScore2 += float64(score) * float64(score)
	}

	if result.Winner >= 0 && result.Winner < len(result.Scores) {
		if result.Winner < len(s.Profiles) {
			s.Profiles[result.Winner].Wins++
		}
		win := float64(result.Scores[result.Winner])
		s.SumWin += win
		s.SumWin2 += win * win
		s.Values = append(s.Values, win)
	}
}

// Mean returns the arithmetic mean of winning scores
func (s *Statistics) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.SumWin / float64(len(s.Values))
}

// Variance returns the sample variance of winning scores
func (s *Statistics) Variance() float64 {
	n := len(s.Values)
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumWin2 - float64(n)*mean*mean) / float64(n-1)
}

// StdDev returns the sample standard deviation of winning scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(len(s.Values)))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median winning score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the given percentile of winning scores (0..1)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// MeanRounds returns the average game length in rounds
func (s *Statistics) MeanRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.RoundsSum) / float64(s.Games)
}

// Validate performs sanity checks on the accumulated statistics
func (s *Statistics) Validate() error {
	if s.Games < 0 {
		return fmt.Errorf("negative game count: %d", s.Games)
	}
	wins := 0
	for _, p := range s.Profiles {
		if p.Wins > p.Games {
			return fmt.Errorf("profile wins %d exceed games %d", p.Wins, p.Games)
		}
		wins += p.Wins
	}
	if wins > s.Games {
		return fmt.Errorf("total wins %d exceed games %d", wins, s.Games)
	}
	if len(s.Values) != wins {
		return fmt.Errorf("winning score count %d does not match wins %d", len(s.Values), wins)
	}
	return nil
}
