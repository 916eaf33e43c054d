package game

import (
	"github.com/mschmoyer/farkledice-sub000/internal/bot"
)

// Player is one seat at the table. Humans and bots move through the exact
// same Roll/SaveDice/Bank primitives; the only difference is who supplies
// the decisions.
type Player struct {
	ID   string
	Name string
	// Bot is nil for human players.
	Bot *bot.Bot

	// TotalScore is the banked total across all completed rounds.
	TotalScore int
	// Round is this player's current round in fixed-round-count mode. It
	// advances when the player banks or busts and can re-enter a later round
	// under overtime.
	Round int
	// RoundScores holds every completed round's banked score in order; a
	// zero entry is a bust (or a failed break-in).
	RoundScores []int
}

// NewPlayer creates a human seat.
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Round: 1}
}

// NewBotPlayer creates a bot-driven seat.
func NewBotPlayer(id string, b *bot.Bot) *Player {
	return &Player{ID: id, Name: b.Name(), Bot: b, Round: 1}
}

// IsBot reports whether this seat is bot-driven.
func (p *Player) IsBot() bool { return p.Bot != nil }

// BestRound returns the player's single highest recorded round score. This
// is the final tiebreaker when overtime is exhausted.
func (p *Player) BestRound() int {
	best := 0
	for _, s := range p.RoundScores {
		if s > best {
			best = s
		}
	}
	return best
}

// sortedRoundScores returns the recorded round scores highest first, used
// for the recursive next-highest tiebreak.
func (p *Player) sortedRoundScores() []int {
	scores := append([]int(nil), p.RoundScores...)
	for i := 1; i < len(scores); i++ {
		for j := i; j > 0 && scores[j] > scores[j-1]; j-- {
			scores[j], scores[j-1] = scores[j-1], scores[j]
		}
	}
	return scores
}
