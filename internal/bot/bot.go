package bot

import (
	"context"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// Bot wraps the deterministic threshold policy with the optional enrichment
// layer. The enricher runs under a hard timeout and its output is validated
// against the enumerated combinations; anything short of a fully usable
// answer silently falls through to the local policy.
type Bot struct {
	name     string
	profile  RiskProfile
	policy   ThresholdPolicy
	enricher DecisionEnricher
	timeout  time.Duration
	logger   *log.Logger
}

// Option configures a Bot.
type Option func(*Bot)

// WithEnricher attaches a decision enricher.
func WithEnricher(e DecisionEnricher) Option {
	return func(b *Bot) { b.enricher = e }
}

// WithEnrichTimeout overrides the enrichment deadline.
func WithEnrichTimeout(d time.Duration) Option {
	return func(b *Bot) { b.timeout = d }
}

// New builds a bot with the given risk profile.
func New(name string, profile RiskProfile, logger *log.Logger, opts ...Option) *Bot {
	b := &Bot{
		name:     name,
		profile:  profile.Normalize(),
		policy:   NewThresholdPolicy(profile),
		enricher: NoopEnricher{},
		timeout:  DefaultEnrichTimeout,
		logger:   logger.WithPrefix("bot").With("bot", name),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the bot's display name.
func (b *Bot) Name() string { return b.name }

// Profile returns the bot's risk profile.
func (b *Bot) Profile() RiskProfile { return b.profile }

// Decide resolves one roll. The second return is false on a bust. The local
// policy always produces the answer first so a dead enricher can never stall
// or corrupt a turn.
func (b *Bot) Decide(ctx context.Context, dc DecisionContext) (Decision, bool) {
	base, ok := b.policy.Decide(dc)
	if !ok {
		return Decision{}, false
	}

	if b.enricher == nil {
		return base, true
	}
	if _, noop := b.enricher.(NoopEnricher); noop {
		return base, true
	}

	enrichCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	enrichment, err := b.enricher.Enrich(enrichCtx, b.profile, dc)
	if err != nil {
		b.logger.Debug("Enricher failed, using threshold policy", "error", err)
		return base, true
	}
	if enrichment == nil {
		return base, true
	}

	combo, found := matchCombo(dc.Combos, enrichment.Dice)
	if !found {
		b.logger.Debug("Enricher returned unknown combination, using threshold policy",
			"dice", enrichment.Dice)
		return base, true
	}

	bank := enrichment.Bank
	if len(combo.Dice) == len(dc.Roll) {
		// Hot dice: banking is not available no matter what the service says.
		bank = false
	}
	if dc.MinBank > 0 && dc.TurnScore+combo.Points < dc.MinBank {
		bank = false
	}

	return Decision{
		Combo:     combo,
		Bank:      bank,
		Rationale: enrichment.Rationale,
		Chat:      enrichment.Chat,
	}, true
}

// ShouldTaunt rolls the trash-talk dial: chattier profiles taunt more often.
func (b *Bot) ShouldTaunt(rng *rand.Rand) bool {
	return rng.IntN(10) < b.profile.TrashTalk
}

var tauntLines = []string{
	"Read 'em and weep.",
	"You can bank any time you like, but those points can never leave.",
	"I was rolling dice before you had a name.",
	"Hot dice never lie.",
	"That looked expensive.",
	"Is banking at 300 a strategy or a cry for help?",
}

// TauntLine picks a canned line. Flavor only.
func (b *Bot) TauntLine(rng *rand.Rand) string {
	return tauntLines[rng.IntN(len(tauntLines))]
}

func matchCombo(combos []score.Combination, values []int) (score.Combination, bool) {
	for _, c := range combos {
		if c.Matches(values) {
			return c, true
		}
	}
	return score.Combination{}, false
}
