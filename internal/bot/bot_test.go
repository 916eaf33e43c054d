package bot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

type stubEnricher struct {
	enrichment *Enrichment
	err        error
	delay      time.Duration
}

func (s *stubEnricher) Enrich(ctx context.Context, _ RiskProfile, _ DecisionContext) (*Enrichment, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.enrichment, s.err
}

func rollContext(roll []int, turnScore int) DecisionContext {
	return DecisionContext{
		Roll:      roll,
		Combos:    score.Enumerate(roll),
		TurnScore: turnScore,
	}
}

func TestBotFallsBackOnEnricherError(t *testing.T) {
	b := New("grumpy", Balanced.Profile(), testLogger(),
		WithEnricher(&stubEnricher{err: errors.New("service down")}))

	dc := rollContext([]int{1, 5, 2, 3, 4, 4}, 100)
	d, ok := b.Decide(context.Background(), dc)
	require.True(t, ok)
	assert.NotEmpty(t, d.Combo.Dice)
	assert.Empty(t, d.Chat, "fallback decisions carry no flavor")
}

func TestBotFallsBackOnTimeout(t *testing.T) {
	b := New("slowpoke", Balanced.Profile(), testLogger(),
		WithEnricher(&stubEnricher{delay: time.Second, enrichment: &Enrichment{Dice: []int{1}}}),
		WithEnrichTimeout(5*time.Millisecond))

	dc := rollContext([]int{1, 5, 2, 3, 4, 4}, 100)
	start := time.Now()
	d, ok := b.Decide(context.Background(), dc)
	require.True(t, ok)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "timeout must bound the wait")
	assert.NotEmpty(t, d.Combo.Dice)
}

func TestBotFallsBackOnUnknownCombination(t *testing.T) {
	b := New("liar", Balanced.Profile(), testLogger(),
		WithEnricher(&stubEnricher{enrichment: &Enrichment{Dice: []int{6, 6}, Bank: true}}))

	dc := rollContext([]int{1, 5, 2, 3, 4, 4}, 100)
	d, ok := b.Decide(context.Background(), dc)
	require.True(t, ok)
	assert.False(t, d.Combo.Matches([]int{6, 6}))
}

func TestBotAcceptsValidEnrichment(t *testing.T) {
	b := New("showman", Balanced.Profile(), testLogger(),
		WithEnricher(&stubEnricher{enrichment: &Enrichment{
			Dice:      []int{1, 5},
			Bank:      true,
			Rationale: "taking the sure thing",
			Chat:      "Watch and learn.",
		}}))

	dc := rollContext([]int{1, 5, 2, 3, 4, 4}, 100)
	d, ok := b.Decide(context.Background(), dc)
	require.True(t, ok)
	assert.True(t, d.Combo.Matches([]int{1, 5}))
	assert.True(t, d.Bank)
	assert.Equal(t, "Watch and learn.", d.Chat)
}

func TestBotEnrichmentCannotBankHotDice(t *testing.T) {
	b := New("cheater", Balanced.Profile(), testLogger(),
		WithEnricher(&stubEnricher{enrichment: &Enrichment{
			Dice: []int{2, 2, 2, 5, 5, 5},
			Bank: true,
		}}))

	dc := rollContext([]int{2, 2, 2, 5, 5, 5}, 0)
	d, ok := b.Decide(context.Background(), dc)
	require.True(t, ok)
	assert.False(t, d.Bank, "hot dice force another roll")
}

func TestBotBustMakesNoDecision(t *testing.T) {
	b := New("idle", Balanced.Profile(), testLogger(),
		WithEnricher(&stubEnricher{enrichment: &Enrichment{Dice: []int{1}}}))

	_, ok := b.Decide(context.Background(), DecisionContext{Roll: []int{2, 3, 4, 6}})
	assert.False(t, ok)
}

func TestRemoteEnricher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dice":[1],"bank":false,"rationale":"one die at a time","chat":"easy now"}`))
	}))
	defer srv.Close()

	e := NewRemoteEnricher(srv.URL, srv.Client())
	enrichment, err := e.Enrich(context.Background(), Balanced.Profile(), rollContext([]int{1, 2, 3, 4, 4, 6}, 0))
	require.NoError(t, err)
	require.NotNil(t, enrichment)
	assert.Equal(t, []int{1}, enrichment.Dice)
	assert.Equal(t, "easy now", enrichment.Chat)
}

func TestRemoteEnricherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewRemoteEnricher(srv.URL, srv.Client())
	_, err := e.Enrich(context.Background(), Balanced.Profile(), rollContext([]int{1}, 0))
	assert.Error(t, err)
}
