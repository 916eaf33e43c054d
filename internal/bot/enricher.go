package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mschmoyer/farkledice-sub000/internal/score"
)

// Enrichment is a richer decision returned by an external personality
// service: which dice to keep, whether to bank, and flavor text.
type Enrichment struct {
	Dice      []int  `json:"dice"`
	Bank      bool   `json:"bank"`
	Rationale string `json:"rationale"`
	Chat      string `json:"chat"`
}

// DecisionEnricher optionally improves on the local policy. Implementations
// must honor the context deadline; any error, timeout, or malformed result
// makes the caller fall back to the threshold policy.
type DecisionEnricher interface {
	Enrich(ctx context.Context, profile RiskProfile, dc DecisionContext) (*Enrichment, error)
}

// NoopEnricher always defers to the local policy.
type NoopEnricher struct{}

func (NoopEnricher) Enrich(context.Context, RiskProfile, DecisionContext) (*Enrichment, error) {
	return nil, nil
}

// RemoteEnricher calls an external flavor service over HTTP. It is best
// effort by construction: the request carries the caller's deadline and a
// failed or slow call costs nothing but the timeout.
type RemoteEnricher struct {
	url    string
	client *http.Client
}

// NewRemoteEnricher builds an enricher for the given endpoint. A nil client
// uses a dedicated one with no internal timeout; the per-call context is the
// only clock that matters.
func NewRemoteEnricher(url string, client *http.Client) *RemoteEnricher {
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteEnricher{url: url, client: client}
}

type enrichRequest struct {
	Roll          []int               `json:"roll"`
	Combos        []score.Combination `json:"combos"`
	TurnScore     int                 `json:"turn_score"`
	TotalScore    int                 `json:"total_score"`
	OpponentBest  int                 `json:"opponent_best"`
	TargetScore   int                 `json:"target_score"`
	RiskTolerance int                 `json:"risk_tolerance"`
	TrashTalk     int                 `json:"trash_talk"`
}

func (e *RemoteEnricher) Enrich(ctx context.Context, profile RiskProfile, dc DecisionContext) (*Enrichment, error) {
	payload, err := json.Marshal(enrichRequest{
		Roll:          dc.Roll,
		Combos:        dc.Combos,
		TurnScore:     dc.TurnScore,
		TotalScore:    dc.TotalScore,
		OpponentBest:  dc.OpponentBest,
		TargetScore:   dc.TargetScore,
		RiskTolerance: profile.RiskTolerance,
		TrashTalk:     profile.TrashTalk,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enricher returned status %d", resp.StatusCode)
	}

	var enrichment Enrichment
	if err := json.NewDecoder(resp.Body).Decode(&enrichment); err != nil {
		return nil, err
	}
	return &enrichment, nil
}

// DefaultEnrichTimeout bounds how long a bot waits on an enricher before
// the deterministic policy takes over.
const DefaultEnrichTimeout = 3 * time.Second
