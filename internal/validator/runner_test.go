package validator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

type stubLinkStore struct {
	links   []domain.MarketLink
	updates []statusUpdate
}

type statusUpdate struct {
	id     string
	status domain.LinkStatus
	rule   string
}

func (s *stubLinkStore) Upsert(ctx context.Context, link domain.MarketLink) error { return nil }

func (s *stubLinkStore) ListByStatus(ctx context.Context, status domain.LinkStatus, limit int) ([]domain.MarketLink, error) {
	return s.links, nil
}

func (s *stubLinkStore) UpdateStatus(ctx context.Context, id string, status domain.LinkStatus, rule, reason string, confidence float64) error {
	s.updates = append(s.updates, statusUpdate{id: id, status: status, rule: rule})
	return nil
}

type stubMarketStore struct {
	titles map[string]string // venue:externalID -> title
}

func (s *stubMarketStore) Upsert(ctx context.Context, m domain.Market) error { return nil }

func (s *stubMarketStore) GetByExternalID(ctx context.Context, venue domain.Venue, externalID string) (domain.Market, error) {
	title, ok := s.titles[string(venue)+":"+externalID]
	if !ok {
		return domain.Market{}, domain.ErrNotFound
	}
	return domain.Market{Venue: venue, ExternalID: externalID, Title: title}, nil
}

func (s *stubMarketStore) ListEligible(ctx context.Context, q domain.EligibleQuery) ([]domain.Market, error) {
	return nil, nil
}

type stubValidator struct {
	verdicts map[string]domain.ValidatorVerdict // source title -> verdict
	err      error
	calls    int
}

func (v *stubValidator) Validate(ctx context.Context, sourceTitle, targetTitle string) (domain.ValidatorResult, error) {
	v.calls++
	if v.err != nil {
		return domain.ValidatorResult{Verdict: domain.VerdictUncertain}, v.err
	}
	verdict, ok := v.verdicts[sourceTitle]
	if !ok {
		verdict = domain.VerdictUncertain
	}
	return domain.ValidatorResult{Verdict: verdict, Confidence: 0.9}, nil
}

type stubBudget struct {
	remaining int
}

func (b *stubBudget) Spend(ctx context.Context, n int) (bool, error) {
	b.remaining -= n
	return b.remaining >= 0, nil
}

func suggestedLink(id, sourceID, targetID string, score float64) domain.MarketLink {
	return domain.MarketLink{
		ID:               id,
		SourceVenue:      domain.VenueKalshi,
		SourceExternalID: sourceID,
		TargetVenue:      domain.VenuePolymarket,
		TargetExternalID: targetID,
		Topic:            domain.TopicRates,
		Status:           domain.LinkSuggested,
		Score:            score,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_AppliesVerdicts(t *testing.T) {
	links := &stubLinkStore{links: []domain.MarketLink{
		suggestedLink("l1", "K1", "P1", 0.9),
		suggestedLink("l2", "K2", "P2", 0.8),
		suggestedLink("l3", "K3", "P3", 0.7),
	}}
	markets := &stubMarketStore{titles: map[string]string{
		"kalshi:K1": "Fed cuts in March?", "polymarket:P1": "Fed cut March 2026",
		"kalshi:K2": "ECB cuts in April?", "polymarket:P2": "BOE decision April",
		"kalshi:K3": "Gold above $3000?", "polymarket:P3": "Gold price above $3,000",
	}}
	v := &stubValidator{verdicts: map[string]domain.ValidatorVerdict{
		"Fed cuts in March?": domain.VerdictConfirm,
		"ECB cuts in April?": domain.VerdictReject,
	}}

	r := NewRunner(RunnerConfig{MinScore: 0.5, RatePerMinute: 6000}, links, markets, v, nil, discardLogger())
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Examined)
	assert.Equal(t, 3, report.Validated)
	assert.Equal(t, 1, report.Confirmed)
	assert.Equal(t, 1, report.Demoted)
	assert.Equal(t, 1, report.Uncertain)

	require.Len(t, links.updates, 2)
	assert.Equal(t, statusUpdate{id: "l1", status: domain.LinkAutoConfirmed, rule: "validator_confirm"}, links.updates[0])
	assert.Equal(t, statusUpdate{id: "l2", status: domain.LinkPendingReview, rule: "validator_reject"}, links.updates[1])
}

func TestRunner_SkipsBelowScoreFloor(t *testing.T) {
	links := &stubLinkStore{links: []domain.MarketLink{
		suggestedLink("l1", "K1", "P1", 0.4),
	}}
	v := &stubValidator{}

	r := NewRunner(RunnerConfig{MinScore: 0.6, RatePerMinute: 6000}, links, &stubMarketStore{}, v, nil, discardLogger())
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, v.calls)
}

func TestRunner_StopsWhenBudgetExhausted(t *testing.T) {
	links := &stubLinkStore{links: []domain.MarketLink{
		suggestedLink("l1", "K1", "P1", 0.9),
		suggestedLink("l2", "K2", "P2", 0.9),
		suggestedLink("l3", "K3", "P3", 0.9),
	}}
	v := &stubValidator{}
	budget := &stubBudget{remaining: 2}

	r := NewRunner(RunnerConfig{MinScore: 0.5, RatePerMinute: 6000}, links, &stubMarketStore{}, v, budget, discardLogger())
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Validated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, v.calls)
}

func TestRunner_ValidatorErrorMapsToUncertain(t *testing.T) {
	links := &stubLinkStore{links: []domain.MarketLink{
		suggestedLink("l1", "K1", "P1", 0.9),
	}}
	v := &stubValidator{err: errors.New("upstream timeout")}

	r := NewRunner(RunnerConfig{MinScore: 0.5, RatePerMinute: 6000}, links, &stubMarketStore{}, v, nil, discardLogger())
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Uncertain)
	assert.NotEmpty(t, report.Errors)
	assert.Empty(t, links.updates)
}
