package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
	"github.com/pmxlabs/venuelink/internal/extract"
	"github.com/pmxlabs/venuelink/internal/pipeline"
)

type fakeMarketStore struct {
	mu      sync.Mutex
	markets map[domain.Venue][]domain.Market
	fail    map[domain.Venue]error
}

func newFakeMarketStore() *fakeMarketStore {
	return &fakeMarketStore{
		markets: make(map[domain.Venue][]domain.Market),
		fail:    make(map[domain.Venue]error),
	}
}

func (s *fakeMarketStore) add(m domain.Market) {
	s.markets[m.Venue] = append(s.markets[m.Venue], m)
}

func (s *fakeMarketStore) Upsert(ctx context.Context, m domain.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(m)
	return nil
}

func (s *fakeMarketStore) GetByExternalID(ctx context.Context, venue domain.Venue, externalID string) (domain.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.markets[venue] {
		if m.ExternalID == externalID {
			return m, nil
		}
	}
	return domain.Market{}, domain.ErrNotFound
}

func (s *fakeMarketStore) ListEligible(ctx context.Context, q domain.EligibleQuery) ([]domain.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[q.Venue]; err != nil {
		return nil, err
	}
	return append([]domain.Market(nil), s.markets[q.Venue]...), nil
}

type fakeLinkStore struct {
	mu       sync.Mutex
	upserts  []domain.MarketLink
	failures int // fail this many Upsert calls before succeeding
}

func (s *fakeLinkStore) Upsert(ctx context.Context, link domain.MarketLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("transient write failure")
	}
	s.upserts = append(s.upserts, link)
	return nil
}

func (s *fakeLinkStore) ListByStatus(ctx context.Context, status domain.LinkStatus, limit int) ([]domain.MarketLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.MarketLink
	for _, l := range s.upserts {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLinkStore) UpdateStatus(ctx context.Context, id string, status domain.LinkStatus, rule, reason string, confidence float64) error {
	return nil
}

func testMarket(venue domain.Venue, id, title string, topic domain.Topic, close time.Time) domain.Market {
	return domain.Market{
		Venue:      venue,
		ExternalID: id,
		Title:      title,
		Topic:      topic,
		CloseTime:  &close,
	}
}

func testOrchestrator(markets *fakeMarketStore, links *fakeLinkStore, cfg Config) *Orchestrator {
	deps := pipeline.Deps{
		Markets:   markets,
		Extractor: extract.New(extract.NewRegistry()),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return New(cfg, deps, links, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOrchestrator_RunEndToEnd(t *testing.T) {
	close := time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC)

	markets := newFakeMarketStore()
	markets.add(testMarket(domain.VenueKalshi, "KXFED-26MAR",
		"Will the Fed cut rates at the March 18, 2026 meeting?", domain.TopicRates, close))
	markets.add(testMarket(domain.VenuePolymarket, "0xfed",
		"Fed cuts rates at March 18, 2026 FOMC meeting?", domain.TopicRates, close))
	markets.add(testMarket(domain.VenuePolymarket, "0xecb",
		"ECB rate decision in March 2026", domain.TopicRates, close))

	links := &fakeLinkStore{}
	orc := testOrchestrator(markets, links, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
		Lookback:    72 * time.Hour,
	})

	stats, emitted, err := orc.Run(context.Background(), domain.TopicRates)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SourceFetched)
	assert.Equal(t, 2, stats.TargetFetched)
	// The ECB market never shares the Fed's index bucket.
	assert.Equal(t, 1, stats.CandidatePairs)
	assert.Equal(t, 0, stats.GateRejected)
	assert.Equal(t, 1, stats.Scored)
	assert.Equal(t, 1, stats.Deduplicated)
	assert.Equal(t, 1, stats.AutoConfirmed)
	assert.Equal(t, domain.TopicRates, stats.Topic)
	assert.NotEmpty(t, stats.RunID)

	require.Len(t, emitted, 1)
	link := emitted[0]
	assert.Equal(t, domain.LinkAutoConfirmed, link.Status)
	assert.Equal(t, "rates_exact_date_high_score", link.Rule)
	assert.Equal(t, "KXFED-26MAR", link.SourceExternalID)
	assert.Equal(t, "0xfed", link.TargetExternalID)
	assert.Equal(t, AlgorithmVersion, link.AlgorithmVersion)
	assert.Equal(t, link.Score, link.Confidence)

	require.Len(t, links.upserts, 1)
	assert.Equal(t, link.SourceExternalID, links.upserts[0].SourceExternalID)
}

func TestOrchestrator_DryRunWritesNothing(t *testing.T) {
	close := time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC)

	markets := newFakeMarketStore()
	markets.add(testMarket(domain.VenueKalshi, "K1",
		"Will the Fed cut rates at the March 18, 2026 meeting?", domain.TopicRates, close))
	markets.add(testMarket(domain.VenuePolymarket, "P1",
		"Fed cuts rates at March 18, 2026 FOMC meeting?", domain.TopicRates, close))

	links := &fakeLinkStore{}
	orc := testOrchestrator(markets, links, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
		DryRun:      true,
	})

	stats, emitted, err := orc.Run(context.Background(), domain.TopicRates)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AutoConfirmed)
	assert.Len(t, emitted, 1)
	assert.Empty(t, links.upserts)
}

func TestOrchestrator_FatalFetchAbortsWithPartialStats(t *testing.T) {
	markets := newFakeMarketStore()
	markets.fail[domain.VenuePolymarket] = errors.New("connection refused")

	orc := testOrchestrator(markets, &fakeLinkStore{}, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
	})

	stats, emitted, err := orc.Run(context.Background(), domain.TopicRates)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, emitted)
	assert.NotEmpty(t, stats.Errors)
	assert.False(t, stats.FinishedAt.IsZero())
}

func TestOrchestrator_UpsertRetriesThenSucceeds(t *testing.T) {
	close := time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC)

	markets := newFakeMarketStore()
	markets.add(testMarket(domain.VenueKalshi, "K1",
		"Will the Fed cut rates at the March 18, 2026 meeting?", domain.TopicRates, close))
	markets.add(testMarket(domain.VenuePolymarket, "P1",
		"Fed cuts rates at March 18, 2026 FOMC meeting?", domain.TopicRates, close))

	links := &fakeLinkStore{failures: 2}
	orc := testOrchestrator(markets, links, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
	})

	stats, emitted, err := orc.Run(context.Background(), domain.TopicRates)
	require.NoError(t, err)
	assert.Zero(t, stats.SkippedErrors)
	assert.Len(t, emitted, 1)
	assert.Len(t, links.upserts, 1)
}

func TestOrchestrator_UpsertFailureCountsAndSkips(t *testing.T) {
	close := time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC)

	markets := newFakeMarketStore()
	markets.add(testMarket(domain.VenueKalshi, "K1",
		"Will the Fed cut rates at the March 18, 2026 meeting?", domain.TopicRates, close))
	markets.add(testMarket(domain.VenuePolymarket, "P1",
		"Fed cuts rates at March 18, 2026 FOMC meeting?", domain.TopicRates, close))

	links := &fakeLinkStore{failures: 10}
	orc := testOrchestrator(markets, links, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
	})

	stats, emitted, err := orc.Run(context.Background(), domain.TopicRates)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SkippedErrors)
	assert.NotEmpty(t, stats.Errors)
	assert.Empty(t, emitted)
	assert.Empty(t, links.upserts)
}

func TestOrchestrator_UnknownTopicIsFatal(t *testing.T) {
	orc := testOrchestrator(newFakeMarketStore(), &fakeLinkStore{}, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
	})
	_, _, err := orc.Run(context.Background(), domain.Topic("nonsense"))
	require.Error(t, err)
}

func TestOrchestrator_RunAllStopsOnFatal(t *testing.T) {
	markets := newFakeMarketStore()
	markets.fail[domain.VenueKalshi] = errors.New("boom")

	orc := testOrchestrator(markets, &fakeLinkStore{}, Config{
		SourceVenue: domain.VenueKalshi,
		TargetVenue: domain.VenuePolymarket,
	})

	all, _, err := orc.RunAll(context.Background(), []domain.Topic{
		domain.TopicRates, domain.TopicSports,
	})
	require.Error(t, err)
	// The first topic's failure stops the sweep; the second never runs.
	assert.Len(t, all, 1)
	assert.Equal(t, domain.TopicRates, all[0].Topic)
}
