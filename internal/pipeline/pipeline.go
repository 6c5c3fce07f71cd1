// Package pipeline implements the per-topic matching pipelines: candidate
// indexing, hard gates, multi-component scoring, deduplication and the
// conservative auto-confirm / auto-reject decision rules.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
	"github.com/pmxlabs/venuelink/internal/extract"
)

// Entry pairs a market with its extracted signals. Signals are recomputed per
// run; they are never read back from storage.
type Entry struct {
	Market  domain.Market
	Signals domain.Signals
}

// Candidate is a scored association between one source-venue entry and one
// target-venue entry, scoped to a single topic.
type Candidate struct {
	Source Entry
	Target Entry
	Result domain.ScoreResult
}

// GateResult reports a hard-gate evaluation. A failed gate is recorded, not
// an error.
type GateResult struct {
	Passed bool
	Reason string
}

func gateFail(reason string) GateResult { return GateResult{Reason: reason} }
func gatePass() GateResult              { return GateResult{Passed: true} }

// Index is the target-side lookup built once per run. Entries are bucketed by
// pipeline-specific keys so candidate retrieval stays cheap; the "" bucket
// collects entries with no usable key.
type Index struct {
	buckets map[string][]Entry
	all     []Entry
}

func newIndex() *Index {
	return &Index{buckets: make(map[string][]Entry)}
}

func (ix *Index) add(key string, e Entry) {
	ix.buckets[key] = append(ix.buckets[key], e)
	ix.all = append(ix.all, e)
}

// Bucket returns the entries indexed under key.
func (ix *Index) Bucket(key string) []Entry { return ix.buckets[key] }

// All returns every indexed entry.
func (ix *Index) All() []Entry { return ix.all }

// Len returns the number of indexed entries.
func (ix *Index) Len() int { return len(ix.all) }

// Pipeline is the uniform per-topic contract the orchestrator drives.
type Pipeline interface {
	Topic() domain.Topic

	// FetchEligible returns the markets a run should consider for a venue.
	FetchEligible(ctx context.Context, venue domain.Venue, lookback time.Duration, limit int) ([]Entry, error)

	// BuildIndex buckets target-side entries for candidate retrieval.
	BuildIndex(entries []Entry) *Index

	// FindCandidates returns the target entries worth gating for a source
	// entry.
	FindCandidates(source Entry, ix *Index) []Entry

	// CheckHardGates runs the topic's cheap, order-sensitive reject
	// predicates. A pair failing any gate never reaches scoring.
	CheckHardGates(source, target Entry) GateResult

	// Score produces the weighted multi-component score for a gated pair.
	Score(source, target Entry) domain.ScoreResult

	// ShouldAutoConfirm and ShouldAutoReject are the independent decision
	// rule sets applied after scoring and deduplication. The returned string
	// names the triggering rule.
	ShouldAutoConfirm(c Candidate) (bool, string)
	ShouldAutoReject(c Candidate) (bool, string)
}

// Deps bundles the collaborators every pipeline needs.
type Deps struct {
	Markets   domain.MarketStore
	ListCache domain.MarketListCache // optional
	Extractor *extract.Extractor
	Logger    *slog.Logger
}

// base carries the shared fetch/extract plumbing for concrete pipelines.
type base struct {
	topic    domain.Topic
	deps     Deps
	keywords []string // optional title prefilter pushed into the store query
	logger   *slog.Logger
}

func newBase(topic domain.Topic, deps Deps, keywords []string) base {
	return base{
		topic:    topic,
		deps:     deps,
		keywords: keywords,
		logger:   deps.Logger.With(slog.String("pipeline", string(topic))),
	}
}

func (b *base) Topic() domain.Topic { return b.topic }

// FetchEligible loads eligible markets, preferring the list cache, and
// extracts signals for each. Cache misses fall through to the store.
func (b *base) FetchEligible(ctx context.Context, venue domain.Venue, lookback time.Duration, limit int) ([]Entry, error) {
	markets, err := b.cachedList(ctx, venue)
	if err != nil || markets == nil {
		markets, err = b.deps.Markets.ListEligible(ctx, domain.EligibleQuery{
			Venue:    venue,
			Lookback: lookback,
			Keywords: b.keywords,
			Topic:    b.topic,
			Limit:    limit,
		})
		if err != nil {
			return nil, err
		}
		if b.deps.ListCache != nil {
			if cerr := b.deps.ListCache.Set(ctx, venue, b.topic, markets); cerr != nil {
				b.logger.WarnContext(ctx, "list cache set failed",
					slog.String("venue", string(venue)),
					slog.String("error", cerr.Error()),
				)
			}
		}
	}

	entries := make([]Entry, 0, len(markets))
	for _, m := range markets {
		entries = append(entries, Entry{
			Market:  m,
			Signals: b.deps.Extractor.Extract(m.Title, m.CloseTime, m.Metadata),
		})
	}
	return entries, nil
}

func (b *base) cachedList(ctx context.Context, venue domain.Venue) ([]domain.Market, error) {
	if b.deps.ListCache == nil {
		return nil, nil
	}
	markets, err := b.deps.ListCache.Get(ctx, venue, b.topic)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			b.logger.WarnContext(ctx, "list cache get failed",
				slog.String("venue", string(venue)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	return markets, nil
}
