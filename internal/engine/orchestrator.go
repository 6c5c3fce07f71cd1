// Package engine drives a matching run end to end: concurrent venue fetches,
// index build, parallel candidate evaluation, deduplication, decisions and
// idempotent link emission.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pmxlabs/venuelink/internal/domain"
	"github.com/pmxlabs/venuelink/internal/pipeline"
)

// AlgorithmVersion stamps every emitted link so stale links can be
// re-evaluated after scoring changes.
const AlgorithmVersion = "v1"

// upsertRetries is how many times a transient link write is retried before
// the item is skipped and counted.
const upsertRetries = 2

// Config bounds one matching run.
type Config struct {
	SourceVenue domain.Venue
	TargetVenue domain.Venue
	Lookback    time.Duration
	FetchLimit  int
	// Workers caps concurrent source-market evaluations. Defaults to 4.
	Workers int
	Limits  pipeline.Limits
	// DryRun skips link writes; decisions are still made and counted.
	DryRun bool
}

// Orchestrator runs topic pipelines against two venues and persists the
// resulting links.
type Orchestrator struct {
	cfg    Config
	deps   pipeline.Deps
	links  domain.LinkStore
	logger *slog.Logger
}

// New creates an Orchestrator. The link store may be nil only for dry runs.
func New(cfg Config, deps pipeline.Deps, links domain.LinkStore, logger *slog.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		links:  links,
		logger: logger.With(slog.String("component", "orchestrator")),
	}
}

// Run executes one topic's pipeline. It returns the run accounting and the
// links it decided on; a fatal fetch error aborts with the partial stats
// collected so far. Per-candidate failures are counted and skipped, never
// fatal.
func (o *Orchestrator) Run(ctx context.Context, topic domain.Topic) (domain.RunStats, []domain.MarketLink, error) {
	stats := domain.RunStats{
		RunID:       uuid.NewString(),
		SourceVenue: o.cfg.SourceVenue,
		TargetVenue: o.cfg.TargetVenue,
		Topic:       topic,
		StartedAt:   time.Now().UTC(),
	}
	logger := o.logger.With(
		slog.String("run_id", stats.RunID),
		slog.String("topic", string(topic)),
	)

	p := pipeline.ForTopic(topic, o.deps)
	if p == nil {
		stats.FinishedAt = time.Now().UTC()
		return stats, nil, fmt.Errorf("engine: no pipeline for topic %q", topic)
	}

	var sources, targets []pipeline.Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := p.FetchEligible(gctx, o.cfg.SourceVenue, o.cfg.Lookback, o.cfg.FetchLimit)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, o.cfg.SourceVenue, err)
		}
		sources = entries
		return nil
	})
	g.Go(func() error {
		entries, err := p.FetchEligible(gctx, o.cfg.TargetVenue, o.cfg.Lookback, o.cfg.FetchLimit)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, o.cfg.TargetVenue, err)
		}
		targets = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		stats.FinishedAt = time.Now().UTC()
		stats.Errors = append(stats.Errors, err.Error())
		return stats, nil, fmt.Errorf("engine: %w", err)
	}
	stats.SourceFetched = len(sources)
	stats.TargetFetched = len(targets)

	ix := p.BuildIndex(targets)
	logger.InfoContext(ctx, "index built",
		slog.Int("sources", len(sources)),
		slog.Int("targets", ix.Len()),
	)

	// Gates and scoring are pure, so source markets are evaluated in
	// parallel and merged before the single-threaded dedup pass.
	var mu sync.Mutex
	var scored []pipeline.Candidate
	eval := errgroup.Group{}
	eval.SetLimit(o.cfg.Workers)
	for _, source := range sources {
		source := source
		eval.Go(func() error {
			cands, acct := o.evaluateSource(p, source, ix)
			mu.Lock()
			scored = append(scored, cands...)
			stats.CandidatePairs += acct.pairs
			stats.GateRejected += acct.gateRejected
			stats.Scored += len(cands)
			stats.SkippedErrors += acct.skipped
			stats.Errors = append(stats.Errors, acct.errs...)
			mu.Unlock()
			return nil
		})
	}
	_ = eval.Wait()

	accepted := pipeline.Deduplicate(scored, o.cfg.Limits)
	stats.Deduplicated = len(accepted)

	links := make([]domain.MarketLink, 0, len(accepted))
	for _, c := range accepted {
		link := o.decide(p, c)
		switch link.Status {
		case domain.LinkAutoConfirmed:
			stats.AutoConfirmed++
		case domain.LinkAutoRejected:
			stats.AutoRejected++
		default:
			stats.Suggested++
		}
		if !o.cfg.DryRun {
			if err := o.upsertLink(ctx, link); err != nil {
				stats.SkippedErrors++
				stats.Errors = append(stats.Errors, err.Error())
				logger.WarnContext(ctx, "link upsert skipped",
					slog.String("source", c.Source.Market.Key()),
					slog.String("target", c.Target.Market.Key()),
					slog.String("error", err.Error()),
				)
				continue
			}
		}
		links = append(links, link)
	}

	stats.FinishedAt = time.Now().UTC()
	logger.InfoContext(ctx, "run completed",
		slog.Int("candidate_pairs", stats.CandidatePairs),
		slog.Int("gate_rejected", stats.GateRejected),
		slog.Int("scored", stats.Scored),
		slog.Int("suggested", stats.Suggested),
		slog.Int("auto_confirmed", stats.AutoConfirmed),
		slog.Int("auto_rejected", stats.AutoRejected),
		slog.Int("skipped_errors", stats.SkippedErrors),
	)
	return stats, links, nil
}

// RunAll runs the given topics in order, or every registered topic when none
// are given. It stops at the first fatal run error, returning the stats
// collected so far.
func (o *Orchestrator) RunAll(ctx context.Context, topics []domain.Topic) ([]domain.RunStats, []domain.MarketLink, error) {
	if len(topics) == 0 {
		topics = pipeline.AllTopics()
	}
	var all []domain.RunStats
	var links []domain.MarketLink
	for _, topic := range topics {
		stats, runLinks, err := o.Run(ctx, topic)
		all = append(all, stats)
		links = append(links, runLinks...)
		if err != nil {
			return all, links, err
		}
	}
	return all, links, nil
}

type evalAccount struct {
	pairs        int
	gateRejected int
	skipped      int
	errs         []string
}

// evaluateSource gates and scores every candidate for one source market.
// A panic while scoring one pair is recovered, counted and skipped.
func (o *Orchestrator) evaluateSource(p pipeline.Pipeline, source pipeline.Entry, ix *pipeline.Index) ([]pipeline.Candidate, evalAccount) {
	var acct evalAccount
	var cands []pipeline.Candidate
	for _, target := range p.FindCandidates(source, ix) {
		acct.pairs++
		gate := p.CheckHardGates(source, target)
		if !gate.Passed {
			acct.gateRejected++
			continue
		}
		result, err := safeScore(p, source, target)
		if err != nil {
			acct.skipped++
			acct.errs = append(acct.errs, fmt.Sprintf("score %s vs %s: %v",
				source.Market.Key(), target.Market.Key(), err))
			continue
		}
		cands = append(cands, pipeline.Candidate{Source: source, Target: target, Result: result})
	}
	return cands, acct
}

func safeScore(p pipeline.Pipeline, source, target pipeline.Entry) (result domain.ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Score(source, target), nil
}

// decide applies the pipeline's reject rules before its confirm rules;
// anything neither rule set claims stays a plain suggestion.
func (o *Orchestrator) decide(p pipeline.Pipeline, c pipeline.Candidate) domain.MarketLink {
	now := time.Now().UTC()
	link := domain.MarketLink{
		ID:               uuid.NewString(),
		SourceVenue:      c.Source.Market.Venue,
		SourceExternalID: c.Source.Market.ExternalID,
		TargetVenue:      c.Target.Market.Venue,
		TargetExternalID: c.Target.Market.ExternalID,
		Topic:            p.Topic(),
		Status:           domain.LinkSuggested,
		Score:            c.Result.Score,
		Tier:             c.Result.Tier,
		Confidence:       c.Result.Score,
		Reason:           c.Result.Explanation,
		AlgorithmVersion: AlgorithmVersion,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if ok, rule := p.ShouldAutoReject(c); ok {
		link.Status = domain.LinkAutoRejected
		link.Rule = rule
		return link
	}
	if ok, rule := p.ShouldAutoConfirm(c); ok {
		link.Status = domain.LinkAutoConfirmed
		link.Rule = rule
		return link
	}
	return link
}

// upsertLink writes a link, retrying transient failures a fixed number of
// times before giving up on the item.
func (o *Orchestrator) upsertLink(ctx context.Context, link domain.MarketLink) error {
	var err error
	for attempt := 0; attempt <= upsertRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
		if err = o.links.Upsert(ctx, link); err == nil {
			return nil
		}
	}
	return fmt.Errorf("upsert link %s->%s: %w", link.SourceExternalID, link.TargetExternalID, err)
}
