// Package app wires configuration into concrete dependencies and runs the
// CLI subcommands against them.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/pmxlabs/venuelink/internal/classify"
	"github.com/pmxlabs/venuelink/internal/config"
	"github.com/pmxlabs/venuelink/internal/domain"
	"github.com/pmxlabs/venuelink/internal/engine"
	"github.com/pmxlabs/venuelink/internal/pipeline"
	"github.com/pmxlabs/venuelink/internal/validator"
)

// App executes CLI subcommands against the wired dependencies.
type App struct {
	cfg    *config.Config
	deps   *Dependencies
	logger *slog.Logger
	out    io.Writer
}

// New creates an App writing its reports to stdout.
func New(cfg *config.Config, deps *Dependencies, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With(slog.String("component", "app")),
		out:    os.Stdout,
	}
}

// MatchOptions are the `match` subcommand flags. Zero values fall back to the
// configured engine defaults.
type MatchOptions struct {
	SourceVenue string
	TargetVenue string
	// Topic restricts the run to one topic; empty runs every configured topic.
	Topic    string
	Lookback time.Duration
	// Threshold is the score floor for links shown in the report table.
	Threshold float64
	// Apply persists link decisions; without it the run is a dry run.
	Apply bool
}

// Match runs the linking engine for the requested topics, reports per-stage
// counts, and archives and notifies the outcome when those collaborators are
// configured. The returned error is the first fatal run error, after
// reporting whatever completed.
func (a *App) Match(ctx context.Context, opts MatchOptions) error {
	source, target, err := a.resolveVenues(opts.SourceVenue, opts.TargetVenue)
	if err != nil {
		return err
	}
	topics, err := a.resolveTopics(opts.Topic)
	if err != nil {
		return err
	}
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = a.cfg.Engine.Lookback.Duration
	}

	orc := engine.New(engine.Config{
		SourceVenue: source,
		TargetVenue: target,
		Lookback:    lookback,
		FetchLimit:  a.cfg.Engine.FetchLimit,
		Workers:     a.cfg.Engine.Workers,
		Limits: pipeline.Limits{
			MaxPerSource: a.cfg.Engine.MaxPerSource,
			MaxPerTarget: a.cfg.Engine.MaxPerTarget,
			MinWinnerGap: a.cfg.Engine.MinWinnerGap,
		},
		DryRun: !opts.Apply,
	}, a.pipelineDeps(), a.deps.LinkStore, a.logger)

	allStats, links, runErr := orc.RunAll(ctx, topics)

	for i, stats := range allStats {
		failed := runErr != nil && i == len(allStats)-1
		a.report(ctx, stats, linksForTopic(links, stats.Topic), failed, runErr)
	}

	a.printRunTable(allStats)
	a.printLinkTable(links, opts.Threshold)
	if !opts.Apply {
		fmt.Fprintln(a.out, "dry run: no links were written (use -apply to persist)")
	}

	if runErr != nil {
		return fmt.Errorf("app: match: %w", runErr)
	}
	return nil
}

// report archives one run and sends its completion or failure notification.
// Reporting failures are logged, never fatal.
func (a *App) report(ctx context.Context, stats domain.RunStats, links []domain.MarketLink, failed bool, runErr error) {
	if a.deps.Archiver != nil {
		if err := a.deps.Archiver.Archive(ctx, stats, links); err != nil {
			a.logger.WarnContext(ctx, "run archive failed",
				slog.String("run_id", stats.RunID),
				slog.String("error", err.Error()),
			)
		}
	}
	var err error
	if failed {
		err = a.deps.Notifier.RunFailed(ctx, stats, runErr)
	} else {
		err = a.deps.Notifier.RunCompleted(ctx, stats, links)
	}
	if err != nil {
		a.logger.WarnContext(ctx, "run notification failed",
			slog.String("run_id", stats.RunID),
			slog.String("error", err.Error()),
		)
	}
}

// Classify resolves one title to a topic and prints the decision. Venue and
// category are optional hints.
func (a *App) Classify(ctx context.Context, venue, title, category string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("app: classify: title is required")
	}

	cls := a.deps.Classifier.Classify(classify.Input{
		Venue:    domain.Venue(venue),
		Title:    title,
		Category: category,
	})
	signals := a.deps.Extractor.Extract(title, nil, nil)

	table := tablewriter.NewWriter(a.out)
	table.Header("Field", "Value")
	table.Append("Topic", string(cls.Topic))
	table.Append("Confidence", fmt.Sprintf("%.2f", cls.Confidence))
	table.Append("Source", string(cls.Source))
	table.Append("Reason", cls.Reason)
	table.Append("Entities", strings.Join(allEntities(signals), ", "))
	table.Append("Numbers", formatNumbers(signals.Numbers))
	table.Append("Comparator", string(signals.Comparator))
	table.Render()
	return nil
}

// Sync refreshes both venues' open markets into the store, classifying each
// market's topic on the way in. Kalshi series metadata is upserted alongside.
func (a *App) Sync(ctx context.Context) error {
	maxMarkets := a.cfg.Engine.SyncMaxMarkets

	kalshiCount, seriesCount, err := a.syncKalshi(ctx, maxMarkets)
	if err != nil {
		return fmt.Errorf("app: sync kalshi: %w", err)
	}
	polyCount, err := a.syncPolymarket(ctx, maxMarkets)
	if err != nil {
		return fmt.Errorf("app: sync polymarket: %w", err)
	}

	table := tablewriter.NewWriter(a.out)
	table.Header("Venue", "Markets", "Series")
	table.Append("kalshi", fmt.Sprintf("%d", kalshiCount), fmt.Sprintf("%d", seriesCount))
	table.Append("polymarket", fmt.Sprintf("%d", polyCount), "-")
	table.Render()
	return nil
}

// fetchRetries bounds the extra attempts made when a venue listing fails.
const fetchRetries = 2

// listWithRetry retries a venue market listing on transient failures with a
// short linear backoff.
func listWithRetry(ctx context.Context, fetch func(context.Context) ([]domain.Market, error)) ([]domain.Market, error) {
	var lastErr error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
		list, err := fetch(ctx)
		if err == nil {
			return list, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (a *App) syncKalshi(ctx context.Context, maxMarkets int) (markets, series int, err error) {
	list, err := listWithRetry(ctx, func(ctx context.Context) ([]domain.Market, error) {
		return a.deps.Kalshi.ListOpenMarkets(ctx, maxMarkets)
	})
	if err != nil {
		return 0, 0, err
	}

	seriesTickers := make(map[string]struct{})
	for _, m := range list {
		if err := a.upsertClassified(ctx, m); err != nil {
			return markets, series, err
		}
		markets++
		if t := m.Tag("series_ticker"); t != "" {
			seriesTickers[t] = struct{}{}
		}
	}

	for ticker := range seriesTickers {
		s, err := a.lookupKalshiSeries(ctx, ticker)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			a.logger.WarnContext(ctx, "series sync failed",
				slog.String("ticker", ticker),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := a.deps.SeriesStore.Upsert(ctx, s); err != nil {
			return markets, series, err
		}
		series++
	}
	return markets, series, nil
}

// lookupKalshiSeries goes through the cache when one is wired.
func (a *App) lookupKalshiSeries(ctx context.Context, ticker string) (domain.Series, error) {
	if a.deps.SeriesCache != nil {
		if s, err := a.deps.SeriesCache.Get(ctx, domain.VenueKalshi, ticker); err == nil {
			return s, nil
		}
	}
	ks, err := a.deps.Kalshi.GetSeries(ctx, ticker)
	if err != nil {
		return domain.Series{}, err
	}
	s := ks.ToDomain()
	if a.deps.SeriesCache != nil {
		if err := a.deps.SeriesCache.Set(ctx, s); err != nil {
			a.logger.WarnContext(ctx, "series cache write failed",
				slog.String("ticker", ticker),
				slog.String("error", err.Error()),
			)
		}
	}
	return s, nil
}

func (a *App) syncPolymarket(ctx context.Context, maxMarkets int) (int, error) {
	list, err := listWithRetry(ctx, func(ctx context.Context) ([]domain.Market, error) {
		return a.deps.Gamma.ListOpenMarkets(ctx, maxMarkets)
	})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range list {
		if err := a.upsertClassified(ctx, m); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// upsertClassified stamps the market's topic before writing it.
func (a *App) upsertClassified(ctx context.Context, m domain.Market) error {
	cls := a.deps.Classifier.Classify(classify.Input{
		Venue:    m.Venue,
		Title:    m.Title,
		Category: m.Category,
		Ticker:   m.Tag("series_ticker"),
		Tags:     splitTags(m.Tag("tags")),
	})
	m.Topic = cls.Topic
	return a.deps.MarketStore.Upsert(ctx, m)
}

// Validate runs the external validator over recently suggested links.
func (a *App) Validate(ctx context.Context) error {
	if a.deps.Validator == nil {
		return errors.New("app: validate: validator is not enabled in config")
	}

	runner := validator.NewRunner(validator.RunnerConfig{
		MinScore:      a.cfg.Validator.MinScore,
		BatchSize:     a.cfg.Validator.BatchSize,
		RatePerMinute: a.cfg.Validator.RatePerMinute,
		MaxLinks:      a.cfg.Validator.MaxLinks,
	}, a.deps.LinkStore, a.deps.MarketStore, a.deps.Validator, a.deps.ValidationBudget, a.logger)

	report, err := runner.Run(ctx)

	table := tablewriter.NewWriter(a.out)
	table.Header("Examined", "Validated", "Confirmed", "Demoted", "Uncertain", "Skipped", "Errors")
	table.Append(
		fmt.Sprintf("%d", report.Examined),
		fmt.Sprintf("%d", report.Validated),
		fmt.Sprintf("%d", report.Confirmed),
		fmt.Sprintf("%d", report.Demoted),
		fmt.Sprintf("%d", report.Uncertain),
		fmt.Sprintf("%d", report.Skipped),
		fmt.Sprintf("%d", len(report.Errors)),
	)
	table.Render()

	for _, msg := range report.Errors {
		fmt.Fprintf(a.out, "error: %s\n", msg)
	}
	if err != nil {
		return fmt.Errorf("app: validate: %w", err)
	}
	return nil
}

func (a *App) pipelineDeps() pipeline.Deps {
	return pipeline.Deps{
		Markets:   a.deps.MarketStore,
		ListCache: a.deps.MarketListCache,
		Extractor: a.deps.Extractor,
		Logger:    a.logger,
	}
}

func (a *App) resolveVenues(source, target string) (domain.Venue, domain.Venue, error) {
	if source == "" {
		source = a.cfg.Engine.SourceVenue
	}
	if target == "" {
		target = a.cfg.Engine.TargetVenue
	}
	sv, tv := domain.Venue(source), domain.Venue(target)
	for _, v := range []domain.Venue{sv, tv} {
		if v != domain.VenueKalshi && v != domain.VenuePolymarket {
			return "", "", fmt.Errorf("app: unknown venue %q", v)
		}
	}
	if sv == tv {
		return "", "", fmt.Errorf("app: source and target venue must differ, both %q", sv)
	}
	return sv, tv, nil
}

func (a *App) resolveTopics(topic string) ([]domain.Topic, error) {
	if topic != "" {
		t := domain.Topic(topic)
		if !knownTopic(t) {
			return nil, fmt.Errorf("app: no pipeline for topic %q", topic)
		}
		return []domain.Topic{t}, nil
	}
	if len(a.cfg.Engine.Topics) > 0 {
		topics := make([]domain.Topic, 0, len(a.cfg.Engine.Topics))
		for _, s := range a.cfg.Engine.Topics {
			t := domain.Topic(s)
			if !knownTopic(t) {
				return nil, fmt.Errorf("app: no pipeline for configured topic %q", s)
			}
			topics = append(topics, t)
		}
		return topics, nil
	}
	return pipeline.AllTopics(), nil
}

func knownTopic(t domain.Topic) bool {
	for _, known := range pipeline.AllTopics() {
		if t == known {
			return true
		}
	}
	return false
}

func (a *App) printRunTable(allStats []domain.RunStats) {
	table := tablewriter.NewWriter(a.out)
	table.Header("Topic", "Src", "Tgt", "Pairs", "Gated", "Scored", "Dedup", "Suggested", "Confirmed", "Rejected", "Skipped")
	for _, s := range allStats {
		table.Append(
			string(s.Topic),
			fmt.Sprintf("%d", s.SourceFetched),
			fmt.Sprintf("%d", s.TargetFetched),
			fmt.Sprintf("%d", s.CandidatePairs),
			fmt.Sprintf("%d", s.GateRejected),
			fmt.Sprintf("%d", s.Scored),
			fmt.Sprintf("%d", s.Deduplicated),
			fmt.Sprintf("%d", s.Suggested),
			fmt.Sprintf("%d", s.AutoConfirmed),
			fmt.Sprintf("%d", s.AutoRejected),
			fmt.Sprintf("%d", s.SkippedErrors),
		)
	}
	table.Render()
}

func (a *App) printLinkTable(links []domain.MarketLink, threshold float64) {
	shown := 0
	table := tablewriter.NewWriter(a.out)
	table.Header("Topic", "Source", "Target", "Score", "Tier", "Status", "Rule")
	for _, l := range links {
		if l.Score < threshold {
			continue
		}
		table.Append(
			string(l.Topic),
			l.SourceExternalID,
			l.TargetExternalID,
			fmt.Sprintf("%.3f", l.Score),
			string(l.Tier),
			string(l.Status),
			l.Rule,
		)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "no links above threshold")
		return
	}
	table.Render()
}

func linksForTopic(links []domain.MarketLink, topic domain.Topic) []domain.MarketLink {
	var out []domain.MarketLink
	for _, l := range links {
		if l.Topic == topic {
			out = append(out, l)
		}
	}
	return out
}

func allEntities(s domain.Signals) []string {
	out := make([]string, 0, len(s.Teams)+len(s.People)+len(s.Organizations))
	out = append(out, s.Teams...)
	out = append(out, s.People...)
	out = append(out, s.Organizations...)
	return out
}

func formatNumbers(nums []domain.NumberValue) string {
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, fmt.Sprintf("%g %s", n.Value, n.Unit))
	}
	return strings.Join(parts, ", ")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
