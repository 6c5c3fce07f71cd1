package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// RunnerConfig bounds one validation pass.
type RunnerConfig struct {
	// MinScore is the floor below which suggested links are not worth a
	// validator call.
	MinScore float64
	// BatchSize is how many links are validated between limiter waits.
	BatchSize int
	// RatePerMinute caps validator calls; the limiter spaces batches out.
	RatePerMinute int
	MaxLinks      int
}

// Runner drives the external validator over recently suggested links and
// applies the verdicts. Per-item failures are recorded and skipped; only a
// store listing failure aborts the pass.
type Runner struct {
	cfg       RunnerConfig
	links     domain.LinkStore
	markets   domain.MarketStore
	validator domain.LinkValidator
	budget    domain.ValidationBudget // optional
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewRunner creates a Runner. budget may be nil when no daily cap applies.
func NewRunner(cfg RunnerConfig, links domain.LinkStore, markets domain.MarketStore, v domain.LinkValidator, budget domain.ValidationBudget, logger *slog.Logger) *Runner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 30
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = 0.6
	}
	return &Runner{
		cfg:       cfg,
		links:     links,
		markets:   markets,
		validator: v,
		budget:    budget,
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), cfg.BatchSize),
		logger:    logger.With(slog.String("component", "validator_runner")),
	}
}

// Report is the accounting of one validation pass.
type Report struct {
	Examined  int
	Validated int
	Confirmed int
	Demoted   int
	Uncertain int
	Skipped   int
	Errors    []string
}

// Run validates suggested links above the score floor. Confirms promote the
// link; rejects demote it to manual review; uncertain verdicts leave the
// status untouched.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var report Report

	suggested, err := r.links.ListByStatus(ctx, domain.LinkSuggested, r.cfg.MaxLinks)
	if err != nil {
		return report, fmt.Errorf("validator: list suggested links: %w", err)
	}
	report.Examined = len(suggested)

	for _, link := range suggested {
		if link.Score < r.cfg.MinScore {
			report.Skipped++
			continue
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return report, err
		}
		if r.budget != nil {
			ok, err := r.budget.Spend(ctx, 1)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("budget: %v", err))
				report.Skipped++
				continue
			}
			if !ok {
				r.logger.InfoContext(ctx, "daily validation budget exhausted",
					slog.Int("validated", report.Validated))
				report.Skipped += countRemaining(suggested, link)
				return report, nil
			}
		}

		if err := r.validateOne(ctx, link, &report); err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}
	return report, nil
}

func (r *Runner) validateOne(ctx context.Context, link domain.MarketLink, report *Report) error {
	sourceTitle := r.resolveTitle(ctx, link.SourceVenue, link.SourceExternalID)
	targetTitle := r.resolveTitle(ctx, link.TargetVenue, link.TargetExternalID)

	result, err := r.validator.Validate(ctx, sourceTitle, targetTitle)
	report.Validated++
	if err != nil {
		report.Uncertain++
		return fmt.Errorf("validate link %s: %w", link.ID, err)
	}

	switch result.Verdict {
	case domain.VerdictConfirm:
		if err := r.links.UpdateStatus(ctx, link.ID, domain.LinkAutoConfirmed,
			"validator_confirm", "external validator confirmed", result.Confidence); err != nil {
			return fmt.Errorf("promote link %s: %w", link.ID, err)
		}
		report.Confirmed++
	case domain.VerdictReject:
		// A validator reject demotes to manual review rather than hard
		// auto-rejecting; only the engine's own semantic conflicts do that.
		if err := r.links.UpdateStatus(ctx, link.ID, domain.LinkPendingReview,
			"validator_reject", "external validator rejected", result.Confidence); err != nil {
			return fmt.Errorf("demote link %s: %w", link.ID, err)
		}
		report.Demoted++
	default:
		report.Uncertain++
	}
	return nil
}

// resolveTitle looks up a market's title, falling back to the venue-native id
// when the market is no longer stored.
func (r *Runner) resolveTitle(ctx context.Context, venue domain.Venue, externalID string) string {
	m, err := r.markets.GetByExternalID(ctx, venue, externalID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.WarnContext(ctx, "market lookup failed",
				slog.String("market", string(venue)+":"+externalID),
				slog.String("error", err.Error()),
			)
		}
		return externalID
	}
	return m.Title
}

func countRemaining(links []domain.MarketLink, from domain.MarketLink) int {
	for i, l := range links {
		if l.ID == from.ID {
			return len(links) - i
		}
	}
	return 0
}
