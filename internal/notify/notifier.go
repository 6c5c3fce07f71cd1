// Package notify delivers run summaries to operator channels. Notifications
// are dispatched to all registered senders (Telegram, Discord) and can be
// filtered by event type.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// Event types the engine emits.
const (
	EventRunCompleted = "run_completed"
	EventRunFailed    = "run_failed"
)

// maxLinkLines bounds how many decided links a notification carries; the full
// set lives in the archive.
const maxLinkLines = 5

// Field is one labelled counter in a notification. Channels render fields in
// their own layout (inline embed fields on Discord, key/value lines on
// Telegram).
type Field struct {
	Name  string
	Value string
}

// Notification is one structured run message.
type Notification struct {
	Event  string
	Title  string
	Body   string
	Fields []Field
	// Links holds pre-formatted per-link summary lines for the run's top
	// decided links.
	Links []string
}

// Sender is the interface each notification channel implements.
type Sender interface {
	// Send delivers one notification in the channel's native format.
	Send(ctx context.Context, n Notification) error
	// Name returns a human-readable identifier for the sender.
	Name() string
}

// Notifier dispatches notifications to one or more Senders, filtered by an
// allowed event type set. An empty set allows everything.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders. Only events
// whose type appears in events are forwarded; an empty list allows all.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// RunCompleted notifies a finished run with its per-stage accounting and the
// top decided links.
func (n *Notifier) RunCompleted(ctx context.Context, stats domain.RunStats, links []domain.MarketLink) error {
	return n.Notify(ctx, Notification{
		Event: EventRunCompleted,
		Title: fmt.Sprintf("Run completed: %s (%s -> %s)", stats.Topic, stats.SourceVenue, stats.TargetVenue),
		Body:  fmt.Sprintf("duration %s", stats.FinishedAt.Sub(stats.StartedAt).Round(1e7)),
		Fields: []Field{
			{"fetched", fmt.Sprintf("%d/%d", stats.SourceFetched, stats.TargetFetched)},
			{"pairs", fmt.Sprintf("%d", stats.CandidatePairs)},
			{"gated out", fmt.Sprintf("%d", stats.GateRejected)},
			{"scored", fmt.Sprintf("%d", stats.Scored)},
			{"suggested", fmt.Sprintf("%d", stats.Suggested)},
			{"confirmed", fmt.Sprintf("%d", stats.AutoConfirmed)},
			{"rejected", fmt.Sprintf("%d", stats.AutoRejected)},
			{"errors", fmt.Sprintf("%d", stats.SkippedErrors)},
		},
		Links: linkLines(links),
	})
}

// RunFailed notifies a run aborted by a fatal error, with partial counts.
func (n *Notifier) RunFailed(ctx context.Context, stats domain.RunStats, err error) error {
	return n.Notify(ctx, Notification{
		Event: EventRunFailed,
		Title: fmt.Sprintf("Run FAILED: %s (%s -> %s)", stats.Topic, stats.SourceVenue, stats.TargetVenue),
		Body:  fmt.Sprintf("error: %v", err),
		Fields: []Field{
			{"fetched before failure", fmt.Sprintf("%d/%d", stats.SourceFetched, stats.TargetFetched)},
		},
	})
}

// linkLines formats the best-scoring links, one line each, capped.
func linkLines(links []domain.MarketLink) []string {
	lines := make([]string, 0, maxLinkLines)
	for _, l := range links {
		if len(lines) == maxLinkLines {
			lines = append(lines, fmt.Sprintf("... and %d more", len(links)-maxLinkLines))
			break
		}
		lines = append(lines, fmt.Sprintf("%s:%s ~ %s:%s  %.2f  %s",
			l.SourceVenue, l.SourceExternalID,
			l.TargetVenue, l.TargetExternalID,
			l.Score, l.Status,
		))
	}
	return lines
}

// Notify sends a notification to all senders if its event type is allowed.
func (n *Notifier) Notify(ctx context.Context, note Notification) error {
	if len(n.events) > 0 && !n.events[note.Event] {
		n.logger.DebugContext(ctx, "event filtered out",
			slog.String("event", note.Event),
		)
		return nil
	}
	return n.dispatch(ctx, note)
}

// dispatch fans out to every sender; one sender failing does not prevent
// delivery to the rest.
func (n *Notifier) dispatch(ctx context.Context, note Notification) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, note); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", note.Title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
