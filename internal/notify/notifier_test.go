package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlabs/venuelink/internal/domain"
)

type captureSender struct {
	name string
	sent []Notification
	err  error
}

func (c *captureSender) Send(_ context.Context, n Notification) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureSender) Name() string { return c.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStats() domain.RunStats {
	start := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	return domain.RunStats{
		RunID:         "r1",
		SourceVenue:   domain.VenueKalshi,
		TargetVenue:   domain.VenuePolymarket,
		Topic:         domain.TopicRates,
		SourceFetched: 10,
		TargetFetched: 12,
		Scored:        4,
		AutoConfirmed: 1,
		StartedAt:     start,
		FinishedAt:    start.Add(3 * time.Second),
	}
}

func TestNotifier_RunCompletedCarriesStatsAndLinks(t *testing.T) {
	sender := &captureSender{name: "capture"}
	n := NewNotifier([]Sender{sender}, nil, discardLogger())

	links := []domain.MarketLink{{
		SourceVenue:      domain.VenueKalshi,
		SourceExternalID: "K1",
		TargetVenue:      domain.VenuePolymarket,
		TargetExternalID: "P1",
		Score:            0.93,
		Status:           domain.LinkAutoConfirmed,
	}}
	require.NoError(t, n.RunCompleted(context.Background(), testStats(), links))
	require.Len(t, sender.sent, 1)

	note := sender.sent[0]
	assert.Equal(t, EventRunCompleted, note.Event)
	assert.Contains(t, note.Title, "rates")
	assert.Contains(t, note.Fields, Field{"fetched", "10/12"})
	assert.Contains(t, note.Fields, Field{"confirmed", "1"})
	require.Len(t, note.Links, 1)
	assert.Contains(t, note.Links[0], "kalshi:K1 ~ polymarket:P1")
	assert.Contains(t, note.Links[0], "0.93")
}

func TestNotifier_LinkLinesAreCapped(t *testing.T) {
	links := make([]domain.MarketLink, maxLinkLines+3)
	lines := linkLines(links)
	require.Len(t, lines, maxLinkLines+1)
	assert.Equal(t, "... and 3 more", lines[maxLinkLines])
}

func TestNotifier_EventFilter(t *testing.T) {
	sender := &captureSender{name: "capture"}
	n := NewNotifier([]Sender{sender}, []string{EventRunFailed}, discardLogger())

	require.NoError(t, n.RunCompleted(context.Background(), testStats(), nil))
	assert.Empty(t, sender.sent, "run_completed is not in the allowed set")

	require.NoError(t, n.RunFailed(context.Background(), testStats(), errors.New("boom")))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, EventRunFailed, sender.sent[0].Event)
	assert.Contains(t, sender.sent[0].Body, "boom")
}

func TestNotifier_OneFailingSenderDoesNotBlockOthers(t *testing.T) {
	bad := &captureSender{name: "bad", err: errors.New("rate limited")}
	good := &captureSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, discardLogger())

	err := n.RunCompleted(context.Background(), testStats(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: rate limited")
	assert.Len(t, good.sent, 1)
}
