package pipeline

import (
	"io"
	"log/slog"
	"time"

	"github.com/pmxlabs/venuelink/internal/domain"
	"github.com/pmxlabs/venuelink/internal/extract"
)

var testExtractor = extract.New(extract.NewRegistry(), extract.WithClock(func() time.Time {
	return time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
}))

func testDeps() Deps {
	return Deps{
		Extractor: testExtractor,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// testEntry builds an Entry the way FetchEligible would: signals extracted
// from the live title.
func testEntry(venue domain.Venue, id, title string, topic domain.Topic, closeTime *time.Time) Entry {
	m := domain.Market{
		Venue:      venue,
		ExternalID: id,
		Title:      title,
		Topic:      topic,
		CloseTime:  closeTime,
	}
	return Entry{Market: m, Signals: testExtractor.Extract(title, closeTime, nil)}
}

func ts(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 18, 0, 0, 0, time.UTC)
	return &t
}
