package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pmxlabs/venuelink/internal/domain"
)

// RunArchiver uploads completed run reports as JSON objects under
// runs/{yyyy-mm-dd}/{run_id}.json.
type RunArchiver struct {
	client *s3.Client
	bucket string
}

// NewRunArchiver creates a RunArchiver writing to the client's bucket.
func NewRunArchiver(c *Client) *RunArchiver {
	return &RunArchiver{
		client: c.S3(),
		bucket: c.Bucket(),
	}
}

// RunReport is the archived form of one engine run: the stage accounting plus
// every link decision the run emitted.
type RunReport struct {
	Stats domain.RunStats     `json:"stats"`
	Links []domain.MarketLink `json:"links"`
}

// Archive serializes and uploads one run report. The object key is derived
// from the run's start date and id, so re-archiving the same run overwrites
// rather than accumulates.
func (a *RunArchiver) Archive(ctx context.Context, stats domain.RunStats, links []domain.MarketLink) error {
	report := RunReport{Stats: stats, Links: links}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("s3blob: marshal run report %s: %w", stats.RunID, err)
	}

	key := fmt.Sprintf("runs/%s/%s.json", stats.StartedAt.UTC().Format("2006-01-02"), stats.RunID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3blob: archive run %s: %w", stats.RunID, err)
	}
	return nil
}
