package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kyphlex/web-scapers/internal/domain"
)

// Archiver writes each committed snapshot generation as one JSON object
// under snapshots/YYYY/MM/DD/<fetched-at>-<generation>.json. Objects are
// immutable once written; history retention is a bucket lifecycle concern,
// not the archiver's.
type Archiver struct {
	uploader *manager.Uploader
	bucket   string
}

// NewArchiver creates an Archiver uploading to the client's bucket.
func NewArchiver(c *Client) *Archiver {
	return &Archiver{
		uploader: manager.NewUploader(c.s3),
		bucket:   c.bucket,
	}
}

// Archive serializes snap and uploads it.
func (a *Archiver) Archive(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("s3blob: marshal snapshot %s: %w", snap.Generation, err)
	}

	key := archiveKey(snap)
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3blob: upload %s: %w", key, err)
	}
	return nil
}

func archiveKey(snap domain.Snapshot) string {
	t := snap.FetchedAt.UTC()
	return fmt.Sprintf("snapshots/%04d/%02d/%02d/%s-%s.json",
		t.Year(), t.Month(), t.Day(), t.Format(time.RFC3339), snap.Generation)
}

var _ domain.SnapshotArchiver = (*Archiver)(nil)
