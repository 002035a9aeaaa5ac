// Package archive writes deleted lead records to S3 for retention.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// LeadRecord is the archived snapshot of a lead at deletion time.
type LeadRecord struct {
	Lead       *leads.Lead `json:"lead"`
	ArchivedAt time.Time   `json:"archived_at"`
}

// Store archives lead records to S3 before deletion.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewStore creates an archive Store. If bucket is empty, all operations are no-ops.
func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled returns true if archival is configured (bucket is set).
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// ArchiveLead writes the lead snapshot as JSON to a date-partitioned key.
func (s *Store) ArchiveLead(ctx context.Context, lead *leads.Lead) error {
	if !s.Enabled() {
		return nil
	}

	now := time.Now().UTC()
	record := LeadRecord{Lead: lead, ArchivedAt: now}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("archive: marshal record: %w", err)
	}

	s3Key := fmt.Sprintf("leads/v1/by-date/%d/%02d/%02d/%s.json",
		now.Year(), now.Month(), now.Day(), lead.ID)

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", s3Key, err)
	}

	s.logger.Info("archived lead to S3", "lead_id", lead.ID, "s3_key", s3Key)
	return nil
}
