package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"lead-backend/internal/config"
)

// ArchiveClient uploads export snapshots to an S3-compatible bucket
// (Cloudflare R2 in production). A nil client is valid and means archival is
// disabled.
type ArchiveClient struct {
	client *s3.Client
	bucket string
}

// NewArchiveClient builds the client from config. Returns nil when the
// archive bucket is not configured, which callers must tolerate.
func NewArchiveClient(cfg *config.Config) *ArchiveClient {
	ec := cfg.Export
	if ec.ArchiveBucket == "" || ec.AccessKey == "" {
		log.Println("[Storage] Export archival disabled (no bucket configured)")
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(ec.ArchiveRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ec.AccessKey, ec.SecretKey, "")),
	)
	if err != nil {
		log.Printf("[Storage] Export archival disabled: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ec.ArchiveEndpoint != "" {
			o.BaseEndpoint = &ec.ArchiveEndpoint
		}
		o.UsePathStyle = true
	})

	return &ArchiveClient{client: client, bucket: ec.ArchiveBucket}
}

// Put stores one object. Safe to call on a nil client.
func (c *ArchiveClient) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if c == nil {
		return nil
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("archive upload %s: %w", key, err)
	}
	log.Printf("[Storage] Archived %s (%d bytes)", key, len(body))
	return nil
}
