package aws

import (
	"context"
	"fmt"
	"log/slog"
)

// Publisher copies exported files to S3.
type Publisher struct {
	client Client
	logger *slog.Logger
}

// NewPublisher creates a publisher over the given client.
func NewPublisher(client Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish verifies credentials, then uploads localPath to the object named by
// uri. The content type follows the uri's extension and runID is stored as
// object metadata.
func (p *Publisher) Publish(ctx context.Context, localPath, uri, runID string) error {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return err
	}

	id, err := p.client.Identity(ctx)
	if err != nil {
		return fmt.Errorf("verifying AWS credentials: %w", err)
	}
	p.logger.Debug("aws identity", "account", id.Account, "arn", id.ARN)

	obj := Object{
		Bucket:      bucket,
		Key:         key,
		LocalPath:   localPath,
		ContentType: ContentType(key),
		Metadata:    map[string]string{"run-id": runID},
	}
	if err := p.client.PutFile(ctx, obj); err != nil {
		return err
	}
	p.logger.Info("export published", "uri", obj.URI(), "content_type", obj.ContentType)
	return nil
}
