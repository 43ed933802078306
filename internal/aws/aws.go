// Package aws publishes exported reports to S3.
package aws

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Client is the subset of AWS operations used to publish exports.
type Client interface {
	Identity(ctx context.Context) (*CallerIdentity, error)
	PutFile(ctx context.Context, obj Object) error
}

// CallerIdentity holds AWS STS caller identity information.
type CallerIdentity struct {
	Account string
	ARN     string
	UserID  string
}

// Object describes one local file to store in S3.
type Object struct {
	Bucket      string
	Key         string
	LocalPath   string
	ContentType string
	Metadata    map[string]string
}

// URI returns the object's s3:// address.
func (o Object) URI() string {
	return "s3://" + o.Bucket + "/" + o.Key
}

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".json": "application/json",
}

// ContentType maps an export file name to its MIME type.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsS3URI reports whether s names an S3 object rather than a local file.
func IsS3URI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("s3 uri %q must name a bucket and an object key", uri)
	}
	return bucket, key, nil
}
