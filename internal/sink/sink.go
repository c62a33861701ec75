// Package sink stores the encoded calendar where subscribers can reach it:
// an S3 compatible bucket, a local directory or a plain writer.
package sink

import (
	"context"
)

// ContentType is the media type of a published feed
const ContentType = "text/calendar; charset=utf-8"

// Sink stores a published artifact under key
type Sink interface {
	Store(ctx context.Context, key string, data []byte) error
}
