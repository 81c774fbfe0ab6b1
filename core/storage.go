package core

import (
	"context"
	"io"
)

// ObjectStore persists uploaded files and serves them from deterministic public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
