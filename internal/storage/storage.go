package storage

import (
	"context"
	"io"
	"time"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

type Downloader interface {
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

type Deleter interface {
	Delete(ctx context.Context, objectName string) error
}

// Store is what the document service needs from object storage.
type Store interface {
	Uploader
	Downloader
	Signer
	Deleter
}
