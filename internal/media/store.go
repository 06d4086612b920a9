package media

import (
	"context"
	"errors"
	"io"
)

var ErrNotConfigured = errors.New("image storage not configured")

// Image is a stored product image. PublicID is the key used to delete it.
type Image struct {
	URL      string
	PublicID string
}

type Store interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (Image, error)
	Delete(ctx context.Context, publicID string) error
}

// Disabled rejects uploads and ignores deletes.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, io.Reader) (Image, error) {
	return Image{}, ErrNotConfigured
}

func (Disabled) Delete(context.Context, string) error { return nil }
