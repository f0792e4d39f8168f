package photos

import (
	"context"
	"time"
)

// Upload es una URL prefirmada para que el cliente suba la foto directo al storage.
type Upload struct {
	Key       string
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// Signer emite URLs de subida para fotos de gatos.
type Signer interface {
	SignUpload(ctx context.Context, key, contentType string) (Upload, error)
}
