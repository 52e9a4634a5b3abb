package domain

import (
	"context"
	"path"
	"strings"
)

// AssetService uploads user-provided image payloads to object storage and
// deletes them again by key. Upload takes a base64 data URL and returns the
// public URL of the stored object.
type AssetService interface {
	Upload(ctx context.Context, payload string) (string, error)
	Destroy(ctx context.Context, assetKey string) error
}

// AssetKey derives the storage key of an asset from its stored URL by
// stripping the path and the file extension.
func AssetKey(url string) string {
	base := path.Base(url)
	return strings.TrimSuffix(base, path.Ext(base))
}
