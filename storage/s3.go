package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"chirper/domain"
	"chirper/errs"
)

// MaxUploadSize determines the maximum size of an image to be uploaded.
const MaxUploadSize = 5 << 20 // 5 Megabyte

// AssetService stores user images in Amazon S3 (or compatible APIs).
// Objects are keyed <prefix>/<uuid>, without a file extension, so the key of
// a stored asset can always be recovered from its URL with domain.AssetKey.
// It implements the domain.AssetService interface.
type AssetService struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	keyPrefix string
	baseURL   string
}

// NewAssetService returns an instance of AssetService using the given
// preconfigured S3 client. baseURL is the public URL under which the
// bucket's objects are reachable.
func NewAssetService(client *s3.Client, bucket, keyPrefix, baseURL string) *AssetService {
	return &AssetService{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// Ensure the AssetService struct properly implements the domain.AssetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.AssetService = &AssetService{}

// Upload decodes a base64 image payload, validates it, stores it under a
// fresh key and returns the public URL of the stored object.
func (s *AssetService) Upload(ctx context.Context, payload string) (string, error) {
	data, contentType, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	key := path.Join(s.keyPrefix, uuid.NewString())
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload asset %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Destroy removes the stored object with the given asset key.
func (s *AssetService) Destroy(ctx context.Context, assetKey string) error {
	key := path.Join(s.keyPrefix, assetKey)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("destroy asset %s: %w", key, err)
	}
	return nil
}

// decodePayload decodes a base64 image payload, with or without a data URL
// prefix, and sniffs and validates its content type and size.
func decodePayload(payload string) ([]byte, string, error) {
	raw := payload
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, "", errs.Errorf(errs.EINVALID, "Malformed image payload.")
		}
		raw = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", errs.Errorf(errs.EINVALID, "Malformed image payload.")
	}
	if len(data) > MaxUploadSize {
		return nil, "", errs.Errorf(errs.EINVALID, "Image exceeds upload size limit of %dMB.", MaxUploadSize/1000000)
	}
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return data, contentType, nil
	}
	return nil, "", errs.Errorf(errs.EINVALID, "Unsupported image type %s.", contentType)
}
