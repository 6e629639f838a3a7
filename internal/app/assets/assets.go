package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/shopora/go-shop-backend/internal/app/config"
	"github.com/shopora/go-shop-backend/internal/app/entity"
)

const defaultContentType = "image/jpeg"

// Store keeps image assets in an S3-compatible bucket.
type Store interface {
	Upload(ctx context.Context, folder, payload string) (entity.Image, error)
	Remove(ctx context.Context, objectID string) error
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(config config.Config) (*MinioStore, error) {
	client, err := minio.New(config.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.MinioAccessKey, config.MinioSecretKey, ""),
		Secure: config.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, config.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("error while checking bucket %s: %w", config.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error while creating bucket %s: %w", config.MinioBucket, err)
		}
	}

	return &MinioStore{
		client: client,
		bucket: config.MinioBucket,
	}, nil
}

// Upload accepts a raw or data-URL base64 image payload and stores it
// under a generated object name inside the folder.
func (s *MinioStore) Upload(ctx context.Context, folder, payload string) (entity.Image, error) {
	contentType, data, err := decodePayload(payload)
	if err != nil {
		return entity.Image{}, err
	}

	objectID := fmt.Sprintf("%s/%s", folder, uuid.NewString())

	_, err = s.client.PutObject(ctx, s.bucket, objectID, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return entity.Image{}, fmt.Errorf("error while uploading object %s: %w", objectID, err)
	}

	return entity.Image{
		ObjectID: objectID,
		URL:      fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, objectID),
	}, nil
}

func (s *MinioStore) Remove(ctx context.Context, objectID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectID, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("error while removing object %s: %w", objectID, err)
	}

	return nil
}

func decodePayload(payload string) (string, []byte, error) {
	contentType := defaultContentType

	if strings.HasPrefix(payload, "data:") {
		rest := strings.TrimPrefix(payload, "data:")
		parts := strings.SplitN(rest, ";base64,", 2)
		if len(parts) != 2 {
			return "", nil, fmt.Errorf("image payload has malformed data url")
		}

		contentType = parts[0]
		payload = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("error while decoding image payload: %w", err)
	}

	return contentType, data, nil
}
