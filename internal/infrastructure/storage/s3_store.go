package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/yeye/icms-api/pkg/config"
)

// S3SnapshotStore sube las capturas a un bucket S3 compatible (AWS o MinIO).
type S3SnapshotStore struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	newKey    func(userID int64, ext string) string
}

// NewS3SnapshotStore construye el cliente S3 a partir de la configuración.
// Con Endpoint definido se usa path-style, como requiere MinIO.
func NewS3SnapshotStore(ctx context.Context, cfg config.SnapshotConfig) (*S3SnapshotStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3SnapshotStore{
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
		newKey:    snapshotKey,
	}, nil
}

func snapshotKey(userID int64, ext string) string {
	return fmt.Sprintf("signin/%d/%s%s", userID, uuid.NewString(), ext)
}

// Store sube la captura y devuelve su URL pública, o s3://bucket/key sin URL pública.
func (s *S3SnapshotStore) Store(ctx context.Context, userID int64, faceImage string) (string, error) {
	if isReference(faceImage) {
		return faceImage, nil
	}
	raw, contentType, ext, err := decodeImage(faceImage)
	if err != nil {
		return "", err
	}
	key := s.newKey(userID, ext)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3: subir %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

func (s *S3SnapshotStore) objectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return "s3://" + s.bucket + "/" + key
}
