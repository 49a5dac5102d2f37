package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/newcooks/backend/config"
)

// S3ImageStore hosts uploaded images in an S3 bucket with public-read
// objects. Only the returned URL is ever persisted.
type S3ImageStore struct {
	s3cfg *config.S3Config
}

var _ ImageStore = (*S3ImageStore)(nil)

func NewS3ImageStore(s3cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3cfg: s3cfg}
}

// Upload stores the image under a fresh key and returns its public URL.
func (s *S3ImageStore) Upload(ctx context.Context, img Upload) (string, error) {
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), extensionFor(img.ContentType))

	_, err := s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3cfg.BucketName, key), nil
}

// Delete removes the hosted object behind a previously returned URL.
func (s *S3ImageStore) Delete(ctx context.Context, imageURL string) error {
	key, err := objectKeyFromURL(imageURL)
	if err != nil {
		return err
	}

	_, err = s.s3cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", key, err)
	}
	return nil
}

// objectKeyFromURL recovers the object key from a stored public URL.
func objectKeyFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", imageURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("invalid image url %q: empty object key", imageURL)
	}
	return key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
