package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ErrInvalidImage reports an unparseable image payload.
var ErrInvalidImage = errors.New("invalid image payload")

// ImageService stores recipe images submitted as base64 payloads.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadBase64 decodes a data-URI or bare base64 image, stores it and
// returns the public URL. The caller treats the URL as an opaque reference.
func (s *ImageService) UploadBase64(ctx context.Context, payload string) (string, error) {
	contentType := "image/png"
	ext := "png"

	// Accept "data:image/<type>;base64,<data>" as the frontend sends it.
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return "", ErrInvalidImage
		}
		meta := parts[0]
		payload = parts[1]
		if strings.Contains(meta, "image/jpeg") {
			contentType, ext = "image/jpeg", "jpg"
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	return s.upload(ctx, data, key, contentType)
}

func (s *ImageService) upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.s3Config.ObjectURL(key)
	log.Printf("[ImageService] Stored image at %s", url)
	return url, nil
}
