package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forkfeed/backend/config"
	"github.com/forkfeed/backend/internal/errs"
)

// ImageService stores recipe images in S3. Write payloads may carry the
// image either as an already-hosted URL (passed through untouched) or
// as a base64 data URI, which is decoded and uploaded.
type ImageService struct {
	s3Config *config.S3Config
	log      zerolog.Logger
}

func NewImageService(s3Config *config.S3Config, log zerolog.Logger) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		log:      log.With().Str("service", "image").Logger(),
	}
}

// Resolve turns the image field of a recipe payload into a stored URL.
// Empty input stays empty, http(s) URLs pass through, data URIs are
// uploaded. Anything else is rejected.
func (s *ImageService) Resolve(ctx context.Context, image string) (string, error) {
	switch {
	case image == "":
		return "", nil
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image, nil
	case strings.HasPrefix(image, "data:image/"):
		return s.uploadDataURI(ctx, image)
	default:
		return "", errs.Validation("image must be a URL or a base64 data URI")
	}
}

func (s *ImageService) uploadDataURI(ctx context.Context, dataURI string) (string, error) {
	if s.s3Config == nil {
		return "", errs.Validation("image uploads are not enabled")
	}

	meta, encoded, found := strings.Cut(dataURI, ",")
	if !found {
		return "", errs.Validation("malformed image data URI")
	}

	ext := "png"
	if rest, ok := strings.CutPrefix(meta, "data:image/"); ok {
		if sub, _, _ := strings.Cut(rest, ";"); sub != "" {
			ext = sub
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errs.Validation("image payload is not valid base64")
	}

	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	return s.uploadToS3(ctx, data, fileName, "image/"+ext)
}

// uploadToS3 uploads image data and returns the public URL.
func (s *ImageService) uploadToS3(ctx context.Context, imageData []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	s.log.Info().Str("url", publicURL).Msg("uploaded image to S3")
	return publicURL, nil
}
