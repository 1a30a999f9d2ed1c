package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	uploadURLExpiry     = 5 * time.Minute
	defaultVideoExt     = ".mp4"
	defaultVideoContent = "video/mp4"
)

// VideoStorageConfig holds the object storage settings for highlight videos
type VideoStorageConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// VideoService issues pre-signed upload URLs for highlight videos
type VideoService struct {
	presignClient *s3.PresignClient
	cfg           VideoStorageConfig
}

// NewVideoService creates a video service. Without a bucket the service is disabled
// and uploads only record caller-supplied URLs.
func NewVideoService(ctx context.Context, cfg VideoStorageConfig) (*VideoService, error) {
	if cfg.Bucket == "" {
		return &VideoService{cfg: cfg}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &VideoService{
		presignClient: s3.NewPresignClient(s3Client),
		cfg:           cfg,
	}, nil
}

// Enabled reports whether object storage is configured
func (s *VideoService) Enabled() bool {
	return s.presignClient != nil
}

// VideoUploadResponse represents the response with a pre-signed URL
type VideoUploadResponse struct {
	VideoID   string `json:"video_id"`
	UploadURL string `json:"upload_url"`
	VideoURL  string `json:"video_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload generates a pre-signed URL for uploading a video to {user_id}/{video_id}{ext}
func (s *VideoService) PresignUpload(ctx context.Context, userID, filename, contentType string) (*VideoUploadResponse, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("video storage is not configured")
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = defaultVideoExt
	}
	if contentType == "" {
		contentType = defaultVideoContent
	}

	videoID := uuid.New().String()
	key := fmt.Sprintf("%s/%s%s", userID, videoID, ext)

	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &VideoUploadResponse{
		VideoID:   videoID,
		UploadURL: request.URL,
		VideoURL:  s.objectURL(key),
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

func (s *VideoService) objectURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
