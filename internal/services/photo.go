package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-connect-backend/internal/ledger"
	"campus-connect-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLExpiry = 5 * time.Minute

// ErrUploadsDisabled is returned when no S3 bucket is configured
var ErrUploadsDisabled = errors.New("photo uploads are not configured")

// S3Options configures where photo bytes are uploaded
type S3Options struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// PhotoService handles photo-related business logic. Photo bytes live in
// S3; the photo ledger only keeps the resulting URI.
type PhotoService struct {
	books    *ledger.Books
	hub      *WSHub
	s3Client *s3.Client
	s3       S3Options
}

// NewPhotoService creates a new photo service. With an empty bucket the
// service still manages the ledger but cannot issue upload URLs.
func NewPhotoService(ctx context.Context, books *ledger.Books, hub *WSHub, opts S3Options) (*PhotoService, error) {
	svc := &PhotoService{
		books: books,
		hub:   hub,
		s3:    opts,
	}
	if opts.Bucket == "" {
		return svc, nil
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return svc, nil
}

// UploadRequest represents a request to get a pre-signed URL
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoURI  string `json:"photo_uri"`
	ExpiresIn int    `json:"expires_in"`
}

// GetPreSignedURL generates a pre-signed URL for uploading a photo of an
// event. The returned PhotoURI is what the client records with AddPhoto once
// the upload finished.
func (s *PhotoService) GetPreSignedURL(ctx context.Context, deviceID, eventID, contentType string) (*UploadResponse, error) {
	if s.s3Client == nil {
		return nil, ErrUploadsDisabled
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	// Generate S3 key: {device_id}/{event_id}/{uuid}.jpg
	s3Key := fmt.Sprintf("%s/%s/%s.jpg", deviceID, eventID, uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.Bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PhotoURI:  s.objectURL(s3Key),
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

func (s *PhotoService) objectURL(key string) string {
	if s.s3.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.s3.Endpoint, "/"), s.s3.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3.Bucket, s.s3.Region, key)
}

// ListPhotos returns the photos of an event
func (s *PhotoService) ListPhotos(ctx context.Context, deviceID, eventID string) []models.Photo {
	return s.books.For(deviceID).Photos.List(ctx, eventID)
}

// AddPhoto records a photo reference for an event
func (s *PhotoService) AddPhoto(ctx context.Context, deviceID, eventID, uri, uploadedBy string) (*models.Photo, error) {
	photo, err := s.books.For(deviceID).Photos.Add(ctx, eventID, uri, uploadedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}
	s.hub.Notify(deviceID, WSMessage{Type: MsgPhotoAdded, EventID: eventID, Photo: &photo})
	return &photo, nil
}

// DeletePhoto removes a photo from an event and reports whether it existed
func (s *PhotoService) DeletePhoto(ctx context.Context, deviceID, eventID, photoID string) (bool, error) {
	removed, err := s.books.For(deviceID).Photos.Remove(ctx, eventID, photoID)
	if err != nil {
		return false, fmt.Errorf("failed to delete photo: %w", err)
	}
	if removed {
		s.hub.Notify(deviceID, WSMessage{Type: MsgPhotoDeleted, EventID: eventID, PhotoID: photoID})
	}
	return removed, nil
}
