package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/mintleaf/mintleaf-backend/internal/config"
)

// S3ReceiptRepository implements ObjectRepository using AWS S3
type S3ReceiptRepository struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	region    string
	endpoint  string
}

// NewS3ReceiptRepository creates a new S3 receipt repository
func NewS3ReceiptRepository(ctx context.Context, s3cfg cfg.S3Config) (*S3ReceiptRepository, error) {
	// Build AWS config options
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}

	// Add credentials if provided
	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional endpoint override for MinIO/LocalStack
	var client *s3.Client
	if s3cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	repo := &S3ReceiptRepository{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    s3cfg.Bucket,
		region:    s3cfg.Region,
		endpoint:  s3cfg.Endpoint,
	}

	// Verify connectivity by checking if bucket exists (don't create public policy)
	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// ensureBucket creates the bucket if it doesn't exist (NO public policy - private bucket)
func (r *S3ReceiptRepository) ensureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err == nil {
		return nil // Bucket exists and we have access
	}

	// Check if it's a "not found" error vs permission/other error
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		var noSuchBucket *types.NoSuchBucket
		if !errors.As(err, &noSuchBucket) {
			return fmt.Errorf("failed to check bucket (may be permission denied): %w", err)
		}
	}

	_, err = r.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Upload uploads data to S3 storage and returns the object URL
func (r *S3ReceiptRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	// If size is unknown, read all data into memory
	var body io.Reader = data
	if size < 0 {
		buf, err := io.ReadAll(data)
		if err != nil {
			return "", fmt.Errorf("failed to read data: %w", err)
		}
		size = int64(len(buf))
		body = bytes.NewReader(buf)
	}

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(objectPath),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return r.GenerateURL(objectPath), nil
}

// Delete removes an object from S3 storage
func (r *S3ReceiptRepository) Delete(ctx context.Context, objectPath string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteByURL extracts the object path from a URL and deletes the object
func (r *S3ReceiptRepository) DeleteByURL(ctx context.Context, objectURL string) error {
	objectPath := r.extractObjectPath(objectURL)
	if objectPath == "" {
		return nil // Nothing to delete
	}
	return r.Delete(ctx, objectPath)
}

// extractObjectPath extracts the object path from a full URL
func (r *S3ReceiptRepository) extractObjectPath(objectURL string) string {
	prefix := r.GenerateURL("")
	if strings.HasPrefix(objectURL, prefix) {
		return objectURL[len(prefix):]
	}
	return ""
}

// GenerateURL generates a public URL for an object
func (r *S3ReceiptRepository) GenerateURL(objectPath string) string {
	if r.endpoint != "" {
		// Path-style URL for MinIO/LocalStack
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(r.endpoint, "/"), r.bucket, objectPath)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.bucket, r.region, objectPath)
}

// GeneratePresignedURL generates a presigned GET URL for temporary access
func (r *S3ReceiptRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	presignedReq, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectPath),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedReq.URL, nil
}

var _ ObjectRepository = (*S3ReceiptRepository)(nil)
