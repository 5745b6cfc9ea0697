package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"zync-server/backroom-api/internal/config"
	"zync-server/backroom-api/internal/infrastructure/metrics"
)

const (
	getRetryAttempts = 3
	getRetryDelay    = 500 * time.Millisecond
)

// S3Store persists JSON documents in an S3-compatible bucket (Cloudflare R2
// in production).
type S3Store struct {
	bucket string
	client *s3.Client
	log    zerolog.Logger
}

// NewS3Store builds the bucket-backed store from configuration.
func NewS3Store(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Store, error) {
	logger := log.With().Str("component", "s3-store").Logger()

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.StorageEndpoint != "" {
			return aws.Endpoint{
				URL:           cfg.StorageEndpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.StorageRegion,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.StorageAccessKeyID, cfg.StorageSecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.StorageUsePathStyle
	})

	return &S3Store{
		bucket: strings.TrimSpace(cfg.StorageBucket),
		client: client,
		log:    logger,
	}, nil
}

// GetJSON reads and decodes the document at key. Transient bucket-side
// failures are retried a few times with a growing delay before giving up.
func (s *S3Store) GetJSON(ctx context.Context, key string, out any) error {
	var lastErr error
	for attempt := 0; attempt < getRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(getRetryDelay * time.Duration(attempt)):
			}
		}

		err := s.getJSONOnce(ctx, key, out)
		if err == nil {
			metrics.StorageOperationsTotal.WithLabelValues("get", "ok").Inc()
			return nil
		}
		if errors.Is(err, ErrNotFound) {
			metrics.StorageOperationsTotal.WithLabelValues("get", "not_found").Inc()
			return err
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		s.log.Warn().Err(err).Str("key", key).Int("attempt", attempt+1).Msg("transient storage read failure")
	}
	metrics.StorageOperationsTotal.WithLabelValues("get", "error").Inc()
	return lastErr
}

func (s *S3Store) getJSONOnce(ctx context.Context, key string, out any) error {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("get object %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read object %s: %w", key, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid JSON in object %s: %w", key, err)
	}
	return nil
}

// PutJSON overwrites the document at key with the JSON encoding of value.
func (s *S3Store) PutJSON(ctx context.Context, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		metrics.StorageOperationsTotal.WithLabelValues("put", "error").Inc()
		return fmt.Errorf("marshal object %s: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		metrics.StorageOperationsTotal.WithLabelValues("put", "error").Inc()
		return fmt.Errorf("put object %s: %w", key, err)
	}
	metrics.StorageOperationsTotal.WithLabelValues("put", "ok").Inc()
	return nil
}

// List returns one page of keys under prefix.
func (s *S3Store) List(ctx context.Context, prefix string, limit int32, cursor, delimiter string) (*ListResult, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(limit),
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}

	resp, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		metrics.StorageOperationsTotal.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("list objects %s: %w", prefix, err)
	}

	result := &ListResult{}
	for _, obj := range resp.Contents {
		if obj.Key == nil || *obj.Key == "" {
			continue
		}
		info := ObjectInfo{Key: *obj.Key}
		if obj.LastModified != nil {
			info.LastModified = obj.LastModified.Unix()
		}
		result.Objects = append(result.Objects, info)
	}
	if resp.NextContinuationToken != nil {
		result.NextCursor = *resp.NextContinuationToken
	}
	metrics.StorageOperationsTotal.WithLabelValues("list", "ok").Inc()
	return result, nil
}

// Health performs a HeadBucket request.
func (s *S3Store) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

func isTransient(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InternalError", "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return true
		}
	}
	return false
}

var _ ObjectStore = (*S3Store)(nil)
