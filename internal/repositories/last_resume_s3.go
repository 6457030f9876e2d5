package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ObjectAPI is the subset of *s3.Client the sink needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3LastResumeRepository struct {
	client ObjectAPI
	bucket string
	key    string
	logger *slog.Logger
}

func NewS3LastResumeRepository(client ObjectAPI, bucket, key string, logger *slog.Logger) LastResumeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &s3LastResumeRepository{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// Save implements LastResumeRepository.
func (r *s3LastResumeRepository) Save(ctx context.Context, record *models.LastResume) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload last resume: %w", err)
	}

	r.logger.InfoContext(ctx, "last_resume.saved", "backend", "s3", "bucket", r.bucket, "key", r.key, "bytes", len(data))
	return nil
}

// Load implements LastResumeRepository.
func (r *s3LastResumeRepository) Load(ctx context.Context) (*models.LastResume, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoLastResume
		}
		return nil, fmt.Errorf("failed to download last resume: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read last resume object: %w", err)
	}

	return decodeRecord(data)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
