package config

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"alfredoptarigan/resume-analyzer/internal/repositories"
)

// InitLastResumeRepository picks the sink that keeps the last analyzed résumé.
func InitLastResumeRepository(ctx context.Context, cfg *Config, logger *slog.Logger) (repositories.LastResumeRepository, error) {
	switch cfg.Storage.Backend {
	case BackendFile, "":
		log.Printf("✅ Last resume stored in file %s\n", cfg.Storage.LastResumePath)
		return repositories.NewFileLastResumeRepository(cfg.Storage.LastResumePath, logger), nil
	case BackendS3:
		client, err := newS3Client(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Last resume stored in s3://%s/%s\n", cfg.Storage.S3.Bucket, cfg.Storage.S3.Key)
		return repositories.NewS3LastResumeRepository(client, cfg.Storage.S3.Bucket, cfg.Storage.S3.Key, logger), nil
	default:
		return nil, fmt.Errorf("unknown last resume backend: %s", cfg.Storage.Backend)
	}
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 backend")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// R2 and MinIO reject the default trailing checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
