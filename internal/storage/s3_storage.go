package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eberechi/shopsync-backend/pkg/logger"
)

// S3Storage uploads generated report files to an S3 bucket so shop owners
// can reach them from outside the shop network.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Upload stores the file under key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Failed to upload file to S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.Info("File uploaded to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   len(data),
	})
	return s.FileURL(key), nil
}

// FileURL returns the public URL for an uploaded key.
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
