package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"object-updater/internal/objectstore"
)

// S3API is the subset of *s3.Client used by FileStore and its uploader.
type S3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type FileStore struct {
	Client   S3API
	uploader *manager.Uploader
}

type S3Config struct {
	EndpointURL  string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

func NewFileStore(ctx context.Context, conf S3Config) (*FileStore, error) {

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(conf.Region),
	}

	// fall back to the default credential chain when no static keys are given
	if conf.AccessKey != "" && conf.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	if conf.EndpointURL != "" {
		cfg.BaseEndpoint = aws.String(conf.EndpointURL)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = conf.UsePathStyle
	})

	return NewFileStoreWithClient(client), nil
}

func NewFileStoreWithClient(client S3API) *FileStore {
	return &FileStore{
		Client:   client,
		uploader: manager.NewUploader(client),
	}
}

func (fs *FileStore) Upload(ctx context.Context, body io.Reader, bucket, key, contentType string) error {

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}

	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := fs.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

func (fs *FileStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {

	result, err := fs.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("failed to download file: %w", objectstore.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)

	if err != nil {
		return nil, fmt.Errorf("failed to read object body from file: %w", err)
	}

	return body, nil

}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
