package s3photos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cat-care-console/internal/config"
	"cat-care-console/internal/ports/photos"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrBucketRequired = errors.New("photos bucket is required")

const defaultExpiry = 15 * time.Minute

type presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Signer firma PUTs directos al bucket (S3 o compatible, p.ej. MinIO).
type Signer struct {
	client presigner
	bucket string
	expiry time.Duration
	now    func() time.Time
}

var _ photos.Signer = (*Signer)(nil)

func New(ctx context.Context, cfg config.PhotosConfig) (*Signer, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// Sin claves explícitas se usa la cadena default (env, perfil, IAM role).
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newSigner(s3.NewPresignClient(client), cfg.Bucket, cfg.UploadExpiry), nil
}

func newSigner(client presigner, bucket string, expiry time.Duration) *Signer {
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	return &Signer{client: client, bucket: bucket, expiry: expiry, now: time.Now}
}

func (s *Signer) SignUpload(ctx context.Context, key, contentType string) (photos.Upload, error) {
	issued := s.now()
	req, err := s.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return photos.Upload{}, fmt.Errorf("presign put %s: %w", key, err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for k, v := range req.SignedHeader {
		// Host lo pone el cliente HTTP.
		if strings.EqualFold(k, "Host") || len(v) == 0 {
			continue
		}
		headers[k] = strings.Join(v, ",")
	}

	return photos.Upload{
		Key:       key,
		URL:       req.URL,
		Method:    req.Method,
		Headers:   headers,
		ExpiresAt: issued.Add(s.expiry),
	}, nil
}
