package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/sethvargo/go-retry"
)

// ObjectAPI is the subset of *s3.Client the S3 backend needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds a path-style client suitable for MinIO as well as AWS.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// s3Object is the JSON document stored per user. A deleted template stays
// behind as a tombstone so its version is never issued again.
type s3Object struct {
	UserID     string                `json:"user_id"`
	Descriptor biometrics.Descriptor `json:"descriptor"`
	Version    int64                 `json:"version"`
	Deleted    bool                  `json:"deleted,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

const (
	writeAttempts = 3
	writeBackoff  = 10 * time.Millisecond
)

// S3Repository keeps one object per user under templates/. Every write is
// conditional on the ETag read just before it (or on absence), so two
// writers can never both land on top of the same state.
type S3Repository struct {
	api    ObjectAPI
	bucket string
	now    func() time.Time
}

func NewS3Repository(api ObjectAPI, bucket string) *S3Repository {
	return &S3Repository{api: api, bucket: bucket, now: time.Now}
}

func objectKey(userID string) string {
	return fmt.Sprintf("templates/%s.json", userID)
}

func (r *S3Repository) Get(ctx context.Context, userID string) (*models.Template, error) {
	obj, _, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if obj.Deleted {
		return nil, common.ErrorNotFound
	}
	return obj.template(), nil
}

// loadAny returns the stored object, tombstones included. A missing object
// yields nil with an empty etag.
func (r *S3Repository) loadAny(ctx context.Context, userID string) (*s3Object, string, error) {
	obj, etag, err := r.load(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, "", nil
	}
	return obj, etag, err
}

// rewrite reads the current object, lets mutate build the replacement and
// stores it conditionally. Lost races are retried from a fresh read.
func (r *S3Repository) rewrite(ctx context.Context, userID string, mutate func(prev *s3Object) (*s3Object, error)) (*s3Object, error) {
	var written *s3Object
	b := retry.WithMaxRetries(writeAttempts-1, retry.NewConstant(writeBackoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		prev, etag, err := r.loadAny(ctx, userID)
		if err != nil {
			return err
		}
		next, err := mutate(prev)
		if err != nil || next == nil {
			written = nil
			return err
		}
		if err := r.store(ctx, next, etag); err != nil {
			if isConditionFailed(err) {
				return retry.RetryableError(fmt.Errorf("%w: object changed concurrently", common.ErrVersionConflict))
			}
			return err
		}
		written = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

func (r *S3Repository) Put(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error) {
	obj, err := r.rewrite(ctx, userID, func(prev *s3Object) (*s3Object, error) {
		var version int64
		if prev != nil {
			version = prev.Version
		}
		now := r.now().UTC()
		return &s3Object{
			UserID:     userID,
			Descriptor: descriptor.Clone(),
			Version:    version + 1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return obj.template(), nil
}

// UpdateReference does not retry a lost race: the caller decides whether
// to blend again against the newer reference.
func (r *S3Repository) UpdateReference(ctx context.Context, userID string, expectedVersion int64, descriptor biometrics.Descriptor) (*models.Template, error) {
	obj, etag, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if obj.Deleted {
		return nil, common.ErrorNotFound
	}
	if obj.Version != expectedVersion {
		return nil, fmt.Errorf("%w: expected %d, stored %d", common.ErrVersionConflict, expectedVersion, obj.Version)
	}

	obj.Descriptor = descriptor.Clone()
	obj.Version++
	obj.UpdatedAt = r.now().UTC()
	if err := r.store(ctx, obj, etag); err != nil {
		if isConditionFailed(err) {
			return nil, fmt.Errorf("%w: object changed concurrently", common.ErrVersionConflict)
		}
		return nil, err
	}
	return obj.template(), nil
}

// Delete replaces the template with a tombstone carrying the next version.
func (r *S3Repository) Delete(ctx context.Context, userID string) error {
	_, err := r.rewrite(ctx, userID, func(prev *s3Object) (*s3Object, error) {
		if prev == nil || prev.Deleted {
			return nil, nil
		}
		return &s3Object{
			UserID:    userID,
			Version:   prev.Version + 1,
			Deleted:   true,
			CreatedAt: prev.CreatedAt,
			UpdatedAt: r.now().UTC(),
		}, nil
	})
	return err
}

func (r *S3Repository) load(ctx context.Context, userID string) (*s3Object, string, error) {
	out, err := r.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(userID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("s3 error: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("s3 error: %w", err)
	}

	obj := &s3Object{}
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, "", fmt.Errorf("corrupt template object %s: %w", objectKey(userID), err)
	}
	return obj, aws.ToString(out.ETag), nil
}

// store writes obj only if the object still has etag, or still does not
// exist when etag is empty.
func (r *S3Repository) store(ctx context.Context, obj *s3Object, etag string) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	in := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(obj.UserID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if etag != "" {
		in.IfMatch = aws.String(etag)
	} else {
		in.IfNoneMatch = aws.String("*")
	}
	if _, err := r.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3 error: %w", err)
	}
	return nil
}

func (o *s3Object) template() *models.Template {
	return &models.Template{
		UserID:     o.UserID,
		Descriptor: o.Descriptor,
		Version:    o.Version,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	return isAPIError(err, "NotFound") || isAPIError(err, "NoSuchKey")
}

// isConditionFailed covers both answers S3 gives to a lost conditional
// write: 412 PreconditionFailed and 409 ConditionalRequestConflict.
func isConditionFailed(err error) bool {
	return isAPIError(err, "PreconditionFailed") || isAPIError(err, "ConditionalRequestConflict")
}

func isAPIError(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
