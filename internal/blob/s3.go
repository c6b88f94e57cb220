// Package blob stores image attachments (journal photos, profile avatars)
// in an S3 bucket. Records carry only the object key; the images themselves
// never travel through the journal store.
package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ntarasova/moodlog/internal/common"
)

const (
	JournalImagePrefix = "journal_images"
	ProfileImagePrefix = "profile_images"
)

// api is the slice of the S3 client the store uses; tests substitute a fake.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store uploads attachments to a single bucket.
type Store struct {
	client api
	bucket string
}

// NewStore builds a Store using the default AWS credential chain.
func NewStore(ctx context.Context, bucket, region string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// NewStoreWithClient is used by tests.
func NewStoreWithClient(client api, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// UploadImage stores the image under prefix/userID/<uuid>.jpg and returns
// the object key to carry in the record payload.
func (s *Store) UploadImage(ctx context.Context, prefix, userID string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s/%s.jpg", prefix, userID, uuid.NewString())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", common.ErrNetwork, key, err)
	}
	return key, nil
}

// Delete removes the object. Deleting an absent key is not an error in S3,
// which matches the idempotent-delete policy of the rest of the system.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrNetwork, key, err)
	}
	return nil
}
