package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"storefront/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken         = ""
	deleteBatchSize              = 1000
	productImagePrefix           = "products"
	publicURLFmt                 = "https://%s.s3.%s.amazonaws.com/%s"
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedPutObjectFmt        = "failed to put object %s: %w"
	errFailedDeleteObjectFmt     = "failed to delete object: %w"
	errFailedDeleteObjectsFmt    = "failed to delete objects: %w"
)

// Client stores product images in a single bucket.
type Client struct {
	svc           s3iface.S3API
	bucket        string
	region        string
	publicBaseURL string
}

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return newClient(s3.New(sess), cfg), nil
}

func newClient(svc s3iface.S3API, cfg *config.AWSConfig) *Client {
	return &Client{
		svc:           svc,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (c *Client) PutObject(ctx context.Context, objectKey string, body io.ReadSeeker, contentType string) error {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf(errFailedPutObjectFmt, objectKey, err)
	}
	return nil
}

func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})

	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

// DeleteObjects removes keys in batches of at most 1000.
func (c *Client) DeleteObjects(ctx context.Context, objectKeys []string) error {
	for start := 0; start < len(objectKeys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(objectKeys) {
			end = len(objectKeys)
		}

		objects := make([]*s3.ObjectIdentifier, 0, end-start)
		for _, key := range objectKeys[start:end] {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err := c.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &s3.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf(errFailedDeleteObjectsFmt, err)
		}
	}

	return nil
}

// PublicURL is the address buyers fetch the object from.
func (c *Client) PublicURL(objectKey string) string {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + objectKey
	}
	return fmt.Sprintf(publicURLFmt, c.bucket, c.region, objectKey)
}

// NewObjectKey returns a fresh key for an image of productID.
func (c *Client) NewObjectKey(productID int64, filename string) string {
	return BuildObjectKey(productID, filename)
}

// BuildObjectKey returns a fresh key under the product's prefix, keeping the
// original file extension.
func BuildObjectKey(productID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return productImagePrefix + "/" + strconv.FormatInt(productID, 10) + "/" + uuid.NewString() + ext
}
