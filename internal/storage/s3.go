// Package storage holds the S3-compatible object store client used for
// venue image attachments.
package storage

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Options configures the image store connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicBaseURL is prepended to object keys to build the URLs that
	// get persisted in lieux.etab_images.
	PublicBaseURL string
}

// ImageStore uploads and removes venue images in an S3-compatible
// bucket (MinIO in development, any S3 endpoint in production).
type ImageStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// keyPrefix namespaces every venue image inside the bucket.
const keyPrefix = "lieux"

// New connects to the object store, creating the bucket when it does
// not exist yet, and returns a ready ImageStore.
func New(ctx context.Context, opts Options) (*ImageStore, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("storage: endpoint, credentials and bucket are required")
	}
	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, opts.Endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		// Path-style addressing: MinIO does not resolve bucket subdomains.
		o.UsePathStyle = true
	})

	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(opts.Bucket)}); err != nil {
		log.Printf("storage: bucket %q not found, creating", opts.Bucket)
		_, createErr := client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(opts.Bucket),
			CreateBucketConfiguration: &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(opts.Region),
			},
		})
		if createErr != nil {
			return nil, fmt.Errorf("storage: create bucket %q: %w", opts.Bucket, createErr)
		}
		waiter := s3.NewBucketExistsWaiter(client)
		if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(opts.Bucket)}, 30*time.Second); err != nil {
			return nil, fmt.Errorf("storage: wait for bucket %q: %w", opts.Bucket, err)
		}
	}

	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("%s/%s", endpointURL, opts.Bucket)
	}
	return &ImageStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		baseURL:  base,
	}, nil
}

// StoreOne uploads a single multipart file under a fresh UUID key,
// keeping the original extension, and returns the public URL.
func (s *ImageStore) StoreOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s%s", keyPrefix, uuid.NewString(), strings.ToLower(path.Ext(fh.Filename)))
	contentType := fh.Header.Get("Content-Type")
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %q: %w", fh.Filename, err)
	}
	return s.baseURL + "/" + key, nil
}

// Store uploads every file and returns the public URLs in input order.
// On a partial failure the already uploaded objects are deleted so no
// orphan survives the failed request.
func (s *ImageStore) Store(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.StoreOne(ctx, fh)
		if err != nil {
			s.DeleteMany(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete removes the object behind a stored public URL. URLs that do
// not belong to this store's base are ignored.
func (s *ImageStore) Delete(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %q: %w", key, err)
	}
	return nil
}

// DeleteMany removes a batch of stored URLs, logging failures instead
// of aborting. Used for cleanup paths where the database write already
// succeeded or the request already failed.
func (s *ImageStore) DeleteMany(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := s.Delete(ctx, u); err != nil {
			log.Printf("storage: cleanup of %s failed: %v", u, err)
		}
	}
}

func (s *ImageStore) keyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, s.baseURL+"/"), true
}
