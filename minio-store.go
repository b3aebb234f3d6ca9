package main

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// minioAccess is the subset of *minio.Client used here, so tests can swap
// in an in-memory bucket.
type minioAccess interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ minioAccess = (*minio.Client)(nil)

// MinioStore talks to S3-compatible endpoints that are not AWS.
type MinioStore struct {
	client minioAccess
}

var _ MetadataLookup = (*MinioStore)(nil)
var _ ObjectWriter = (*MinioStore)(nil)

func NewMinioStore(endpoint, accessKey, secretKey, region string, secure bool) (*MinioStore, error) {

	creds := credentials.NewEnvAWS()
	if accessKey != "" {
		creds = credentials.NewStaticV4(accessKey, secretKey, "")
	}

	// minio wants host[:port], not a URL
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "S3-compatible client error for %s", endpoint)
	}
	return &MinioStore{client: client}, nil
}

func (m *MinioStore) HeadObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	info, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		switch minio.ToErrorResponse(err).Code {
		case "NoSuchKey", "NotFound":
			return ObjectInfo{}, errors.Wrapf(ErrObjectNotFound, "Stat Error: s3://%s/%s (%v)", bucket, key, err)
		}
		return ObjectInfo{}, errors.Wrapf(err, "Stat Error: s3://%s/%s", bucket, key)
	}
	return ObjectInfo{
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func (m *MinioStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrapf(err, "Unable to upload item to s3://%s/%s", bucket, key)
	}
	return nil
}
