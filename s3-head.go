package main

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	unknownContentType = "unknown"
	lastModifiedLayout = "2006-01-02T15:04:05-07:00"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	ContentType  string
	LastModified time.Time
}

type ObjectMetadata struct {
	ContentType  string
	LastModified string
}

type MetadataLookup interface {
	HeadObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
}

var defaultMetadata = ObjectMetadata{ContentType: unknownContentType, LastModified: ""}

// lookupOrDefault never fails: any lookup error yields defaultMetadata.
func lookupOrDefault(ctx context.Context, lookup MetadataLookup, bucket, key string, log zerolog.Logger) ObjectMetadata {
	info, err := lookup.HeadObject(ctx, bucket, key)
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Error getting object metadata")
		metadataFallbackCount.Inc()
		return defaultMetadata
	}

	md := ObjectMetadata{ContentType: info.ContentType}
	if md.ContentType == "" {
		md.ContentType = unknownContentType
	}
	if !info.LastModified.IsZero() {
		md.LastModified = info.LastModified.Format(lastModifiedLayout)
	}
	return md
}

type S3Store struct {
	svc      s3iface.S3API
	uploader s3manageriface.UploaderAPI
}

var _ MetadataLookup = (*S3Store)(nil)
var _ ObjectWriter = (*S3Store)(nil)

func NewS3Store(sess *session.Session) *S3Store {
	svc := s3.New(sess)
	return &S3Store{
		svc:      svc,
		uploader: s3manager.NewUploaderWithClient(svc),
	}
}

func (s *S3Store) HeadObject(ctx context.Context, bucket, key string) (ObjectInfo, error) {

	out, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case "NotFound", s3.ErrCodeNoSuchKey:
				return ObjectInfo{}, errors.Wrapf(ErrObjectNotFound, "S3 Head Error: s3://%s/%s (%v)", bucket, key, err)
			case s3.ErrCodeNoSuchBucket:
				return ObjectInfo{}, errors.Errorf("S3 Head Error: Bucket not exist: %s (%v)", bucket, err)
			}
		}
		return ObjectInfo{}, errors.Wrapf(err, "S3 Head Error: s3://%s/%s", bucket, key)
	}

	return ObjectInfo{
		ContentType:  aws.StringValue(out.ContentType),
		LastModified: aws.TimeValue(out.LastModified),
	}, nil
}
