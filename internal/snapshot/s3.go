package snapshot

import (
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Provider struct {
	api    *s3.S3
	bucket string
}

func NewS3Provider(sess *session.Session, bucket string) *S3Provider {
	return &S3Provider{api: s3.New(sess), bucket: bucket}
}

func (s *S3Provider) Put(key string, body io.ReadSeeker, contentType, cacheControl string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if cacheControl != "" {
		input.CacheControl = aws.String(cacheControl)
	}
	_, err := s.api.PutObject(input)
	return err
}
