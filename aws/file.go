package aws

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/middlemost/radio"
)

// Ensure service implements interface.
var _ radio.FileService = &FileService{}

// FileService represents a service for serving audio files from an S3 bucket.
// Only objects directly under Prefix are listed.
type FileService struct {
	Session    *Session
	Bucket     string
	Prefix     string
	Extensions []string
}

// NewFileService returns a new instance of FileService.
func NewFileService() *FileService {
	return &FileService{
		Extensions: radio.DefaultExtensions,
	}
}

// ListFiles returns the names of playable objects under the prefix, sorted by name.
func (s *FileService) ListFiles(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.Bucket),
		Prefix:    aws.String(s.prefix()),
		Delimiter: aws.String("/"),
	}

	names := []string{}
	if err := s.client().ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.StringValue(obj.Key), s.prefix())
			if radio.IsValidFilename(name) && radio.HasExtension(name, s.Extensions) {
				names = append(names, name)
			}
		}
		return true
	}); err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// FindFileByName returns an object and a reader to its contents.
// The reader must be closed by the caller.
func (s *FileService) FindFileByName(ctx context.Context, name string) (*radio.File, io.ReadCloser, error) {
	if name == "" {
		return nil, nil, radio.ErrFilenameRequired
	} else if !radio.IsValidFilename(name) || !radio.HasExtension(name, s.Extensions) {
		return nil, nil, radio.ErrInvalidFilename
	}

	output, err := s.client().GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.prefix() + name),
	})
	if isNotFound(err) {
		return nil, nil, radio.ErrFileNotFound
	} else if err != nil {
		return nil, nil, err
	}

	return &radio.File{Name: name, Size: aws.Int64Value(output.ContentLength)}, output.Body, nil
}

// isNotFound returns true if err reports a missing object.
func isNotFound(err error) bool {
	if err, ok := err.(awserr.Error); ok {
		return err.Code() == s3.ErrCodeNoSuchKey || err.Code() == "NotFound"
	}
	return false
}

func (s *FileService) client() *s3.S3 {
	return s3.New(s.Session.session)
}

// prefix returns the key prefix with a trailing slash, if set.
func (s *FileService) prefix() string {
	if s.Prefix == "" || strings.HasSuffix(s.Prefix, "/") {
		return s.Prefix
	}
	return s.Prefix + "/"
}
