package aws

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

// Session represents a session to AWS.
type Session struct {
	session *session.Session
}

// NewSession returns a session with the given credentials. If endpoint is
// set, requests go to that S3-compatible endpoint using path-style addressing.
func NewSession(accessKeyID, secretAccessKey, region, endpoint string) (*Session, error) {
	if region == "" {
		return nil, errors.New("aws region required")
	}

	config := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKeyID, secretAccessKey, ""),
	}
	if endpoint != "" {
		config.Endpoint = aws.String(endpoint)
		config.S3ForcePathStyle = aws.Bool(true)
	}

	s, err := session.NewSession(config)
	if err != nil {
		return nil, err
	}
	return &Session{session: s}, nil
}
