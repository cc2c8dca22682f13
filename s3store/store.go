// Package s3store keeps article images in an S3 bucket.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/wansing/news/upload"
)

type Config struct {
	Bucket    string
	Region    string
	AccessKey string // if empty, the default credential chain is used
	SecretKey string
	Prefix    string // key prefix, like "articles"
	PublicURL string // overrides the default https://<bucket>.s3.<region>.amazonaws.com
}

// Store implements upload.Store.
type Store struct {
	Client    s3iface.S3API
	Bucket    string
	Prefix    string
	PublicURL string // without trailing slash
}

func New(cfg Config) (*Store, error) {

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: no bucket configured")
	}

	var awsCfg = &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	var publicURL = strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Store{
		Client:    s3.New(sess),
		Bucket:    cfg.Bucket,
		Prefix:    strings.Trim(cfg.Prefix, "/"),
		PublicURL: publicURL,
	}, nil
}

func (s *Store) key(name string) (string, error) {
	name, err := upload.CleanFilename(name)
	if err != nil {
		return "", err
	}
	return path.Join(s.Prefix, name), nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	_, err = s.Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, name, contentType string, src io.Reader) error {

	key, err := s.key(name)
	if err != nil {
		return err
	}

	body, ok := src.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	_, err = s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return nil
}

func (s *Store) URL(name string) string {
	key, err := s.key(name)
	if err != nil {
		return ""
	}
	return s.PublicURL + "/" + key
}
