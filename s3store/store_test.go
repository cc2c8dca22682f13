package s3store

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API
	objects      map[string][]byte
	contentTypes map[string]string
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = data
	f.contentTypes[aws.StringValue(in.Key)] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStore(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
	s := &Store{
		Client:    fake,
		Bucket:    "news",
		Prefix:    "articles",
		PublicURL: "https://cdn.example.org",
	}
	ctx := context.Background()

	if err := s.Save(ctx, "a.png", "image/png", strings.NewReader("png data")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if string(fake.objects["news/articles/a.png"]) != "png data" {
		t.Fatalf("object not stored: %v", fake.objects)
	}
	if fake.contentTypes["articles/a.png"] != "image/png" {
		t.Fatalf("unexpected content type %q", fake.contentTypes["articles/a.png"])
	}

	if got, want := s.URL("a.png"), "https://cdn.example.org/articles/a.png"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	if err := s.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(fake.objects) != 0 {
		t.Fatal("object still exists")
	}

	if err := s.Save(ctx, "", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNewDefaultURL(t *testing.T) {
	s, err := New(Config{Bucket: "news", Region: "eu-central-1", AccessKey: "key", SecretKey: "secret"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got, want := s.URL("a.png"), "https://news.s3.eu-central-1.amazonaws.com/a.png"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
