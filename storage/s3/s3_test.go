package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/storage"
)

// fakeS3 keeps objects in memory, keyed by bucket/key.
type fakeS3 struct {
	objects map[string][]byte
	fail    error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string][]byte)} }

func objectID(bucket, key *string) string { return aws.ToString(bucket) + "/" + aws.ToString(key) }

func (f *fakeS3) HeadObject(_ context.Context, in *awss3.HeadObjectInput, _ ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.objects[objectID(in.Bucket, in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &awss3.HeadObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	data, ok := f.objects[objectID(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[objectID(in.Bucket, in.Key)] = data
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	delete(f.objects, objectID(in.Bucket, in.Key))
	return &awss3.DeleteObjectOutput{}, nil
}

func TestRoundTrip(t *testing.T) {
	fake := newFakeS3()
	s := NewWithClient(fake, "fixtures", "dumps/")
	ctx := context.Background()
	path := "/tmp/UserTests-42.dump"

	ok, err := s.Exists(ctx, path)
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v; want false", ok, err)
	}
	if err := storage.WriteLines(ctx, s, path, []string{"A;", "B;"}); err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}
	if got := string(fake.objects["fixtures/dumps/tmp/UserTests-42.dump"]); got != "A;\nB;" {
		t.Errorf("stored object = %q", got)
	}
	ok, err = s.Exists(ctx, path)
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v; want true", ok, err)
	}
	lines, err := storage.ReadLines(ctx, s, path)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if strings.Join(lines, "") != "A;\nB;" {
		t.Errorf("ReadLines() = %q", lines)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(fake.objects) != 0 {
		t.Errorf("objects left: %v", fake.objects)
	}
}

func TestDownloadMissing(t *testing.T) {
	s := NewWithClient(newFakeS3(), "b", "")
	_, err := s.Download(context.Background(), "nope.dump")
	if !apperrors.HasCode(err, apperrors.ErrCodeCacheNotFound) {
		t.Errorf("Download() error = %v, want CACHE_NOT_FOUND", err)
	}
}

func TestErrorsAreCacheIO(t *testing.T) {
	fake := newFakeS3()
	fake.fail = errors.New("access denied")
	s := NewWithClient(fake, "b", "")
	ctx := context.Background()

	if _, err := s.Exists(ctx, "x"); !apperrors.HasCode(err, apperrors.ErrCodeCacheIO) {
		t.Errorf("Exists() error = %v, want CACHE_IO", err)
	}
	if err := s.Upload(ctx, "x", strings.NewReader("y")); !apperrors.HasCode(err, apperrors.ErrCodeCacheIO) {
		t.Errorf("Upload() error = %v, want CACHE_IO", err)
	}
}

func TestKey(t *testing.T) {
	s := NewWithClient(newFakeS3(), "b", "p/")
	tests := map[string]string{
		"/tmp/A-1.dump":        "p/tmp/A-1.dump",
		"fixtures/A-1.dump":    "p/fixtures/A-1.dump",
		"fixtures/../A-1.dump": "p/A-1.dump",
	}
	for in, want := range tests {
		if got := s.Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Bucket: "b", Region: "eu-west-1"}, false},
		{"missing bucket", Config{Region: "eu-west-1"}, true},
		{"half credentials", Config{Bucket: "b", Region: "r", AccessKey: "k"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	c := Config{}
	c.ApplyDefaults()
	if c.Region != DefaultRegion {
		t.Errorf("Region = %q, want %q", c.Region, DefaultRegion)
	}
}
