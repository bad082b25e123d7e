package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiError implements smithy.APIError.
type apiError struct {
	code string
}

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (m *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if in.ContentLength != nil && *in.ContentLength != int64(len(data)) {
		return nil, errors.New("content length mismatch")
	}
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3WriteAndRead(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "bucket", "lincon/snapshots")
	ctx := context.Background()

	require.NoError(t, WriteFile(ctx, store, "work.msgpack", []byte("payload")))
	assert.Contains(t, fake.objects, "lincon/snapshots/work.msgpack")

	got, err := ReadFile(ctx, store, "work.msgpack")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	ok, err := store.Exists(ctx, "work.msgpack")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestS3NotFound(t *testing.T) {
	store := NewS3(newFakeS3(), "bucket", "")
	ctx := context.Background()

	_, err := store.Read(ctx, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	ok, err := store.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestS3Errors(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "bucket", "")
	ctx := context.Background()
	fake.err = &apiError{code: "AccessDenied"}

	_, err := store.Read(ctx, "x")
	assert.ErrorIs(t, err, fake.err)
	_, err = store.Exists(ctx, "x")
	assert.ErrorIs(t, err, fake.err)
	assert.ErrorIs(t, store.Delete(ctx, "x"), fake.err)

	w, err := store.Write(ctx, "x")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Close(), fake.err)
}

func TestS3WriterClosedTwice(t *testing.T) {
	store := NewS3(newFakeS3(), "bucket", "")
	w, err := store.Write(context.Background(), "x")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), os.ErrClosed)
	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestS3Key(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"", "a/b", "a/b"},
		{"root", "a/b", "root/a/b"},
		{"root/", "./a", "root/a"},
	}
	for _, tt := range tests {
		got, err := NewS3(nil, "b", tt.prefix).key(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := NewS3(nil, "b", "root").key("../x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(S3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "ak",
		SecretKey: "sk",
		PathStyle: true,
	})
	opts := c.Options()
	assert.Equal(t, "us-east-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *opts.BaseEndpoint)

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ak", creds.AccessKeyID)
	assert.Equal(t, "sk", creds.SecretAccessKey)
}

func TestIsS3NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NoSuchKey", &apiError{code: "NoSuchKey"}, true},
		{"NotFound", &apiError{code: "NotFound"}, true},
		{"other api error", &apiError{code: "AccessDenied"}, false},
		{"plain error", errors.New("timeout"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isS3NotFound(tt.err))
		})
	}
}
