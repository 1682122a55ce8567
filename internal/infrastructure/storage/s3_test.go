package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps objects in memory and pages listings by pageSize.
type fakeS3 struct {
	objects  map[string]string
	types    map[string]string
	pageSize int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, types: map[string]string{}, pageSize: 1000}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(body)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	for _, id := range in.Delete.Objects {
		delete(f.objects, aws.ToString(id.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var out s3.ListObjectsV2Output
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
			if len(out.Contents) == f.pageSize {
				out.IsTruncated = aws.Bool(true)
				out.NextContinuationToken = aws.String("next")
				return &out, nil
			}
		}
	}
	out.IsTruncated = aws.Bool(false)
	return &out, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != "atelier" {
		return nil, errors.New("no such bucket")
	}
	return &s3.HeadBucketOutput{}, nil
}

func TestS3Store_PutRemove(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := &S3Store{client: fake, bucket: "atelier"}

	require.NoError(t, store.Put(ctx, "/images/clients/acme/logo_1.webp", []byte("logo")))
	assert.Equal(t, "logo", fake.objects["images/clients/acme/logo_1.webp"])
	assert.Equal(t, "image/webp", fake.types["images/clients/acme/logo_1.webp"])

	require.NoError(t, store.Remove(ctx, "/images/clients/acme/logo_1.webp"))
	assert.Empty(t, fake.objects)

	assert.ErrorIs(t, store.Put(ctx, "/../x", nil), ErrInvalidPath)
}

func TestS3Store_RemoveDirPages(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.pageSize = 2
	store := &S3Store{client: fake, bucket: "atelier"}

	for _, p := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Put(ctx, "/images/projects/oak/"+p+".webp", []byte(p)))
	}
	require.NoError(t, store.Put(ctx, "/images/projects/oak_2/keep.webp", []byte("k")))

	require.NoError(t, store.RemoveDir(ctx, "/images/projects/oak"))
	assert.Equal(t, map[string]string{"images/projects/oak_2/keep.webp": "k"}, fake.objects)
}

func TestS3Store_Ping(t *testing.T) {
	assert.NoError(t, (&S3Store{client: newFakeS3(), bucket: "atelier"}).Ping(context.Background()))
	assert.Error(t, (&S3Store{client: newFakeS3(), bucket: "missing"}).Ping(context.Background()))
}
