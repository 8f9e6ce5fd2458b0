package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Writer_UploadsOnClose(t *testing.T) {
	client := &fakeS3{objects: make(map[string][]byte)}
	factory := NewS3WriterFactoryWithClient(context.Background(), client)

	w, err := factory.NewWriter("commute-bucket", "exports/sweep_points/part.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	assert.Empty(t, client.objects)

	require.NoError(t, w.Close())
	assert.Equal(t, []byte("PAR1data"), client.objects["commute-bucket/exports/sweep_points/part.parquet"])

	// second close is a no-op
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("x"))
	assert.Error(t, err)
}

func TestS3Writer_UploadError(t *testing.T) {
	boom := errors.New("access denied")
	factory := NewS3WriterFactoryWithClient(context.Background(), &fakeS3{err: boom})

	w, err := factory.NewWriter("commute-bucket", "key")
	require.NoError(t, err)
	assert.ErrorIs(t, w.Close(), boom)
}

func TestS3WriterFactory_RequiresBucket(t *testing.T) {
	factory := NewS3WriterFactoryWithClient(context.Background(), &fakeS3{})
	_, err := factory.NewWriter("", "key")
	assert.Error(t, err)
}
