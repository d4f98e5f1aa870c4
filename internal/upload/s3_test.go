package upload

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	bucket, key, contentType string
	body                     string
	metadata                 map[string]string
}

type fakePutter struct {
	calls  []putCall
	failOn string
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failOn {
		return nil, stderrors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, putCall{
		bucket:      aws.ToString(in.Bucket),
		key:         key,
		contentType: aws.ToString(in.ContentType),
		body:        string(body),
		metadata:    in.Metadata,
	})
	return &s3.PutObjectOutput{}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "meetingData.simple.csv", "id,description\n")
	jsonPath := writeFile(t, dir, "meetingData.json", "[]")

	fake := &fakePutter{}
	p := NewPublisher(fake, "corpora", "/nightly/", nil)

	results := p.Publish(context.Background(), "01RUN", []string{csvPath, jsonPath})
	require.Len(t, results, 2)
	require.Len(t, fake.calls, 2)

	assert.Equal(t, "corpora", fake.calls[0].bucket)
	assert.Equal(t, "nightly/meetingData.simple.csv", fake.calls[0].key)
	assert.Equal(t, "text/csv", fake.calls[0].contentType)
	assert.Equal(t, "id,description\n", fake.calls[0].body)
	assert.Equal(t, "01RUN", fake.calls[0].metadata["run-id"])

	assert.Equal(t, "application/json", fake.calls[1].contentType)
	assert.Equal(t, int64(2), results[1].Bytes)
	assert.Empty(t, results[1].Error)
}

func TestPublish_FailureIsPerFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "a")
	b := writeFile(t, dir, "b.csv", "b")

	fake := &fakePutter{failOn: "a.csv"}
	p := NewPublisher(fake, "corpora", "", nil)

	results := p.Publish(context.Background(), "01RUN", []string{a, b, filepath.Join(dir, "missing.csv")})
	require.Len(t, results, 3)
	assert.Contains(t, results[0].Error, "access denied")
	assert.Empty(t, results[1].Error)
	assert.NotEmpty(t, results[2].Error)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "b.csv", fake.calls[0].key)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("x.csv"))
	assert.Equal(t, "application/json", contentType("x.json"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType("x.xlsx"))
	assert.Equal(t, "application/octet-stream", contentType("x.prom"))
}
