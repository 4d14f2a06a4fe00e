package artifact_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/artifact"
)

type apiError struct{ code string }

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockS3() *mockS3 { return &mockS3{objects: make(map[string][]byte)} }

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func stores(t *testing.T) (map[string]artifact.FileStore, *mockS3) {
	local, err := artifact.NewLocal(t.TempDir())
	require.NoError(t, err)
	mock := newMockS3()
	return map[string]artifact.FileStore{
		"local": local,
		"s3":    artifact.NewS3(mock, "bucket", "models/"),
	}, mock
}

func TestLabelSpaceRoundTrip(t *testing.T) {
	all, _ := stores(t)
	for name, fs := range all {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := &artifact.LabelSpace{
				Embedder:  "tfidf",
				Dimension: 2,
				Labels:    []string{"Data Analyst", "UX Designer"},
				Vectors:   [][]float64{{1, 0}, {0, 1}},
			}
			require.NoError(t, artifact.WriteMsgpack(ctx, fs, "ls/labelspace.msgpack", in))

			ok, err := fs.Exists(ctx, "ls/labelspace.msgpack")
			require.NoError(t, err)
			assert.True(t, ok)

			var out artifact.LabelSpace
			require.NoError(t, artifact.ReadMsgpack(ctx, fs, "ls/labelspace.msgpack", &out))
			assert.Equal(t, *in, out)
		})
	}
}

func TestMissingFileIsNotExist(t *testing.T) {
	all, _ := stores(t)
	for name, fs := range all {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var out artifact.Matrix
			err := artifact.ReadMsgpack(ctx, fs, "nope.msgpack", &out)
			assert.ErrorIs(t, err, os.ErrNotExist)

			ok, err := fs.Exists(ctx, "nope.msgpack")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCorruptLabelSpaceRejected(t *testing.T) {
	local, err := artifact.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	bad := &artifact.LabelSpace{Dimension: 2, Labels: []string{"a", "b"}, Vectors: [][]float64{{1, 0}}}
	require.NoError(t, artifact.WriteMsgpack(ctx, local, "bad.msgpack", bad))

	var out artifact.LabelSpace
	err = artifact.ReadMsgpack(ctx, local, "bad.msgpack", &out)
	assert.ErrorIs(t, err, artifact.ErrCorrupt)
}

func TestS3KeysUsePrefix(t *testing.T) {
	_, mock := stores(t)
	fs := artifact.NewS3(mock, "bucket", "/models/")
	require.NoError(t, artifact.WriteJSON(context.Background(), fs, "scores.json", map[string]float64{"MRR": 0.5}))
	_, ok := mock.objects["models/scores.json"]
	assert.True(t, ok)
}

func TestMLPShapeCheck(t *testing.T) {
	local, err := artifact.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	m := &artifact.MLP{
		W1: artifact.Matrix{Rows: 2, Cols: 3, Data: make([]float64, 6)},
		B1: make([]float64, 3),
		W2: artifact.Matrix{Rows: 2, Cols: 2, Data: make([]float64, 4)},
		B2: make([]float64, 2),
	}
	require.NoError(t, artifact.WriteMsgpack(ctx, local, "mlp.msgpack", m))
	var out artifact.MLP
	assert.ErrorIs(t, artifact.ReadMsgpack(ctx, local, "mlp.msgpack", &out), artifact.ErrCorrupt)
}
