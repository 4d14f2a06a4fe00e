package predictor_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/embedding/tfidf"
	"github.com/dreytengan/futurepaths/internal/labelspace"
	"github.com/dreytengan/futurepaths/internal/predictor"
	"github.com/dreytengan/futurepaths/internal/transform"
)

type tableEmbedder struct {
	vecs map[string][]float64
	err  error
}

func (e *tableEmbedder) Name() string           { return "table" }
func (e *tableEmbedder) Prepare([]string) error { return nil }
func (e *tableEmbedder) Dimension() int         { return 3 }
func (e *tableEmbedder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := e.vecs[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

// spyTransformer records the norm of what it receives and scales the input.
type spyTransformer struct {
	seen [][]float64
}

func (s *spyTransformer) Name() string { return "spy" }
func (s *spyTransformer) Transform(x [][]float64) ([][]float64, error) {
	s.seen = append(s.seen, x...)
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = 10 * v
		}
	}
	return out, nil
}

func newEmbedder() *tableEmbedder {
	return &tableEmbedder{vecs: map[string][]float64{
		"Data Analyst":   {1, 0, 0},
		"Data Scientist": {0, 1, 0},
		"UX Designer":    {0, 0, 1},
		"ml engineer":    {0.1, 5, 0.2},
	}}
}

func newPredictor(t *testing.T, emb *tableEmbedder, tr transform.Transformer) *predictor.LabelPredictor {
	t.Helper()
	space, err := labelspace.New(context.Background(), emb, []string{"Data Analyst", "Data Scientist", "UX Designer"})
	require.NoError(t, err)
	return predictor.New(emb, space, tr)
}

func TestPredict(t *testing.T) {
	p := newPredictor(t, newEmbedder(), nil)

	got, err := p.Predict(context.Background(), []string{"ml engineer", "UX Designer"}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Data Scientist", got[0][0])
	assert.Equal(t, "UX Designer", got[1][0])
	assert.Len(t, got[0], 2)
}

func TestPredictScoredIsCosine(t *testing.T) {
	p := newPredictor(t, newEmbedder(), nil)

	got, err := p.PredictScored(context.Background(), []string{"Data Scientist"}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got[0][0].Score, 1e-12)
	assert.Equal(t, "Data Scientist", got[0][0].Label)
}

func TestTransformRunsBeforeNormalize(t *testing.T) {
	spy := &spyTransformer{}
	p := newPredictor(t, newEmbedder(), spy)

	got, err := p.PredictScored(context.Background(), []string{"ml engineer"}, 1)
	require.NoError(t, err)

	// The transformer sees the raw, unnormalized embedding.
	require.Len(t, spy.seen, 1)
	assert.Equal(t, []float64{0.1, 5, 0.2}, spy.seen[0])
	// Scores stay cosine similarities even though the transform scaled by 10.
	assert.LessOrEqual(t, got[0][0].Score, 1.0+1e-12)
}

func TestProviderErrorPropagates(t *testing.T) {
	emb := newEmbedder()
	p := newPredictor(t, emb, nil)
	boom := errors.New("provider unavailable")
	emb.err = boom

	_, err := p.Predict(context.Background(), []string{"x"}, 1)
	assert.ErrorIs(t, err, boom)
}

func TestInvalidTopK(t *testing.T) {
	p := newPredictor(t, newEmbedder(), nil)
	_, err := p.Predict(context.Background(), []string{"UX Designer"}, 0)
	assert.ErrorIs(t, err, labelspace.ErrInvalidTopK)
}

func TestLoadFromArtifacts(t *testing.T) {
	ctx := context.Background()
	store, err := artifact.NewLocal(t.TempDir())
	require.NoError(t, err)

	labels := []string{
		"esco role: data scientist \n description: statistical models machine learning",
		"esco role: ux designer \n description: user interfaces usability",
	}
	emb := tfidf.NewEmbedder()
	require.NoError(t, emb.Prepare(labels))
	space, err := labelspace.New(ctx, emb, labels)
	require.NoError(t, err)
	require.NoError(t, artifact.WriteMsgpack(ctx, store, "labelspace.msgpack", space.Artifact()))

	fresh := tfidf.NewEmbedder()
	p, err := predictor.Load(ctx, fresh, store, predictor.LoadOptions{
		LabelSpacePath: "labelspace.msgpack",
		Method:         transform.MethodNone,
	})
	require.NoError(t, err)

	got, err := p.Predict(ctx, []string{"machine learning models"}, 1)
	require.NoError(t, err)
	assert.Equal(t, labels[0], got[0][0])
}

func TestLoadRejectsOtherEmbedder(t *testing.T) {
	ctx := context.Background()
	store, err := artifact.NewLocal(t.TempDir())
	require.NoError(t, err)
	emb := newEmbedder()
	space, err := labelspace.New(ctx, emb, []string{"Data Analyst"})
	require.NoError(t, err)
	require.NoError(t, artifact.WriteMsgpack(ctx, store, "ls.msgpack", space.Artifact()))

	_, err = predictor.Load(ctx, tfidf.NewEmbedder(), store, predictor.LoadOptions{LabelSpacePath: "ls.msgpack"})
	assert.Error(t, err)
}
