// Package predictor turns free-text queries into ranked labels:
// encode, transform, normalize, look up, decode.
package predictor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/labelspace"
	"github.com/dreytengan/futurepaths/internal/transform"
	"github.com/dreytengan/futurepaths/internal/vectorstore"
)

// LabelPredictor is safe for concurrent use when its embedder is.
type LabelPredictor struct {
	embedder    domain.Embedder
	space       *labelspace.Space
	transformer transform.Transformer
}

// New assembles a predictor. A nil transformer means identity.
func New(emb domain.Embedder, space *labelspace.Space, t transform.Transformer) *LabelPredictor {
	if t == nil {
		t = transform.Identity{}
	}
	return &LabelPredictor{embedder: emb, space: space, transformer: t}
}

// Space returns the label space queries are resolved against.
func (p *LabelPredictor) Space() *labelspace.Space { return p.space }

// Predict returns, for each text, up to topK labels best first.
func (p *LabelPredictor) Predict(ctx context.Context, texts []string, topK int) ([][]string, error) {
	scored, err := p.PredictScored(ctx, texts, topK)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(scored))
	for i, row := range scored {
		out[i] = make([]string, len(row))
		for j, s := range row {
			out[i][j] = s.Label
		}
	}
	return out, nil
}

// PredictScored is Predict with cosine similarities attached.
func (p *LabelPredictor) PredictScored(ctx context.Context, texts []string, topK int) ([][]domain.ScoredLabel, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := p.embedder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("encode queries: %w", err)
	}
	vecs, err = p.transformer.Transform(vecs)
	if err != nil {
		return nil, fmt.Errorf("%s transformation: %w", p.transformer.Name(), err)
	}
	normed, err := labelspace.NormalizeAll(vecs)
	if err != nil {
		return nil, err
	}
	matches, err := p.space.Lookup(normed, topK)
	if err != nil {
		return nil, err
	}
	return p.decode(matches), nil
}

func (p *LabelPredictor) decode(matches [][]vectorstore.Match) [][]domain.ScoredLabel {
	out := make([][]domain.ScoredLabel, len(matches))
	for i, row := range matches {
		out[i] = make([]domain.ScoredLabel, len(row))
		for j, m := range row {
			out[i][j] = domain.ScoredLabel{Label: p.space.Label(m.Index), Score: m.Score}
		}
	}
	return out
}

// LoadOptions names the artifacts Load reads.
type LoadOptions struct {
	LabelSpacePath     string
	Method             transform.Method
	TransformationPath string
	Index              vectorstore.Storage
	Logger             *slog.Logger
}

// Load restores a predictor from stored artifacts. The label space must
// have been built by an embedder of the same name; the embedder is
// prepared over the stored labels before use.
func Load(ctx context.Context, emb domain.Embedder, store artifact.FileStore, opts LoadOptions) (*LabelPredictor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var a artifact.LabelSpace
	if err := artifact.ReadMsgpack(ctx, store, opts.LabelSpacePath, &a); err != nil {
		return nil, fmt.Errorf("load label space: %w", err)
	}
	if a.Embedder != emb.Name() {
		return nil, fmt.Errorf("label space built with embedder %q, configured embedder is %q", a.Embedder, emb.Name())
	}
	if err := emb.Prepare(a.Labels); err != nil {
		return nil, fmt.Errorf("prepare embedder: %w", err)
	}
	if f, ok := emb.(domain.Fingerprinter); ok && a.Fingerprint != "" && f.Fingerprint() != a.Fingerprint {
		logger.Warn("embedder fingerprint differs from label space", "stored", a.Fingerprint, "current", f.Fingerprint())
	}
	var spaceOpts []labelspace.Option
	if opts.Index != nil {
		spaceOpts = append(spaceOpts, labelspace.WithIndex(opts.Index))
	}
	space, err := labelspace.FromArtifact(&a, spaceOpts...)
	if err != nil {
		return nil, err
	}
	t, err := transform.Load(ctx, opts.Method, store, opts.TransformationPath)
	if err != nil {
		return nil, err
	}
	logger.Info("predictor loaded", "labels", space.Len(), "dimension", space.Dimension(), "transformation", t.Name())
	return New(emb, space, t), nil
}
