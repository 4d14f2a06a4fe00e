package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/labelspace"
)

// EvalTopK is how many labels are requested per history during a run.
const EvalTopK = 10

const sampleCount = 5

// Predictor is the part of the label predictor a run needs.
type Predictor interface {
	Predict(ctx context.Context, texts []string, topK int) ([][]string, error)
}

// Scores are the metrics of one run, rounded to four decimals.
type Scores struct {
	MRR        float64 `json:"MRR"`
	RecallAt5  float64 `json:"R@5"`
	RecallAt10 float64 `json:"R@10"`
}

// Run predicts the top EvalTopK labels for every pair's history and scores
// them against the pair's target. A history that embeds to the zero vector
// gets an empty ranking and counts as a miss.
func Run(ctx context.Context, p Predictor, pairs []domain.Pair, logger *slog.Logger) (Scores, []Ranked, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(pairs) == 0 {
		return Scores{}, nil, ErrNoPredictions
	}
	histories := make([]string, len(pairs))
	for i, pair := range pairs {
		histories[i] = pair.History
	}
	logger.Info("predicting next occupations", "pairs", len(pairs))
	predicted, err := p.Predict(ctx, histories, EvalTopK)
	if errors.Is(err, labelspace.ErrZeroVector) {
		predicted, err = predictEach(ctx, p, histories, logger)
	}
	if err != nil {
		return Scores{}, nil, fmt.Errorf("predict: %w", err)
	}
	if len(predicted) != len(pairs) {
		return Scores{}, nil, fmt.Errorf("predictor returned %d rankings for %d histories", len(predicted), len(pairs))
	}
	ranked := make([]Ranked, len(pairs))
	for i, pair := range pairs {
		ranked[i] = Ranked{Truth: pair.Target, Ranked: predicted[i][:min(EvalTopK, len(predicted[i]))]}
	}
	for i := 0; i < min(sampleCount, len(pairs)); i++ {
		logger.Info("sample prediction",
			"instance", i+1,
			"history", pairs[i].History,
			"truth", pairs[i].Target,
			"top5", strings.Join(ranked[i].Ranked[:min(5, len(ranked[i].Ranked))], " | "))
	}

	mrr, err := MRR(ranked)
	if err != nil {
		return Scores{}, nil, err
	}
	r5, err := RecallAtK(ranked, 5)
	if err != nil {
		return Scores{}, nil, err
	}
	r10, err := RecallAtK(ranked, 10)
	if err != nil {
		return Scores{}, nil, err
	}
	s := Scores{MRR: round4(mrr), RecallAt5: round4(r5), RecallAt10: round4(r10)}
	logger.Info("evaluation scores", "mrr", s.MRR, "r@5", s.RecallAt5, "r@10", s.RecallAt10)
	return s, ranked, nil
}

// predictEach predicts one history at a time so a zero-vector history only
// loses its own ranking.
func predictEach(ctx context.Context, p Predictor, histories []string, logger *slog.Logger) ([][]string, error) {
	out := make([][]string, len(histories))
	skipped := 0
	for i, h := range histories {
		res, err := p.Predict(ctx, []string{h}, EvalTopK)
		switch {
		case errors.Is(err, labelspace.ErrZeroVector):
			skipped++
			logger.Debug("history has no embedding", "instance", i+1, "history", h)
		case err != nil:
			return nil, err
		case len(res) != 1:
			return nil, fmt.Errorf("predictor returned %d rankings for 1 history", len(res))
		default:
			out[i] = res[0]
		}
	}
	logger.Warn("histories without embedding scored as misses", "skipped", skipped, "pairs", len(histories))
	return out, nil
}

// ScoresPath returns "<base>_<method>.json".
func ScoresPath(base, method string) string { return base + "_" + method + ".json" }

// PredictionsPath returns "<base>_<method>.msgpack".
func PredictionsPath(base, method string) string { return base + "_" + method + ".msgpack" }

// WriteScores stores s as indented JSON.
func WriteScores(ctx context.Context, store artifact.FileStore, path string, s Scores) error {
	return artifact.WriteJSON(ctx, store, path, s)
}

// WritePredictions dumps the rankings as msgpack.
func WritePredictions(ctx context.Context, store artifact.FileStore, path string, preds []Ranked) error {
	return artifact.WriteMsgpack(ctx, store, path, preds)
}

// ReadPredictions loads a dump written by WritePredictions.
func ReadPredictions(ctx context.Context, store artifact.FileStore, path string) ([]Ranked, error) {
	var preds []Ranked
	if err := artifact.ReadMsgpack(ctx, store, path, &preds); err != nil {
		return nil, err
	}
	return preds, nil
}
