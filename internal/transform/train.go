package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dreytengan/futurepaths/internal/domain"
)

// ErrNoPairs is returned when training is left with no examples.
var ErrNoPairs = errors.New("transform: no training pairs")

// TrainOptions configures TrainLinear.
type TrainOptions struct {
	// OnlyDifferent drops pairs whose history and target texts are identical.
	OnlyDifferent bool
	Logger        *slog.Logger
}

// Report describes how well a learned matrix fits its training data.
type Report struct {
	Pairs int
	// MSE is the mean over rows of the squared L2 error.
	MSE  float64
	RMSE float64
	// Frobenius is ‖T − I‖_F.
	Frobenius float64
	// NormalizedFrobenius divides Frobenius by MaxFrobeniusNorm for T's size
	// and value range.
	NormalizedFrobenius float64
}

// Errors is the JSON summary written next to a trained matrix.
type Errors struct {
	MSE  float64 `json:"MSE"`
	RMSE float64 `json:"RMSE"`
}

// Errors rounds MSE and RMSE to three decimals.
func (r Report) Errors() Errors {
	return Errors{MSE: round(r.MSE, 3), RMSE: round(r.RMSE, 3)}
}

// TrainLinear encodes both sides of every pair and solves target ≈ source·T
// in the least-squares sense. Rank-deficient systems get the minimum-norm
// solution.
func TrainLinear(ctx context.Context, emb domain.Embedder, pairs []domain.Pair, opts TrainOptions) (*Linear, Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.OnlyDifferent {
		kept := pairs[:0:0]
		for _, p := range pairs {
			if p.History != p.Target {
				kept = append(kept, p)
			}
		}
		logger.Info("filtered identical pairs", "before", len(pairs), "after", len(kept))
		pairs = kept
	}
	if len(pairs) == 0 {
		return nil, Report{}, ErrNoPairs
	}
	logger.Debug("example pair", "history", pairs[0].History, "target", pairs[0].Target)

	sources := make([]string, len(pairs))
	targets := make([]string, len(pairs))
	for i, p := range pairs {
		sources[i] = p.History
		targets[i] = p.Target
	}
	srcVecs, err := emb.Encode(ctx, sources)
	if err != nil {
		return nil, Report{}, fmt.Errorf("encode histories: %w", err)
	}
	tgtVecs, err := emb.Encode(ctx, targets)
	if err != nil {
		return nil, Report{}, fmt.Errorf("encode targets: %w", err)
	}
	if len(srcVecs) == 0 || len(tgtVecs) == 0 {
		return nil, Report{}, ErrNoPairs
	}
	a, err := toDense(srcVecs, len(srcVecs[0]))
	if err != nil {
		return nil, Report{}, err
	}
	b, err := toDense(tgtVecs, len(tgtVecs[0]))
	if err != nil {
		return nil, Report{}, err
	}

	t, err := solveLeastSquares(a, b)
	if err != nil {
		return nil, Report{}, err
	}
	lin := &Linear{t: t}
	rep := evaluateFit(a, b, t)
	rep.Pairs = len(pairs)
	logger.Info("trained linear transformation",
		"pairs", rep.Pairs,
		"mse", round(rep.MSE, 3),
		"rmse", round(rep.RMSE, 3),
		"frobenius", round(rep.Frobenius, 3),
		"normalized_frobenius", round(rep.NormalizedFrobenius, 3))
	return lin, rep, nil
}

func solveLeastSquares(a, b *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.New("transform: SVD factorization failed")
	}
	m, n := a.Dims()
	rcond := math.Nextafter(1, 2) - 1
	rcond *= float64(max(m, n))
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, errors.New("transform: training embeddings have rank zero")
	}
	var t mat.Dense
	svd.SolveTo(&t, b, rank)
	return &t, nil
}

func evaluateFit(a, b, t *mat.Dense) Report {
	var pred mat.Dense
	pred.Mul(a, t)
	var diff mat.Dense
	diff.Sub(b, &pred)
	rows, _ := diff.Dims()
	sum := 0.0
	for i := 0; i < rows; i++ {
		row := diff.RawRowView(i)
		sum += mat.Dot(mat.NewVecDense(len(row), row), mat.NewVecDense(len(row), row))
	}
	mse := sum / float64(rows)

	r, c := t.Dims()
	dev := mat.NewDense(r, c, nil)
	dev.Apply(func(i, j int, v float64) float64 {
		if i == j {
			return v - 1
		}
		return v
	}, t)
	fro := mat.Norm(dev, 2)

	lo, hi := mat.Min(t), mat.Max(t)
	bound := MaxFrobeniusNorm(c, lo, hi)
	normalized := 0.0
	if bound > 0 {
		normalized = fro / bound
	}
	return Report{
		MSE:                 mse,
		RMSE:                math.Sqrt(mse),
		Frobenius:           fro,
		NormalizedFrobenius: normalized,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
