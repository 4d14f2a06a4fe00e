package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dreytengan/futurepaths/internal/artifact"
)

// Linear multiplies each row vector by a fixed matrix: y = x·T.
type Linear struct {
	t *mat.Dense
}

// NewLinear wraps a row-major matrix of shape (input dim, output dim).
func NewLinear(m artifact.Matrix) (*Linear, error) {
	if m.Rows <= 0 || m.Cols <= 0 || len(m.Data) != m.Rows*m.Cols {
		return nil, fmt.Errorf("%w: matrix %dx%d with %d values", artifact.ErrCorrupt, m.Rows, m.Cols, len(m.Data))
	}
	return &Linear{t: mat.NewDense(m.Rows, m.Cols, append([]float64(nil), m.Data...))}, nil
}

func (l *Linear) Name() string { return string(MethodLinear) }

func (l *Linear) Transform(x [][]float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, nil
	}
	in, _ := l.t.Dims()
	a, err := toDense(x, in)
	if err != nil {
		return nil, err
	}
	var y mat.Dense
	y.Mul(a, l.t)
	return fromDense(&y), nil
}

// Matrix returns the persistable form of T.
func (l *Linear) Matrix() artifact.Matrix {
	r, c := l.t.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, l.t.RawRowView(i)...)
	}
	return artifact.Matrix{Rows: r, Cols: c, Data: data}
}

// At returns T[i][j].
func (l *Linear) At(i, j int) float64 { return l.t.At(i, j) }

// Dims returns the input and output dimensions.
func (l *Linear) Dims() (int, int) { return l.t.Dims() }

// MaxFrobeniusNorm bounds ‖T − I‖_F for an n×n matrix whose entries lie in
// [lo, hi]: every diagonal entry is at most max((lo−1)², (hi−1)²) away
// from 1 and every off-diagonal entry at most max(lo², hi²) away from 0.
func MaxFrobeniusNorm(n int, lo, hi float64) float64 {
	diag := math.Max((lo-1)*(lo-1), (hi-1)*(hi-1))
	off := math.Max(lo*lo, hi*hi)
	nf := float64(n)
	return math.Sqrt(nf*diag + nf*(nf-1)*off)
}

func toDense(x [][]float64, dim int) (*mat.Dense, error) {
	data := make([]float64, 0, len(x)*dim)
	for i, row := range x {
		if len(row) != dim {
			return nil, fmt.Errorf("row %d has %d dims, want %d: %w", i, len(row), dim, ErrDimensionMismatch)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(x), dim, data), nil
}

func fromDense(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = append([]float64(nil), m.RawRowView(i)...)
	}
	return out
}
