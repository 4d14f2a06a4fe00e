package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/dreytengan/futurepaths/internal/artifact"
)

// Neural is a two-layer perceptron with a ReLU hidden layer. Weights are
// trained elsewhere; only inference happens here.
type Neural struct {
	w1 *mat.Dense
	b1 []float64
	w2 *mat.Dense
	b2 []float64
}

func NewNeural(m artifact.MLP) (*Neural, error) {
	w1, err := NewLinear(m.W1)
	if err != nil {
		return nil, err
	}
	w2, err := NewLinear(m.W2)
	if err != nil {
		return nil, err
	}
	if len(m.B1) != m.W1.Cols || m.W2.Rows != m.W1.Cols || len(m.B2) != m.W2.Cols {
		return nil, artifact.ErrCorrupt
	}
	return &Neural{
		w1: w1.t,
		b1: append([]float64(nil), m.B1...),
		w2: w2.t,
		b2: append([]float64(nil), m.B2...),
	}, nil
}

func (n *Neural) Name() string { return string(MethodNeural) }

func (n *Neural) Transform(x [][]float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, nil
	}
	in, _ := n.w1.Dims()
	a, err := toDense(x, in)
	if err != nil {
		return nil, err
	}
	var h mat.Dense
	h.Mul(a, n.w1)
	h.Apply(func(_, j int, v float64) float64 {
		v += n.b1[j]
		if v < 0 {
			return 0
		}
		return v
	}, &h)
	var y mat.Dense
	y.Mul(&h, n.w2)
	y.Apply(func(_, j int, v float64) float64 { return v + n.b2[j] }, &y)
	return fromDense(&y), nil
}
