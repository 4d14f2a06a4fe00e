// Package transform remaps query embeddings before label lookup. The variant
// in use is chosen by Method from configuration.
package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreytengan/futurepaths/internal/artifact"
)

// ErrDimensionMismatch is returned when an input row does not match the
// transformation's input size.
var ErrDimensionMismatch = errors.New("transform: dimension mismatch")

// Method names a transformation variant.
type Method string

const (
	MethodNone   Method = "none"
	MethodLinear Method = "linear"
	MethodNeural Method = "neural"
)

// ParseMethod accepts the configuration spelling of a Method. An empty
// string means MethodNone.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodNone:
		return MethodNone, nil
	case MethodLinear, MethodNeural:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown transformation method %q", s)
	}
}

// Transformer maps a batch of embeddings to the label space.
// Implementations are pure and safe for concurrent use.
type Transformer interface {
	Name() string
	Transform(x [][]float64) ([][]float64, error)
}

// Load returns the transformer for method, reading weights from path when
// the variant has any.
func Load(ctx context.Context, method Method, store artifact.FileStore, path string) (Transformer, error) {
	switch method {
	case MethodNone, "":
		return Identity{}, nil
	case MethodLinear:
		var m artifact.Matrix
		if err := artifact.ReadMsgpack(ctx, store, path, &m); err != nil {
			return nil, fmt.Errorf("load linear transformation: %w", err)
		}
		return NewLinear(m)
	case MethodNeural:
		var m artifact.MLP
		if err := artifact.ReadMsgpack(ctx, store, path, &m); err != nil {
			return nil, fmt.Errorf("load neural transformation: %w", err)
		}
		return NewNeural(m)
	default:
		return nil, fmt.Errorf("unknown transformation method %q", method)
	}
}

// Identity leaves embeddings unchanged.
type Identity struct{}

func (Identity) Name() string { return string(MethodNone) }

func (Identity) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = append([]float64(nil), row...)
	}
	return out, nil
}
