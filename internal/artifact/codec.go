package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrCorrupt is returned when a decoded artifact violates its own shape.
var ErrCorrupt = errors.New("artifact: corrupt")

// LabelSpace is the persisted form of a label space. Labels[i] and
// Vectors[i] describe the same entry.
type LabelSpace struct {
	Embedder    string      `msgpack:"embedder"`
	Fingerprint string      `msgpack:"fingerprint"`
	Dimension   int         `msgpack:"dimension"`
	Labels      []string    `msgpack:"labels"`
	Vectors     [][]float64 `msgpack:"vectors"`
}

func (a *LabelSpace) validate() error {
	if len(a.Labels) != len(a.Vectors) {
		return fmt.Errorf("%w: %d labels, %d vectors", ErrCorrupt, len(a.Labels), len(a.Vectors))
	}
	for i, v := range a.Vectors {
		if len(v) != a.Dimension {
			return fmt.Errorf("%w: vector %d has %d dims, want %d", ErrCorrupt, i, len(v), a.Dimension)
		}
	}
	return nil
}

// Matrix is a dense row-major matrix.
type Matrix struct {
	Rows int       `msgpack:"rows"`
	Cols int       `msgpack:"cols"`
	Data []float64 `msgpack:"data"`
}

func (m *Matrix) validate() error {
	if m.Rows <= 0 || m.Cols <= 0 || len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("%w: matrix %dx%d with %d values", ErrCorrupt, m.Rows, m.Cols, len(m.Data))
	}
	return nil
}

// MLP holds the weights of a two-layer perceptron: hidden = relu(x·W1 + B1),
// out = hidden·W2 + B2.
type MLP struct {
	W1 Matrix    `msgpack:"w1"`
	B1 []float64 `msgpack:"b1"`
	W2 Matrix    `msgpack:"w2"`
	B2 []float64 `msgpack:"b2"`
}

func (m *MLP) validate() error {
	if err := m.W1.validate(); err != nil {
		return err
	}
	if err := m.W2.validate(); err != nil {
		return err
	}
	if len(m.B1) != m.W1.Cols || m.W2.Rows != m.W1.Cols || len(m.B2) != m.W2.Cols {
		return fmt.Errorf("%w: mlp layer shapes do not chain", ErrCorrupt)
	}
	return nil
}

type validator interface{ validate() error }

// WriteMsgpack encodes v to path.
func WriteMsgpack(ctx context.Context, fs FileStore, path string, v any) (err error) {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("artifact: open %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("artifact: close %s: %w", path, cerr)
		}
	}()
	if err := msgpack.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("artifact: encode %s: %w", path, err)
	}
	return nil
}

// ReadMsgpack decodes path into v and checks its shape when v knows one.
func ReadMsgpack(ctx context.Context, fs FileStore, path string, v any) error {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("artifact: open %s: %w", path, err)
	}
	defer r.Close()
	if err := msgpack.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	if val, ok := v.(validator); ok {
		if err := val.validate(); err != nil {
			return fmt.Errorf("artifact: %s: %w", path, err)
		}
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(ctx context.Context, fs FileStore, path string, v any) (err error) {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("artifact: open %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("artifact: close %s: %w", path, cerr)
		}
	}()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

// ReadJSON decodes JSON at path into v.
func ReadJSON(ctx context.Context, fs FileStore, path string, v any) error {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("artifact: open %s: %w", path, err)
	}
	defer r.Close()
	return json.NewDecoder(r).Decode(v)
}
