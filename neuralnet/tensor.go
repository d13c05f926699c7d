package neuralnet

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

var ErrUnsupportedDtype = errors.New("unsupported dtype")

// FromTensor copies a rank-2 float tensor into a gonum matrix with the same
// (rows, cols) layout.
func FromTensor(t tensor.Tensor) (*mat.Dense, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tensor: %w", ErrShapeMismatch)
	}
	shape := t.Shape()
	if len(shape) != 2 || shape[0] == 0 || shape[1] == 0 {
		return nil, fmt.Errorf("want a non-empty matrix, got shape %v: %w", shape, ErrShapeMismatch)
	}
	if dt := t.Dtype(); dt != tensor.Float64 && dt != tensor.Float32 {
		return nil, fmt.Errorf("%v: %w", dt, ErrUnsupportedDtype)
	}

	rows, cols := shape[0], shape[1]
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := t.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("read (%d, %d): %w", i, j, err)
			}
			switch x := v.(type) {
			case float64:
				m.Set(i, j, x)
			case float32:
				m.Set(i, j, float64(x))
			}
		}
	}
	return m, nil
}

// ToTensor copies m into a new float64 tensor of shape (rows, cols).
func ToTensor(m mat.Matrix) *tensor.Dense {
	rows, cols := m.Dims()
	backing := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			backing = append(backing, m.At(i, j))
		}
	}
	return tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(rows, cols), tensor.WithBacking(backing))
}
