package neuralnet

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrShapeMismatch reports tensors whose dimensions cannot be combined.
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidSize   = errors.New("invalid layer size")
)

const (
	initScale = 0.02
	initShift = -0.01
)

// Layer is one dense transform: weights (out x in) and biases (out).
// A Layer never changes after construction.
type Layer struct {
	weights *mat.Dense
	biases  *mat.VecDense
}

// NewLayer builds a layer from explicit parameters. Both are copied.
func NewLayer(weights *mat.Dense, biases *mat.VecDense) (*Layer, error) {
	if weights == nil || biases == nil {
		return nil, fmt.Errorf("nil weights or biases: %w", ErrShapeMismatch)
	}
	rows, cols := weights.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty weight matrix %dx%d: %w", rows, cols, ErrInvalidSize)
	}
	if biases.Len() != rows {
		return nil, fmt.Errorf("biases length %d, weights have %d rows: %w", biases.Len(), rows, ErrShapeMismatch)
	}
	return &Layer{
		weights: mat.DenseCopyOf(weights),
		biases:  mat.VecDenseCopyOf(biases),
	}, nil
}

// NewRandomLayer draws every weight from U[0,1), scales it by 0.02 and
// shifts it by -0.01. Biases start at zero.
func NewRandomLayer(sizeIn, sizeOut int, src rand.Source) (*Layer, error) {
	if sizeIn <= 0 || sizeOut <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", sizeOut, sizeIn, ErrInvalidSize)
	}
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}
	weights := make([]float64, sizeOut*sizeIn)
	for i := range weights {
		weights[i] = uniform.Rand()*initScale + initShift
	}
	return &Layer{
		weights: mat.NewDense(sizeOut, sizeIn, weights),
		biases:  mat.NewVecDense(sizeOut, nil),
	}, nil
}

func (l *Layer) InputSize() int {
	_, c := l.weights.Dims()
	return c
}

func (l *Layer) OutputSize() int {
	r, _ := l.weights.Dims()
	return r
}

// Weights returns a copy of the weight matrix.
func (l *Layer) Weights() *mat.Dense {
	return mat.DenseCopyOf(l.weights)
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() *mat.VecDense {
	return mat.VecDenseCopyOf(l.biases)
}

// Forward computes activation(weights·inputs + biases) for a batch stored
// column-wise: inputs is in x batches, the result is out x batches.
// A nil activation leaves the linear output untouched.
func (l *Layer) Forward(inputs mat.Matrix, activation ActivationFunction) (*mat.Dense, error) {
	if inputs == nil {
		return nil, fmt.Errorf("nil inputs: %w", ErrShapeMismatch)
	}
	features, batches := inputs.Dims()
	if features != l.InputSize() {
		return nil, fmt.Errorf("layer expects %d input features, got %d: %w", l.InputSize(), features, ErrShapeMismatch)
	}
	if batches <= 0 {
		return nil, fmt.Errorf("empty batch: %w", ErrInvalidSize)
	}

	outputs := mat.NewDense(l.OutputSize(), batches, nil)
	outputs.Mul(l.weights, inputs)

	for i := 0; i < l.OutputSize(); i++ {
		row := outputs.RawRowView(i)
		bias := l.biases.AtVec(i)
		for b := range row {
			row[b] += bias
		}
	}

	if activation == nil {
		return outputs, nil
	}
	outputs.Apply(func(_, _ int, v float64) float64 {
		return activation.Activate(v)
	}, outputs)
	return outputs, nil
}

// Jacobian returns d activation(weights·x + biases) / dx for a single input
// vector x: row i is weights[i,:] scaled by activation.Derivative(pre[i]).
// A nil activation means linear.
func (l *Layer) Jacobian(x *mat.VecDense, activation ActivationFunction) (*mat.Dense, error) {
	if x == nil || x.Len() != l.InputSize() {
		n := 0
		if x != nil {
			n = x.Len()
		}
		return nil, fmt.Errorf("layer expects %d input features, got %d: %w", l.InputSize(), n, ErrShapeMismatch)
	}
	if activation == nil {
		activation = Linear{}
	}

	var pre mat.VecDense
	pre.MulVec(l.weights, x)
	pre.AddVec(&pre, l.biases)

	jac := mat.DenseCopyOf(l.weights)
	for i := 0; i < l.OutputSize(); i++ {
		d := activation.Derivative(pre.AtVec(i))
		row := jac.RawRowView(i)
		for j := range row {
			row[j] *= d
		}
	}
	return jac, nil
}

// String dumps the layer's parameters.
func (l *Layer) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dense %d -> %d\n", l.InputSize(), l.OutputSize()))
	sb.WriteString(fmt.Sprintf("weights =\n%v\n", mat.Formatted(l.weights, mat.Prefix("  "), mat.Squeeze())))
	sb.WriteString(fmt.Sprintf("biases = %v\n", mat.Formatted(l.biases.T(), mat.Squeeze())))
	return sb.String()
}
