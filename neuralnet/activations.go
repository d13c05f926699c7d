package neuralnet

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
)

// ActivationFunction is a stateless elementwise nonlinearity applied after
// a layer's linear transform. Implementations must not depend on the order
// in which elements are visited. Derivative feeds Layer.Jacobian.
type ActivationFunction interface {
	Activate(x float64) float64
	Derivative(x float64) float64
}

// Step maps positive inputs to 1 and everything else (zero, negative zero, NaN) to 0.
type Step struct{}

func (s Step) Activate(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Derivative is zero everywhere it is defined; the jump at 0 reports 0 as well.
func (s Step) Derivative(x float64) float64 {
	return 0
}

type ReLU struct{}

func (r ReLU) Activate(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	if x > 0 {
		return x
	}
	return 0
}

func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

type LeakyReLU struct {
	alpha float64
}

func NewLeakyReLU(alpha float64) LeakyReLU {
	return LeakyReLU{alpha: alpha}
}

func (l LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.alpha * x
}

func (l LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.alpha
}

// Sigmoid is the logistic function. Negative inputs go through exp(x)/(1+exp(x))
// so the exponential never overflows.
type Sigmoid struct{}

func (s Sigmoid) Activate(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func (s Sigmoid) Derivative(x float64) float64 {
	sigmoid := s.Activate(x)
	return sigmoid * (1 - sigmoid)
}

type Tanh struct{}

func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

func (t Tanh) Derivative(x float64) float64 {
	tanh := t.Activate(x)
	return 1 - tanh*tanh
}

type Linear struct{}

func (t Linear) Activate(x float64) float64 {
	return x
}

func (t Linear) Derivative(x float64) float64 {
	return 1
}

// Func adapts a plain function into an ActivationFunction. Derivative is
// estimated numerically with a central difference.
type Func func(x float64) float64

func (f Func) Activate(x float64) float64 {
	return f(x)
}

func (f Func) Derivative(x float64) float64 {
	return fd.Derivative(f, x, &fd.Settings{Formula: fd.Central})
}

// ActivationByName resolves the names accepted on the command line.
func ActivationByName(name string) (ActivationFunction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "step":
		return Step{}, nil
	case "linear", "identity":
		return Linear{}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "relu":
		return ReLU{}, nil
	case "tanh":
		return Tanh{}, nil
	case "leaky_relu", "leakyrelu":
		return NewLeakyReLU(0.01), nil
	}
	return nil, fmt.Errorf("unknown activation %q", name)
}
