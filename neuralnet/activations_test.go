package neuralnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

var samples = []float64{-1000, -40, -3.5, -1, -0.25, -1e-12, 0, 1e-12, 0.25, 1, 2, 3.14, 40, 1000}

func TestReLUProperties(t *testing.T) {
	r := ReLU{}
	for _, x := range samples {
		got := r.Activate(x)
		if x >= 0 {
			assert.Equal(t, x, got, "relu(%v)", x)
		} else {
			assert.Equal(t, 0.0, got, "relu(%v)", x)
		}
		assert.Equal(t, got, r.Activate(got), "relu not idempotent at %v", x)
	}
	assert.False(t, math.Signbit(r.Activate(math.Copysign(0, -1))), "relu(-0) should be +0")
	assert.True(t, math.IsNaN(r.Activate(math.NaN())))
}

func TestStepActivate(t *testing.T) {
	s := Step{}
	for _, x := range samples {
		got := s.Activate(x)
		if x > 0 {
			assert.Equal(t, 1.0, got, "step(%v)", x)
		} else {
			assert.Equal(t, 0.0, got, "step(%v)", x)
		}
	}
	assert.Equal(t, 0.0, s.Activate(math.Copysign(0, -1)))
	assert.Equal(t, 0.0, s.Activate(math.NaN()))
	assert.Equal(t, 1.0, s.Activate(math.Inf(1)))
	assert.Equal(t, 0.0, s.Activate(math.Inf(-1)))
}

func TestSigmoidBoundedAndIncreasing(t *testing.T) {
	s := Sigmoid{}
	assert.InDelta(t, 0.5, s.Activate(0), 1e-12)
	prev := math.Inf(-1)
	for x := -30.0; x <= 30.0; x += 0.5 {
		got := s.Activate(x)
		require.Greater(t, got, 0.0, "sigmoid(%v)", x)
		require.Less(t, got, 1.0, "sigmoid(%v)", x)
		require.Greater(t, got, prev, "sigmoid not increasing at %v", x)
		prev = got
	}
}

func TestSigmoidExtremeInputs(t *testing.T) {
	s := Sigmoid{}
	for _, x := range []float64{-1000, -math.MaxFloat64, math.Inf(-1)} {
		got := s.Activate(x)
		assert.False(t, math.IsNaN(got), "sigmoid(%v) is NaN", x)
		assert.Equal(t, 0.0, got, "sigmoid(%v)", x)
	}
	for _, x := range []float64{1000, math.MaxFloat64, math.Inf(1)} {
		assert.Equal(t, 1.0, s.Activate(x), "sigmoid(%v)", x)
	}
	// Symmetry: sigmoid(-x) = 1 - sigmoid(x).
	for _, x := range []float64{0.1, 1, 5, 20} {
		assert.InDelta(t, 1-s.Activate(x), s.Activate(-x), 1e-12)
	}
}

func TestLinearIdentity(t *testing.T) {
	l := Linear{}
	for _, x := range samples {
		assert.Equal(t, x, l.Activate(x))
	}
}

func TestDerivativesMatchFiniteDifference(t *testing.T) {
	tests := []struct {
		name string
		fn   ActivationFunction
	}{
		{"sigmoid", Sigmoid{}},
		{"tanh", Tanh{}},
		{"linear", Linear{}},
		{"relu", ReLU{}},
		{"leaky_relu", NewLeakyReLU(0.1)},
		{"step", Step{}},
		{"func", Func(func(x float64) float64 { return x * x })},
	}
	// Points away from the kinks of relu, leaky relu and step.
	points := []float64{-2.5, -0.7, 0.3, 1.9}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, x := range points {
				want := fd.Derivative(tt.fn.Activate, x, &fd.Settings{Formula: fd.Central})
				assert.InDelta(t, want, tt.fn.Derivative(x), 1e-5, "d/dx at %v", x)
			}
		})
	}
}

func TestSigmoidDerivativePositive(t *testing.T) {
	s := Sigmoid{}
	for x := -10.0; x <= 10.0; x += 0.25 {
		assert.Greater(t, fd.Derivative(s.Activate, x, nil), 0.0, "slope at %v", x)
	}
}

func TestActivationByName(t *testing.T) {
	tests := []struct {
		name string
		want ActivationFunction
	}{
		{"step", Step{}},
		{"linear", Linear{}},
		{"identity", Linear{}},
		{"sigmoid", Sigmoid{}},
		{"ReLU", ReLU{}},
		{" tanh ", Tanh{}},
		{"leaky_relu", NewLeakyReLU(0.01)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActivationByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ActivationByName("softmax")
	assert.Error(t, err)
}

func TestFuncDerivative(t *testing.T) {
	square := Func(func(x float64) float64 { return x * x })
	for _, x := range []float64{-3, -0.5, 0, 1.25, 4} {
		assert.InDelta(t, 2*x, square.Derivative(x), 1e-6, "d/dx x^2 at %v", x)
	}
}
