package neuralnet

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// NeuralNetwork runs a fixed chain of layers. Each layer's output size
// matches the next layer's input size; the batch dimension passes through.
type NeuralNetwork struct {
	layers []*Layer
}

func NewNeuralNetwork(layers ...*Layer) (*NeuralNetwork, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("network needs at least one layer: %w", ErrInvalidSize)
	}
	for i, layer := range layers {
		if layer == nil {
			return nil, fmt.Errorf("layer %d is nil: %w", i, ErrInvalidSize)
		}
		if i == 0 {
			continue
		}
		prev := layers[i-1]
		if prev.OutputSize() != layer.InputSize() {
			return nil, fmt.Errorf("layer %d outputs %d features, layer %d expects %d: %w",
				i-1, prev.OutputSize(), i, layer.InputSize(), ErrShapeMismatch)
		}
	}
	nn := &NeuralNetwork{layers: make([]*Layer, len(layers))}
	copy(nn.layers, layers)
	return nn, nil
}

// NewRandomNeuralNetwork builds input -> hidden... -> output with every
// layer randomly initialised from src.
func NewRandomNeuralNetwork(inputSize int, hidden []int, outputSize int, src rand.Source) (*NeuralNetwork, error) {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputSize)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, outputSize)

	layers := make([]*Layer, 0, len(sizes)-1)
	for i := 1; i < len(sizes); i++ {
		layer, err := NewRandomLayer(sizes[i-1], sizes[i], src)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i-1, err)
		}
		layers = append(layers, layer)
	}
	return NewNeuralNetwork(layers...)
}

// NNSeed derives a deterministic seed from the network topology.
func NNSeed(inputSize int, hidden []int, outputSize int) int {
	seed := inputSize
	for _, h := range hidden {
		seed = seed + h
	}
	return seed + outputSize
}

// FeedForward applies every layer in order with the same activation.
func (nn *NeuralNetwork) FeedForward(inputs mat.Matrix, activation ActivationFunction) (*mat.Dense, error) {
	activations := make([]ActivationFunction, len(nn.layers))
	for i := range activations {
		activations[i] = activation
	}
	return nn.FeedForwardEach(inputs, activations...)
}

// FeedForwardEach applies layer i with activations[i].
func (nn *NeuralNetwork) FeedForwardEach(inputs mat.Matrix, activations ...ActivationFunction) (*mat.Dense, error) {
	if len(activations) != len(nn.layers) {
		return nil, fmt.Errorf("got %d activations for %d layers: %w", len(activations), len(nn.layers), ErrShapeMismatch)
	}
	if inputs == nil {
		return nil, fmt.Errorf("nil inputs: %w", ErrShapeMismatch)
	}
	if features, _ := inputs.Dims(); features != nn.InputSize() {
		return nil, fmt.Errorf("network expects %d input features, got %d: %w", nn.InputSize(), features, ErrShapeMismatch)
	}

	current := inputs
	var out *mat.Dense
	for i, layer := range nn.layers {
		var err error
		out, err = layer.Forward(current, activations[i])
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		current = out
	}
	return out, nil
}

// Jacobian returns d output / d x for a single input vector when every layer
// uses activation. The result is OutputSize() x InputSize().
func (nn *NeuralNetwork) Jacobian(x *mat.VecDense, activation ActivationFunction) (*mat.Dense, error) {
	if x == nil || x.Len() != nn.InputSize() {
		return nil, fmt.Errorf("network expects a %d-vector: %w", nn.InputSize(), ErrShapeMismatch)
	}

	var total *mat.Dense
	current := mat.VecDenseCopyOf(x)
	for i, layer := range nn.layers {
		jac, err := layer.Jacobian(current, activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if total == nil {
			total = jac
		} else {
			var next mat.Dense
			next.Mul(jac, total)
			total = &next
		}

		out, err := layer.Forward(current, activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		current = mat.VecDenseCopyOf(out.ColView(0))
	}
	return total, nil
}

func (nn *NeuralNetwork) Layers() []*Layer {
	layers := make([]*Layer, len(nn.layers))
	copy(layers, nn.layers)
	return layers
}

func (nn *NeuralNetwork) InputSize() int {
	return nn.layers[0].InputSize()
}

func (nn *NeuralNetwork) OutputSize() int {
	return nn.layers[len(nn.layers)-1].OutputSize()
}

func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	for i, layer := range nn.layers {
		sb.WriteString(fmt.Sprintf("Layer %d:\n%s\n", i, layer.String()))
	}
	return sb.String()
}
