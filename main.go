package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"gon/neuralnet"
)

const (
	Features = 3
	Batch    = 4
)

// Three input features for each of four batch elements, one column per element.
var inputBatch = []float64{
	1.0, 2.0, 3.0, 2.5,
	2.0, 5.0, -1.0, 2.0,
	-1.5, 2.7, 3.3, -0.8,
}

func parseSizes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("hidden size %q: %w", p, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("hidden size must be > 0 (got %d)", v)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}

func main() {
	seed := flag.Uint64("seed", 0, "PRNG seed (0 derives one from the topology)")
	activationName := flag.String("activation", "relu", "Activation applied after every layer")
	hiddenFlag := flag.String("hidden", "4,4", "Comma separated hidden layer sizes")
	outputSize := flag.Int("out", 4, "Output layer size")
	verbose := flag.Bool("v", false, "Print layer parameters")
	jacobian := flag.Bool("jacobian", false, "Print d output / d input for the first batch element")

	flag.Parse()

	hidden, err := parseSizes(*hiddenFlag)
	if err != nil {
		log.Fatalf("invalid -hidden: %v", err)
	}
	if *outputSize <= 0 {
		log.Fatalf("invalid -out: must be > 0 (got %d)", *outputSize)
	}
	activation, err := neuralnet.ActivationByName(*activationName)
	if err != nil {
		log.Fatalf("invalid -activation: %v", err)
	}
	if *seed == 0 {
		*seed = uint64(neuralnet.NNSeed(Features, hidden, *outputSize))
	}

	nn, err := neuralnet.NewRandomNeuralNetwork(Features, hidden, *outputSize, rand.NewPCG(*seed, *seed))
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	if *verbose {
		fmt.Print(nn)
	}

	t := tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(Features, Batch), tensor.WithBacking(inputBatch))
	inputs, err := neuralnet.FromTensor(t)
	if err != nil {
		log.Fatalf("convert input: %v", err)
	}

	outputs, err := nn.FeedForward(inputs, activation)
	if err != nil {
		log.Fatalf("feed forward: %v", err)
	}
	fmt.Printf("%v\n", mat.Formatted(outputs, mat.Squeeze()))

	if *jacobian {
		jac, err := nn.Jacobian(mat.VecDenseCopyOf(inputs.ColView(0)), activation)
		if err != nil {
			log.Fatalf("jacobian: %v", err)
		}
		fmt.Printf("\nd output / d input (batch 0):\n%v\n", mat.Formatted(jac, mat.Squeeze()))
	}
}
