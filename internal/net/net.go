// Package net provides the single-hidden-layer sigmoid network.
package net

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/shallownet/internal/activations"
)

// Network is a fully connected input -> hidden -> output network trained
// online by backpropagation.
//
// A Network is not safe for concurrent use. Train mutates every parameter in
// place, so callers must serialize Train and Predict on the same instance.
type Network struct {
	inputSize  int
	hiddenSize int
	outputSize int

	// Shape: [hidden x input]; weightsIH.At(h, i) connects input i to hidden h.
	weightsIH *mat.Dense
	// Shape: [output x hidden]
	weightsHO *mat.Dense
	biasH     *mat.VecDense
	biasO     *mat.VecDense

	learningRate float64
	act          activations.Sigmoid
}

// Option configures construction of a Network.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand draws the initial parameters from rng.
// The Network does not keep rng after New returns.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithSeed draws the initial parameters from a source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// New creates a network with every weight and bias drawn uniformly from
// the open interval (-1, 1).
func New(inputSize, hiddenSize, outputSize int, learningRate float64, opts ...Option) (*Network, error) {
	if inputSize <= 0 || hiddenSize <= 0 || outputSize <= 0 {
		return nil, fmt.Errorf("%w: layer sizes must be positive, got %d-%d-%d",
			ErrInvalidConfiguration, inputSize, hiddenSize, outputSize)
	}
	if !(learningRate > 0) || math.IsInf(learningRate, 0) {
		return nil, fmt.Errorf("%w: learning rate must be a positive finite number, got %v",
			ErrInvalidConfiguration, learningRate)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := &Network{
		inputSize:    inputSize,
		hiddenSize:   hiddenSize,
		outputSize:   outputSize,
		weightsIH:    mat.NewDense(hiddenSize, inputSize, uniform(rng, hiddenSize*inputSize)),
		weightsHO:    mat.NewDense(outputSize, hiddenSize, uniform(rng, outputSize*hiddenSize)),
		biasH:        mat.NewVecDense(hiddenSize, uniform(rng, hiddenSize)),
		biasO:        mat.NewVecDense(outputSize, uniform(rng, outputSize)),
		learningRate: learningRate,
	}
	return n, nil
}

// uniform returns n values drawn from (-1, 1).
func uniform(rng *rand.Rand, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		v := rng.Float64()*2 - 1
		for v == -1 {
			v = rng.Float64()*2 - 1
		}
		data[i] = v
	}
	return data
}

// Predict runs a forward pass and returns output activations, each in (0, 1).
// It does not modify the network.
func (n *Network) Predict(inputs []float64) ([]float64, error) {
	if err := checkLen("inputs", len(inputs), n.inputSize); err != nil {
		return nil, err
	}
	_, output := n.forward(vector(inputs))

	out := make([]float64, n.outputSize)
	copy(out, output.RawVector().Data)
	return out, nil
}

// forward returns post-activation hidden and output vectors.
func (n *Network) forward(x *mat.VecDense) (hidden, output *mat.VecDense) {
	hidden = mat.NewVecDense(n.hiddenSize, nil)
	hidden.MulVec(n.weightsIH, x)
	hidden.AddVec(hidden, n.biasH)
	n.act.ActivateVec(hidden)

	output = mat.NewVecDense(n.outputSize, nil)
	output.MulVec(n.weightsHO, hidden)
	output.AddVec(output, n.biasO)
	n.act.ActivateVec(output)
	return hidden, output
}

// Train performs one step of online backpropagation on a single example,
// updating all weights and biases in place. Lengths are checked before any
// computation; on error nothing is modified.
func (n *Network) Train(inputs, targets []float64) error {
	if err := checkLen("inputs", len(inputs), n.inputSize); err != nil {
		return err
	}
	if err := checkLen("targets", len(targets), n.outputSize); err != nil {
		return err
	}

	x := vector(inputs)
	hidden, output := n.forward(x)

	// outputErr = t - o. The updates below add because of this sign.
	outputErr := mat.NewVecDense(n.outputSize, nil)
	outputErr.SubVec(vector(targets), output)

	var outputSlope mat.VecDense
	n.act.SlopeVec(&outputSlope, output)
	outputGrad := mat.NewVecDense(n.outputSize, nil)
	outputGrad.MulElemVec(outputErr, &outputSlope)

	// Propagated through weightsHO before it is updated.
	hiddenErr := mat.NewVecDense(n.hiddenSize, nil)
	hiddenErr.MulVec(n.weightsHO.T(), outputGrad)

	var hiddenSlope mat.VecDense
	n.act.SlopeVec(&hiddenSlope, hidden)
	hiddenGrad := mat.NewVecDense(n.hiddenSize, nil)
	hiddenGrad.MulElemVec(hiddenErr, &hiddenSlope)

	lr := n.learningRate
	n.weightsHO.RankOne(n.weightsHO, lr, outputGrad, hidden)
	n.weightsIH.RankOne(n.weightsIH, lr, hiddenGrad, x)
	n.biasO.AddScaledVec(n.biasO, lr, outputGrad)
	n.biasH.AddScaledVec(n.biasH, lr, hiddenGrad)
	return nil
}

// vector copies s into a new column vector so callers' slices are never aliased.
func vector(s []float64) *mat.VecDense {
	data := make([]float64, len(s))
	copy(data, s)
	return mat.NewVecDense(len(data), data)
}

// InputSize returns the number of input units.
func (n *Network) InputSize() int {
	return n.inputSize
}

// HiddenSize returns the number of hidden units.
func (n *Network) HiddenSize() int {
	return n.hiddenSize
}

// OutputSize returns the number of output units.
func (n *Network) OutputSize() int {
	return n.outputSize
}

// LearningRate returns the step size applied to every update.
func (n *Network) LearningRate() float64 {
	return n.learningRate
}

// Params holds a copy of the network's learnable parameters.
type Params struct {
	WeightsIH *mat.Dense
	WeightsHO *mat.Dense
	BiasH     *mat.VecDense
	BiasO     *mat.VecDense
}

// Params returns a deep copy of all parameters.
func (n *Network) Params() Params {
	p := Params{
		WeightsIH: mat.DenseCopyOf(n.weightsIH),
		WeightsHO: mat.DenseCopyOf(n.weightsHO),
		BiasH:     mat.NewVecDense(n.hiddenSize, nil),
		BiasO:     mat.NewVecDense(n.outputSize, nil),
	}
	p.BiasH.CopyVec(n.biasH)
	p.BiasO.CopyVec(n.biasO)
	return p
}

// Equal reports whether p and q hold identical values.
func (p Params) Equal(q Params) bool {
	return mat.Equal(p.WeightsIH, q.WeightsIH) &&
		mat.Equal(p.WeightsHO, q.WeightsHO) &&
		mat.Equal(p.BiasH, q.BiasH) &&
		mat.Equal(p.BiasO, q.BiasO)
}
