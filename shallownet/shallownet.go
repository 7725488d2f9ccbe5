// Package shallownet exposes the single-hidden-layer sigmoid network and its
// training helpers to code outside this module.
package shallownet

import (
	"context"
	"math/rand"

	"github.com/FlavioCFOliveira/shallownet/internal/net"
	"github.com/FlavioCFOliveira/shallownet/internal/trainer"
)

// Re-export common types for easier access
type (
	Network  = net.Network
	Option   = net.Option
	Params   = net.Params
	Example  = trainer.Example
	Result   = trainer.Result
	Callback = trainer.Callback
)

// Errors
var (
	ErrShapeMismatch        = net.ErrShapeMismatch
	ErrInvalidConfiguration = net.ErrInvalidConfiguration
)

// New creates a network with parameters drawn uniformly from (-1, 1).
func New(inputSize, hiddenSize, outputSize int, learningRate float64, opts ...Option) (*Network, error) {
	return net.New(inputSize, hiddenSize, outputSize, learningRate, opts...)
}

// WithSeed draws the initial parameters from a source seeded with seed.
func WithSeed(seed int64) Option {
	return net.WithSeed(seed)
}

// WithRand draws the initial parameters from rng.
func WithRand(rng *rand.Rand) Option {
	return net.WithRand(rng)
}

// Fit trains n on examples in order for up to epochs passes.
func Fit(ctx context.Context, n *Network, examples []Example, epochs int, callbacks ...Callback) (Result, error) {
	return trainer.Fit(ctx, n, examples, epochs, callbacks...)
}

// Evaluate returns the mean squared error of n over examples.
func Evaluate(n *Network, examples []Example) (float64, error) {
	return trainer.Evaluate(n, examples)
}

// XOR returns the four XOR examples in the order 00, 01, 10, 11.
func XOR() []Example {
	return trainer.XOR()
}

// Logger returns a callback that logs the loss every interval epochs and at the end of training.
func Logger(interval int) *trainer.Logger {
	return &trainer.Logger{Interval: interval}
}

// EarlyStopping returns a callback that stops after patience epochs without improvement.
func EarlyStopping(patience int, threshold float64) *trainer.EarlyStopping {
	return trainer.NewEarlyStopping(patience, threshold)
}

// CSVLogger returns a callback that writes per-epoch loss to a CSV file.
func CSVLogger(filename string, append bool) *trainer.CSVLogger {
	return trainer.NewCSVLogger(filename, append)
}
