// Package trainer drives a network through epochs of online training.
package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/FlavioCFOliveira/shallownet/internal/loss"
	"github.com/FlavioCFOliveira/shallownet/internal/net"
)

// Result summarizes a training run: the number of completed epochs, the
// mean squared error after the last of them, and whether a Stopper ended
// training before the epoch budget.
type Result struct {
	Epochs  int
	Loss    float64
	Stopped bool
}

// Fit trains n for up to epochs passes over examples. Each epoch calls Train
// once per example in the given order. After each epoch the mean squared
// error over examples is passed to every callback.
//
// Fit returns early with ctx.Err() if ctx is cancelled between epochs.
// OnTrainEnd runs on every exit path once OnTrainBegin has succeeded.
func Fit(ctx context.Context, n *net.Network, examples []Example, epochs int, callbacks ...Callback) (res Result, err error) {
	if epochs <= 0 {
		return res, fmt.Errorf("trainer: epochs must be > 0 (got %d)", epochs)
	}
	if len(examples) == 0 {
		return res, errors.New("trainer: no examples")
	}

	for i, cb := range callbacks {
		if err := cb.OnTrainBegin(n); err != nil {
			for _, started := range callbacks[:i] {
				_ = started.OnTrainEnd(n)
			}
			return res, err
		}
	}
	defer func() {
		for _, cb := range callbacks {
			if endErr := cb.OnTrainEnd(n); endErr != nil && err == nil {
				err = endErr
			}
		}
	}()

	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		for i, ex := range examples {
			if err := n.Train(ex.Inputs, ex.Targets); err != nil {
				return res, fmt.Errorf("trainer: epoch %d example %d: %w", epoch, i, err)
			}
		}

		epochLoss, err := Evaluate(n, examples)
		if err != nil {
			return res, err
		}
		res.Epochs = epoch + 1
		res.Loss = epochLoss

		stop := false
		for _, cb := range callbacks {
			if err := cb.OnEpochEnd(epoch, epochLoss, n); err != nil {
				return res, err
			}
			if s, ok := cb.(Stopper); ok && s.ShouldStop() {
				stop = true
			}
		}
		if stop {
			res.Stopped = epoch+1 < epochs
			return res, nil
		}
	}
	return res, nil
}

// Evaluate returns the mean squared error of n over examples.
func Evaluate(n *net.Network, examples []Example) (float64, error) {
	if len(examples) == 0 {
		return 0, nil
	}
	var total float64
	for i, ex := range examples {
		pred, err := n.Predict(ex.Inputs)
		if err != nil {
			return 0, fmt.Errorf("trainer: example %d: %w", i, err)
		}
		if len(ex.Targets) != len(pred) {
			return 0, fmt.Errorf("trainer: example %d: %w: targets have length %d, want %d",
				i, net.ErrShapeMismatch, len(ex.Targets), len(pred))
		}
		total += loss.MSE{}.Forward(pred, ex.Targets)
	}
	return total / float64(len(examples)), nil
}
