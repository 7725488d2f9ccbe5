// Package loss provides the error measures used to monitor training.
package loss

import "gonum.org/v1/gonum/floats"

// Loss measures how far a prediction is from its target.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) float64
}

// SumSquared is the summed squared error: sum((y_true - y_pred)^2).
type SumSquared struct{}

// Forward computes sum((y_true - y_pred)^2)
func (SumSquared) Forward(yPred, yTrue []float64) float64 {
	if len(yPred) != len(yTrue) {
		panic("SumSquared: prediction and target must have same length")
	}
	diff := make([]float64, len(yPred))
	floats.SubTo(diff, yTrue, yPred)
	return floats.Dot(diff, diff)
}

// MSE (Mean Squared Error) loss.
type MSE struct{}

// Forward computes mean squared error: (1/n) * sum((y_pred - y_true)^2)
func (MSE) Forward(yPred, yTrue []float64) float64 {
	n := len(yPred)
	if n != len(yTrue) {
		panic("MSE: prediction and target must have same length")
	}
	if n == 0 {
		return 0
	}
	return SumSquared{}.Forward(yPred, yTrue) / float64(n)
}
