// Package activations provides the logistic activation used by both layers.
package activations

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid is the logistic function 1 / (1 + e^-x).
type Sigmoid struct{}

// sigmoid computes the sigmoid function
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes y * (1 - y) where y is an already activated value.
// Passing a pre-activation here gives a wrong slope.
func (s Sigmoid) Derivative(y float64) float64 {
	return y * (1 - y)
}

// ActivateVec applies sigmoid to every element of v in place.
func (s Sigmoid) ActivateVec(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, sigmoid(v.AtVec(i)))
	}
}

// SlopeVec stores y * (1 - y) for every element of y into dst.
// dst is resized to y's length when it is empty.
func (s Sigmoid) SlopeVec(dst, y *mat.VecDense) {
	if dst.IsEmpty() {
		dst.ReuseAsVec(y.Len())
	}
	for i := 0; i < y.Len(); i++ {
		yi := y.AtVec(i)
		dst.SetVec(i, yi*(1-yi))
	}
}
