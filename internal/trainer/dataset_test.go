package trainer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestXOR tests the fixed XOR ordering.
func TestXOR(t *testing.T) {
	ex := XOR()
	require.Len(t, ex, 4)
	assert.Equal(t, []float64{0, 0}, ex[0].Inputs)
	assert.Equal(t, []float64{0}, ex[0].Targets)
	assert.Equal(t, []float64{0, 1}, ex[1].Inputs)
	assert.Equal(t, []float64{1}, ex[1].Targets)
	assert.Equal(t, []float64{1, 0}, ex[2].Inputs)
	assert.Equal(t, []float64{1}, ex[2].Targets)
	assert.Equal(t, []float64{1, 1}, ex[3].Inputs)
	assert.Equal(t, []float64{0}, ex[3].Targets)
}

// TestLoadCSV tests parsing of inputs and targets.
func TestLoadCSV(t *testing.T) {
	data := "a,b,y\n0,0,0\n0, 1,1\n1,0,1\n1,1,0\n"
	ex, err := LoadCSV(strings.NewReader(data), 2, true)
	require.NoError(t, err)
	assert.Equal(t, XOR(), ex)

	// Appending to inputs must not overwrite targets.
	ex[0].Inputs = append(ex[0].Inputs, 9)
	assert.Equal(t, []float64{0}, ex[0].Targets)
}

// TestLoadCSVErrors tests malformed input.
func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		numInputs int
		header    bool
	}{
		{"empty", "", 2, false},
		{"header only", "a,b,y\n", 2, true},
		{"no targets", "1,2\n", 2, false},
		{"bad number", "1,x,0\n", 2, false},
		{"ragged", "1,2,0\n1,2\n", 2, false},
		{"zero inputs", "1,2,0\n", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.data), tt.numInputs, tt.header)
			assert.Error(t, err)
		})
	}
}

// TestNormalize tests min-max scaling of inputs.
func TestNormalize(t *testing.T) {
	ex := []Example{
		{Inputs: []float64{2, 5}, Targets: []float64{1}},
		{Inputs: []float64{4, 5}, Targets: []float64{0}},
		{Inputs: []float64{6, 5}, Targets: []float64{1}},
	}
	Normalize(ex)

	assert.Equal(t, []float64{0, 0}, ex[0].Inputs)
	assert.Equal(t, []float64{0.5, 0}, ex[1].Inputs)
	assert.Equal(t, []float64{1, 0}, ex[2].Inputs)
	assert.Equal(t, []float64{1}, ex[0].Targets)

	Normalize(nil)
}
