package trainer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Example is one (inputs, targets) training pair.
type Example struct {
	Inputs  []float64
	Targets []float64
}

// XOR returns the four XOR examples in the fixed order 00, 01, 10, 11.
func XOR() []Example {
	return []Example{
		{Inputs: []float64{0, 0}, Targets: []float64{0}},
		{Inputs: []float64{0, 1}, Targets: []float64{1}},
		{Inputs: []float64{1, 0}, Targets: []float64{1}},
		{Inputs: []float64{1, 1}, Targets: []float64{0}},
	}
}

// LoadCSV reads examples from CSV data. The first numInputs columns of each
// row are inputs and the remaining columns are targets.
// hasHeader skips the first line if true.
func LoadCSV(r io.Reader, numInputs int, hasHeader bool) ([]Example, error) {
	if numInputs <= 0 {
		return nil, fmt.Errorf("numInputs must be > 0 (got %d)", numInputs)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}
	if len(records) <= startRow {
		return nil, errors.New("csv has no data rows")
	}

	numCols := len(records[startRow])
	if numCols <= numInputs {
		return nil, fmt.Errorf("csv has %d columns, need more than %d to hold targets", numCols, numInputs)
	}

	examples := make([]Example, 0, len(records)-startRow)
	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, fmt.Errorf("inconsistent number of columns at row %d", i)
		}

		values := make([]float64, numCols)
		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value at row %d, col %d: %w", i, j, err)
			}
			values[j] = val
		}
		examples = append(examples, Example{
			Inputs:  values[:numInputs:numInputs],
			Targets: values[numInputs:],
		})
	}
	return examples, nil
}

// Normalize performs min-max normalization of the inputs in place.
// Constant columns become 0.
func Normalize(examples []Example) {
	if len(examples) == 0 {
		return
	}

	numFeatures := len(examples[0].Inputs)
	lo := make([]float64, numFeatures)
	hi := make([]float64, numFeatures)
	copy(lo, examples[0].Inputs)
	copy(hi, examples[0].Inputs)

	for _, ex := range examples {
		for i, val := range ex.Inputs {
			if val < lo[i] {
				lo[i] = val
			}
			if val > hi[i] {
				hi[i] = val
			}
		}
	}

	for _, ex := range examples {
		for i := range ex.Inputs {
			diff := hi[i] - lo[i]
			if diff != 0 {
				ex.Inputs[i] = (ex.Inputs[i] - lo[i]) / diff
			} else {
				ex.Inputs[i] = 0
			}
		}
	}
}
