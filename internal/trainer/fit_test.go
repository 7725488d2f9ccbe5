package trainer

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/shallownet/internal/net"
)

func newXORNet(t *testing.T, seed int64) *net.Network {
	t.Helper()
	n, err := net.New(2, 4, 1, 0.5, net.WithSeed(seed))
	require.NoError(t, err)
	return n
}

// recorder captures every callback invocation.
type recorder struct {
	began, ended int
	losses       []float64
	failBegin    error
	failEpoch    error
}

func (r *recorder) OnTrainBegin(n *net.Network) error {
	r.began++
	return r.failBegin
}

func (r *recorder) OnEpochEnd(epoch int, loss float64, n *net.Network) error {
	r.losses = append(r.losses, loss)
	return r.failEpoch
}

func (r *recorder) OnTrainEnd(n *net.Network) error {
	r.ended++
	return nil
}

// TestFitCallbacks tests callback ordering and the reported loss.
func TestFitCallbacks(t *testing.T) {
	n := newXORNet(t, 1)
	rec := &recorder{}

	res, err := Fit(context.Background(), n, XOR(), 50, rec)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.began)
	assert.Equal(t, 1, rec.ended)
	assert.Len(t, rec.losses, 50)
	assert.Equal(t, 50, res.Epochs)
	assert.False(t, res.Stopped)

	final, err := Evaluate(n, XOR())
	require.NoError(t, err)
	assert.Equal(t, final, res.Loss)
	assert.Equal(t, rec.losses[len(rec.losses)-1], res.Loss)
}

// TestFitMatchesManualLoop tests Fit performs exactly one Train per example
// per epoch in order.
func TestFitMatchesManualLoop(t *testing.T) {
	a := newXORNet(t, 5)
	b := newXORNet(t, 5)

	_, err := Fit(context.Background(), a, XOR(), 25)
	require.NoError(t, err)

	for epoch := 0; epoch < 25; epoch++ {
		for _, ex := range XOR() {
			require.NoError(t, b.Train(ex.Inputs, ex.Targets))
		}
	}
	assert.True(t, a.Params().Equal(b.Params()))
}

// TestFitXOR tests the end-to-end XOR scenario reduces the loss.
func TestFitXOR(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping XOR training in short mode")
	}
	n := newXORNet(t, 2)

	before, err := Evaluate(n, XOR())
	require.NoError(t, err)

	res, err := Fit(context.Background(), n, XOR(), 10000)
	require.NoError(t, err)
	assert.Equal(t, 10000, res.Epochs)
	assert.Less(t, res.Loss, before)
}

// TestFitInvalidArguments tests argument validation.
func TestFitInvalidArguments(t *testing.T) {
	n := newXORNet(t, 1)

	_, err := Fit(context.Background(), n, XOR(), 0)
	assert.Error(t, err)

	_, err = Fit(context.Background(), n, nil, 10)
	assert.Error(t, err)
}

// TestFitShapeMismatch tests network errors are wrapped with position.
func TestFitShapeMismatch(t *testing.T) {
	n := newXORNet(t, 1)
	bad := append(XOR(), Example{Inputs: []float64{1}, Targets: []float64{0}})
	rec := &recorder{}

	_, err := Fit(context.Background(), n, bad, 3, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, net.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "epoch 0 example 4")
	assert.Equal(t, 1, rec.ended)
}

// TestFitCancelled tests a cancelled context ends training.
func TestFitCancelled(t *testing.T) {
	n := newXORNet(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}

	res, err := Fit(ctx, n, XOR(), 100, rec)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Epochs)
	assert.Equal(t, 1, rec.ended)
}

// TestFitCallbackErrors tests errors from callbacks abort the run.
func TestFitCallbackErrors(t *testing.T) {
	boom := errors.New("boom")

	first := &recorder{}
	failing := &recorder{failBegin: boom}
	_, err := Fit(context.Background(), newXORNet(t, 1), XOR(), 10, first, failing)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.ended, "callbacks already begun must be ended")
	assert.Equal(t, 0, failing.ended)

	epochFail := &recorder{failEpoch: boom}
	res, err := Fit(context.Background(), newXORNet(t, 1), XOR(), 10, epochFail)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, res.Epochs)
	assert.Equal(t, 1, epochFail.ended)
}

// TestEarlyStoppingTarget tests stopping once the loss reaches the target.
func TestEarlyStoppingTarget(t *testing.T) {
	n := newXORNet(t, 3)
	es := NewEarlyStopping(0, 0)
	es.Target = 1

	res, err := Fit(context.Background(), n, XOR(), 100, es)
	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Equal(t, 1, res.Epochs)
	assert.Equal(t, 0, es.StoppedAt())
}

// TestEarlyStoppingPatience tests patience counting.
func TestEarlyStoppingPatience(t *testing.T) {
	es := NewEarlyStopping(2, 0.01)
	require.NoError(t, es.OnTrainBegin(nil))

	for epoch, l := range []float64{0.5, 0.4, 0.399, 0.398} {
		require.NoError(t, es.OnEpochEnd(epoch, l, nil))
	}
	assert.True(t, es.ShouldStop())
	assert.Equal(t, 3, es.StoppedAt())

	require.NoError(t, es.OnTrainBegin(nil))
	assert.False(t, es.ShouldStop())
}

// TestLogger tests the interval, the final epoch line and the line format.
func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		epochs int
		want   []string
	}{
		{"final epoch off interval", 25, []string{"epoch=0 ", "epoch=10 ", "epoch=20 ", "epoch=24 "}},
		{"final epoch on interval", 21, []string{"epoch=0 ", "epoch=10 ", "epoch=20 "}},
		{"single epoch", 1, []string{"epoch=0 "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := &Logger{Interval: 10, Log: log.New(&buf, "", 0)}

			_, err := Fit(context.Background(), newXORNet(t, 1), XOR(), tt.epochs, lg)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, len(tt.want))
			for i, prefix := range tt.want {
				assert.True(t, strings.HasPrefix(lines[i], prefix+"loss="), "line %d: %q", i, lines[i])
			}
		})
	}
}

// TestLoggerStoppedEarly tests the stopping epoch is logged.
func TestLoggerStoppedEarly(t *testing.T) {
	var buf bytes.Buffer
	lg := &Logger{Interval: 100, Log: log.New(&buf, "", 0)}
	es := NewEarlyStopping(0, 0)
	es.Target = 10

	res, err := Fit(context.Background(), newXORNet(t, 1), XOR(), 1000, lg, es)
	require.NoError(t, err)
	require.True(t, res.Stopped)
	assert.Equal(t, "epoch=0 loss=", buf.String()[:len("epoch=0 loss=")])
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

// TestEvaluateShapeMismatch tests target length validation.
func TestEvaluateShapeMismatch(t *testing.T) {
	_, err := Evaluate(newXORNet(t, 1), []Example{{Inputs: []float64{0, 0}, Targets: []float64{0, 1}}})
	assert.ErrorIs(t, err, net.ErrShapeMismatch)

	v, err := Evaluate(newXORNet(t, 1), nil)
	require.NoError(t, err)
	assert.Zero(t, v)
}
