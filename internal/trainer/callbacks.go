package trainer

import (
	"log"
	"math"

	"github.com/FlavioCFOliveira/shallownet/internal/net"
)

// Callback observes a training run.
type Callback interface {
	OnTrainBegin(n *net.Network) error
	OnEpochEnd(epoch int, loss float64, n *net.Network) error
	OnTrainEnd(n *net.Network) error
}

// Stopper is implemented by callbacks that can end training early.
// Fit consults it after every OnEpochEnd.
type Stopper interface {
	ShouldStop() bool
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (BaseCallback) OnTrainBegin(n *net.Network) error                        { return nil }
func (BaseCallback) OnEpochEnd(epoch int, loss float64, n *net.Network) error { return nil }
func (BaseCallback) OnTrainEnd(n *net.Network) error                          { return nil }

// Logger logs training progress every Interval epochs to Log, or to the
// standard logger when Log is nil. The last epoch of a run is always logged.
// A zero Interval disables logging.
type Logger struct {
	BaseCallback
	Interval int
	Log      *log.Logger

	lastEpoch int
	lastLoss  float64
	pending   bool
}

func (c *Logger) printf(format string, args ...any) {
	if c.Log != nil {
		c.Log.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (c *Logger) OnTrainBegin(n *net.Network) error {
	c.pending = false
	return nil
}

func (c *Logger) OnEpochEnd(epoch int, loss float64, n *net.Network) error {
	if c.Interval <= 0 {
		return nil
	}
	c.lastEpoch, c.lastLoss = epoch, loss
	c.pending = epoch%c.Interval != 0
	if !c.pending {
		c.printf("epoch=%d loss=%.6f", epoch, loss)
	}
	return nil
}

func (c *Logger) OnTrainEnd(n *net.Network) error {
	if c.pending {
		c.printf("epoch=%d loss=%.6f", c.lastEpoch, c.lastLoss)
		c.pending = false
	}
	return nil
}

// EarlyStopping stops training when the loss has not improved by more than
// Threshold for Patience consecutive epochs, or once it drops to Target.
// A zero Patience or Target disables that condition.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64
	Target    float64

	bestLoss     float64
	numBadEpochs int
	stopped      bool
	stoppedAt    int
}

// NewEarlyStopping creates an EarlyStopping callback.
func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestLoss:  math.Inf(1),
	}
}

func (c *EarlyStopping) OnTrainBegin(n *net.Network) error {
	c.bestLoss = math.Inf(1)
	c.numBadEpochs = 0
	c.stopped = false
	c.stoppedAt = 0
	return nil
}

func (c *EarlyStopping) OnEpochEnd(epoch int, loss float64, n *net.Network) error {
	if loss < c.bestLoss-c.Threshold {
		c.bestLoss = loss
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if (c.Patience > 0 && c.numBadEpochs >= c.Patience) || (c.Target > 0 && loss <= c.Target) {
		c.stopped = true
		c.stoppedAt = epoch
	}
	return nil
}

// ShouldStop reports whether training should end.
func (c *EarlyStopping) ShouldStop() bool {
	return c.stopped
}

// StoppedAt returns the epoch at which the stop condition was met.
func (c *EarlyStopping) StoppedAt() int {
	return c.stoppedAt
}
