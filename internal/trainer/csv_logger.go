package trainer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/FlavioCFOliveira/shallownet/internal/net"
)

// CSVLogger writes one epoch,loss,time_seconds row every Interval epochs.
// Interval values below 2 log every epoch.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool
	Interval int

	file   *os.File
	writer *csv.Writer
	start  time.Time
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

func (c *CSVLogger) OnTrainBegin(n *net.Network) error {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0o644)
	if err != nil {
		return fmt.Errorf("csv logger: open %s: %w", c.Filename, err)
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	// Header only for new or truncated files.
	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		if err := c.writer.Write([]string{"epoch", "loss", "time_seconds"}); err != nil {
			c.abort()
			return fmt.Errorf("csv logger: write header: %w", err)
		}
		c.writer.Flush()
	}
	if err := c.writer.Error(); err != nil {
		c.abort()
		return fmt.Errorf("csv logger: write header: %w", err)
	}
	return nil
}

// abort closes the file after a failed OnTrainBegin; Fit does not call
// OnTrainEnd for a callback that failed to begin.
func (c *CSVLogger) abort() {
	if c.file != nil {
		_ = c.file.Close()
	}
	c.file = nil
	c.writer = nil
}

func (c *CSVLogger) OnEpochEnd(epoch int, loss float64, n *net.Network) error {
	if c.writer == nil {
		return nil
	}
	if c.Interval > 1 && epoch%c.Interval != 0 {
		return nil
	}

	elapsed := time.Since(c.start).Seconds()
	record := []string{
		strconv.Itoa(epoch),
		strconv.FormatFloat(loss, 'f', 6, 64),
		strconv.FormatFloat(elapsed, 'f', 2, 64),
	}

	if err := c.writer.Write(record); err != nil {
		return fmt.Errorf("csv logger: write record: %w", err)
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSVLogger) OnTrainEnd(n *net.Network) error {
	if c.file == nil {
		return nil
	}
	c.writer.Flush()
	werr := c.writer.Error()
	cerr := c.file.Close()
	c.file = nil
	c.writer = nil
	if werr != nil {
		return fmt.Errorf("csv logger: flush: %w", werr)
	}
	return cerr
}
