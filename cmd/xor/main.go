package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/FlavioCFOliveira/shallownet/internal/boundary"
	"github.com/FlavioCFOliveira/shallownet/internal/config"
	"github.com/FlavioCFOliveira/shallownet/internal/net"
	"github.com/FlavioCFOliveira/shallownet/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults to the XOR demo)")
	hidden := flag.Int("hidden", 0, "Number of hidden units")
	learningRate := flag.Float64("lr", 0, "Learning rate")
	epochs := flag.Int("epochs", 0, "Number of training epochs")
	logEvery := flag.Int("log-every", 0, "Log every N epochs")
	seed := flag.Int64("seed", 0, "PRNG seed (0 picks one from the clock)")
	dataset := flag.String("dataset", "", "CSV dataset (defaults to XOR)")
	numInputs := flag.Int("inputs", 0, "Number of input columns in the dataset")
	csvLog := flag.String("csv-log", "", "Write per-epoch loss to this CSV file")
	boundaryPNG := flag.String("boundary", "", "Write the decision boundary to this PNG file")
	predict := flag.String("predict", "", `Predict custom inputs after training, e.g. "0.2,0.9;1,0"`)

	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	cfg.ApplyOverrides(config.Overrides{
		HiddenSize:   *hidden,
		LearningRate: *learningRate,
		Epochs:       *epochs,
		LogEvery:     *logEvery,
		Seed:         *seed,
		Dataset:      *dataset,
		NumInputs:    *numInputs,
		CSVLog:       *csvLog,
		BoundaryPNG:  *boundaryPNG,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	examples, err := loadExamples(cfg)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	in, out := len(examples[0].Inputs), len(examples[0].Targets)
	network, err := net.New(in, cfg.HiddenSize, out, cfg.LearningRate, net.WithSeed(cfg.Seed))
	if err != nil {
		log.Fatalf("failed to create network: %v", err)
	}
	log.Printf("network=%d-%d-%d learning_rate=%g epochs=%d examples=%d seed=%d",
		in, cfg.HiddenSize, out, cfg.LearningRate, cfg.Epochs, len(examples), cfg.Seed)

	callbacks := []trainer.Callback{&trainer.Logger{Interval: cfg.LogEvery}}
	if cfg.CSVLog != "" {
		cl := trainer.NewCSVLogger(cfg.CSVLog, false)
		cl.Interval = cfg.LogEvery
		callbacks = append(callbacks, cl)
	}
	if cfg.TargetLoss > 0 {
		es := trainer.NewEarlyStopping(0, 0)
		es.Target = cfg.TargetLoss
		callbacks = append(callbacks, es)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := trainer.Fit(ctx, network, examples, cfg.Epochs, callbacks...)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	log.Printf("training complete epochs=%d loss=%.6f stopped=%t elapsed=%s",
		res.Epochs, res.Loss, res.Stopped, time.Since(start).Round(time.Millisecond))

	fmt.Println("\nTesting the trained network:")
	for _, ex := range examples {
		pred, err := network.Predict(ex.Inputs)
		if err != nil {
			log.Fatalf("predict: %v", err)
		}
		fmt.Printf("Input: %v, Prediction: %.4f, Expected: %v\n", ex.Inputs, pred, ex.Targets)
	}

	if *predict != "" {
		points, err := parsePoints(*predict, network.InputSize())
		if err != nil {
			log.Fatalf("invalid -predict: %v", err)
		}
		fmt.Println("\nCustom inputs:")
		for _, p := range points {
			pred, err := network.Predict(p)
			if err != nil {
				log.Fatalf("predict: %v", err)
			}
			fmt.Printf("Input: %v, Prediction: %.4f\n", p, pred)
		}
	}

	if cfg.BoundaryPNG != "" {
		if err := writeBoundary(network, cfg.BoundaryPNG, cfg.BoundaryResolution); err != nil {
			log.Fatalf("failed to write decision boundary: %v", err)
		}
		log.Printf("decision boundary written to %s", cfg.BoundaryPNG)
	}
}

func loadExamples(cfg *config.Config) ([]trainer.Example, error) {
	if cfg.Dataset == "" {
		return trainer.XOR(), nil
	}
	f, err := os.Open(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	examples, err := trainer.LoadCSV(f, cfg.NumInputs, cfg.HasHeader)
	if err != nil {
		return nil, err
	}
	if cfg.Normalize {
		trainer.Normalize(examples)
	}
	return examples, nil
}

// parsePoints parses semicolon separated points of n comma separated values.
func parsePoints(s string, n int) ([][]float64, error) {
	var points [][]float64
	for i, field := range strings.Split(s, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		parts := strings.Split(field, ",")
		if len(parts) != n {
			return nil, fmt.Errorf("point %d has %d values, want %d", i, len(parts), n)
		}
		p := make([]float64, n)
		for j, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("point %d value %d: %w", i, j, err)
			}
			p[j] = v
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no points in %q", s)
	}
	return points, nil
}

func writeBoundary(n *net.Network, path string, resolution int) error {
	grid, err := boundary.Sample(n, resolution)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := boundary.WritePNG(f, grid); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
