// README: Offline evaluation; cross-validates the fare model on a dataset and prints it next to the reference comparison.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"farecast/internal/ml/boost"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)
	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	DatasetPath  string
	DSN          string
	TripsTable   string
	Provider     string
	Folds        int
	TestFraction float64
	Timeout      time.Duration
	Params       boost.Params
}

func loadConfig() Config {
	var cfg Config
	cfg.Params = boost.DefaultParams()
	flag.StringVar(&cfg.DatasetPath, "dataset", envOrDefault("FARE_DATASET_PATH", "data/rideshare_kaggle.csv"), "CSV dataset path")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("FARE_DB_DSN"), "Postgres DSN; when set the dataset is read from the trips table")
	flag.StringVar(&cfg.TripsTable, "table", envOrDefault("FARE_DB_TRIPS_TABLE", "rideshare_trips"), "Postgres trips table")
	flag.StringVar(&cfg.Provider, "provider", envOrDefault("FARE_PROVIDER", "Uber"), "Cab type to keep")
	flag.IntVar(&cfg.Folds, "folds", envOrDefaultInt("FARE_EVAL_FOLDS", 5), "Cross-validation folds")
	flag.Float64Var(&cfg.TestFraction, "test-fraction", envOrDefaultFloat("FARE_EVAL_TEST_FRACTION", 0.2), "Held-out fraction")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("FARE_EVAL_TIMEOUT", 30*time.Minute), "Total timeout")
	flag.IntVar(&cfg.Params.MaxIter, "max-iter", cfg.Params.MaxIter, "Boosting iterations")
	flag.Float64Var(&cfg.Params.LearningRate, "learning-rate", cfg.Params.LearningRate, "Learning rate")
	flag.IntVar(&cfg.Params.MaxDepth, "max-depth", cfg.Params.MaxDepth, "Maximum tree depth")
	flag.Int64Var(&cfg.Params.Seed, "seed", cfg.Params.Seed, "Random seed")
	flag.Parse()
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
