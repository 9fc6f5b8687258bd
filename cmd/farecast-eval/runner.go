// README: Evaluation steps: load, cross-validate, hold out, report.
package main

import (
	"context"
	"fmt"
	"time"

	"farecast/internal/infra"
	"farecast/internal/ml/boost"
	"farecast/internal/ml/metrics"
	"farecast/internal/modules/comparison"
	"farecast/internal/modules/trips"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	table *trips.Table
	row   comparison.Row
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type step struct {
	Name string
	Run  func(*Runner, context.Context) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, row: comparison.Row{Model: "HistGradientBoosting (this run)"}}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	steps := []step{
		{Name: "load dataset", Run: (*Runner).load},
		{Name: "cross-validate", Run: (*Runner).crossValidate},
		{Name: "held-out evaluation", Run: (*Runner).holdOut},
	}
	results := make([]Result, 0, len(steps))
	failed := false
	for _, s := range steps {
		var res Result
		if failed {
			res = Result{Status: statusSkip, Note: "previous step failed"}
		} else {
			start := time.Now()
			res = s.Run(r, ctx)
			res.Latency = time.Since(start)
		}
		res.Name = s.Name
		failed = failed || res.Status == statusFail
		results = append(results, res)

		fmt.Printf("%-7s %s", res.Status, res.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if !failed {
		fmt.Println("\n== Comparison ==")
		fmt.Print(comparison.Format(append(comparison.Rows(), r.row)))
	}
	return results
}

func (r *Runner) load(ctx context.Context) Result {
	opts := trips.LoadOptions{Provider: r.cfg.Provider}
	var src trips.Source = trips.FileSource{Path: r.cfg.DatasetPath}
	if r.cfg.DSN != "" {
		db, err := infra.NewDB(ctx, r.cfg.DSN)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		defer db.Close()
		src = trips.PostgresSource{Store: trips.NewStore(db, r.cfg.TripsTable)}
	}
	tbl, err := src.Load(ctx, opts)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	r.table = tbl
	return Result{Status: statusPass, Note: fmt.Sprintf("%s: %d of %d rows kept", src.Name(), tbl.Len(), tbl.RawRows())}
}

func (r *Runner) split() (train, test []int) {
	return metrics.TrainTestSplit(r.table.Len(), r.cfg.TestFraction, r.cfg.Params.Seed)
}

func (r *Runner) crossValidate(ctx context.Context) Result {
	X, y := r.table.Matrix()
	train, _ := r.split()
	Xtr, ytr := subset(X, y, train)

	rmse, err := cvRMSE(ctx, Xtr, ytr, r.cfg.Params, r.cfg.Folds)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	r.row.CVRMSE = &rmse
	return Result{Status: statusPass, Note: fmt.Sprintf("%d folds, mean RMSE %.4f", r.cfg.Folds, rmse)}
}

func (r *Runner) holdOut(ctx context.Context) Result {
	X, y := r.table.Matrix()
	train, test := r.split()
	Xtr, ytr := subset(X, y, train)
	Xte, yte := subset(X, y, test)

	m, err := boost.Fit(Xtr, ytr, r.cfg.Params)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	rep, err := metrics.Evaluate(m.PredictBatch(Xte), yte)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	r.row.TestRMSE, r.row.TestMAE, r.row.TestR2 = rep.RMSE, rep.MAE, rep.R2
	return Result{Status: statusPass, Note: fmt.Sprintf("RMSE %.4f MAE %.4f R2 %.4f (%d iterations)", rep.RMSE, rep.MAE, rep.R2, m.NIter())}
}

// cvRMSE returns the mean RMSE over k folds.
func cvRMSE(ctx context.Context, X [][]float64, y []float64, p boost.Params, k int) (float64, error) {
	folds := metrics.KFold(len(y), k, p.Seed)
	if folds == nil {
		return 0, fmt.Errorf("cannot split %d rows into %d folds", len(y), k)
	}
	total := 0.0
	for i, f := range folds {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		Xtr, ytr := subset(X, y, f.Train)
		Xte, yte := subset(X, y, f.Test)
		m, err := boost.Fit(Xtr, ytr, p)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", i+1, err)
		}
		rmse, err := metrics.RMSE(m.PredictBatch(Xte), yte)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", i+1, err)
		}
		total += rmse
	}
	return total / float64(len(folds)), nil
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	Xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		Xs[i], ys[i] = X[j], y[j]
	}
	return Xs, ys
}
