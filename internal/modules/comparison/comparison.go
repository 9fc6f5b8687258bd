// README: Offline model comparison results shown next to the live estimator.
package comparison

import (
	"fmt"
	"strings"
)

const BestModel = "HistGradientBoosting"

// Row holds one algorithm's evaluation. CVRMSE is nil when cross-validation was not run.
type Row struct {
	Model    string   `json:"model"`
	CVRMSE   *float64 `json:"rmse_cv"`
	TestRMSE float64  `json:"rmse_test"`
	TestMAE  float64  `json:"mae_test"`
	TestR2   float64  `json:"r2_test"`
	Best     bool     `json:"best"`
}

func cv(v float64) *float64 { return &v }

var rows = []Row{
	{Model: "Linear Regression", CVRMSE: cv(2.4045), TestRMSE: 2.3944, TestMAE: 1.6377, TestR2: 0.9208},
	{Model: "Random Forest", CVRMSE: cv(2.2313), TestRMSE: 2.1744, TestMAE: 1.4702, TestR2: 0.9347},
	{Model: "SVR", CVRMSE: cv(2.0952), TestRMSE: 2.0292, TestMAE: 1.2048, TestR2: 0.9431},
	{Model: "AdaBoost", CVRMSE: cv(4.3347), TestRMSE: 4.3274, TestMAE: 3.3622, TestR2: 0.7413},
	{Model: BestModel, CVRMSE: cv(1.8679), TestRMSE: 1.8483, TestMAE: 1.1390, TestR2: 0.9528, Best: true},
	{Model: "Bagging", CVRMSE: cv(1.9586), TestRMSE: 1.9474, TestMAE: 1.2055, TestR2: 0.9476},
	{Model: "Stacking", TestRMSE: 1.8486, TestMAE: 1.1379, TestR2: 0.9528},
}

// Rows returns the seven comparison rows in display order.
func Rows() []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r
		if r.CVRMSE != nil {
			out[i].CVRMSE = cv(*r.CVRMSE)
		}
	}
	return out
}

// Best returns the highlighted model's row.
func Best() Row {
	for _, r := range Rows() {
		if r.Best {
			return r
		}
	}
	return Row{}
}

var header = []string{"Model", "RMSE_CV", "RMSE_test", "MAE_test", "R2_test"}

// Cells renders the row with 4-decimal precision; a missing CV value renders empty.
func (r Row) Cells() []string {
	cvCell := ""
	if r.CVRMSE != nil {
		cvCell = fmt.Sprintf("%.4f", *r.CVRMSE)
	}
	return []string{
		r.Model,
		cvCell,
		fmt.Sprintf("%.4f", r.TestRMSE),
		fmt.Sprintf("%.4f", r.TestMAE),
		fmt.Sprintf("%.4f", r.TestR2),
	}
}

// Format renders rows as an aligned text table, marking the best row with '*'.
func Format(rs []Row) string {
	all := [][]string{header}
	for _, r := range rs {
		all = append(all, r.Cells())
	}
	widths := make([]int, len(header))
	for _, cells := range all {
		for i, c := range cells {
			widths[i] = max(widths[i], len(c))
		}
	}

	var b strings.Builder
	for n, cells := range all {
		mark := " "
		if n > 0 && rs[n-1].Best {
			mark = "*"
		}
		b.WriteString(mark)
		for i, c := range cells {
			if i == 0 {
				fmt.Fprintf(&b, " %-*s", widths[i], c)
			} else {
				fmt.Fprintf(&b, "  %*s", widths[i], c)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
