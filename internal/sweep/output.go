package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var trialHeader = []string{
	"ratio", "look_ahead", "total_curvature", "avg_curvature",
	"samples", "max_curvature", "stddev_curvature", "clamped", "error",
}

// WriteTrialsCSV writes one row per trial, failed trials included.
func WriteTrialsCSV(w io.Writer, trials []Trial) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trialHeader); err != nil {
		return err
	}
	for _, t := range trials {
		errText := ""
		if t.Err != nil {
			errText = t.Err.Error()
		}
		row := []string{
			strconv.FormatFloat(t.Ratio, 'f', -1, 64),
			strconv.Itoa(t.LookAhead),
			fmt.Sprintf("%.6f", t.Score.Total),
			fmt.Sprintf("%.6f", t.Score.Average),
			strconv.Itoa(t.Score.Samples),
			fmt.Sprintf("%.6f", t.Score.Max),
			fmt.Sprintf("%.6f", t.Score.StdDev),
			strconv.Itoa(t.Clamped),
			errText,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary renders both best configurations in a human readable form.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "trials: %d (%d failed)\n", len(r.Trials), r.Failed)
	if r.BestByTotal == nil {
		b.WriteString("no successful trials\n")
		return b.String()
	}
	t := r.BestByTotal
	fmt.Fprintf(&b, "min total curvature: %.4f  avg: %.4f  ratio: %g  look_ahead: %d\n",
		t.Score.Total, t.Score.Average, t.Ratio, t.LookAhead)
	t = r.BestByAverage
	fmt.Fprintf(&b, "min avg curvature:   %.4f  total: %.4f  ratio: %g  look_ahead: %d\n",
		t.Score.Average, t.Score.Total, t.Ratio, t.LookAhead)
	return b.String()
}
