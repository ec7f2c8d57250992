package batch

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/faascluster/simulator/internal/engine"
	"github.com/faascluster/simulator/internal/simerrors"
)

// csvHeader lists the fixed output columns, after any user-specified
// additional-header prefix.
var csvHeader = []string{
	"seed",
	"mean_nodes",
	"peak_nodes",
	"mean_utilization",
	"p95_utilization",
	"total_network_bytes",
	"defrag_network_bytes",
	"jobs_completed",
	"invocations",
}

// writer serializes CSV rows from concurrent batch workers behind a
// single mutex; writes are serialized but row ordering across seeds is
// not guaranteed.
type writer struct {
	mu  sync.Mutex
	f   *os.File
	csv *csv.Writer
}

// newWriter opens path: append mode writes the header only if the file
// did not already exist; truncate mode always writes the header first.
func newWriter(path string, appendMode bool, additionalHeader []string) (*writer, error) {
	var needHeader bool
	var f *os.File
	var err error

	if appendMode {
		_, statErr := os.Stat(path)
		needHeader = os.IsNotExist(statErr)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	} else {
		needHeader = true
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	}
	if err != nil {
		return nil, simerrors.NewIOError(path, err)
	}

	w := &writer{f: f, csv: csv.NewWriter(f)}

	if needHeader {
		row := append2(additionalHeader, csvHeader)
		if err := w.writeRaw(row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return w, nil
}

// WriteRow formats one seed's result as a CSV row, retrying the write
// once on failure before surfacing a fatal *simerrors.IOError.
func (w *writer) WriteRow(result engine.Result, additionalFields []string) error {
	s := result.Summary
	row := append2(additionalFields, []string{
		strconv.FormatInt(result.Seed, 10),
		formatFloat(s.MeanNodes),
		strconv.Itoa(s.PeakNodes),
		formatFloat(s.UtilizationMean),
		formatFloat(s.UtilizationP95),
		formatFloat(s.InvocationNetworkBytes + s.DefragNetworkBytes),
		formatFloat(s.DefragNetworkBytes),
		strconv.Itoa(result.JobsCompleted),
		strconv.Itoa(s.InvocationCount),
	})

	err := w.writeRaw(row)
	if err != nil {
		err = w.writeRaw(row) // retry once before giving up
	}
	return err
}

func (w *writer) writeRaw(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.csv.Write(row); err != nil {
		return simerrors.NewIOError(w.f.Name(), err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return simerrors.NewIOError(w.f.Name(), err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.csv.Flush()
	return w.f.Close()
}

// formatFloat renders a value with at least 6 significant digits, fixed
// point.
func formatFloat(v float64) string {
	decimals := 6
	if a := math.Abs(v); a > 0 && a < 0.1 {
		decimals = 5 - int(math.Floor(math.Log10(a)))
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func append2(prefix []string, rest []string) []string {
	out := make([]string, 0, len(prefix)+len(rest))
	out = append(out, prefix...)
	out = append(out, rest...)
	return out
}
