// Package testutil builds disposable data directories for sampler and DAG
// generator tests: spin up a fixture, hand back its path, let t.TempDir
// handle cleanup.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// DataDir writes a complete, valid set of distribution files to a temp
// directory and returns its path. The caller does not need to call any
// cleanup function: t.TempDir() removes the directory automatically at
// the end of the test.
func DataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	writeHistogram(t, filepath.Join(dir, "task_num"), map[float64]float64{
		1: 1, 2: 4, 5: 10, 10: 6, 20: 2,
	})
	writeHistogram(t, filepath.Join(dir, "task_cpu"), map[float64]float64{
		1: 5, 2: 10, 4: 3,
	})
	writeHistogram(t, filepath.Join(dir, "task_mem"), map[float64]float64{
		64: 4, 128: 8, 256: 2,
	})
	writeHistogram(t, filepath.Join(dir, "task_duration"), map[float64]float64{
		1: 2, 5: 6, 30: 1,
	})
	writeHistogram(t, filepath.Join(dir, "job_interval"), map[float64]float64{
		2: 1, 10: 3,
	})

	cplDir := filepath.Join(dir, "cpl")
	if err := os.MkdirAll(cplDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", cplDir, err)
	}
	for _, n := range []int{1, 2, 5, 10, 20} {
		writeHistogram(t, filepath.Join(cplDir, fmt.Sprint(n)), map[float64]float64{
			1: 3, 2: 5, 3: 2,
		})
	}

	levelDir := filepath.Join(dir, "level")
	if err := os.MkdirAll(levelDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", levelDir, err)
	}
	for _, c := range []int{1, 2, 3} {
		writeHistogram(t, filepath.Join(levelDir, fmt.Sprint(c)), map[float64]float64{
			1: 4, 2: 6, 3: 2,
		})
	}

	return dir
}

func writeHistogram(t *testing.T, path string, bins map[float64]float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	for value, weight := range bins {
		if _, err := fmt.Fprintf(f, "%v %v\n", value, weight); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}
