// Package sampler loads the empirical distribution files and draws
// weighted samples from them, using a per-simulation seeded *rand.Rand
// so that two runs of the same (config, seed) produce bit-identical
// output regardless of how many simulations run concurrently.
package sampler

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/faascluster/simulator/helper"
	"github.com/faascluster/simulator/internal/simerrors"
)

// Conditional caps: the conditioning integer saturates at these values
// rather than growing the file set without bound.
const (
	maxCPLConditioning   = 35
	maxLevelConditioning = 20
)

// Conditional is a family of histograms indexed by an integer conditioning
// value (the task count for cpl, the cpl for level width). Conditioning
// values above the cap saturate to the cap; conditioning values with no
// exact file fall back to the nearest smaller one that was loaded.
type Conditional struct {
	byKey map[int]*Histogram
	keys  []int // sorted ascending, for nearest-below lookups
	cap   int
}

// Draw saturates cond to the cap, then draws from the histogram at the
// largest loaded key <= cond (or the smallest loaded key, if cond falls
// below every key that was loaded).
func (c *Conditional) Draw(rng *rand.Rand, cond int) float64 {
	cond = helper.Min(cond, c.cap)

	idx := sort.Search(len(c.keys), func(i int) bool { return c.keys[i] > cond }) - 1
	if idx < 0 {
		idx = 0
	}

	return c.byKey[c.keys[idx]].Draw(rng)
}

// loadConditional reads every file in dir, each named after its integer
// conditioning key (e.g. "0", "1", "17"), into a Conditional.
func loadConditional(dir string, cap int) (*Conditional, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	c := &Conditional{byKey: make(map[int]*Histogram), cap: cap}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		h, err := LoadHistogram(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		c.byKey[key] = h
		c.keys = append(c.keys, key)
	}
	if len(c.keys) == 0 {
		return nil, &os.PathError{Op: "loadConditional", Path: dir, Err: os.ErrNotExist}
	}
	sort.Ints(c.keys)
	return c, nil
}

// Registry holds every distribution the DAG generator needs to build a
// job: the task-count histogram, the two conditional histograms that shape
// a DAG's levels, and the per-task resource/duration histograms. It is
// loaded once at startup and shared read-only across every simulation in
// the batch; concurrent Draw calls are safe because Draw never mutates the
// Registry, only the caller-supplied *rand.Rand.
type Registry struct {
	TaskNum      *Histogram
	CPL          *Conditional // keyed by task count N
	Level        *Conditional // keyed by cpl C
	TaskCPU      *Histogram
	TaskMem      *Histogram
	TaskDuration *Histogram
	JobInterval  *Histogram // optional; nil if data/job_interval is absent
}

// LoadRegistry loads every required distribution file from dataDir. The
// six required distributions are fatal (simerrors.DataError) if missing
// or unparsable; job_interval is optional.
func LoadRegistry(dataDir string) (*Registry, error) {
	r := &Registry{}

	required := []struct {
		name string
		dst  **Histogram
	}{
		{"task_cpu", &r.TaskCPU},
		{"task_mem", &r.TaskMem},
		{"task_duration", &r.TaskDuration},
	}
	for _, req := range required {
		path := filepath.Join(dataDir, req.name)
		h, err := LoadHistogram(path)
		if err != nil {
			return nil, simerrors.NewDataError(path, err)
		}
		*req.dst = h
	}

	taskNumPath := filepath.Join(dataDir, "task_num")
	h, err := LoadHistogram(taskNumPath)
	if err != nil {
		return nil, simerrors.NewDataError(taskNumPath, err)
	}
	r.TaskNum = h

	cplDir := filepath.Join(dataDir, "cpl")
	cpl, err := loadConditional(cplDir, maxCPLConditioning)
	if err != nil {
		return nil, simerrors.NewDataError(cplDir, err)
	}
	r.CPL = cpl

	levelDir := filepath.Join(dataDir, "level")
	level, err := loadConditional(levelDir, maxLevelConditioning)
	if err != nil {
		return nil, simerrors.NewDataError(levelDir, err)
	}
	r.Level = level

	jobIntervalPath := filepath.Join(dataDir, "job_interval")
	if _, statErr := os.Stat(jobIntervalPath); statErr == nil {
		h, err := LoadHistogram(jobIntervalPath)
		if err != nil {
			return nil, simerrors.NewDataError(jobIntervalPath, err)
		}
		r.JobInterval = h
	}

	return r, nil
}
