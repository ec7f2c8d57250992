package sampler

import (
	"math/rand"

	"github.com/faascluster/simulator/helper"
)

// Sampler binds a shared, read-only Registry to one simulation's private
// *rand.Rand. Every simulation in a batch gets its own Sampler seeded from
// its own seed, so draws from one simulation never perturb another's
// sequence, keeping the batch's concurrency level invisible to its output.
type Sampler struct {
	reg *Registry
	rng *rand.Rand
}

// New builds a Sampler over reg, seeded with seed.
func New(reg *Registry, seed int64) *Sampler {
	return &Sampler{reg: reg, rng: rand.New(rand.NewSource(seed))}
}

// TaskCount draws the number of tasks N in a job's DAG.
func (s *Sampler) TaskCount() int {
	return round(s.reg.TaskNum.Draw(s.rng))
}

// CriticalPathLength draws the critical-path length C for a DAG with n
// tasks, conditioned on n and capped at maxCPLConditioning.
func (s *Sampler) CriticalPathLength(n int) int {
	return round(s.reg.CPL.Draw(s.rng, n))
}

// LevelWidth draws one level's task count, conditioned on the DAG's
// critical-path length c and capped at maxLevelConditioning.
func (s *Sampler) LevelWidth(c int) int {
	return round(s.reg.Level.Draw(s.rng, c))
}

// TaskCPU draws a task's CPU requirement in fungible capacity units.
func (s *Sampler) TaskCPU() float64 {
	return s.reg.TaskCPU.Draw(s.rng)
}

// TaskMem draws a task's base memory footprint, the shared basis for both
// its state and argument sizes: state and argument sizes are independent
// draws against this one distribution, scaled by distinct multipliers.
func (s *Sampler) TaskMem() float64 {
	return s.reg.TaskMem.Draw(s.rng)
}

// TaskDuration draws a task's execution duration in seconds.
func (s *Sampler) TaskDuration() float64 {
	return s.reg.TaskDuration.Draw(s.rng)
}

// JobInterval draws a job's inter-arrival time from the optional empirical
// distribution. ok is false when data/job_interval was not supplied, in
// which case the caller falls back to the configured mean inter-arrival.
func (s *Sampler) JobInterval() (value float64, ok bool) {
	if s.reg.JobInterval == nil {
		return 0, false
	}
	return s.reg.JobInterval.Draw(s.rng), true
}

// Float64 exposes the simulation's private generator directly, for uniform
// [0, 1) draws outside the named distributions.
func (s *Sampler) Float64() float64 { return s.rng.Float64() }

// Intn exposes bounded integer draws from the same private generator.
func (s *Sampler) Intn(n int) int { return s.rng.Intn(n) }

func round(v float64) int {
	return helper.Max(int(v+0.5), 1)
}
