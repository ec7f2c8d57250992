// Package config defines the simulator's configuration struct and the
// default/merge/validate machinery around it: compiled-in defaults, an
// optional HCL file, then CLI flags, each layer overriding the last.
package config

import (
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

// Policy names recognized by --policy.
const (
	PolicyStatelessMinNodes     = "stateless-min-nodes"
	PolicyStatelessMaxBalancing = "stateless-max-balancing"
	PolicyStatefulBestFit       = "stateful-best-fit"
	PolicyStatefulRandom        = "stateful-random"
)

var validPolicies = map[string]bool{
	PolicyStatelessMinNodes:     true,
	PolicyStatelessMaxBalancing: true,
	PolicyStatefulBestFit:       true,
	PolicyStatefulRandom:        true,
}

// Telemetry controls the optional runtime telemetry sink. If StatsdAddress
// is empty, telemetry is only aggregated in-memory and never shipped.
type Telemetry struct {
	StatsdAddress string `mapstructure:"statsd_address"`
}

// Merge merges two Telemetry configurations, non-zero fields of b winning.
func (t *Telemetry) Merge(b *Telemetry) *Telemetry {
	if b == nil {
		return t
	}
	merged := *t
	if b.StatsdAddress != "" {
		merged.StatsdAddress = b.StatsdAddress
	}
	return &merged
}

// Config is the fully-resolved simulator configuration: the union of the
// simulation CLI flags plus the ambient concerns (logging, telemetry,
// alerting) every component here carries.
type Config struct {
	// Duration is the simulated horizon in seconds.
	Duration float64 `mapstructure:"duration"`

	// JobLifetime is the fixed lifetime, in seconds, applied to every job.
	JobLifetime float64 `mapstructure:"job_lifetime"`

	// JobInterarrival is the mean/fixed inter-arrival time in seconds.
	JobInterarrival float64 `mapstructure:"job_interarrival"`

	// JobInvocationRate is invocations per second per job.
	JobInvocationRate float64 `mapstructure:"job_invocation_rate"`

	// NodeCapacity is the fungible per-node capacity ceiling.
	NodeCapacity float64 `mapstructure:"node_capacity"`

	// DefragmentationInterval is the seconds between defrag ticks; 0 disables.
	DefragmentationInterval float64 `mapstructure:"defragmentation_interval"`

	// StateMul scales task_mem draws into task state sizes.
	StateMul float64 `mapstructure:"state_mul"`

	// ArgMul scales task_mem draws into argument sizes.
	ArgMul float64 `mapstructure:"arg_mul"`

	// SeedInit is the first seed of the half-open batch range.
	SeedInit int64 `mapstructure:"seed_init"`

	// SeedEnd is the exclusive end of the batch seed range.
	SeedEnd int64 `mapstructure:"seed_end"`

	// Concurrency bounds the number of simulations run in parallel.
	Concurrency int `mapstructure:"concurrency"`

	// Policy names the placement policy to use (see Policy* constants).
	Policy string `mapstructure:"policy"`

	// DataDir is the directory containing the empirical distribution files.
	DataDir string `mapstructure:"data_dir"`

	// Output is the CSV output path.
	Output string `mapstructure:"output"`

	// Append, when true, appends to Output rather than truncating it.
	Append bool `mapstructure:"append"`

	// AdditionalFields/AdditionalHeader are verbatim CSV prefix strings.
	AdditionalFields string `mapstructure:"additional_fields"`
	AdditionalHeader string `mapstructure:"additional_header"`

	// LogLevel is the level at which the simulator should log from.
	LogLevel string `mapstructure:"log_level"`

	// PagerDutyServiceKey, if set, routes internal invariant violations to
	// PagerDuty before the batch aborts.
	PagerDutyServiceKey string `mapstructure:"pagerduty_service_key"`

	// Telemetry controls the optional runtime telemetry sink.
	Telemetry *Telemetry `mapstructure:"telemetry"`
}

// DefaultConfig returns a configuration struct with sane defaults; it is
// never a valid, runnable configuration on its own (Duration, JobLifetime,
// NodeCapacity, etc. are required flags with no sane default).
func DefaultConfig() *Config {
	return &Config{
		JobInvocationRate: 1,
		Concurrency:       4,
		DataDir:           "data",
		LogLevel:          "INFO",
		Telemetry:         &Telemetry{},
	}
}

// Merge merges two configurations, non-zero fields of b winning over c;
// only overwrite fields the override actually set.
func (c *Config) Merge(b *Config) *Config {
	if b == nil {
		return c
	}
	merged := *c

	if b.Duration != 0 {
		merged.Duration = b.Duration
	}
	if b.JobLifetime != 0 {
		merged.JobLifetime = b.JobLifetime
	}
	if b.JobInterarrival != 0 {
		merged.JobInterarrival = b.JobInterarrival
	}
	if b.JobInvocationRate != 0 {
		merged.JobInvocationRate = b.JobInvocationRate
	}
	if b.NodeCapacity != 0 {
		merged.NodeCapacity = b.NodeCapacity
	}
	if b.DefragmentationInterval != 0 {
		merged.DefragmentationInterval = b.DefragmentationInterval
	}
	if b.StateMul != 0 {
		merged.StateMul = b.StateMul
	}
	if b.ArgMul != 0 {
		merged.ArgMul = b.ArgMul
	}
	if b.SeedInit != 0 {
		merged.SeedInit = b.SeedInit
	}
	if b.SeedEnd != 0 {
		merged.SeedEnd = b.SeedEnd
	}
	if b.Concurrency != 0 {
		merged.Concurrency = b.Concurrency
	}
	if b.Policy != "" {
		merged.Policy = b.Policy
	}
	if b.DataDir != "" {
		merged.DataDir = b.DataDir
	}
	if b.Output != "" {
		merged.Output = b.Output
	}
	if b.Append {
		merged.Append = b.Append
	}
	if b.AdditionalFields != "" {
		merged.AdditionalFields = b.AdditionalFields
	}
	if b.AdditionalHeader != "" {
		merged.AdditionalHeader = b.AdditionalHeader
	}
	if b.LogLevel != "" {
		merged.LogLevel = b.LogLevel
	}
	if b.PagerDutyServiceKey != "" {
		merged.PagerDutyServiceKey = b.PagerDutyServiceKey
	}

	if merged.Telemetry == nil && b.Telemetry != nil {
		telemetry := *b.Telemetry
		merged.Telemetry = &telemetry
	} else if b.Telemetry != nil {
		merged.Telemetry = merged.Telemetry.Merge(b.Telemetry)
	}

	return &merged
}

// Validate checks the configuration for configuration errors: missing
// required flags, nonpositive numerics, and an unknown policy name. All
// problems found are aggregated rather than
// returned one at a time.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Duration <= 0 {
		result = multierror.Append(result, errRequired("duration"))
	}
	if c.JobLifetime <= 0 {
		result = multierror.Append(result, errRequired("job-lifetime"))
	}
	if c.JobInterarrival <= 0 {
		result = multierror.Append(result, errRequired("job-interarrival"))
	}
	if c.JobInvocationRate <= 0 {
		result = multierror.Append(result, errRequired("job-invocation-rate"))
	}
	if c.NodeCapacity <= 0 {
		result = multierror.Append(result, errRequired("node-capacity"))
	}
	if c.DefragmentationInterval < 0 {
		result = multierror.Append(result, errInvalid("defragmentation-interval", "must be >= 0"))
	}
	if c.StateMul <= 0 {
		result = multierror.Append(result, errRequired("state-mul"))
	}
	if c.ArgMul <= 0 {
		result = multierror.Append(result, errRequired("arg-mul"))
	}
	if c.SeedEnd <= c.SeedInit {
		result = multierror.Append(result, errInvalid("seed-init/seed-end", "seed-end must be greater than seed-init"))
	}
	if c.Concurrency <= 0 {
		result = multierror.Append(result, errRequired("concurrency"))
	}
	if c.Output == "" {
		result = multierror.Append(result, errRequired("output"))
	}
	if c.DataDir == "" {
		result = multierror.Append(result, errRequired("data-dir"))
	}
	if !validPolicies[c.Policy] {
		result = multierror.Append(result, errInvalid("policy",
			"must be one of "+strings.Join(policyNames(), ", ")))
	}

	return result.ErrorOrNil()
}

func policyNames() []string {
	return []string{
		PolicyStatelessMinNodes,
		PolicyStatelessMaxBalancing,
		PolicyStatefulBestFit,
		PolicyStatefulRandom,
	}
}

func errRequired(flag string) error {
	return &validationError{flag: flag, reason: "is required and must be positive"}
}

func errInvalid(flag, reason string) error {
	return &validationError{flag: flag, reason: reason}
}

type validationError struct {
	flag   string
	reason string
}

func (e *validationError) Error() string {
	return "--" + e.flag + " " + e.reason
}
