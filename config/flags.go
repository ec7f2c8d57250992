package config

import (
	"flag"
	"strings"
)

// FlagSet builds a flag.FlagSet that fills in cfg from the simulator's CLI
// flags, plus the ambient --config/--pagerduty-service-key/--statsd-address
// flags. Every flag binds directly into a scratch Config which the caller
// later merges over the defaults/file-derived base config.
func FlagSet(name string, cfg *Config) (*flag.FlagSet, *string) {
	var configPath string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&configPath, "config", "", "path to an optional HCL config file")

	fs.Float64Var(&cfg.Duration, "duration", 0, "simulated horizon in seconds")
	fs.Float64Var(&cfg.JobLifetime, "job-lifetime", 0, "fixed lifetime per job in seconds")
	fs.Float64Var(&cfg.JobInterarrival, "job-interarrival", 0, "mean/fixed inter-arrival time in seconds")
	fs.Float64Var(&cfg.JobInvocationRate, "job-invocation-rate", 0, "invocations per second per job (default 1)")
	fs.Float64Var(&cfg.NodeCapacity, "node-capacity", 0, "per-node capacity in fungible units")
	fs.Float64Var(&cfg.DefragmentationInterval, "defragmentation-interval", 0, "seconds between defrag ticks, 0 disables")
	fs.Float64Var(&cfg.StateMul, "state-mul", 0, "scale factor applied to state-size draws")
	fs.Float64Var(&cfg.ArgMul, "arg-mul", 0, "scale factor applied to argument-size draws")
	fs.Int64Var(&cfg.SeedInit, "seed-init", 0, "first seed of the half-open batch range")
	fs.Int64Var(&cfg.SeedEnd, "seed-end", 0, "exclusive end of the batch seed range")
	fs.IntVar(&cfg.Concurrency, "concurrency", 0, "maximum number of simulations run in parallel")
	fs.StringVar(&cfg.Policy, "policy", "", "placement policy name")
	fs.StringVar(&cfg.DataDir, "data-dir", "", "directory containing empirical distribution files")
	fs.StringVar(&cfg.Output, "output", "", "CSV output path")
	fs.BoolVar(&cfg.Append, "append", false, "append to output rather than truncating it")
	fs.StringVar(&cfg.AdditionalFields, "additional-fields", "", "verbatim comma-separated prefix for each CSV data row")
	fs.StringVar(&cfg.AdditionalHeader, "additional-header", "", "verbatim comma-separated prefix for the CSV header")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.PagerDutyServiceKey, "pagerduty-service-key", "", "PagerDuty service key for invariant-violation alerts")

	if cfg.Telemetry == nil {
		cfg.Telemetry = &Telemetry{}
	}
	fs.StringVar(&cfg.Telemetry.StatsdAddress, "statsd-address", "", "statsd address for optional runtime telemetry")

	return fs, &configPath
}

// AdditionalFieldsSlice splits AdditionalFields on commas, trimming
// whitespace, into the verbatim-prefix columns written ahead of each row.
func (c *Config) AdditionalFieldsSlice() []string {
	return splitCSVPrefix(c.AdditionalFields)
}

// AdditionalHeaderSlice splits AdditionalHeader the same way.
func (c *Config) AdditionalHeaderSlice() []string {
	return splitCSVPrefix(c.AdditionalHeader)
}

func splitCSVPrefix(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
