package command

import (
	"fmt"
	"strings"
	"time"

	metrics "github.com/armon/go-metrics"

	"github.com/faascluster/simulator/config"
	"github.com/faascluster/simulator/internal/batch"
	"github.com/faascluster/simulator/internal/engine"
	"github.com/faascluster/simulator/internal/sampler"
	"github.com/faascluster/simulator/internal/simerrors"
	"github.com/faascluster/simulator/logging"
	"github.com/faascluster/simulator/notifier"
)

// SimulateCommand runs a seed range of the discrete-event simulator and
// writes one CSV row per seed.
type SimulateCommand struct {
	Meta
	args []string
}

// Help provides the help information for the simulate command.
func (c *SimulateCommand) Help() string {
	helpText := `
Usage: faascluster-simulator simulate [options]

  Runs the FaaS cluster placement simulator over a half-open range of
  seeds [seed-init, seed-end) and appends one CSV summary row per seed
  to the output file.

  General Options:

    -config=<path>
      Path to an HCL config file. CLI flags override values it sets.

    -duration=<seconds>
    -job-lifetime=<seconds>
    -job-interarrival=<seconds>
    -job-invocation-rate=<invocations/sec>
    -node-capacity=<units>
    -defragmentation-interval=<seconds>
    -state-mul=<factor>
    -arg-mul=<factor>
    -seed-init=<int>
    -seed-end=<int>
    -concurrency=<n>
    -policy=<name>
      One of stateless-min-nodes, stateless-max-balancing,
      stateful-best-fit, stateful-random.
    -data-dir=<path>
      Directory of empirical distribution files.
    -output=<path>
    -append
    -additional-fields=<csv>
    -additional-header=<csv>
    -log-level=<level>
    -pagerduty-service-key=<key>
`
	return strings.TrimSpace(helpText)
}

// Synopsis provides a brief summary of the simulate command.
func (c *SimulateCommand) Synopsis() string {
	return "Run the FaaS cluster placement simulator over a seed range"
}

// Run parses flags, loads the distribution registry, and runs the batch.
func (c *SimulateCommand) Run(args []string) int {
	c.args = args

	cfg := c.parseFlags()
	if cfg == nil {
		return 1
	}

	if err := cfg.Validate(); err != nil {
		c.UI.Error(fmt.Sprintf("invalid configuration: %v", err))
		return 1
	}

	logging.SetLevel(cfg.LogLevel)

	if err := setupTelemetry(cfg.Telemetry); err != nil {
		c.UI.Error(fmt.Sprintf("failed to initialize telemetry: %v", err))
		return 1
	}

	reg, err := sampler.LoadRegistry(cfg.DataDir)
	if err != nil {
		c.UI.Error(fmt.Sprintf("failed to load distribution data: %v", err))
		return exitCodeFor(err)
	}

	var notify notifier.Notifier
	if cfg.PagerDutyServiceKey != "" {
		notify, err = notifier.NewProvider("pagerduty", map[string]string{
			"PagerDutyServiceKey": cfg.PagerDutyServiceKey,
		})
		if err != nil {
			c.UI.Error(fmt.Sprintf("failed to initialize notifier: %v", err))
			return 1
		}
	}

	logging.Info("command/simulate: running seeds [%d, %d) with concurrency %d, policy %s",
		cfg.SeedInit, cfg.SeedEnd, cfg.Concurrency, cfg.Policy)

	runErr := batch.Run(batch.Params{
		SeedInit:    cfg.SeedInit,
		SeedEnd:     cfg.SeedEnd,
		Concurrency: cfg.Concurrency,
		Template: engine.Params{
			Duration:          cfg.Duration,
			JobLifetime:       cfg.JobLifetime,
			JobInterarrival:   cfg.JobInterarrival,
			JobInvocationRate: cfg.JobInvocationRate,
			NodeCapacity:      cfg.NodeCapacity,
			DefragInterval:    cfg.DefragmentationInterval,
			StateMul:          cfg.StateMul,
			ArgMul:            cfg.ArgMul,
			Policy:            cfg.Policy,
			Registry:          reg,
		},
		OutputPath:       cfg.Output,
		Append:           cfg.Append,
		AdditionalFields: cfg.AdditionalFieldsSlice(),
		AdditionalHeader: cfg.AdditionalHeaderSlice(),
		Notifier:         notify,
	})
	if runErr != nil {
		c.UI.Error(fmt.Sprintf("batch run failed: %v", runErr))
		return exitCodeFor(runErr)
	}

	logging.Info("command/simulate: batch complete")
	return 0
}

func (c *SimulateCommand) parseFlags() *config.Config {
	cliConfig := &config.Config{Telemetry: &config.Telemetry{}}

	fs, configPath := config.FlagSet("simulate", cliConfig)
	fs.Usage = func() { c.UI.Error(c.Help()) }

	if err := fs.Parse(c.args); err != nil {
		return nil
	}

	cfg := config.DefaultConfig()

	if *configPath != "" {
		fileConfig, err := config.ParseFile(*configPath)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error loading configuration from %s: %v", *configPath, err))
			return nil
		}
		cfg = cfg.Merge(fileConfig)
	}

	return cfg.Merge(cliConfig)
}

// setupTelemetry wires internal/metrics's package-level IncrCounter/SetGauge
// calls to an in-memory sink, and additionally to statsd when an address
// is configured.
func setupTelemetry(t *config.Telemetry) error {
	inm := metrics.NewInmemSink(10*time.Second, time.Minute)
	metrics.DefaultInmemSignal(inm)

	metricsConf := metrics.DefaultConfig("faascluster-simulator")

	var fanout metrics.FanoutSink
	if t != nil && t.StatsdAddress != "" {
		sink, err := metrics.NewStatsdSink(t.StatsdAddress)
		if err != nil {
			return err
		}
		fanout = append(fanout, sink)
	}

	if len(fanout) > 0 {
		fanout = append(fanout, inm)
		metrics.NewGlobal(metricsConf, fanout)
	} else {
		metricsConf.EnableHostname = false
		metrics.NewGlobal(metricsConf, inm)
	}
	return nil
}

// exitCodeFor maps a simerrors error kind to its process exit code.
// Config/data errors and unrecognized errors exit 1; an I/O error,
// already retried once by internal/batch, exits 2. An internal invariant
// violation is its own kind of bug, not a bad input, and is given its
// own exit code, 3, as an explicit extension beyond the documented 0/1/2.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *simerrors.IOError:
		return 2
	case *simerrors.Invariant:
		return 3
	default:
		return 1
	}
}
