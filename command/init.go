package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultInitConfigName is the default name used for the example HCL
// config file.
const DefaultInitConfigName = "simulator.hcl"

// DefaultInitDataDir is the default name used for the example empirical
// distribution data directory.
const DefaultInitDataDir = "data"

// InitCommand writes an example HCL config and a matching empirical
// distribution data directory to the current working directory, a
// starting point to customize further.
type InitCommand struct {
	Meta
}

// Help provides the help information for the init command.
func (c *InitCommand) Help() string {
	helpText := `
Usage: faascluster-simulator init

  Writes an example config file (simulator.hcl) and a matching data/
  directory of empirical distribution files to the current directory, a
  starting point to customize further with real workload traces.
`
	return strings.TrimSpace(helpText)
}

// Synopsis provides a brief summary of the init command.
func (c *InitCommand) Synopsis() string {
	return "Create an example simulator config and data directory"
}

// Run writes the example config file and data directory.
func (c *InitCommand) Run(args []string) int {
	if len(args) != 0 {
		c.UI.Error(c.Help())
		return 1
	}

	if err := c.writeIfAbsent(DefaultInitConfigName, []byte(exampleConfig)); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(fmt.Sprintf("Example config written to %s", DefaultInitConfigName))

	for name, contents := range exampleDataFiles {
		path := filepath.Join(DefaultInitDataDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			c.UI.Error(fmt.Sprintf("Failed to create '%s': %v", filepath.Dir(path), err))
			return 1
		}
		if err := c.writeIfAbsent(path, []byte(contents)); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}
	c.UI.Output(fmt.Sprintf("Example distribution data written to %s/", DefaultInitDataDir))

	return 0
}

func (c *InitCommand) writeIfAbsent(path string, contents []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("'%s' already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat '%s': %w", path, err)
	}

	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

var exampleConfig = strings.TrimSpace(`
duration                 = 3600
job_lifetime              = 600
job_interarrival          = 5
job_invocation_rate       = 1
node_capacity             = 1000
defragmentation_interval  = 60
state_mul                 = 100
arg_mul                   = 10
seed_init                 = 0
seed_end                  = 20
concurrency               = 4
policy                    = "stateful-best-fit"
data_dir                  = "data"
output                    = "results.csv"
log_level                 = "INFO"
`) + "\n"

// exampleDataFiles seeds a runnable data/ directory: flat histograms for
// the unconditioned distributions, and one file per conditioning key for
// the two conditional distributions.
var exampleDataFiles = map[string]string{
	"task_num":      "1 1\n5 4\n10 3\n20 1\n",
	"task_cpu":      "1 2\n5 4\n20 2\n50 1\n",
	"task_mem":      "1 2\n10 4\n50 2\n200 1\n",
	"task_duration": "0.1 1\n1 4\n5 3\n30 1\n",
	"job_interval":  "1 1\n5 3\n10 1\n",
	"cpl/1":         "1 1\n",
	"cpl/5":         "1 1\n2 3\n3 2\n",
	"cpl/20":        "2 1\n4 3\n6 2\n",
	"level/1":       "1 1\n2 2\n3 1\n",
	"level/3":       "1 1\n3 3\n5 1\n",
}
