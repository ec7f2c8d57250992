package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/cli"

	"github.com/faascluster/simulator/internal/sampler/testutil"
)

func TestSimulateCommandRunsEndToEnd(t *testing.T) {
	tmp := t.TempDir()
	dataDir := testutil.DataDir(t)
	output := filepath.Join(tmp, "out.csv")

	ui := cli.NewMockUi()
	c := &SimulateCommand{Meta: Meta{UI: ui}}

	code := c.Run([]string{
		"-duration=20",
		"-job-lifetime=10",
		"-job-interarrival=3",
		"-job-invocation-rate=1",
		"-node-capacity=1000",
		"-state-mul=1",
		"-arg-mul=1",
		"-seed-init=0",
		"-seed-end=2",
		"-concurrency=2",
		"-policy=stateless-min-nodes",
		"-data-dir=" + dataDir,
		"-output=" + output,
	})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, ui.ErrorWriter.String())
	}

	contents, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unexpected error reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), contents)
	}
}

func TestSimulateCommandRejectsInvalidConfig(t *testing.T) {
	ui := cli.NewMockUi()
	c := &SimulateCommand{Meta: Meta{UI: ui}}

	code := c.Run([]string{"-duration=0"})
	if code == 0 {
		t.Fatalf("expected a nonzero exit for an incomplete configuration")
	}
}

func TestSimulateCommandUnknownDataDirIsDataError(t *testing.T) {
	tmp := t.TempDir()
	ui := cli.NewMockUi()
	c := &SimulateCommand{Meta: Meta{UI: ui}}

	code := c.Run([]string{
		"-duration=20",
		"-job-lifetime=10",
		"-job-interarrival=3",
		"-job-invocation-rate=1",
		"-node-capacity=1000",
		"-state-mul=1",
		"-arg-mul=1",
		"-seed-init=0",
		"-seed-end=1",
		"-concurrency=1",
		"-policy=stateless-min-nodes",
		"-data-dir=" + filepath.Join(tmp, "does-not-exist"),
		"-output=" + filepath.Join(tmp, "out.csv"),
	})
	if code != 1 {
		t.Fatalf("expected exit 1 for a missing data directory, got %d", code)
	}
}
