package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/cli"
)

func TestInitCommandWritesConfigAndDataDir(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Chdir(cwd)

	ui := cli.NewMockUi()
	c := &InitCommand{Meta: Meta{UI: ui}}

	if code := c.Run(nil); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, ui.ErrorWriter.String())
	}

	if _, err := os.Stat(filepath.Join(dir, DefaultInitConfigName)); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	for name := range exampleDataFiles {
		if _, err := os.Stat(filepath.Join(dir, DefaultInitDataDir, name)); err != nil {
			t.Fatalf("expected data file %s to exist: %v", name, err)
		}
	}
}

func TestInitCommandRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Chdir(cwd)

	ui := cli.NewMockUi()
	c := &InitCommand{Meta: Meta{UI: ui}}

	if code := c.Run(nil); code != 0 {
		t.Fatalf("expected first run to succeed, got %d", code)
	}
	if code := c.Run(nil); code == 0 {
		t.Fatalf("expected second run to refuse to overwrite")
	}
}
