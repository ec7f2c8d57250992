package main

import (
	"fmt"
	"os"

	"github.com/faascluster/simulator/version"
	"github.com/mitchellh/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	c := cli.NewCLI("faascluster-simulator", version.Get())
	c.Args = args
	c.Commands = Commands(nil)

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error executing CLI: %v\n", err)
		return 1
	}

	return exitCode
}
