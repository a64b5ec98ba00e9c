package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"disttest/framework"
)

type commandParams struct {
	configPath string
	dir        string
	worldSize  int
	backend    string
	timeout    time.Duration
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.configPath, "config", "", "path to a YAML run configuration file")
	fs.StringVar(&c.dir, "dir", "", "shared rendezvous directory (default: a fresh temp directory)")
	fs.IntVar(&c.worldSize, "world-size", 0, "number of worker processes to spawn")
	fs.StringVar(&c.backend, "backend", "", "rpc backend override for all workers")
	fs.DurationVar(&c.timeout, "timeout", 0, "rendezvous timeout")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}
