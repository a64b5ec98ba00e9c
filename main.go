package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"disttest/filestore"
	"disttest/framework"
	"disttest/harness"
	"disttest/runner"
	"disttest/smoketests"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	id, isWorker, err := runner.IdentityFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid worker identity: %s\n", err)
		os.Exit(1)
	}
	if isWorker {
		os.Exit(runWorker(params, id))
	}
	os.Exit(runParent(params))
}

// runParent spawns one copy of this binary per rank, forwarding its own
// command line so that every worker sees the same filters and settings.
func runParent(params commandParams) int {
	cfg := runner.DefaultConfig()
	if params.configPath != "" {
		loaded, err := runner.LoadConfig(params.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config: %s\n", err)
			return 1
		}
		cfg = loaded
	}
	if params.worldSize > 0 {
		cfg.WorldSize = params.worldSize
	}
	if params.backend != "" {
		cfg.Backend = params.backend
	}
	if params.timeout > 0 {
		cfg.TimeoutSeconds = int((params.timeout + time.Second - 1) / time.Second)
	}
	if params.dir != "" {
		cfg.RendezvousDir = params.dir
	}
	if cfg.RendezvousDir == "" {
		dir, err := os.MkdirTemp("", "disttest-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create rendezvous directory: %s\n", err)
			return 1
		}
		defer os.RemoveAll(dir)
		cfg.RendezvousDir = dir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	framework.PrintFilterDescription(os.Stdout, params.filters)
	fmt.Printf("Running distributed test suite with world size %d\n", cfg.WorldSize)

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not locate own executable: %s\n", err)
		return 1
	}
	r := &runner.Runner{
		Command:       workerCommand(exe, cfg, params),
		WorldSize:     cfg.WorldSize,
		RendezvousDir: cfg.RendezvousDir,
		Output:        os.Stdout,
		Logger:        &framework.PrefixedLogger{Dest: os.Stdout},
	}
	results, err := r.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runner error: %s\n", err)
		return 1
	}

	fmt.Println()
	ok := true
	for _, wr := range results {
		if wr.Err != nil {
			fmt.Printf("rank %d: FAILED (%s)\n", wr.Rank, wr.Err)
			ok = false
		} else {
			fmt.Printf("rank %d: passed\n", wr.Rank)
		}
	}
	if !ok {
		return 1
	}
	return 0
}

// workerCommand builds the command line for each worker process: the same
// binary, with the effective settings spelled out as flags so that workers do
// not need to re-read the config file.
func workerCommand(exe string, cfg runner.Config, params commandParams) []string {
	command := []string{exe, "-timeout", cfg.Timeout().String()}
	if cfg.Backend != "" {
		command = append(command, "-backend", cfg.Backend)
	}
	for _, p := range params.filters.MustMatch.Patterns() {
		command = append(command, "-run", p)
	}
	for _, p := range params.filters.MustNotMatch.Patterns() {
		command = append(command, "-skip", p)
	}
	if params.debug || cfg.Debug {
		command = append(command, "-debug")
	}
	if params.debugAll {
		command = append(command, "-debug-all")
	}
	return command
}

// runWorker runs the built-in suite under the identity the parent assigned to
// this process.
func runWorker(params commandParams, id runner.Identity) int {
	timeout := params.timeout
	if timeout <= 0 {
		timeout = filestore.DefaultTimeout
	}
	debugLogger := framework.NullLogger()
	if params.debugAll {
		debugLogger = &framework.PrefixedLogger{
			Dest: os.Stdout, Prefix: fmt.Sprintf("[rank %d debug] ", id.Rank)}
	}

	transport := &filestore.Transport{Timeout: timeout, Logger: debugLogger}
	rpcLayer := &filestore.RPCLayer{Timeout: timeout, Logger: debugLogger}
	// Teardown failures must always be reported, not only in debug mode.
	opts := []harness.Option{harness.WithLogger(&framework.PrefixedLogger{
		Dest: os.Stdout, Prefix: fmt.Sprintf("[rank %d] ", id.Rank)})}
	if params.backend != "" {
		opts = append(opts, harness.WithBackend(harness.Backend(params.backend)))
	}
	h, err := harness.New(transport, rpcLayer, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Harness error: %s\n", err)
		return 1
	}

	testLogger := &framework.ConsoleTestLogger{
		Rank:                 id.Rank,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := smoketests.RunTestSuite(h, id, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		return 1
	}
	return 0
}
