// Command epanet converts, inspects and checks EPANET input files and
// decodes EPANET binary results.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/metrics"
)

var (
	errUsage              = errors.New("usage")
	errCheckFailed        = errors.New("model has error-severity violations")
	errConflictingResults = errors.New("darcy_weisbach has no effect when no_convert is set")
)

// env is what every subcommand runs with once its flags are parsed.
type env struct {
	cfg     *Config
	log     logging.Logger
	metrics *metrics.Registry
	stdout  io.Writer
	stderr  io.Writer
}

type command struct {
	usage string
	run   func(e *env, fs *flag.FlagSet, args []string) error
	// flags registers command-specific flags before parsing.
	flags func(fs *flag.FlagSet)
}

var commands = map[string]*command{
	"convert": convertCommand(),
	"summary": summaryCommand(),
	"check":   checkCommand(),
	"results": resultsCommand(),
	"archive": archiveCommand(),
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one subcommand and returns the process exit code: 0 on
// success, 1 on failure and 2 on bad usage.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "epanet: unknown command %q\n", name)
		printUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	metricsPath := fs.String("metrics", "", "write Prometheus metrics in text format to this file")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: epanet %s\n", cmd.usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "epanet: config: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		level, err := logging.LookupLevel(*logLevel)
		if err != nil {
			fmt.Fprintf(stderr, "epanet: %v\n", err)
			return 2
		}
		cfg.LogLevel = level
	}
	if *metricsPath != "" {
		cfg.MetricsFile = *metricsPath
	}

	e := &env{
		cfg:     cfg,
		log:     logging.NewJSONLogger(stderr, cfg.LogLevel).With(logging.Component("epanet"), logging.Operation(name)),
		metrics: metrics.NewRegistry(),
		stdout:  stdout,
		stderr:  stderr,
	}

	start := time.Now()
	err = cmd.run(e, fs, fs.Args())
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordCommand(name, status, time.Since(start))
	if cfg.MetricsFile != "" {
		if merr := e.metrics.WriteTextfile(cfg.MetricsFile); merr != nil {
			e.log.Error("failed to write metrics", logging.Path(cfg.MetricsFile), logging.Error(merr))
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fs.Usage()
		return 2
	default:
		fmt.Fprintf(stderr, "epanet %s: %v\n", name, err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: epanet <command> [flags] [files]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", commands[n].usage)
	}
	fmt.Fprintln(w, "\ncommon flags: -config FILE, -metrics FILE, -log-level LEVEL")
}
