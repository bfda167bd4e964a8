package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/memmaker/collisionpost/engine/assets"
	"github.com/memmaker/collisionpost/engine/config"
	"github.com/memmaker/collisionpost/engine/util"
	"github.com/pkg/errors"
)

type options struct {
	configPath string
	outDir     string
	suffix     string
	report     bool
	watch      bool
	verbose    bool
	paths      []string
	set        map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(opts.configPath); statErr != nil {
		util.LogConfigInfo(logger, fmt.Sprintf("no config at %s, using defaults", opts.configPath))
	}

	paths := opts.paths
	if len(paths) == 0 {
		paths = cfg.Watch.Dirs
	}
	if len(paths) == 0 {
		return errors.New("nothing to import: pass files or directories")
	}

	importer := assets.NewImporter(cfg, logger)
	var dirs []string
	var reports []*assets.Report
	var firstErr error
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrap(err, "collisionpost")
		}
		if info.IsDir() {
			dirs = append(dirs, path)
			imported, err := importer.ImportDir(path)
			reports = append(reports, imported...)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		report, err := importer.ImportFile(path)
		if err != nil {
			util.LogImportError(logger, err.Error())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reports = append(reports, report)
	}
	for _, report := range reports {
		fmt.Fprintf(stdout, "%s: %d collider(s)\n", report.Output, len(report.Colliders))
	}

	if !opts.watch {
		return firstErr
	}
	if firstErr != nil {
		util.LogImportError(logger, "initial import had errors, watching anyway")
	}
	if len(dirs) == 0 {
		return errors.New("-watch needs at least one directory")
	}
	return importer.Watch(ctx, dirs...)
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("collisionpost", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: collisionpost [flags] [file or directory ...]")
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "YAML configuration file")
	fs.StringVar(&opts.outDir, "out", "", "output directory (default: next to the input)")
	fs.StringVar(&opts.suffix, "suffix", "", "suffix appended to output file names")
	fs.BoolVar(&opts.report, "report", true, "write a .colliders.yaml report next to each output")
	fs.BoolVar(&opts.watch, "watch", false, "keep watching the given directories")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.paths = fs.Args()
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// apply overrides the configuration with the flags given on the command line.
func (o options) apply(cfg *config.Config) {
	if o.set["out"] {
		cfg.Output.Dir = o.outDir
	}
	if o.set["suffix"] {
		cfg.Output.Suffix = o.suffix
	}
	if o.set["report"] {
		cfg.Output.Report = o.report
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
}
