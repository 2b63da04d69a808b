package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags that control output verbosity and config lookup.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// engineFlags mirror the engine configuration. Zero values are not
// "unset": cliFlags.changed records what the user actually passed.
type engineFlags struct {
	maxWeight           int
	extensions          []string
	baseDir             string
	deleteAfterEncoding bool
	pattern             string
	anchored            bool
	timeout             string
}

// cliFlags holds every flag of the cssbase64 command.
type cliFlags struct {
	common  commonFlags
	engine  engineFlags
	output  string
	workers int
	noColor bool
	version bool
	help    bool

	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every reference")
}

// addEngineFlags adds flags that map onto cssbase64.Config.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.IntVar(&f.maxWeight, "max-weight", 0, "largest resource to embed, in bytes (0 = no limit)")
	fs.StringSliceVar(&f.extensions, "extensions", nil, "allowed extensions, e.g. .png,.svg (empty = all)")
	fs.StringVar(&f.baseDir, "base-dir", "", "directory prepended to references")
	fs.BoolVar(&f.deleteAfterEncoding, "delete-after-encoding", false, "delete local files once embedded")
	fs.StringVar(&f.pattern, "pattern", "", "custom reference pattern (group 1 = reference)")
	fs.BoolVar(&f.anchored, "anchored", false, "replace only inside the matched url(...)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "remote fetch timeout (e.g., 10s, 1m)")
}

// parseFlags parses the command line (args[0] is the program name) and
// returns the positional stylesheet paths.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("cssbase64", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (empty = rewrite in place)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel documents (0 = auto)")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored log output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")

	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	fs.Usage = func() { printUsage(stderr) }

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}
