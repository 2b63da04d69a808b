package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	cssbase64 "github.com/alnah/go-cssbase64"
	"github.com/alnah/go-cssbase64/internal/config"
	"github.com/alnah/go-cssbase64/internal/hints"
	"github.com/alnah/go-cssbase64/internal/logging"
)

// ErrUsage marks command-line mistakes (bad flags, missing arguments).
var ErrUsage = errors.New("usage error")

// Version is set at build time via ldflags.
var Version = "dev"

// run executes the command and returns an error whose exit code is
// chosen by exitCodeFor.
func run(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if flags.help {
		printUsage(env.Stdout)
		return nil
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "cssbase64 %s\n", Version)
		return nil
	}
	if len(inputs) == 0 {
		printUsage(env.Stderr)
		return ErrNoInput
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	verbose := cfg.Verbose && !flags.common.quiet
	engineCfg, err := cfg.ToEngineConfig()
	if err != nil {
		return err
	}
	engineCfg.Verbose = verbose

	logger := newLogger(env, verbose, flags.noColor)
	engine, err := cssbase64.NewEngine(engineCfg, cssbase64.WithLogger(logger))
	if err != nil {
		return err
	}

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w%s", ErrOutputDir, err, hints.ForOutputDirectory())
		}
	}

	workers := resolveWorkers(cfg.Workers)
	if verbose {
		logger.Info("Starting", "documents", len(inputs), "workers", workers)
	}

	results := processBatch(ctx, engine, planFiles(inputs, cfg.Output.Dir), workers)

	failed := printResults(results, flags.common.quiet, verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// resolveConfig layers defaults, the config file, environment variables,
// and flags, in increasing precedence, then validates the result.
func resolveConfig(flags *cliFlags, env *Environment) (*config.Config, error) {
	vars, err := readEnv(env)
	if err != nil {
		return nil, err
	}
	warnUnknownEnvVars(env.Stderr, vars)
	envCfg := loadEnvConfig(vars)

	cfg := &config.Config{}
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w%s", err, configHint(err, configName))
		}
	}

	applyEnvConfig(envCfg, cfg)
	applyFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w%s", err, validationHint(err))
	}
	return cfg, nil
}

func validationHint(err error) string {
	if errors.Is(err, cssbase64.ErrInvalidExtension) || strings.Contains(err.Error(), "extensionsAllowed") {
		return hints.ForExtension()
	}
	return ""
}

func configHint(err error, name string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(name))
	case errors.Is(err, config.ErrConfigParse):
		return hints.ForConfigInvalid()
	default:
		return ""
	}
}

// applyFlags overlays flags the user actually passed.
func applyFlags(f *cliFlags, cfg *config.Config) {
	set := f.changed
	if set == nil {
		set = func(string) bool { return false }
	}

	if set("max-weight") {
		n := f.engine.maxWeight
		cfg.MaxWeightResource = &n
	}
	if set("extensions") {
		cfg.ExtensionsAllowed = f.engine.extensions
	}
	if set("base-dir") {
		cfg.BaseDir = f.engine.baseDir
	}
	if set("delete-after-encoding") {
		cfg.DeleteAfterEncoding = f.engine.deleteAfterEncoding
	}
	if set("pattern") {
		cfg.Pattern = f.engine.pattern
	}
	if set("anchored") {
		cfg.AnchoredSubstitution = f.engine.anchored
	}
	if set("timeout") {
		cfg.Timeout = f.engine.timeout
	}
	if set("output") {
		cfg.Output.Dir = f.output
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if f.common.verbose {
		cfg.Verbose = true
	}
}

// newLogger returns the console logger used for library and CLI messages.
// Without --verbose only warnings reach the terminal.
func newLogger(env *Environment, verbose, noColor bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return logging.New(env.Stderr, &logging.Options{Level: level, NoColor: noColor})
}
