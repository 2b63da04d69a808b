package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-cssbase64/internal/config"
)

// envPrefix namespaces every variable the command reads.
const envPrefix = "CSSBASE64_"

// ErrDotEnv is returned when the .env file exists but cannot be parsed.
var ErrDotEnv = errors.New("failed to read .env file")

// envConfig holds configuration from environment variables.
// Pointer and empty values mean "not set".
type envConfig struct {
	ConfigPath          string   // CSSBASE64_CONFIG
	MaxWeight           *int     // CSSBASE64_MAX_WEIGHT
	Extensions          []string // CSSBASE64_EXTENSIONS (comma separated)
	BaseDir             string   // CSSBASE64_BASE_DIR
	DeleteAfterEncoding *bool    // CSSBASE64_DELETE_AFTER_ENCODING
	Pattern             string   // CSSBASE64_PATTERN
	Anchored            *bool    // CSSBASE64_ANCHORED
	Verbose             *bool    // CSSBASE64_VERBOSE
	Timeout             string   // CSSBASE64_TIMEOUT
	OutputDir           string   // CSSBASE64_OUTPUT_DIR
	Workers             int      // CSSBASE64_WORKERS
}

// knownEnvVars lists valid CSSBASE64_* variables, used to flag typos.
var knownEnvVars = map[string]bool{
	"CSSBASE64_CONFIG":                true,
	"CSSBASE64_MAX_WEIGHT":            true,
	"CSSBASE64_EXTENSIONS":            true,
	"CSSBASE64_BASE_DIR":              true,
	"CSSBASE64_DELETE_AFTER_ENCODING": true,
	"CSSBASE64_PATTERN":               true,
	"CSSBASE64_ANCHORED":              true,
	"CSSBASE64_VERBOSE":               true,
	"CSSBASE64_TIMEOUT":               true,
	"CSSBASE64_OUTPUT_DIR":            true,
	"CSSBASE64_WORKERS":               true,
}

// readEnv collects CSSBASE64_* variables from the process environment and
// the optional .env file. Process variables win over the file, as with
// godotenv.Load.
func readEnv(env *Environment) (map[string]string, error) {
	vars := make(map[string]string)

	if env.DotEnv != "" {
		fileVars, err := godotenv.Read(env.DotEnv)
		switch {
		case err == nil:
			for k, v := range fileVars {
				if strings.HasPrefix(k, envPrefix) {
					vars[k] = v
				}
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("%w: %s: %v", ErrDotEnv, env.DotEnv, err)
		}
	}

	if env.Environ != nil {
		for _, kv := range env.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if ok && strings.HasPrefix(k, envPrefix) {
				vars[k] = v
			}
		}
	}

	return vars, nil
}

// loadEnvConfig parses recognized variables. Malformed numbers and
// booleans are ignored, like unset variables.
func loadEnvConfig(vars map[string]string) *envConfig {
	cfg := &envConfig{
		ConfigPath: vars["CSSBASE64_CONFIG"],
		BaseDir:    vars["CSSBASE64_BASE_DIR"],
		Pattern:    vars["CSSBASE64_PATTERN"],
		Timeout:    vars["CSSBASE64_TIMEOUT"],
		OutputDir:  vars["CSSBASE64_OUTPUT_DIR"],
	}

	if v := vars["CSSBASE64_MAX_WEIGHT"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxWeight = &n
		}
	}
	if v := vars["CSSBASE64_EXTENSIONS"]; v != "" {
		for _, ext := range strings.Split(v, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				cfg.Extensions = append(cfg.Extensions, ext)
			}
		}
	}
	cfg.DeleteAfterEncoding = parseBool(vars["CSSBASE64_DELETE_AFTER_ENCODING"])
	cfg.Anchored = parseBool(vars["CSSBASE64_ANCHORED"])
	cfg.Verbose = parseBool(vars["CSSBASE64_VERBOSE"])

	if v := vars["CSSBASE64_WORKERS"]; v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

func parseBool(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// warnUnknownEnvVars reports unrecognized CSSBASE64_* variables
// (CSSBASE64_MAXWEIGHT instead of CSSBASE64_MAX_WEIGHT, say).
func warnUnknownEnvVars(w io.Writer, vars map[string]string) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if !knownEnvVars[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overlays set variables onto the file configuration.
// Precedence: flags > env > config file > defaults (flags come later).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.MaxWeight != nil {
		n := *env.MaxWeight
		cfg.MaxWeightResource = &n
	}
	if len(env.Extensions) > 0 {
		cfg.ExtensionsAllowed = env.Extensions
	}
	if env.BaseDir != "" {
		cfg.BaseDir = env.BaseDir
	}
	if env.DeleteAfterEncoding != nil {
		cfg.DeleteAfterEncoding = *env.DeleteAfterEncoding
	}
	if env.Pattern != "" {
		cfg.Pattern = env.Pattern
	}
	if env.Anchored != nil {
		cfg.AnchoredSubstitution = *env.Anchored
	}
	if env.Verbose != nil {
		cfg.Verbose = *env.Verbose
	}
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
