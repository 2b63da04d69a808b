// Package config loads cssbase64 settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	cssbase64 "github.com/alnah/go-cssbase64"
	"github.com/alnah/go-cssbase64/internal/fileutil"
	"github.com/alnah/go-cssbase64/internal/yamlutil"
)

// AppName is the directory under the user config dir searched for named configs.
const AppName = "go-cssbase64"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Config mirrors cssbase64.Config in a file-friendly shape, plus the CLI's
// own settings. Pointer fields distinguish "absent" from an explicit zero.
type Config struct {
	MaxWeightResource    *int     `yaml:"maxWeightResource" validate:"omitempty,gte=0"`
	ExtensionsAllowed    []string `yaml:"extensionsAllowed" validate:"omitempty,dive,startswith=.,min=2"`
	BaseDir              string   `yaml:"baseDir"`
	DeleteAfterEncoding  bool     `yaml:"deleteAfterEncoding"`
	Pattern              string   `yaml:"pattern"`
	AnchoredSubstitution bool     `yaml:"anchoredSubstitution"`
	Verbose              bool     `yaml:"verbose"`
	Timeout              string   `yaml:"timeout" validate:"omitempty,duration"`

	Output  OutputConfig `yaml:"output"`
	Workers int          `yaml:"workers" validate:"gte=0,lte=256"`
}

// OutputConfig controls where rewritten stylesheets go.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = rewrite in place
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator. Field names in errors are
// the YAML keys so messages match what users wrote.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			d, err := time.ParseDuration(fl.Field().String())
			return err == nil && d >= 0
		})
		validate = v
	})
	return validate
}

// Validate checks field constraints, then the engine-level rules that tags
// cannot express (pattern compilation, extension characters).
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s: failed %q (value %v)", ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	engineCfg, err := c.ToEngineConfig()
	if err != nil {
		return err
	}
	if err := engineCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ToEngineConfig maps the file settings onto an engine configuration,
// starting from cssbase64.DefaultConfig for absent fields.
func (c *Config) ToEngineConfig() (cssbase64.Config, error) {
	out := cssbase64.DefaultConfig()

	if c.MaxWeightResource != nil {
		out.MaxWeightResource = *c.MaxWeightResource
	}
	if len(c.ExtensionsAllowed) > 0 {
		out.ExtensionsAllowed = append([]string(nil), c.ExtensionsAllowed...)
	}
	out.BaseDir = c.BaseDir
	out.DeleteAfterEncoding = c.DeleteAfterEncoding
	if c.Pattern != "" {
		out.Pattern = c.Pattern
	}
	out.AnchoredSubstitution = c.AnchoredSubstitution
	out.Verbose = c.Verbose

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return cssbase64.Config{}, fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
		}
		if d > 0 {
			out.Timeout = d
		}
	}

	return out, nil
}

// LoadConfig loads a configuration by name or path.
// A value containing a path separator is read as a file; anything else is
// looked up as <name>.yaml or <name>.yml in the working directory and then
// in ~/.config/go-cssbase64/.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.DecodeFile(configPath, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		if errors.Is(err, yamlutil.ErrEmptyInput) {
			// An empty file is a valid "all defaults" config.
			return &cfg, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return &cfg, nil
}

// SearchPaths lists, in order, the files LoadConfig tries for name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
