// Package config loads examplecheck configuration from defaults, an optional JSON file, and
// EXAMPLECHECK_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ariel-frischer/examplecheck/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPath is the config file looked up in the working directory.
const DefaultConfigPath = ".examplecheck.json"

const envPrefix = "EXAMPLECHECK_"

// listKeys are split on commas when set through the environment.
var listKeys = []string{
	"curated_dirs",
	"skip_dirs",
	"forbidden_files_general",
	"forbidden_files_specific",
	"allowed_dirs",
	"build_command",
}

// Configuration represents the examplecheck configuration
type Configuration struct {
	ExamplesRoot           string              `koanf:"examples_root" yaml:"examples_root" validate:"required"`
	ManifestFile           string              `koanf:"manifest_file" yaml:"manifest_file" validate:"required"`
	CuratedDirs            []string            `koanf:"curated_dirs" yaml:"curated_dirs"`
	SkipDirs               []string            `koanf:"skip_dirs" yaml:"skip_dirs"`
	BuildConfigFile        string              `koanf:"build_config_file" yaml:"build_config_file" validate:"required"`
	TargetDirKey           string              `koanf:"target_dir_key" yaml:"target_dir_key" validate:"required"`
	ToolchainFile          string              `koanf:"toolchain_file" yaml:"toolchain_file" validate:"required"`
	ForbiddenComponent     string              `koanf:"forbidden_component" yaml:"forbidden_component" validate:"required"`
	ExpectedVersion        string              `koanf:"expected_version" yaml:"expected_version"`
	ForbiddenFilesGeneral  []string            `koanf:"forbidden_files_general" yaml:"forbidden_files_general"`
	ForbiddenFilesSpecific []string            `koanf:"forbidden_files_specific" yaml:"forbidden_files_specific"`
	AllowedDirs            []string            `koanf:"allowed_dirs" yaml:"allowed_dirs"`
	Exclusions             map[string][]string `koanf:"exclusions" yaml:"exclusions" validate:"dive,keys,oneof=build version config channel,endkeys"`
	BuildCommand           []string            `koanf:"build_command" yaml:"build_command" validate:"required,min=1"`
	BuildTimeout           int                 `koanf:"build_timeout" yaml:"build_timeout" validate:"min=0,max=86400"` // Seconds, 0 = no timeout
	Log                    logging.Config      `koanf:"log" yaml:"log"`
}

// Load loads configuration from defaults, the config file, and environment variables.
// Priority: Environment variables > Config file > Defaults
// A missing config file is not an error.
func Load(configPath string) (*Configuration, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(GetDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := ValidateJSONSyntax(configPath); err != nil {
				return nil, err
			}
			if !isBlank(configPath) {
				if err := k.Load(file.Provider(configPath), json.Parser()); err != nil {
					return nil, fmt.Errorf("failed to load config file: %w", err)
				}
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ExamplesRoot = expandHomePath(cfg.ExamplesRoot)
	return &cfg, nil
}

// Validate checks struct constraints.
func (c *Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	for _, s := range c.ForbiddenFilesGeneral {
		if strings.ContainsAny(s, `/\`) {
			return fmt.Errorf("config validation failed: forbidden_files_general entry %q must be a file name", s)
		}
	}
	return nil
}

// Excluded returns the project names excluded from check.
func (c *Configuration) Excluded(check string) []string {
	return c.Exclusions[check]
}

// BuildTimeoutDuration returns BuildTimeout as a duration.
func (c *Configuration) BuildTimeoutDuration() time.Duration {
	return time.Duration(c.BuildTimeout) * time.Second
}

// envTransform converts environment variables to config keys
// Example: EXAMPLECHECK_EXAMPLES_ROOT -> examples_root, EXAMPLECHECK_LOG_LEVEL -> log.level,
// EXAMPLECHECK_EXCLUSIONS_VERSION=a,b -> exclusions.version = [a b]
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	switch {
	case strings.HasPrefix(key, "log_"):
		return "log." + strings.TrimPrefix(key, "log_"), value
	case strings.HasPrefix(key, "exclusions_"):
		return "exclusions." + strings.TrimPrefix(key, "exclusions_"), splitList(value)
	case slices.Contains(listKeys, key):
		return key, splitList(value)
	}
	return key, value
}

func isBlank(path string) bool {
	data, err := os.ReadFile(path)
	return err == nil && strings.TrimSpace(string(data)) == ""
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
