package shared

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/examplecheck/internal/config"
	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/ariel-frischer/examplecheck/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Persistent flag names defined on the root command.
const (
	ConfigFlagName = "config"
	RootFlagName   = "root"
	DebugFlagName  = "debug"
)

// Env is what a command needs after startup.
type Env struct {
	Config *config.Configuration
	Logger *zap.Logger
	Plain  bool
}

// LoadConfig loads configuration for cmd and applies --root and --debug. A config file that
// was named explicitly with --config must exist.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, *clierrors.CLIError) {
	configPath, _ := cmd.Flags().GetString(ConfigFlagName)
	if cmd.Flags().Changed(ConfigFlagName) {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return nil, clierrors.ConfigFileNotFound(configPath)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.ConfigParseError(configPath, err)
	}

	if root, _ := cmd.Flags().GetString(RootFlagName); root != "" {
		cfg.ExamplesRoot = root
	}
	if abs, err := filepath.Abs(cfg.ExamplesRoot); err == nil {
		cfg.ExamplesRoot = abs
	}
	if debug, _ := cmd.Flags().GetBool(DebugFlagName); debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// Setup loads configuration, builds the logger, and checks that the examples root exists.
func Setup(cmd *cobra.Command) (*Env, *clierrors.CLIError) {
	cfg, cliErr := LoadConfig(cmd)
	if cliErr != nil {
		return nil, cliErr
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid log settings")
	}

	info, err := os.Stat(cfg.ExamplesRoot)
	if err != nil || !info.IsDir() {
		return nil, clierrors.ExamplesRootNotFound(cfg.ExamplesRoot)
	}

	logger.Debug("configuration loaded",
		zap.String("examples_root", cfg.ExamplesRoot),
		zap.Strings("curated_dirs", cfg.CuratedDirs))

	return &Env{Config: cfg, Logger: logger, Plain: PlainOutput(cmd)}, nil
}

// Fail prints err to the command's stderr and returns the matching exit error.
func Fail(cmd *cobra.Command, err *clierrors.CLIError) error {
	clierrors.FprintError(cmd.ErrOrStderr(), err)
	return NewExitError(ExitCodeFor(err.Category))
}
