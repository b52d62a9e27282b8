// Package cli implements the reuse command-line interface: registration and
// approval of users, item-type administration, and listing, searching and
// removing items in the registry snapshot.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/internal/logging"
	"github.com/mesh-intelligence/reuse/internal/paths"
	"github.com/mesh-intelligence/reuse/internal/registry"
	"github.com/mesh-intelligence/reuse/internal/store"
	"github.com/mesh-intelligence/reuse/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the objects built from them before a
// subcommand runs.
type app struct {
	configDir string
	dbFile    string
	jsonMode  bool
	logLevel  string

	resolvedConfigDir string
	cfg               types.Config
	logger            *zap.Logger
	store             *store.Store
	registry          *registry.Service
}

// NewRootCmd creates the top-level "reuse" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "reuse",
		Short: "A community registry for re-using surplus items",
		Long: `reuse keeps a small community registry of users, item types and
surplus items in a single JSON file. Members register and wait for an
administrator's approval, then list items by type and search them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dbFile, "db-file", "", "snapshot file (default: ./database.json)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newUserCmd(a))
	root.AddCommand(newTypeCmd(a))
	root.AddCommand(newItemCmd(a))
	root.AddCommand(newDBCmd(a))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup resolves configuration, builds the logger, and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysErr(fmt.Errorf("load config: %w", err))
	}
	dbFile, err := paths.ResolveDBFile(a.dbFile, v.GetString(cfgKeyDBFile))
	if err != nil {
		return sysErr(fmt.Errorf("resolve db file: %w", err))
	}
	level := a.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}

	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("run", uuid.NewString()))
	a.resolvedConfigDir = configDir
	a.cfg = types.Config{DBFile: dbFile, LogLevel: level}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.store = store.Open(a.cfg, store.WithLogger(a.logger))
	a.registry = registry.New(a.store, a.logger)
	return nil
}

// systemError marks failures of the environment rather than of the request.
type systemError struct{ err error }

func (e systemError) Error() string { return e.err.Error() }
func (e systemError) Unwrap() error { return e.err }

func sysErr(err error) error {
	if err == nil {
		return nil
	}
	return systemError{err: err}
}

// exitCode maps an error to the process exit code: environment and
// persistence failures are system errors, everything else is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se systemError
	if errors.As(err, &se) || errors.Is(err, types.ErrPersist) {
		return exitSysError
	}
	return exitUserError
}
