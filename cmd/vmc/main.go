package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cochaviz/vmc/internal/backend"
	"github.com/cochaviz/vmc/internal/bus"
	"github.com/cochaviz/vmc/internal/config"
	"github.com/cochaviz/vmc/internal/lifecycle"
	"github.com/cochaviz/vmc/internal/logging"
)

const (
	defaultLogLevel  = "warning"
	defaultVM        = "termina"
	defaultContainer = "penguin"

	// ownerEnv names the variable the login session exports with the
	// current user's cryptohome hash.
	ownerEnv = "CROS_USER_ID_HASH"
)

// opener connects a backend for one command invocation.
type opener func(cfg config.Config, logger *slog.Logger) (backend.Backend, io.Closer, error)

func main() {
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelWarn)

	logger := logging.New(logging.FormatText, os.Stderr, &levelVar)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{logger: logger, levelVar: &levelVar, open: openSystemBackend}
	if err := a.rootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			a.logger.Warn("command interrupted", "error", err)
			os.Exit(130)
		}
		a.logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func openSystemBackend(cfg config.Config, logger *slog.Logger) (backend.Backend, io.Closer, error) {
	conn, err := bus.ConnectSystem()
	if err != nil {
		return nil, nil, err
	}
	return lifecycle.New(conn, cfg, logger), conn, nil
}

type app struct {
	logger   *slog.Logger
	levelVar *slog.LevelVar
	open     opener

	configPath string
	logLevel   string
	logFormat  string
	vmName     string
	owner      string
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vmc",
		Short:         "Manage the VM and its containers through the VM host services",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", defaultLogLevel, "Set log verbosity (debug, info, warning, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log output format (text, json)")
	flags.StringVar(&a.vmName, "vm", defaultVM, "Name of the VM to act on")
	flags.StringVar(&a.owner, "owner", "", "Cryptohome hash of the VM owner (defaults to $"+ownerEnv+" or the only active session)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(a.logFormat)
		if err != nil {
			return err
		}
		if a.levelVar != nil {
			a.levelVar.Set(level)
		}
		a.logger = logging.New(format, cmd.ErrOrStderr(), a.levelVar)
		slog.SetDefault(a.logger)
		return nil
	}

	root.AddCommand(
		a.vmCommand(),
		a.diskCommand(),
		a.containerCommand(),
		a.sessionsCommand(),
		a.configCommand(),
	)
	return root
}

// withBackend loads the configuration, connects a backend and runs fn with it.
func (a *app) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b backend.Backend) error) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	logger := a.logger.With("command", cmd.CommandPath())
	b, closer, err := a.open(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to VM services: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close bus connection", "error", err)
		}
	}()

	ctx := cmd.Context()
	if err := b.MetricsSendSample(ctx, cmd.CommandPath()); err != nil {
		logger.Debug("metrics sample not recorded", "error", err)
	}
	return fn(ctx, b)
}

// resolveOwner picks the owner hash from --owner, the environment, or the
// single active session, in that order.
func (a *app) resolveOwner(ctx context.Context, b backend.Backend) (string, error) {
	if a.owner != "" {
		return a.owner, nil
	}
	if env := os.Getenv(ownerEnv); env != "" {
		return env, nil
	}

	sessions, err := b.SessionsList(ctx)
	if err != nil {
		return "", err
	}
	switch len(sessions) {
	case 0:
		return "", errors.New("no active user session; pass --owner")
	case 1:
		a.logger.Debug("using owner of the only active session", "account", sessions[0].Account)
		return sessions[0].OwnerHash, nil
	default:
		return "", fmt.Errorf("%d active user sessions; pass --owner to choose one", len(sessions))
	}
}

func (a *app) resolveVM(ctx context.Context, b backend.Backend) (backend.VM, error) {
	owner, err := a.resolveOwner(ctx, b)
	if err != nil {
		return backend.VM{}, err
	}
	return backend.VM{Name: a.vmName, OwnerHash: owner}, nil
}
