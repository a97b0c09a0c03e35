package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/logger"
)

// CLI holds the state shared by every subcommand.
type CLI struct {
	configPath string
	verbose    bool
	mock       bool

	cfg *config.Config
	log *zap.Logger
	app *app.App
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	cli := &CLI{}

	root := &cobra.Command{
		Use:          "meal-planner",
		Short:        "Personalized daily meal plans",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		cli.newOnboardCommand(),
		cli.newProfileCommand(),
		cli.newGenerateCommand(),
		cli.newPlansCommand(),
		cli.newPlanCommand(),
		cli.newResetCommand(),
		cli.newThemeCommand(),
		cli.newUsageCommand(),
		cli.newMetricsCleanupCommand(),
	)
	return root
}

// generatingCommands call the text generator; the rest never do and so run
// without an API key.
var generatingCommands = map[string]bool{"generate": true}

func (c *CLI) setup(cmd *cobra.Command) error {
	useMock := c.mock || !generatingCommands[cmd.Name()]

	cfg, err := config.Load(c.configPath, config.WithMock(useMock))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg

	logCfg := logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Log.Development,
	}
	if c.verbose {
		logCfg.Level = "debug"
	}
	c.log = logger.New(logCfg)

	a, err := app.New(cmd.Context(), cfg, c.log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// run wraps a command body: the app is built before it and closed after it,
// however the body returns.
func (c *CLI) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := c.setup(cmd); err != nil {
			return err
		}
		defer func() {
			if closeErr := c.teardown(cmd.Context()); err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, args)
	}
}

func (c *CLI) teardown(ctx context.Context) error {
	var err error
	if c.app != nil {
		if pushErr := c.app.PushMetrics(ctx); pushErr != nil {
			c.log.Warn("Failed to push metrics", zap.Error(pushErr))
		}
		err = c.app.Close()
		c.app = nil
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
	return err
}
