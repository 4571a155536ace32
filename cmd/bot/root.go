package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"joke-bot/internal/bot"
	"joke-bot/internal/config"
	"joke-bot/internal/jokes"
	"joke-bot/internal/queue"
	"joke-bot/internal/sender"
	"joke-bot/pkg/logger"

	"github.com/spf13/cobra"
)

var errQueueDisabled = errors.New("delivery queue is disabled")

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	runCmd := newRunCmd(opts)

	root := &cobra.Command{
		Use:           "joke-bot",
		Short:         "Daily programmer jokes for chat platforms",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCmd.RunE,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $CONFIG_PATH or config.json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override app.log_level (debug, info, warn, error)")
	root.Flags().AddFlagSet(runCmd.Flags())

	root.AddCommand(
		runCmd,
		newJokeCmd(opts),
		newDigestCmd(opts),
		newWorkerCmd(opts),
		newConfigCmd(opts),
	)

	return root
}

// loadConfig reads the config and sets up logging from it.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	path := config.Path(opts.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.App.LogLevel = opts.logLevel
	}
	logger.Init(cfg.App.LogLevel, cfg.App.LogFormat, nil)
	logger.Debug("Configuration loaded",
		logger.String("path", path),
		logger.String("environment", cfg.App.Environment),
		logger.Strings("platforms", cfg.Platforms),
		logger.Strings("joke_types", cfg.JokeTypes),
	)

	return cfg, nil
}

// newBot builds the bot with stub senders that print to out.
func newBot(cfg *config.Config, out io.Writer, extra ...bot.Option) (*bot.Bot, error) {
	opts := append([]bot.Option{
		bot.WithOutput(out),
		bot.WithSenders(sender.Stubs(out)...),
	}, extra...)
	return bot.New(cfg, jokes.Default(), opts...)
}

// openQueue connects to the delivery queue. The caller closes it.
func openQueue(cmd *cobra.Command, cfg *config.Config) (*queue.NATS, error) {
	if !cfg.NATS.Enabled {
		return nil, errQueueDisabled
	}

	q, err := queue.New(cfg.NATS)
	if err != nil {
		return nil, err
	}
	if err := q.EnsureStream(cmd.Context()); err != nil {
		q.Close()
		return nil, err
	}
	logger.Info("Connected to NATS", logger.String("url", cfg.NATS.URL))
	return q, nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
