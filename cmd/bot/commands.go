package main

import (
	"context"
	"errors"
	"fmt"

	"joke-bot/internal/bot"
	"joke-bot/internal/models"
	"joke-bot/pkg/logger"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var deliver bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Print today's digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			var extra []bot.Option
			if deliver && cfg.NATS.Enabled {
				q, err := openQueue(cmd, cfg)
				if err != nil {
					return err
				}
				defer q.Close()
				extra = append(extra, bot.WithQueue(q))
			}

			b, err := newBot(cfg, cmd.OutOrStdout(), extra...)
			if err != nil {
				return err
			}

			digest, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}

			if !deliver {
				return nil
			}
			return b.Deliver(cmd.Context(), digest)
		},
	}

	cmd.Flags().BoolVar(&deliver, "deliver", false, "also send the digest to the configured platforms")
	return cmd
}

func newJokeCmd(opts *rootOptions) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "joke",
		Short: "Print one random joke",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			b, err := newBot(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var selected []models.Category
			if len(categories) > 0 {
				selected = bot.ParseCategories(categories)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), b.RandomJoke(selected))
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "categories to draw from (chinese, english, pun, code)")
	return cmd
}

func newDigestCmd(opts *rootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print a digest with a chosen number of jokes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") && cfg.DigestCount != 0 {
				count = cfg.DigestCount
			}

			b, err := newBot(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			digest, err := b.DailyDigest(count)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", bot.DefaultDigestCount, "number of jokes")
	return cmd
}

func newWorkerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Send queued deliveries to their platforms until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			q, err := openQueue(cmd, cfg)
			if err != nil {
				return err
			}
			defer q.Close()

			b, err := newBot(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			logger.Info("Delivery worker started",
				logger.String("stream", cfg.NATS.StreamName),
				logger.String("consumer", cfg.NATS.Consumer),
			)
			err = q.ConsumeDeliveries(cmd.Context(), b.HandleDelivery)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("Delivery worker stopped")
			return nil
		},
	}
}
