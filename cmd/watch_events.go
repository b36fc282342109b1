package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/internal/mq"
)

// watchEventsCmd subscribes to the content event channel and logs every
// event, which is handy when wiring a new broker.
var watchEventsCmd = &cobra.Command{
	Use:   "watch-events",
	Short: "Logs content events from the configured message queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer queue.Close()

		logger.Info("watching content events",
			zap.String("backend", cfg.MQBackend),
			zap.String("channel", cfg.MQChannel),
		)
		err = queue.Subscribe(ctx, cfg.MQChannel, func(ctx context.Context, msg mq.Message) error {
			event, err := mq.DecodeContentEvent(msg)
			if err != nil {
				// Malformed payloads are dropped rather than redelivered.
				logger.Warn("undecodable message", zap.String("id", msg.ID), zap.Error(err))
				return nil
			}
			logger.Info("content event",
				zap.String("type", event.Type),
				zap.String("content_id", event.ContentID),
				zap.String("author_id", event.AuthorID),
				zap.String("actor_id", event.ActorID),
				zap.String("status", event.Status),
				zap.Time("occurred_at", event.OccurredAt),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscribe: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchEventsCmd)
}
