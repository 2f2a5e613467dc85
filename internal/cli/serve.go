package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moodmate/internal/api"
	"moodmate/internal/discord"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for browser clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}
		h := api.NewHandler(application.Handler, application.Recognizer, cfg.CORSOrigins, cfg.UserName, logger)
		srv := &http.Server{
			Addr:              addr,
			Handler:           h.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http api listening", zap.String("addr", addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down http api")
		return srv.Shutdown(shutdownCtx)
	},
}

var discordCmd = &cobra.Command{
	Use:   "discord",
	Short: "Run the Discord bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DiscordBotToken == "" {
			return fmt.Errorf("DISCORD_BOT_TOKEN is required")
		}
		adapter := discord.NewAdapter(cfg.DiscordBotToken, application.Handler, application.Speaker, logger)
		if err := adapter.Connect(cmd.Context()); err != nil {
			return err
		}
		defer adapter.Close()
		<-cmd.Context().Done()
		logger.Info("shutting down discord bot")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
}
