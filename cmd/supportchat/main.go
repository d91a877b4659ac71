package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"support-chat/internal/adapter/openai"
	"support-chat/internal/adapter/telegram"
	"support-chat/internal/adapter/tui"
	"support-chat/internal/adapter/web"
	"support-chat/internal/config"
	"support-chat/internal/usecase/chat"
)

type rootFlags struct {
	envFile  string
	logLevel string
	logFile  string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "supportchat",
		Short:         "Streaming support chatbot over an OpenAI-compatible endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to read before the environment")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "web",
			Short: "Serve the browser chat widget",
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, cfg, closeLog, err := setup(flags, os.Stderr)
				if err != nil {
					return err
				}
				defer closeLog()
				return web.NewServer(cfg.WebAddr, svc).Run(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "tui",
			Short: "Chat in the terminal",
			RunE: func(cmd *cobra.Command, args []string) error {
				// stderr belongs to the terminal UI, so logs go to --log-file or nowhere.
				svc, _, closeLog, err := setup(flags, io.Discard)
				if err != nil {
					return err
				}
				defer closeLog()
				return tui.Run(cmd.Context(), svc)
			},
		},
		&cobra.Command{
			Use:   "telegram",
			Short: "Run the Telegram bot",
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, cfg, closeLog, err := setup(flags, os.Stderr)
				if err != nil {
					return err
				}
				defer closeLog()

				bot, err := telegram.NewBot(cfg, svc)
				if err != nil {
					return errors.Wrap(err, "init telegram bot")
				}
				if err := bot.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
					return err
				}
				log.Info().Msg("telegram bot stopped")
				return nil
			},
		},
	)
	return root
}

func setup(flags *rootFlags, defaultOut io.Writer) (*chat.Service, config.Config, func(), error) {
	closeLog, err := initLogger(flags, defaultOut)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	cfg, err := config.Load(flags.envFile)
	if err != nil {
		closeLog()
		return nil, cfg, nil, errors.Wrap(err, "load config")
	}
	log.Debug().Str("base_url", cfg.BaseURL).Str("model", cfg.Model).Msg("config loaded")

	client := openai.NewClient(cfg.APIKey, cfg.BaseURL)
	return chat.NewService(client, cfg), cfg, closeLog, nil
}

func initLogger(flags *rootFlags, out io.Writer) (func(), error) {
	level, err := zerolog.ParseLevel(flags.logLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", flags.logLevel)
	}
	zerolog.SetGlobalLevel(level)

	closeFn := func() {}
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		out = f
		closeFn = func() { _ = f.Close() }
	} else if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closeFn, nil
}
