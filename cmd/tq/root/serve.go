package root

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/httpapi"
	"github.com/m4l0n6/task-quest-gamify/internal/jobs"
	"github.com/m4l0n6/task-quest-gamify/internal/session"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the background sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if a.cfg.JWTSecret == "" {
				return errors.New("TQ_JWT_SECRET is required to serve")
			}
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			serial := &sync.Mutex{}
			deps := httpapi.Deps{
				Engine:   a.engine,
				Shop:     a.shop,
				Sessions: a.sessions,
				Secret:   []byte(a.cfg.JWTSecret),
				TokenTTL: a.cfg.JWTTTL,
				Log:      a.log.With("component", "http"),
				Serial:   serial,
			}
			if a.cfg.BotToken != "" {
				deps.Telegram = session.TelegramProvider{BotToken: a.cfg.BotToken, MaxAge: a.cfg.InitDataMaxAge, Clock: clock}
			}
			if a.cfg.AllowLocalAuth {
				deps.Local = a.localProvider()
			}
			srv := httpapi.New(deps)

			sweeper := jobs.NewSweeper(a.engine, a.sessions, a.cfg.SweepInterval,
				jobs.WithLogger(a.log.With("component", "sweeper")),
				jobs.WithSerial(serial),
			)
			if err := sweeper.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = sweeper.Stop() }()

			errc := make(chan error, 1)
			go func() { errc <- srv.Listen(addr) }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				a.log.Info("shutting down")
				return srv.Shutdown()
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; overrides TQ_HTTP_ADDR")
	return cmd
}
