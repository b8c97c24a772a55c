package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/school_canteen/internal/httpserver"
	"github.com/Skotchmaster/school_canteen/internal/service"
	pkgconfig "github.com/Skotchmaster/school_canteen/pkg/config"
	"github.com/Skotchmaster/school_canteen/pkg/events"
	loggingmw "github.com/Skotchmaster/school_canteen/pkg/middleware/logging"
)

func newServeCmd(envFile *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *envFile, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

func serve(ctx context.Context, envFile string, migrate bool) error {
	a, err := openApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.close()

	if err := pkgconfig.MustNonEmptyBytes(a.cfg.JWTAccessSecret, "JWT_SECRET"); err != nil {
		return err
	}
	if migrate {
		if err := a.repo.Migrate(ctx); err != nil {
			return wrap("migrate", err)
		}
	}
	a.connectIndex(ctx)

	var publisher events.Publisher = events.Nop{}
	if len(a.cfg.KafkaBrokers) > 0 {
		prod := events.NewProducer(a.cfg.KafkaBrokers, a.cfg.KafkaOrderTopic)
		defer func() {
			if err := prod.Close(); err != nil {
				a.log.Error("kafka_close_error", "error", err)
			}
		}()
		publisher = prod
	} else {
		a.log.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	clock := a.clock()
	orders := &service.OrderService{
		Repo:            a.repo,
		Clock:           clock,
		Events:          publisher,
		MaxNotesLength:  a.canteen.MaxNotesLength,
		MaxLineQuantity: a.canteen.MaxLineQuantity,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(a.log))

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:    &httpserver.OrderHTTP{Svc: orders},
		MenuHandler:     &httpserver.MenuHTTP{Svc: a.menuService()},
		ChildHandler:    &httpserver.ChildHTTP{Svc: &service.ChildService{Repo: a.repo}},
		ScheduleHandler: &httpserver.ScheduleHTTP{Svc: &service.ScheduleService{Repo: a.repo, Clock: clock}},
		JWTSecret:       a.cfg.JWTAccessSecret,
		Ready:           a.repo.Ping,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return wrap("http server", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server_shutdown_error", "error", err)
	}
	a.log.Info("shutdown_complete")
	return nil
}
