package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/school_canteen/internal/config"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/service"
	pkgconfig "github.com/Skotchmaster/school_canteen/pkg/config"
	"github.com/Skotchmaster/school_canteen/pkg/db"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
	"github.com/Skotchmaster/school_canteen/pkg/search"
)

// app is the wiring shared by every command that touches the database.
type app struct {
	cfg     pkgconfig.Config
	canteen config.Canteen
	log     *slog.Logger
	repo    *repo.GormRepo
	index   *search.FoodIndex
}

func openApp(ctx context.Context, envFile string) (*app, error) {
	pkgconfig.LoadEnvFile(envFile)
	cfg := pkgconfig.Load()

	if err := pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	canteen, err := config.LoadCanteen(cfg)
	if err != nil {
		return nil, err
	}

	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, canteen: canteen, log: l, repo: &repo.GormRepo{DB: gdb}}, nil
}

// connectIndex attaches the search index when ES_URL is set. A failing
// cluster is logged and search falls back to the database.
func (a *app) connectIndex(ctx context.Context) {
	if a.cfg.ESURL == "" {
		return
	}
	es, err := search.NewClient(ctx, search.Config{URL: a.cfg.ESURL, User: a.cfg.ESUser, Password: a.cfg.ESPassword})
	if err != nil {
		a.log.Warn("elasticsearch_unavailable", "url", a.cfg.ESURL, "error", err)
		return
	}
	a.index = search.NewFoodIndex(es, a.cfg.ESFoodIndex)
}

func (a *app) clock() service.Clock {
	return service.SystemClock{Location: a.canteen.Location}
}

func (a *app) menuService() *service.MenuService {
	svc := &service.MenuService{
		Repo:            a.repo,
		Clock:           a.clock(),
		DefaultQuantity: a.canteen.DefaultMenuQuantity,
		HorizonDays:     a.canteen.MenuHorizonDays,
	}
	if a.index != nil {
		svc.Index = a.index
	}
	return svc
}

func (a *app) close() {
	if err := db.Close(a.repo.DB); err != nil {
		a.log.Error("db_close_error", "error", err)
	}
}

func (a *app) ctx(ctx context.Context) context.Context {
	return logging.IntoContext(ctx, a.log)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
