package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mktautomations/opsc/internal/adapters/httpapi"
	sqliteledger "github.com/mktautomations/opsc/internal/adapters/ledger/sqlite"
	dashboardrender "github.com/mktautomations/opsc/internal/adapters/render/dashboard"
	tomlrepo "github.com/mktautomations/opsc/internal/adapters/repo/toml"
	chainstore "github.com/mktautomations/opsc/internal/adapters/secrets/chain"
	filestore "github.com/mktautomations/opsc/internal/adapters/secrets/file"
	passstore "github.com/mktautomations/opsc/internal/adapters/secrets/pass"
	"github.com/mktautomations/opsc/internal/application"
	"github.com/mktautomations/opsc/internal/config"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/logging"
	"github.com/mktautomations/opsc/internal/ports"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	cfg               config.Config
	logger            *slog.Logger
	session           *application.SessionStore
	fetcher           ports.SourceFetcher
	sources           []ports.SourceDescriptor
	aggregator        *application.Aggregator
	engine            *application.ConversationEngine
	studio            *application.StudioService
	ledger            ports.RunLedger
	dashboardRenderer func(domain.AggregationSnapshot, dashboardrender.RenderOptions) (string, error)
	now               func() time.Time
	closers           []func() error
	quiet             bool
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	client := httpapi.NewClient(cfg.APIBaseURL,
		httpapi.WithLogger(logger),
		httpapi.WithTimeout(cfg.APITimeout),
	)

	secretStore, err := newSecretStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	session := application.NewSessionStore(client, secretStore,
		application.WithSessionLogger(logger),
		application.WithLogoutTimeout(cfg.LogoutTimeout),
	)

	fetcher := httpapi.NewFetcher(client)
	sources := httpapi.DefaultSources(httpapi.SourceOptions{
		DashboardLimit: cfg.DashboardLimit,
		CostDays:       cfg.CostDays,
	})
	snapshots, err := tomlrepo.NewSnapshotRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire dashboard snapshot repository: %w", err)
	}
	aggregator, err := application.NewAggregator(session, fetcher, sources, logger,
		application.WithSnapshotRepository(snapshots),
	)
	if err != nil {
		return nil, fmt.Errorf("wire aggregator: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire conversation repository: %w", err)
	}

	a := &app{
		cfg:               cfg,
		logger:            logger,
		session:           session,
		fetcher:           fetcher,
		sources:           sources,
		aggregator:        aggregator,
		dashboardRenderer: dashboardrender.Render,
		now:               time.Now,
	}

	engineOpts := []application.EngineOption{
		application.WithPromptWindow(cfg.ConversationWindow),
		application.WithEngineLogger(logger),
	}
	ledger, err := sqliteledger.Open(context.Background(), cfg.LedgerPath)
	if err != nil {
		logger.Warn("run ledger unavailable", "path", cfg.LedgerPath, "err", err)
	} else {
		a.ledger = ledger
		a.closers = append(a.closers, ledger.Close)
		engineOpts = append(engineOpts, application.WithRunLedger(ledger))
	}

	a.engine = application.NewConversationEngine(session, client, repo, engineOpts...)
	a.studio = application.NewStudioService(session, client, a.ledger, ports.SystemClock{}, logger)

	session.OnTeardown(aggregator.Reset)
	session.OnTeardown(a.engine.Reset)

	return a, nil
}

func newSecretStore(cfg config.Config, logger *slog.Logger) (ports.SecretStore, error) {
	switch cfg.SecretsBackend {
	case config.SecretsBackendPass:
		return passstore.NewStore(), nil
	case config.SecretsBackendFile:
		return filestore.NewStore(cfg.SecretsDir), nil
	}

	if !passstore.Available() {
		logger.Debug("pass not found, keeping secrets on disk", "dir", cfg.SecretsDir)
		return filestore.NewStore(cfg.SecretsDir), nil
	}
	return chainstore.NewPassWithFileFallback(cfg.SecretsDir, chainstore.WithLogger(logger))
}

// start restores the persisted session, dashboard snapshot and
// conversation before a command runs.
func (a *app) start(ctx context.Context) error {
	if _, err := a.session.Restore(ctx); err != nil {
		a.logger.Warn("stored session discarded", "err", err)
	}
	if err := a.aggregator.Load(ctx); err != nil {
		a.logger.Warn("stored dashboard snapshot discarded", "err", err)
	}
	if err := a.engine.Load(ctx); err != nil {
		return err
	}
	return nil
}

// shutdown waits for background logout notifications and releases stores.
func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.session.WaitPending(ctx)

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close store", "err", err)
		}
	}
}
