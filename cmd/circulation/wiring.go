package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/openshelf/circulation-go/features/command/addbook"
	"github.com/openshelf/circulation-go/features/command/checkoutbybookid"
	"github.com/openshelf/circulation-go/features/command/checkoutbyisbn"
	"github.com/openshelf/circulation-go/features/command/returnbook"
	"github.com/openshelf/circulation-go/features/query/availablebooks"
	"github.com/openshelf/circulation-go/features/query/checkedoutbooks"
	"github.com/openshelf/circulation-go/shell"
	"github.com/openshelf/circulation-go/shell/config"
	"github.com/openshelf/circulation-go/shell/observable"
	"github.com/openshelf/circulation-go/shell/singlewriter"
	"github.com/openshelf/circulation-go/statestore"
	"github.com/openshelf/circulation-go/statestore/memoryengine"
	"github.com/openshelf/circulation-go/statestore/oteladapters"
	"github.com/openshelf/circulation-go/statestore/postgresengine"
	"github.com/openshelf/circulation-go/statestore/redisengine"
	"github.com/openshelf/circulation-go/statestore/sqliteengine"
)

// app holds the wired application for the lifetime of one CLI invocation.
var app *cliApp

// journalStore is the slice of the state store API the feature handlers
// consume; every backend engine satisfies it.
type journalStore interface {
	Load(ctx context.Context, stateType string) (statestore.StorableState, statestore.VersionUint, error)
	Save(ctx context.Context, expectedVersion statestore.VersionUint, storable statestore.StorableState) error
}

// telemetry carries the optional collectors; the zero value disables both.
type telemetry struct {
	metrics statestore.MetricsCollector
	tracing statestore.TracingCollector
}

type cliApp struct {
	providers *config.ObservabilityProviders
	closers   []func() error

	addBook          shell.CoreCommandHandler[addbook.Command]
	checkoutByISBN   shell.CoreCommandHandler[checkoutbyisbn.Command]
	checkoutByBookID shell.CoreCommandHandler[checkoutbybookid.Command]
	returnBook       shell.CoreCommandHandler[returnbook.Command]

	availableBooks  availablebooks.QueryHandler
	checkedOutBooks checkedoutbooks.QueryHandler
}

// initApp resolves the configuration and wires the application; commands then
// reach it through the package-level app variable.
func initApp(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	built, err := newCLIApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	app = built

	return nil
}

// closeApp releases connections and flushes telemetry.
func closeApp() error {
	if app == nil {
		return nil
	}

	var errs []error
	for _, closeFn := range app.closers {
		errs = append(errs, closeFn())
	}

	if app.providers != nil {
		errs = append(errs, app.providers.Shutdown())
	}

	app = nil

	return errors.Join(errs...)
}

// resolveConfig merges the configuration file with the command line flags;
// flags win over the file.
func resolveConfig(cmd *cobra.Command) (config.AppConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")
	backend, _ := cmd.Flags().GetString("backend")
	logLevel, _ := cmd.Flags().GetString("log-level")

	cfg := config.DefaultAppConfig()

	if configPath != "" {
		loaded, err := config.LoadAppConfig(configPath)
		if err != nil {
			return config.AppConfig{}, err
		}

		cfg = loaded
	}

	if backend != "" {
		cfg.Backend = backend
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.AppConfig{}, err
	}

	return cfg, nil
}

func newCLIApp(ctx context.Context, cfg config.AppConfig) (*cliApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	var (
		providers *config.ObservabilityProviders
		tele      telemetry
	)

	if cfg.Observability.Enabled {
		built, err := config.NewObservabilityProviders(ctx, "circulation", version, cfg.Observability)
		if err != nil {
			return nil, fmt.Errorf("set up telemetry: %w", err)
		}

		providers = built
		tele = telemetry{
			metrics: oteladapters.NewMetricsCollector(providers.MeterProvider.Meter("circulation")),
			tracing: oteladapters.NewTracingCollector(providers.TracerProvider.Tracer("circulation")),
		}
	}

	store, closers, err := newStateStore(ctx, cfg, logger, tele)
	if err != nil {
		if providers != nil {
			_ = providers.Shutdown()
		}

		return nil, err
	}

	fail := func(wireErr error) (*cliApp, error) {
		for _, closeFn := range closers {
			_ = closeFn()
		}

		if providers != nil {
			_ = providers.Shutdown()
		}

		return nil, wireErr
	}

	a := &cliApp{
		providers: providers,
		closers:   closers,
	}

	// All four command handlers write the same journal; a shared lock
	// serializes them so concurrent work inside one process never conflicts.
	writerLock := &sync.Mutex{}

	if a.addBook, err = wireCommandHandler[addbook.Command](
		addbook.NewCommandHandler(store), writerLock, logger, tele); err != nil {
		return fail(err)
	}

	if a.checkoutByISBN, err = wireCommandHandler[checkoutbyisbn.Command](
		checkoutbyisbn.NewCommandHandler(store), writerLock, logger, tele); err != nil {
		return fail(err)
	}

	if a.checkoutByBookID, err = wireCommandHandler[checkoutbybookid.Command](
		checkoutbybookid.NewCommandHandler(store), writerLock, logger, tele); err != nil {
		return fail(err)
	}

	if a.returnBook, err = wireCommandHandler[returnbook.Command](
		returnbook.NewCommandHandler(store), writerLock, logger, tele); err != nil {
		return fail(err)
	}

	availableOptions := []availablebooks.Option{
		availablebooks.WithLogging(logger),
		availablebooks.WithContextualLogging(logger),
	}
	if tele.metrics != nil {
		availableOptions = append(availableOptions, availablebooks.WithMetrics(tele.metrics))
	}
	if tele.tracing != nil {
		availableOptions = append(availableOptions, availablebooks.WithTracing(tele.tracing))
	}

	if a.availableBooks, err = availablebooks.NewQueryHandler(store, availableOptions...); err != nil {
		return fail(err)
	}

	checkedOutOptions := []checkedoutbooks.Option{
		checkedoutbooks.WithLogging(logger),
		checkedoutbooks.WithContextualLogging(logger),
	}
	if tele.metrics != nil {
		checkedOutOptions = append(checkedOutOptions, checkedoutbooks.WithMetrics(tele.metrics))
	}
	if tele.tracing != nil {
		checkedOutOptions = append(checkedOutOptions, checkedoutbooks.WithTracing(tele.tracing))
	}

	if a.checkedOutBooks, err = checkedoutbooks.NewQueryHandler(store, checkedOutOptions...); err != nil {
		return fail(err)
	}

	return a, nil
}

// wireCommandHandler stacks the shared-lock writer and the observability
// wrapper around a core command handler.
func wireCommandHandler[C shell.Command](
	coreHandler shell.CoreCommandHandler[C],
	writerLock *sync.Mutex,
	logger *slog.Logger,
	tele telemetry,
) (shell.CoreCommandHandler[C], error) {
	serialized := singlewriter.NewCommandWrapperWithMutex(coreHandler, writerLock)

	options := []observable.CommandOption[C]{
		observable.WithCommandLogging[C](logger),
		observable.WithCommandContextualLogging[C](logger),
	}

	if tele.metrics != nil {
		options = append(options, observable.WithCommandMetrics[C](tele.metrics))
	}

	if tele.tracing != nil {
		options = append(options, observable.WithCommandTracing[C](tele.tracing))
	}

	return observable.NewCommandWrapper[C](serialized, options...)
}

// newStateStore builds the configured backend. The returned close functions
// are run in order on shutdown.
func newStateStore(
	ctx context.Context,
	cfg config.AppConfig,
	logger *slog.Logger,
	tele telemetry,
) (journalStore, []func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memoryengine.NewStateStore(), nil, nil

	case config.BackendSQLite:
		return newSQLiteStore(ctx, cfg.SQLite, logger)

	case config.BackendPostgres:
		return newPostgresStore(ctx, cfg.Postgres, logger, tele)

	case config.BackendRedis:
		return newRedisStore(ctx, cfg.Redis, logger)

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func newSQLiteStore(ctx context.Context, settings config.SQLiteSettings, logger *slog.Logger) (journalStore, []func() error, error) {
	db, err := config.SQLiteConfig(settings.Path)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqliteengine.NewStateStore(db, sqliteengine.WithLogger(logger))
	if err != nil {
		_ = db.Close()

		return nil, nil, err
	}

	if schemaErr := store.EnsureSchema(ctx); schemaErr != nil {
		_ = db.Close()

		return nil, nil, schemaErr
	}

	return store, []func() error{db.Close}, nil
}

func newPostgresStore(
	ctx context.Context,
	settings config.PostgresSettings,
	logger *slog.Logger,
	tele telemetry,
) (journalStore, []func() error, error) {
	pool, err := newPostgresPool(ctx, settings.DSN)
	if err != nil {
		return nil, nil, err
	}

	closers := []func() error{func() error { pool.Close(); return nil }}

	options := []postgresengine.Option{
		postgresengine.WithLogger(logger),
		postgresengine.WithContextualLogger(logger),
	}
	if tele.metrics != nil {
		options = append(options, postgresengine.WithMetrics(tele.metrics))
	}
	if tele.tracing != nil {
		options = append(options, postgresengine.WithTracing(tele.tracing))
	}

	if settings.ReplicaDSN == "" {
		store, storeErr := postgresengine.NewStateStoreFromPGXPool(pool, options...)
		if storeErr != nil {
			pool.Close()

			return nil, nil, storeErr
		}

		return store, closers, nil
	}

	replica, err := newPostgresPool(ctx, settings.ReplicaDSN)
	if err != nil {
		pool.Close()

		return nil, nil, err
	}

	closers = append(closers, func() error { replica.Close(); return nil })

	store, err := postgresengine.NewStateStoreFromPGXPoolAndReplica(pool, replica, options...)
	if err != nil {
		pool.Close()
		replica.Close()

		return nil, nil, err
	}

	return store, closers, nil
}

// newPostgresPool opens a pool and pings it, so a wrong DSN fails here
// instead of in the middle of a command.
func newPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := config.PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()

		return nil, fmt.Errorf("connect to postgres: %w", pingErr)
	}

	return pool, nil
}

func newRedisStore(ctx context.Context, settings config.RedisSettings, logger *slog.Logger) (journalStore, []func() error, error) {
	client := config.RedisConfig(settings.Addr, settings.Password, settings.DB)

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		_ = client.Close()

		return nil, nil, fmt.Errorf("connect to redis: %w", pingErr)
	}

	store, err := redisengine.NewStateStore(client, redisengine.WithLogger(logger))
	if err != nil {
		_ = client.Close()

		return nil, nil, err
	}

	return store, []func() error{client.Close}, nil
}
