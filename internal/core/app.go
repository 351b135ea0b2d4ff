package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Staninbui/wood/internal/artifact"
	"github.com/Staninbui/wood/internal/assets"
	"github.com/Staninbui/wood/internal/config"
	"github.com/Staninbui/wood/internal/db"
	"github.com/Staninbui/wood/internal/ebay"
	"github.com/Staninbui/wood/internal/enrich"
	"github.com/Staninbui/wood/internal/jobs"
	"github.com/Staninbui/wood/internal/progress"
	"github.com/Staninbui/wood/internal/store"
	"github.com/Staninbui/wood/internal/websocket"
)

// App holds the shared components of the application: configuration,
// database, the eBay clients and the enrichment pipeline.
type App struct {
	version    string
	config     *config.Config
	db         *sql.DB
	store      *store.Store
	tracker    *progress.Tracker
	artifacts  *artifact.Store
	ebayClient *ebay.Client
	enricher   *enrich.Service
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
}

// New sets up and returns a new App instance. It loads the
// configuration, opens the database, runs migrations and wires the
// pipeline components together.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := NewFromParts(cfg, database, version)
	if err != nil {
		database.Close()
		return nil, err
	}

	log.Println("Core application setup complete.")
	return app, nil
}

// NewFromParts wires an App from an already loaded configuration and an
// open, migrated database. Used directly by tests.
func NewFromParts(cfg *config.Config, database *sql.DB, version string) (*App, error) {
	artifacts, err := artifact.NewStore(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	app := &App{
		version:    version,
		config:     cfg,
		db:         database,
		store:      store.New(database),
		tracker:    progress.NewTracker(),
		artifacts:  artifacts,
		ebayClient: ebay.New(cfg),
		wsHub:      websocket.NewHub(),
	}
	app.enricher = enrich.NewService(cfg, app.tracker, app.ebayClient, app.ebayClient, artifacts, app.wsHub)
	app.jobManager = jobs.NewManager(app)
	jobs.RegisterAll(app.jobManager)
	return app, nil
}

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) Version() string              { return a.version }
func (a *App) Config() *config.Config       { return a.config }
func (a *App) DB() *sql.DB                  { return a.db }
func (a *App) Store() *store.Store          { return a.store }
func (a *App) Tracker() *progress.Tracker   { return a.tracker }
func (a *App) Artifacts() *artifact.Store   { return a.artifacts }
func (a *App) EbayClient() *ebay.Client     { return a.ebayClient }
func (a *App) Enricher() *enrich.Service    { return a.enricher }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// SetJobManager replaces the job manager. Used by tests.
func (a *App) SetJobManager(jm *jobs.JobManager) { a.jobManager = jm }
