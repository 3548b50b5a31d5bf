// Package daemon boots the application: database connection, schema
// migration, seeding and the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/dsn"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/db/models"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/medusa"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service finished its graceful shutdown.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := prepareDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare database")
		return nil
	}

	client, err := medusa.New(cfg.Medusa)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create medusa client")
		return nil
	}

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db, client),
	}
}

// Migrate opens the database, runs the schema migration and seeding, then
// returns without starting the web service.
func Migrate(cfg *config.Config) error {
	_, err := prepareDatabase(cfg)
	return err
}

// prepareDatabase opens the connection, migrates the schema and seeds the
// default catalog and system roles.
func prepareDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.Policy{},
		&models.UserRole{},
		&models.PendingRole{},
		&models.EmailTemplate{},
		&models.CustomerActivity{},
	); err != nil {
		return nil, err
	}

	if err = Seed(db); err != nil {
		return nil, err
	}

	return db, nil
}

// openDatabase opens the gorm connection for the configured engine.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DB.GormEngine {
	case "postgres":
		return gorm.Open(gormpostgres.Open(dsn.CreatePostgres(cfg)), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DB.Name), &gorm.Config{})
	default:
		return gorm.Open(gormmysql.Open(dsn.Create(cfg)), &gorm.Config{})
	}
}
