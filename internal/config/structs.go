package config

import (
	"time"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Medusa    Medusa
	RBAC      RBAC
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// Medusa holds the connection settings for the host commerce platform's
// admin API.
type Medusa struct {
	BaseURL string        // base url of the host admin API, e.g. http://localhost:9000
	APIKey  string        // admin API token
	Timeout time.Duration // per-request timeout, 0 means the client default
}

// RBAC holds settings for the request authorization middleware.
type RBAC struct {
	// Disabled turns the middleware off entirely; checks via the API keep working.
	Disabled bool
	// ExcludePaths lists path prefixes never subjected to permission checks,
	// in addition to the built-in exclusions.
	ExcludePaths []string
}
