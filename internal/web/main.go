// Package web wires the fiber application: access logging, the permission
// middleware, the JSON API handlers and the operational endpoints.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/config"
	accesslog "github.com/GoMedusa-Admin/GoMedusa-Admin/internal/logger/adapter/fiber"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/medusa"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/rbac"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/cart"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/customer"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/emailtemplate"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/check"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/invite"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/permission"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/role"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/setup"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/admin/rbac/userrole"
	"github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/handler/hooks"
	rbacmiddleware "github.com/GoMedusa-Admin/GoMedusa-Admin/internal/web/middleware/rbac"
)

// CheckAlivePath is the liveness endpoint used by load balancers.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	rbacService  *rbac.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request through /shutdown
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, client *medusa.Client) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoMedusa-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access log middleware
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// Initialize permission resolver
	rbacService := rbac.NewService(db)

	// permission check middleware on the admin surface
	app.Use(rbacmiddleware.New(rbacmiddleware.Config{
		Service:      rbacService,
		Disabled:     cfg.RBAC.Disabled,
		ExcludePaths: cfg.RBAC.ExcludePaths,
	}))

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		rbacService: rbacService,
	}
	service.alive.Store(true)

	// operational endpoints
	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (routes are guarded by the permission middleware above)
	permission.Handler.Init(app, cfg, db)
	role.Handler.Init(app, cfg, db)
	userrole.Handler.Init(app, cfg, db)
	invite.Handler.Init(app, cfg, db, client)
	check.Handler.Init(app, cfg, db, rbacService)
	setup.Handler.Init(app, cfg, db)
	hooks.Handler.Init(app, cfg, db, rbacService)
	emailtemplate.Handler.Init(app, cfg, db)
	customer.Handler.Init(app, cfg, db)
	cart.Handler.Init(app, cfg, db, client)

	return service
}
