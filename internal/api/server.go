package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/api/handler"
	"github.com/vfg2006/icp-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/forwarding"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/qualifying"
	"github.com/vfg2006/icp-dashboard-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// Dependencies agrupa os serviços expostos pela API
type Dependencies struct {
	Database          handler.Pinger
	Feed              qualifying.Feed
	QualifyingService qualifying.QualifyingService
	ForwardingService forwarding.ForwardingService
	Authenticator     authenticating.Authenticator
	CronJobs          handler.CronJobServices
	ProxyObserver     handler.ProxyObserver
	MetricsHandler    http.Handler
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, deps),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta o router com a cadeia de middlewares
func NewHandler(config *config.Config, deps Dependencies) http.Handler {
	routes := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck(deps.Database)...),
		router.WithRoutes(handler.Proxy(deps.ForwardingService, deps.ProxyObserver)...),
		router.WithRoutes(handler.Accounts(deps.Feed, deps.QualifyingService)...),
		router.WithRoutes(handler.CronJobs(deps.CronJobs)...),
	}
	if deps.MetricsHandler != nil {
		routes = append(routes, router.WithRoutes(handler.Metrics(deps.MetricsHandler)...))
	}

	rt := router.New(routes...)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(deps.Authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
