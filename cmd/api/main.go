package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/integrator/webhook/webhookclient"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/icp-dashboard-api/internal/api"
	"github.com/vfg2006/icp-dashboard-api/internal/api/handler"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/scheduler"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/forwarding"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/qualifying"
	"github.com/vfg2006/icp-dashboard-api/pkg/log"
	"github.com/vfg2006/icp-dashboard-api/pkg/metrics"
)

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel := log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	metricsManager := metrics.NewManager(metrics.WithNamespace(cfg.Metrics.Namespace))

	exploriumRepo := repository.NewExploriumRepository(pgConn)

	// Sinais de intenção ainda não têm fonte real: valores sintéticos por conta
	signals := qualifying.NewRandomSignalProvider(qualifying.ClockSeed)
	qualifyingService := qualifying.NewService(exploriumRepo, signals)
	accountFeed := qualifying.NewAccountFeed(qualifyingService, metricsManager)

	webhookClient := webhookclient.NewClient(cfg)
	webhookIntegrator, err := webhook.New(cfg, webhookClient, metricsManager)
	if err != nil {
		logrus.WithError(err).Fatal("Configuração de relays inválida")
	}

	forwardingService := forwarding.NewService(webhookClient, webhookIntegrator, cfg)
	authenticator := authenticating.NewService(cfg)
	if authenticator.Enabled() {
		logrus.Info("Autenticação por bearer token habilitada nas rotas /v1")
	}

	accountRefreshService := scheduler.NewAccountRefreshService(accountFeed, cfg)
	if err := accountRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de contas")
	} else {
		logrus.Info("Agendador de atualização de contas iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Dependencies{
		Database:          pgConn,
		Feed:              accountFeed,
		QualifyingService: qualifyingService,
		ForwardingService: forwardingService,
		Authenticator:     authenticator,
		CronJobs:          handler.CronJobServices{AccountRefreshService: accountRefreshService},
		ProxyObserver:     metricsManager,
		MetricsHandler:    metricsManager.Handler(),
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSource permite achar o .env ao rodar com go run a partir de outro diretório
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	if err := os.Chdir(dir); err != nil {
		logrus.WithError(err).Debug("Não foi possível mudar para o diretório do binário")
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
