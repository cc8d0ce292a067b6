// Package scheduler contém os serviços de agendamento do dashboard
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
)

// AccountActivator é o feed de contas que o agendador reativa
type AccountActivator interface {
	Activate(ctx context.Context) error
}

type AccountRefreshConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

type AccountRefreshService struct {
	scheduler           *gocron.Scheduler
	feed                AccountActivator
	config              AccountRefreshConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewAccountRefreshService(feed AccountActivator, cfg *config.Config) *AccountRefreshService {
	refreshConfig := AccountRefreshConfig{
		CronSchedule: cfg.AccountRefresh.CronSchedule, // Default: a cada 30 minutos
		SyncEnabled:  cfg.AccountRefresh.Enabled,      // Default: desabilitado
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": refreshConfig.CronSchedule,
	}).Info("Configuração do agendador de atualização de contas carregada")

	return &AccountRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		feed:      feed,
		config:    refreshConfig,
	}
}

func (s *AccountRefreshService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de atualização de contas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de atualização de contas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RefreshAccounts(ctx); err != nil {
			logrus.WithError(err).Error("Erro na atualização de contas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização de contas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de atualização de contas")
		s.scheduler.Stop()
	}()

	return nil
}

// RefreshAccounts reativa o feed. Execuções concorrentes são ignoradas.
func (s *AccountRefreshService) RefreshAccounts(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Atualização de contas já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	logrus.Info("Iniciando atualização de contas")

	err := s.feed.Activate(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		return err
	}

	logrus.Info("Atualização de contas concluída")

	return nil
}

// TriggerManualSync dispara uma atualização em segundo plano
func (s *AccountRefreshService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização de contas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando atualização manual de contas")
	go func() {
		if err := s.RefreshAccounts(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na atualização manual de contas")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *AccountRefreshService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
