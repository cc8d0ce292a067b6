package qualifying

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/pkg/utils"
)

const fetchAccountsFallbackMessage = "Failed to fetch accounts"

// FeedObserver recebe notificações de publicação do feed (métricas)
type FeedObserver interface {
	AccountsPublished(count int)
	AccountFetchFailed()
}

// Feed é a visão do AccountFeed usada pelos handlers e pelo agendador
type Feed interface {
	Activate(ctx context.Context) error
	EnsureActivated(ctx context.Context) error
	State() domain.AccountFeedState
	Summary() domain.AccountSummary
}

type AccountLister interface {
	ListQualifiedAccounts(ctx context.Context) ([]*domain.QualifiedAccount, error)
}

// AccountFeed guarda a última lista de contas publicada junto com o flag de
// carregamento e a mensagem de erro. Uma ativação faz exatamente uma busca.
type AccountFeed struct {
	lister   AccountLister
	observer FeedObserver
	now      func() time.Time

	mu         sync.RWMutex
	state      domain.AccountFeedState
	generation uint64
}

func NewAccountFeed(lister AccountLister, observer FeedObserver) *AccountFeed {
	return &AccountFeed{
		lister:   lister,
		observer: observer,
		now:      time.Now,
		state: domain.AccountFeedState{
			Accounts: []*domain.QualifiedAccount{},
		},
	}
}

// Activate busca as contas e publica o resultado. Em caso de falha a lista
// publicada anteriormente é mantida. Resultados de ativações mais antigas que
// a última iniciada são descartados.
func (f *AccountFeed) Activate(ctx context.Context) error {
	f.mu.Lock()
	f.generation++
	generation := f.generation
	f.state.Loading = true
	f.state.Activated = true
	f.mu.Unlock()

	accounts, err := f.lister.ListQualifiedAccounts(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		logrus.WithField("generation", generation).Debug("Resultado de ativação obsoleto descartado")
		return err
	}

	f.state.Loading = false

	if err != nil {
		message := err.Error()
		if message == "" {
			message = fetchAccountsFallbackMessage
		}
		f.state.Error = &message

		if f.observer != nil {
			f.observer.AccountFetchFailed()
		}
		return err
	}

	if accounts == nil {
		accounts = []*domain.QualifiedAccount{}
	}

	now := f.now()
	f.state.Accounts = accounts
	f.state.Error = nil
	f.state.LastFetchAt = &now

	if f.observer != nil {
		f.observer.AccountsPublished(len(accounts))
	}

	return nil
}

// EnsureActivated ativa o feed se nenhuma lista foi publicada com sucesso ainda
func (f *AccountFeed) EnsureActivated(ctx context.Context) error {
	f.mu.RLock()
	published := f.state.LastFetchAt != nil
	loading := f.state.Loading
	f.mu.RUnlock()

	if published || loading {
		return nil
	}

	return f.Activate(ctx)
}

// State devolve uma cópia do estado publicado
func (f *AccountFeed) State() domain.AccountFeedState {
	f.mu.RLock()
	defer f.mu.RUnlock()

	state := f.state
	state.Accounts = make([]*domain.QualifiedAccount, len(f.state.Accounts))
	copy(state.Accounts, f.state.Accounts)
	if f.state.Error != nil {
		message := *f.state.Error
		state.Error = &message
	}

	return state
}

// Summary calcula os totais por tier sobre a lista publicada
func (f *AccountFeed) Summary() domain.AccountSummary {
	return Summarize(f.State().Accounts)
}

func Summarize(accounts []*domain.QualifiedAccount) domain.AccountSummary {
	summary := domain.AccountSummary{
		ByTier:        map[domain.Tier]int{domain.TierA: 0, domain.TierB: 0, domain.TierC: 0},
		TopIndustries: []string{},
	}

	if len(accounts) == 0 {
		return summary
	}

	var fitTotal float64
	var employeesTotal int
	industries := map[string]int{}

	for _, account := range accounts {
		summary.ByTier[account.Tier]++
		fitTotal += account.FitScore
		employeesTotal += account.Employees
		if account.Industry != DefaultIndustry {
			industries[account.Industry]++
		}
	}

	summary.Total = len(accounts)
	summary.AvgFitScore = utils.RoundWithTwoDecimalPlace(fitTotal / float64(len(accounts)))
	summary.AvgEmployees = utils.RoundWithTwoDecimalPlace(float64(employeesTotal) / float64(len(accounts)))

	for industry := range industries {
		summary.TopIndustries = append(summary.TopIndustries, industry)
	}
	sort.Slice(summary.TopIndustries, func(i, j int) bool {
		a, b := summary.TopIndustries[i], summary.TopIndustries[j]
		if industries[a] != industries[b] {
			return industries[a] > industries[b]
		}
		return a < b
	})
	if len(summary.TopIndustries) > 5 {
		summary.TopIndustries = summary.TopIndustries[:5]
	}

	return summary
}
