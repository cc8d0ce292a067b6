package qualifying

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vfg2006/icp-dashboard-api/internal/domain"
)

// SignalProvider fornece os campos de intenção de uma conta.
// Hoje não existe fonte real de sinais; RandomSignalProvider preenche placeholders.
type SignalProvider interface {
	Signals(company *domain.ExploriumCompany) domain.IntentSignals
}

// RandomSignalProvider gera valores aleatórios a cada busca. Os números NÃO
// vêm de sinais reais e servem apenas para demonstração do dashboard.
type RandomSignalProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// ClockSeed pede uma semente derivada do relógio, diferente a cada inicialização
const ClockSeed int64 = 0

var seedClock = time.Now

func NewRandomSignalProvider(seed int64) *RandomSignalProvider {
	if seed == ClockSeed {
		seed = seedClock().UnixNano()
	}
	return &RandomSignalProvider{
		rnd: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

func (p *RandomSignalProvider) Signals(_ *domain.ExploriumCompany) domain.IntentSignals {
	p.mu.Lock()
	defer p.mu.Unlock()

	lastActivity := p.now().Add(-time.Duration(p.rnd.Int63n(int64(30 * 24 * time.Hour))))

	return domain.IntentSignals{
		IntentScore:    p.rnd.Intn(101),
		IntentDelta14d: p.rnd.Intn(41) - 20,
		LastActivityAt: lastActivity.UTC().Truncate(time.Second),
		RulesMatch: domain.RulesMatch{
			Industry:   p.rnd.Float64() > 0.3,
			Size:       p.rnd.Float64() > 0.3,
			Geo:        p.rnd.Float64() > 0.3,
			Technology: p.rnd.Float64() > 0.5,
		},
	}
}

// StaticSignalProvider devolve sempre os mesmos sinais; útil quando os
// placeholders aleatórios não são desejados.
type StaticSignalProvider struct {
	Value domain.IntentSignals
}

func (p StaticSignalProvider) Signals(_ *domain.ExploriumCompany) domain.IntentSignals {
	return p.Value
}
