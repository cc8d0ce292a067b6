package webhookclient

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMaxHosts = 1024
	defaultHostIdle = 10 * time.Minute
)

type hostEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// HostLimiter limita as requisições de saída por host de destino.
// Hosts sem uso há mais de idle são descartados quando o mapa chega a maxHosts.
type HostLimiter struct {
	mu       sync.Mutex
	m        map[string]*hostEntry
	r        rate.Limit
	b        int
	maxHosts int
	idle     time.Duration
	now      func() time.Time
}

// NewHostLimiter cria o limitador. reqPerSec <= 0 desativa o limite.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	limit := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	return &HostLimiter{
		m:        make(map[string]*hostEntry),
		r:        limit,
		b:        burst,
		maxHosts: defaultMaxHosts,
		idle:     defaultHostIdle,
		now:      time.Now,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	now := hl.now()
	if entry, ok := hl.m[host]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	if len(hl.m) >= hl.maxHosts {
		hl.evict(now)
	}

	entry := &hostEntry{limiter: rate.NewLimiter(hl.r, hl.b), lastSeen: now}
	hl.m[host] = entry
	return entry.limiter
}

// evict remove os hosts ociosos; se nenhum estiver ocioso, remove o menos recente
func (hl *HostLimiter) evict(now time.Time) {
	var oldestHost string
	var oldest time.Time
	for host, entry := range hl.m {
		if now.Sub(entry.lastSeen) > hl.idle {
			delete(hl.m, host)
			continue
		}
		if oldestHost == "" || entry.lastSeen.Before(oldest) {
			oldestHost, oldest = host, entry.lastSeen
		}
	}

	if len(hl.m) >= hl.maxHosts && oldestHost != "" {
		delete(hl.m, oldestHost)
	}
}

func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}
