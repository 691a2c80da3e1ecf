package plan

import (
	"context"
	"sync"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"go.uber.org/zap"
)

const dayFormat = "2006-01-02"

// UsageFetcher is the slice of the backend client the gate reads from.
type UsageFetcher interface {
	PlanUsage(ctx context.Context) (*backend.PlanUsage, error)
}

// Migrator handles the separate plan-migration request/response pair.
type Migrator interface {
	RequestPlanMigration(ctx context.Context, req backend.MigrationRequest) error
	MigrationHistory(ctx context.Context) ([]backend.Migration, error)
}

// DismissStore remembers banner dismissals per calendar day.
type DismissStore interface {
	DismissPlanBanner(ctx context.Context, tenant, day string) error
	PlanBannerDismissed(ctx context.Context, tenant, day string) (bool, error)
}

// Banner is the advisory readout shown when a plan ceiling is hit.
type Banner struct {
	ReachedLimits []string            `json:"reached_limits"`
	CurrentUsage  backend.UsageCounts `json:"current_usage"`
	PlanLimits    backend.UsageCounts `json:"plan_limits"`
	PlanName      string              `json:"plan_name"`
	Message       string              `json:"message"`
	UpgradePath   string              `json:"upgrade_path"`
}

// Gate refreshes the tenant's usage snapshot on an interval and decides
// whether the limit banner shows. It never writes plan state; migration
// requests pass straight through to the backend.
type Gate struct {
	fetcher  UsageFetcher
	migrator Migrator
	store    DismissStore
	tenant   string
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *backend.PlanUsage
	loaded   bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGate(fetcher UsageFetcher, migrator Migrator, store DismissStore, tenant string, interval time.Duration, logger *zap.Logger) *Gate {
	return &Gate{
		fetcher:  fetcher,
		migrator: migrator,
		store:    store,
		tenant:   tenant,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start fetches once immediately, then refreshes on the configured interval
// until Stop.
func (g *Gate) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		g.refresh(runCtx)

		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				g.refresh(runCtx)
			}
		}
	}()
}

func (g *Gate) Stop() {
	if g.cancel != nil {
		g.cancel()
	}
	g.wg.Wait()
}

func (g *Gate) refresh(ctx context.Context) {
	usage, err := g.fetcher.PlanUsage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// The previous snapshot stays in place; the banner decision just runs
		// on stale data until the next cycle.
		g.logger.Warn("failed to refresh plan usage", zap.Error(err))
		return
	}

	g.mu.Lock()
	g.snapshot = usage
	g.loaded = true
	g.mu.Unlock()
}

// Snapshot returns the last fetched usage, or nil before the first success.
func (g *Gate) Snapshot() *backend.PlanUsage {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// Banner returns nil while loading, when no limit is reached, or when the
// operator dismissed it today. It reappears on the next calendar day if the
// condition persists.
func (g *Gate) Banner(ctx context.Context) (*Banner, error) {
	g.mu.RLock()
	snapshot, loaded := g.snapshot, g.loaded
	g.mu.RUnlock()

	if !loaded || snapshot == nil || !snapshot.HasLimitReached {
		return nil, nil
	}

	dismissed, err := g.store.PlanBannerDismissed(ctx, g.tenant, g.today())
	if err != nil {
		g.logger.Warn("failed to check banner dismissal", zap.Error(err))
	}
	if dismissed {
		return nil, nil
	}

	return &Banner{
		ReachedLimits: snapshot.ReachedLimits,
		CurrentUsage:  snapshot.CurrentUsage,
		PlanLimits:    snapshot.PlanLimits,
		PlanName:      snapshot.PlanName,
		Message:       snapshot.Message,
		UpgradePath:   "/admin/plan/upgrade",
	}, nil
}

// Dismiss suppresses the banner for the rest of the current calendar day.
func (g *Gate) Dismiss(ctx context.Context) error {
	return g.store.DismissPlanBanner(ctx, g.tenant, g.today())
}

func (g *Gate) RequestMigration(ctx context.Context, req backend.MigrationRequest) error {
	return g.migrator.RequestPlanMigration(ctx, req)
}

func (g *Gate) MigrationHistory(ctx context.Context) ([]backend.Migration, error) {
	return g.migrator.MigrationHistory(ctx)
}

func (g *Gate) today() string {
	return g.now().Format(dayFormat)
}
