package plan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFetcher struct {
	m     sync.Mutex
	usage *backend.PlanUsage
	err   error
	calls int
}

func (f *mockFetcher) PlanUsage(context.Context) (*backend.PlanUsage, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.usage, nil
}

type mockDismissals struct {
	m    sync.Mutex
	days map[string]struct{}
}

func newMockDismissals() *mockDismissals {
	return &mockDismissals{days: make(map[string]struct{})}
}

func (d *mockDismissals) DismissPlanBanner(_ context.Context, tenant, day string) error {
	d.m.Lock()
	defer d.m.Unlock()
	d.days[tenant+":"+day] = struct{}{}
	return nil
}

func (d *mockDismissals) PlanBannerDismissed(_ context.Context, tenant, day string) (bool, error) {
	d.m.Lock()
	defer d.m.Unlock()
	_, ok := d.days[tenant+":"+day]
	return ok, nil
}

func limitedUsage() *backend.PlanUsage {
	return &backend.PlanUsage{
		HasLimitReached: true,
		ReachedLimits:   []string{"products"},
		CurrentUsage:    backend.UsageCounts{Products: 100},
		PlanLimits:      backend.UsageCounts{Products: 100},
		PlanName:        "starter",
		Message:         "Product limit reached",
	}
}

func newTestGate(fetcher *mockFetcher, store *mockDismissals) *Gate {
	return NewGate(fetcher, nil, store, "tenant-1", time.Hour, zap.NewNop())
}

func TestBannerHiddenWhileLoading(t *testing.T) {
	g := newTestGate(&mockFetcher{usage: limitedUsage()}, newMockDismissals())

	// No refresh has happened yet.
	banner, err := g.Banner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, banner)
}

func TestBannerHiddenWhenNoLimitReached(t *testing.T) {
	fetcher := &mockFetcher{usage: &backend.PlanUsage{HasLimitReached: false, PlanName: "pro"}}
	g := newTestGate(fetcher, newMockDismissals())
	g.refresh(context.Background())

	banner, err := g.Banner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, banner)
}

func TestBannerNamesSaturatedResources(t *testing.T) {
	g := newTestGate(&mockFetcher{usage: limitedUsage()}, newMockDismissals())
	g.refresh(context.Background())

	banner, err := g.Banner(context.Background())
	require.NoError(t, err)
	require.NotNil(t, banner)
	assert.Equal(t, []string{"products"}, banner.ReachedLimits)
	assert.Equal(t, "Product limit reached", banner.Message)
	assert.NotEmpty(t, banner.UpgradePath)
}

func TestDismissalLastsForTheCalendarDay(t *testing.T) {
	g := newTestGate(&mockFetcher{usage: limitedUsage()}, newMockDismissals())
	now := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	g.refresh(context.Background())

	require.NoError(t, g.Dismiss(context.Background()))

	banner, err := g.Banner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, banner, "dismissed for the rest of the day")

	// Still the same day, hours later.
	now = now.Add(90 * time.Minute)
	banner, err = g.Banner(context.Background())
	require.NoError(t, err)
	assert.Nil(t, banner)

	// Next calendar day: the condition persists, the banner returns.
	now = now.Add(time.Hour)
	banner, err = g.Banner(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, banner)
}

func TestRefreshKeepsLastSnapshotOnError(t *testing.T) {
	fetcher := &mockFetcher{usage: limitedUsage()}
	g := newTestGate(fetcher, newMockDismissals())
	g.refresh(context.Background())

	fetcher.m.Lock()
	fetcher.err = errors.New("backend unreachable")
	fetcher.m.Unlock()
	g.refresh(context.Background())

	banner, err := g.Banner(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, banner, "stale snapshot keeps serving until the next success")
}

func TestStartRefreshesOnInterval(t *testing.T) {
	fetcher := &mockFetcher{usage: limitedUsage()}
	g := NewGate(fetcher, nil, newMockDismissals(), "tenant-1", 5*time.Millisecond, zap.NewNop())

	g.Start(context.Background())
	defer g.Stop()

	assert.Eventually(t, func() bool {
		fetcher.m.Lock()
		defer fetcher.m.Unlock()
		return fetcher.calls >= 3
	}, time.Second, time.Millisecond)
}
