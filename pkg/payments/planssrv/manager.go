// Package planssrv caches the plan catalog and keeps it fresh.
package planssrv

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joopert/translate-app/pkg/logx"
	"github.com/joopert/translate-app/pkg/payments"
)

// snapshot is one immutable fetch result. Readers get the whole thing or
// nothing; partial updates cannot be observed.
type snapshot struct {
	plans     payments.Plans
	fetchedAt time.Time
}

// Manager caches the plan catalog fetched from the payment provider.
// Exactly one instance is constructed per process and injected where
// plans are needed.
//
// Reads are lock-free against an atomically replaced snapshot; the mutex
// only serializes refreshes so concurrent callers cannot stampede the
// provider.
type Manager struct {
	fetcher  payments.PlanFetcher
	interval time.Duration

	current atomic.Pointer[snapshot]
	mu      sync.Mutex

	autoOnce sync.Once
}

// NewManager builds the manager. refreshInterval is how long a snapshot
// stays fresh.
func NewManager(fetcher payments.PlanFetcher, refreshInterval time.Duration) *Manager {
	return &Manager{fetcher: fetcher, interval: refreshInterval}
}

// Plans returns the cached catalog without touching the provider.
// Before the first successful fetch it fails with PLANS_NOT_INITIALIZED.
func (m *Manager) Plans() (payments.Plans, error) {
	s := m.current.Load()
	if s == nil {
		return nil, payments.ErrRegistry.New(payments.CodePlansNotInitialized)
	}
	return s.plans, nil
}

// GetPlans returns the cached catalog, fetching synchronously only when no
// snapshot exists yet.
func (m *Manager) GetPlans(ctx context.Context) (payments.Plans, error) {
	if s := m.current.Load(); s != nil {
		return s.plans, nil
	}
	if err := m.Refresh(ctx, true); err != nil {
		return nil, err
	}
	return m.Plans()
}

// Refresh re-fetches the catalog. Non-forced calls are cheap: they return
// immediately while the snapshot is fresh, including callers that waited on
// the mutex while another goroutine refreshed. A failed fetch leaves the
// previous snapshot untouched.
func (m *Manager) Refresh(ctx context.Context, force bool) error {
	if !force && m.fresh() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check: the refresh we waited for may have done the work.
	if !force && m.fresh() {
		return nil
	}

	plans, err := m.fetcher.FetchPlans(ctx)
	if err != nil {
		logx.WithError(err).Error("Plan catalog refresh failed")
		return payments.ErrRegistry.NewWithCause(payments.CodePlansRefreshFailed, err)
	}

	m.current.Store(&snapshot{plans: plans, fetchedAt: time.Now()})
	logx.WithField("count", len(plans)).Info("Plan catalog refreshed")
	return nil
}

// StartAutoRefresh launches the background refresh loop. Calling it more
// than once is a no-op. The goroutine lives for the rest of the process.
func (m *Manager) StartAutoRefresh() {
	m.autoOnce.Do(func() {
		go m.autoRefreshLoop()
	})
}

func (m *Manager) autoRefreshLoop() {
	for {
		start := time.Now()
		if err := m.Refresh(context.Background(), false); err != nil {
			logx.WithError(err).Warn("Background plan refresh failed, keeping previous catalog")
		}
		if sleep := m.interval - time.Since(start); sleep > 0 {
			time.Sleep(sleep)
		}
	}
}

func (m *Manager) fresh() bool {
	s := m.current.Load()
	return s != nil && time.Since(s.fetchedAt) < m.interval
}
