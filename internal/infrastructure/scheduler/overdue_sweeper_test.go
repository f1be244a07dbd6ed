package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeChecker struct {
	mu    sync.Mutex
	calls []time.Time
	count int64
	err   error
	ran   chan struct{}
}

func newFakeChecker(count int64, err error) *fakeChecker {
	return &fakeChecker{count: count, err: err, ran: make(chan struct{}, 16)}
}

func (f *fakeChecker) CheckOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	select {
	case f.ran <- struct{}{}:
	default:
	}
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return f.count, f.err
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		OverdueEnabled:  true,
		OverdueInterval: time.Hour,
		JobTimeout:      time.Second,
	}
}

func TestNewOverdueSweeper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		checker OverdueChecker
		cfg     config.SchedulerConfig
	}{
		{"nil checker", nil, testSchedulerConfig()},
		{"zero interval", newFakeChecker(0, nil), config.SchedulerConfig{JobTimeout: time.Second}},
		{"zero timeout", newFakeChecker(0, nil), config.SchedulerConfig{OverdueInterval: time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOverdueSweeper(tt.checker, tt.cfg, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOverdueSweeper_RunOnce(t *testing.T) {
	checker := newFakeChecker(3, nil)
	s, err := NewOverdueSweeper(checker, testSchedulerConfig(), zap.NewNop())
	require.NoError(t, err)

	fixed := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	count, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	last, lastCount := s.LastRun()
	assert.Equal(t, fixed, last)
	assert.Equal(t, int64(3), lastCount)
	assert.Equal(t, []time.Time{fixed}, checker.calls)
}

func TestOverdueSweeper_RunOnceError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	checker := newFakeChecker(0, errors.New("db down"))
	s, err := NewOverdueSweeper(checker, testSchedulerConfig(), zap.New(core))
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	assert.EqualError(t, err, "db down")
	assert.Equal(t, 1, logs.FilterMessage("Overdue sweep failed").Len())

	last, _ := s.LastRun()
	assert.True(t, last.IsZero())
}

func TestOverdueSweeper_StartRunsImmediatelyAndStops(t *testing.T) {
	checker := newFakeChecker(1, nil)
	s, err := NewOverdueSweeper(checker, testSchedulerConfig(), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	select {
	case <-checker.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run on start")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.IsRunning())
	assert.Equal(t, 1, checker.callCount())

	// Stop is idempotent
	assert.NoError(t, s.Stop(stopCtx))
}

func TestOverdueSweeper_Ticks(t *testing.T) {
	checker := newFakeChecker(0, nil)
	cfg := testSchedulerConfig()
	cfg.OverdueInterval = 10 * time.Millisecond
	s, err := NewOverdueSweeper(checker, cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	assert.Eventually(t, func() bool { return checker.callCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestOverdueSweeper_Disabled(t *testing.T) {
	checker := newFakeChecker(0, nil)
	cfg := testSchedulerConfig()
	cfg.OverdueEnabled = false
	s, err := NewOverdueSweeper(checker, cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Equal(t, 0, checker.callCount())
}
