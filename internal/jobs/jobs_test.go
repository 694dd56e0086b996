package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/metrics"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count     int64
	err       error
	threshold int
}

func (f *fakeCounter) CountLowStock(_ context.Context, threshold int) (int64, error) {
	f.threshold = threshold
	return f.count, f.err
}

type fakeRefresher struct {
	calls int
	panic bool
}

func (f *fakeRefresher) RefreshStats(context.Context) (domain.DashboardStats, error) {
	f.calls++
	if f.panic {
		panic("boom")
	}
	return domain.DashboardStats{}, nil
}

func lowStockGauge(t *testing.T) float64 {
	var m dto.Metric
	require.NoError(t, metrics.LowStockProducts.Write(&m))
	return m.GetGauge().GetValue()
}

func TestLowStockJob(t *testing.T) {
	counter := &fakeCounter{count: 3}
	LowStockJob(counter, 5)()

	assert.Equal(t, 5, counter.threshold)
	assert.Equal(t, float64(3), lowStockGauge(t))

	counter.count, counter.err = 0, errors.New("db down")
	LowStockJob(counter, 5)()
	assert.Equal(t, float64(3), lowStockGauge(t))
}

func TestDashboardJob_RecoversPanics(t *testing.T) {
	refresher := &fakeRefresher{panic: true}
	assert.NotPanics(t, DashboardJob(refresher))
	assert.Equal(t, 1, refresher.calls)
}

func TestNew(t *testing.T) {
	s, err := New(&fakeCounter{}, 5, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s, err = New(&fakeCounter{}, 5, &fakeRefresher{})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s.Start()
	s.Stop(context.Background())
}
