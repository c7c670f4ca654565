package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBreaker struct {
	state  gobreaker.State
	counts gobreaker.Counts
}

func (b stubBreaker) State() gobreaker.State   { return b.state }
func (b stubBreaker) Counts() gobreaker.Counts { return b.counts }

func TestRegistry_RecordOutcomes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry := NewRegistry()
	registry.now = func() time.Time { return now }
	registry.Register("fcm", stubBreaker{state: gobreaker.StateClosed})

	health, ok := registry.Health("fcm")
	require.True(t, ok)
	assert.Nil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)
	assert.Empty(t, health.LastError)

	registry.Record("fcm", nil)
	now = now.Add(time.Minute)
	registry.Record("fcm", errors.New("quota exceeded"))

	health, _ = registry.Health("fcm")
	require.NotNil(t, health.LastSuccessAt)
	require.NotNil(t, health.LastFailureAt)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), *health.LastSuccessAt)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC), *health.LastFailureAt)
	assert.Equal(t, "quota exceeded", health.LastError)

	now = now.Add(time.Minute)
	registry.Record("fcm", nil)
	health, _ = registry.Health("fcm")
	assert.Equal(t, "quota exceeded", health.LastError, "last error survives later successes")
}

func TestRegistry_UnknownProvider(t *testing.T) {
	registry := NewRegistry()

	assert.NotPanics(t, func() { registry.Record("apns", assert.AnError) })

	_, ok := registry.Health("apns")
	assert.False(t, ok)
	assert.Empty(t, registry.Snapshot())
}

func TestRegistry_SnapshotSortedByName(t *testing.T) {
	registry := NewRegistry()
	registry.Register("fcm", stubBreaker{state: gobreaker.StateOpen, counts: gobreaker.Counts{ConsecutiveFailures: 5}})
	registry.Register("expo", stubBreaker{state: gobreaker.StateClosed})

	snapshot := registry.Snapshot()

	require.Len(t, snapshot, 2)
	assert.Equal(t, "expo", snapshot[0].Name)
	assert.Equal(t, "fcm", snapshot[1].Name)
	assert.Equal(t, gobreaker.StateOpen, snapshot[1].CircuitState)
	assert.Equal(t, uint32(5), snapshot[1].Counts.ConsecutiveFailures)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	registry := NewRegistry()
	registry.Register("expo", stubBreaker{state: gobreaker.StateOpen})
	registry.Record("expo", assert.AnError)
	registry.Register("expo", stubBreaker{state: gobreaker.StateClosed})

	health, ok := registry.Health("expo")
	require.True(t, ok)
	assert.Equal(t, StatusOK, health.Status())
	assert.Empty(t, health.LastError)
}

func TestProviderHealth_Status(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  Status
	}{
		{gobreaker.StateClosed, StatusOK},
		{gobreaker.StateHalfOpen, StatusDegraded},
		{gobreaker.StateOpen, StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ProviderHealth{CircuitState: tt.state}.Status())
		})
	}
}
