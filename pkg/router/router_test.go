package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitOpensAfterThreshold(t *testing.T) {
	s := NewProviderStats()

	s.RecordFailure(2)
	require.Equal(t, CircuitClosed, s.State())

	s.RecordFailure(2)
	require.Equal(t, CircuitOpen, s.State())
	require.False(t, s.IsAvailable(time.Hour))

	requests, failures := s.Totals()
	require.EqualValues(t, 2, requests)
	require.EqualValues(t, 2, failures)
}

func TestCircuitRecovers(t *testing.T) {
	s := NewProviderStats()

	s.RecordFailure(1)
	require.Equal(t, CircuitOpen, s.State())

	require.True(t, s.IsAvailable(0))
	require.Equal(t, CircuitHalfOpen, s.State())

	s.AddInflight(1)
	require.False(t, s.IsAvailable(0))
	s.AddInflight(-1)

	s.RecordSuccess()
	require.Equal(t, CircuitClosed, s.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	s := NewProviderStats()
	s.SetHalfOpen()

	s.RecordFailure(10)
	require.Equal(t, CircuitOpen, s.State())
	require.False(t, s.LastFailure().IsZero())
}
