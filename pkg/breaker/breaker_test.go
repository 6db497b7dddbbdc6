package breaker_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/libris/library-service/pkg/breaker"
)

func TestBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("service error") }

	b := breaker.New(10, 50*time.Millisecond, 0.5, 2)

	for i := 0; i < 20; i++ {
		require.NoError(t, b.Call(ok))
	}

	// trip the breaker
	for i := 0; i < 10; i++ {
		_ = b.Call(fail)
	}
	err := b.Call(ok)
	require.ErrorIs(t, err, breaker.ErrOpen)

	// after the timeout a probe goes through, and enough successes close it
	time.Sleep(60 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Call(ok))
	}
	require.NoError(t, b.Call(ok))
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	fail := func() error { return errors.New("service error") }

	b := breaker.New(4, 50*time.Millisecond, 0.5, 1)
	for i := 0; i < 4; i++ {
		_ = b.Call(fail)
	}
	require.ErrorIs(t, b.Call(fail), breaker.ErrOpen)

	time.Sleep(60 * time.Millisecond)
	// the probe fails, so the breaker opens again immediately
	require.EqualError(t, b.Call(fail), "service error")
	require.ErrorIs(t, b.Call(fail), breaker.ErrOpen)
}
