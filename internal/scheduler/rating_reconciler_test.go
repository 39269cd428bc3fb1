package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecalculator struct {
	calls atomic.Int32
	err   error
}

func (c *countingRecalculator) RecalculateAll(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 3, c.err
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRatingReconciler_RunOnce(t *testing.T) {
	ok := &countingRecalculator{}
	processed, err := NewRatingReconciler(ok, "@every 1h", newLogger()).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, processed)

	failing := &countingRecalculator{err: errors.New("course 2: boom")}
	_, err = NewRatingReconciler(failing, "@every 1h", newLogger()).RunOnce(context.Background())
	assert.EqualError(t, err, "course 2: boom")
}

func TestRatingReconciler_StartRunsOnSchedule(t *testing.T) {
	recalc := &countingRecalculator{}
	reconciler := NewRatingReconciler(recalc, "@every 1s", newLogger())

	require.NoError(t, reconciler.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		reconciler.Stop(ctx)
	})

	assert.Eventually(t, func() bool {
		return recalc.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestRatingReconciler_Schedules(t *testing.T) {
	recalc := &countingRecalculator{}

	disabled := NewRatingReconciler(recalc, "", newLogger())
	require.NoError(t, disabled.Start())
	disabled.Stop(context.Background())

	invalid := NewRatingReconciler(recalc, "every tuesday", newLogger())
	assert.Error(t, invalid.Start())

	assert.Zero(t, recalc.calls.Load())
}
