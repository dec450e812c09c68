package management

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	paused, disabled atomic.Int32
}

func newFlow(autoClose time.Duration) (*Flow, *counters) {
	c := &counters{}
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	f := New(autoClose, Callbacks{
		OnPause:   func() { c.paused.Add(1) },
		OnDisable: func() { c.disabled.Add(1) },
	}, log)
	return f, c
}

var schedule = Schedule{NextPaymentDate: "31 Nov 2025", PaymentMethod: "TWINT"}

func TestFlow_ManageView(t *testing.T) {
	f, _ := newFlow(time.Hour)
	require.NoError(t, f.Open(schedule))

	v := f.View()
	assert.True(t, v.Open)
	assert.Equal(t, StepManage, v.Step)
	assert.Equal(t, "Manage Auto Pay", v.Title)
	assert.Equal(t, "Next payment: 31 Nov 2025 • TWINT", v.Message)
	assert.Equal(t, schedule, v.Schedule)
}

func TestFlow_PauseGoesStraightToSuccess(t *testing.T) {
	f, c := newFlow(10 * time.Millisecond)
	require.NoError(t, f.Open(schedule))

	require.NoError(t, f.Pause())

	v := f.View()
	assert.Equal(t, StepSuccess, v.Step)
	assert.Equal(t, ActionPause, v.Action)
	assert.Equal(t, "Auto Pay Paused", v.Title)
	assert.Equal(t, int32(1), c.paused.Load())
	assert.Equal(t, int32(0), c.disabled.Load())

	assert.Eventually(t, func() bool { return !f.IsOpen() }, time.Second, time.Millisecond)
	assert.Equal(t, StepManage, f.View().Step)
}

func TestFlow_DisableNeedsConfirmation(t *testing.T) {
	f, c := newFlow(10 * time.Millisecond)
	require.NoError(t, f.Open(schedule))

	require.NoError(t, f.RequestDisable())
	v := f.View()
	assert.Equal(t, StepConfirmDisable, v.Step)
	assert.Equal(t, "Turn Off Auto Pay?", v.Title)
	assert.Equal(t, int32(0), c.disabled.Load())

	assert.ErrorIs(t, f.Pause(), ErrWrongStep)

	require.NoError(t, f.ConfirmDisable())
	v = f.View()
	assert.Equal(t, StepSuccess, v.Step)
	assert.Equal(t, "Auto Pay Disabled", v.Title)
	assert.Equal(t, int32(1), c.disabled.Load())

	assert.Eventually(t, func() bool { return !f.IsOpen() }, time.Second, time.Millisecond)
}

func TestFlow_GoBack(t *testing.T) {
	f, c := newFlow(time.Hour)
	require.NoError(t, f.Open(schedule))
	require.NoError(t, f.RequestDisable())

	require.NoError(t, f.GoBack())

	assert.Equal(t, StepManage, f.View().Step)
	assert.Equal(t, ActionNone, f.View().Action)
	assert.ErrorIs(t, f.ConfirmDisable(), ErrWrongStep)
	assert.ErrorIs(t, f.GoBack(), ErrWrongStep)
	assert.Equal(t, int32(0), c.disabled.Load())
}

func TestFlow_RequiresOpen(t *testing.T) {
	f, c := newFlow(time.Hour)

	assert.ErrorIs(t, f.Pause(), ErrNotOpen)
	assert.ErrorIs(t, f.RequestDisable(), ErrNotOpen)
	assert.Equal(t, int32(0), c.paused.Load())
}

func TestFlow_CloseCancelsAutoClose(t *testing.T) {
	f, _ := newFlow(20 * time.Millisecond)
	require.NoError(t, f.Open(schedule))
	require.NoError(t, f.Pause())

	require.NoError(t, f.Close())
	require.NoError(t, f.Open(schedule))
	require.NoError(t, f.RequestDisable())

	// Старый таймер автозакрытия не должен закрыть новый диалог.
	time.Sleep(40 * time.Millisecond)
	assert.True(t, f.IsOpen())
	assert.Equal(t, StepConfirmDisable, f.View().Step)
}

func TestFlow_Dispose(t *testing.T) {
	f, _ := newFlow(time.Hour)
	require.NoError(t, f.Open(schedule))

	f.Dispose()

	assert.False(t, f.IsOpen())
	assert.ErrorIs(t, f.Open(schedule), ErrDisposed)
	assert.ErrorIs(t, f.Pause(), ErrDisposed)
}
