package activation

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/autopay/internal/models"
)

type recorder struct {
	mu      sync.Mutex
	methods []string
}

func (r *recorder) onSuccess(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = append(r.methods, m)
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.methods...)
}

func newFlow(auth, autoClose time.Duration) (*Flow, *recorder) {
	rec := &recorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return New(Config{AuthDelay: auth, AutoCloseDelay: autoClose}, rec.onSuccess, log), rec
}

func TestFlow_HappyPath(t *testing.T) {
	f, rec := newFlow(5*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, f.Open())
	v := f.View()
	assert.Equal(t, StepSelect, v.Step)
	assert.Equal(t, "Enable Auto Pay", v.Title)
	require.Len(t, v.Methods, 3)
	assert.True(t, v.Methods[0].Recommended)
	assert.False(t, v.PrimaryEnabled)

	require.NoError(t, f.Select("twint"))
	assert.True(t, f.View().PrimaryEnabled)

	redirect, err := f.Continue()
	require.NoError(t, err)
	assert.Empty(t, redirect)
	assert.Equal(t, StepAuthenticate, f.View().Step)
	assert.Equal(t, "Authenticate Now", f.View().PrimaryLabel)

	require.NoError(t, f.Authenticate())
	assert.Equal(t, StepSuccess, f.View().Step)
	assert.Equal(t, "Auto Pay Enabled!", f.View().Title)

	assert.Eventually(t, func() bool { return len(rec.calls()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"TWINT"}, rec.calls())
	assert.Eventually(t, func() bool { return !f.IsOpen() }, time.Second, time.Millisecond)
	assert.Equal(t, StepSelect, f.View().Step)
}

func TestFlow_ContinueWithoutSelection(t *testing.T) {
	f, _ := newFlow(0, 0)
	require.NoError(t, f.Open())

	_, err := f.Continue()

	assert.ErrorIs(t, err, ErrNoMethodSelected)
	assert.Equal(t, StepSelect, f.View().Step)
}

func TestFlow_UnknownMethod(t *testing.T) {
	f, _ := newFlow(0, 0)
	require.NoError(t, f.Open())

	assert.ErrorIs(t, f.Select("paypal"), ErrUnknownMethod)
}

func TestFlow_AddNewMethodRedirects(t *testing.T) {
	f, rec := newFlow(0, 0)
	require.NoError(t, f.Open())
	require.NoError(t, f.Select(models.AddNewMethodID))

	redirect, err := f.Continue()

	require.NoError(t, err)
	assert.Equal(t, AddPaymentMethodPath, redirect)
	assert.False(t, f.IsOpen())
	assert.Empty(t, rec.calls())
}

func TestFlow_ActionsRequireOpenDialog(t *testing.T) {
	f, _ := newFlow(0, 0)

	assert.ErrorIs(t, f.Select("twint"), ErrNotOpen)
	_, err := f.Continue()
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, f.Authenticate(), ErrNotOpen)
	assert.NoError(t, f.Close())
}

func TestFlow_WrongStep(t *testing.T) {
	f, _ := newFlow(0, time.Hour)
	require.NoError(t, f.Open())

	assert.ErrorIs(t, f.Authenticate(), ErrWrongStep)

	require.NoError(t, f.Select("visa"))
	_, err := f.Continue()
	require.NoError(t, err)
	assert.ErrorIs(t, f.Select("twint"), ErrWrongStep)
}

func TestFlow_CloseBlockedDuringAuthentication(t *testing.T) {
	f, rec := newFlow(50*time.Millisecond, time.Hour)
	require.NoError(t, f.Open())
	require.NoError(t, f.Select("visa"))
	_, err := f.Continue()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- f.Authenticate() }()

	assert.Eventually(t, func() bool { return f.View().IsProcessing }, time.Second, time.Millisecond)
	v := f.View()
	assert.False(t, v.CanClose)
	assert.Equal(t, "Authenticating...", v.PrimaryLabel)
	assert.ErrorIs(t, f.Close(), ErrCloseBlocked)
	assert.ErrorIs(t, f.Authenticate(), ErrWrongStep)

	require.NoError(t, <-done)
	assert.Equal(t, StepSuccess, f.View().Step)

	// На шаге успеха закрытие сразу завершает активацию.
	require.NoError(t, f.Close())
	assert.Equal(t, []string{"Visa ****1234"}, rec.calls())
	assert.False(t, f.IsOpen())
}

func TestFlow_CloseOnSelectResets(t *testing.T) {
	f, rec := newFlow(0, 0)
	require.NoError(t, f.Open())
	require.NoError(t, f.Select("visa"))

	require.NoError(t, f.Close())
	require.NoError(t, f.Open())

	assert.Empty(t, f.View().SelectedMethod)
	assert.Empty(t, rec.calls())
}

func TestFlow_DisposeCancelsPendingCallbacks(t *testing.T) {
	t.Run("during authentication", func(t *testing.T) {
		f, rec := newFlow(time.Hour, 0)
		require.NoError(t, f.Open())
		require.NoError(t, f.Select("twint"))
		_, err := f.Continue()
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- f.Authenticate() }()
		assert.Eventually(t, func() bool { return f.View().IsProcessing }, time.Second, time.Millisecond)

		f.Dispose()

		assert.ErrorIs(t, <-done, ErrDisposed)
		assert.Empty(t, rec.calls())
		assert.ErrorIs(t, f.Open(), ErrDisposed)
	})

	t.Run("during auto close", func(t *testing.T) {
		f, rec := newFlow(0, 20*time.Millisecond)
		require.NoError(t, f.Open())
		require.NoError(t, f.Select("twint"))
		_, err := f.Continue()
		require.NoError(t, err)
		require.NoError(t, f.Authenticate())

		f.Dispose()
		f.Dispose()

		time.Sleep(40 * time.Millisecond)
		assert.Empty(t, rec.calls())
	})
}
