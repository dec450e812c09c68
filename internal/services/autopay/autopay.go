// Package autopay содержит движок Auto-Pay: владение записью состояния,
// асинхронные операции включения, выключения, паузы и возобновления,
// отправку телеметрии и уведомление подписчиков о переходах.
package autopay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	"github.com/magabrotheeeer/autopay/internal/models"
)

// Пользовательские сообщения об ошибках.
const (
	MsgDeclined      = "We couldn't process your last Auto Pay. Update your payment method."
	MsgNetworkError  = "Network error. Please try again."
	MsgPaymentFailed = "Last Auto Pay failed. Update your payment method."
)

var (
	// ErrOperationInProgress возвращается, если другая операция ещё не завершилась.
	ErrOperationInProgress = errors.New("auto-pay operation already in progress")
	// ErrInvalidTransition возвращается, если операция недопустима в текущем статусе.
	ErrInvalidTransition = errors.New("operation is not allowed in current auto-pay status")
	// ErrEmptyPaymentMethod возвращается при включении без способа оплаты.
	ErrEmptyPaymentMethod = errors.New("payment method is required")
)

// Gateway описывает удалённый сервис Auto-Pay.
// Enable возвращает ErrDeclined при отказе в активации, любая другая ошибка считается сетевой.
type Gateway interface {
	Enable(ctx context.Context, paymentMethod string) error
	Disable(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// Sink принимает события телеметрии.
type Sink interface {
	Track(ctx context.Context, event models.Event) error
}

// Schedule вычисляет дату следующего автоматического платежа.
type Schedule interface {
	NextPaymentDate(now time.Time) string
}

// Listener вызывается после каждого изменения записи.
type Listener func(models.Transition)

var allowedFrom = map[models.Operation][]models.AutoPayStatus{
	models.OpEnable:               {models.StatusDisabled, models.StatusError, models.StatusPaymentFailed},
	models.OpDisable:              {models.StatusDisabled, models.StatusEnabled, models.StatusPaused, models.StatusPaymentFailed, models.StatusError},
	models.OpPause:                {models.StatusEnabled},
	models.OpResume:               {models.StatusPaused},
	models.OpReportPaymentFailure: {models.StatusEnabled, models.StatusPaused},
}

// Engine владеет записью Auto-Pay. Одновременно выполняется не более одной операции.
type Engine struct {
	gateway  Gateway
	sink     Sink
	schedule Schedule
	now      func() time.Time
	log      *slog.Logger

	mu        sync.Mutex
	record    models.AutoPayRecord
	listeners map[int]Listener
	nextID    int
}

// Option настраивает Engine.
type Option func(*Engine)

// WithSink задаёт приёмник телеметрии.
func WithSink(sink Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithSchedule задаёт расписание платежей.
func WithSchedule(schedule Schedule) Option {
	return func(e *Engine) { e.schedule = schedule }
}

// WithClock задаёт источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine создает движок в статусе disabled.
func NewEngine(gateway Gateway, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		gateway:   gateway,
		sink:      noopSink{},
		schedule:  FixedSchedule(DefaultNextPaymentDate),
		now:       time.Now,
		log:       log,
		record:    models.NewAutoPayRecord(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State возвращает копию текущей записи.
func (e *Engine) State() models.AutoPayRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Clone()
}

// Subscribe регистрирует слушателя переходов и возвращает функцию отписки.
func (e *Engine) Subscribe(l Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = l
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// Enable включает Auto-Pay с выбранным способом оплаты.
// Отказ и сетевая ошибка переводят запись в error и возвращаются вызывающему.
func (e *Engine) Enable(ctx context.Context, paymentMethod string) error {
	const op = "autopay.Enable"
	if paymentMethod == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyPaymentMethod)
	}
	if err := e.begin(models.OpEnable, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := e.gateway.Enable(ctx, paymentMethod)
	if err != nil {
		msg, label := MsgNetworkError, "network_error"
		if errors.Is(err, ErrDeclined) {
			msg, label = MsgDeclined, "auto_pay_activation_declined"
		}
		e.finish(models.OpEnable, err, func(r *models.AutoPayRecord) {
			r.Status = models.StatusError
			r.Error = models.StringPtr(msg)
			r.NextPaymentDate = nil
			r.PaymentMethod = nil
			r.IsPausedForOneCycle = false
		})
		e.log.Warn("auto-pay activation failed", sl.Op(op), sl.Err(err))
		e.track(ctx, models.EventAutoPayFailed, label)
		return fmt.Errorf("%s: %w", op, err)
	}

	next := e.schedule.NextPaymentDate(e.now())
	e.finish(models.OpEnable, nil, func(r *models.AutoPayRecord) {
		r.Status = models.StatusEnabled
		r.NextPaymentDate = models.StringPtr(next)
		r.PaymentMethod = models.StringPtr(paymentMethod)
		r.IsPausedForOneCycle = false
	})
	e.log.Info("auto-pay enabled", slog.String("payment_method", paymentMethod), slog.String("next_payment_date", next))
	e.track(ctx, models.EventAutoPayEnabled, "auto_pay_activation")
	return nil
}

// Disable выключает Auto-Pay и очищает дату, способ оплаты и ошибку.
func (e *Engine) Disable(ctx context.Context) error {
	const op = "autopay.Disable"
	return e.run(ctx, op, models.OpDisable, e.gateway.Disable, "Failed to disable Auto-Pay. Please try again.",
		func(r *models.AutoPayRecord) {
			r.Status = models.StatusDisabled
			r.NextPaymentDate = nil
			r.PaymentMethod = nil
			r.Error = nil
			r.IsPausedForOneCycle = false
		}, models.EventAutoPayDisabled, "auto_pay_deactivation")
}

// Pause приостанавливает Auto-Pay на один цикл. Дата и способ оплаты сохраняются.
func (e *Engine) Pause(ctx context.Context) error {
	const op = "autopay.Pause"
	return e.run(ctx, op, models.OpPause, e.gateway.Pause, "Failed to pause Auto-Pay. Please try again.",
		func(r *models.AutoPayRecord) {
			r.Status = models.StatusPaused
			r.IsPausedForOneCycle = true
		}, models.EventAutoPayPaused, "auto_pay_pause")
}

// Resume возобновляет приостановленный Auto-Pay.
func (e *Engine) Resume(ctx context.Context) error {
	const op = "autopay.Resume"
	return e.run(ctx, op, models.OpResume, e.gateway.Resume, "Failed to resume Auto-Pay. Please try again.",
		func(r *models.AutoPayRecord) {
			r.Status = models.StatusEnabled
			r.IsPausedForOneCycle = false
		}, models.EventAutoPayResumed, "auto_pay_resume")
}

// ClearError сбрасывает текст ошибки, не меняя статус.
func (e *Engine) ClearError() {
	e.mu.Lock()
	from := e.record.Clone()
	e.record.Error = nil
	to := e.record.Clone()
	listeners := e.snapshotListeners()
	e.mu.Unlock()

	notify(listeners, models.Transition{Op: models.OpClearError, From: from, To: to})
}

// ReportPaymentFailure отмечает неудачный автоматический платёж.
func (e *Engine) ReportPaymentFailure(ctx context.Context) error {
	const op = "autopay.ReportPaymentFailure"
	e.mu.Lock()
	if e.record.IsLoading {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrOperationInProgress)
	}
	if !allowed(models.OpReportPaymentFailure, e.record.Status) {
		status := e.record.Status
		e.mu.Unlock()
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidTransition, status)
	}
	from := e.record.Clone()
	e.record.Status = models.StatusPaymentFailed
	e.record.Error = models.StringPtr(MsgPaymentFailed)
	e.record.NextPaymentDate = nil
	e.record.PaymentMethod = nil
	e.record.IsPausedForOneCycle = false
	to := e.record.Clone()
	listeners := e.snapshotListeners()
	e.mu.Unlock()

	notify(listeners, models.Transition{Op: models.OpReportPaymentFailure, From: from, To: to})
	e.log.Warn("auto-pay payment failed")
	e.track(ctx, models.EventAutoPayFailed, "payment_failure")
	return nil
}

// Async запускает операцию в фоне. Канал получает результат и закрывается.
func Async(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
		close(done)
	}()
	return done
}

func (e *Engine) run(
	ctx context.Context,
	op string,
	operation models.Operation,
	call func(context.Context) error,
	failMsg string,
	apply func(*models.AutoPayRecord),
	event, label string,
) error {
	if err := e.begin(operation, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := call(ctx); err != nil {
		e.finish(operation, err, func(*models.AutoPayRecord) {})
		e.log.Error(failMsg, sl.Op(op), sl.Err(err))
		return fmt.Errorf("%s: %s: %w", op, failMsg, err)
	}
	e.finish(operation, nil, apply)
	e.log.Info("auto-pay transition applied", sl.Op(op))
	e.track(ctx, event, label)
	return nil
}

// begin проверяет допустимость операции и переводит запись в загрузку.
func (e *Engine) begin(operation models.Operation, clearError bool) error {
	e.mu.Lock()
	if e.record.IsLoading {
		e.mu.Unlock()
		return ErrOperationInProgress
	}
	if !allowed(operation, e.record.Status) {
		status := e.record.Status
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidTransition, status)
	}
	from := e.record.Clone()
	e.record.IsLoading = true
	if clearError {
		e.record.Error = nil
	}
	to := e.record.Clone()
	listeners := e.snapshotListeners()
	e.mu.Unlock()

	notify(listeners, models.Transition{Op: operation, From: from, To: to, Started: true})
	return nil
}

func (e *Engine) finish(operation models.Operation, opErr error, apply func(*models.AutoPayRecord)) {
	e.mu.Lock()
	from := e.record.Clone()
	apply(&e.record)
	e.record.IsLoading = false
	to := e.record.Clone()
	listeners := e.snapshotListeners()
	e.mu.Unlock()

	notify(listeners, models.Transition{Op: operation, From: from, To: to, Err: opErr})
}

func (e *Engine) track(ctx context.Context, name, label string) {
	event := models.Event{
		ID:         uuid.NewString(),
		Name:       name,
		Category:   models.EventCategoryBilling,
		Label:      label,
		OccurredAt: e.now().UTC(),
	}
	if err := e.sink.Track(context.WithoutCancel(ctx), event); err != nil {
		e.log.Warn("failed to track telemetry event", slog.String("event", name), sl.Err(err))
	}
}

// snapshotListeners вызывается под e.mu.
func (e *Engine) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, t models.Transition) {
	for _, l := range listeners {
		l(t)
	}
}

func allowed(operation models.Operation, status models.AutoPayStatus) bool {
	return slices.Contains(allowedFrom[operation], status)
}

type noopSink struct{}

func (noopSink) Track(context.Context, models.Event) error { return nil }
