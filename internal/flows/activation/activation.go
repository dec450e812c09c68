// Package activation реализует пошаговый диалог включения Auto-Pay:
// выбор способа оплаты, симулированная аутентификация 3-D Secure и экран успеха,
// после которого диалог закрывается сам и передаёт выбранный способ оплаты.
package activation

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/autopay/internal/lib/timer"
	"github.com/magabrotheeeer/autopay/internal/models"
)

// Step — шаг диалога.
type Step string

const (
	StepSelect       Step = "select"
	StepAuthenticate Step = "authenticate"
	StepSuccess      Step = "success"
)

// AddPaymentMethodPath — страница, на которую уводит пункт «добавить новый способ оплаты».
const AddPaymentMethodPath = "/billing/payment-method"

var (
	ErrNotOpen          = errors.New("activation dialog is not open")
	ErrNoMethodSelected = errors.New("no payment method selected")
	ErrUnknownMethod    = errors.New("unknown payment method")
	ErrWrongStep        = errors.New("action is not available on current step")
	ErrCloseBlocked     = errors.New("activation dialog cannot be closed during authentication")
	ErrDisposed         = errors.New("activation dialog is disposed")
)

// Config задаёт задержки диалога.
type Config struct {
	AuthDelay      time.Duration
	AutoCloseDelay time.Duration
	Methods        []models.PaymentMethod
}

// View — состояние диалога для отрисовки.
type View struct {
	Open           bool                   `json:"open"`
	Step           Step                   `json:"step"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Methods        []models.PaymentMethod `json:"methods,omitempty"`
	SelectedMethod string                 `json:"selected_method,omitempty"`
	PrimaryLabel   string                 `json:"primary_label"`
	PrimaryEnabled bool                   `json:"primary_enabled"`
	IsProcessing   bool                   `json:"is_processing"`
	CanClose       bool                   `json:"can_close"`
}

// Flow — диалог активации. Методы безопасны для одновременного вызова.
type Flow struct {
	cfg       Config
	onSuccess func(paymentMethod string)
	timers    *timer.Group
	log       *slog.Logger

	mu              sync.Mutex
	open            bool
	step            Step
	selected        string
	processing      bool
	completing      bool
	cancelAutoClose func()
	disposed        chan struct{}
	disposeOnce     sync.Once
}

// New создает закрытый диалог. onSuccess получает отображаемое имя выбранного способа оплаты.
func New(cfg Config, onSuccess func(paymentMethod string), log *slog.Logger) *Flow {
	if len(cfg.Methods) == 0 {
		cfg.Methods = models.DefaultPaymentMethods()
	}
	return &Flow{
		cfg:       cfg,
		onSuccess: onSuccess,
		timers:    timer.NewGroup(),
		log:       log,
		step:      StepSelect,
		disposed:  make(chan struct{}),
	}
}

// Open открывает диалог на шаге выбора. Повторное открытие не сбрасывает текущий шаг.
func (f *Flow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isDisposed() {
		return ErrDisposed
	}
	if !f.open {
		f.resetLocked()
		f.open = true
	}
	return nil
}

// IsOpen сообщает, открыт ли диалог.
func (f *Flow) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Select выбирает способ оплаты по идентификатору.
func (f *Flow) Select(methodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireStep(StepSelect); err != nil {
		return err
	}
	if _, ok := f.method(methodID); !ok {
		return ErrUnknownMethod
	}
	f.selected = methodID
	return nil
}

// Continue переходит к аутентификации.
// Для пункта «добавить новый способ оплаты» диалог закрывается и возвращается путь для перехода.
func (f *Flow) Continue() (redirect string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireStep(StepSelect); err != nil {
		return "", err
	}
	if f.selected == "" {
		return "", ErrNoMethodSelected
	}
	if f.selected == models.AddNewMethodID {
		f.resetLocked()
		f.log.Info("activation redirected to add payment method")
		return AddPaymentMethodPath, nil
	}
	f.step = StepAuthenticate
	return "", nil
}

// Authenticate выполняет симулированную аутентификацию и блокируется на AuthDelay.
// Закрытие диалога её не прерывает, прерывает только Dispose.
func (f *Flow) Authenticate() error {
	f.mu.Lock()
	if err := f.requireStep(StepAuthenticate); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.processing {
		f.mu.Unlock()
		return ErrWrongStep
	}
	f.processing = true
	f.mu.Unlock()

	t := time.NewTimer(f.cfg.AuthDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-f.disposed:
		return ErrDisposed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isDisposed() {
		return ErrDisposed
	}
	f.processing = false
	f.step = StepSuccess
	f.cancelAutoClose = f.timers.AfterFunc(f.cfg.AutoCloseDelay, f.complete)
	f.log.Info("activation authenticated", slog.String("payment_method", f.selected))
	return nil
}

// Close закрывает диалог. Во время аутентификации возвращает ErrCloseBlocked,
// на шаге успеха сразу завершает активацию.
func (f *Flow) Close() error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return nil
	}
	switch {
	case f.step == StepAuthenticate && f.processing:
		f.mu.Unlock()
		return ErrCloseBlocked
	case f.step == StepSuccess:
		if f.cancelAutoClose != nil {
			f.cancelAutoClose()
		}
		f.mu.Unlock()
		f.complete()
		return nil
	}
	f.resetLocked()
	f.mu.Unlock()
	return nil
}

// View возвращает текущее состояние диалога.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		Open:           f.open,
		Step:           f.step,
		SelectedMethod: f.selected,
		IsProcessing:   f.processing,
		CanClose:       !(f.step == StepAuthenticate && f.processing),
	}
	switch f.step {
	case StepSelect:
		v.Title = "Enable Auto Pay"
		v.Message = "Choose a payment method for your automatic payments:"
		v.Methods = append([]models.PaymentMethod(nil), f.cfg.Methods...)
		v.PrimaryLabel = "Continue"
		v.PrimaryEnabled = f.selected != ""
	case StepAuthenticate:
		v.Title = "Secure Authentication"
		v.Message = "Please complete the authentication to enable Auto Pay with your selected payment method."
		v.PrimaryLabel = "Authenticate Now"
		if f.processing {
			v.PrimaryLabel = "Authenticating..."
		}
		v.PrimaryEnabled = !f.processing
	case StepSuccess:
		v.Title = "Auto Pay Enabled!"
		v.Message = "Auto Pay has been successfully enabled. Your next bill will be paid automatically."
	}
	return v
}

// Dispose прерывает аутентификацию, останавливает таймеры и закрывает диалог.
// onSuccess после Dispose не вызывается.
func (f *Flow) Dispose() {
	f.disposeOnce.Do(func() {
		close(f.disposed)
		f.timers.Stop()
		f.mu.Lock()
		f.resetLocked()
		f.mu.Unlock()
	})
}

// complete передаёт выбранный способ оплаты и только затем закрывает диалог.
// Повторный вызов (таймер и Close одновременно) ничего не делает.
func (f *Flow) complete() {
	f.mu.Lock()
	if !f.open || f.step != StepSuccess || f.completing || f.isDisposed() {
		f.mu.Unlock()
		return
	}
	f.completing = true
	m, _ := f.method(f.selected)
	f.mu.Unlock()

	if f.onSuccess != nil {
		f.onSuccess(m.Name)
	}

	f.mu.Lock()
	f.resetLocked()
	f.mu.Unlock()
}

// requireStep вызывается под f.mu.
func (f *Flow) requireStep(step Step) error {
	if f.isDisposed() {
		return ErrDisposed
	}
	if !f.open {
		return ErrNotOpen
	}
	if f.step != step {
		return ErrWrongStep
	}
	return nil
}

func (f *Flow) resetLocked() {
	f.open = false
	f.step = StepSelect
	f.selected = ""
	f.processing = false
	f.completing = false
	f.cancelAutoClose = nil
}

func (f *Flow) method(id string) (models.PaymentMethod, bool) {
	for _, m := range f.cfg.Methods {
		if m.ID == id {
			return m, true
		}
	}
	return models.PaymentMethod{}, false
}

func (f *Flow) isDisposed() bool {
	select {
	case <-f.disposed:
		return true
	default:
		return false
	}
}
