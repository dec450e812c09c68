// Package management реализует диалог управления включенным Auto-Pay:
// пауза на один цикл или выключение с обязательным подтверждением.
package management

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/autopay/internal/lib/timer"
)

// Step — шаг диалога.
type Step string

const (
	StepManage         Step = "manage"
	StepConfirmDisable Step = "confirm_disable"
	StepSuccess        Step = "success"
)

// Action — выбранное в диалоге действие.
type Action string

const (
	ActionNone    Action = ""
	ActionPause   Action = "pause"
	ActionDisable Action = "disable"
)

var (
	ErrNotOpen   = errors.New("management dialog is not open")
	ErrWrongStep = errors.New("action is not available on current step")
	ErrDisposed  = errors.New("management dialog is disposed")
)

// Callbacks вызываются при подтверждении действия, вне блокировок диалога.
type Callbacks struct {
	OnPause   func()
	OnDisable func()
}

// Schedule — текущее расписание, показываемое на шаге управления.
type Schedule struct {
	NextPaymentDate string `json:"next_payment_date"`
	PaymentMethod   string `json:"payment_method"`
}

// View — состояние диалога для отрисовки.
type View struct {
	Open     bool     `json:"open"`
	Step     Step     `json:"step"`
	Action   Action   `json:"action,omitempty"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Note     string   `json:"note,omitempty"`
	Schedule Schedule `json:"schedule"`
}

// Flow — диалог управления. Методы безопасны для одновременного вызова.
type Flow struct {
	autoCloseDelay time.Duration
	callbacks      Callbacks
	timers         *timer.Group
	log            *slog.Logger

	mu              sync.Mutex
	open            bool
	disposed        bool
	step            Step
	action          Action
	schedule        Schedule
	cancelAutoClose func()
}

// New создает закрытый диалог.
func New(autoCloseDelay time.Duration, callbacks Callbacks, log *slog.Logger) *Flow {
	return &Flow{
		autoCloseDelay: autoCloseDelay,
		callbacks:      callbacks,
		timers:         timer.NewGroup(),
		log:            log,
		step:           StepManage,
	}
}

// Open открывает диалог на шаге управления с текущим расписанием.
func (f *Flow) Open(schedule Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return ErrDisposed
	}
	if f.open {
		return nil
	}
	f.resetLocked()
	f.open = true
	f.schedule = schedule
	return nil
}

// IsOpen сообщает, открыт ли диалог.
func (f *Flow) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Pause сразу переходит к успеху и вызывает OnPause.
func (f *Flow) Pause() error {
	return f.finish(StepManage, ActionPause, f.callbacks.OnPause)
}

// RequestDisable запрашивает подтверждение выключения.
func (f *Flow) RequestDisable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireStep(StepManage); err != nil {
		return err
	}
	f.step = StepConfirmDisable
	f.action = ActionDisable
	return nil
}

// GoBack возвращает с подтверждения на шаг управления.
func (f *Flow) GoBack() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireStep(StepConfirmDisable); err != nil {
		return err
	}
	f.step = StepManage
	f.action = ActionNone
	return nil
}

// ConfirmDisable подтверждает выключение и вызывает OnDisable.
func (f *Flow) ConfirmDisable() error {
	return f.finish(StepConfirmDisable, ActionDisable, f.callbacks.OnDisable)
}

// Close закрывает диалог и отменяет автозакрытие.
func (f *Flow) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelAutoClose != nil {
		f.cancelAutoClose()
	}
	f.resetLocked()
	return nil
}

// View возвращает текущее состояние диалога.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{Open: f.open, Step: f.step, Action: f.action, Schedule: f.schedule}
	switch f.step {
	case StepManage:
		v.Title = "Manage Auto Pay"
		v.Message = "Next payment: " + f.schedule.NextPaymentDate + " • " + f.schedule.PaymentMethod
	case StepConfirmDisable:
		v.Title = "Turn Off Auto Pay?"
		v.Message = "Turning off Auto Pay means you'll need to pay manually each month."
		v.Note = "Are you sure you want to turn off Auto Pay? You can always enable it again later."
	case StepSuccess:
		if f.action == ActionPause {
			v.Title = "Auto Pay Paused"
			v.Message = "Your next payment will be skipped. Auto Pay will resume automatically after that."
			v.Note = "Auto Pay paused for 1 cycle. It will resume automatically after your next due date."
		} else {
			v.Title = "Auto Pay Disabled"
			v.Message = "Auto Pay has been turned off. You'll need to pay manually each month."
			v.Note = "Auto Pay has been successfully disabled. You can enable it again anytime."
		}
	}
	return v
}

// Dispose останавливает таймеры и закрывает диалог навсегда.
func (f *Flow) Dispose() {
	f.timers.Stop()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed = true
	f.resetLocked()
}

func (f *Flow) finish(from Step, action Action, callback func()) error {
	f.mu.Lock()
	if err := f.requireStep(from); err != nil {
		f.mu.Unlock()
		return err
	}
	f.step = StepSuccess
	f.action = action
	f.cancelAutoClose = f.timers.AfterFunc(f.autoCloseDelay, f.autoClose)
	f.mu.Unlock()

	f.log.Info("auto-pay management action confirmed", slog.String("action", string(action)))
	if callback != nil {
		callback()
	}
	return nil
}

func (f *Flow) autoClose() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepSuccess {
		f.resetLocked()
	}
}

// requireStep вызывается под f.mu.
func (f *Flow) requireStep(step Step) error {
	if f.disposed {
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
	f.step = StepManage
	f.action = ActionNone
	f.schedule = Schedule{}
	f.cancelAutoClose = nil
}
