// Package view проецирует запись Auto-Pay в конфигурацию карточки,
// владеет диалогами активации и управления и баннером успешного включения.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/autopay/internal/flows/activation"
	"github.com/magabrotheeeer/autopay/internal/flows/management"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	"github.com/magabrotheeeer/autopay/internal/lib/timer"
	"github.com/magabrotheeeer/autopay/internal/models"
	"github.com/magabrotheeeer/autopay/internal/services/autopay"
)

var (
	// ErrBusy возвращается, пока выполняется операция Auto-Pay.
	ErrBusy = errors.New("auto-pay operation in progress")
	// ErrActionUnavailable возвращается, если действие не предлагается в текущем статусе.
	ErrActionUnavailable = errors.New("action is not available in current auto-pay status")
	// ErrDisposed возвращается после Dispose.
	ErrDisposed = errors.New("auto-pay card is disposed")
)

// Engine — операции движка Auto-Pay, которые использует карточка.
type Engine interface {
	State() models.AutoPayRecord
	Subscribe(l autopay.Listener) func()
	Enable(ctx context.Context, paymentMethod string) error
	Disable(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	ClearError()
}

// Config задаёт задержки карточки и её диалогов.
type Config struct {
	BannerWindow   time.Duration
	AuthDelay      time.Duration
	AutoCloseDelay time.Duration
	Methods        []models.PaymentMethod
}

// Result — побочный эффект действия, который должен выполнить фронтенд.
type Result struct {
	Opened   string `json:"opened,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Диалоги, которые может открыть действие карточки.
const (
	DialogActivation = "activation"
	DialogManagement = "management"
)

// Card — карточка Auto-Pay с временем жизни.
// Операции, запущенные карточкой в фоне, завершаются и после Dispose,
// но их результат больше не влияет на карточку.
type Card struct {
	engine     Engine
	activation *activation.Flow
	management *management.Flow
	timers     *timer.Group
	window     time.Duration
	log        *slog.Logger

	unsubscribe func()
	background  sync.WaitGroup

	mu           sync.Mutex
	disposed     bool
	bannerShown  bool
	cancelBanner func()
}

// NewCard создает карточку и подписывает её на переходы движка.
func NewCard(engine Engine, cfg Config, log *slog.Logger) *Card {
	c := &Card{
		engine: engine,
		timers: timer.NewGroup(),
		window: cfg.BannerWindow,
		log:    log,
	}
	c.activation = activation.New(activation.Config{
		AuthDelay:      cfg.AuthDelay,
		AutoCloseDelay: cfg.AutoCloseDelay,
		Methods:        cfg.Methods,
	}, c.onActivated, log)
	c.management = management.New(cfg.AutoCloseDelay, management.Callbacks{
		OnPause:   func() { c.runBackground("autopay pause", c.engine.Pause) },
		OnDisable: func() { c.runBackground("autopay disable", c.engine.Disable) },
	}, log)
	c.unsubscribe = engine.Subscribe(c.onTransition)
	return c
}

// Activation возвращает диалог активации.
func (c *Card) Activation() *activation.Flow { return c.activation }

// Management возвращает диалог управления.
func (c *Card) Management() *management.Flow { return c.management }

// State возвращает текущую запись движка.
func (c *Card) State() models.AutoPayRecord { return c.engine.State() }

// Render строит конфигурацию карточки для текущего состояния.
func (c *Card) Render() models.CardView {
	state := c.engine.State()
	v := Project(state)

	c.mu.Lock()
	banner := c.bannerShown
	c.mu.Unlock()
	if banner && state.Status == models.StatusEnabled {
		msg := "Auto Pay has been successfully enabled. Your next bill will be paid automatically on " +
			models.Deref(state.NextPaymentDate, "your next due date") + "."
		v.SuccessBanner = &msg
	}
	return v
}

// Trigger выполняет действие кнопки карточки.
// Операции движка выполняются синхронно в контексте ctx.
func (c *Card) Trigger(ctx context.Context, action models.ActionID) (Result, error) {
	const op = "view.Card.Trigger"
	c.mu.Lock()
	disposed := c.disposed
	c.mu.Unlock()
	if disposed {
		return Result{}, fmt.Errorf("%s: %w", op, ErrDisposed)
	}

	state := c.engine.State()
	if state.IsLoading {
		return Result{}, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	if !Offers(state, action) {
		return Result{}, fmt.Errorf("%s: %s: %w", op, action, ErrActionUnavailable)
	}

	switch action {
	case models.ActionEnable, models.ActionFixPaymentMethod:
		if err := c.activation.Open(); err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		return Result{Opened: DialogActivation}, nil
	case models.ActionManage:
		err := c.management.Open(management.Schedule{
			NextPaymentDate: models.Deref(state.NextPaymentDate, notScheduled),
			PaymentMethod:   models.Deref(state.PaymentMethod, noMethodSelected),
		})
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		return Result{Opened: DialogManagement}, nil
	case models.ActionResume:
		return Result{}, c.engine.Resume(ctx)
	case models.ActionDisable:
		return Result{}, c.engine.Disable(ctx)
	case models.ActionClearError:
		c.engine.ClearError()
		return Result{}, nil
	}
	return Result{}, fmt.Errorf("%s: %s: %w", op, action, ErrActionUnavailable)
}

// Wait ждёт завершения операций, запущенных карточкой в фоне.
func (c *Card) Wait() {
	c.background.Wait()
}

// Dispose отписывает карточку от движка, останавливает таймеры и закрывает диалоги.
func (c *Card) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.bannerShown = false
	c.mu.Unlock()

	c.unsubscribe()
	c.timers.Stop()
	c.activation.Dispose()
	c.management.Dispose()
}

func (c *Card) onActivated(paymentMethod string) {
	c.runBackground("autopay enable", func(ctx context.Context) error {
		return c.engine.Enable(ctx, paymentMethod)
	})
}

func (c *Card) runBackground(name string, fn func(context.Context) error) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		if err := fn(context.Background()); err != nil {
			c.log.Warn("background auto-pay operation failed", slog.String("operation", name), sl.Err(err))
		}
	}()
}

func (c *Card) onTransition(t models.Transition) {
	if t.Started {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	switch {
	case t.Op == models.OpEnable && t.Succeeded():
		if c.cancelBanner != nil {
			c.cancelBanner()
		}
		c.bannerShown = true
		c.cancelBanner = c.timers.AfterFunc(c.window, c.hideBanner)
	case t.To.Status != models.StatusEnabled:
		c.hideBannerLocked()
	}
}

func (c *Card) hideBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bannerShown = false
	c.cancelBanner = nil
}

func (c *Card) hideBannerLocked() {
	if c.cancelBanner != nil {
		c.cancelBanner()
		c.cancelBanner = nil
	}
	c.bannerShown = false
}
