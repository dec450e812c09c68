package autopay

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrDeclined возвращается шлюзом, если активация отклонена.
var ErrDeclined = errors.New("auto-pay activation declined")

// Decider решает, будет ли симулированная активация успешной.
type Decider interface {
	Approve() bool
}

// DeciderFunc адаптирует функцию к интерфейсу Decider.
type DeciderFunc func() bool

// Approve вызывает f.
func (f DeciderFunc) Approve() bool { return f() }

// AlwaysApprove одобряет каждую активацию.
var AlwaysApprove Decider = DeciderFunc(func() bool { return true })

// AlwaysDecline отклоняет каждую активацию.
var AlwaysDecline Decider = DeciderFunc(func() bool { return false })

// RandomDecider отклоняет активацию с вероятностью failureRate (0..1).
func RandomDecider(failureRate float64) Decider {
	return DeciderFunc(func() bool {
		return rand.Float64() >= failureRate
	})
}

// Latencies задаёт задержки симулированных вызовов.
type Latencies struct {
	Enable  time.Duration
	Disable time.Duration
	Pause   time.Duration
	Resume  time.Duration
}

// DefaultLatencies — задержки демонстрационного фронтенда.
var DefaultLatencies = Latencies{
	Enable:  1500 * time.Millisecond,
	Disable: 800 * time.Millisecond,
	Pause:   800 * time.Millisecond,
	Resume:  1000 * time.Millisecond,
}

// SimulatedGateway имитирует удалённый сервис: ждёт заданную задержку
// и принимает решение об активации через Decider.
type SimulatedGateway struct {
	latencies Latencies
	decider   Decider
}

// NewSimulatedGateway создает симулированный шлюз.
func NewSimulatedGateway(latencies Latencies, decider Decider) *SimulatedGateway {
	if decider == nil {
		decider = AlwaysApprove
	}
	return &SimulatedGateway{latencies: latencies, decider: decider}
}

// Enable ждёт задержку активации и возвращает ErrDeclined, если Decider отказал.
func (g *SimulatedGateway) Enable(ctx context.Context, paymentMethod string) error {
	const op = "gateway.Enable"
	if err := wait(ctx, g.latencies.Enable); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !g.decider.Approve() {
		return fmt.Errorf("%s: %s: %w", op, paymentMethod, ErrDeclined)
	}
	return nil
}

// Disable ждёт задержку выключения.
func (g *SimulatedGateway) Disable(ctx context.Context) error {
	return wait(ctx, g.latencies.Disable)
}

// Pause ждёт задержку паузы.
func (g *SimulatedGateway) Pause(ctx context.Context) error {
	return wait(ctx, g.latencies.Pause)
}

// Resume ждёт задержку возобновления.
func (g *SimulatedGateway) Resume(ctx context.Context) error {
	return wait(ctx, g.latencies.Resume)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
