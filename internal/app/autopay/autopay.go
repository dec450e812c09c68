package autopay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/autopay/internal/config"
	"github.com/magabrotheeeer/autopay/internal/http/middlewarectx"
	"github.com/magabrotheeeer/autopay/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	autopayservice "github.com/magabrotheeeer/autopay/internal/services/autopay"
	"github.com/magabrotheeeer/autopay/internal/telemetry"
	"github.com/magabrotheeeer/autopay/internal/view"
)

// App — HTTP-сервис Auto-Pay.
type App struct {
	server *http.Server
	logger *slog.Logger
	card   *view.Card

	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

// New собирает движок, карточку, приемники телеметрии и HTTP-сервер по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.autopay.New"

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &App{logger: logger}
	sink, err := a.buildSink(cfg.Telemetry, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	engine := autopayservice.NewEngine(NewGateway(cfg.AutoPay), logger,
		autopayservice.WithSink(sink),
		autopayservice.WithSchedule(NewSchedule(cfg.AutoPay)),
	)
	a.card = view.NewCard(engine, view.Config{
		BannerWindow:   cfg.BannerWindow,
		AuthDelay:      cfg.AuthDelay,
		AutoCloseDelay: cfg.AutoCloseDelay,
	}, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:         logger,
		Engine:         engine,
		Card:           a.card,
		Limiter:        middlewarectx.NewLimiter(cfg.RPS, cfg.Burst),
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		Debug:          cfg.Env != sl.EnvProd,
		Production:     cfg.Env == sl.EnvProd,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// NewGateway создает симулированный платёжный шлюз с задержками и долей отказов из конфига.
func NewGateway(cfg config.AutoPay) *autopayservice.SimulatedGateway {
	return autopayservice.NewSimulatedGateway(autopayservice.Latencies{
		Enable:  cfg.EnableLatency,
		Disable: cfg.DisableLatency,
		Pause:   cfg.PauseLatency,
		Resume:  cfg.ResumeLatency,
	}, autopayservice.RandomDecider(cfg.FailureRate))
}

// NewSchedule возвращает помесячное расписание, если задан день списания, иначе фиксированную дату.
func NewSchedule(cfg config.AutoPay) autopayservice.Schedule {
	if cfg.BillingDay > 0 {
		return autopayservice.MonthlySchedule{BillingDay: cfg.BillingDay}
	}
	if cfg.NextPaymentDate == "" {
		return autopayservice.FixedSchedule(autopayservice.DefaultNextPaymentDate)
	}
	return autopayservice.FixedSchedule(cfg.NextPaymentDate)
}

func (a *App) buildSink(cfg config.Telemetry, reg prometheus.Registerer) (telemetry.Sink, error) {
	var sinks telemetry.Multi
	if cfg.HasSink(config.SinkLog) {
		sinks = append(sinks, telemetry.NewLog(a.logger))
	}
	if cfg.HasSink(config.SinkPrometheus) {
		p, err := telemetry.NewPrometheus(reg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, p)
	}
	if cfg.HasSink(config.SinkRabbitMQ) {
		if cfg.RabbitMQURL == "" {
			return nil, errors.New("rabbitmq sink requires telemetry.rabbitmq_url")
		}
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.ConnectRetries, cfg.ConnectRetryWait)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.TelemetryQueues(cfg.RoutingKey))
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		a.amqpConn, a.amqpCh = conn, ch
		sinks = append(sinks, telemetry.NewRabbitMQ(ch, cfg.Exchange, cfg.RoutingKey))
		a.logger.Info("rabbitmq telemetry sink connected", slog.String("exchange", cfg.Exchange))
	}
	if len(sinks) == 0 {
		return telemetry.Noop{}, nil
	}
	return sinks, nil
}

// Handler возвращает корневой обработчик сервера.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает карточку и дожидается фоновых операций, затем закрывает RabbitMQ.
func (a *App) close() {
	a.card.Dispose()
	a.card.Wait()
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
}
