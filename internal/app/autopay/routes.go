// Package autopay собирает HTTP-приложение Auto-Pay: маршруты, middleware и зависимости.
package autopay

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/unrolled/secure"
	"golang.org/x/time/rate"

	// регистрирует swagger-документ для /docs
	_ "github.com/magabrotheeeer/autopay/docs"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/action"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/activation"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/card"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/management"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/paymentfailure"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/health"
	"github.com/magabrotheeeer/autopay/internal/http/middlewarectx"
	autopayservice "github.com/magabrotheeeer/autopay/internal/services/autopay"
	"github.com/magabrotheeeer/autopay/internal/view"
)

// Deps — зависимости маршрутов.
type Deps struct {
	Logger         *slog.Logger
	Engine         *autopayservice.Engine
	Card           *view.Card
	Limiter        *rate.Limiter
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	// Debug включает отладочные маршруты.
	Debug bool
	// Production включает HSTS.
	Production bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		cors.New(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{http.MethodHead, http.MethodGet, http.MethodPost, http.MethodDelete},
		}).Handler,
		secure.New(secure.Options{
			STSSeconds:           31536000,
			STSIncludeSubdomains: true,
			FrameDeny:            true,
			ContentTypeNosniff:   true,
			BrowserXssFilter:     true,
			IsDevelopment:        !d.Production,
		}).Handler,
	)

	cardHandler := card.New(d.Logger, d.Card)
	activationHandler := activation.New(d.Logger, d.Card.Activation())
	managementHandler := management.New(d.Logger, d.Card.Management())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/autopay", cardHandler.ServeHTTP)
		r.Get("/autopay/activation", activationHandler.Get)
		r.Get("/autopay/management", managementHandler.Get)

		// Изменяющие конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Logger, d.Limiter))

			r.Post("/autopay/actions/{action}", action.New(d.Logger, d.Card).ServeHTTP)

			r.Post("/autopay/activation/select", activationHandler.Select)
			r.Post("/autopay/activation/continue", activationHandler.Continue)
			r.Post("/autopay/activation/authenticate", activationHandler.Authenticate)
			r.Delete("/autopay/activation", activationHandler.Close)

			r.Post("/autopay/management/pause", managementHandler.Pause)
			r.Post("/autopay/management/disable", managementHandler.RequestDisable)
			r.Post("/autopay/management/confirm", managementHandler.ConfirmDisable)
			r.Post("/autopay/management/back", managementHandler.GoBack)
			r.Delete("/autopay/management", managementHandler.Close)

			if d.Debug {
				r.Post("/autopay/debug/payment-failure", paymentfailure.New(d.Logger, d.Engine).ServeHTTP)
			}
		})
	})

	r.Get("/health", health.New(d.Logger).ServeHTTP)
	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
