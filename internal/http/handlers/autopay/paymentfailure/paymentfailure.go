// Package paymentfailure реализует отладочный HTTP-обработчик, который имитирует
// неудачный автоматический платёж. Маршрут регистрируется только вне prod.
package paymentfailure

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/httperr"
	"github.com/magabrotheeeer/autopay/internal/http/response"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	"github.com/magabrotheeeer/autopay/internal/models"
)

// Handler управляет HTTP-запросами на имитацию неудачного платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает движок, принимающий сообщение о неудачном платеже.
type Service interface {
	ReportPaymentFailure(ctx context.Context) error
	State() models.AutoPayRecord
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Имитировать неудачный платёж
// @Description Переводит включенный или приостановленный Auto-Pay в статус payment_failed. Доступно только вне prod.
// @Tags Debug
// @Produce  json
// @Success 200 {object} response.OKResponse{data=models.AutoPayRecord}
// @Failure 409 {object} response.ErrorResponse "Операция уже выполняется"
// @Failure 422 {object} response.ErrorResponse "Недопустимо в текущем статусе"
// @Router /autopay/debug/payment-failure [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.autopay.paymentfailure"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.ReportPaymentFailure(r.Context()); err != nil {
		httperr.Write(w, r, log, err)
		return
	}

	log.Info("payment failure reported")
	render.JSON(w, r, response.OKWithData(h.service.State()))
}
