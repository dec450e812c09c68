// Package management реализует HTTP-обработчики диалога управления Auto-Pay.
//
// Диалог открывается действием карточки manage. Пауза применяется сразу,
// выключение требует подтверждения. Каждый ответ содержит текущее состояние диалога.
package management

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/autopay/internal/flows/management"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/httperr"
	"github.com/magabrotheeeer/autopay/internal/http/response"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
)

// Handler управляет HTTP-запросами к диалогу управления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает диалог управления.
type Service interface {
	View() management.View
	Pause() error
	RequestDisable() error
	GoBack() error
	ConfirmDisable() error
	Close() error
}

// New создает новый Handler с переданными логгером и диалогом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Get godoc
// @Summary Состояние диалога управления
// @Tags Management
// @Produce  json
// @Success 200 {object} response.OKResponse{data=management.View}
// @Router /autopay/management [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.service.View()))
}

// Pause godoc
// @Summary Приостановить Auto-Pay на один цикл
// @Tags Management
// @Produce  json
// @Success 200 {object} response.OKResponse{data=management.View}
// @Failure 422 {object} response.ErrorResponse "Неверный шаг"
// @Router /autopay/management/pause [post]
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "handlers.autopay.management.pause", h.service.Pause)
}

// RequestDisable godoc
// @Summary Запросить выключение Auto-Pay
// @Description Переводит диалог на шаг подтверждения.
// @Tags Management
// @Produce  json
// @Success 200 {object} response.OKResponse{data=management.View}
// @Failure 422 {object} response.ErrorResponse "Неверный шаг"
// @Router /autopay/management/disable [post]
func (h *Handler) RequestDisable(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "handlers.autopay.management.disable", h.service.RequestDisable)
}

// ConfirmDisable godoc
// @Summary Подтвердить выключение Auto-Pay
// @Tags Management
// @Produce  json
// @Success 200 {object} response.OKResponse{data=management.View}
// @Failure 422 {object} response.ErrorResponse "Неверный шаг"
// @Router /autopay/management/confirm [post]
func (h *Handler) ConfirmDisable(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "handlers.autopay.management.confirm", h.service.ConfirmDisable)
}

// GoBack godoc
// @Summary Вернуться с подтверждения
// @Tags Management
// @Produce  json
// @Success 200 {object} response.OKResponse{data=management.View}
// @Failure 422 {object} response.ErrorResponse "Неверный шаг"
// @Router /autopay/management/back [post]
func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "handlers.autopay.management.back", h.service.GoBack)
}

// Close godoc
// @Summary Закрыть диалог управления
// @Tags Management
// @Produce  json
// @Success 200 {object} response.OKResponse{data=management.View}
// @Router /autopay/management [delete]
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "handlers.autopay.management.close", h.service.Close)
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, op string, fn func() error) {
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := fn(); err != nil {
		httperr.Write(w, r, log, err)
		return
	}
	v := h.service.View()
	log.Info("management dialog updated", slog.String("step", string(v.Step)))
	render.JSON(w, r, response.OKWithData(v))
}
