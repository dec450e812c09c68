// Package activation реализует HTTP-обработчики диалога включения Auto-Pay.
//
// Диалог открывается действием карточки enable или fix_payment_method,
// дальше фронтенд ведёт его по шагам: выбор способа оплаты, переход к аутентификации,
// аутентификация. Каждый ответ содержит текущее состояние диалога.
package activation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/autopay/internal/flows/activation"
	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/httperr"
	"github.com/magabrotheeeer/autopay/internal/http/response"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
)

// Handler управляет HTTP-запросами к диалогу активации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает диалог активации.
type Service interface {
	View() activation.View
	Select(methodID string) error
	Continue() (string, error)
	Authenticate() error
	Close() error
}

// SelectRequest — тело запроса выбора способа оплаты.
type SelectRequest struct {
	MethodID string `json:"method_id" validate:"required,max=32" example:"twint"`
}

// ContinuePayload — данные ответа на переход к аутентификации.
type ContinuePayload struct {
	Dialog   activation.View `json:"dialog"`
	Redirect string          `json:"redirect,omitempty"`
}

// New создает новый Handler с переданными логгером и диалогом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// Get godoc
// @Summary Состояние диалога активации
// @Tags Activation
// @Produce  json
// @Success 200 {object} response.OKResponse{data=activation.View}
// @Router /autopay/activation [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.service.View()))
}

// Select godoc
// @Summary Выбрать способ оплаты
// @Tags Activation
// @Accept  json
// @Produce  json
// @Param request body SelectRequest true "Способ оплаты"
// @Success 200 {object} response.OKResponse{data=activation.View}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неверный шаг"
// @Router /autopay/activation/select [post]
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.autopay.activation.select")

	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Select(req.MethodID); err != nil {
		httperr.Write(w, r, log, err)
		return
	}
	log.Info("payment method selected", slog.String("method_id", req.MethodID))
	render.JSON(w, r, response.OKWithData(h.service.View()))
}

// Continue godoc
// @Summary Перейти к аутентификации
// @Description Для пункта «добавить новый способ оплаты» диалог закрывается и возвращается redirect.
// @Tags Activation
// @Produce  json
// @Success 200 {object} response.OKResponse{data=activation.ContinuePayload}
// @Failure 422 {object} response.ErrorResponse "Способ оплаты не выбран"
// @Router /autopay/activation/continue [post]
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.autopay.activation.continue")

	redirect, err := h.service.Continue()
	if err != nil {
		httperr.Write(w, r, log, err)
		return
	}
	log.Info("activation continued", slog.String("redirect", redirect))
	render.JSON(w, r, response.OKWithData(ContinuePayload{Dialog: h.service.View(), Redirect: redirect}))
}

// Authenticate godoc
// @Summary Пройти аутентификацию
// @Description Блокируется на время симулированной аутентификации, затем диалог показывает экран успеха и закрывается сам.
// @Tags Activation
// @Produce  json
// @Success 200 {object} response.OKResponse{data=activation.View}
// @Failure 422 {object} response.ErrorResponse "Неверный шаг"
// @Router /autopay/activation/authenticate [post]
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.autopay.activation.authenticate")

	if err := h.service.Authenticate(); err != nil {
		httperr.Write(w, r, log, err)
		return
	}
	log.Info("activation authenticated")
	render.JSON(w, r, response.OKWithData(h.service.View()))
}

// Close godoc
// @Summary Закрыть диалог активации
// @Tags Activation
// @Produce  json
// @Success 200 {object} response.OKResponse{data=activation.View}
// @Failure 409 {object} response.ErrorResponse "Идёт аутентификация"
// @Router /autopay/activation [delete]
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.autopay.activation.close")

	if err := h.service.Close(); err != nil {
		httperr.Write(w, r, log, err)
		return
	}
	log.Info("activation dialog closed")
	render.JSON(w, r, response.OKWithData(h.service.View()))
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
