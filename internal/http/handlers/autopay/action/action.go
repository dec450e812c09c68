// Package action реализует HTTP-обработчик нажатия кнопки карточки Auto-Pay.
//
// Handler берёт идентификатор действия из пути, валидирует его, передаёт карточке
// и возвращает результат вместе с обновлённой карточкой. Resume и Disable
// выполняются синхронно в рамках запроса, остальные действия открывают диалог.
package action

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/autopay/internal/http/handlers/autopay/httperr"
	"github.com/magabrotheeeer/autopay/internal/http/response"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	"github.com/magabrotheeeer/autopay/internal/models"
	"github.com/magabrotheeeer/autopay/internal/view"
)

// Handler управляет HTTP-запросами на выполнение действий карточки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает карточку, которая выполняет действия.
type Service interface {
	Trigger(ctx context.Context, action models.ActionID) (view.Result, error)
	Render() models.CardView
}

// Request — параметры запроса из пути.
type Request struct {
	Action string `validate:"required,oneof=enable manage resume disable fix_payment_method clear_error"`
}

// Payload — данные успешного ответа.
type Payload struct {
	Result view.Result     `json:"result"`
	Card   models.CardView `json:"card"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выполнить действие карточки
// @Description Выполняет действие кнопки карточки Auto-Pay. Действия enable, fix_payment_method и manage открывают диалог.
// @Tags AutoPay
// @Produce  json
// @Param action path string true "Действие" Enums(enable, manage, resume, disable, fix_payment_method, clear_error)
// @Success 200 {object} response.OKResponse{data=action.Payload}
// @Failure 409 {object} response.ErrorResponse "Операция уже выполняется"
// @Failure 422 {object} response.ErrorResponse "Действие недоступно или не прошло валидацию"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного сервиса"
// @Router /autopay/actions/{action} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.autopay.action"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req := Request{Action: chi.URLParam(r, "action")}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", slog.String("action", req.Action))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Trigger(r.Context(), models.ActionID(req.Action))
	if err != nil {
		httperr.Write(w, r, log, err)
		return
	}

	log.Info("action triggered", slog.String("action", req.Action), slog.String("opened", result.Opened))
	render.JSON(w, r, response.OKWithData(Payload{Result: result, Card: h.service.Render()}))
}
