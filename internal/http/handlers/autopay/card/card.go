// Package card реализует HTTP-обработчик получения карточки Auto-Pay.
//
// Handler возвращает конфигурацию карточки, построенную по текущей записи Auto-Pay,
// вместе с самой записью. Фронтенд опрашивает этот маршрут, пока операция выполняется.
package card

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/autopay/internal/http/response"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	"github.com/magabrotheeeer/autopay/internal/models"
)

// Handler управляет HTTP-запросами на получение карточки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает источник карточки.
type Service interface {
	Render() models.CardView
	State() models.AutoPayRecord
}

// Payload — данные успешного ответа.
type Payload struct {
	Card   models.CardView      `json:"card"`
	Record models.AutoPayRecord `json:"record"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить карточку Auto-Pay
// @Description Возвращает конфигурацию карточки и текущую запись Auto-Pay.
// @Tags AutoPay
// @Produce  json
// @Success 200 {object} response.OKResponse{data=card.Payload}
// @Router /autopay [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.autopay.card"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload := Payload{Card: h.service.Render(), Record: h.service.State()}
	log.Debug("card rendered", slog.String("status", string(payload.Record.Status)))

	render.JSON(w, r, response.OKWithData(payload))
}
