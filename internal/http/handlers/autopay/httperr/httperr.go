// Package httperr сопоставляет ошибки Auto-Pay с HTTP-статусами и текстами ответов.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/autopay/internal/flows/activation"
	"github.com/magabrotheeeer/autopay/internal/flows/management"
	"github.com/magabrotheeeer/autopay/internal/http/response"
	"github.com/magabrotheeeer/autopay/internal/lib/sl"
	"github.com/magabrotheeeer/autopay/internal/services/autopay"
	"github.com/magabrotheeeer/autopay/internal/view"
)

type mapping struct {
	target error
	status int
	msg    string
}

var mappings = []mapping{
	{view.ErrBusy, http.StatusConflict, "auto-pay operation in progress"},
	{autopay.ErrOperationInProgress, http.StatusConflict, "auto-pay operation in progress"},
	{activation.ErrCloseBlocked, http.StatusConflict, "dialog cannot be closed during authentication"},
	{view.ErrActionUnavailable, http.StatusUnprocessableEntity, "action is not available"},
	{autopay.ErrInvalidTransition, http.StatusUnprocessableEntity, "operation is not allowed in current status"},
	{autopay.ErrEmptyPaymentMethod, http.StatusUnprocessableEntity, "payment method is required"},
	{activation.ErrNotOpen, http.StatusUnprocessableEntity, "dialog is not open"},
	{management.ErrNotOpen, http.StatusUnprocessableEntity, "dialog is not open"},
	{activation.ErrWrongStep, http.StatusUnprocessableEntity, "action is not available on current step"},
	{management.ErrWrongStep, http.StatusUnprocessableEntity, "action is not available on current step"},
	{activation.ErrNoMethodSelected, http.StatusUnprocessableEntity, "no payment method selected"},
	{activation.ErrUnknownMethod, http.StatusUnprocessableEntity, "unknown payment method"},
	{view.ErrDisposed, http.StatusServiceUnavailable, "auto-pay is shutting down"},
	{activation.ErrDisposed, http.StatusServiceUnavailable, "auto-pay is shutting down"},
	{management.ErrDisposed, http.StatusServiceUnavailable, "auto-pay is shutting down"},
	{autopay.ErrDeclined, http.StatusBadGateway, autopay.MsgDeclined},
}

// Status возвращает HTTP-статус и текст ответа для ошибки.
// Неизвестные ошибки операций считаются отказом удалённого сервиса.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.msg
		}
	}
	return http.StatusBadGateway, "auto-pay service failed, please try again"
}

// Write логирует ошибку и пишет ответ со статусом из Status.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("auto-pay request failed", sl.Err(err))
	} else {
		log.Warn("auto-pay request rejected", sl.Err(err))
	}
	w.WriteHeader(status)
	render.JSON(w, r, response.Error(msg))
}
