package models

import "time"

// Имена событий телеметрии Auto-Pay.
const (
	EventAutoPayEnabled  = "auto_pay_enabled"
	EventAutoPayDisabled = "auto_pay_disabled"
	EventAutoPayPaused   = "auto_pay_paused"
	EventAutoPayResumed  = "auto_pay_resumed"
	EventAutoPayFailed   = "auto_pay_failed"
)

// EventCategoryBilling — категория всех событий Auto-Pay.
const EventCategoryBilling = "billing"

// Event — событие телеметрии, отправляемое во внешний сборщик аналитики.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"event_category"`
	Label      string    `json:"event_label"`
	OccurredAt time.Time `json:"occurred_at"`
}
