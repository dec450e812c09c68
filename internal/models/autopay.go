// Package models содержит доменные структуры Auto-Pay: статус, запись состояния,
// переходы между состояниями, способы оплаты и события телеметрии,
// а также структуры для представления карточки Auto-Pay во фронтенде.
package models

// AutoPayStatus описывает взаимоисключающие состояния Auto-Pay.
type AutoPayStatus string

const (
	// StatusDisabled — Auto-Pay выключен, начальное состояние.
	StatusDisabled AutoPayStatus = "disabled"
	// StatusEnabled — Auto-Pay включен, следующий платёж запланирован.
	StatusEnabled AutoPayStatus = "enabled"
	// StatusPaused — Auto-Pay приостановлен (обычно на один цикл).
	StatusPaused AutoPayStatus = "paused"
	// StatusPaymentFailed — последний автоматический платёж не прошёл.
	StatusPaymentFailed AutoPayStatus = "payment_failed"
	// StatusError — активация не удалась.
	StatusError AutoPayStatus = "error"
)

// AutoPayRecord — снимок состояния Auto-Pay.
// NextPaymentDate и PaymentMethod заданы только в enabled (paused сохраняет их для отображения),
// Error задан только в error и payment_failed.
type AutoPayRecord struct {
	Status              AutoPayStatus `json:"status"`
	IsLoading           bool          `json:"is_loading"`
	Error               *string       `json:"error"`
	LastPaymentDate     *string       `json:"last_payment_date"`
	NextPaymentDate     *string       `json:"next_payment_date"`
	PaymentMethod       *string       `json:"payment_method"`
	IsPausedForOneCycle bool          `json:"is_paused_for_one_cycle"`
}

// NewAutoPayRecord возвращает запись в начальном состоянии.
func NewAutoPayRecord() AutoPayRecord {
	return AutoPayRecord{Status: StatusDisabled}
}

// Clone возвращает копию записи, не разделяющую указатели с оригиналом.
func (r AutoPayRecord) Clone() AutoPayRecord {
	out := r
	out.Error = cloneString(r.Error)
	out.LastPaymentDate = cloneString(r.LastPaymentDate)
	out.NextPaymentDate = cloneString(r.NextPaymentDate)
	out.PaymentMethod = cloneString(r.PaymentMethod)
	return out
}

// StringPtr возвращает указатель на копию строки.
func StringPtr(s string) *string {
	return &s
}

// Deref возвращает значение указателя или fallback, если указатель nil.
func Deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Operation — операция движка Auto-Pay, породившая переход.
type Operation string

const (
	OpEnable               Operation = "enable"
	OpDisable              Operation = "disable"
	OpPause                Operation = "pause"
	OpResume               Operation = "resume"
	OpClearError           Operation = "clear_error"
	OpReportPaymentFailure Operation = "report_payment_failure"
)

// Transition описывает изменение записи Auto-Pay.
// Started выставлен для перехода в загрузку, Err — для неудачного завершения операции.
type Transition struct {
	Op      Operation
	From    AutoPayRecord
	To      AutoPayRecord
	Started bool
	Err     error
}

// Succeeded сообщает, что операция завершилась и не вернула ошибку.
func (t Transition) Succeeded() bool {
	return !t.Started && t.Err == nil
}
