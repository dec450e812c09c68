package autopay

import (
	"time"

	"github.com/magabrotheeeer/autopay/internal/lib/month"
)

// DefaultNextPaymentDate — дата следующего платежа из демонстрационных данных.
const DefaultNextPaymentDate = "31 Nov 2025"

// DateLayout — формат отображения дат платежей.
const DateLayout = "02 Jan 2006"

// FixedSchedule всегда возвращает одну и ту же дату.
type FixedSchedule string

// NextPaymentDate возвращает фиксированную дату.
func (s FixedSchedule) NextPaymentDate(time.Time) string {
	return string(s)
}

// MonthlySchedule списывает платёж каждый месяц в заданный день.
// День больше числа дней в месяце переносится на последний день месяца.
type MonthlySchedule struct {
	BillingDay int
}

// NextPaymentDate возвращает ближайшую дату списания строго после now.
func (s MonthlySchedule) NextPaymentDate(now time.Time) string {
	return month.NextBillingDate(now, s.BillingDay).Format(DateLayout)
}
