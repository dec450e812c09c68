// Package month содержит расчёты дат помесячного списания.
package month

import (
	"time"
)

// BillingDate возвращает дату списания в месяце m: день day, но не позже последнего дня месяца.
// Месяц вне 1..12 нормализуется, как в time.Date.
func BillingDate(year int, m time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, m, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

// NextBillingDate возвращает ближайшую дату списания строго после дня now.
func NextBillingDate(now time.Time, day int) time.Time {
	y, m, d := now.Date()
	candidate := BillingDate(y, m, day, now.Location())
	// Если день списания уже наступил, переходим на следующий месяц
	if d >= candidate.Day() {
		candidate = BillingDate(y, m+1, day, now.Location())
	}
	return candidate
}
