package autopay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedSchedule(t *testing.T) {
	assert.Equal(t, "31 Nov 2025", FixedSchedule(DefaultNextPaymentDate).NextPaymentDate(time.Now()))
}

func TestMonthlySchedule_NextPaymentDate(t *testing.T) {
	tests := []struct {
		name string
		day  int
		now  time.Time
		want string
	}{
		{name: "later this month", day: 20, now: time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), want: "20 Nov 2025"},
		{name: "same day rolls over", day: 3, now: time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC), want: "03 Dec 2025"},
		{name: "clamped to month end", day: 31, now: time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), want: "30 Nov 2025"},
		{name: "clamped after month end", day: 31, now: time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC), want: "31 Dec 2025"},
		{name: "year rollover", day: 5, now: time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC), want: "05 Jan 2026"},
		{name: "non positive day", day: 0, now: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), want: "01 Mar 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthlySchedule{BillingDay: tt.day}.NextPaymentDate(tt.now))
		})
	}
}

func TestSimulatedGateway_WaitsLatency(t *testing.T) {
	gw := NewSimulatedGateway(Latencies{Pause: 20 * time.Millisecond}, nil)

	start := time.Now()
	assert.NoError(t, gw.Pause(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSimulatedGateway_Decider(t *testing.T) {
	assert.NoError(t, NewSimulatedGateway(Latencies{}, AlwaysApprove).Enable(context.Background(), "TWINT"))
	assert.ErrorIs(t, NewSimulatedGateway(Latencies{}, AlwaysDecline).Enable(context.Background(), "TWINT"), ErrDeclined)
	assert.ErrorIs(t, NewSimulatedGateway(Latencies{}, RandomDecider(1)).Enable(context.Background(), "TWINT"), ErrDeclined)
	assert.NoError(t, NewSimulatedGateway(Latencies{}, RandomDecider(0)).Enable(context.Background(), "TWINT"))
}
