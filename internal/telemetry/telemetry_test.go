package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/autopay/internal/models"
)

func sampleEvent() models.Event {
	return models.Event{
		ID:         "3f0b8f2e-8d36-4f5e-9d6c-7d1c2a9b1e11",
		Name:       models.EventAutoPayEnabled,
		Category:   models.EventCategoryBilling,
		Label:      "auto_pay_activation",
		OccurredAt: time.Date(2025, time.October, 1, 10, 0, 0, 0, time.UTC),
	}
}

type SinkMock struct{ mock.Mock }

func (m *SinkMock) Track(ctx context.Context, event models.Event) error {
	return m.Called(ctx, event).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Track(context.Background(), sampleEvent()))
}

func TestLog_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sink.Track(context.Background(), sampleEvent()))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "auto_pay_enabled", line["event"])
	assert.Equal(t, "billing", line["event_category"])
	assert.Equal(t, "auto_pay_activation", line["event_label"])
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	ev := sampleEvent()
	first, second := new(SinkMock), new(SinkMock)
	first.On("Track", mock.Anything, ev).Return(errors.New("first down")).Once()
	second.On("Track", mock.Anything, ev).Return(nil).Once()

	err := Multi{first, second}.Track(context.Background(), ev)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first down")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi{}.Track(context.Background(), sampleEvent()))
}

func TestPrometheus_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPrometheus(reg)
	require.NoError(t, err)

	require.NoError(t, sink.Track(context.Background(), sampleEvent()))
	require.NoError(t, sink.Track(context.Background(), sampleEvent()))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.events.WithLabelValues("auto_pay_enabled", "billing", "auto_pay_activation")))

	_, err = NewPrometheus(reg)
	assert.Error(t, err, "duplicate registration must fail")
}

func TestRabbitMQ_PublishesJSON(t *testing.T) {
	pub := new(PublisherMock)
	pub.On("Publish", "telemetry", "autopay", false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var got models.Event
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			return false
		}
		return got.Name == models.EventAutoPayEnabled && got.Label == "auto_pay_activation" && msg.ContentType == "application/json"
	})).Return(nil).Once()

	sink := NewRabbitMQ(pub, "telemetry", "autopay")

	require.NoError(t, sink.Track(context.Background(), sampleEvent()))
	pub.AssertExpectations(t)
}

func TestRabbitMQ_Errors(t *testing.T) {
	t.Run("publish error", func(t *testing.T) {
		pub := new(PublisherMock)
		pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("channel closed")).Once()

		err := NewRabbitMQ(pub, "telemetry", "autopay").Track(context.Background(), sampleEvent())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.RabbitMQ.Track")
	})

	t.Run("cancelled context", func(t *testing.T) {
		pub := new(PublisherMock)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewRabbitMQ(pub, "telemetry", "autopay").Track(ctx, sampleEvent())

		assert.ErrorIs(t, err, context.Canceled)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
