package paymentfailure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/autopay/internal/models"
	"github.com/magabrotheeeer/autopay/internal/services/autopay"
)

// MockService реализует интерфейс paymentfailure.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ReportPaymentFailure(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockService) State() models.AutoPayRecord {
	return m.Called().Get(0).(models.AutoPayRecord)
}

func TestPaymentFailureHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная имитация",
			setupMock: func(m *MockService) {
				m.On("ReportPaymentFailure", mock.Anything).Return(nil)
				m.On("State").Return(models.AutoPayRecord{
					Status: models.StatusPaymentFailed,
					Error:  models.StringPtr(autopay.MsgPaymentFailed),
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"payment_failed"`,
		},
		{
			name: "недопустимый статус",
			setupMock: func(m *MockService) {
				m.On("ReportPaymentFailure", mock.Anything).
					Return(fmt.Errorf("autopay.ReportPaymentFailure: %w: disabled", autopay.ErrInvalidTransition))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"operation is not allowed in current status"`,
		},
		{
			name: "операция выполняется",
			setupMock: func(m *MockService) {
				m.On("ReportPaymentFailure", mock.Anything).Return(autopay.ErrOperationInProgress)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/autopay/debug/payment-failure", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
