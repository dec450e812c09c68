package activation

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/autopay/internal/flows/activation"
)

// MockService реализует интерфейс activation.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) View() activation.View {
	return m.Called().Get(0).(activation.View)
}

func (m *MockService) Select(methodID string) error {
	return m.Called(methodID).Error(0)
}

func (m *MockService) Continue() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockService) Authenticate() error {
	return m.Called().Error(0)
}

func (m *MockService) Close() error {
	return m.Called().Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestActivationHandlers(t *testing.T) {
	selectView := activation.View{Open: true, Step: activation.StepSelect, SelectedMethod: "twint"}
	authView := activation.View{Open: true, Step: activation.StepAuthenticate}

	tests := []struct {
		name           string
		method         string
		body           string
		call           func(h *Handler) http.HandlerFunc
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "состояние диалога",
			method: http.MethodGet,
			call:   func(h *Handler) http.HandlerFunc { return h.Get },
			setupMock: func(m *MockService) {
				m.On("View").Return(selectView)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"step":"select"`,
		},
		{
			name:   "выбор способа оплаты",
			method: http.MethodPost,
			body:   `{"method_id":"twint"}`,
			call:   func(h *Handler) http.HandlerFunc { return h.Select },
			setupMock: func(m *MockService) {
				m.On("Select", "twint").Return(nil)
				m.On("View").Return(selectView)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"selected_method":"twint"`,
		},
		{
			name:           "некорректный JSON",
			method:         http.MethodPost,
			body:           `{"method_id":`,
			call:           func(h *Handler) http.HandlerFunc { return h.Select },
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "пустой способ оплаты",
			method:         http.MethodPost,
			body:           `{}`,
			call:           func(h *Handler) http.HandlerFunc { return h.Select },
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field MethodID is a required field`,
		},
		{
			name:   "неизвестный способ оплаты",
			method: http.MethodPost,
			body:   `{"method_id":"paypal"}`,
			call:   func(h *Handler) http.HandlerFunc { return h.Select },
			setupMock: func(m *MockService) {
				m.On("Select", "paypal").Return(activation.ErrUnknownMethod)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"unknown payment method"`,
		},
		{
			name:   "переход к аутентификации",
			method: http.MethodPost,
			call:   func(h *Handler) http.HandlerFunc { return h.Continue },
			setupMock: func(m *MockService) {
				m.On("Continue").Return("", nil)
				m.On("View").Return(authView)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"step":"authenticate"`,
		},
		{
			name:   "переход на добавление способа оплаты",
			method: http.MethodPost,
			call:   func(h *Handler) http.HandlerFunc { return h.Continue },
			setupMock: func(m *MockService) {
				m.On("Continue").Return(activation.AddPaymentMethodPath, nil)
				m.On("View").Return(activation.View{Step: activation.StepSelect})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"redirect":"/billing/payment-method"`,
		},
		{
			name:   "способ оплаты не выбран",
			method: http.MethodPost,
			call:   func(h *Handler) http.HandlerFunc { return h.Continue },
			setupMock: func(m *MockService) {
				m.On("Continue").Return("", activation.ErrNoMethodSelected)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"no payment method selected"`,
		},
		{
			name:   "аутентификация",
			method: http.MethodPost,
			call:   func(h *Handler) http.HandlerFunc { return h.Authenticate },
			setupMock: func(m *MockService) {
				m.On("Authenticate").Return(nil)
				m.On("View").Return(activation.View{Open: true, Step: activation.StepSuccess})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"step":"success"`,
		},
		{
			name:   "закрытие во время аутентификации",
			method: http.MethodDelete,
			call:   func(h *Handler) http.HandlerFunc { return h.Close },
			setupMock: func(m *MockService) {
				m.On("Close").Return(activation.ErrCloseBlocked)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:   "закрытие",
			method: http.MethodDelete,
			call:   func(h *Handler) http.HandlerFunc { return h.Close },
			setupMock: func(m *MockService) {
				m.On("Close").Return(nil)
				m.On("View").Return(activation.View{Step: activation.StepSelect})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"open":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(tt.method, "/autopay/activation", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			tt.call(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
