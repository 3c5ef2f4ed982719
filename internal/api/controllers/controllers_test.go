package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"hairline/internal/backend"
	"hairline/internal/booking"
	"hairline/internal/checkout"
	"hairline/internal/models/request_models"
	"hairline/internal/models/response_models"
	"hairline/internal/services"
	"hairline/internal/session"
	"hairline/pkg/middleware"
	"hairline/pkg/utils"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Slots(ctx context.Context, sess *session.Session, date string, doctorID int64) ([]string, error) {
	args := m.Called(ctx, sess, date, doctorID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingService) State(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error) {
	args := m.Called(ctx, sess)
	return bookingResp(args.Get(0)), args.Error(1)
}

func (m *MockBookingService) Select(ctx context.Context, sess *session.Session, req request_models.SelectSlotRequest) (*response_models.BookingResponse, error) {
	args := m.Called(ctx, sess, req)
	return bookingResp(args.Get(0)), args.Error(1)
}

func (m *MockBookingService) Book(ctx context.Context, sess *session.Session, req request_models.BookRequest) (*response_models.BookingResponse, error) {
	args := m.Called(ctx, sess, req)
	return bookingResp(args.Get(0)), args.Error(1)
}

func (m *MockBookingService) Retry(ctx context.Context, sess *session.Session, req request_models.RetryRequest) (*response_models.BookingResponse, error) {
	args := m.Called(ctx, sess, req)
	return bookingResp(args.Get(0)), args.Error(1)
}

func (m *MockBookingService) Reschedule(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error) {
	args := m.Called(ctx, sess)
	return bookingResp(args.Get(0)), args.Error(1)
}

func (m *MockBookingService) DeclineReschedule(ctx context.Context, sess *session.Session) (*response_models.BookingResponse, error) {
	args := m.Called(ctx, sess)
	return bookingResp(args.Get(0)), args.Error(1)
}

func (m *MockBookingService) Reset(ctx context.Context, sess *session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockBookingService) Appointments(ctx context.Context, sess *session.Session) ([]response_models.AppointmentResponse, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]response_models.AppointmentResponse), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, sess *session.Session, id int64) (*backend.Appointment, error) {
	args := m.Called(ctx, sess, id)
	if a, ok := args.Get(0).(*backend.Appointment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func bookingResp(v interface{}) *response_models.BookingResponse {
	if r, ok := v.(*response_models.BookingResponse); ok {
		return r
	}
	return nil
}

type MockCheckoutService struct {
	services.CheckoutServiceInterface
	mock.Mock
}

func (m *MockCheckoutService) Purchase(ctx context.Context, sess *session.Session, req request_models.PurchaseRequest) (*checkout.Receipt, error) {
	args := m.Called(ctx, sess, req)
	if r, ok := args.Get(0).(*checkout.Receipt); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutService) Total(ctx context.Context, sess *session.Session) (*checkout.Preview, error) {
	args := m.Called(ctx, sess)
	if p, ok := args.Get(0).(*checkout.Preview); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type envelope struct {
	Status   string          `json:"status"`
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Redirect string          `json:"redirect"`
	Field    string          `json:"field"`
	Data     json.RawMessage `json:"data"`
}

type harness struct {
	router   *gin.Engine
	sessions *session.MemoryStore
}

func newHarness(register func(r *gin.RouterGroup)) *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{sessions: session.NewMemoryStore(time.Hour)}
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware(), middleware.SessionMiddleware(h.sessions, zap.NewNop()))
	register(r.Group("/api"))
	h.router = r
	return h
}

func (h *harness) do(t *testing.T, method, path, sessionID string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (h *harness) session(t *testing.T) *session.Session {
	t.Helper()
	s := session.New()
	require.NoError(t, h.sessions.Save(context.Background(), s))
	return s
}

func isSession(id string) interface{} {
	return mock.MatchedBy(func(s *session.Session) bool { return s != nil && s.ID == id })
}

func TestAccountController_SessionIssuesID(t *testing.T) {
	ctrl := NewAccountController(nil)
	h := newHarness(func(r *gin.RouterGroup) { r.GET("/auth/session", ctrl.Session) })

	w, env := h.do(t, http.MethodGet, "/api/auth/session", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp response_models.SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, w.Header().Get(middleware.SessionHeader))
	assert.False(t, resp.Authenticated)
}

func TestProtocolController_Calculate(t *testing.T) {
	ctrl := NewProtocolController(services.NewProtocolService())
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/protocol/calculate", ctrl.Calculate) })

	w, env := h.do(t, http.MethodPost, "/api/protocol/calculate", "", map[string]interface{}{
		"answers": map[string]string{
			"F1_Q1_gender":        "masculino",
			"F2_Q19_priority":     "praticidade",
			"F2_Q16_intervention": "finasterida",
			"F2_Q18_pets":         "nao",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Len(t, summary.Products, 4)
	assert.Equal(t, "Finasterida 1mg", summary.Products[0].Name)
	assert.Equal(t, "Loção Minoxidil 5%", summary.Products[1].Name)
}

func TestBookingController_Select(t *testing.T) {
	svc := new(MockBookingService)
	ctrl := NewBookingController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/booking/select", ctrl.Select) })
	s := h.session(t)

	req := request_models.SelectSlotRequest{DoctorID: 7, Date: "2026-10-20", Time: "09:00"}
	svc.On("Select", mock.Anything, isSession(s.ID), req).
		Return(&response_models.BookingResponse{State: booking.StateOfferReschedule, DoctorID: 7}, nil).Once()

	w, env := h.do(t, http.MethodPost, "/api/booking/select", s.ID, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response_models.BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, booking.StateOfferReschedule, resp.State)
	svc.AssertExpectations(t)
}

func TestBookingController_SelectRejectsMissingFields(t *testing.T) {
	svc := new(MockBookingService)
	ctrl := NewBookingController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/booking/select", ctrl.Select) })

	w, env := h.do(t, http.MethodPost, "/api/booking/select", "", map[string]string{"date": "2026-10-20"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
	svc.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingController_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		redirect string
		field    string
	}{
		{"validation", utils.Invalid("card.cvv", "invalid cvv"), http.StatusBadRequest, "", "card.cvv"},
		{"unauthorized", utils.ErrUnauthorized, http.StatusUnauthorized, "/login", ""},
		{"conflict", fmt.Errorf("book: %w", utils.ErrConflict), http.StatusConflict, "", ""},
		{"window", utils.ErrRescheduleWindow, http.StatusUnprocessableEntity, "", ""},
		{"backend down", fmt.Errorf("create appointment: %w", utils.ErrBackendUnavailable), http.StatusBadGateway, "", ""},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			ctrl := NewBookingController(svc)
			h := newHarness(func(r *gin.RouterGroup) { r.POST("/booking/book", ctrl.Book) })
			svc.On("Book", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w, env := h.do(t, http.MethodPost, "/api/booking/book", "", request_models.BookRequest{PaymentMethod: backend.PaymentPix})

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.code, env.Code)
			assert.Equal(t, tt.redirect, env.Redirect)
			assert.Equal(t, tt.field, env.Field)
		})
	}
}

func TestBookingController_RetryWithoutBody(t *testing.T) {
	svc := new(MockBookingService)
	ctrl := NewBookingController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/booking/retry", ctrl.Retry) })
	svc.On("Retry", mock.Anything, mock.Anything, request_models.RetryRequest{}).
		Return(nil, utils.ErrNoPendingAttempt).Once()

	w, _ := h.do(t, http.MethodPost, "/api/booking/retry", "", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertExpectations(t)
}

func TestBookingController_RetryReadsChunkedBody(t *testing.T) {
	svc := new(MockBookingService)
	ctrl := NewBookingController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/booking/retry", ctrl.Retry) })
	svc.On("Retry", mock.Anything, mock.Anything, mock.MatchedBy(func(req request_models.RetryRequest) bool {
		return req.Card != nil && req.Card.CVV == "123"
	})).Return(&response_models.BookingResponse{State: booking.StateBooked}, nil).Once()

	body := `{"card":{"number":"4111111111111111","holder_name":"ANA SOUZA","expiry_month":12,"expiry_year":30,"cvv":"123"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking/retry", io.NopCloser(strings.NewReader(body)))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestBookingController_RetryRejectsMalformedBody(t *testing.T) {
	svc := new(MockBookingService)
	ctrl := NewBookingController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/booking/retry", ctrl.Retry) })

	req := httptest.NewRequest(http.MethodPost, "/api/booking/retry", strings.NewReader(`{"card":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Retry", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingController_Cancel(t *testing.T) {
	svc := new(MockBookingService)
	ctrl := NewBookingController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/appointments/:id/cancel", ctrl.Cancel) })

	w, _ := h.do(t, http.MethodPost, "/api/appointments/abc/cancel", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.On("Cancel", mock.Anything, mock.Anything, int64(42)).Return(nil, utils.ErrCancelWindow).Once()
	w, env := h.do(t, http.MethodPost, "/api/appointments/42/cancel", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, utils.ErrCancelWindow.Error(), env.Message)

	svc.On("Cancel", mock.Anything, mock.Anything, int64(43)).
		Return(&backend.Appointment{ID: 43, Status: backend.StatusCancelled}, nil).Once()
	w, _ = h.do(t, http.MethodPost, "/api/appointments/43/cancel", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCheckoutController_PurchaseReportsChargedAmount(t *testing.T) {
	svc := new(MockCheckoutService)
	ctrl := NewCheckoutController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.POST("/checkout/purchase", ctrl.Purchase) })
	svc.On("Purchase", mock.Anything, mock.Anything, mock.Anything).Return(&checkout.Receipt{
		OrderID:            "ord-1",
		Status:             backend.PurchasePaid,
		AmountChargedMinor: 5000,
		PreviewTotalMinor:  8980,
	}, nil).Once()

	w, env := h.do(t, http.MethodPost, "/api/checkout/purchase", "", request_models.PurchaseRequest{PaymentMethod: backend.PaymentPix})

	require.Equal(t, http.StatusOK, w.Code)
	var receipt checkout.Receipt
	require.NoError(t, json.Unmarshal(env.Data, &receipt))
	assert.EqualValues(t, 5000, receipt.AmountChargedMinor)
	assert.EqualValues(t, 8980, receipt.PreviewTotalMinor)
}

func TestCheckoutController_TotalCouponError(t *testing.T) {
	svc := new(MockCheckoutService)
	ctrl := NewCheckoutController(svc)
	h := newHarness(func(r *gin.RouterGroup) { r.GET("/checkout/total", ctrl.Total) })
	svc.On("Total", mock.Anything, mock.Anything).Return(nil, utils.ErrCouponInvalid).Once()

	w, _ := h.do(t, http.MethodGet, "/api/checkout/total", "", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
