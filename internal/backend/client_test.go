package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"hairline/internal/protocol"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore(0)
	return NewClient(Config{BaseURL: srv.URL}, store, zap.NewNop()), store
}

func authedSession(t *testing.T, store session.Store) *session.Session {
	t.Helper()
	s := session.New()
	s.AccessToken = "token-123"
	require.NoError(t, store.Save(context.Background(), s))
	return s
}

func TestClient_RecommendSendsAnswersAndBearer(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/accounts/recommendation/", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var body RecommendationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "feminino", body.Answers[protocol.KeyGender])

		_, _ = w.Write([]byte(`{"redFlag":false,"title":"Protocolo","description":"d",
			"products":[{"id":"x","name":"Minoxidil 2.5mg","sub":"Cápsula","price":89.9}],"total_price":89.9}`))
	})
	sess := authedSession(t, store)

	summary, err := client.Recommend(context.Background(), sess, protocol.Answers{protocol.KeyGender: "feminino"})
	require.NoError(t, err)
	require.Len(t, summary.Products, 1)
	assert.Equal(t, "Cápsula", summary.Products[0].SubLabel)
	assert.EqualValues(t, 8990, summary.TotalMinor)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token expired"}`))
	})
	sess := authedSession(t, store)

	_, err := client.ListAppointments(context.Background(), sess)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.False(t, sess.Authenticated())

	stored, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.AccessToken)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusConflict, utils.ErrConflict},
		{http.StatusBadRequest, utils.ErrRejected},
		{http.StatusNotFound, utils.RecordNotFound},
		{http.StatusInternalServerError, utils.ErrBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			})
			_, err := client.CheckEligibility(context.Background(), authedSession(t, store), 3)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(Config{BaseURL: srv.URL}, session.NewMemoryStore(0), zap.NewNop())

	_, err := client.PlanPrices(context.Background(), nil)
	assert.ErrorIs(t, err, utils.ErrBackendUnavailable)
}

func TestClient_RejectsMalformedResponses(t *testing.T) {
	t.Run("union with both branches", func(t *testing.T) {
		client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,"payment_required":true}`))
		})
		_, err := client.CreateAppointment(context.Background(), authedSession(t, store), CreateAppointmentRequest{
			Date: "2026-10-20", Time: "10:00", DoctorID: 1, PaymentMethod: PaymentFree,
			IdempotencyKey: "9b2f5c1e-3a4d-4e8f-9c0a-1b2c3d4e5f60",
		})
		assert.ErrorIs(t, err, utils.ErrBackendUnavailable)
	})

	t.Run("bad slot string", func(t *testing.T) {
		client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2026-10-20", r.URL.Query().Get("date"))
			assert.Equal(t, "9", r.URL.Query().Get("doctor_id"))
			_, _ = w.Write([]byte(`["09:00","tomorrow"]`))
		})
		_, err := client.Slots(context.Background(), authedSession(t, store), "2026-10-20", 9)
		assert.Error(t, err)
	})

	t.Run("appointment with unknown status", func(t *testing.T) {
		client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1,"date":"2026-10-20","time":"10:00","doctor_id":2,"status":"lost"}]`))
		})
		_, err := client.ListAppointments(context.Background(), authedSession(t, store))
		assert.ErrorIs(t, err, utils.ErrBackendUnavailable)
	})
}

func TestClient_CreateAppointmentValidatesRequest(t *testing.T) {
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the backend")
	})
	_, err := client.CreateAppointment(context.Background(), authedSession(t, store), CreateAppointmentRequest{
		Date: "2026-10-20", Time: "10:00", DoctorID: 1, PaymentMethod: PaymentPix,
	})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestClient_ValidateCoupon(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"valid":true,"discount":20}`))
		})
		out, err := client.ValidateCoupon(context.Background(), authedSession(t, store), CouponRequest{Code: "BEMVINDO"})
		require.NoError(t, err)
		assert.EqualValues(t, 2000, ToMinor(out.Discount))
	})

	t.Run("rejected", func(t *testing.T) {
		client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"expired coupon"}`))
		})
		_, err := client.ValidateCoupon(context.Background(), authedSession(t, store), CouponRequest{Code: "OLD"})
		assert.ErrorIs(t, err, utils.ErrCouponInvalid)
	})

	t.Run("valid false", func(t *testing.T) {
		client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"valid":false,"message":"limit reached"}`))
		})
		_, err := client.ValidateCoupon(context.Background(), authedSession(t, store), CouponRequest{Code: "X"})
		assert.ErrorIs(t, err, utils.ErrCouponInvalid)
	})
}

func TestClient_Login(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"access":"a","refresh":"r","user":{"id":5,"name":"Ana","email":"ana@example.com"}}`))
	})
	out, err := client.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "a", out.Access)
	assert.EqualValues(t, 5, out.User.ID)

	_, err = client.Login(context.Background(), LoginRequest{Email: "bad", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}
