package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-desk/internal/data/entity"
	"ticket-desk/internal/data/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingClient_CreateReservation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reservations", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "scr-1", body["screeningId"])
		assert.Equal(t, []any{"A1", "A2"}, body["seats"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "res-1", "reservationCode": "RSV-001", "status": "reserved"}`))
	}))
	defer server.Close()

	client := gateway.NewBookingClient(server.URL, 2*time.Second, zap.NewNop())

	resp, err := client.CreateReservation(context.Background(), &gateway.ReservationRequest{
		ScreeningID:   "scr-1",
		Seats:         []string{"A1", "A2"},
		AudienceCount: entity.AudienceCount{entity.CategoryAdult: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "res-1", resp.ID)
	assert.Equal(t, "RSV-001", resp.ReservationCode)
}

func TestBookingClient_CreateReservation_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := gateway.NewBookingClient(server.URL, 2*time.Second, zap.NewNop())

	_, err := client.CreateReservation(context.Background(), &gateway.ReservationRequest{ScreeningID: "scr-1"})
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestBookingClient_CreateReservation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := gateway.NewBookingClient(server.URL, 2*time.Second, zap.NewNop())

	_, err := client.CreateReservation(context.Background(), &gateway.ReservationRequest{ScreeningID: "scr-1"})
	assert.ErrorIs(t, err, entity.ErrNetwork)
	assert.NotErrorIs(t, err, entity.ErrConflict)
}

func TestBookingClient_Pay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "res-1", body["reservationId"])
		assert.Equal(t, "card", body["paymentMethod"])
		assert.Equal(t, 23000.0, body["amount"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"approvalCode": "APV-42", "paymentDate": "2026-08-29T12:00:00Z", "amount": 23000}`))
	}))
	defer server.Close()

	client := gateway.NewBookingClient(server.URL, 2*time.Second, zap.NewNop())

	resp, err := client.Pay(context.Background(), &gateway.PaymentRequest{
		ReservationID: "res-1",
		PaymentMethod: "card",
		Amount:        23000,
		CardInfo:      &gateway.CardInfo{Number: "4111111111111111", Expiry: "12/27", HolderName: "Jane Roe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "APV-42", resp.ApprovalCode)
	assert.Equal(t, 23000.0, resp.Amount)
}

func TestBookingClient_Pay_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message": "card declined"}`))
	}))
	defer server.Close()

	client := gateway.NewBookingClient(server.URL, 2*time.Second, zap.NewNop())

	_, err := client.Pay(context.Background(), &gateway.PaymentRequest{ReservationID: "res-1"})
	assert.ErrorIs(t, err, entity.ErrPayment)
}

func TestBookingClient_Pay_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := gateway.NewBookingClient(server.URL, 500*time.Millisecond, zap.NewNop())

	_, err := client.Pay(context.Background(), &gateway.PaymentRequest{ReservationID: "res-1"})
	assert.ErrorIs(t, err, entity.ErrNetwork)
}
