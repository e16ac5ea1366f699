package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ticket-desk/internal/data/entity"

	"go.uber.org/zap"
)

// BookingAPI is the backend contract for creating reservations and handing
// off payments. The backend is the seat-lock authority: conflicts surface
// here, not during client-side selection.
type BookingAPI interface {
	CreateReservation(ctx context.Context, req *ReservationRequest) (*ReservationResponse, error)
	Pay(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error)
}

type ReservationRequest struct {
	ScreeningID   string               `json:"screeningId"`
	Seats         []string             `json:"seats"`
	AudienceCount entity.AudienceCount `json:"audienceCount"`
	CouponID      string               `json:"couponId,omitempty"`
}

type ReservationResponse struct {
	ID              string `json:"id"`
	ReservationCode string `json:"reservationCode"`
	Status          string `json:"status"`
}

type CardInfo struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	HolderName string `json:"holderName"`
}

type PhoneInfo struct {
	Carrier string `json:"carrier"`
	Number  string `json:"number"`
}

type PaymentRequest struct {
	ReservationID string     `json:"reservationId"`
	PaymentMethod string     `json:"paymentMethod"`
	Amount        float64    `json:"amount"`
	CardInfo      *CardInfo  `json:"cardInfo,omitempty"`
	PhoneInfo     *PhoneInfo `json:"phoneInfo,omitempty"`
	CouponID      string     `json:"couponId,omitempty"`
}

type PaymentResponse struct {
	ApprovalCode string    `json:"approvalCode"`
	PaymentDate  time.Time `json:"paymentDate"`
	Amount       float64   `json:"amount"`
}

type BookingClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewBookingClient(baseURL string, timeout time.Duration, log *zap.Logger) *BookingClient {
	return &BookingClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With(zap.String("gateway", "booking")),
	}
}

// CreateReservation posts the completed selection. A 409 means another
// session took one of the seats first and maps to ErrConflict.
func (c *BookingClient) CreateReservation(ctx context.Context, req *ReservationRequest) (*ReservationResponse, error) {
	var out ReservationResponse
	if err := c.post(ctx, "/reservations", req, &out, func(status int) error {
		if status == http.StatusConflict {
			return entity.ErrConflict
		}
		return entity.ErrNetwork
	}); err != nil {
		return nil, fmt.Errorf("create reservation for screening %s: %w", req.ScreeningID, err)
	}

	c.log.Info("Reservation created",
		zap.String("reservation_id", out.ID),
		zap.String("reservation_code", out.ReservationCode),
		zap.Int("seats", len(req.Seats)),
	)

	return &out, nil
}

// Pay hands the reservation off to the payment gateway. Any non-2xx answer
// maps to ErrPayment so the session can stay at the payment step for a retry.
func (c *BookingClient) Pay(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	var out PaymentResponse
	if err := c.post(ctx, "/payments", req, &out, func(status int) error {
		return entity.ErrPayment
	}); err != nil {
		return nil, fmt.Errorf("pay reservation %s: %w", req.ReservationID, err)
	}

	c.log.Info("Payment approved",
		zap.String("reservation_id", req.ReservationID),
		zap.String("approval_code", out.ApprovalCode),
		zap.Float64("amount", out.Amount),
	)

	return &out, nil
}

// post sends a JSON body and decodes a JSON response. statusErr picks the
// taxonomy error for a non-2xx status.
func (c *BookingClient) post(ctx context.Context, path string, body, out any, statusErr func(status int) error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("Backend call failed", zap.Error(err), zap.String("path", path))
		return entity.ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("Backend rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return statusErr(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", entity.ErrNetwork)
	}

	return nil
}
