package request

import (
	"time"

	"ticket-desk/internal/data/gateway"
)

type ScreeningRequest struct {
	ID          string    `json:"id" validate:"required"`
	MovieTitle  string    `json:"movie_title" validate:"required"`
	TheaterName string    `json:"theater_name" validate:"required"`
	ScreenName  string    `json:"screen_name"`
	Grade       string    `json:"grade" validate:"required,oneof=normal premium vip"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
}

type CreateSessionRequest struct {
	// SessionID lets a reloaded client reattach to its previous attempt.
	SessionID string           `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	UserID    string           `json:"user_id" validate:"required"`
	Screening ScreeningRequest `json:"screening" validate:"required"`
}

type SelectScreeningRequest struct {
	Screening ScreeningRequest `json:"screening" validate:"required"`
}

type SetAudienceRequest struct {
	Category string `json:"category" validate:"required,oneof=adult teen child senior"`
	Count    int    `json:"count" validate:"gte=0"`
}

type ToggleSeatRequest struct {
	SeatID string `json:"seat_id" validate:"required"`
}

type ApplyCouponRequest struct {
	ID                    string    `json:"id" validate:"required"`
	DiscountType          string    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value                 float64   `json:"value" validate:"required,gt=0"`
	MinimumOrderAmount    float64   `json:"minimum_order_amount" validate:"gte=0"`
	MaximumDiscountAmount float64   `json:"maximum_discount_amount" validate:"gte=0"`
	ExpiresAt             time.Time `json:"expires_at" validate:"required"`
	Used                  bool      `json:"used"`
}

type CardInfoRequest struct {
	Number     string `json:"number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	HolderName string `json:"holder_name" validate:"required"`
}

type PhoneInfoRequest struct {
	Carrier string `json:"carrier" validate:"required"`
	Number  string `json:"number" validate:"required"`
}

type SubmitPaymentRequest struct {
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=card phone"`
	CardInfo      *CardInfoRequest  `json:"card_info,omitempty" validate:"required_if=PaymentMethod card"`
	PhoneInfo     *PhoneInfoRequest `json:"phone_info,omitempty" validate:"required_if=PaymentMethod phone"`
}

// Card converts the optional card details to the gateway shape.
func (r *SubmitPaymentRequest) Card() *gateway.CardInfo {
	if r.CardInfo == nil {
		return nil
	}
	return &gateway.CardInfo{
		Number:     r.CardInfo.Number,
		Expiry:     r.CardInfo.Expiry,
		HolderName: r.CardInfo.HolderName,
	}
}

// Phone converts the optional phone-billing details to the gateway shape.
func (r *SubmitPaymentRequest) Phone() *gateway.PhoneInfo {
	if r.PhoneInfo == nil {
		return nil
	}
	return &gateway.PhoneInfo{
		Carrier: r.PhoneInfo.Carrier,
		Number:  r.PhoneInfo.Number,
	}
}
