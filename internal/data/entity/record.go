package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReservationRecord is the archived result of a completed booking attempt:
// the backend's reservation plus the payment approval. Written once per
// completed session.
type ReservationRecord struct {
	ID              uuid.UUID     `db:"id"`
	OrderCode       string        `db:"order_code"`
	UserID          string        `db:"user_id"`
	ScreeningID     string        `db:"screening_id"`
	MovieTitle      string        `db:"movie_title"`
	ReservationCode string        `db:"reservation_code"`
	Seats           []string      `db:"seats"`
	Audience        AudienceCount `db:"audience"`
	Amount          float64       `db:"amount"`
	PaymentMethod   string        `db:"payment_method"`
	ApprovalCode    string        `db:"approval_code"`
	PaidAt          time.Time     `db:"paid_at"`
	CreatedAt       time.Time     `db:"created_at"`
}
