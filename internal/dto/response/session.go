package response

import (
	"sort"
	"time"

	"ticket-desk/internal/data/entity"
)

type ScreeningResponse struct {
	ID          string    `json:"id"`
	MovieTitle  string    `json:"movie_title"`
	TheaterName string    `json:"theater_name"`
	ScreenName  string    `json:"screen_name,omitempty"`
	Grade       string    `json:"grade"`
	StartsAt    time.Time `json:"starts_at"`
}

type SeatResponse struct {
	ID         string `json:"id"`
	RowName    string `json:"row_name"`
	SeatNumber int    `json:"seat_number"`
	Status     string `json:"status"`
	Selected   bool   `json:"selected"`
}

type PriceResponse struct {
	Subtotals   map[string]float64 `json:"subtotals"`
	Total       float64            `json:"total"`
	Discount    float64            `json:"discount"`
	FinalAmount float64            `json:"final_amount"`
}

type SessionResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	Step             string             `json:"step"`
	Screening        *ScreeningResponse `json:"screening,omitempty"`
	Audience         map[string]int     `json:"audience"`
	SelectedSeats    []string           `json:"selected_seats"`
	Seats            []SeatResponse     `json:"seats,omitempty"`
	Price            PriceResponse      `json:"price"`
	CouponID         string             `json:"coupon_id,omitempty"`
	RemainingSeconds int                `json:"remaining_seconds"`
	TimerActive      bool               `json:"timer_active"`
}

// SessionToResponse flattens a session snapshot into the wire view. Seats are
// ordered by row then number for a stable layout.
func SessionToResponse(s *entity.ReservationSession) SessionResponse {
	resp := SessionResponse{
		ID:               s.ID.String(),
		UserID:           s.UserID,
		Step:             string(s.Step),
		Audience:         make(map[string]int, len(s.Audience)),
		SelectedSeats:    s.SelectedSeats,
		RemainingSeconds: s.RemainingSeconds,
		TimerActive:      s.TimerActive,
	}
	if resp.SelectedSeats == nil {
		resp.SelectedSeats = []string{}
	}

	for category, count := range s.Audience {
		resp.Audience[string(category)] = count
	}

	if s.Screening != nil {
		resp.Screening = &ScreeningResponse{
			ID:          s.Screening.ID,
			MovieTitle:  s.Screening.MovieTitle,
			TheaterName: s.Screening.TheaterName,
			ScreenName:  s.Screening.ScreenName,
			Grade:       string(s.Screening.Grade),
			StartsAt:    s.Screening.StartsAt,
		}
	}

	selected := make(map[string]bool, len(s.SelectedSeats))
	for _, id := range s.SelectedSeats {
		selected[id] = true
	}
	for _, seat := range s.Seats {
		resp.Seats = append(resp.Seats, SeatResponse{
			ID:         seat.ID,
			RowName:    seat.RowName,
			SeatNumber: seat.SeatNumber,
			Status:     string(seat.Status),
			Selected:   selected[seat.ID],
		})
	}
	sort.Slice(resp.Seats, func(i, j int) bool {
		if resp.Seats[i].RowName != resp.Seats[j].RowName {
			return resp.Seats[i].RowName < resp.Seats[j].RowName
		}
		return resp.Seats[i].SeatNumber < resp.Seats[j].SeatNumber
	})

	resp.Price = PriceResponse{
		Subtotals:   make(map[string]float64, len(s.Price.Subtotals)),
		Total:       s.Price.Total,
		FinalAmount: s.FinalAmount(),
	}
	resp.Price.Discount = resp.Price.Total - resp.Price.FinalAmount
	for category, subtotal := range s.Price.Subtotals {
		resp.Price.Subtotals[string(category)] = subtotal
	}

	if s.Coupon != nil {
		resp.CouponID = s.Coupon.ID
	}

	return resp
}

type CreateSessionResponse struct {
	SessionResponse
	// RecoveredSeats is a drafted selection from a previous attempt under
	// the same session id, surfaced so the UI can offer to re-apply it.
	RecoveredSeats []string `json:"recovered_seats,omitempty"`
}

type ReservationRecordResponse struct {
	ID              string         `json:"id"`
	OrderCode       string         `json:"order_code"`
	UserID          string         `json:"user_id"`
	ScreeningID     string         `json:"screening_id"`
	MovieTitle      string         `json:"movie_title"`
	ReservationCode string         `json:"reservation_code"`
	Seats           []string       `json:"seats"`
	Audience        map[string]int `json:"audience"`
	Amount          float64        `json:"amount"`
	PaymentMethod   string         `json:"payment_method"`
	ApprovalCode    string         `json:"approval_code"`
	PaidAt          time.Time      `json:"paid_at"`
	CreatedAt       time.Time      `json:"created_at"`
}

func ReservationRecordToResponse(rec *entity.ReservationRecord) ReservationRecordResponse {
	audience := make(map[string]int, len(rec.Audience))
	for category, count := range rec.Audience {
		audience[string(category)] = count
	}
	return ReservationRecordResponse{
		ID:              rec.ID.String(),
		OrderCode:       rec.OrderCode,
		UserID:          rec.UserID,
		ScreeningID:     rec.ScreeningID,
		MovieTitle:      rec.MovieTitle,
		ReservationCode: rec.ReservationCode,
		Seats:           rec.Seats,
		Audience:        audience,
		Amount:          rec.Amount,
		PaymentMethod:   rec.PaymentMethod,
		ApprovalCode:    rec.ApprovalCode,
		PaidAt:          rec.PaidAt,
		CreatedAt:       rec.CreatedAt,
	}
}
