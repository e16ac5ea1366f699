package entity

import (
	"time"

	"github.com/google/uuid"
)

type Step string

const (
	StepScreening Step = "screening"
	StepSeats     Step = "seats"
	StepPayment   Step = "payment"
	StepComplete  Step = "complete"
)

// ReservationSession is the aggregate root of one booking attempt. It owns
// the audience composition, selected seat ids and derived price for the
// lifetime of the attempt; the screening and coupon are foreign, read-only
// references. All mutations go through the methods below, which keep two
// invariants: len(SelectedSeats) <= Audience.Total(), and Price always equals
// CalculatePrice over the current audience and screen grade.
//
// Methods perform no IO. Side effects (seat fetches, draft persistence,
// timers) are the session service's job.
type ReservationSession struct {
	ID               uuid.UUID
	UserID           string
	Screening        *Screening
	Audience         AudienceCount
	SelectedSeats    []string // insertion order = selection order
	Seats            SeatSnapshot
	Price            PriceDetails
	Coupon           *Coupon
	Step             Step
	RemainingSeconds int
	TimerActive      bool
	CreatedAt        time.Time
}

func NewReservationSession(id uuid.UUID, userID string) *ReservationSession {
	return &ReservationSession{
		ID:        id,
		UserID:    userID,
		Audience:  make(AudienceCount),
		Price:     PriceDetails{Subtotals: make(map[AudienceCategory]float64)},
		Step:      StepScreening,
		CreatedAt: time.Now(),
	}
}

// SelectScreening replaces the active screening, resets the seat selection
// and re-arms the hold countdown. Valid from any non-terminal state.
func (s *ReservationSession) SelectScreening(screening Screening, holdSeconds int) error {
	if s.Step == StepComplete {
		return ErrInvalidStep
	}
	sc := screening
	s.Screening = &sc
	s.SelectedSeats = nil
	s.Seats = nil
	s.Step = StepSeats
	s.RemainingSeconds = holdSeconds
	s.TimerActive = true
	s.recalcPrice()
	return nil
}

// SetSeatSnapshot installs a fresh availability snapshot. The previous
// snapshot is discarded, never merged.
func (s *ReservationSession) SetSeatSnapshot(seats SeatSnapshot) {
	s.Seats = seats
}

// SetAudienceCount updates one category's ticket count and recomputes the
// price. Negative counts are rejected. If the new total drops below the
// number of selected seats, the whole selection is purged and the caller
// must re-prompt for seats; the returned flag reports that purge.
func (s *ReservationSession) SetAudienceCount(category AudienceCategory, count int) (purged bool, err error) {
	if s.Step != StepSeats {
		return false, ErrInvalidStep
	}
	if !ValidCategory(category) {
		return false, ErrValidation
	}
	if count < 0 {
		return false, ErrValidation
	}
	s.Audience[category] = count
	s.recalcPrice()
	if len(s.SelectedSeats) > s.Audience.Total() {
		s.SelectedSeats = nil
		purged = true
	}
	return purged, nil
}

// ToggleSeat removes the seat if selected; otherwise selects it after
// checking availability and the audience cap. Returns whether the seat is
// selected after the call.
func (s *ReservationSession) ToggleSeat(seatID string) (selected bool, err error) {
	if s.Step != StepSeats {
		return false, ErrInvalidStep
	}
	for i, id := range s.SelectedSeats {
		if id == seatID {
			s.SelectedSeats = append(s.SelectedSeats[:i], s.SelectedSeats[i+1:]...)
			return false, nil
		}
	}
	if !s.Seats.Selectable(seatID) {
		return false, ErrSeatUnavailable
	}
	if len(s.SelectedSeats) >= s.Audience.Total() {
		return false, ErrSeatLimitReached
	}
	s.SelectedSeats = append(s.SelectedSeats, seatID)
	return true, nil
}

// Tick records the remaining hold time. When it reaches zero while the timer
// is active, the selection is soft-expired: seats are cleared and the timer
// stops, but the step stays at seats so the user can reselect.
func (s *ReservationSession) Tick(remaining int) (expired bool) {
	s.RemainingSeconds = remaining
	if remaining > 0 || !s.TimerActive {
		return false
	}
	s.RemainingSeconds = 0
	s.TimerActive = false
	s.SelectedSeats = nil
	return true
}

// ResetTimer re-arms the countdown at full duration. Only valid on the seats step.
func (s *ReservationSession) ResetTimer(holdSeconds int) error {
	if s.Step != StepSeats {
		return ErrInvalidStep
	}
	s.RemainingSeconds = holdSeconds
	s.TimerActive = true
	return nil
}

// ApplyCoupon attaches the coupon if its applicability predicate passes.
// An inapplicable coupon is a silent no-op, not an error: it is a routine
// user-input outcome.
func (s *ReservationSession) ApplyCoupon(c *Coupon, now time.Time) (applied bool) {
	if s.Step != StepSeats && s.Step != StepPayment {
		return false
	}
	if !c.Applicable(s.Price.Total, now) {
		return false
	}
	s.Coupon = c
	return true
}

func (s *ReservationSession) RemoveCoupon() {
	s.Coupon = nil
}

// Advance moves seats -> payment. It requires a complete selection: exactly
// as many seats as tickets, and at least one ticket.
func (s *ReservationSession) Advance() error {
	if s.Step != StepSeats {
		return ErrInvalidStep
	}
	if !s.SelectionComplete() {
		return ErrIncompleteSelection
	}
	s.Step = StepPayment
	return nil
}

// Retreat moves payment -> seats.
func (s *ReservationSession) Retreat() error {
	if s.Step != StepPayment {
		return ErrInvalidStep
	}
	s.Step = StepSeats
	return nil
}

// Complete moves payment -> complete after a successful submission and stops
// the countdown.
func (s *ReservationSession) Complete() error {
	if s.Step != StepPayment {
		return ErrInvalidStep
	}
	s.Step = StepComplete
	s.TimerActive = false
	return nil
}

// InvalidateSelection handles a submit-time seat conflict: the stale seat
// list is discarded and the session returns to the seats step. The caller
// re-fetches availability and re-arms the timer.
func (s *ReservationSession) InvalidateSelection() {
	s.SelectedSeats = nil
	s.Seats = nil
	s.Step = StepSeats
}

// Reset clears the session back to its empty initial value. Valid from any state.
func (s *ReservationSession) Reset() {
	s.Screening = nil
	s.Audience = make(AudienceCount)
	s.SelectedSeats = nil
	s.Seats = nil
	s.Price = PriceDetails{Subtotals: make(map[AudienceCategory]float64)}
	s.Coupon = nil
	s.Step = StepScreening
	s.RemainingSeconds = 0
	s.TimerActive = false
}

// SelectionComplete reports whether the seat selection matches the audience
// composition and at least one ticket is requested.
func (s *ReservationSession) SelectionComplete() bool {
	total := s.Audience.Total()
	return total > 0 && len(s.SelectedSeats) == total
}

// FinalAmount is the payable total after any applied coupon.
func (s *ReservationSession) FinalAmount() float64 {
	if s.Coupon == nil {
		return s.Price.Total
	}
	return ApplyCoupon(s.Price, s.Coupon)
}

func (s *ReservationSession) recalcPrice() {
	grade := GradeNormal
	if s.Screening != nil {
		grade = s.Screening.Grade
	}
	s.Price = CalculatePrice(s.Audience, grade)
}

// Clone returns a deep copy safe to hand to presentation code while the
// original keeps mutating under its own lock.
func (s *ReservationSession) Clone() *ReservationSession {
	out := *s
	out.Audience = s.Audience.Clone()
	out.SelectedSeats = append([]string(nil), s.SelectedSeats...)
	if s.Seats != nil {
		out.Seats = make(SeatSnapshot, len(s.Seats))
		for id, seat := range s.Seats {
			out.Seats[id] = seat
		}
	}
	out.Price = PriceDetails{Subtotals: make(map[AudienceCategory]float64, len(s.Price.Subtotals)), Total: s.Price.Total}
	for c, v := range s.Price.Subtotals {
		out.Price.Subtotals[c] = v
	}
	if s.Screening != nil {
		sc := *s.Screening
		out.Screening = &sc
	}
	if s.Coupon != nil {
		cp := *s.Coupon
		out.Coupon = &cp
	}
	return &out
}
