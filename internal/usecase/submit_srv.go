package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-desk/internal/data/entity"
	"ticket-desk/internal/data/gateway"
	"ticket-desk/internal/data/repository"
	"ticket-desk/internal/dto/request"
	"ticket-desk/internal/dto/response"
	"ticket-desk/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubmitService interface {
	// Submit turns a session at the payment step into a reservation plus a
	// payment, and on success completes the session.
	Submit(ctx context.Context, sessionID uuid.UUID, req *request.SubmitPaymentRequest) (*response.ReservationRecordResponse, error)

	// GetUserReservations lists a user's completed reservations.
	GetUserReservations(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationRecordResponse], error)
}

type submitService struct {
	sessions *SessionManager
	booking  gateway.BookingAPI
	records  repository.ReservationRecordRepository
	log      *zap.Logger
}

func NewSubmitService(sessions *SessionManager, booking gateway.BookingAPI, records repository.ReservationRecordRepository, log *zap.Logger) SubmitService {
	return &submitService{
		sessions: sessions,
		booking:  booking,
		records:  records,
		log:      log.With(zap.String("service", "submit")),
	}
}

func (s *submitService) Submit(ctx context.Context, sessionID uuid.UUID, req *request.SubmitPaymentRequest) (*response.ReservationRecordResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), entity.ErrValidation)
	}

	ls, err := s.sessions.live(sessionID)
	if err != nil {
		return nil, err
	}

	// The lock is held across both backend calls: mutations are serialized
	// per session, so nothing can change the selection mid-submission.
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.touchedAt = time.Now()
	sess := ls.session

	if sess.Step != entity.StepPayment {
		return nil, fmt.Errorf("submit from step %s: %w", sess.Step, entity.ErrInvalidStep)
	}
	if sess.Screening == nil || !sess.SelectionComplete() {
		// Should not happen when Advance preconditions were honored.
		s.log.Error("Submit with incomplete session",
			zap.String("session_id", sessionID.String()),
			zap.Int("selected", len(sess.SelectedSeats)),
			zap.Int("audience", sess.Audience.Total()),
		)
		return nil, fmt.Errorf("incomplete session: %w", entity.ErrValidation)
	}

	couponID := ""
	if sess.Coupon != nil {
		couponID = sess.Coupon.ID
	}

	reservation, err := s.booking.CreateReservation(ctx, &gateway.ReservationRequest{
		ScreeningID:   sess.Screening.ID,
		Seats:         append([]string(nil), sess.SelectedSeats...),
		AudienceCount: sess.Audience.Clone(),
		CouponID:      couponID,
	})
	if err != nil {
		if errors.Is(err, entity.ErrConflict) {
			s.recoverFromConflict(ctx, ls)
		}
		return nil, err
	}

	amount := sess.FinalAmount()

	payment, err := s.booking.Pay(ctx, &gateway.PaymentRequest{
		ReservationID: reservation.ID,
		PaymentMethod: req.PaymentMethod,
		Amount:        amount,
		CardInfo:      req.Card(),
		PhoneInfo:     req.Phone(),
		CouponID:      couponID,
	})
	if err != nil {
		// Session stays at the payment step so the user can retry or switch
		// payment method.
		return nil, err
	}

	if err := sess.Complete(); err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	ls.timer.Stop()

	if err := s.sessions.drafts.Clear(ctx, sessionID.String()); err != nil {
		s.log.Warn("Failed to clear draft after submit", zap.Error(err), zap.String("session_id", sessionID.String()))
	}

	record := &entity.ReservationRecord{
		ID:              uuid.New(),
		OrderCode:       utils.GenerateOrderID(),
		UserID:          sess.UserID,
		ScreeningID:     sess.Screening.ID,
		MovieTitle:      sess.Screening.MovieTitle,
		ReservationCode: reservation.ReservationCode,
		Seats:           append([]string(nil), sess.SelectedSeats...),
		Audience:        sess.Audience.Clone(),
		Amount:          payment.Amount,
		PaymentMethod:   req.PaymentMethod,
		ApprovalCode:    payment.ApprovalCode,
		PaidAt:          payment.PaymentDate,
		CreatedAt:       time.Now(),
	}

	// The payment already went through; an archive failure must not undo it.
	if err := s.records.Create(ctx, record); err != nil {
		s.log.Error("Failed to archive reservation record",
			zap.Error(err),
			zap.String("order_code", record.OrderCode),
		)
	}

	s.log.Info("Reservation completed",
		zap.String("session_id", sessionID.String()),
		zap.String("order_code", record.OrderCode),
		zap.String("approval_code", record.ApprovalCode),
		zap.Float64("amount", record.Amount),
	)

	resp := response.ReservationRecordToResponse(record)
	return &resp, nil
}

// recoverFromConflict handles losing the distributed seat race at submit
// time: discard the stale selection and snapshot, return to the seats step,
// re-fetch availability and re-arm the hold timer. Caller holds ls.mu.
func (s *submitService) recoverFromConflict(ctx context.Context, ls *liveSession) {
	sess := ls.session
	sess.InvalidateSelection()

	if err := s.sessions.drafts.Clear(ctx, sess.ID.String()); err != nil {
		s.log.Warn("Failed to clear draft after conflict", zap.Error(err), zap.String("session_id", sess.ID.String()))
	}

	if err := sess.ResetTimer(s.sessions.holdSeconds); err == nil {
		s.sessions.startTimer(ls)
	}
	if sess.Screening != nil {
		s.sessions.fetchSeatsAsync(ls, sess.Screening.ID)
	}

	s.log.Warn("Seat conflict at submission, selection invalidated",
		zap.String("session_id", sess.ID.String()),
	)
}

func (s *submitService) GetUserReservations(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationRecordResponse], error) {
	records, err := s.records.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get reservations for user %s: %w", userID, err)
	}

	total, err := s.records.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reservations for user %s: %w", userID, err)
	}

	items := make([]response.ReservationRecordResponse, len(records))
	for i, rec := range records {
		items[i] = response.ReservationRecordToResponse(rec)
	}

	s.log.Info("User reservations retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(items)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}
