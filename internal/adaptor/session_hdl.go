package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticket-desk/internal/data/entity"
	"ticket-desk/internal/dto/request"
	"ticket-desk/internal/dto/response"
	"ticket-desk/internal/usecase"
	"ticket-desk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessions usecase.SessionService
	submit   usecase.SubmitService
	log      *zap.Logger
}

func NewSessionHandler(sessions usecase.SessionService, submit usecase.SubmitService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		submit:   submit,
		log:      log.With(zap.String("handler", "session")),
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	sessionID := uuid.Nil
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid session ID", nil)
			return
		}
		sessionID = parsed
	}

	view, recovered, err := h.sessions.Create(r.Context(), req.UserID, sessionID, toScreening(req.Screening))
	if err != nil {
		h.respondError(w, err, "create session")
		return
	}

	utils.ResponseCreated(w, "success", response.CreateSessionResponse{
		SessionResponse: response.SessionToResponse(view),
		RecoveredSeats:  recovered,
	})
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get session")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// SelectScreening handles PUT /api/sessions/{id}/screening
func (h *SessionHandler) SelectScreening(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req request.SelectScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.sessions.SelectScreening(r.Context(), id, toScreening(req.Screening))
	if err != nil {
		h.respondError(w, err, "select screening")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// SetAudience handles PUT /api/sessions/{id}/audience
func (h *SessionHandler) SetAudience(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req request.SetAudienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.sessions.SetAudienceCount(r.Context(), id, entity.AudienceCategory(req.Category), req.Count)
	if err != nil {
		h.respondError(w, err, "set audience count")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// ToggleSeat handles POST /api/sessions/{id}/seats/toggle
func (h *SessionHandler) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req request.ToggleSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	view, err := h.sessions.ToggleSeat(r.Context(), id, req.SeatID)
	if err != nil {
		h.respondError(w, err, "toggle seat")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// RefreshSeats handles POST /api/sessions/{id}/seats/refresh
func (h *SessionHandler) RefreshSeats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.RefreshSeats(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "refresh seats")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// ResetTimer handles POST /api/sessions/{id}/timer/reset
func (h *SessionHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.ResetTimer(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "reset timer")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// ApplyCoupon handles POST /api/sessions/{id}/coupon
func (h *SessionHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req request.ApplyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	coupon := entity.Coupon{
		ID:                    req.ID,
		DiscountType:          entity.DiscountType(req.DiscountType),
		Value:                 req.Value,
		MinimumOrderAmount:    req.MinimumOrderAmount,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		ExpiresAt:             req.ExpiresAt,
		Used:                  req.Used,
	}

	applied, view, err := h.sessions.ApplyCoupon(r.Context(), id, coupon)
	if err != nil {
		h.respondError(w, err, "apply coupon")
		return
	}

	message := "success"
	if !applied {
		message = "coupon not applicable"
	}
	utils.ResponseSuccess(w, message, response.SessionToResponse(view))
}

// RemoveCoupon handles DELETE /api/sessions/{id}/coupon
func (h *SessionHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.RemoveCoupon(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "remove coupon")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// Advance handles POST /api/sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.Advance(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "advance")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// Retreat handles POST /api/sessions/{id}/retreat
func (h *SessionHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.sessions.Retreat(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "retreat")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(view))
}

// Submit handles POST /api/sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req request.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.submit.Submit(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, err, "submit")
		return
	}

	utils.ResponseCreated(w, "success", record)
}

// CancelSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Cancel(r.Context(), id); err != nil {
		h.respondError(w, err, "cancel session")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ==================== HELPERS ====================

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid session ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func toScreening(req request.ScreeningRequest) entity.Screening {
	return entity.Screening{
		ID:          req.ID,
		MovieTitle:  req.MovieTitle,
		TheaterName: req.TheaterName,
		ScreenName:  req.ScreenName,
		Grade:       entity.ScreenGrade(req.Grade),
		StartsAt:    req.StartsAt,
	}
}

// respondError maps taxonomy errors onto HTTP responses. Local validation
// rejections are routine user-input outcomes and log at warn; everything
// unexpected logs at error.
func (h *SessionHandler) respondError(w http.ResponseWriter, err error, operation string) {
	reason := entity.ReasonCode(err)

	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrSeatUnavailable),
		errors.Is(err, entity.ErrSeatLimitReached),
		errors.Is(err, entity.ErrIncompleteSelection),
		errors.Is(err, entity.ErrInvalidStep),
		errors.Is(err, entity.ErrValidation):
		h.log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("reason", reason),
		)
		utils.ResponseBadRequest(w, err.Error(), map[string]string{"reason": reason})

	case errors.Is(err, entity.ErrConflict):
		h.log.Warn(operation+" failed - seat conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), map[string]string{"reason": reason})

	case errors.Is(err, entity.ErrPayment):
		h.log.Warn(operation+" failed - payment rejected", zap.Error(err))
		utils.ResponsePaymentRequired(w, err.Error())

	case errors.Is(err, entity.ErrNetwork):
		h.log.Error(operation+" failed - backend unreachable", zap.Error(err))
		utils.ResponseBadGateway(w, "Booking backend unavailable")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
