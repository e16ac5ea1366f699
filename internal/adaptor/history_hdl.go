package adaptor

import (
	"net/http"

	"ticket-desk/internal/dto/request"
	"ticket-desk/internal/usecase"
	"ticket-desk/pkg/utils"

	"go.uber.org/zap"
)

type HistoryHandler struct {
	submit usecase.SubmitService
	log    *zap.Logger
}

func NewHistoryHandler(submit usecase.SubmitService, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		submit: submit,
		log:    log.With(zap.String("handler", "history")),
	}
}

// GetUserReservations handles GET /api/reservations?user_id=...
func (h *HistoryHandler) GetUserReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userID := query.Get("user_id")
	if userID == "" {
		utils.ResponseBadRequest(w, "user_id is required", nil)
		return
	}

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reservations, err := h.submit.GetUserReservations(r.Context(), userID, req)
	if err != nil {
		h.log.Error("Failed to get user reservations", zap.Error(err), zap.String("user_id", userID))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}
