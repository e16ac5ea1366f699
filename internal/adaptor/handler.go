package adaptor

import (
	"ticket-desk/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Session *SessionHandler
	History *HistoryHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Session: NewSessionHandler(service.Session, service.Submit, log),
		History: NewHistoryHandler(service.Submit, log),
	}
}
