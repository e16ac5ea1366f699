package usecase

import (
	"context"
	"time"

	"ticket-desk/internal/data/draft"
	"ticket-desk/internal/data/gateway"
	"ticket-desk/internal/data/repository"
	"ticket-desk/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Session SessionService
	Submit  SubmitService
}

func NewService(
	repo *repository.Repository,
	seats gateway.SeatFetcher,
	booking gateway.BookingAPI,
	drafts draft.Store,
	config *utils.Config,
	logger *zap.Logger,
) *Service {
	sessions := NewSessionManager(seats, drafts, config.Session.HoldSeconds, logger)

	// Sweep completed and abandoned sessions out of memory. Abandoned means
	// the hold expired and the user stayed away for the draft TTL, so the
	// draft entry and the in-memory session age out together.
	go sessions.RunJanitor(context.Background(), time.Minute,
		time.Duration(config.Session.DraftTTLMinutes)*time.Minute)

	return &Service{
		Session: sessions,
		Submit:  NewSubmitService(sessions, booking, repo.ReservationRecord, logger),
	}
}
