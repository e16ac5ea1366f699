package repository

import (
	"ticket-desk/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	ReservationRecord ReservationRecordRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		ReservationRecord: NewReservationRecordRepository(db, log),
	}
}
