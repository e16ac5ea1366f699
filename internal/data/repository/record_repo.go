package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ticket-desk/internal/data/entity"
	"ticket-desk/pkg/database"

	"go.uber.org/zap"
)

type ReservationRecordRepository interface {
	Create(ctx context.Context, record *entity.ReservationRecord) error
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.ReservationRecord, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

type reservationRecordRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRecordRepository(db database.PgxIface, log *zap.Logger) ReservationRecordRepository {
	return &reservationRecordRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation_record")),
	}
}

func (r *reservationRecordRepository) Create(ctx context.Context, record *entity.ReservationRecord) error {
	query := `
		INSERT INTO reservation_records
			(id, order_code, user_id, screening_id, movie_title, reservation_code,
			 seats, audience, amount, payment_method, approval_code, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	audience, err := json.Marshal(record.Audience)
	if err != nil {
		return fmt.Errorf("encode audience for record %s: %w", record.ID.String(), err)
	}

	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.OrderCode,
		record.UserID,
		record.ScreeningID,
		record.MovieTitle,
		record.ReservationCode,
		record.Seats,
		audience,
		record.Amount,
		record.PaymentMethod,
		record.ApprovalCode,
		record.PaidAt,
		record.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation record",
			zap.Error(err),
			zap.String("record_id", record.ID.String()),
			zap.String("order_code", record.OrderCode),
		)
		return fmt.Errorf("create reservation record %s: %w", record.OrderCode, err)
	}

	return nil
}

func (r *reservationRecordRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.ReservationRecord, error) {
	query := `
		SELECT id, order_code, user_id, screening_id, movie_title, reservation_code,
		       seats, audience, amount, payment_method, approval_code, paid_at, created_at
		FROM reservation_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservation records by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("find reservation records by user ID %s: %w", userID, err)
	}
	defer rows.Close()

	var records []*entity.ReservationRecord
	for rows.Next() {
		var rec entity.ReservationRecord
		var audience []byte
		err := rows.Scan(
			&rec.ID,
			&rec.OrderCode,
			&rec.UserID,
			&rec.ScreeningID,
			&rec.MovieTitle,
			&rec.ReservationCode,
			&rec.Seats,
			&audience,
			&rec.Amount,
			&rec.PaymentMethod,
			&rec.ApprovalCode,
			&rec.PaidAt,
			&rec.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan reservation record row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation record row: %w", err)
		}
		if len(audience) > 0 {
			if err := json.Unmarshal(audience, &rec.Audience); err != nil {
				return nil, fmt.Errorf("decode audience for record %s: %w", rec.ID.String(), err)
			}
		}
		records = append(records, &rec)
	}

	return records, nil
}

func (r *reservationRecordRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM reservation_records WHERE user_id = $1`

	var total int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count reservation records", zap.Error(err), zap.String("user_id", userID))
		return 0, fmt.Errorf("count reservation records for user %s: %w", userID, err)
	}

	return total, nil
}
