package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (reservation_id, user_id, camp_id, facility_id, facility_type, entry_date, leaving_date, status, gear_rental, reserved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		res.ID,
		res.UserID,
		res.CampID,
		res.FacilityID,
		res.FacilityType,
		res.EntryDate,
		res.LeavingDate,
		res.Status,
		res.GearRental,
		res.ReservedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrReservationExists
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	return r.getReservation(ctx, reservationID, false)
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error) {
	return r.getReservation(ctx, reservationID, true)
}

func (r *ReservationRepository) getReservation(ctx context.Context, reservationID string, forUpdate bool) (domain.Reservation, error) {
	query := `
SELECT reservation_id, user_id, camp_id, facility_id, facility_type, entry_date, leaving_date, status, gear_rental, reserved_at
FROM reservations
WHERE reservation_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var res domain.Reservation
	var facilityType, status string
	err := r.queryRow(ctx, query, reservationID).Scan(
		&res.ID,
		&res.UserID,
		&res.CampID,
		&res.FacilityID,
		&facilityType,
		&res.EntryDate,
		&res.LeavingDate,
		&status,
		&res.GearRental,
		&res.ReservedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.FacilityType = domain.FacilityType(facilityType)
	res.Status = domain.ReservationStatus(status)
	return res, nil
}

func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus) error {
	const stmt = `UPDATE reservations SET status = $2 WHERE reservation_id = $1`

	tag, err := r.exec(ctx, stmt, reservationID, status)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
