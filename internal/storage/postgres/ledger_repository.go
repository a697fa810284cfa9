package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

// LedgerRepository stores remaining capacity per (camp, date). All
// read-modify-write sequences on a row are serialized by row-level locks;
// counts never go below zero (guarded UPDATE plus a CHECK constraint).
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// GetOrCreateForUpdate returns the availability row for (campID, date),
// seeding it from the camp baseline if no reservation has touched that date
// yet. Concurrent first touches converge on a single row: the insert is
// ON CONFLICT DO NOTHING and the subsequent locked read sees whichever
// seed won.
func (r *LedgerRepository) GetOrCreateForUpdate(ctx context.Context, campID int64, date time.Time, seed domain.CampBaseline) (domain.Availability, error) {
	const insert = `
INSERT INTO camp_availability (camp_id, date, general_avail, vehicle_avail, glamping_avail, caravan_avail)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (camp_id, date) DO NOTHING`

	if _, err := r.exec(ctx, insert, campID, date, seed.General, seed.Vehicle, seed.Glamping, seed.Caravan); err != nil {
		return domain.Availability{}, fmt.Errorf("seed availability: %w", err)
	}

	const query = `
SELECT camp_id, date, general_avail, vehicle_avail, glamping_avail, caravan_avail
FROM camp_availability
WHERE camp_id = $1 AND date = $2
FOR UPDATE`

	var a domain.Availability
	err := r.queryRow(ctx, query, campID, date).
		Scan(&a.CampID, &a.Date, &a.General, &a.Vehicle, &a.Glamping, &a.Caravan)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("get availability for update: %w", err)
	}
	return a, nil
}

// Adjust changes the counter for one facility type by delta and returns the
// updated row. A negative delta that would take the count below zero changes
// nothing and fails with ErrCapacityExhausted.
func (r *LedgerRepository) Adjust(ctx context.Context, campID int64, date time.Time, ft domain.FacilityType, delta int) (domain.Availability, error) {
	column, err := availColumn(ft)
	if err != nil {
		return domain.Availability{}, err
	}

	stmt := fmt.Sprintf(`
UPDATE camp_availability
SET %[1]s = %[1]s + $3
WHERE camp_id = $1 AND date = $2 AND %[1]s + $3 >= 0
RETURNING camp_id, date, general_avail, vehicle_avail, glamping_avail, caravan_avail`, column)

	var a domain.Availability
	err = r.queryRow(ctx, stmt, campID, date, delta).
		Scan(&a.CampID, &a.Date, &a.General, &a.Vehicle, &a.Glamping, &a.Caravan)
	if err != nil {
		if isCheckViolation(err) {
			return domain.Availability{}, domain.ErrCapacityExhausted
		}
		if err == pgx.ErrNoRows {
			return domain.Availability{}, r.classifyMissingAdjust(ctx, campID, date)
		}
		return domain.Availability{}, fmt.Errorf("adjust availability: %w", err)
	}
	return a, nil
}

// classifyMissingAdjust tells a guarded-out decrement apart from a row that
// was never seeded.
func (r *LedgerRepository) classifyMissingAdjust(ctx context.Context, campID int64, date time.Time) error {
	const query = `SELECT EXISTS (SELECT 1 FROM camp_availability WHERE camp_id = $1 AND date = $2)`

	var exists bool
	if err := r.queryRow(ctx, query, campID, date).Scan(&exists); err != nil {
		return fmt.Errorf("check availability row: %w", err)
	}
	if exists {
		return domain.ErrCapacityExhausted
	}
	return domain.ErrAvailabilityNotFound
}

func (r *LedgerRepository) Get(ctx context.Context, campID int64, date time.Time) (domain.Availability, error) {
	const query = `
SELECT camp_id, date, general_avail, vehicle_avail, glamping_avail, caravan_avail
FROM camp_availability
WHERE camp_id = $1 AND date = $2`

	var a domain.Availability
	err := r.queryRow(ctx, query, campID, date).
		Scan(&a.CampID, &a.Date, &a.General, &a.Vehicle, &a.Glamping, &a.Caravan)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Availability{}, domain.ErrAvailabilityNotFound
		}
		return domain.Availability{}, fmt.Errorf("get availability: %w", err)
	}
	return a, nil
}

func availColumn(ft domain.FacilityType) (string, error) {
	switch ft {
	case domain.FacilityGeneral:
		return "general_avail", nil
	case domain.FacilityVehicle:
		return "vehicle_avail", nil
	case domain.FacilityGlamping:
		return "glamping_avail", nil
	case domain.FacilityCaravan:
		return "caravan_avail", nil
	}
	return "", domain.ErrInvalidFacilityType
}

func (r *LedgerRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LedgerRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
