package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

// FacilityRepository reads the camp/facility catalog: facility id to
// facility type, camp id to baseline per-type counts.
type FacilityRepository struct {
	pool *pgxpool.Pool
}

func NewFacilityRepository(pool *pgxpool.Pool) *FacilityRepository {
	return &FacilityRepository{pool: pool}
}

func (r *FacilityRepository) ResolveFacility(ctx context.Context, facilityID int64) (domain.Facility, error) {
	const query = `SELECT facility_id, camp_id, facility_type FROM camp_facilities WHERE facility_id = $1`

	var f domain.Facility
	var facilityType string
	err := r.queryRow(ctx, query, facilityID).Scan(&f.ID, &f.CampID, &facilityType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Facility{}, domain.ErrFacilityNotFound
		}
		return domain.Facility{}, fmt.Errorf("resolve facility: %w", err)
	}

	f.Type = domain.FacilityType(facilityType)
	if !f.Type.Valid() {
		return domain.Facility{}, domain.ErrInvalidFacilityType
	}
	return f, nil
}

func (r *FacilityRepository) CampBaseline(ctx context.Context, campID int64) (domain.CampBaseline, error) {
	const query = `
SELECT camp_id, general_site_cnt, vehicle_site_cnt, glamping_site_cnt, caravan_site_cnt
FROM camps
WHERE camp_id = $1`

	var b domain.CampBaseline
	err := r.queryRow(ctx, query, campID).
		Scan(&b.CampID, &b.General, &b.Vehicle, &b.Glamping, &b.Caravan)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.CampBaseline{}, domain.ErrCampNotFound
		}
		return domain.CampBaseline{}, fmt.Errorf("camp baseline: %w", err)
	}
	return b, nil
}

func (r *FacilityRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
