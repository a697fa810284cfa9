package app

import (
	"context"
	"errors"
	"time"

	"github.com/1COMM1T/Camping-Reservation/internal/clock"
	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

// HoldStore keeps provisional holds with a TTL. Entries expire on their own;
// Get treats an expired entry exactly like a missing one.
type HoldStore interface {
	Put(ctx context.Context, hold domain.Hold, ttl time.Duration) error
	Get(ctx context.Context, reservationID string) (domain.Hold, error)
	Delete(ctx context.Context, reservationID string) error
	Healthcheck(ctx context.Context) error
}

// ReservationStore is the durable record of confirmed and cancelled
// reservations. WithTx runs fn in a transaction joined by the other storage
// calls made with the returned context.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateReservation(ctx context.Context, r domain.Reservation) error
	GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus) error
}

// CapacityLedger tracks remaining units per (camp, date, facility type).
// Adjust with a negative delta fails with ErrCapacityExhausted instead of
// driving a count below zero.
type CapacityLedger interface {
	GetOrCreateForUpdate(ctx context.Context, campID int64, date time.Time, seed domain.CampBaseline) (domain.Availability, error)
	Adjust(ctx context.Context, campID int64, date time.Time, ft domain.FacilityType, delta int) (domain.Availability, error)
	Get(ctx context.Context, campID int64, date time.Time) (domain.Availability, error)
}

// FacilityResolver maps facility ids to their type and camps to the baseline
// counts that seed new ledger rows.
type FacilityResolver interface {
	ResolveFacility(ctx context.Context, facilityID int64) (domain.Facility, error)
	CampBaseline(ctx context.Context, campID int64) (domain.CampBaseline, error)
}

// ReservationService drives the hold -> confirm -> cancel lifecycle and the
// capacity accounting behind it.
type ReservationService struct {
	holds        HoldStore
	reservations ReservationStore
	ledger       CapacityLedger
	facilities   FacilityResolver
	ids          IDGenerator
	clock        clock.Clock
	holdTTL      time.Duration
}

const defaultHoldTTL = 2 * time.Hour

func NewReservationService(
	holds HoldStore,
	reservations ReservationStore,
	ledger CapacityLedger,
	facilities FacilityResolver,
	ids IDGenerator,
	clk clock.Clock,
	opts ...ReservationServiceOption,
) *ReservationService {
	svc := &ReservationService{
		holds:        holds,
		reservations: reservations,
		ledger:       ledger,
		facilities:   facilities,
		ids:          ids,
		clock:        clk,
		holdTTL:      defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithHoldTTL overrides the default window a hold stays confirmable.
func WithHoldTTL(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

type CreateHoldInput struct {
	UserID      int64
	CampID      int64
	FacilityID  int64
	EntryDate   time.Time
	LeavingDate time.Time
	GearRental  bool
}

// CreateHold validates the request, writes a hold with the configured TTL
// and returns it. No capacity is consumed; enforcement happens at confirm.
func (s *ReservationService) CreateHold(ctx context.Context, in CreateHoldInput) (domain.Hold, error) {
	entry := truncateToDate(in.EntryDate)
	leaving := truncateToDate(in.LeavingDate)
	if !entry.Before(leaving) {
		return domain.Hold{}, domain.ErrInvalidStayDates
	}

	facility, err := s.facilities.ResolveFacility(ctx, in.FacilityID)
	if err != nil {
		return domain.Hold{}, err
	}
	if facility.CampID != in.CampID {
		return domain.Hold{}, domain.ErrFacilityNotFound
	}

	now := s.clock.Now()
	hold := domain.Hold{
		ReservationID: s.ids.Next(now),
		UserID:        in.UserID,
		CampID:        in.CampID,
		FacilityID:    in.FacilityID,
		FacilityType:  facility.Type,
		EntryDate:     entry,
		LeavingDate:   leaving,
		GearRental:    in.GearRental,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.holdTTL),
	}

	if err := s.holds.Put(ctx, hold, s.holdTTL); err != nil {
		return domain.Hold{}, err
	}
	return hold, nil
}

// ConfirmReservation turns a live hold into a durable confirmed reservation
// and decrements the availability counter for the hold's facility type on
// every night of the stay. The reservation row and all decrements commit as
// one transaction; if any night has no capacity left nothing is applied and
// ErrCapacityExhausted is returned. On success the hold is deleted so the id
// cannot be confirmed again.
func (s *ReservationService) ConfirmReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	hold, err := s.holds.Get(ctx, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	baseline, err := s.facilities.CampBaseline(ctx, hold.CampID)
	if err != nil {
		return domain.Reservation{}, err
	}

	res := domain.Reservation{
		ID:           hold.ReservationID,
		UserID:       hold.UserID,
		CampID:       hold.CampID,
		FacilityID:   hold.FacilityID,
		FacilityType: hold.FacilityType,
		EntryDate:    hold.EntryDate,
		LeavingDate:  hold.LeavingDate,
		Status:       domain.ReservationConfirmed,
		GearRental:   hold.GearRental,
		ReservedAt:   s.clock.Now(),
	}

	err = s.reservations.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.reservations.CreateReservation(txCtx, res); err != nil {
			return err
		}
		for _, night := range hold.Nights() {
			if _, err := s.ledger.GetOrCreateForUpdate(txCtx, hold.CampID, night, baseline); err != nil {
				return err
			}
			if _, err := s.ledger.Adjust(txCtx, hold.CampID, night, hold.FacilityType, -1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrReservationExists) {
			// A prior confirm committed but its hold cleanup did not finish.
			// Retire the hold now; replays must see the id as gone.
			_ = s.holds.Delete(ctx, reservationID)
			return domain.Reservation{}, domain.ErrHoldNotFound
		}
		return domain.Reservation{}, err
	}

	if err := s.holds.Delete(ctx, reservationID); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

// CancelReservation flips a confirmed reservation to cancelled and returns
// one unit per night to the ledger. Cancelling an already-cancelled
// reservation fails with ErrAlreadyCancelled; the increment is never applied
// twice.
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID string) error {
	return s.reservations.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.reservations.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == domain.ReservationCancelled {
			return domain.ErrAlreadyCancelled
		}

		if err := s.reservations.UpdateReservationStatus(txCtx, reservationID, domain.ReservationCancelled); err != nil {
			return err
		}
		for _, night := range res.Nights() {
			if _, err := s.ledger.Adjust(txCtx, res.CampID, night, res.FacilityType, 1); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReservation returns the durable record for a confirmed or cancelled
// reservation.
func (s *ReservationService) GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error) {
	return s.reservations.GetReservation(ctx, reservationID)
}

// Availability reports remaining capacity for a camp and date. Dates no
// reservation has touched yet have no ledger row; those report the camp's
// full baseline.
func (s *ReservationService) Availability(ctx context.Context, campID int64, date time.Time) (domain.Availability, error) {
	date = truncateToDate(date)
	avail, err := s.ledger.Get(ctx, campID, date)
	if err == nil {
		return avail, nil
	}
	if !errors.Is(err, domain.ErrAvailabilityNotFound) {
		return domain.Availability{}, err
	}

	baseline, err := s.facilities.CampBaseline(ctx, campID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{
		CampID:   campID,
		Date:     date,
		General:  baseline.General,
		Vehicle:  baseline.Vehicle,
		Glamping: baseline.Glamping,
		Caravan:  baseline.Caravan,
	}, nil
}

// HoldStoreHealthy probes the hold store with a sentinel roundtrip.
func (s *ReservationService) HoldStoreHealthy(ctx context.Context) error {
	return s.holds.Healthcheck(ctx)
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
