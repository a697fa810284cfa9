package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

// fakeHoldStore keeps holds in memory and expires them against an injected
// now func, mirroring the store-side TTL contract.
type fakeHoldStore struct {
	mu      sync.Mutex
	entries map[string]fakeHoldEntry
	now     func() time.Time
	putErr  error
}

type fakeHoldEntry struct {
	hold      domain.Hold
	expiresAt time.Time
}

func newFakeHoldStore(now func() time.Time) *fakeHoldStore {
	return &fakeHoldStore{
		entries: make(map[string]fakeHoldEntry),
		now:     now,
	}
}

func (s *fakeHoldStore) Put(_ context.Context, hold domain.Hold, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if _, ok := s.entries[hold.ReservationID]; ok {
		return domain.ErrHoldIDCollision
	}
	s.entries[hold.ReservationID] = fakeHoldEntry{hold: hold, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *fakeHoldStore) Get(_ context.Context, reservationID string) (domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[reservationID]
	if !ok || !s.now().Before(entry.expiresAt) {
		return domain.Hold{}, domain.ErrHoldNotFound
	}
	return entry.hold, nil
}

func (s *fakeHoldStore) Delete(_ context.Context, reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, reservationID)
	return nil
}

func (s *fakeHoldStore) Healthcheck(context.Context) error {
	return nil
}

func (s *fakeHoldStore) contains(reservationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[reservationID]
	return ok
}

// fakeBackend implements ReservationStore, CapacityLedger and
// FacilityResolver against in-memory maps. WithTx serializes callers on one
// mutex and rolls state back when fn fails, standing in for the row-locked
// database transaction.
type fakeBackend struct {
	mu           sync.Mutex
	reservations map[string]domain.Reservation
	avail        map[string]domain.Availability
	facilities   map[int64]domain.Facility
	baselines    map[int64]domain.CampBaseline
}

func newFakeBackend(facilities []domain.Facility, baselines []domain.CampBaseline) *fakeBackend {
	b := &fakeBackend{
		reservations: make(map[string]domain.Reservation),
		avail:        make(map[string]domain.Availability),
		facilities:   make(map[int64]domain.Facility),
		baselines:    make(map[int64]domain.CampBaseline),
	}
	for _, f := range facilities {
		b.facilities[f.ID] = f
	}
	for _, bl := range baselines {
		b.baselines[bl.CampID] = bl
	}
	return b
}

func availKey(campID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", campID, date.Format("2006-01-02"))
}

func (b *fakeBackend) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	savedReservations := make(map[string]domain.Reservation, len(b.reservations))
	for k, v := range b.reservations {
		savedReservations[k] = v
	}
	savedAvail := make(map[string]domain.Availability, len(b.avail))
	for k, v := range b.avail {
		savedAvail[k] = v
	}

	if err := fn(ctx); err != nil {
		b.reservations = savedReservations
		b.avail = savedAvail
		return err
	}
	return nil
}

func (b *fakeBackend) CreateReservation(_ context.Context, r domain.Reservation) error {
	if _, ok := b.reservations[r.ID]; ok {
		return domain.ErrReservationExists
	}
	b.reservations[r.ID] = r
	return nil
}

func (b *fakeBackend) GetReservation(_ context.Context, id string) (domain.Reservation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (b *fakeBackend) GetReservationForUpdate(_ context.Context, id string) (domain.Reservation, error) {
	r, ok := b.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (b *fakeBackend) UpdateReservationStatus(_ context.Context, id string, status domain.ReservationStatus) error {
	r, ok := b.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	r.Status = status
	b.reservations[id] = r
	return nil
}

func (b *fakeBackend) GetOrCreateForUpdate(_ context.Context, campID int64, date time.Time, seed domain.CampBaseline) (domain.Availability, error) {
	key := availKey(campID, date)
	if a, ok := b.avail[key]; ok {
		return a, nil
	}
	a := domain.Availability{
		CampID:   campID,
		Date:     date,
		General:  seed.General,
		Vehicle:  seed.Vehicle,
		Glamping: seed.Glamping,
		Caravan:  seed.Caravan,
	}
	b.avail[key] = a
	return a, nil
}

func (b *fakeBackend) Adjust(_ context.Context, campID int64, date time.Time, ft domain.FacilityType, delta int) (domain.Availability, error) {
	key := availKey(campID, date)
	a, ok := b.avail[key]
	if !ok {
		return domain.Availability{}, domain.ErrAvailabilityNotFound
	}
	if a.Remaining(ft)+delta < 0 {
		return domain.Availability{}, domain.ErrCapacityExhausted
	}
	switch ft {
	case domain.FacilityGeneral:
		a.General += delta
	case domain.FacilityVehicle:
		a.Vehicle += delta
	case domain.FacilityGlamping:
		a.Glamping += delta
	case domain.FacilityCaravan:
		a.Caravan += delta
	default:
		return domain.Availability{}, domain.ErrInvalidFacilityType
	}
	b.avail[key] = a
	return a, nil
}

func (b *fakeBackend) Get(_ context.Context, campID int64, date time.Time) (domain.Availability, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.avail[availKey(campID, date)]
	if !ok {
		return domain.Availability{}, domain.ErrAvailabilityNotFound
	}
	return a, nil
}

func (b *fakeBackend) ResolveFacility(_ context.Context, facilityID int64) (domain.Facility, error) {
	f, ok := b.facilities[facilityID]
	if !ok {
		return domain.Facility{}, domain.ErrFacilityNotFound
	}
	return f, nil
}

func (b *fakeBackend) CampBaseline(_ context.Context, campID int64) (domain.CampBaseline, error) {
	bl, ok := b.baselines[campID]
	if !ok {
		return domain.CampBaseline{}, domain.ErrCampNotFound
	}
	return bl, nil
}

func (b *fakeBackend) remaining(campID int64, date time.Time, ft domain.FacilityType) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.avail[availKey(campID, date)]
	if !ok {
		return 0, false
	}
	return a.Remaining(ft), true
}

func (b *fakeBackend) reservationCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.reservations)
}
