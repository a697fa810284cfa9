package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1COMM1T/Camping-Reservation/internal/clock"
	"github.com/1COMM1T/Camping-Reservation/internal/domain"
	"github.com/1COMM1T/Camping-Reservation/internal/storage/postgres"
	"github.com/1COMM1T/Camping-Reservation/internal/testutil"
)

// Wires the service against real Postgres repositories with an in-memory
// hold store, so the transactional confirm path runs under actual row locks.
func TestReservationService_Postgres(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	newService := func(clk clock.Clock) (*ReservationService, *fakeHoldStore) {
		holds := newFakeHoldStore(clk.Now)
		svc := NewReservationService(
			holds,
			postgres.NewReservationRepository(pool),
			postgres.NewLedgerRepository(pool),
			postgres.NewFacilityRepository(pool),
			NewSequentialIDs(),
			clk,
		)
		return svc, holds
	}

	entry := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	leaving := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

	t.Run("hold, confirm, sell out, cancel", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		campID, facilityID := testutil.InsertCampAndFacility(t, ctx, pool, "Pine Hollow", "general", [4]int{1, 0, 0, 0})

		svc, _ := newService(clock.NewFixed(now))

		hold, err := svc.CreateHold(ctx, CreateHoldInput{
			UserID: 7, CampID: campID, FacilityID: facilityID,
			EntryDate: entry, LeavingDate: leaving,
		})
		if err != nil {
			t.Fatalf("create hold: %v", err)
		}

		res, err := svc.ConfirmReservation(ctx, hold.ReservationID)
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if res.Status != domain.ReservationConfirmed {
			t.Fatalf("expected confirmed, got %s", res.Status)
		}

		avail, err := svc.Availability(ctx, campID, entry)
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if avail.General != 0 {
			t.Fatalf("expected 0 general units left, got %d", avail.General)
		}

		// Same slot again: hold succeeds, confirm must fail.
		second, err := svc.CreateHold(ctx, CreateHoldInput{
			UserID: 8, CampID: campID, FacilityID: facilityID,
			EntryDate: entry, LeavingDate: leaving,
		})
		if err != nil {
			t.Fatalf("second hold: %v", err)
		}
		if _, err := svc.ConfirmReservation(ctx, second.ReservationID); !errors.Is(err, domain.ErrCapacityExhausted) {
			t.Fatalf("expected ErrCapacityExhausted, got %v", err)
		}

		if err := svc.CancelReservation(ctx, res.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		avail, err = svc.Availability(ctx, campID, entry)
		if err != nil {
			t.Fatalf("availability after cancel: %v", err)
		}
		if avail.General != 1 {
			t.Fatalf("expected count restored to 1, got %d", avail.General)
		}

		got, err := svc.GetReservation(ctx, res.ID)
		if err != nil {
			t.Fatalf("get reservation: %v", err)
		}
		if got.Status != domain.ReservationCancelled {
			t.Fatalf("expected cancelled, got %s", got.Status)
		}
	})

	t.Run("expired hold leaves the ledger untouched", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		campID, facilityID := testutil.InsertCampAndFacility(t, ctx, pool, "Pine Hollow", "general", [4]int{1, 0, 0, 0})

		clk := clock.NewManual(now)
		svc, _ := newService(clk)

		hold, err := svc.CreateHold(ctx, CreateHoldInput{
			UserID: 7, CampID: campID, FacilityID: facilityID,
			EntryDate: entry, LeavingDate: leaving,
		})
		if err != nil {
			t.Fatalf("create hold: %v", err)
		}

		clk.Advance(defaultHoldTTL)

		if _, err := svc.ConfirmReservation(ctx, hold.ReservationID); !errors.Is(err, domain.ErrHoldNotFound) {
			t.Fatalf("expected ErrHoldNotFound, got %v", err)
		}

		avail, err := svc.Availability(ctx, campID, entry)
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if avail.General != 1 {
			t.Fatalf("expected full availability, got %d", avail.General)
		}
	})

	t.Run("concurrent confirms oversell nothing", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		campID, facilityID := testutil.InsertCampAndFacility(t, ctx, pool, "Pine Hollow", "general", [4]int{2, 0, 0, 0})

		svc, _ := newService(clock.NewFixed(now))

		const competitors = 4
		ids := make([]string, 0, competitors)
		for i := 0; i < competitors; i++ {
			hold, err := svc.CreateHold(ctx, CreateHoldInput{
				UserID: int64(i + 1), CampID: campID, FacilityID: facilityID,
				EntryDate: entry, LeavingDate: leaving,
			})
			if err != nil {
				t.Fatalf("create hold %d: %v", i, err)
			}
			ids = append(ids, hold.ReservationID)
		}

		var wg sync.WaitGroup
		results := make(chan error, competitors)
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := svc.ConfirmReservation(ctx, id)
				results <- err
			}(id)
		}
		wg.Wait()
		close(results)

		var succeeded, exhausted int
		for err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrCapacityExhausted):
				exhausted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 2 || exhausted != competitors-2 {
			t.Fatalf("expected 2 confirms and %d failures, got %d/%d", competitors-2, succeeded, exhausted)
		}

		avail, err := svc.Availability(ctx, campID, entry)
		if err != nil {
			t.Fatalf("availability: %v", err)
		}
		if avail.General != 0 {
			t.Fatalf("expected 0 units left, got %d", avail.General)
		}
	})
}
