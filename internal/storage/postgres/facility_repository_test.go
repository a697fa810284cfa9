package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
	"github.com/1COMM1T/Camping-Reservation/internal/testutil"
)

func TestFacilityRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewFacilityRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("resolves facility to its type and camp", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		campID, facilityID := testutil.InsertCampAndFacility(t, ctx, pool, "Pine Hollow", "caravan", [4]int{1, 2, 3, 4})

		f, err := repo.ResolveFacility(ctx, facilityID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if f.CampID != campID || f.Type != domain.FacilityCaravan {
			t.Fatalf("unexpected facility: %+v", f)
		}

		_, err = repo.ResolveFacility(ctx, facilityID+1)
		if !errors.Is(err, domain.ErrFacilityNotFound) {
			t.Fatalf("expected ErrFacilityNotFound, got %v", err)
		}
	})

	t.Run("camp baseline returns per-type counts", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		campID, _ := testutil.InsertCampAndFacility(t, ctx, pool, "Pine Hollow", "general", [4]int{1, 2, 3, 4})

		b, err := repo.CampBaseline(ctx, campID)
		if err != nil {
			t.Fatalf("baseline: %v", err)
		}
		if b.General != 1 || b.Vehicle != 2 || b.Glamping != 3 || b.Caravan != 4 {
			t.Fatalf("unexpected baseline: %+v", b)
		}

		_, err = repo.CampBaseline(ctx, campID+1)
		if !errors.Is(err, domain.ErrCampNotFound) {
			t.Fatalf("expected ErrCampNotFound, got %v", err)
		}
	})
}
