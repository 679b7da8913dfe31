package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// 6. SPOT LEDGER
// ──────────────────────────────────────────────

func TestLedger_ReserveUntilEmpty(t *testing.T) {
	t.Parallel()

	spaceRepo := NewMockSpaceRepository()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 2, AvailableSpots: 2, IsAvailable: true})
	ledger := service.NewLedgerService(spaceRepo, nil, nil)
	ctx := context.Background()

	if err := ledger.Reserve(ctx, "space-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Reserve(ctx, "space-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ledger.Reserve(ctx, "space-1")
	if !errors.Is(err, service.ErrNoCapacity) {
		t.Errorf("expected no capacity, got %v", err)
	}

	space := spaceRepo.GetSpace("space-1")
	if space.AvailableSpots != 0 {
		t.Errorf("expected 0 spots, got %d", space.AvailableSpots)
	}
	if space.IsAvailable {
		t.Error("empty space must not be available")
	}
}

func TestLedger_ReleaseClampsToCapacity(t *testing.T) {
	t.Parallel()

	spaceRepo := NewMockSpaceRepository()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 2, AvailableSpots: 2, IsAvailable: true})
	ledger := service.NewLedgerService(spaceRepo, nil, nil)

	if err := ledger.Release(context.Background(), "space-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 2 {
		t.Errorf("release must clamp to capacity, got %d", spots)
	}
}

func TestLedger_SetAvailableSpotsClamps(t *testing.T) {
	t.Parallel()

	spaceRepo := NewMockSpaceRepository()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 5, AvailableSpots: 3, IsAvailable: true})
	ledger := service.NewLedgerService(spaceRepo, nil, nil)
	ctx := context.Background()

	stored, err := ledger.SetAvailableSpots(ctx, "space-1", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != 5 {
		t.Errorf("expected clamp to capacity 5, got %d", stored)
	}

	stored, err = ledger.SetAvailableSpots(ctx, "space-1", -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != 0 {
		t.Errorf("expected clamp to 0, got %d", stored)
	}
	if spaceRepo.GetSpace("space-1").IsAvailable {
		t.Error("zero spots must mark the space unavailable")
	}
}

func TestLedger_ConcurrentReservesNeverGoNegative(t *testing.T) {
	t.Parallel()

	spaceRepo := NewMockSpaceRepository()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 10, AvailableSpots: 10, IsAvailable: true})
	ledger := service.NewLedgerService(spaceRepo, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Reserve(context.Background(), "space-1")
		}()
	}
	wg.Wait()

	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 0 {
		t.Errorf("expected counter drained to exactly 0, got %d", spots)
	}
}

func TestLedger_RejectsInvalidCoordinates(t *testing.T) {
	t.Parallel()

	spaceRepo := NewMockSpaceRepository()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 2, AvailableSpots: 2})
	ledger := service.NewLedgerService(spaceRepo, nil, nil)

	err := ledger.UpdateCoordinates(context.Background(), "space-1", 91, 0)
	if !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected invalid location, got %v", err)
	}
}
