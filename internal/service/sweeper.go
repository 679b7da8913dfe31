package service

import (
	"context"
	"errors"
	"log"
	"time"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
)

// SweeperService completes bookings whose end time has passed, credits any
// pending referral reward and returns the spot to the space.
//
// A sweep is safe to replay: each booking is re-read before processing,
// terminal bookings are skipped and the reward path is idempotent per
// booking.
type SweeperService struct {
	bookingRepo     repository.BookingRepository
	referralService *ReferralService
	ledger          *LedgerService
}

// NewSweeperService creates a new SweeperService.
func NewSweeperService(
	bookingRepo repository.BookingRepository,
	referralService *ReferralService,
	ledger *LedgerService,
) *SweeperService {
	return &SweeperService{
		bookingRepo:     bookingRepo,
		referralService: referralService,
		ledger:          ledger,
	}
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Expired        int
	Completed      int
	RewardsApplied int
}

// Sweep processes all expired bookings. Failures on one booking are logged
// and do not stop the sweep.
func (s *SweeperService) Sweep(ctx context.Context) (*SweepResult, error) {
	expired, err := s.bookingRepo.GetExpired(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Expired: len(expired)}
	for _, stale := range expired {
		// Re-read in case the booking moved while the sweep was running.
		booking, err := s.bookingRepo.GetByID(ctx, stale.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			log.Printf("[SWEEP] reload booking %s: %v", stale.ID, err)
			continue
		}

		if booking.Status.IsTerminal() {
			continue
		}

		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusCompleted); err != nil {
			log.Printf("[SWEEP] complete booking %s: %v", booking.ID, err)
			continue
		}
		booking.Status = domain.BookingStatusCompleted
		result.Completed++

		if booking.Referral != nil && !booking.ReferralApplied {
			if err := s.referralService.ApplyRedemption(ctx, booking); err != nil {
				log.Printf("[SWEEP] referral reward for booking %s: %v", booking.ID, err)
			} else {
				result.RewardsApplied++
			}
		}

		if err := s.ledger.Release(ctx, booking.SpaceID); err != nil {
			log.Printf("[SWEEP] release spot for booking %s: %v", booking.ID, err)
		}
	}
	return result, nil
}
