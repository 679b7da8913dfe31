package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"parkspot/internal/domain"
	"parkspot/internal/pricing"
	"parkspot/internal/repository"
	"parkspot/internal/repository/postgres"
)

const (
	codeSuffixLength = 6
	maxCodeAttempts  = 5

	defaultLeaderboardSize = 10
)

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var errCodeExhausted = errors.New("could not generate a unique referral code")

// ReferralService handles referral codes, their validation and the
// crediting of rewards.
type ReferralService struct {
	db           *sql.DB
	referralRepo repository.ReferralRepository
	userRepo     repository.UserRepository
	bookingRepo  repository.BookingRepository
}

// NewReferralService creates a new ReferralService.
func NewReferralService(
	db *sql.DB,
	referralRepo repository.ReferralRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
) *ReferralService {
	return &ReferralService{
		db:           db,
		referralRepo: referralRepo,
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
	}
}

// IssueOrGet returns the user's referral code, creating one on first use.
// Only users with at least one booking are eligible.
func (s *ReferralService) IssueOrGet(ctx context.Context, userID string) (*domain.Referral, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.HasBookedParking {
		return nil, ErrNotEligibleForReferral
	}

	existing, err := s.referralRepo.GetByReferrer(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generateCode(ctx, user.Name)
		if err != nil {
			return nil, err
		}

		referral := &domain.Referral{
			ID:           uuid.New().String(),
			ReferrerID:   userID,
			ReferralCode: code,
			IsActive:     true,
			CreatedAt:    time.Now(),
		}

		err = s.referralRepo.Create(ctx, referral)
		if err == nil {
			return referral, nil
		}
		// Lost a race on the unique code index, try a fresh code.
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, errCodeExhausted
}

// Validate checks that the code can be redeemed by the user. It returns
// the referral on success.
func (s *ReferralService) Validate(ctx context.Context, code, userID string) (*domain.Referral, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrReferralNotFound
	}

	referral, err := s.referralRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}

	if referral.ReferrerID == userID {
		return nil, ErrSelfReferral
	}

	if referral.HasReferredUser(userID) {
		return nil, ErrReferralAlreadyUsed
	}
	return referral, nil
}

// ApplyRedemption credits the referral reward for a consumed booking. It is
// idempotent per booking: replays and concurrent sweeps credit at most once.
func (s *ReferralService) ApplyRedemption(ctx context.Context, booking *domain.Booking) error {
	if booking.Referral == nil || booking.ReferralApplied {
		return nil
	}

	referral, err := s.referralRepo.GetByCode(ctx, booking.Referral.ReferralCode)
	if err != nil {
		// The code was deactivated after the booking was made. Mark the
		// booking processed so the sweep does not retry it forever.
		if errors.Is(err, repository.ErrNotFound) {
			return s.bookingRepo.SetReferralApplied(ctx, booking.ID)
		}
		return err
	}

	if referral.HasRedeemedBooking(booking.ID) {
		return s.bookingRepo.SetReferralApplied(ctx, booking.ID)
	}

	discount := booking.Referral.DiscountAmount
	baseAmount := booking.TotalAmount + discount - booking.Surcharge.SurchargeAmount
	reward := pricing.ReferrerReward(baseAmount)

	entry := domain.ReferredUser{
		UserID:         booking.UserID,
		BookingID:      booking.ID,
		DiscountAmount: discount,
		ReferredAt:     time.Now(),
	}

	err = s.runInTx(ctx, func(referralRepo repository.ReferralRepository, userRepo repository.UserRepository, bookingRepo repository.BookingRepository) error {
		if err := referralRepo.AddRedemption(ctx, referral.ID, entry, reward); err != nil {
			return err
		}
		if err := userRepo.AddReferrerReward(ctx, referral.ReferrerID, reward); err != nil {
			return err
		}
		if err := userRepo.AddReferralSavings(ctx, booking.UserID, discount); err != nil {
			return err
		}
		return bookingRepo.SetReferralApplied(ctx, booking.ID)
	})
	if err != nil {
		// Another sweep recorded this booking's redemption first.
		if errors.Is(err, repository.ErrDuplicate) {
			return s.bookingRepo.SetReferralApplied(ctx, booking.ID)
		}
		return err
	}

	booking.ReferralApplied = true
	return nil
}

// ReferralStatsResult is the per-user referral summary.
type ReferralStatsResult struct {
	ReferralCode   string
	IsActive       bool
	TotalReferrals int
	TotalRewards   float64
	TotalSavings   float64
	ReferredUsers  []domain.ReferredUser
}

// Stats returns the user's referral statistics. Users without a code get
// zeroed stats, not an error.
func (s *ReferralService) Stats(ctx context.Context, userID string) (*ReferralStatsResult, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ReferralStatsResult{
		TotalRewards:   user.ReferralStats.TotalRewards,
		TotalReferrals: user.ReferralStats.TotalReferrals,
		TotalSavings:   user.ReferralStats.TotalSavings,
	}

	referral, err := s.referralRepo.GetByReferrer(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return result, nil
		}
		return nil, err
	}

	result.ReferralCode = referral.ReferralCode
	result.IsActive = referral.IsActive
	result.ReferredUsers = referral.ReferredUsers
	return result, nil
}

// LeaderboardEntry is one row of the referral leaderboard.
type LeaderboardEntry struct {
	Rank           int
	ReferrerID     string
	ReferrerName   string
	ReferralCode   string
	TotalReferrals int
	TotalRewards   float64
}

// Leaderboard returns the top referrers by referral count, then rewards.
func (s *ReferralService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	referrals, err := s.referralRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(referrals))
	for i, referral := range referrals {
		entry := LeaderboardEntry{
			Rank:           i + 1,
			ReferrerID:     referral.ReferrerID,
			ReferralCode:   referral.ReferralCode,
			TotalReferrals: referral.TotalReferrals,
			TotalRewards:   referral.TotalRewards,
		}
		if user, err := s.userRepo.GetByID(ctx, referral.ReferrerID); err == nil {
			entry.ReferrerName = user.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AdminSummary is the system-wide referral report.
type AdminSummary struct {
	TotalCodes       int
	ActiveCodes      int
	TotalRedemptions int
	TotalRewards     float64
	Referrals        []*domain.Referral
}

// Summary returns the full referral report. Restricted to admins.
func (s *ReferralService) Summary(ctx context.Context, requesterID string) (*AdminSummary, error) {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if requester.Role != domain.UserRoleAdmin {
		return nil, ErrAdminRequired
	}

	referrals, err := s.referralRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &AdminSummary{Referrals: referrals}
	for _, referral := range referrals {
		summary.TotalCodes++
		if referral.IsActive {
			summary.ActiveCodes++
		}
		summary.TotalRedemptions += referral.TotalReferrals
		summary.TotalRewards += referral.TotalRewards
	}
	summary.TotalRewards = pricing.Round2(summary.TotalRewards)
	return summary, nil
}

// generateCode builds a candidate code from the user's name and a random
// suffix. Retries append the attempt number to dodge a colliding suffix.
func (s *ReferralService) generateCode(ctx context.Context, name string) (string, error) {
	prefix := namePrefix(name)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := prefix + randomBase36(codeSuffixLength)
		if attempt > 0 {
			code += strconv.Itoa(attempt)
		}

		exists, err := s.referralRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errCodeExhausted
}

// namePrefix returns the first three letters of the name, uppercased,
// padded with X for short names.
func namePrefix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return string(b)
}

func (s *ReferralService) runInTx(ctx context.Context, fn func(repository.ReferralRepository, repository.UserRepository, repository.BookingRepository) error) error {
	if s.db == nil {
		return fn(s.referralRepo, s.userRepo, s.bookingRepo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(
		postgres.NewReferralRepositoryWithTx(tx),
		postgres.NewUserRepositoryWithTx(tx),
		postgres.NewBookingRepositoryWithTx(tx),
	)
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}
