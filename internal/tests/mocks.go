package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	SetHasBookedCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) SetHasBookedParking(ctx context.Context, id string) error {
	atomic.AddInt32(&m.SetHasBookedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.HasBookedParking = true
	return nil
}

func (m *MockUserRepository) AddReferrerReward(ctx context.Context, id string, reward float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ReferralStats.TotalRewards += reward
	user.ReferralStats.TotalReferrals++
	return nil
}

func (m *MockUserRepository) AddReferralSavings(ctx context.Context, id string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ReferralStats.TotalSavings += amount
	return nil
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK SPACE REPOSITORY
// ──────────────────────────────────────────────

// MockSpaceRepository is a mock implementation of SpaceRepository. The spot
// counter mutations take the write lock for the whole check-and-set, which
// mirrors the conditional UPDATE of the real repository.
type MockSpaceRepository struct {
	mu     sync.RWMutex
	spaces map[string]*domain.ParkingSpace

	// Counters for verification
	ReserveCallCount int32
	ReleaseCallCount int32

	// Error injection
	ReserveError error
}

// NewMockSpaceRepository creates a new mock space repository.
func NewMockSpaceRepository() *MockSpaceRepository {
	return &MockSpaceRepository{spaces: make(map[string]*domain.ParkingSpace)}
}

// AddSpace adds a space to the mock repository.
func (m *MockSpaceRepository) AddSpace(space *domain.ParkingSpace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces[space.ID] = space
}

func (m *MockSpaceRepository) Create(ctx context.Context, space *domain.ParkingSpace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces[space.ID] = space
	return nil
}

func (m *MockSpaceRepository) GetByID(ctx context.Context, id string) (*domain.ParkingSpace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	space, ok := m.spaces[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *space
	return &copy, nil
}

func (m *MockSpaceRepository) GetAll(ctx context.Context) ([]*domain.ParkingSpace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ParkingSpace, 0, len(m.spaces))
	for _, s := range m.spaces {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockSpaceRepository) GetAvailable(ctx context.Context) ([]*domain.ParkingSpace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.ParkingSpace
	for _, s := range m.spaces {
		if s.AvailableSpots > 0 {
			copy := *s
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockSpaceRepository) Update(ctx context.Context, space *domain.ParkingSpace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spaces[space.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *space
	m.spaces[space.ID] = &copy
	return nil
}

func (m *MockSpaceRepository) ReserveSpot(ctx context.Context, id string) error {
	atomic.AddInt32(&m.ReserveCallCount, 1)
	if m.ReserveError != nil {
		return m.ReserveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	space, ok := m.spaces[id]
	if !ok {
		return repository.ErrNotFound
	}
	if space.AvailableSpots <= 0 {
		return repository.ErrNoCapacity
	}
	space.AvailableSpots--
	space.IsAvailable = space.AvailableSpots > 0
	return nil
}

func (m *MockSpaceRepository) ReleaseSpot(ctx context.Context, id string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	space, ok := m.spaces[id]
	if !ok {
		return repository.ErrNotFound
	}
	if space.AvailableSpots < space.Capacity {
		space.AvailableSpots++
	}
	space.IsAvailable = space.AvailableSpots > 0
	return nil
}

func (m *MockSpaceRepository) SetAvailableSpots(ctx context.Context, id string, n int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	space, ok := m.spaces[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if n < 0 {
		n = 0
	}
	if n > space.Capacity {
		n = space.Capacity
	}
	space.AvailableSpots = n
	space.IsAvailable = n > 0
	return n, nil
}

func (m *MockSpaceRepository) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	space, ok := m.spaces[id]
	if !ok {
		return repository.ErrNotFound
	}
	space.Lat = lat
	space.Lng = lng
	return nil
}

// GetSpace returns the stored space for test assertions.
func (m *MockSpaceRepository) GetSpace(id string) *domain.ParkingSpace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spaces[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[string]*domain.Booking)}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func copyBooking(b *domain.Booking) *domain.Booking {
	copy := *b
	if b.Referral != nil {
		ref := *b.Referral
		copy.Referral = &ref
	}
	return &copy
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyBooking(booking), nil
}

func (m *MockBookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			result = append(result, copyBooking(b))
		}
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	return nil
}

func (m *MockBookingRepository) FindOverlapping(ctx context.Context, spaceID string, start, end time.Time, excludeID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.SpaceID != spaceID || b.ID == excludeID {
			continue
		}
		if b.Status != domain.BookingStatusConfirmed && b.Status != domain.BookingStatusActive {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.Status.IsTerminal() {
			continue
		}
		if !b.EndTime.After(now) {
			result = append(result, copyBooking(b))
		}
	}
	return result, nil
}

func (m *MockBookingRepository) SetReferralApplied(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.ReferralApplied = true
	return nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of stored bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK REFERRAL REPOSITORY
// ──────────────────────────────────────────────

// MockReferralRepository is a mock implementation of ReferralRepository.
type MockReferralRepository struct {
	mu        sync.RWMutex
	referrals map[string]*domain.Referral

	// Counters for verification
	AddRedemptionCallCount int32
}

// NewMockReferralRepository creates a new mock referral repository.
func NewMockReferralRepository() *MockReferralRepository {
	return &MockReferralRepository{referrals: make(map[string]*domain.Referral)}
}

// AddReferral adds a referral to the mock repository.
func (m *MockReferralRepository) AddReferral(referral *domain.Referral) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.referrals[referral.ID] = referral
}

func copyReferral(r *domain.Referral) *domain.Referral {
	copy := *r
	copy.ReferredUsers = append([]domain.ReferredUser(nil), r.ReferredUsers...)
	return &copy
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *domain.Referral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.referrals {
		if r.ReferralCode == referral.ReferralCode {
			return repository.ErrDuplicate
		}
	}
	m.referrals[referral.ID] = copyReferral(referral)
	return nil
}

func (m *MockReferralRepository) GetByCode(ctx context.Context, code string) (*domain.Referral, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.referrals {
		if r.ReferralCode == code && r.IsActive {
			return copyReferral(r), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockReferralRepository) GetByReferrer(ctx context.Context, userID string) (*domain.Referral, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.referrals {
		if r.ReferrerID == userID {
			return copyReferral(r), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.referrals {
		if r.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReferralRepository) AddRedemption(ctx context.Context, referralID string, entry domain.ReferredUser, reward float64) error {
	atomic.AddInt32(&m.AddRedemptionCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	referral, ok := m.referrals[referralID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, ru := range referral.ReferredUsers {
		if ru.BookingID == entry.BookingID {
			return repository.ErrDuplicate
		}
	}
	referral.ReferredUsers = append(referral.ReferredUsers, entry)
	referral.TotalReferrals++
	referral.TotalRewards += reward
	return nil
}

func (m *MockReferralRepository) GetLeaderboard(ctx context.Context, limit int) ([]*domain.Referral, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Referral
	for _, r := range m.referrals {
		if r.IsActive {
			result = append(result, copyReferral(r))
		}
	}
	for i := 1; i < len(result); i++ {
		for j := i; j > 0; j-- {
			a, b := result[j-1], result[j]
			if b.TotalReferrals > a.TotalReferrals ||
				(b.TotalReferrals == a.TotalReferrals && b.TotalRewards > a.TotalRewards) {
				result[j-1], result[j] = b, a
			}
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockReferralRepository) GetAll(ctx context.Context) ([]*domain.Referral, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Referral, 0, len(m.referrals))
	for _, r := range m.referrals {
		result = append(result, copyReferral(r))
	}
	return result, nil
}

// GetReferral returns the stored referral for test assertions.
func (m *MockReferralRepository) GetReferral(id string) *domain.Referral {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.referrals[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) GetCompletedByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID && p.Status == domain.PaymentStatusCompleted {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	return nil
}

func (m *MockPaymentRepository) MarkRefunded(ctx context.Context, id, refundID string, amount float64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = domain.PaymentStatusRefunded
	payment.RefundID = refundID
	payment.RefundAmount = amount
	payment.RefundReason = reason
	return nil
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.Notification
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{notifications: make(map[string]*domain.Notification)}
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range notifications {
		copy := *n
		m.notifications[n.ID] = &copy
	}
	return nil
}

func (m *MockNotificationRepository) GetByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copy := *n
		result = append(result, &copy)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// CountNotifications returns the number of stored notifications.
func (m *MockNotificationRepository) CountNotifications() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notifications)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory lock store with SetNX semantics.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireSpaceLock(ctx context.Context, spaceID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[spaceID] {
		return false, nil
	}
	m.locks[spaceID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSpaceLock(ctx context.Context, spaceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, spaceID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a deterministic payment gateway for tests.
type MockGateway struct {
	ChargeSucceeds bool
	RefundSucceeds bool
	ChargeError    error

	ChargeCallCount int32
	RefundCallCount int32
}

// NewMockGateway creates a gateway that approves everything.
func NewMockGateway() *MockGateway {
	return &MockGateway{ChargeSucceeds: true, RefundSucceeds: true}
}

func (g *MockGateway) Charge(ctx context.Context, amount float64, bookingID string) (*service.ChargeResult, error) {
	atomic.AddInt32(&g.ChargeCallCount, 1)
	if g.ChargeError != nil {
		return nil, g.ChargeError
	}
	if !g.ChargeSucceeds {
		return &service.ChargeResult{Success: false, Detail: "card declined by issuing bank"}, nil
	}
	return &service.ChargeResult{Success: true, TransactionID: "TXN_TEST_" + bookingID}, nil
}

func (g *MockGateway) Refund(ctx context.Context, transactionID string, amount float64) (*service.RefundResult, error) {
	atomic.AddInt32(&g.RefundCallCount, 1)
	if !g.RefundSucceeds {
		return &service.RefundResult{Success: false, Detail: "refund rejected by provider"}, nil
	}
	return &service.RefundResult{Success: true, RefundID: "REF_TEST_" + transactionID}, nil
}
