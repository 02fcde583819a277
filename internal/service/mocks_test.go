package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"cupo/internal/domain"
	"cupo/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	GetByIDCallCount int32

	GetByIDError error
	ListError    error
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]*domain.Trip)}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) ListByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.DriverID == driverID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TripStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	if trip.Status != from {
		return repository.ErrStatusConflict
	}
	trip.Status = to
	trip.UpdatedAt = at
	return nil
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet // by user ID

	GetByUserIDCallCount int32

	GetByUserIDError error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{wallets: make(map[string]*domain.Wallet)}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.UserID] = wallet
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	atomic.AddInt32(&m.GetByUserIDCallCount, 1)
	if m.GetByUserIDError != nil {
		return nil, m.GetByUserIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *w
	return &copy, nil
}

func (m *MockWalletRepository) findByID(walletID string) *domain.Wallet {
	for _, w := range m.wallets {
		if w.ID == walletID {
			return w
		}
	}
	return nil
}

func (m *MockWalletRepository) Freeze(ctx context.Context, walletID string, amount decimal.Decimal, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.findByID(walletID)
	if w == nil {
		return repository.ErrNotFound
	}
	if w.Balance.LessThan(amount) {
		return repository.ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	w.FrozenBalance = w.FrozenBalance.Add(amount)
	return nil
}

func (m *MockWalletRepository) ApplyDelta(ctx context.Context, walletID string, balanceDelta, frozenDelta decimal.Decimal, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.findByID(walletID)
	if w == nil {
		return repository.ErrNotFound
	}
	w.Balance = w.Balance.Add(balanceDelta)
	w.FrozenBalance = w.FrozenBalance.Add(frozenDelta)
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu  sync.RWMutex
	txs []*domain.WalletTransaction

	ListError error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.WalletTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, tx)
	return nil
}

func (m *MockTransactionRepository) ListByWalletID(ctx context.Context, walletID string) ([]*domain.WalletTransaction, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WalletTransaction
	for i := len(m.txs) - 1; i >= 0; i-- {
		if m.txs[i].WalletID == walletID {
			result = append(result, m.txs[i])
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ASSUMPTIONS REPOSITORY AND CACHE
// ──────────────────────────────────────────────

// MockAssumptionsRepository is a mock implementation of AssumptionsRepository.
type MockAssumptionsRepository struct {
	Assumptions  *domain.Assumptions
	GetError     error
	GetCallCount int32
}

func (m *MockAssumptionsRepository) Get(ctx context.Context) (*domain.Assumptions, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	if m.Assumptions == nil {
		return nil, repository.ErrNotFound
	}
	copy := *m.Assumptions
	return &copy, nil
}

// MockAssumptionsCache is a mock implementation of AssumptionsCacheInterface.
type MockAssumptionsCache struct {
	mu     sync.Mutex
	cached *domain.Assumptions

	SetCallCount        int32
	InvalidateCallCount int32

	GetError error
	SetError error
}

func (m *MockAssumptionsCache) GetAssumptions(ctx context.Context) (*domain.Assumptions, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cached, nil
}

func (m *MockAssumptionsCache) SetAssumptions(ctx context.Context, a *domain.Assumptions) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = a
	return nil
}

func (m *MockAssumptionsCache) InvalidateAssumptions(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK AND DRAFT STORES
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]string

	ReleaseCallCount int32

	AcquireError error
}

func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]string)}
}

// Hold marks a trip as locked by someone else.
func (m *MockLockStore) Hold(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[tripID] = "other"
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (string, bool, error) {
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[tripID]; held {
		return "", false, nil
	}
	token := "token-" + tripID
	m.locks[tripID] = token
	return token, true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] == token {
		delete(m.locks, tripID)
	}
	return nil
}

// IsHeld reports whether a lock is currently held for the trip.
func (m *MockLockStore) IsHeld(tripID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[tripID]
	return ok
}

// MockDraftStore is a mock implementation of DraftStoreInterface.
type MockDraftStore struct {
	mu     sync.Mutex
	drafts map[string]*domain.TripDraft

	DeleteCallCount int32

	SaveError error
}

func NewMockDraftStore() *MockDraftStore {
	return &MockDraftStore{drafts: make(map[string]*domain.TripDraft)}
}

func (m *MockDraftStore) GetDraft(ctx context.Context, userID string) (*domain.TripDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[userID]
	if !ok {
		return nil, nil
	}
	copy := *d
	return &copy, nil
}

func (m *MockDraftStore) SaveDraft(ctx context.Context, draft *domain.TripDraft) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *draft
	m.drafts[draft.UserID] = &copy
	return nil
}

func (m *MockDraftStore) DeleteDraft(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
	return nil
}

// ──────────────────────────────────────────────
// FIXTURES
// ──────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testAssumptions returns the rates used across the service tests:
// 15% fee, 500 fixed per seat, 30% price limit, 20% alert threshold.
func testAssumptions() *domain.Assumptions {
	return &domain.Assumptions{
		ID:                       "assumptions-1",
		UrbanPricePerKm:          dec("1000"),
		InterurbanPricePerKm:     dec("600"),
		FeePercentage:            dec("15"),
		FixedRate:                dec("500"),
		PriceLimitPercentage:     dec("30"),
		AlertThresholdPercentage: dec("20"),
	}
}
