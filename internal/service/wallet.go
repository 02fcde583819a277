package service

import (
	"context"

	"github.com/shopspring/decimal"

	"cupo/internal/domain"
	"cupo/internal/repository"
)

// WalletService exposes wallet views and the publish eligibility check.
type WalletService struct {
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	assumptions     *AssumptionsService
}

// NewWalletService creates a new WalletService.
func NewWalletService(
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	assumptions *AssumptionsService,
) *WalletService {
	return &WalletService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		assumptions:     assumptions,
	}
}

// GetWallet returns a user's wallet.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.walletRepo.GetByUserID(ctx, userID)
}

// GetTransactions returns the ledger of a user's wallet, newest first.
func (s *WalletService) GetTransactions(ctx context.Context, userID string) ([]*domain.WalletTransaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByWalletID(ctx, wallet.ID)
}

// PublishEligibility is the guarantee breakdown together with the balance decision.
type PublishEligibility struct {
	Guarantee *Guarantee
	Check     BalanceCheck
}

// CheckPublishBalance tells a driver whether their wallet covers the guarantee for a trip.
func (s *WalletService) CheckPublishBalance(ctx context.Context, userID string, seats int, pricePerSeat decimal.Decimal) (*PublishEligibility, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	a, err := s.assumptions.Current(ctx)
	if err != nil {
		return nil, err
	}

	guarantee, err := NewPricingEngine(a, s.assumptions.Policy()).CalculateRequiredGuarantee(seats, pricePerSeat)
	if err != nil {
		return nil, err
	}

	return &PublishEligibility{
		Guarantee: guarantee,
		Check:     NewBalanceGate(a).CheckSufficientBalance(guarantee.Total, wallet),
	}, nil
}
