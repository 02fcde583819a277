package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cupo/internal/domain"
	internalRedis "cupo/internal/redis"
	"cupo/internal/repository"
	"cupo/internal/repository/postgres"
)

// DefaultTransitionLockTTL bounds how long a crashed transition can block the trip.
const DefaultTransitionLockTTL = 10 * time.Second

// TripService publishes trips and drives their lifecycle, keeping the wallet in step.
type TripService struct {
	db          *sql.DB
	tripRepo    repository.TripRepository
	walletRepo  repository.WalletRepository
	assumptions *AssumptionsService
	locks       internalRedis.LockStoreInterface
	drafts      internalRedis.DraftStoreInterface
	lockTTL     time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewTripService creates a new TripService. locks and drafts may be nil.
func NewTripService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	walletRepo repository.WalletRepository,
	assumptions *AssumptionsService,
	locks internalRedis.LockStoreInterface,
	drafts internalRedis.DraftStoreInterface,
	lockTTL time.Duration,
	log logrus.FieldLogger,
) *TripService {
	if lockTTL <= 0 {
		lockTTL = DefaultTransitionLockTTL
	}
	return &TripService{
		db:          db,
		tripRepo:    tripRepo,
		walletRepo:  walletRepo,
		assumptions: assumptions,
		locks:       locks,
		drafts:      drafts,
		lockTTL:     lockTTL,
		log:         log,
		now:         time.Now,
	}
}

// PublishTripRequest contains the parameters for publishing a trip.
type PublishTripRequest struct {
	DriverID     string
	Origin       string
	Destination  string
	DateTime     time.Time
	Seats        int
	PricePerSeat decimal.Decimal
}

// PublishTripResponse contains the published trip and the guarantee frozen for it.
type PublishTripResponse struct {
	Trip      *domain.Trip
	Guarantee *Guarantee
	Balance   BalanceCheck
}

// PublishTrip validates a new trip, checks the driver can cover its guarantee,
// and atomically creates the trip and freezes the guarantee.
func (s *TripService) PublishTrip(ctx context.Context, req PublishTripRequest) (*PublishTripResponse, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}
	if req.DateTime.IsZero() {
		return nil, ErrInvalidDateTime
	}

	a, err := s.assumptions.Current(ctx)
	if err != nil {
		return nil, err
	}
	engine := NewPricingEngine(a, s.assumptions.Policy())

	if err := engine.ValidatePublish(req.Seats, req.PricePerSeat); err != nil {
		return nil, err
	}

	guarantee, err := engine.CalculateRequiredGuarantee(req.Seats, req.PricePerSeat)
	if err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}

	check := NewBalanceGate(a).CheckSufficientBalance(guarantee.Total, wallet)
	if !check.Sufficient {
		return nil, &InsufficientBalanceError{
			Required:  check.Required,
			Available: check.Available,
			Deficit:   check.Deficit,
		}
	}

	now := s.now()
	trip := &domain.Trip{
		ID:            uuid.New().String(),
		DriverID:      req.DriverID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		Seats:         req.Seats,
		PricePerSeat:  req.PricePerSeat,
		FrozenAmount:  guarantee.Total,
		FeePercentage: decimal.NullDecimal{Decimal: a.FeePercentage, Valid: true},
		Status:        domain.TripStatusActive,
		DateTime:      req.DateTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.createAndFreeze(ctx, trip, wallet.ID, now); err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			// Balance moved between the check and the freeze.
			return nil, &InsufficientBalanceError{
				Required:  check.Required,
				Available: check.Available,
				Deficit:   check.Deficit,
			}
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"driver_id": trip.DriverID,
		"seats":     trip.Seats,
		"guarantee": guarantee.Total.String(),
	}).Info("trip published")

	if s.drafts != nil {
		if err := s.drafts.DeleteDraft(ctx, req.DriverID); err != nil {
			s.log.WithError(err).WithField("user_id", req.DriverID).Warn("failed to clear trip draft")
		}
	}

	return &PublishTripResponse{
		Trip:      trip,
		Guarantee: guarantee,
		Balance:   check,
	}, nil
}

func (s *TripService) createAndFreeze(ctx context.Context, trip *domain.Trip, walletID string, now time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txWalletRepo := postgres.NewWalletRepositoryWithTx(tx)

	if err = txTripRepo.Create(ctx, trip); err != nil {
		return err
	}

	if err = txWalletRepo.Freeze(ctx, walletID, trip.FrozenAmount, now); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTrip returns a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.tripRepo.GetByID(ctx, tripID)
}

// ListDriverTrips returns a driver's trips ordered by priority.
func (s *TripService) ListDriverTrips(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	trips, err := s.tripRepo.ListByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return SortTripsByPriority(trips), nil
}

// TransitionResult contains the trip after a lifecycle transition and the settlement applied to the wallet.
type TransitionResult struct {
	Trip       *domain.Trip
	Settlement *Settlement
}

// StartTrip charges commission on sold seats and releases the rest of the guarantee.
func (s *TripService) StartTrip(ctx context.Context, tripID string) (*TransitionResult, error) {
	return s.transition(ctx, tripID, TransitionStart)
}

// CancelTrip releases the whole guarantee of an unbooked trip.
func (s *TripService) CancelTrip(ctx context.Context, tripID string) (*TransitionResult, error) {
	return s.transition(ctx, tripID, TransitionCancel)
}

// FinishTrip closes a started trip.
func (s *TripService) FinishTrip(ctx context.Context, tripID string) (*TransitionResult, error) {
	return s.transition(ctx, tripID, TransitionFinish)
}

func (s *TripService) transition(ctx context.Context, tripID string, action Transition) (*TransitionResult, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	release, err := s.lockTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	defer release()

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	settlement, walletID, err := s.settle(ctx, trip, action)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.persistSettlement(ctx, settlement, walletID, now); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"trip_id":    trip.ID,
			"transition": string(action),
		}).Error("trip transition failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id":       trip.ID,
		"transition":    string(action),
		"from":          string(settlement.From),
		"to":            string(settlement.To),
		"balance_delta": settlement.BalanceDelta.String(),
		"frozen_delta":  settlement.FrozenBalanceDelta.String(),
	}).Info("trip transition applied")

	updated := *trip
	updated.Status = settlement.To
	updated.UpdatedAt = now

	return &TransitionResult{Trip: &updated, Settlement: settlement}, nil
}

// settle runs the balance gate for one transition. Only starting a trip published without a fee
// consults the current assumptions.
func (s *TripService) settle(ctx context.Context, trip *domain.Trip, action Transition) (*Settlement, string, error) {
	if action == TransitionFinish {
		settlement, err := NewBalanceGate(nil).Finish(trip)
		return settlement, "", err
	}

	var a *domain.Assumptions
	if action == TransitionStart && !trip.FeePercentage.Valid {
		current, err := s.assumptions.Current(ctx)
		if err != nil {
			// The gate reports ErrConfigUnavailable after its own precondition checks.
			s.log.WithError(err).WithField("trip_id", trip.ID).Warn("assumptions unavailable for transition")
		} else {
			a = current
		}
	}
	gate := NewBalanceGate(a)

	if action == TransitionCancel {
		if err := gate.CheckCancellable(trip); err != nil {
			return nil, "", err
		}
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, trip.DriverID)
	if err != nil {
		return nil, "", err
	}

	var settlement *Settlement
	switch action {
	case TransitionStart:
		settlement, err = gate.Start(trip, wallet.ID)
	case TransitionCancel:
		settlement, err = gate.Cancel(trip, wallet.ID)
	default:
		err = fmt.Errorf("%w: unknown action %q", ErrInvalidStateTransition, action)
	}
	if err != nil {
		return nil, "", err
	}

	return settlement, wallet.ID, nil
}

func (s *TripService) persistSettlement(ctx context.Context, settlement *Settlement, walletID string, now time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionWriteFailure, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txWalletRepo := postgres.NewWalletRepositoryWithTx(tx)
	txLedgerRepo := postgres.NewTransactionRepositoryWithTx(tx)

	if err = txTripRepo.UpdateStatus(ctx, settlement.TripID, settlement.From, settlement.To, now); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return fmt.Errorf("%w: trip is no longer %s", ErrInvalidStateTransition, settlement.From)
		}
		return fmt.Errorf("%w: %v", ErrTransactionWriteFailure, err)
	}

	if !settlement.BalanceDelta.IsZero() || !settlement.FrozenBalanceDelta.IsZero() {
		if err = txWalletRepo.ApplyDelta(ctx, walletID, settlement.BalanceDelta, settlement.FrozenBalanceDelta, now); err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionWriteFailure, err)
		}
	}

	for i := range settlement.Entries {
		entry := &settlement.Entries[i]
		entry.ID = uuid.New().String()
		entry.CreatedAt = now

		if err = txLedgerRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionWriteFailure, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionWriteFailure, err)
	}

	return nil
}

// lockTrip takes the per-trip transition lock. A Redis outage does not block transitions:
// the status-guarded update still rejects concurrent writers.
func (s *TripService) lockTrip(ctx context.Context, tripID string) (func(), error) {
	noop := func() {}
	if s.locks == nil {
		return noop, nil
	}

	token, ok, err := s.locks.AcquireTripLock(ctx, tripID, s.lockTTL)
	if err != nil {
		s.log.WithError(err).WithField("trip_id", tripID).Warn("trip lock unavailable, relying on status guard")
		return noop, nil
	}
	if !ok {
		return nil, ErrTransitionInProgress
	}

	return func() {
		if err := s.locks.ReleaseTripLock(context.WithoutCancel(ctx), tripID, token); err != nil {
			s.log.WithError(err).WithField("trip_id", tripID).Warn("failed to release trip lock")
		}
	}, nil
}
