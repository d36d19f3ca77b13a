package loyalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// EventOptions carries the optional attributes of a ledger event.
type EventOptions struct {
	RewardID *uint
	GoalID   *uint
	Note     string
}

// AppendEvent records one point-affecting event and applies it to the
// account balance as a single atomic unit. There is never a state where
// the event exists but the balance does not reflect it, or vice versa.
//
// Earn and adjustment add their signed points; redeem subtracts its
// positive magnitude and fails with ErrInsufficientBalance when it would
// drive the balance negative. The membership tier is recomputed in the
// same write.
func (s *Service) AppendEvent(accountID uint, kind string, points int, opts EventOptions) (*models.LedgerEvent, error) {
	if err := validateEvent(kind, points); err != nil {
		return nil, err
	}

	// The balance update is an optimistic compare-and-set: when another
	// writer commits between our read and our update, the update matches
	// zero rows and the whole read-check-write sequence is retried.
	var event *models.LedgerEvent
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		tx := s.db.Begin()
		if tx.Error != nil {
			return nil, tx.Error
		}

		event, err = s.appendEventTx(tx, accountID, kind, points, opts)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, ErrConflict) {
				continue
			}
			return nil, err
		}

		if err = tx.Commit().Error; err != nil {
			return nil, fmt.Errorf("failed to commit ledger event: %w", err)
		}
		return event, nil
	}

	return nil, err
}

// appendEventTx performs one attempt of the read-check-write sequence
// inside the caller's transaction. The caller owns commit and rollback.
// ErrConflict means the balance compare-and-set lost to a concurrent
// writer and the attempt can be retried on a fresh transaction.
func (s *Service) appendEventTx(tx *gorm.DB, accountID uint, kind string, points int, opts EventOptions) (*models.LedgerEvent, error) {
	var account models.Account
	if err := tx.First(&account, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return nil, err
	}

	delta := points
	if kind == models.EventRedeem {
		delta = -points
	}

	newBalance := account.CurrentPoints + delta
	if newBalance < 0 {
		return nil, fmt.Errorf("balance %d, needed %d: %w", account.CurrentPoints, points, ErrInsufficientBalance)
	}

	newTier := TierOf(newBalance, s.thresholds)

	res := tx.Exec(`
		UPDATE accounts
		SET current_points = ?, membership_tier = ?, updated_at = ?
		WHERE account_id = ? AND current_points = ?
	`, newBalance, newTier, time.Now(), accountID, account.CurrentPoints)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Someone else moved the balance first
		return nil, ErrConflict
	}

	event := models.LedgerEvent{
		EventCode: uuid.NewString(),
		AccountID: accountID,
		Kind:      kind,
		Points:    points,
		RewardID:  opts.RewardID,
		GoalID:    opts.GoalID,
		Note:      opts.Note,
	}

	if err := tx.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to append ledger event: %w", err)
	}

	return &event, nil
}

// validateEvent rejects malformed events before any state is touched.
func validateEvent(kind string, points int) error {
	switch kind {
	case models.EventEarn, models.EventRedeem:
		if points <= 0 {
			return fmt.Errorf("%s of %d points: %w", kind, points, ErrInvalidAmount)
		}
	case models.EventAdjustment:
		// Adjustments may be negative or zero: they are corrections
	default:
		return fmt.Errorf("unknown event kind %q: %w", kind, ErrInvalidAmount)
	}
	return nil
}

// GetBalance returns the maintained balance aggregate for an account.
// Callers must not sum ledger events on the hot path; that is what
// ReconcileBalance is for.
func (s *Service) GetBalance(accountID uint) (int, error) {
	var account models.Account
	if err := s.db.First(&account, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return 0, err
	}
	return account.CurrentPoints, nil
}

// GetLedger returns an account's ledger events, newest first.
func (s *Service) GetLedger(accountID uint, limit int) ([]models.LedgerEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []models.LedgerEvent
	err := s.db.
		Where("account_id = ?", accountID).
		Order("created_at DESC, event_id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// ReconcileReport is the result of checking the balance aggregate against
// the event history.
type ReconcileReport struct {
	AccountID  uint `json:"account_id"`
	Balance    int  `json:"balance"`
	EventSum   int  `json:"event_sum"`
	Consistent bool `json:"consistent"`
}

// ReconcileBalance sums the account's ledger events and compares the
// result against the maintained balance. Diagnostic use only.
func (s *Service) ReconcileBalance(accountID uint) (ReconcileReport, error) {
	balance, err := s.GetBalance(accountID)
	if err != nil {
		return ReconcileReport{}, err
	}

	var eventSum int
	err = s.db.Raw(`
		SELECT COALESCE(SUM(CASE WHEN kind = ? THEN -points ELSE points END), 0)
		FROM ledger_events
		WHERE account_id = ?
	`, models.EventRedeem, accountID).Scan(&eventSum).Error
	if err != nil {
		return ReconcileReport{}, err
	}

	return ReconcileReport{
		AccountID:  accountID,
		Balance:    balance,
		EventSum:   eventSum,
		Consistent: balance == eventSum,
	}, nil
}
