package loyalty

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// Approve settles a pending redemption request: it marks the request
// redeemed and deducts the snapshotted points from the account, all in
// one transaction. If the deduction fails — typically because the balance
// moved since the request was made — the status claim is rolled back with
// it, so a request is never left redeemed without its ledger deduction
// and never silently stuck.
//
// Approve is idempotent per request: retrying a settled request reports
// ErrAlreadyProcessed instead of deducting twice.
func (s *Service) Approve(redemptionID uint) error {
	var request *models.RedemptionRequest
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		request, err = s.approveOnce(redemptionID)
		if err == nil {
			break
		}
		if errors.Is(err, ErrConflict) {
			continue
		}
		return err
	}
	if err != nil {
		return err
	}

	// The deduction is the invariant that matters and it is committed.
	// The audit note is best-effort: a failure here is logged, never
	// rolled back.
	_, noteErr := s.AppendEvent(request.AccountID, models.EventAdjustment, 0, EventOptions{
		RewardID: &request.RewardID,
		Note:     fmt.Sprintf("settled redemption #%d (%d points)", request.RedemptionID, request.PointsSpent),
	})
	if noteErr != nil {
		log.Printf("Warning: audit note for redemption %d failed: %v", redemptionID, noteErr)
	}

	s.notify(request.AccountID, fmt.Sprintf("Your redemption #%d was approved. Enjoy!", request.RedemptionID))
	return nil
}

// approveOnce runs a single settlement attempt in its own transaction.
func (s *Service) approveOnce(redemptionID uint) (*models.RedemptionRequest, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	request, err := s.claimPending(tx, redemptionID, models.RedemptionRedeemed)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Limited rewards hand out one unit per settlement. A concurrent
	// sell-out fails the whole attempt and releases the claim.
	var reward models.Reward
	if err := tx.First(&reward, "reward_id = ?", request.RewardID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if reward.Inventory != nil {
		res := tx.Exec(`
			UPDATE rewards
			SET inventory = inventory - 1, updated_at = ?
			WHERE reward_id = ? AND inventory > 0
		`, time.Now(), request.RewardID)
		if res.Error != nil {
			tx.Rollback()
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return nil, fmt.Errorf("reward %d is sold out: %w", request.RewardID, ErrRewardInactive)
		}
	}

	_, err = s.appendEventTx(tx, request.AccountID, models.EventRedeem, request.PointsSpent, EventOptions{
		RewardID: &request.RewardID,
		Note:     fmt.Sprintf("redemption #%d approved", request.RedemptionID),
	})
	if err != nil {
		// Compensation: rolling back reverts the status claim too, the
		// request stays pending and the caller is told settlement failed.
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return request, nil
}

// Reject settles a pending redemption request as expired. No points were
// ever deducted for a pending request, so the ledger is not touched.
func (s *Service) Reject(redemptionID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	request, err := s.claimPending(tx, redemptionID, models.RedemptionExpired)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit rejection: %w", err)
	}

	s.notify(request.AccountID, fmt.Sprintf("Your redemption #%d was declined. Your points were not spent.", request.RedemptionID))
	return nil
}

// claimPending transitions a request out of pending, guarded so only one
// settlement of a request can ever win. The losing caller observes the
// terminal status via AlreadyProcessedError.
func (s *Service) claimPending(tx *gorm.DB, redemptionID uint, terminal string) (*models.RedemptionRequest, error) {
	var request models.RedemptionRequest
	if err := tx.First(&request, "redemption_id = ?", redemptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("redemption %d: %w", redemptionID, ErrNotFound)
		}
		return nil, err
	}

	if request.Status != models.RedemptionPending {
		return nil, &AlreadyProcessedError{Status: request.Status}
	}

	// fulfilled_at only ever marks an approval; an expired request was
	// never fulfilled
	now := time.Now()
	var fulfilledAt *time.Time
	if terminal == models.RedemptionRedeemed {
		fulfilledAt = &now
	}

	res := tx.Exec(`
		UPDATE redemption_requests
		SET status = ?, fulfilled_at = ?
		WHERE redemption_id = ? AND status = ?
	`, terminal, fulfilledAt, redemptionID, models.RedemptionPending)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: reload to report the winner's terminal status
		var current models.RedemptionRequest
		if err := tx.First(&current, "redemption_id = ?", redemptionID).Error; err != nil {
			return nil, err
		}
		return nil, &AlreadyProcessedError{Status: current.Status}
	}

	request.Status = terminal
	request.FulfilledAt = fulfilledAt
	return &request, nil
}
