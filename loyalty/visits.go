package loyalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// RecordVisit counts a store visit and pays the configured visit points,
// both in one transaction.
func (s *Service) RecordVisit(accountID uint) (*models.LedgerEvent, error) {
	var event *models.LedgerEvent
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		event, err = s.recordVisitOnce(accountID)
		if err == nil {
			return event, nil
		}
		if errors.Is(err, ErrConflict) {
			continue
		}
		return nil, err
	}
	return nil, err
}

func (s *Service) recordVisitOnce(accountID uint) (*models.LedgerEvent, error) {
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

	event, err := s.appendEventTx(tx, accountID, models.EventEarn, s.visitPoints, EventOptions{
		Note: "store visit",
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res := tx.Exec(`
		UPDATE accounts
		SET visits = visits + 1, updated_at = ?
		WHERE account_id = ?
	`, time.Now(), accountID)
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit visit: %w", err)
	}
	return event, nil
}
