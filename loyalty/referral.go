package loyalty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// CompleteReferral records a completed referral and pays both sides: the
// referrer earns bonusPoints, the referee earns the configured welcome
// bonus. The operation is idempotent per (referrer, referee) pair — a
// repeat call reports ErrDuplicateReferral instead of paying twice.
func (s *Service) CompleteReferral(referrerID, refereeID uint, bonusPoints int) (*models.Referral, error) {
	if bonusPoints <= 0 {
		return nil, fmt.Errorf("referral bonus of %d points: %w", bonusPoints, ErrInvalidAmount)
	}
	if referrerID == refereeID {
		return nil, fmt.Errorf("self-referral: %w", ErrInvalidAmount)
	}

	var referral *models.Referral
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		referral, err = s.completeReferralOnce(referrerID, refereeID, bonusPoints)
		if err == nil {
			break
		}
		if errors.Is(err, ErrConflict) {
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.notify(referrerID, fmt.Sprintf("Thanks for spreading the word! %d bonus points are yours.", bonusPoints))
	s.notify(refereeID, fmt.Sprintf("Welcome! You start with %d bonus points.", s.welcomeBonus))

	return referral, nil
}

func (s *Service) completeReferralOnce(referrerID, refereeID uint, bonusPoints int) (*models.Referral, error) {
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

	var existing int64
	err := tx.Model(&models.Referral{}).
		Where("referrer_id = ? AND referee_id = ?", referrerID, refereeID).
		Count(&existing).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if existing > 0 {
		tx.Rollback()
		return nil, ErrDuplicateReferral
	}

	referral := models.Referral{
		ReferralCode: uuid.NewString(),
		ReferrerID:   referrerID,
		RefereeID:    refereeID,
		BonusPoints:  bonusPoints,
		Status:       models.ReferralCompleted,
	}

	if err := tx.Create(&referral).Error; err != nil {
		tx.Rollback()
		// The unique pair index backstops the pre-check under races
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReferral
		}
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	_, err = s.appendEventTx(tx, referrerID, models.EventEarn, bonusPoints, EventOptions{
		Note: fmt.Sprintf("referral bonus (referral %s)", referral.ReferralCode),
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	_, err = s.appendEventTx(tx, refereeID, models.EventEarn, s.welcomeBonus, EventOptions{
		Note: fmt.Sprintf("referral welcome bonus (referral %s)", referral.ReferralCode),
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit referral: %w", err)
	}
	return &referral, nil
}

// isUniqueViolation matches the duplicate-key errors the supported
// databases emit for the referral pair constraint.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
