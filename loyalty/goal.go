package loyalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// ContributeToGoal moves points from an account into a community goal:
// one redeem event attributed to the goal plus an atomic increment of the
// goal's progress, committed as a single unit. Nobody loses points to a
// goal that did not record them.
func (s *Service) ContributeToGoal(accountID, goalID uint, points int) error {
	if points <= 0 {
		return fmt.Errorf("contribution of %d points: %w", points, ErrInvalidAmount)
	}

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.contributeOnce(accountID, goalID, points)
		if err == nil {
			s.notify(accountID, fmt.Sprintf("Thanks! %d of your points went to the community goal.", points))
			return nil
		}
		if errors.Is(err, ErrConflict) {
			continue
		}
		return err
	}
	return err
}

func (s *Service) contributeOnce(accountID, goalID uint, points int) error {
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

	var goal models.CommunityGoal
	if err := tx.First(&goal, "goal_id = ?", goalID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("goal %d: %w", goalID, ErrNotFound)
		}
		return err
	}

	if !goal.Open(time.Now()) {
		tx.Rollback()
		return fmt.Errorf("goal %d: %w", goalID, ErrGoalExpiredOrInactive)
	}

	_, err := s.appendEventTx(tx, accountID, models.EventRedeem, points, EventOptions{
		GoalID: &goalID,
		Note:   fmt.Sprintf("contribution to %q", goal.Name),
	})
	if err != nil {
		tx.Rollback()
		return err
	}

	res := tx.Exec(`
		UPDATE community_goals
		SET current_points = current_points + ?, updated_at = ?
		WHERE goal_id = ? AND active = ?
	`, points, time.Now(), goalID, true)

	if res.Error != nil || res.RowsAffected == 0 {
		// The deduction above must not survive a failed increment. If
		// even the rollback fails, points have left the account with no
		// goal progress to show for it — flag for manual reconciliation
		// instead of inviting a retry that would deduct again.
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("goal increment and rollback both failed (account %d, goal %d, %d points): %w",
				accountID, goalID, points, ErrPartialFailure)
		}
		if res.Error != nil {
			return fmt.Errorf("failed to increment goal progress: %w", res.Error)
		}
		return fmt.Errorf("goal %d: %w", goalID, ErrGoalExpiredOrInactive)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit contribution: %w", err)
	}
	return nil
}
