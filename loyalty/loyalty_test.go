package loyalty

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and
	// serializes writers the way the production pool's row locks do
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// recordingNotifier captures notifications instead of logging them.
type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(accountID uint, message string) error {
	n.messages = append(n.messages, fmt.Sprintf("%d: %s", accountID, message))
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(newTestDB(t), Options{Notifier: &recordingNotifier{}})
}

func createAccount(t *testing.T, svc *Service, name string, points int) *models.Account {
	t.Helper()

	account := models.Account{
		FullName:       name,
		Email:          strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		MembershipTier: models.TierBronze,
	}
	require.NoError(t, svc.db.Create(&account).Error)

	if points > 0 {
		_, err := svc.AppendEvent(account.AccountID, models.EventEarn, points, EventOptions{Note: "test funding"})
		require.NoError(t, err)
	}
	return &account
}

func createReward(t *testing.T, svc *Service, name string, cost int) *models.Reward {
	t.Helper()

	reward := models.Reward{
		Name:           name,
		PointsRequired: cost,
		Active:         true,
	}
	require.NoError(t, svc.db.Create(&reward).Error)
	return &reward
}

func createGoal(t *testing.T, svc *Service, name string, target int) *models.CommunityGoal {
	t.Helper()

	goal := models.CommunityGoal{
		Name:         name,
		TargetPoints: target,
		Active:       true,
	}
	require.NoError(t, svc.db.Create(&goal).Error)
	return &goal
}

func balanceOf(t *testing.T, svc *Service, accountID uint) int {
	t.Helper()
	balance, err := svc.GetBalance(accountID)
	require.NoError(t, err)
	return balance
}

func redeemEventCount(t *testing.T, svc *Service, accountID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, svc.db.Model(&models.LedgerEvent{}).
		Where("account_id = ? AND kind = ?", accountID, models.EventRedeem).
		Count(&count).Error)
	return count
}
