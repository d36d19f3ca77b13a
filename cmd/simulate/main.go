package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/config"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/loyalty"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// Traffic generator for the loyalty core. It hammers the same handful of
// accounts from many workers at once, deliberately over-requesting
// rewards so settlement has to resolve the contention, then reconciles
// every balance against the event history at the end.
func main() {
	var (
		accounts   = flag.Int("accounts", 5, "Number of simulated accounts")
		workers    = flag.Int("workers", 8, "Number of concurrent workers")
		ops        = flag.Int("ops", 200, "Operations per worker")
		noQueryLog = flag.Bool("no-query-log", true, "Disable query logging during simulation")
	)
	flag.Parse()

	rand.Seed(time.Now().UnixNano())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.InitializeWithOptions(&cfg.Database, *noQueryLog); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	log.Println("✅ Connected to database successfully")

	svc := loyalty.New(db, loyalty.Options{
		Thresholds: loyalty.Thresholds{
			SilverAt: cfg.Loyalty.SilverAt,
			GoldAt:   cfg.Loyalty.GoldAt,
		},
		VisitPoints:  cfg.Loyalty.VisitPoints,
		WelcomeBonus: cfg.Loyalty.WelcomeBonus,
		Notifier:     silentNotifier{},
	})

	accountIDs := setupAccounts(db, *accounts)
	rewardID := setupReward(db)

	var (
		earned       int64
		requested    int64
		approved     int64
		rejected     int64
		insufficient int64
		conflicts    int64
		other        int64
	)

	log.Printf("Running %d workers x %d ops against %d accounts...", *workers, *ops, len(accountIDs))
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			for i := 0; i < *ops; i++ {
				accountID := accountIDs[rng.Intn(len(accountIDs))]

				switch rng.Intn(10) {
				case 0, 1, 2, 3, 4:
					// Earn points through a visit
					if _, err := svc.RecordVisit(accountID); err == nil {
						atomic.AddInt64(&earned, 1)
					} else {
						count(err, &conflicts, &insufficient, &other)
					}
				case 5, 6:
					// File a redemption request; duplicates expected
					if _, err := svc.RequestRedemption(accountID, rewardID); err == nil {
						atomic.AddInt64(&requested, 1)
					} else if !errors.Is(err, loyalty.ErrDuplicateRequest) &&
						!errors.Is(err, loyalty.ErrInsufficientBalance) {
						count(err, &conflicts, &insufficient, &other)
					}
				default:
					// Settle a random pending request
					var pending models.RedemptionRequest
					err := db.Where("status = ?", models.RedemptionPending).
						Order("created_at").First(&pending).Error
					if err != nil {
						continue
					}

					if rng.Intn(4) == 0 {
						if err := svc.Reject(pending.RedemptionID); err == nil {
							atomic.AddInt64(&rejected, 1)
						}
						continue
					}

					switch err := svc.Approve(pending.RedemptionID); {
					case err == nil:
						atomic.AddInt64(&approved, 1)
					case errors.Is(err, loyalty.ErrInsufficientBalance):
						// Balance moved since the request: the expected
						// compensation path
						atomic.AddInt64(&insufficient, 1)
					case errors.Is(err, loyalty.ErrAlreadyProcessed):
						// Lost the settlement race to another worker
					default:
						count(err, &conflicts, &insufficient, &other)
					}
				}
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()

	log.Printf("Simulation finished in %s", time.Since(start).Round(time.Millisecond))
	log.Printf("  earns: %d, requests: %d, approved: %d, rejected: %d", earned, requested, approved, rejected)
	log.Printf("  insufficient at settlement: %d, conflicts: %d, other errors: %d", insufficient, conflicts, other)

	// Every balance must still equal its event sum
	clean := true
	for _, id := range accountIDs {
		report, err := svc.ReconcileBalance(id)
		if err != nil {
			log.Printf("  ⚠ Reconcile failed for account %d: %v", id, err)
			clean = false
			continue
		}
		if !report.Consistent {
			log.Printf("  ✗ Account %d INCONSISTENT: balance %d, event sum %d", id, report.Balance, report.EventSum)
			clean = false
		}
	}

	if clean {
		log.Println("✅ All account balances reconcile against their ledgers")
	} else {
		log.Fatal("❌ Ledger inconsistency detected")
	}
}

func count(err error, conflicts, insufficient, other *int64) {
	switch {
	case errors.Is(err, loyalty.ErrConflict):
		atomic.AddInt64(conflicts, 1)
	case errors.Is(err, loyalty.ErrInsufficientBalance):
		atomic.AddInt64(insufficient, 1)
	default:
		atomic.AddInt64(other, 1)
	}
}

func setupAccounts(db *gorm.DB, n int) []uint {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		account := models.Account{
			FullName:       fmt.Sprintf("Sim Account %d", i+1),
			Email:          fmt.Sprintf("sim%d@example.com", i+1),
			MembershipTier: models.TierBronze,
		}
		if err := db.Where("email = ?", account.Email).FirstOrCreate(&account).Error; err != nil {
			log.Fatalf("Failed to create simulation account: %v", err)
		}
		ids = append(ids, account.AccountID)
	}
	return ids
}

func setupReward(db *gorm.DB) uint {
	reward := models.Reward{
		Name:           "Simulation Latte",
		PointsRequired: 25,
		Active:         true,
	}
	if err := db.Where("name = ?", reward.Name).FirstOrCreate(&reward).Error; err != nil {
		log.Fatalf("Failed to create simulation reward: %v", err)
	}
	return reward.RewardID
}

type silentNotifier struct{}

func (silentNotifier) Notify(accountID uint, message string) error { return nil }
