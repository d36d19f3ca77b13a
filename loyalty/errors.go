package loyalty

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the loyalty core. Handlers match them with
// errors.Is and map them to HTTP statuses.
var (
	// ErrInvalidAmount is returned when an earn or redeem carries zero or
	// negative points. Adjustments may be negative or zero.
	ErrInvalidAmount = errors.New("invalid point amount")

	// ErrInsufficientBalance is returned when a redeem would drive the
	// account balance negative.
	ErrInsufficientBalance = errors.New("insufficient point balance")

	// ErrNotFound is returned when an account, reward, goal or redemption
	// request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed is returned when settling a redemption request
	// that already left the pending state.
	ErrAlreadyProcessed = errors.New("redemption already processed")

	// ErrTierGateNotMet is returned when the account's membership tier is
	// below the tier a reward requires.
	ErrTierGateNotMet = errors.New("membership tier requirement not met")

	// ErrDuplicateReferral is returned when a referrer/referee pair has
	// already been paid out.
	ErrDuplicateReferral = errors.New("referral already completed")

	// ErrDuplicateRequest is returned when the account already has a
	// pending redemption request for the same reward.
	ErrDuplicateRequest = errors.New("pending redemption request already exists for this reward")

	// ErrRewardInactive is returned when a reward is disabled or its
	// inventory is exhausted.
	ErrRewardInactive = errors.New("reward is not available")

	// ErrGoalExpiredOrInactive is returned when contributing to a goal
	// that is disabled or past its expiry.
	ErrGoalExpiredOrInactive = errors.New("community goal is expired or inactive")

	// ErrConflict is returned when concurrent writers kept invalidating
	// the balance compare-and-set and all retries were exhausted.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrPartialFailure is returned when a multi-step operation failed
	// midway and could not be rolled back, leaving point state that needs
	// manual intervention. Callers must not blindly retry.
	ErrPartialFailure = errors.New("partial failure, manual reconciliation required")
)

// AlreadyProcessedError carries the terminal status a redemption request
// was found in. It matches ErrAlreadyProcessed under errors.Is.
type AlreadyProcessedError struct {
	Status string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("redemption already processed (status: %s)", e.Status)
}

func (e *AlreadyProcessedError) Is(target error) bool {
	return target == ErrAlreadyProcessed
}
