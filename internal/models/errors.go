package models

import "errors"

// Failure taxonomy. I/O-facing failures are converted to one of these at the
// component boundary; domain conditions (NoTarget, NoRecord, Expired) are
// user-visible messages, not logged as errors.
var (
	ErrStoreUnavailable = errors.New("item store unavailable")
	ErrConfigCorrupt    = errors.New("group config corrupt")
	ErrNetworkFailure   = errors.New("remote catalog unavailable")
	ErrNoTarget         = errors.New("no target resolved")
	ErrNoRecord         = errors.New("no record for target")
	ErrExpired          = errors.New("current assignment expired")
	ErrRateLimited      = errors.New("daily attempt limit reached")
	ErrFeatureDisabled  = errors.New("ntr feature disabled for group")
	ErrNotAdmin         = errors.New("caller is not an admin")
	ErrSelfTarget       = errors.New("cannot target yourself")
)
