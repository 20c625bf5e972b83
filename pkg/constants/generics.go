package constants

import "time"

const RFC3339DateTimeFormat = time.RFC3339

const (
	DefaultRateLimitRequests      = 100
	DefaultRateLimitWindowMinutes = 1
)

func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}

// Waitlist signup endpoint throttle, applied before the admission gate runs.
const (
	WaitlistJoinRequests = 10
	WaitlistJoinWindow   = time.Minute
)

const (
	DefaultSpamStatsHours = 24
	MaxSpamStatsHours     = 24 * 30
	SpamStatsTopIPs       = 10
	SpamStatsRecent       = 50
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const DefaultSignupSource = "website"
