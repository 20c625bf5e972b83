package config

import (
	"fmt"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/spamcheck"
	"github.com/akeren/jobtracker-api/pkg/utils"
)

// LoadPolicy reads SPAM_POLICY_FILE over the embedded default, then applies the
// WAITLIST_* threshold variables.
func LoadPolicy(logger *log.Logger) (*spamcheck.Policy, error) {
	path := utils.GetEnvTrimmed("SPAM_POLICY_FILE")

	policy, err := spamcheck.LoadPolicy(path)
	if err != nil {
		logger.Error("Failed to load spam policy", "path", path, "error", err)
		return nil, err
	}

	policy = policy.Merge(&spamcheck.Policy{Thresholds: spamcheck.Thresholds{
		HourlyPerIP:         utils.GetEnvPositiveInt("WAITLIST_HOURLY_LIMIT", 0),
		DailyPerIP:          utils.GetEnvPositiveInt("WAITLIST_DAILY_LIMIT", 0),
		DistinctEmailsPerIP: utils.GetEnvPositiveInt("WAITLIST_DISTINCT_EMAILS_PER_IP", 0),
		SimilarLocalPart:    utils.GetEnvPositiveInt("WAITLIST_SIMILAR_LOCAL_PART_LIMIT", 0),
	}})

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spam policy: %w", err)
	}

	logger.Info("Spam policy loaded",
		"file", path,
		"hourly_per_ip", policy.Thresholds.HourlyPerIP,
		"daily_per_ip", policy.Thresholds.DailyPerIP,
		"distinct_emails_per_ip", policy.Thresholds.DistinctEmailsPerIP,
		"similar_local_part", policy.Thresholds.SimilarLocalPart,
		"disposable_domains", len(policy.DisposableDomains),
	)

	return policy, nil
}
