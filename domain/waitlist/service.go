package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/constants"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
	"github.com/akeren/jobtracker-api/pkg/notify"
)

const spamStatsCacheTTL = 30 * time.Second

type Gate interface {
	Evaluate(ctx context.Context, attempt *SignupAttempt) (Decision, error)
}

type SignupEnqueuer interface {
	Enqueue(signup notify.Signup) bool
}

// StatsCache is satisfied by pkg/redis.RedisCache. A miss returns "" and no error.
type StatsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type WaitlistService interface {
	// Join runs the admission gate and inserts the entry when it is accepted.
	Join(ctx context.Context, req *JoinWaitlistRequest, meta RequestMeta) (*JoinResult, error)

	// SpamStats summarises blocked attempts over the last hours.
	SpamStats(ctx context.Context, hours int) (*SpamStatsReport, error)

	ListEntries(ctx context.Context, page, pageSize int) ([]WaitlistEntryResponse, int64, error)

	FindEntryByID(ctx context.Context, id string) (*WaitlistEntryResponse, error)

	DeleteEntry(ctx context.Context, id string) error
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	attempts   BlockedAttemptRepository
	gate       Gate
	notifier   SignupEnqueuer
	cache      StatsCache
	now        func() time.Time
}

type ServiceDeps struct {
	Repository WaitlistRepository
	Attempts   BlockedAttemptRepository
	Gate       Gate
	Notifier   SignupEnqueuer
	// Cache is optional.
	Cache StatsCache
	Now   func() time.Time
}

func NewWaitlistService(logger *log.Logger, deps ServiceDeps) WaitlistService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = discardSignups{}
	}
	return &waitlistService{
		logger:     logger,
		repository: deps.Repository,
		attempts:   deps.Attempts,
		gate:       deps.Gate,
		notifier:   notifier,
		cache:      deps.Cache,
		now:        now,
	}
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest, meta RequestMeta) (*JoinResult, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Join received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	attempt := &SignupAttempt{
		Email:        req.Email,
		SourceIP:     meta.IPAddress,
		UserAgent:    meta.UserAgent,
		BusinessType: req.BusinessType,
		Source:       req.Source,
	}

	decision, err := s.gate.Evaluate(ctx, attempt)
	if err != nil {
		logger.Error("Waitlist admission check failed", "error", err)
		return nil, err
	}

	switch decision.Outcome {
	case OutcomeDuplicate:
		return s.duplicateAccepted(ctx, attempt, "precheck"), nil
	case OutcomeReject:
		return &JoinResult{Outcome: OutcomeReject, Reason: decision.Reason}, nil
	}

	entry, err := s.repository.CreateEntry(ctx, toWaitlistEntryModel(attempt))
	if err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return s.duplicateAccepted(ctx, attempt, "insert_conflict"), nil
		}
		logger.Error("Failed to create waitlist entry", "email", log.RedactEmail(attempt.Email), "error", err)
		return nil, err
	}

	logger.Info("Waitlist signup accepted",
		"id", entry.ID,
		"email", log.RedactEmail(entry.Email),
		"ip", entry.IPAddress,
	)

	signup := notify.Signup{
		ID:           entry.ID,
		Email:        entry.Email,
		BusinessType: attempt.BusinessType,
		Source:       attempt.Source,
		CreatedAt:    entry.CreatedAt,
	}
	if !s.notifier.Enqueue(signup) {
		logger.Warn("Signup notification dropped", "id", entry.ID)
	}

	return &JoinResult{Outcome: OutcomeAccept, Entry: ToJoinResponse(entry)}, nil
}

type discardSignups struct{}

func (discardSignups) Enqueue(notify.Signup) bool { return true }

// duplicateAccepted handles both the pre-check hit and the unique-index race identically.
func (s *waitlistService) duplicateAccepted(ctx context.Context, attempt *SignupAttempt, route string) *JoinResult {
	log.GetLoggerInstanceFromContext(ctx, s.logger).Info("Waitlist signup already registered",
		"email", log.RedactEmail(attempt.Email),
		"ip", attempt.SourceIP,
		"route", route,
	)
	return &JoinResult{Outcome: OutcomeDuplicate}
}

func (s *waitlistService) SpamStats(ctx context.Context, hours int) (*SpamStatsReport, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if hours < 1 || hours > constants.MaxSpamStatsHours {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("hours must be between 1 and %d", constants.MaxSpamStatsHours), nil)
	}

	cacheKey := fmt.Sprintf("waitlist:spam-stats:%d", hours)
	if report := s.cachedStats(ctx, cacheKey); report != nil {
		return report, nil
	}

	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)

	byReason, err := s.attempts.CountByReasonSince(ctx, since)
	if err != nil {
		logger.Error("Failed to aggregate blocked attempts", "error", err)
		return nil, err
	}

	topIPs, err := s.attempts.TopIPsSince(ctx, since, constants.SpamStatsTopIPs)
	if err != nil {
		logger.Error("Failed to aggregate blocked attempts by ip", "error", err)
		return nil, err
	}

	recent, err := s.attempts.RecentSince(ctx, since, constants.SpamStatsRecent)
	if err != nil {
		logger.Error("Failed to fetch recent blocked attempts", "error", err)
		return nil, err
	}

	report := &SpamStatsReport{
		Hours:          hours,
		Since:          since.Format(constants.RFC3339DateTimeFormat),
		ByReason:       byReason,
		TopIPs:         topIPs,
		RecentAttempts: make([]BlockedAttemptResponse, 0, len(recent)),
	}
	if report.ByReason == nil {
		report.ByReason = []ReasonCount{}
	}
	if report.TopIPs == nil {
		report.TopIPs = []IPCount{}
	}
	for _, rc := range byReason {
		report.TotalBlocked += rc.Count
	}
	for _, attempt := range recent {
		report.RecentAttempts = append(report.RecentAttempts, ToBlockedAttemptResponse(attempt))
	}

	s.storeStats(ctx, cacheKey, report)
	return report, nil
}

// Cache failures only cost a recomputation.
func (s *waitlistService) cachedStats(ctx context.Context, key string) *SpamStatsReport {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}

	var report SpamStatsReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil
	}
	return &report
}

func (s *waitlistService) storeStats(ctx context.Context, key string, report *SpamStatsReport) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), spamStatsCacheTTL); err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Warn("Failed to cache spam stats", "error", err)
	}
}

func (s *waitlistService) ListEntries(ctx context.Context, page, pageSize int) ([]WaitlistEntryResponse, int64, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, total, err := s.repository.ListEntries(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, 0, err
	}

	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}

	return responses, total, nil
}

func (s *waitlistService) FindEntryByID(ctx context.Context, id string) (*WaitlistEntryResponse, error) {
	entry, err := s.repository.FindEntryByID(ctx, id)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to find waitlist entry", "id", id, "error", err)
		return nil, err
	}

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}

func (s *waitlistService) DeleteEntry(ctx context.Context, id string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.repository.DeleteEntry(ctx, id); err != nil {
		logger.Error("Failed to delete waitlist entry", "id", id, "error", err)
		return err
	}

	logger.Info("Waitlist entry deleted", "id", id)
	return nil
}
