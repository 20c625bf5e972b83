package waitlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/constants"
	"github.com/akeren/jobtracker-api/pkg/spamcheck"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Reject reasons, also stored as BlockedAttempt.BlockReason.
const (
	ReasonInvalidFormat       = "invalid_format"
	ReasonRateLimitHour       = "rate_limit_hour"
	ReasonRateLimitDay        = "rate_limit_day"
	ReasonDisposableEmail     = "disposable_email"
	ReasonSuspiciousEmail     = "suspicious_email"
	ReasonSuspiciousUserAgent = "suspicious_user_agent"
	ReasonTooManyEmailsPerIP  = "too_many_emails_per_ip"
	ReasonSimilarEmails       = "similar_emails_detected"
)

const minSimilarLocalPartLength = 3

type Outcome int

const (
	OutcomeAccept Outcome = iota
	OutcomeDuplicate
	OutcomeReject
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccept:
		return "accept"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeReject:
		return "reject"
	default:
		return "unknown"
	}
}

type SignupAttempt struct {
	Email        string
	SourceIP     string
	UserAgent    string
	BusinessType string
	Source       string
	Timestamp    time.Time
}

type Decision struct {
	Outcome Outcome
	Reason  string
}

type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckFail
	// CheckIndeterminate means the check could not be evaluated; the gate treats it as a pass.
	CheckIndeterminate
)

type CheckResult struct {
	Status CheckStatus
	Reason string
	Cause  error
}

func pass() CheckResult { return CheckResult{Status: CheckPass} }

func fail(reason string) CheckResult { return CheckResult{Status: CheckFail, Reason: reason} }

func indeterminate(cause error) CheckResult {
	return CheckResult{Status: CheckIndeterminate, Cause: cause}
}

// DuplicateChecker is the single-row lookup the gate cannot fail open on.
type DuplicateChecker interface {
	Exists(ctx context.Context, email string) (bool, error)
}

type Ledger interface {
	Record(ctx context.Context, ip, email, userAgent, reason string, at time.Time)
}

type AdmissionGate struct {
	entries    DuplicateChecker
	counts     RateLimitStore
	ledger     Ledger
	emails     *spamcheck.EmailClassifier
	userAgents *spamcheck.UserAgentClassifier
	thresholds spamcheck.Thresholds
	metrics    *GateMetrics
	logger     *log.Logger
	now        func() time.Time
}

type GateOption func(*AdmissionGate)

func WithClock(now func() time.Time) GateOption {
	return func(g *AdmissionGate) { g.now = now }
}

func WithMetrics(m *GateMetrics) GateOption {
	return func(g *AdmissionGate) { g.metrics = m }
}

func NewAdmissionGate(
	entries DuplicateChecker,
	counts RateLimitStore,
	ledger Ledger,
	policy *spamcheck.Policy,
	logger *log.Logger,
	opts ...GateOption,
) *AdmissionGate {
	g := &AdmissionGate{
		entries:    entries,
		counts:     counts,
		ledger:     ledger,
		emails:     spamcheck.NewEmailClassifier(policy),
		userAgents: spamcheck.NewUserAgentClassifier(policy),
		thresholds: policy.Thresholds,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type namedCheck struct {
	name string
	run  func(ctx context.Context, a *SignupAttempt, verdict spamcheck.EmailVerdict) CheckResult
}

// Evaluate runs the checks in order and stops at the first failure. The returned error is
// only set when the duplicate lookup fails.
func (g *AdmissionGate) Evaluate(ctx context.Context, attempt *SignupAttempt) (Decision, error) {
	ctx, span := otel.Tracer("waitlist").Start(ctx, "waitlist.gate.evaluate")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, g.logger)

	attempt.Email = strings.TrimSpace(attempt.Email)
	attempt.Timestamp = g.now().UTC()
	if strings.TrimSpace(attempt.SourceIP) == "" {
		attempt.SourceIP = spamcheck.UnknownValue
	}
	if strings.TrimSpace(attempt.Source) == "" {
		attempt.Source = constants.DefaultSignupSource
	}

	verdict := g.emails.Classify(attempt.Email)
	if !verdict.FormatValid {
		g.metrics.observe(OutcomeReject, ReasonInvalidFormat)
		span.SetAttributes(attribute.String("waitlist.outcome", "reject"), attribute.String("waitlist.reason", ReasonInvalidFormat))
		return Decision{Outcome: OutcomeReject, Reason: ReasonInvalidFormat}, nil
	}

	exists, err := g.entries.Exists(ctx, attempt.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate lookup failed")
		return Decision{}, fmt.Errorf("waitlist gate: duplicate lookup: %w", err)
	}
	if exists {
		g.metrics.observe(OutcomeDuplicate, "")
		span.SetAttributes(attribute.String("waitlist.outcome", "duplicate"))
		return Decision{Outcome: OutcomeDuplicate}, nil
	}

	for _, check := range g.checks() {
		result := check.run(ctx, attempt, verdict)

		switch result.Status {
		case CheckIndeterminate:
			g.metrics.observeIndeterminate(check.name)
			logger.Warn("Waitlist gate check skipped, failing open",
				"check", check.name,
				"ip", attempt.SourceIP,
				"error", result.Cause,
			)
		case CheckFail:
			g.ledger.Record(ctx, attempt.SourceIP, attempt.Email, attempt.UserAgent, result.Reason, attempt.Timestamp)
			g.metrics.observe(OutcomeReject, result.Reason)
			span.SetAttributes(attribute.String("waitlist.outcome", "reject"), attribute.String("waitlist.reason", result.Reason))
			logger.Info("Waitlist signup rejected",
				"reason", result.Reason,
				"ip", attempt.SourceIP,
				"email", log.RedactEmail(attempt.Email),
			)
			return Decision{Outcome: OutcomeReject, Reason: result.Reason}, nil
		}
	}

	g.metrics.observe(OutcomeAccept, "")
	span.SetAttributes(attribute.String("waitlist.outcome", "accept"))
	return Decision{Outcome: OutcomeAccept}, nil
}

func (g *AdmissionGate) checks() []namedCheck {
	return []namedCheck{
		{"ip_hourly", g.checkIPHourly},
		{"ip_daily", g.checkIPDaily},
		{"email_reputation", g.checkEmailReputation},
		{"user_agent", g.checkUserAgent},
		{"distinct_emails_per_ip", g.checkDistinctEmailsPerIP},
		{"similar_local_part", g.checkSimilarLocalPart},
	}
}

func (g *AdmissionGate) countAtLeast(count int64, err error, threshold int, reason string) CheckResult {
	if err != nil {
		return indeterminate(err)
	}
	if count >= int64(threshold) {
		return fail(reason)
	}
	return pass()
}

// IP-scoped checks skip the "unknown" sentinel: those callers cannot be told apart.
func (g *AdmissionGate) checkIPHourly(ctx context.Context, a *SignupAttempt, _ spamcheck.EmailVerdict) CheckResult {
	if a.SourceIP == spamcheck.UnknownValue {
		return pass()
	}
	count, err := g.counts.CountByIPSince(ctx, a.SourceIP, a.Timestamp.Add(-time.Hour))
	return g.countAtLeast(count, err, g.thresholds.HourlyPerIP, ReasonRateLimitHour)
}

func (g *AdmissionGate) checkIPDaily(ctx context.Context, a *SignupAttempt, _ spamcheck.EmailVerdict) CheckResult {
	if a.SourceIP == spamcheck.UnknownValue {
		return pass()
	}
	count, err := g.counts.CountByIPSince(ctx, a.SourceIP, a.Timestamp.Add(-24*time.Hour))
	return g.countAtLeast(count, err, g.thresholds.DailyPerIP, ReasonRateLimitDay)
}

func (g *AdmissionGate) checkEmailReputation(_ context.Context, _ *SignupAttempt, v spamcheck.EmailVerdict) CheckResult {
	switch {
	case v.IsDisposable:
		return fail(ReasonDisposableEmail)
	case v.IsSuspicious:
		return fail(ReasonSuspiciousEmail)
	default:
		return pass()
	}
}

func (g *AdmissionGate) checkUserAgent(_ context.Context, a *SignupAttempt, _ spamcheck.EmailVerdict) CheckResult {
	if g.userAgents.IsSuspicious(a.UserAgent) {
		return fail(ReasonSuspiciousUserAgent)
	}
	return pass()
}

func (g *AdmissionGate) checkDistinctEmailsPerIP(ctx context.Context, a *SignupAttempt, _ spamcheck.EmailVerdict) CheckResult {
	if a.SourceIP == spamcheck.UnknownValue {
		return pass()
	}
	count, err := g.counts.CountDistinctEmailsByIPSince(ctx, a.SourceIP, a.Timestamp.Add(-24*time.Hour))
	return g.countAtLeast(count, err, g.thresholds.DistinctEmailsPerIP, ReasonTooManyEmailsPerIP)
}

func (g *AdmissionGate) checkSimilarLocalPart(ctx context.Context, a *SignupAttempt, _ spamcheck.EmailVerdict) CheckResult {
	local, _, ok := spamcheck.SplitEmail(a.Email)
	if !ok || len(local) < minSimilarLocalPartLength {
		return pass()
	}
	count, err := g.counts.CountSimilarLocalPartSince(ctx, local, a.Timestamp.Add(-24*time.Hour))
	return g.countAtLeast(count, err, g.thresholds.SimilarLocalPart, ReasonSimilarEmails)
}
